package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/impactprize/platform/backend/internal/models"
)

// ReferenceHandler serves the reference records behind the public site and
// the admin CRUD screens: categories, judges, partners and FAQs.
type ReferenceHandler struct {
	db        *gorm.DB
	uploadDir string
}

func NewReferenceHandler(db *gorm.DB, uploadDir string) *ReferenceHandler {
	return &ReferenceHandler{db: db, uploadDir: uploadDir}
}

// slugify turns "Health & Wellbeing" into "health-wellbeing".
func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func formBool(c *gin.Context, key string, def bool) bool {
	v := c.PostForm(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// --- Categories ---

// ListCategories returns active categories for the public site.
func (h *ReferenceHandler) ListCategories(c *gin.Context) {
	var categories []models.Category
	if err := h.db.Where("is_active = ?", true).Order("name asc").Find(&categories).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}
	respond(c, http.StatusOK, categories, "")
}

// AdminListCategories returns every category, inactive included.
func (h *ReferenceHandler) AdminListCategories(c *gin.Context) {
	var categories []models.Category
	if err := h.db.Order("name asc").Find(&categories).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}
	respond(c, http.StatusOK, categories, "")
}

func (h *ReferenceHandler) CreateCategory(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		IsActive *bool  `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	category := models.Category{
		Name:     input.Name,
		Slug:     slugify(input.Name),
		IsActive: true,
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if err := h.db.Create(&category).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create category")
		return
	}
	respond(c, http.StatusCreated, category, "Category created")
}

// UpdateCategory renames or toggles a category. The slug is fixed at
// creation so public filter links stay valid.
func (h *ReferenceHandler) UpdateCategory(c *gin.Context) {
	var category models.Category
	if err := h.db.First(&category, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Category not found")
		return
	}

	var input struct {
		Name     string `json:"name"`
		IsActive *bool  `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if input.Name != "" {
		category.Name = input.Name
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if err := h.db.Save(&category).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update category")
		return
	}
	respond(c, http.StatusOK, category, "Category updated")
}

func (h *ReferenceHandler) DeleteCategory(c *gin.Context) {
	var category models.Category
	if err := h.db.First(&category, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Category not found")
		return
	}
	if err := h.db.Delete(&category).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete category")
		return
	}
	respond(c, http.StatusOK, nil, "Category deleted successfully")
}

// --- Judges ---

func (h *ReferenceHandler) ListJudges(c *gin.Context) {
	var judges []models.Judge
	if err := h.db.Where("is_active = ?", true).Order("sort_order asc, id asc").Find(&judges).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch judges")
		return
	}
	respond(c, http.StatusOK, judges, "")
}

func (h *ReferenceHandler) AdminListJudges(c *gin.Context) {
	var judges []models.Judge
	if err := h.db.Order("sort_order asc, id asc").Find(&judges).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch judges")
		return
	}
	respond(c, http.StatusOK, judges, "")
}

// CreateJudge accepts a multipart form so the photo uploads with the rest
// of the record.
func (h *ReferenceHandler) CreateJudge(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		respondError(c, http.StatusUnprocessableEntity, "Name is required")
		return
	}

	sortOrder, _ := strconv.Atoi(c.PostForm("sort_order"))
	judge := models.Judge{
		Name:      name,
		Title:     c.PostForm("title"),
		Bio:       c.PostForm("bio"),
		SortOrder: sortOrder,
		IsActive:  formBool(c, "is_active", true),
	}

	if photo, err := c.FormFile("photo"); err == nil {
		path, err := saveUpload(c, photo, h.uploadDir)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to store photo")
			return
		}
		judge.PhotoPath = path
	}

	if err := h.db.Create(&judge).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create judge")
		return
	}
	respond(c, http.StatusCreated, judge, "Judge created")
}

func (h *ReferenceHandler) UpdateJudge(c *gin.Context) {
	var judge models.Judge
	if err := h.db.First(&judge, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Judge not found")
		return
	}

	if name := strings.TrimSpace(c.PostForm("name")); name != "" {
		judge.Name = name
	}
	if title := c.PostForm("title"); title != "" {
		judge.Title = title
	}
	if bio := c.PostForm("bio"); bio != "" {
		judge.Bio = bio
	}
	if order := c.PostForm("sort_order"); order != "" {
		if n, err := strconv.Atoi(order); err == nil {
			judge.SortOrder = n
		}
	}
	judge.IsActive = formBool(c, "is_active", judge.IsActive)

	if photo, err := c.FormFile("photo"); err == nil {
		path, err := saveUpload(c, photo, h.uploadDir)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to store photo")
			return
		}
		judge.PhotoPath = path
	}

	if err := h.db.Save(&judge).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update judge")
		return
	}
	respond(c, http.StatusOK, judge, "Judge updated")
}

func (h *ReferenceHandler) DeleteJudge(c *gin.Context) {
	var judge models.Judge
	if err := h.db.First(&judge, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Judge not found")
		return
	}
	if err := h.db.Delete(&judge).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete judge")
		return
	}
	respond(c, http.StatusOK, nil, "Judge deleted successfully")
}

// --- Partners ---

func (h *ReferenceHandler) ListPartners(c *gin.Context) {
	var partners []models.Partner
	if err := h.db.Where("is_active = ?", true).Order("sort_order asc, id asc").Find(&partners).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch partners")
		return
	}
	respond(c, http.StatusOK, partners, "")
}

func (h *ReferenceHandler) AdminListPartners(c *gin.Context) {
	var partners []models.Partner
	if err := h.db.Order("sort_order asc, id asc").Find(&partners).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch partners")
		return
	}
	respond(c, http.StatusOK, partners, "")
}

func (h *ReferenceHandler) CreatePartner(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		respondError(c, http.StatusUnprocessableEntity, "Name is required")
		return
	}

	sortOrder, _ := strconv.Atoi(c.PostForm("sort_order"))
	partner := models.Partner{
		Name:       name,
		WebsiteURL: c.PostForm("website_url"),
		SortOrder:  sortOrder,
		IsActive:   formBool(c, "is_active", true),
	}

	if logo, err := c.FormFile("logo"); err == nil {
		path, err := saveUpload(c, logo, h.uploadDir)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to store logo")
			return
		}
		partner.LogoPath = path
	}

	if err := h.db.Create(&partner).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create partner")
		return
	}
	respond(c, http.StatusCreated, partner, "Partner created")
}

func (h *ReferenceHandler) UpdatePartner(c *gin.Context) {
	var partner models.Partner
	if err := h.db.First(&partner, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Partner not found")
		return
	}

	if name := strings.TrimSpace(c.PostForm("name")); name != "" {
		partner.Name = name
	}
	if url := c.PostForm("website_url"); url != "" {
		partner.WebsiteURL = url
	}
	if order := c.PostForm("sort_order"); order != "" {
		if n, err := strconv.Atoi(order); err == nil {
			partner.SortOrder = n
		}
	}
	partner.IsActive = formBool(c, "is_active", partner.IsActive)

	if logo, err := c.FormFile("logo"); err == nil {
		path, err := saveUpload(c, logo, h.uploadDir)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to store logo")
			return
		}
		partner.LogoPath = path
	}

	if err := h.db.Save(&partner).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update partner")
		return
	}
	respond(c, http.StatusOK, partner, "Partner updated")
}

func (h *ReferenceHandler) DeletePartner(c *gin.Context) {
	var partner models.Partner
	if err := h.db.First(&partner, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Partner not found")
		return
	}
	if err := h.db.Delete(&partner).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete partner")
		return
	}
	respond(c, http.StatusOK, nil, "Partner deleted successfully")
}

// --- FAQs ---

func (h *ReferenceHandler) ListFAQs(c *gin.Context) {
	var faqs []models.FAQ
	if err := h.db.Where("is_active = ?", true).Order("sort_order asc, id asc").Find(&faqs).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch FAQs")
		return
	}
	respond(c, http.StatusOK, faqs, "")
}

func (h *ReferenceHandler) AdminListFAQs(c *gin.Context) {
	var faqs []models.FAQ
	if err := h.db.Order("sort_order asc, id asc").Find(&faqs).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch FAQs")
		return
	}
	respond(c, http.StatusOK, faqs, "")
}

func (h *ReferenceHandler) CreateFAQ(c *gin.Context) {
	var input struct {
		Question  string `json:"question" binding:"required"`
		Answer    string `json:"answer" binding:"required"`
		SortOrder int    `json:"sort_order"`
		IsActive  *bool  `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	faq := models.FAQ{
		Question:  input.Question,
		Answer:    input.Answer,
		SortOrder: input.SortOrder,
		IsActive:  true,
	}
	if input.IsActive != nil {
		faq.IsActive = *input.IsActive
	}

	if err := h.db.Create(&faq).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create FAQ")
		return
	}
	respond(c, http.StatusCreated, faq, "FAQ created")
}

func (h *ReferenceHandler) UpdateFAQ(c *gin.Context) {
	var faq models.FAQ
	if err := h.db.First(&faq, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "FAQ not found")
		return
	}

	var input struct {
		Question  string `json:"question"`
		Answer    string `json:"answer"`
		SortOrder *int   `json:"sort_order"`
		IsActive  *bool  `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if input.Question != "" {
		faq.Question = input.Question
	}
	if input.Answer != "" {
		faq.Answer = input.Answer
	}
	if input.SortOrder != nil {
		faq.SortOrder = *input.SortOrder
	}
	if input.IsActive != nil {
		faq.IsActive = *input.IsActive
	}

	if err := h.db.Save(&faq).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update FAQ")
		return
	}
	respond(c, http.StatusOK, faq, "FAQ updated")
}

func (h *ReferenceHandler) DeleteFAQ(c *gin.Context) {
	var faq models.FAQ
	if err := h.db.First(&faq, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "FAQ not found")
		return
	}
	if err := h.db.Delete(&faq).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete FAQ")
		return
	}
	respond(c, http.StatusOK, nil, "FAQ deleted successfully")
}
