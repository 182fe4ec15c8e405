package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/impactprize/platform/backend/internal/models"
	"github.com/impactprize/platform/backend/internal/richtext"
)

const profilesPerPage = 12

// socialPlatforms are the only keys accepted in social_links.
var socialPlatforms = map[string]bool{
	"facebook":  true,
	"twitter":   true,
	"linkedin":  true,
	"instagram": true,
}

type ProfileHandler struct {
	db        *gorm.DB
	uploadDir string
}

func NewProfileHandler(db *gorm.DB, uploadDir string) *ProfileHandler {
	return &ProfileHandler{db: db, uploadDir: uploadDir}
}

func voteStats(db *gorm.DB, profileID int, viewer *models.User) (int64, bool) {
	var count int64
	db.Model(&models.Vote{}).Where("profile_id = ?", profileID).Count(&count)

	voted := false
	if viewer != nil {
		var mine int64
		db.Model(&models.Vote{}).Where("profile_id = ? AND user_id = ?", profileID, viewer.ID).Count(&mine)
		voted = mine > 0
	}
	return count, voted
}

func profileResponse(db *gorm.DB, profile *models.Profile, viewer *models.User) gin.H {
	votes, voted := voteStats(db, profile.ID, viewer)

	var links map[string]string
	if profile.SocialLinks != "" {
		_ = json.Unmarshal([]byte(profile.SocialLinks), &links)
	}

	return gin.H{
		"id":                profile.ID,
		"organization_name": profile.OrganizationName,
		"country":           profile.Country,
		"category_id":       profile.CategoryID,
		"category":          profile.Category,
		"summary":           profile.Summary,
		"why_win":           profile.WhyWin,
		"how_help":          profile.HowHelp,
		"website_url":       profile.WebsiteURL,
		"founder_video_url": profile.FounderVideoURL,
		"social_links":      links,
		"logo":              profile.LogoPath,
		"pitch_deck":        profile.PitchDeckPath,
		"status":            profile.Status,
		"rejection_reason":  profile.RejectionReason,
		"votes_count":       votes,
		"is_voted":          voted,
		"created_at":        profile.CreatedAt,
		"updated_at":        profile.UpdatedAt,
	}
}

// GetProfiles lists approved profiles with search, pagination and an
// optional category filter.
func (h *ProfileHandler) GetProfiles(c *gin.Context) {
	viewer, _ := currentUser(c)

	query := h.db.Model(&models.Profile{}).Preload("Category").
		Where("status = ?", models.StatusApproved)

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query = query.Where("LOWER(organization_name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	if slug := c.Query("category_slug"); slug != "" {
		var category models.Category
		if err := h.db.Where("slug = ?", slug).First(&category).Error; err != nil {
			respond(c, http.StatusOK, gin.H{"profiles": []gin.H{}, "meta": pageMeta(0, 1, profilesPerPage)}, "")
			return
		}
		query = query.Where("category_id = ?", category.ID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch profiles")
		return
	}

	page := pageParam(c)
	var profiles []models.Profile
	if err := query.Order("created_at desc").
		Limit(profilesPerPage).Offset((page - 1) * profilesPerPage).
		Find(&profiles).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch profiles")
		return
	}

	responses := make([]gin.H, 0, len(profiles))
	for i := range profiles {
		responses = append(responses, profileResponse(h.db, &profiles[i], viewer))
	}

	respond(c, http.StatusOK, gin.H{
		"profiles": responses,
		"meta":     pageMeta(total, page, profilesPerPage),
	}, "")
}

// GetProfile returns a single public profile by ID. Unapproved profiles are
// visible only to their owner and admins.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	viewer, _ := currentUser(c)

	var profile models.Profile
	if err := h.db.Preload("Category").First(&profile, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Profile not found")
		return
	}

	if profile.Status != models.StatusApproved {
		allowed := viewer != nil && (viewer.ID == profile.UserID || viewer.IsAdmin())
		if !allowed {
			respondError(c, http.StatusNotFound, "Profile not found")
			return
		}
	}

	respond(c, http.StatusOK, profileResponse(h.db, &profile, viewer), "")
}

// GetMyProfile returns the submitter's own profile.
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	var profile models.Profile
	if err := h.db.Preload("Category").Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		respondError(c, http.StatusNotFound, "Profile not found")
		return
	}

	respond(c, http.StatusOK, profileResponse(h.db, &profile, user), "")
}

// SaveProfile creates or updates the submitter's profile from a multipart
// form. save_as_draft keeps the submission out of review; anything else
// moves draft/rejected submissions to pending. Approved profiles are locked
// for their owner.
func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	if user.AccountType == models.AccountTypeVoter {
		respondError(c, http.StatusForbidden, "Voter accounts cannot submit a profile")
		return
	}

	var profile models.Profile
	err := h.db.Where("user_id = ?", user.ID).First(&profile).Error
	isNew := err == gorm.ErrRecordNotFound
	if err != nil && !isNew {
		respondError(c, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	if !isNew && !profile.Editable() {
		respondError(c, http.StatusForbidden, "Approved profiles can no longer be edited")
		return
	}

	orgName := strings.TrimSpace(c.PostForm("organization_name"))
	if orgName == "" {
		respondError(c, http.StatusUnprocessableEntity, "Organization name is required")
		return
	}

	richFields := map[string]string{
		"summary":  c.PostForm("summary"),
		"why_win":  c.PostForm("why_win"),
		"how_help": c.PostForm("how_help"),
	}
	for field, value := range richFields {
		if !richtext.WithinLimit(value, models.RichTextLimit) {
			respondError(c, http.StatusUnprocessableEntity,
				fmt.Sprintf("%s must be %d characters or fewer", field, models.RichTextLimit))
			return
		}
	}

	socialLinks := c.PostForm("social_links")
	if socialLinks != "" {
		var links map[string]string
		if err := json.Unmarshal([]byte(socialLinks), &links); err != nil {
			respondError(c, http.StatusUnprocessableEntity, "Invalid social links")
			return
		}
		for platform := range links {
			if !socialPlatforms[platform] {
				respondError(c, http.StatusUnprocessableEntity, "Unknown social platform: "+platform)
				return
			}
		}
	}

	if categoryID := c.PostForm("category_id"); categoryID != "" {
		id, err := strconv.Atoi(categoryID)
		if err != nil {
			respondError(c, http.StatusUnprocessableEntity, "Invalid category")
			return
		}
		profile.CategoryID = id
	}

	if logo, err := c.FormFile("logo"); err == nil {
		path, err := saveUpload(c, logo, h.uploadDir)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to store logo")
			return
		}
		profile.LogoPath = path
	} else if isNew {
		respondError(c, http.StatusUnprocessableEntity, "Logo is required")
		return
	}

	if deck, err := c.FormFile("pitch_deck"); err == nil {
		path, err := saveUpload(c, deck, h.uploadDir)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to store pitch deck")
			return
		}
		profile.PitchDeckPath = path
	}

	profile.OrganizationName = orgName
	profile.Country = c.PostForm("country")
	profile.Summary = richFields["summary"]
	profile.WhyWin = richFields["why_win"]
	profile.HowHelp = richFields["how_help"]
	profile.WebsiteURL = c.PostForm("website_url")
	profile.FounderVideoURL = c.PostForm("founder_video_url")
	profile.SocialLinks = socialLinks
	profile.UserID = user.ID

	saveAsDraft := c.PostForm("save_as_draft")
	if saveAsDraft == "1" || saveAsDraft == "true" {
		profile.Status = models.StatusDraft
	} else {
		// draft/rejected (re)submissions enter review
		profile.Status = models.StatusPending
		profile.RejectionReason = ""
	}

	if err := h.db.Save(&profile).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to save profile")
		return
	}

	if user.AccountType == "" {
		user.AccountType = models.AccountTypeSubmitter
		h.db.Save(user)
	}

	status := http.StatusOK
	message := "Profile saved"
	if isNew {
		status = http.StatusCreated
	}
	if profile.Status == models.StatusPending {
		message = "Profile submitted for review"
	}

	h.db.Preload("Category").First(&profile, profile.ID)
	respond(c, status, profileResponse(h.db, &profile, user), message)
}
