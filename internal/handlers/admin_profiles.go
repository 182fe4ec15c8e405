package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/impactprize/platform/backend/internal/models"
	"github.com/impactprize/platform/backend/internal/richtext"
)

const adminProfilesPerPage = 15

// AdminProfileHandler moderates submissions. Admin edits are a privileged
// override: they do not go through the submitter's transition rules.
type AdminProfileHandler struct {
	db *gorm.DB
}

func NewAdminProfileHandler(db *gorm.DB) *AdminProfileHandler {
	return &AdminProfileHandler{db: db}
}

// List returns profiles in every state, filterable by status and search.
func (h *AdminProfileHandler) List(c *gin.Context) {
	query := h.db.Model(&models.Profile{}).Preload("Category").Preload("User")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query = query.Where("LOWER(organization_name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch profiles")
		return
	}

	page := pageParam(c)
	var profiles []models.Profile
	if err := query.Order("created_at desc").
		Limit(adminProfilesPerPage).Offset((page - 1) * adminProfilesPerPage).
		Find(&profiles).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch profiles")
		return
	}

	responses := make([]gin.H, 0, len(profiles))
	for i := range profiles {
		entry := profileResponse(h.db, &profiles[i], nil)
		entry["user"] = profiles[i].User
		responses = append(responses, entry)
	}

	respond(c, http.StatusOK, gin.H{
		"profiles": responses,
		"meta":     pageMeta(total, page, adminProfilesPerPage),
	}, "")
}

// Get returns one profile regardless of status.
func (h *AdminProfileHandler) Get(c *gin.Context) {
	var profile models.Profile
	if err := h.db.Preload("Category").Preload("User").First(&profile, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Profile not found")
		return
	}

	entry := profileResponse(h.db, &profile, nil)
	entry["user"] = profile.User
	respond(c, http.StatusOK, entry, "")
}

// Update edits profile content in place, any state included.
func (h *AdminProfileHandler) Update(c *gin.Context) {
	var profile models.Profile
	if err := h.db.First(&profile, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Profile not found")
		return
	}

	var input struct {
		OrganizationName string `json:"organization_name"`
		Country          string `json:"country"`
		CategoryID       int    `json:"category_id"`
		Summary          string `json:"summary"`
		WhyWin           string `json:"why_win"`
		HowHelp          string `json:"how_help"`
		WebsiteURL       string `json:"website_url"`
		FounderVideoURL  string `json:"founder_video_url"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	for field, value := range map[string]string{
		"summary": input.Summary, "why_win": input.WhyWin, "how_help": input.HowHelp,
	} {
		if !richtext.WithinLimit(value, models.RichTextLimit) {
			respondError(c, http.StatusUnprocessableEntity,
				fmt.Sprintf("%s must be %d characters or fewer", field, models.RichTextLimit))
			return
		}
	}

	if input.OrganizationName != "" {
		profile.OrganizationName = input.OrganizationName
	}
	if input.Country != "" {
		profile.Country = input.Country
	}
	if input.CategoryID != 0 {
		profile.CategoryID = input.CategoryID
	}
	if input.Summary != "" {
		profile.Summary = input.Summary
	}
	if input.WhyWin != "" {
		profile.WhyWin = input.WhyWin
	}
	if input.HowHelp != "" {
		profile.HowHelp = input.HowHelp
	}
	if input.WebsiteURL != "" {
		profile.WebsiteURL = input.WebsiteURL
	}
	if input.FounderVideoURL != "" {
		profile.FounderVideoURL = input.FounderVideoURL
	}

	if err := h.db.Save(&profile).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	respond(c, http.StatusOK, profileResponse(h.db, &profile, nil), "Profile updated")
}

// Approve moves a reviewable profile to approved.
func (h *AdminProfileHandler) Approve(c *gin.Context) {
	var profile models.Profile
	if err := h.db.First(&profile, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Profile not found")
		return
	}

	profile.Status = models.StatusApproved
	profile.RejectionReason = ""
	if err := h.db.Save(&profile).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to approve profile")
		return
	}

	respond(c, http.StatusOK, profileResponse(h.db, &profile, nil), "Profile approved")
}

// Reject moves a reviewable profile to rejected. A non-empty reason is
// required before anything is changed.
func (h *AdminProfileHandler) Reject(c *gin.Context) {
	var input models.RejectProfileRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(input.Reason) == "" {
		respondError(c, http.StatusUnprocessableEntity, "Rejection reason is required")
		return
	}

	var profile models.Profile
	if err := h.db.First(&profile, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Profile not found")
		return
	}

	profile.Status = models.StatusRejected
	profile.RejectionReason = input.Reason
	if err := h.db.Save(&profile).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to reject profile")
		return
	}

	respond(c, http.StatusOK, profileResponse(h.db, &profile, nil), "Profile rejected")
}

// Assign reassigns a profile to another user. The target becomes a
// submitter and must not already own a profile.
func (h *AdminProfileHandler) Assign(c *gin.Context) {
	var input models.AssignProfileRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var profile models.Profile
	if err := h.db.First(&profile, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Profile not found")
		return
	}

	var user models.User
	if err := h.db.First(&user, input.UserID).Error; err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	var owned int64
	h.db.Model(&models.Profile{}).
		Where("user_id = ? AND id <> ?", user.ID, profile.ID).
		Count(&owned)
	if owned > 0 {
		respondError(c, http.StatusConflict, "User already has a profile")
		return
	}

	profile.UserID = user.ID
	if err := h.db.Save(&profile).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to assign profile")
		return
	}

	if user.AccountType != models.AccountTypeSubmitter {
		user.AccountType = models.AccountTypeSubmitter
		h.db.Save(&user)
	}

	respond(c, http.StatusOK, profileResponse(h.db, &profile, nil), "Profile assigned")
}

// Delete removes a profile and its votes.
func (h *AdminProfileHandler) Delete(c *gin.Context) {
	var profile models.Profile
	if err := h.db.First(&profile, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Profile not found")
		return
	}

	if err := h.db.Where("profile_id = ?", profile.ID).Delete(&models.Vote{}).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete profile votes")
		return
	}
	if err := h.db.Delete(&profile).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete profile")
		return
	}

	respond(c, http.StatusOK, nil, "Profile deleted successfully")
}
