package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/impactprize/platform/backend/internal/models"
)

// SettingHandler serves grouped key/value settings. The public read powers
// the client's vote-window display; writes are admin-only.
type SettingHandler struct {
	db *gorm.DB
}

func NewSettingHandler(db *gorm.DB) *SettingHandler {
	return &SettingHandler{db: db}
}

// Show returns settings for one group as a key -> value map.
func (h *SettingHandler) Show(c *gin.Context) {
	group := c.Query("group")
	if group == "" {
		respondError(c, http.StatusBadRequest, "group is required")
		return
	}

	var settings []models.Setting
	if err := h.db.Where("setting_group = ?", group).Find(&settings).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch settings")
		return
	}

	values := make(map[string]string, len(settings))
	for _, s := range settings {
		values[s.Key] = s.Value
	}
	respond(c, http.StatusOK, values, "")
}

// AdminList returns every setting row.
func (h *SettingHandler) AdminList(c *gin.Context) {
	var settings []models.Setting
	if err := h.db.Order("setting_group asc, key asc").Find(&settings).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch settings")
		return
	}
	respond(c, http.StatusOK, settings, "")
}

// AdminUpdate upserts the submitted keys for a group.
func (h *SettingHandler) AdminUpdate(c *gin.Context) {
	var input struct {
		Group    string            `json:"group" binding:"required"`
		Settings map[string]string `json:"settings" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	for key, value := range input.Settings {
		var setting models.Setting
		err := h.db.Where("setting_group = ? AND key = ?", input.Group, key).First(&setting).Error
		if err == gorm.ErrRecordNotFound {
			setting = models.Setting{Group: input.Group, Key: key, Value: value}
			if err := h.db.Create(&setting).Error; err != nil {
				respondError(c, http.StatusInternalServerError, "Failed to save settings")
				return
			}
			continue
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to save settings")
			return
		}
		setting.Value = value
		if err := h.db.Save(&setting).Error; err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to save settings")
			return
		}
	}

	respond(c, http.StatusOK, nil, "Settings saved")
}
