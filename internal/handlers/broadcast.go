package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/impactprize/platform/backend/internal/mailer"
	"github.com/impactprize/platform/backend/internal/models"
)

// BroadcastHandler sends an admin-authored email to the platform's users.
type BroadcastHandler struct {
	db          *gorm.DB
	broadcaster mailer.Broadcaster
}

func NewBroadcastHandler(db *gorm.DB, broadcaster mailer.Broadcaster) *BroadcastHandler {
	return &BroadcastHandler{db: db, broadcaster: broadcaster}
}

// Send delivers subject/body to the selected audience: "all" (default),
// "voters" or "submitters". Only verified accounts receive mail.
func (h *BroadcastHandler) Send(c *gin.Context) {
	var input struct {
		Subject  string `json:"subject"`
		Body     string `json:"body"`
		Audience string `json:"audience"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(input.Subject) == "" || strings.TrimSpace(input.Body) == "" {
		respondError(c, http.StatusUnprocessableEntity, "Subject and body are required")
		return
	}

	query := h.db.Model(&models.User{}).Where("email_verified_at IS NOT NULL")
	switch input.Audience {
	case "", "all":
	case "voters":
		query = query.Where("account_type = ?", models.AccountTypeVoter)
	case "submitters":
		query = query.Where("account_type = ?", models.AccountTypeSubmitter)
	default:
		respondError(c, http.StatusUnprocessableEntity, "Invalid audience")
		return
	}

	var recipients []string
	if err := query.Pluck("email", &recipients).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to collect recipients")
		return
	}

	if err := h.broadcaster.Broadcast(c.Request.Context(), recipients, input.Subject, input.Body); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to send broadcast")
		return
	}

	respond(c, http.StatusOK, gin.H{"recipients": len(recipients)}, "Broadcast sent")
}
