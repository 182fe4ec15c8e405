package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/impactprize/platform/backend/internal/models"
	"github.com/impactprize/platform/backend/internal/voting"
)

type VoteHandler struct {
	db  *gorm.DB
	now func() time.Time
}

func NewVoteHandler(db *gorm.DB) *VoteHandler {
	return &VoteHandler{db: db, now: time.Now}
}

// window resolves the configured voting window from the settings table.
// Missing or malformed boundaries fall back to the default window.
func (h *VoteHandler) window() voting.Window {
	var settings []models.Setting
	h.db.Where("setting_group = ?", "voting").Find(&settings)

	var start, end string
	for _, s := range settings {
		switch s.Key {
		case "voting_start_date":
			start = s.Value
		case "voting_end_date":
			end = s.Value
		}
	}
	return voting.Resolve(start, end, h.now())
}

// Status reports the voting window so clients can gate their controls.
func (h *VoteHandler) Status(c *gin.Context) {
	w := h.window()

	message := ""
	if err := w.Check(h.now()); err != nil {
		message = err.Error()
	}

	respond(c, http.StatusOK, gin.H{
		"open":      w.Open(h.now()),
		"starts_at": w.Start.Format("2006-01-02"),
		"ends_at":   w.End.Format("2006-01-02"),
	}, message)
}

// Toggle casts or retracts the caller's vote on a profile. Preconditions
// short-circuit: authenticated, not a submitter account, window open.
// Submitter accounts are categorically barred, whatever the window says.
func (h *VoteHandler) Toggle(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	if user.AccountType == models.AccountTypeSubmitter {
		respondError(c, http.StatusForbidden, "Voting Not Allowed")
		return
	}

	if err := h.window().Check(h.now()); err != nil {
		respondError(c, http.StatusForbidden, err.Error())
		return
	}

	var profile models.Profile
	if err := h.db.First(&profile, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Profile not found")
		return
	}
	if profile.Status != models.StatusApproved {
		respondError(c, http.StatusNotFound, "Profile not found")
		return
	}

	var existingVote models.Vote
	err := h.db.Where("user_id = ? AND profile_id = ?", user.ID, profile.ID).First(&existingVote).Error

	voted := false
	message := "Vote removed"
	if err == gorm.ErrRecordNotFound {
		vote := models.Vote{UserID: user.ID, ProfileID: profile.ID}
		if err := h.db.Create(&vote).Error; err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to vote")
			return
		}
		voted = true
		message = "Vote recorded"
	} else if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to vote")
		return
	} else {
		if err := h.db.Delete(&existingVote).Error; err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to remove vote")
			return
		}
	}

	votes, _ := voteStats(h.db, profile.ID, nil)
	respond(c, http.StatusOK, gin.H{
		"voted":       voted,
		"votes_count": votes,
	}, message)
}
