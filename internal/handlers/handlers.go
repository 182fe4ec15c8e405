package handlers

import (
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/impactprize/platform/backend/internal/mailer"
	"github.com/impactprize/platform/backend/internal/middleware"
	"github.com/impactprize/platform/backend/internal/models"
)

// Handler combines all handler types
type Handler struct {
	Auth         *AuthHandler
	Profile      *ProfileHandler
	Vote         *VoteHandler
	AdminProfile *AdminProfileHandler
	Reference    *ReferenceHandler
	User         *UserHandler
	Setting      *SettingHandler
	Broadcast    *BroadcastHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB, codes mailer.CodeSender, broadcaster mailer.Broadcaster, uploadDir string) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(db, codes),
		Profile:      NewProfileHandler(db, uploadDir),
		Vote:         NewVoteHandler(db),
		AdminProfile: NewAdminProfileHandler(db),
		Reference:    NewReferenceHandler(db, uploadDir),
		User:         NewUserHandler(db),
		Setting:      NewSettingHandler(db),
		Broadcast:    NewBroadcastHandler(db, broadcaster),
	}
}

// Every response uses the same envelope: {status, data, message}. Errors
// carry their text in message and a false status.

func respond(c *gin.Context, code int, data any, message string) {
	c.JSON(code, gin.H{
		"status":  code < 400,
		"data":    data,
		"message": message,
	})
}

func respondError(c *gin.Context, code int, message string) {
	respond(c, code, nil, message)
}

func currentUser(c *gin.Context) (*models.User, bool) {
	return middleware.CurrentUser(c)
}

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func pageMeta(total int64, page, perPage int) gin.H {
	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}
	return gin.H{
		"total":     total,
		"page":      page,
		"per_page":  perPage,
		"last_page": lastPage,
	}
}

// saveUpload stores an uploaded file under dir with a random name and
// returns the public path it will be served from.
func saveUpload(c *gin.Context, fh *multipart.FileHeader, dir string) (string, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	if err := c.SaveUploadedFile(fh, filepath.Join(dir, name)); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}
