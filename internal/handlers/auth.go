package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/impactprize/platform/backend/internal/mailer"
	"github.com/impactprize/platform/backend/internal/middleware"
	"github.com/impactprize/platform/backend/internal/models"
)

type AuthHandler struct {
	db    *gorm.DB
	codes mailer.CodeSender
}

func NewAuthHandler(db *gorm.DB, codes mailer.CodeSender) *AuthHandler {
	return &AuthHandler{db: db, codes: codes}
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var input struct {
		Name                 string `json:"name" binding:"required"`
		Email                string `json:"email" binding:"required,email"`
		Password             string `json:"password" binding:"required,min=6"`
		PasswordConfirmation string `json:"password_confirmation" binding:"required"`
		AccountType          string `json:"account_type"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if input.Password != input.PasswordConfirmation {
		respondError(c, http.StatusUnprocessableEntity, "Passwords do not match")
		return
	}

	switch input.AccountType {
	case "", models.AccountTypeSubmitter, models.AccountTypeVoter:
	default:
		respondError(c, http.StatusUnprocessableEntity, "Invalid account type")
		return
	}

	var existingUser models.User
	if err := h.db.Where("email = ?", input.Email).First(&existingUser).Error; err == nil {
		respondError(c, http.StatusBadRequest, "Email already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := models.User{
		Name:        input.Name,
		Email:       input.Email,
		Password:    string(hashedPassword),
		AccountType: input.AccountType,
	}

	if err := h.db.Create(&user).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	if err := h.codes.SendCode(c.Request.Context(), user.Email); err != nil {
		// Account exists; the user can request another code via
		// /resend-verification.
		log.Printf("failed to send verification code to %s: %v", user.Email, err)
	}

	respond(c, http.StatusCreated, gin.H{"user": user},
		"Registered successfully. Check your email for a verification code.")
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", input.Email).First(&user).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if !user.Verified() {
		respondError(c, http.StatusForbidden, "Email not verified")
		return
	}

	tokenString, err := middleware.GenerateToken(&user)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	respond(c, http.StatusOK, models.AuthResponse{Token: tokenString, User: user}, "Login successful")
}

// VerifyEmail checks the emailed code and activates the account.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
		Code  string `json:"code" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", input.Email).First(&user).Error; err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	ok, err := h.codes.CheckCode(c.Request.Context(), input.Email, input.Code)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to verify code")
		return
	}
	if !ok {
		respondError(c, http.StatusUnprocessableEntity, "Invalid verification code")
		return
	}

	if !user.Verified() {
		now := time.Now().UTC()
		user.EmailVerifiedAt = &now
		if err := h.db.Save(&user).Error; err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to verify email")
			return
		}
	}

	tokenString, err := middleware.GenerateToken(&user)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	respond(c, http.StatusOK, models.AuthResponse{Token: tokenString, User: user}, "Email verified")
}

// ResendVerification re-sends the verification code. The response is the
// same whether or not the address exists.
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", input.Email).First(&user).Error; err == nil && !user.Verified() {
		if err := h.codes.SendCode(c.Request.Context(), user.Email); err != nil {
			log.Printf("failed to resend verification code to %s: %v", user.Email, err)
		}
	}

	respond(c, http.StatusOK, nil, "If the address is registered, a code has been sent.")
}

// ForgotPassword sends a password-reset code.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", input.Email).First(&user).Error; err == nil {
		if err := h.codes.SendCode(c.Request.Context(), user.Email); err != nil {
			log.Printf("failed to send reset code to %s: %v", user.Email, err)
		}
	}

	respond(c, http.StatusOK, nil, "If the address is registered, a code has been sent.")
}

// ResetPassword sets a new password after checking the reset code.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var input struct {
		Email                string `json:"email" binding:"required,email"`
		Code                 string `json:"code" binding:"required"`
		Password             string `json:"password" binding:"required,min=6"`
		PasswordConfirmation string `json:"password_confirmation" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if input.Password != input.PasswordConfirmation {
		respondError(c, http.StatusUnprocessableEntity, "Passwords do not match")
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", input.Email).First(&user).Error; err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	ok, err := h.codes.CheckCode(c.Request.Context(), input.Email, input.Code)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to verify code")
		return
	}
	if !ok {
		respondError(c, http.StatusUnprocessableEntity, "Invalid reset code")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user.Password = string(hashedPassword)
	if err := h.db.Save(&user).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	respond(c, http.StatusOK, nil, "Password reset successfully")
}

// CheckUser returns the current authenticated user
func (h *AuthHandler) CheckUser(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	data := gin.H{"user": user}

	// Submitters also get their submission status so the dashboard can
	// render the right banner without a second round trip.
	if user.AccountType == models.AccountTypeSubmitter || strings.TrimSpace(user.AccountType) == "" {
		var profile models.Profile
		if err := h.db.Where("user_id = ?", user.ID).First(&profile).Error; err == nil {
			data["profile_status"] = profile.Status
		}
	}

	respond(c, http.StatusOK, data, "")
}
