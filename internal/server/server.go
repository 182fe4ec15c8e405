package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/impactprize/platform/backend/internal/database"
	"github.com/impactprize/platform/backend/internal/handlers"
	"github.com/impactprize/platform/backend/internal/mailer"
	"github.com/impactprize/platform/backend/internal/middleware"
)

type Server struct {
	db        database.Service
	handler   *handlers.Handler
	uploadDir string
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	// Initialize database
	db := database.New()

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}

	// Create unified handler
	handler := handlers.NewHandler(
		db.GetDB(),
		mailer.NewTwilioVerify(),
		mailer.NewSMTPBroadcaster(),
		uploadDir,
	)

	// Create server instance
	newServer := &Server{
		db:        db,
		handler:   handler,
		uploadDir: uploadDir,
	}

	// Configure Gin router
	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", port)
	fmt.Println("📝 Press Ctrl+C to stop the server")

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	// Uploaded media (logos, pitch decks, judge photos)
	r.Static("/uploads", s.uploadDir)

	db := s.db.GetDB()

	// Auth routes (public)
	r.POST("/register", s.handler.Auth.Register)
	r.POST("/login", s.handler.Auth.Login)
	r.POST("/verify-email", s.handler.Auth.VerifyEmail)
	r.POST("/resend-verification", s.handler.Auth.ResendVerification)
	r.POST("/forgot-password", s.handler.Auth.ForgotPassword)
	r.POST("/reset-password", s.handler.Auth.ResetPassword)
	r.GET("/check_user", middleware.AuthMiddleware(db), s.handler.Auth.CheckUser)

	// Public catalog (optional auth so is_voted can be computed)
	r.GET("/profiles", middleware.OptionalAuth(db), s.handler.Profile.GetProfiles)
	r.GET("/profiles/:id", middleware.OptionalAuth(db), s.handler.Profile.GetProfile)
	r.GET("/categories", s.handler.Reference.ListCategories)
	r.GET("/countries", s.handler.Reference.ListCountries)
	r.GET("/judges", s.handler.Reference.ListJudges)
	r.GET("/partners", s.handler.Reference.ListPartners)
	r.GET("/faqs", s.handler.Reference.ListFAQs)
	r.GET("/settings", s.handler.Setting.Show)

	// Voting
	r.GET("/vote/status", s.handler.Vote.Status)
	r.POST("/vote/:id", middleware.AuthMiddleware(db), s.handler.Vote.Toggle)

	// Submitter profile
	r.GET("/profile", middleware.AuthMiddleware(db), s.handler.Profile.GetMyProfile)
	r.POST("/profile", middleware.AuthMiddleware(db), s.handler.Profile.SaveProfile)

	// Admin routes (role_id = 1)
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(db), middleware.RequireAdmin())
	{
		admin.GET("/profiles", s.handler.AdminProfile.List)
		admin.GET("/profiles/:id", s.handler.AdminProfile.Get)
		admin.POST("/profiles/:id", s.handler.AdminProfile.Update)
		admin.POST("/profiles/:id/approve", s.handler.AdminProfile.Approve)
		admin.POST("/profiles/:id/reject", s.handler.AdminProfile.Reject)
		admin.POST("/profiles/:id/assign", s.handler.AdminProfile.Assign)
		admin.DELETE("/profiles/:id", s.handler.AdminProfile.Delete)

		admin.GET("/categories", s.handler.Reference.AdminListCategories)
		admin.POST("/categories", s.handler.Reference.CreateCategory)
		admin.POST("/categories/:id", s.handler.Reference.UpdateCategory)
		admin.DELETE("/categories/:id", s.handler.Reference.DeleteCategory)

		admin.GET("/judges", s.handler.Reference.AdminListJudges)
		admin.POST("/judges", s.handler.Reference.CreateJudge)
		admin.POST("/judges/:id", s.handler.Reference.UpdateJudge)
		admin.DELETE("/judges/:id", s.handler.Reference.DeleteJudge)

		admin.GET("/partners", s.handler.Reference.AdminListPartners)
		admin.POST("/partners", s.handler.Reference.CreatePartner)
		admin.POST("/partners/:id", s.handler.Reference.UpdatePartner)
		admin.DELETE("/partners/:id", s.handler.Reference.DeletePartner)

		admin.GET("/faqs", s.handler.Reference.AdminListFAQs)
		admin.POST("/faqs", s.handler.Reference.CreateFAQ)
		admin.POST("/faqs/:id", s.handler.Reference.UpdateFAQ)
		admin.DELETE("/faqs/:id", s.handler.Reference.DeleteFAQ)

		admin.GET("/users", s.handler.User.ListUsers)
		admin.POST("/users", s.handler.User.CreateUser)
		admin.POST("/users/:id", s.handler.User.UpdateUser)
		admin.DELETE("/users/:id", s.handler.User.DeleteUser)
		admin.GET("/all-users", s.handler.User.AllUsers)

		admin.GET("/roles", s.handler.User.ListRoles)
		admin.POST("/roles", s.handler.User.CreateRole)
		admin.POST("/roles/:id", s.handler.User.UpdateRole)
		admin.DELETE("/roles/:id", s.handler.User.DeleteRole)

		admin.GET("/permissions", s.handler.User.ListPermissions)
		admin.POST("/permissions", s.handler.User.CreatePermission)
		admin.POST("/permissions/:id", s.handler.User.UpdatePermission)
		admin.DELETE("/permissions/:id", s.handler.User.DeletePermission)

		admin.GET("/settings", s.handler.Setting.AdminList)
		admin.POST("/settings", s.handler.Setting.AdminUpdate)

		admin.POST("/broadcast-email", s.handler.Broadcast.Send)
	}

	return r
}
