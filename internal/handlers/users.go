package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/impactprize/platform/backend/internal/models"
)

const usersPerPage = 15

// UserHandler backs the admin user, role and permission screens.
type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// ListUsers returns a paginated, searchable user list.
func (h *UserHandler) ListUsers(c *gin.Context) {
	query := h.db.Model(&models.User{})

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	page := pageParam(c)
	var users []models.User
	if err := query.Order("created_at desc").
		Limit(usersPerPage).Offset((page - 1) * usersPerPage).
		Find(&users).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	respond(c, http.StatusOK, gin.H{
		"users": users,
		"meta":  pageMeta(total, page, usersPerPage),
	}, "")
}

// AllUsers is the unpaged search used by the assign-profile flow. It caps
// results instead of paging; the client debounces its input but does not
// cancel in-flight requests, so responses must stay small and cheap.
func (h *UserHandler) AllUsers(c *gin.Context) {
	query := h.db.Model(&models.User{})

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var users []models.User
	if err := query.Order("name asc").Limit(20).Find(&users).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	respond(c, http.StatusOK, users, "")
}

// CreateUser adds a user from the admin screen; admin-created accounts are
// verified immediately.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var input struct {
		Name        string `json:"name" binding:"required"`
		Email       string `json:"email" binding:"required,email"`
		Password    string `json:"password" binding:"required,min=6"`
		RoleID      int    `json:"role_id"`
		AccountType string `json:"account_type"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var existing models.User
	if err := h.db.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		respondError(c, http.StatusBadRequest, "Email already exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	roleID := input.RoleID
	if roleID == 0 {
		roleID = 2
	}
	now := h.db.NowFunc()
	user := models.User{
		Name:            input.Name,
		Email:           input.Email,
		Password:        string(hashed),
		RoleID:          roleID,
		AccountType:     input.AccountType,
		EmailVerifiedAt: &now,
	}
	if err := h.db.Create(&user).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	respond(c, http.StatusCreated, user, "User created")
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	var user models.User
	if err := h.db.First(&user, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	var input struct {
		Name        string `json:"name"`
		Email       string `json:"email"`
		Password    string `json:"password"`
		RoleID      *int   `json:"role_id"`
		AccountType *string `json:"account_type"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to hash password")
			return
		}
		user.Password = string(hashed)
	}
	if input.RoleID != nil {
		user.RoleID = *input.RoleID
	}
	if input.AccountType != nil {
		user.AccountType = *input.AccountType
	}

	if err := h.db.Save(&user).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update user")
		return
	}
	respond(c, http.StatusOK, user, "User updated")
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	var user models.User
	if err := h.db.First(&user, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	if err := h.db.Where("user_id = ?", user.ID).Delete(&models.Vote{}).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete user votes")
		return
	}
	if err := h.db.Delete(&user).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	respond(c, http.StatusOK, nil, "User deleted successfully")
}

// --- Roles ---

func (h *UserHandler) ListRoles(c *gin.Context) {
	var roles []models.Role
	if err := h.db.Order("id asc").Find(&roles).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch roles")
		return
	}
	respond(c, http.StatusOK, roles, "")
}

func (h *UserHandler) CreateRole(c *gin.Context) {
	var input struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	role := models.Role{Name: input.Name}
	if err := h.db.Create(&role).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create role")
		return
	}
	respond(c, http.StatusCreated, role, "Role created")
}

func (h *UserHandler) UpdateRole(c *gin.Context) {
	var role models.Role
	if err := h.db.First(&role, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Role not found")
		return
	}

	var input struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	role.Name = input.Name
	if err := h.db.Save(&role).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update role")
		return
	}
	respond(c, http.StatusOK, role, "Role updated")
}

func (h *UserHandler) DeleteRole(c *gin.Context) {
	var role models.Role
	if err := h.db.First(&role, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Role not found")
		return
	}
	if role.ID == models.RoleAdmin {
		respondError(c, http.StatusForbidden, "The admin role cannot be deleted")
		return
	}
	if err := h.db.Delete(&role).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete role")
		return
	}
	respond(c, http.StatusOK, nil, "Role deleted successfully")
}

// --- Permissions ---

func (h *UserHandler) ListPermissions(c *gin.Context) {
	var permissions []models.Permission
	if err := h.db.Order("id asc").Find(&permissions).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch permissions")
		return
	}
	respond(c, http.StatusOK, permissions, "")
}

func (h *UserHandler) CreatePermission(c *gin.Context) {
	var input struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	permission := models.Permission{Name: input.Name, Slug: slugify(input.Name)}
	if err := h.db.Create(&permission).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create permission")
		return
	}
	respond(c, http.StatusCreated, permission, "Permission created")
}

func (h *UserHandler) UpdatePermission(c *gin.Context) {
	var permission models.Permission
	if err := h.db.First(&permission, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Permission not found")
		return
	}

	var input struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	permission.Name = input.Name
	if err := h.db.Save(&permission).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update permission")
		return
	}
	respond(c, http.StatusOK, permission, "Permission updated")
}

func (h *UserHandler) DeletePermission(c *gin.Context) {
	var permission models.Permission
	if err := h.db.First(&permission, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Permission not found")
		return
	}
	if err := h.db.Delete(&permission).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete permission")
		return
	}
	respond(c, http.StatusOK, nil, "Permission deleted successfully")
}
