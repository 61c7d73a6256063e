package api

import (
	"net/http"

	"go-password-vault/internal/model"
	"go-password-vault/internal/repository"
	"go-password-vault/internal/service"

	"github.com/gin-gonic/gin"
)

// 处理认证相关的HTTP请求
type AuthHandler struct {
	authService *service.AuthService
	userRepo    *repository.UserRepository
}

func NewAuthHandler(authService *service.AuthService, userRepo *repository.UserRepository) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userRepo:    userRepo,
	}
}

// 处理用户注册请求
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Register(req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"detail": "Registration success.",
		"user": gin.H{
			"id":         user.ID,
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
		},
	})
}

// 处理用户登陆请求
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := h.authService.Login(req)
	if err != nil {
		// 登陆失败统一返回401，不暴露邮箱是否存在
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
		},
	})
}

// 返回当前认证用户及其所属组织
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}

	user, err := h.userRepo.FindByIDWithOrganizations(userID)
	if err != nil || user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	orgs := make([]gin.H, 0, len(user.Organizations))
	for _, org := range user.Organizations {
		orgs = append(orgs, gin.H{
			"id":   org.ID,
			"name": org.Name,
			"code": org.Code,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            user.ID,
		"email":         user.Email,
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
		"organizations": orgs,
	})
}

// 返回固定的权限集合
func (h *AuthHandler) Permissions(c *gin.Context) {
	perms := make([]gin.H, 0, len(model.AllPermissions))
	for _, p := range model.AllPermissions {
		perms = append(perms, gin.H{"codename": string(p)})
	}
	c.JSON(http.StatusOK, gin.H{"permissions": perms})
}
