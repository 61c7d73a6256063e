package api

import (
	"net/http"
	"time"

	"go-password-vault/internal/model"
	"go-password-vault/internal/service"
	"go-password-vault/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PasswordHandler struct {
	passwordService *service.PasswordService
	accessService   *service.AccessService
}

func NewPasswordHandler(passwordService *service.PasswordService, accessService *service.AccessService) *PasswordHandler {
	return &PasswordHandler{
		passwordService: passwordService,
		accessService:   accessService,
	}
}

// 新建密码条目
func (h *PasswordHandler) Create(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}

	var req service.CreatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	password, err := h.passwordService.Create(userID, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":               password.ID,
		"title":            password.Title,
		"duration_in_days": password.DurationInDays,
		"expires_at":       password.ExpiresAt,
		"created_at":       password.CreatedAt,
	})
}

// 列出当前用户可见的全部条目（不含明文）
func (h *PasswordHandler) List(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}

	passwords, err := h.accessService.ListVisible(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	now := time.Now()
	response := make([]gin.H, 0, len(passwords))
	for _, p := range passwords {
		response = append(response, gin.H{
			"id":               p.ID,
			"title":            p.Title,
			"duration_in_days": p.DurationInDays,
			"expires_at":       p.ExpiresAt,
			"status":           service.Status(&p, now),
			"created_by":       p.CreatedByID,
			"created_at":       p.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"passwords": response})
}

// 条目详情，包含解密后的明文。需要view权限（所有者或显式分享），
// 仅组织可见不足以读取内容。
func (h *PasswordHandler) Get(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	passwordID, ok := getIDParam(c, "id")
	if !ok {
		return
	}

	allowed, err := h.accessService.Authorize(userID, passwordID, model.PermissionView)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "view permission required"})
		return
	}

	password, err := h.passwordService.Get(passwordID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	plaintext, err := h.passwordService.GetDecrypted(passwordID)
	if err != nil {
		logger.L.Error("Failed to decrypt password", zap.Uint("passwordID", passwordID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to decrypt password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                 password.ID,
		"title":              password.Title,
		"decrypted_password": plaintext,
		"strength":           service.ClassifyStrength(plaintext),
		"duration_in_days":   password.DurationInDays,
		"expires_at":         password.ExpiresAt,
		"status":             service.Status(password, time.Now()),
		"created_by":         password.CreatedByID,
		"created_at":         password.CreatedAt,
	})
}

// 更新条目，需要change权限
func (h *PasswordHandler) Update(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	passwordID, ok := getIDParam(c, "id")
	if !ok {
		return
	}

	allowed, err := h.accessService.Authorize(userID, passwordID, model.PermissionChange)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "change permission required"})
		return
	}

	var req service.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	password, err := h.passwordService.Update(passwordID, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":               password.ID,
		"title":            password.Title,
		"duration_in_days": password.DurationInDays,
		"expires_at":       password.ExpiresAt,
	})
}

// 删除条目，需要delete权限
func (h *PasswordHandler) Delete(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	passwordID, ok := getIDParam(c, "id")
	if !ok {
		return
	}

	allowed, err := h.accessService.Authorize(userID, passwordID, model.PermissionDelete)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "delete permission required"})
		return
	}

	if err := h.passwordService.Delete(passwordID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "Password deleted."})
}
