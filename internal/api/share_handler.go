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

type ShareHandler struct {
	shareService    *service.ShareService
	passwordService *service.PasswordService
	accessService   *service.AccessService
}

func NewShareHandler(
	shareService *service.ShareService,
	passwordService *service.PasswordService,
	accessService *service.AccessService,
) *ShareHandler {
	return &ShareHandler{
		shareService:    shareService,
		passwordService: passwordService,
		accessService:   accessService,
	}
}

// 将条目分享给目标用户
func (h *ShareHandler) Create(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}

	var req struct {
		UserID      uint     `json:"user_id" binding:"required"`
		PasswordID  uint     `json:"password_id" binding:"required"`
		Permissions []string `json:"permissions" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	perms := make(model.PermissionSet, 0, len(req.Permissions))
	for _, raw := range req.Permissions {
		p, err := model.ParsePermission(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		perms = perms.Union(model.PermissionSet{p})
	}

	share, err := h.shareService.Grant(userID, req.UserID, req.PasswordID, perms)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":          share.ID,
		"user_id":     share.UserID,
		"password_id": share.PasswordID,
		"permissions": share.Permissions.Strings(),
		"url":         h.shareService.ShareURL(share.PasswordID),
	})
}

// 撤销分享记录
func (h *ShareHandler) Delete(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	shareID, ok := getIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.shareService.Revoke(userID, shareID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "Share revoked."})
}

// 列出分享给当前用户的全部记录
func (h *ShareHandler) ListSharedWithMe(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}

	shares, err := h.shareService.SharedWith(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response := make([]gin.H, 0, len(shares))
	for _, share := range shares {
		response = append(response, gin.H{
			"id":          share.ID,
			"password_id": share.PasswordID,
			"title":       share.Password.Title,
			"permissions": share.Permissions.Strings(),
			"url":         h.shareService.ShareURL(share.PasswordID),
			"shared_at":   share.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"shares": response})
}

// 列出某条目上的全部分享记录，仅所有者可查
func (h *ShareHandler) ListForPassword(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	passwordID, ok := getIDParam(c, "id")
	if !ok {
		return
	}

	shares, err := h.shareService.SharesOf(userID, passwordID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response := make([]gin.H, 0, len(shares))
	for _, share := range shares {
		response = append(response, gin.H{
			"id":          share.ID,
			"user_id":     share.UserID,
			"email":       share.User.Email,
			"permissions": share.Permissions.Strings(),
			"shared_at":   share.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"shares": response})
}

// 通过分享链接读取条目，需要view权限
func (h *ShareHandler) SharedPassword(c *gin.Context) {
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
		logger.L.Error("Failed to decrypt shared password", zap.Uint("passwordID", passwordID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to decrypt password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                 password.ID,
		"title":              password.Title,
		"decrypted_password": plaintext,
		"strength":           service.ClassifyStrength(plaintext),
		"expires_at":         password.ExpiresAt,
		"status":             service.Status(password, time.Now()),
	})
}
