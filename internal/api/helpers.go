package api

import (
	"errors"
	"net/http"
	"strconv"

	"go-password-vault/internal/vaulterrors"
	"go-password-vault/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 从上下文取认证后的用户ID
func getUserIDFromContext(c *gin.Context) (uint, bool) {
	value, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return 0, false
	}
	userID, ok := value.(uint)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid user id in context"})
		return 0, false
	}
	return userID, true
}

// 解析路径中的数字ID参数
func getIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// 将service层错误分类翻译为HTTP状态码
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, vaulterrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, vaulterrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, vaulterrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, vaulterrors.ErrPermission):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		logger.L.Error("Unexpected service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
