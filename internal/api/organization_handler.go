package api

import (
	"net/http"

	"go-password-vault/internal/service"

	"github.com/gin-gonic/gin"
)

type OrganizationHandler struct {
	orgService *service.OrganizationService
}

func NewOrganizationHandler(orgService *service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

// 新建组织
func (h *OrganizationHandler) Create(c *gin.Context) {
	if _, ok := getUserIDFromContext(c); !ok {
		return
	}

	var req service.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	org, err := h.orgService.Create(req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         org.ID,
		"name":       org.Name,
		"code":       org.Code,
		"size":       org.Size,
		"created_at": org.CreatedAt,
	})
}

// 列出全部组织
func (h *OrganizationHandler) List(c *gin.Context) {
	if _, ok := getUserIDFromContext(c); !ok {
		return
	}

	orgs, err := h.orgService.List()
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response := make([]gin.H, 0, len(orgs))
	for _, org := range orgs {
		response = append(response, gin.H{
			"id":   org.ID,
			"name": org.Name,
			"code": org.Code,
			"size": org.Size,
		})
	}
	c.JSON(http.StatusOK, gin.H{"organizations": response})
}

// 组织详情，包含成员ID列表
func (h *OrganizationHandler) Get(c *gin.Context) {
	if _, ok := getUserIDFromContext(c); !ok {
		return
	}
	orgID, ok := getIDParam(c, "id")
	if !ok {
		return
	}

	org, err := h.orgService.Get(orgID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	memberIDs := make([]uint, 0, len(org.Members))
	for _, member := range org.Members {
		memberIDs = append(memberIDs, member.ID)
	}
	passwordIDs := make([]uint, 0, len(org.Passwords))
	for _, p := range org.Passwords {
		passwordIDs = append(passwordIDs, p.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         org.ID,
		"name":       org.Name,
		"code":       org.Code,
		"size":       org.Size,
		"users":      memberIDs,
		"passwords":  passwordIDs,
		"created_at": org.CreatedAt,
		"updated_at": org.UpdatedAt,
	})
}

// 按邮箱将用户加入组织
func (h *OrganizationHandler) JoinMember(c *gin.Context) {
	if _, ok := getUserIDFromContext(c); !ok {
		return
	}
	orgID, ok := getIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	if err := h.orgService.JoinMember(orgID, req.Email); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "Member added."})
}

// 批量授权条目给组织，全有或全无
func (h *OrganizationHandler) AddPasswords(c *gin.Context) {
	if _, ok := getUserIDFromContext(c); !ok {
		return
	}
	orgID, ok := getIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		PasswordIDs []uint `json:"password_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	if err := h.orgService.AddPasswords(orgID, req.PasswordIDs); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "Passwords added."})
}
