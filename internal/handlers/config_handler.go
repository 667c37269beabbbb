package handlers

import (
	"net/http"

	"windbooks_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// ConfigHandler serves the static role/permission catalog.
type ConfigHandler struct {
	*BaseHandler
	rbacService services.RBACService
}

func NewConfigHandler(base *BaseHandler, rbacService services.RBACService) *ConfigHandler {
	return &ConfigHandler{
		BaseHandler: base,
		rbacService: rbacService,
	}
}

func (h *ConfigHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/config/permissions", h.GetRolePermissions)
}

func (h *ConfigHandler) GetRolePermissions(c *gin.Context) {
	catalog, err := h.rbacService.GetRolePermissions(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, catalog)
}
