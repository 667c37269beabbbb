package handlers

import (
	"net/http"

	"windbooks_backend/internal/services"
	"windbooks_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// UserHandler covers the admin user CRUD surface.
type UserHandler struct {
	*BaseHandler
	userService services.UserService
	rbacService services.RBACService
}

func NewUserHandler(base *BaseHandler, userService services.UserService, rbacService services.RBACService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
		rbacService: rbacService,
	}
}

// RegisterRoutes wires /users behind auth + super-admin middleware.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware, adminMiddleware gin.HandlerFunc) {
	users := rg.Group("/users")
	users.Use(authMiddleware)
	users.Use(adminMiddleware)
	{
		users.GET("", h.List)
		users.POST("", h.Create)
		users.GET("/:id", h.Get)
		users.PUT("/:id/roles", h.AssignRole)
		users.DELETE("/:id/roles", h.RevokeRole)
		users.POST("/:id/deactivate", h.Deactivate)
		users.PATCH("/:id/password", h.UpdatePassword)
		users.DELETE("/:id", h.Delete)
	}
}

func (h *UserHandler) List(c *gin.Context) {
	page, limit := ParsePagination(c)

	result, err := h.userService.List(h.GetDB(c), page, limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.Get(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req dto.AdminCreateUserRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	user, err := h.userService.Create(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) AssignRole(c *gin.Context) {
	var req dto.AssignRoleRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.rbacService.AssignUserResourceRole(h.GetDB(c), c.Param("id"), req.RoleID, req.ResourceID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Role assigned",
	})
}

func (h *UserHandler) RevokeRole(c *gin.Context) {
	var req dto.RevokeRoleRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.rbacService.RevokeUserResourceRole(h.GetDB(c), c.Param("id"), req.ResourceID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Deactivate(c *gin.Context) {
	if err := h.userService.Deactivate(h.GetDB(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UpdatePassword is the admin-assisted change: the acting admin is the
// auditor, the current-password check is skipped.
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdatePasswordRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.userService.UpdatePassword(h.GetDB(c), c.Param("id"), &req, adminID, false); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password updated",
	})
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userService.Delete(h.GetDB(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
