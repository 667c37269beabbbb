package handlers

import (
	"net/http"

	"windbooks_backend/internal/services"
	"windbooks_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService         services.AuthService
	verificationService services.VerificationService
	userService         services.UserService
}

func NewAuthHandler(
	base *BaseHandler,
	authService services.AuthService,
	verificationService services.VerificationService,
	userService services.UserService,
) *AuthHandler {
	return &AuthHandler{
		BaseHandler:         base,
		authService:         authService,
		verificationService: verificationService,
		userService:         userService,
	}
}

// RegisterRoutes wires the /auth group.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, issuerMiddleware gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)
		auth.POST("/validate", h.Validate)
		auth.POST("/verify-email", h.VerifyEmail)
		auth.POST("/resend-verification", h.ResendVerification)
	}

	me := rg.Group("/auth/me")
	me.Use(issuerMiddleware)
	{
		me.GET("", h.GetCurrentUser)
		me.PATCH("", h.UpdateCurrentUser)
		me.DELETE("", h.DeactivateCurrentUser)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	client := &dto.ClientInfo{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	response, err := h.authService.Login(h.GetDB(c), &req, client)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	pair, err := h.authService.Refresh(h.GetDB(c), req.RefreshToken)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, pair)
}

// Logout always answers 204; a malformed token means there is no
// session left to revoke.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.LogoutRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Status(http.StatusNoContent)
		return
	}

	_ = h.authService.Logout(h.GetDB(c), req.RefreshToken)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Validate(c *gin.Context) {
	var req dto.ValidateTokenRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	c.JSON(http.StatusOK, h.authService.Validate(req.Token))
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.verificationService.VerifyEmail(h.GetDB(c), req.Code); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Email successfully verified",
	})
}

func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req dto.ResendVerificationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.verificationService.ResendVerification(h.GetDB(c), req.Email); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Verification email sent",
	})
}

func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *AuthHandler) UpdateCurrentUser(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	profile, err := h.userService.UpdateProfile(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *AuthHandler) DeactivateCurrentUser(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.userService.Deactivate(h.GetDB(c), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
