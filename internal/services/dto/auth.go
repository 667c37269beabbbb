package dto

import "windbooks_backend/internal/models"

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ClientInfo is optional request metadata recorded in login history.
type ClientInfo struct {
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LoginResponse struct {
	TokenPair
	User *UserResponse `json:"user"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type VerifyEmailRequest struct {
	Code string `json:"code" binding:"required"`
}

type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ValidateTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

type ValidateTokenResponse struct {
	Valid  bool     `json:"valid"`
	UserID string   `json:"user_id,omitempty"`
	Roles  []string `json:"roles,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// UserResponse is the sanitized user record returned to clients; the
// credential never leaves the service layer.
type UserResponse struct {
	ID            string                    `json:"id"`
	Email         string                    `json:"email"`
	IsActive      bool                      `json:"is_active"`
	IsSuperAdmin  bool                      `json:"is_super_admin"`
	Details       *models.UserDetails       `json:"details,omitempty"`
	Verification  *models.Verification      `json:"verification,omitempty"`
	ResourceRoles []models.UserResourceRole `json:"resource_roles,omitempty"`
}

func NewUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		IsActive:      user.IsActive,
		IsSuperAdmin:  user.IsSuperAdmin,
		Details:       user.Details,
		Verification:  user.Verification,
		ResourceRoles: user.ResourceRoles,
	}
}
