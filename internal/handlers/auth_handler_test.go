package handlers_test

import (
	"net/http"
	"testing"

	"windbooks_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterVerifyLoginFlow(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodPost, "/api/v1/auth/register", dto.RegisterRequest{
		Email:    "flow@example.com",
		Password: "password123",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created dto.UserResponse
	decodeBody(t, rec, &created)
	assert.Equal(t, "flow@example.com", created.Email)
	assert.False(t, created.IsActive)

	// Login is refused until the email verifies.
	rec = h.do(t, http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{
		Email:    "flow@example.com",
		Password: "password123",
	}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "ACCOUNT_UNVERIFIED", errorCode(t, rec))

	code, err := h.verificationRepo.FindUsableCode(h.db, created.ID)
	require.NoError(t, err)
	rec = h.do(t, http.MethodPost, "/api/v1/auth/verify-email", dto.VerifyEmailRequest{Code: code.Code}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	login := h.login(t, "flow@example.com", "password123")
	assert.NotEmpty(t, login.AccessToken)
	assert.NotEmpty(t, login.RefreshToken)
	assert.Equal(t, created.ID, login.User.ID)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodPost, "/api/v1/auth/register", dto.RegisterRequest{
		Email:    "not-an-email",
		Password: "password123",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	h.registerAndVerify(t, "taken@example.com", "password123")
	rec = h.do(t, http.MethodPost, "/api/v1/auth/register", dto.RegisterRequest{
		Email:    "taken@example.com",
		Password: "password123",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "EMAIL_ALREADY_EXISTS", errorCode(t, rec))
}

func TestVerifyEmailErrorStatuses(t *testing.T) {
	h := newAPIHarness(t)

	// Malformed code never reaches the database.
	rec := h.do(t, http.MethodPost, "/api/v1/auth/verify-email", dto.VerifyEmailRequest{Code: "NOPE"}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_CODE_FORMAT", errorCode(t, rec))

	rec = h.do(t, http.MethodPost, "/api/v1/auth/verify-email", dto.VerifyEmailRequest{
		Code: "0123456789abcdef0123456789abcdef",
	}, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "VERIFICATION_CODE_UNKNOWN", errorCode(t, rec))
}

func TestRefreshEndpointRotates(t *testing.T) {
	h := newAPIHarness(t)
	h.registerAndVerify(t, "rotate@example.com", "password123")
	login := h.login(t, "rotate@example.com", "password123")

	rec := h.do(t, http.MethodPost, "/api/v1/auth/refresh", dto.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var pair dto.TokenPair
	decodeBody(t, rec, &pair)
	assert.NotEqual(t, login.RefreshToken, pair.RefreshToken)

	// The consumed token is rejected on replay.
	rec = h.do(t, http.MethodPost, "/api/v1/auth/refresh", dto.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_TOKEN", errorCode(t, rec))
}

func TestLogoutAlwaysNoContent(t *testing.T) {
	h := newAPIHarness(t)
	h.registerAndVerify(t, "bye@example.com", "password123")
	login := h.login(t, "bye@example.com", "password123")

	rec := h.do(t, http.MethodPost, "/api/v1/auth/logout", dto.LogoutRequest{RefreshToken: login.RefreshToken}, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Repeat and garbage both succeed.
	rec = h.do(t, http.MethodPost, "/api/v1/auth/logout", dto.LogoutRequest{RefreshToken: login.RefreshToken}, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = h.do(t, http.MethodPost, "/api/v1/auth/logout", dto.LogoutRequest{RefreshToken: "garbage"}, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = h.do(t, http.MethodPost, "/api/v1/auth/logout", nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestValidateEndpoint(t *testing.T) {
	h := newAPIHarness(t)
	userID := h.registerAndVerify(t, "check@example.com", "password123")
	login := h.login(t, "check@example.com", "password123")

	rec := h.do(t, http.MethodPost, "/api/v1/auth/validate", dto.ValidateTokenRequest{Token: login.AccessToken}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.ValidateTokenResponse
	decodeBody(t, rec, &resp)
	assert.True(t, resp.Valid)
	assert.Equal(t, userID, resp.UserID)

	// A bad token still answers 200 with valid=false.
	rec = h.do(t, http.MethodPost, "/api/v1/auth/validate", dto.ValidateTokenRequest{Token: "garbage"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &resp)
	assert.False(t, resp.Valid)
	assert.NotEmpty(t, resp.Error)
}

func TestCurrentUserEndpoints(t *testing.T) {
	h := newAPIHarness(t)
	userID := h.registerAndVerify(t, "me@example.com", "password123")
	login := h.login(t, "me@example.com", "password123")

	rec := h.do(t, http.MethodGet, "/api/v1/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(t, http.MethodGet, "/api/v1/auth/me", nil, login.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile dto.UserResponse
	decodeBody(t, rec, &profile)
	assert.Equal(t, userID, profile.ID)
	assert.Equal(t, "me@example.com", profile.Email)

	rec = h.do(t, http.MethodPatch, "/api/v1/auth/me", dto.UpdateProfileRequest{
		Email: "renamed@example.com",
	}, login.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeBody(t, rec, &profile)
	assert.Equal(t, "renamed@example.com", profile.Email)

	// Self-deactivation kills subsequent logins.
	rec = h.do(t, http.MethodDelete, "/api/v1/auth/me", nil, login.AccessToken)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{
		Email:    "renamed@example.com",
		Password: "password123",
	}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "ACCOUNT_DEACTIVATED", errorCode(t, rec))
}

func TestResendVerificationEndpoint(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodPost, "/api/v1/auth/register", dto.RegisterRequest{
		Email:    "resend@example.com",
		Password: "password123",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/v1/auth/resend-verification", dto.ResendVerificationRequest{
		Email: "resend@example.com",
	}, "")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = h.do(t, http.MethodPost, "/api/v1/auth/resend-verification", dto.ResendVerificationRequest{
		Email: "nobody@example.com",
	}, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "USER_NOT_FOUND", errorCode(t, rec))
}
