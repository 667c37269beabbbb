package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"windbooks_backend/database"
	"windbooks_backend/internal/auth"
	"windbooks_backend/internal/handlers"
	"windbooks_backend/internal/middleware"
	"windbooks_backend/internal/models"
	"windbooks_backend/internal/repositories"
	"windbooks_backend/internal/routes"
	"windbooks_backend/internal/services"
	"windbooks_backend/internal/services/dto"
	"windbooks_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// nullNotifier drops mail on the floor; the HTTP tests read codes
// straight out of the database instead.
type nullNotifier struct{}

func (nullNotifier) SendVerificationEmail(to, code string) error { return nil }
func (nullNotifier) SendPasswordChangedEmail(to string) error    { return nil }

// apiHarness is a fully wired router over an in-memory database,
// mirroring the production dependency graph.
type apiHarness struct {
	router *gin.Engine
	db     *gorm.DB

	userRepo         repositories.UserRepository
	verificationRepo repositories.VerificationRepository
	userService      services.UserService
	authService      services.AuthService
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	userRepo := repositories.NewUserRepository()
	credentialRepo := repositories.NewCredentialRepository()
	verificationRepo := repositories.NewVerificationRepository()
	refreshTokenRepo := repositories.NewRefreshTokenRepository()
	rbacRepo := repositories.NewRBACRepository()
	auditRepo := repositories.NewAuditRepository()

	issuer := auth.NewTokenIssuer("handler-test-secret", 15*time.Minute, 7*24*time.Hour)
	notifier := nullNotifier{}
	codeTTL := 15 * time.Minute

	authService := services.NewAuthService(
		userRepo, credentialRepo, verificationRepo, refreshTokenRepo,
		rbacRepo, auditRepo, notifier, issuer, codeTTL,
	)
	verificationService := services.NewVerificationService(userRepo, verificationRepo, notifier, codeTTL)
	userService := services.NewUserService(userRepo, credentialRepo, verificationRepo, refreshTokenRepo, auditRepo, notifier)
	rbacService := services.NewRBACService(rbacRepo, userRepo)

	base := handlers.NewBaseHandler(validator.New())
	appHandlers := &handlers.AppHandlers{
		AuthHandler:   handlers.NewAuthHandler(base, authService, verificationService, userService),
		UserHandler:   handlers.NewUserHandler(base, userService, rbacService),
		ConfigHandler: handlers.NewConfigHandler(base, rbacService),
	}

	router := gin.New()
	router.Use(middleware.DBMiddleware(db))
	routes.RegisterRoutes(router, appHandlers, middleware.AuthMiddleware(issuer), middleware.SuperAdminMiddleware(userRepo))

	return &apiHarness{
		router:           router,
		db:               db,
		userRepo:         userRepo,
		verificationRepo: verificationRepo,
		userService:      userService,
		authService:      authService,
	}
}

// do performs a JSON request; a non-empty token becomes the bearer.
func (h *apiHarness) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// errorCode extracts the machine-readable code from an error response.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeBody(t, rec, &body)
	return body.Error.Code
}

// registerAndVerify drives the public registration flow and returns
// the user ID.
func (h *apiHarness) registerAndVerify(t *testing.T, email, password string) string {
	t.Helper()

	rec := h.do(t, http.MethodPost, "/api/v1/auth/register", dto.RegisterRequest{
		Email:    email,
		Password: password,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created dto.UserResponse
	decodeBody(t, rec, &created)

	code, err := h.verificationRepo.FindUsableCode(h.db, created.ID)
	require.NoError(t, err)

	rec = h.do(t, http.MethodPost, "/api/v1/auth/verify-email", dto.VerifyEmailRequest{Code: code.Code}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	return created.ID
}

// login returns the token pair for existing credentials.
func (h *apiHarness) login(t *testing.T, email, password string) *dto.LoginResponse {
	t.Helper()

	rec := h.do(t, http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{
		Email:    email,
		Password: password,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp dto.LoginResponse
	decodeBody(t, rec, &resp)
	return &resp
}

// superAdminToken provisions a super-admin account and logs it in.
func (h *apiHarness) superAdminToken(t *testing.T) string {
	t.Helper()

	_, err := h.userService.Create(h.db, &dto.AdminCreateUserRequest{
		Email:        "root@example.com",
		Password:     "rootpassword",
		IsSuperAdmin: true,
	})
	require.NoError(t, err)

	return h.login(t, "root@example.com", "rootpassword").AccessToken
}

func (h *apiHarness) seededRoleID(t *testing.T, name string) string {
	t.Helper()

	var role models.Role
	require.NoError(t, h.db.Where("name = ?", name).First(&role).Error)
	return role.ID
}
