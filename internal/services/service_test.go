package services

import (
	"sync"
	"testing"
	"time"

	"windbooks_backend/database"
	"windbooks_backend/internal/auth"
	"windbooks_backend/internal/models"
	"windbooks_backend/internal/repositories"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database and runs the full
// migration including the role/permission/resource seed. One open
// connection keeps every GORM session on the same in-memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

// fakeNotifier records sends and optionally fails them.
type fakeNotifier struct {
	mu sync.Mutex

	verificationSends []string // codes, in send order
	passwordSends     []string // recipient emails
	failAll           bool
}

func (f *fakeNotifier) SendVerificationEmail(to, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errSendFailed
	}
	f.verificationSends = append(f.verificationSends, code)
	return nil
}

func (f *fakeNotifier) SendPasswordChangedEmail(to string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errSendFailed
	}
	f.passwordSends = append(f.passwordSends, to)
	return nil
}

func (f *fakeNotifier) lastVerificationCode() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.verificationSends) == 0 {
		return ""
	}
	return f.verificationSends[len(f.verificationSends)-1]
}

var errSendFailed = &sendError{}

type sendError struct{}

func (*sendError) Error() string { return "smtp unreachable" }

// testEnv bundles the services under test against one database.
type testEnv struct {
	db     *gorm.DB
	issuer *auth.TokenIssuer

	notifier *fakeNotifier

	authService         AuthService
	verificationService VerificationService
	userService         UserService
	rbacService         RBACService

	userRepo         repositories.UserRepository
	verificationRepo repositories.VerificationRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	rbacRepo         repositories.RBACRepository
	auditRepo        repositories.AuditRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	notifier := &fakeNotifier{}
	issuer := auth.NewTokenIssuer("test-secret", 15*time.Minute, 7*24*time.Hour)

	userRepo := repositories.NewUserRepository()
	credentialRepo := repositories.NewCredentialRepository()
	verificationRepo := repositories.NewVerificationRepository()
	refreshTokenRepo := repositories.NewRefreshTokenRepository()
	rbacRepo := repositories.NewRBACRepository()
	auditRepo := repositories.NewAuditRepository()

	codeTTL := 15 * time.Minute

	return &testEnv{
		db:       db,
		issuer:   issuer,
		notifier: notifier,

		authService: NewAuthService(
			userRepo, credentialRepo, verificationRepo, refreshTokenRepo,
			rbacRepo, auditRepo, notifier, issuer, codeTTL,
		),
		verificationService: NewVerificationService(userRepo, verificationRepo, notifier, codeTTL),
		userService:         NewUserService(userRepo, credentialRepo, verificationRepo, refreshTokenRepo, auditRepo, notifier),
		rbacService:         NewRBACService(rbacRepo, userRepo),

		userRepo:         userRepo,
		verificationRepo: verificationRepo,
		refreshTokenRepo: refreshTokenRepo,
		rbacRepo:         rbacRepo,
		auditRepo:        auditRepo,
	}
}

// registerUser registers and returns the stored user.
func (e *testEnv) registerUser(t *testing.T, email, password string) *models.User {
	t.Helper()

	_, err := e.authService.Register(e.db, registerReq(email, password))
	require.NoError(t, err)

	user, err := e.userRepo.FindByEmail(e.db, NormalizeEmail(email))
	require.NoError(t, err)
	return user
}

// registerVerifiedUser runs the full register-then-verify flow.
func (e *testEnv) registerVerifiedUser(t *testing.T, email, password string) *models.User {
	t.Helper()

	user := e.registerUser(t, email, password)

	code, err := e.verificationRepo.FindUsableCode(e.db, user.ID)
	require.NoError(t, err)
	require.NoError(t, e.verificationService.VerifyEmail(e.db, code.Code))

	user, err = e.userRepo.FindByID(e.db, user.ID)
	require.NoError(t, err)
	return user
}

func (e *testEnv) seededRole(t *testing.T, name string) *models.Role {
	t.Helper()

	var role models.Role
	require.NoError(t, e.db.Where("name = ?", name).First(&role).Error)
	return &role
}

func (e *testEnv) defaultResource(t *testing.T) *models.Resource {
	t.Helper()

	resource, err := e.rbacRepo.FindResourceByCode(e.db, models.DefaultResourceCode)
	require.NoError(t, err)
	return resource
}
