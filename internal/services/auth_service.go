package services

import (
	"encoding/json"
	"strings"
	"time"

	"windbooks_backend/internal/apperrors"
	"windbooks_backend/internal/auth"
	"windbooks_backend/internal/logger"
	"windbooks_backend/internal/models"
	"windbooks_backend/internal/repositories"
	"windbooks_backend/internal/services/dto"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(db *gorm.DB, req *dto.LoginRequest, client *dto.ClientInfo) (*dto.LoginResponse, error)
	Refresh(db *gorm.DB, refreshToken string) (*dto.TokenPair, error)
	Logout(db *gorm.DB, refreshToken string) error
	Validate(token string) *dto.ValidateTokenResponse
}

type authService struct {
	userRepo         repositories.UserRepository
	credentialRepo   repositories.CredentialRepository
	verificationRepo repositories.VerificationRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	rbacRepo         repositories.RBACRepository
	auditRepo        repositories.AuditRepository
	notifications    NotificationService
	issuer           *auth.TokenIssuer
	codeTTL          time.Duration
}

func NewAuthService(
	userRepo repositories.UserRepository,
	credentialRepo repositories.CredentialRepository,
	verificationRepo repositories.VerificationRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	rbacRepo repositories.RBACRepository,
	auditRepo repositories.AuditRepository,
	notifications NotificationService,
	issuer *auth.TokenIssuer,
	codeTTL time.Duration,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		credentialRepo:   credentialRepo,
		verificationRepo: verificationRepo,
		refreshTokenRepo: refreshTokenRepo,
		rbacRepo:         rbacRepo,
		auditRepo:        auditRepo,
		notifications:    notifications,
		issuer:           issuer,
		codeTTL:          codeTTL,
	}
}

// NormalizeEmail lower-cases an email so the unique index enforces
// case-insensitive uniqueness on any database.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates the user with its credential, details, verification
// record and first verification code in one transaction. The
// verification email is best-effort: a send failure is logged and never
// fails registration.
func (s *authService) Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	code, err := auth.GenerateVerificationCode()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:    NormalizeEmail(req.Email),
		IsActive: false,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.Create(tx, user); err != nil {
			if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
				return apperrors.ErrEmailAlreadyExists
			}
			return apperrors.InternalError(err)
		}

		if err := s.credentialRepo.Create(tx, &models.Credential{
			UserID:       user.ID,
			PasswordHash: hashedPassword,
		}); err != nil {
			return apperrors.InternalError(err)
		}

		if err := s.userRepo.CreateDetails(tx, &models.UserDetails{UserID: user.ID}); err != nil {
			return apperrors.InternalError(err)
		}

		if err := s.verificationRepo.Create(tx, &models.Verification{
			UserID:     user.ID,
			Status:     models.VerificationStatusUnverified,
			UserStatus: models.UserStatusPending,
		}); err != nil {
			return apperrors.InternalError(err)
		}

		if err := s.verificationRepo.CreateCode(tx, &models.EmailVerificationCode{
			Code:      code,
			UserID:    user.ID,
			ExpiresAt: time.Now().Add(s.codeTTL),
		}); err != nil {
			return apperrors.InternalError(err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifications != nil {
		if err := s.notifications.SendVerificationEmail(user.Email, code); err != nil {
			logger.Warn("failed to send verification email",
				"user_id", user.ID,
				"error", err.Error(),
			)
		}
	}

	return dto.NewUserResponse(user), nil
}

// Login runs the credential checks in a fixed order, each with its own
// internal failure reason. A success issues a token pair and records a
// best-effort login-history row.
func (s *authService) Login(db *gorm.DB, req *dto.LoginRequest, client *dto.ClientInfo) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(db, NormalizeEmail(req.Email))
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	credential, err := s.credentialRepo.FindByUserID(db, user.ID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCredentialNotFound) {
			logger.Warn("login rejected: user has no credential record", "user_id", user.ID)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !user.IsActive {
		return nil, s.inactiveAccountError(db, user)
	}

	if !auth.CheckPasswordHash(req.Password, credential.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	pair, err := s.issueTokenPair(db, user)
	if err != nil {
		return nil, err
	}

	s.recordLoginHistory(db, user.ID, client)

	return &dto.LoginResponse{
		TokenPair: *pair,
		User:      dto.NewUserResponse(user),
	}, nil
}

// Refresh implements strict rotation: the submitted token's backing row
// is revoked and a fresh pair is issued inside one transaction, so a
// refresh token is usable at most once.
func (s *authService) Refresh(db *gorm.DB, refreshToken string) (*dto.TokenPair, error) {
	claims, err := s.issuer.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	row, err := s.refreshTokenRepo.FindByID(db, claims.ID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRefreshTokenNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}

	if row.RevokedAt != nil || time.Now().After(row.ExpiresAt) {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(db, row.UserID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}

	if !user.IsActive {
		return nil, s.inactiveAccountError(db, user)
	}

	var pair *dto.TokenPair
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.refreshTokenRepo.Revoke(tx, row.ID); err != nil {
			// A concurrent refresh already consumed this token.
			if apperrors.Is(err, repositories.ErrRefreshTokenNotFound) {
				return apperrors.ErrInvalidToken
			}
			return apperrors.InternalError(err)
		}

		pair, err = s.issueTokenPair(tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	return pair, nil
}

// Logout is idempotent: a malformed or already-revoked token has no
// session to revoke, so every outcome reports success.
func (s *authService) Logout(db *gorm.DB, refreshToken string) error {
	claims, err := s.issuer.VerifyRefresh(refreshToken)
	if err != nil {
		return nil
	}

	if err := s.refreshTokenRepo.Revoke(db, claims.ID); err != nil {
		if !apperrors.Is(err, repositories.ErrRefreshTokenNotFound) {
			logger.Warn("logout: failed to revoke refresh token",
				"jti", claims.ID,
				"error", err.Error(),
			)
		}
	}
	return nil
}

// Validate decodes an access token and reports its claims, or the
// verification error. The result is always a 200-level response body.
func (s *authService) Validate(token string) *dto.ValidateTokenResponse {
	claims, err := s.issuer.VerifyAccess(token)
	if err != nil {
		return &dto.ValidateTokenResponse{Valid: false, Error: err.Error()}
	}
	return &dto.ValidateTokenResponse{
		Valid:  true,
		UserID: claims.Subject,
		Roles:  claims.Roles,
	}
}

// issueTokenPair persists a new refresh-token row and signs both
// tokens; the row ID becomes the refresh token's jti.
func (s *authService) issueTokenPair(db *gorm.DB, user *models.User) (*dto.TokenPair, error) {
	roles, err := s.userRoleNames(db, user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	row := &models.RefreshToken{
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.issuer.RefreshTTL()),
	}
	if err := s.refreshTokenRepo.Create(db, row); err != nil {
		return nil, apperrors.InternalError(err)
	}

	accessToken, err := s.issuer.SignAccess(user.ID, roles)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshToken, err := s.issuer.SignRefresh(user.ID, row.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *authService) userRoleNames(db *gorm.DB, userID string) ([]string, error) {
	assignments, err := s.rbacRepo.ListAssignmentsForUser(db, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var roles []string
	for _, a := range assignments {
		if a.Role != nil && !seen[a.Role.Name] {
			seen[a.Role.Name] = true
			roles = append(roles, a.Role.Name)
		}
	}
	return roles, nil
}

// inactiveAccountError derives the 401 message from the verification
// record; the code field keeps the sub-reasons distinguishable for
// logging and tests.
func (s *authService) inactiveAccountError(db *gorm.DB, user *models.User) *apperrors.AppError {
	verification := user.Verification
	if verification == nil {
		v, err := s.verificationRepo.FindByUserID(db, user.ID)
		if err != nil {
			return apperrors.ErrAccountUnverified
		}
		verification = v
	}

	switch verification.Status {
	case models.VerificationStatusFailed:
		return apperrors.ErrVerificationFailed
	case models.VerificationStatusVerified:
		// Verified yet inactive means an explicit deactivation.
		return apperrors.ErrAccountDeactivated.WithMessage("Account is " + string(verification.UserStatus))
	default:
		return apperrors.ErrAccountUnverified
	}
}

// recordLoginHistory appends an audit row. Best-effort: a failure is
// logged and never fails the login.
func (s *authService) recordLoginHistory(db *gorm.DB, userID string, client *dto.ClientInfo) {
	entry := &models.UserLoginHistory{UserID: userID}
	if client != nil {
		if raw, err := json.Marshal(client); err == nil {
			entry.ClientInfo = datatypes.JSON(raw)
		}
	}
	if err := s.auditRepo.CreateLoginHistory(db, entry); err != nil {
		logger.Warn("failed to record login history",
			"user_id", userID,
			"error", err.Error(),
		)
	}
}
