package services

import (
	"windbooks_backend/internal/apperrors"
	"windbooks_backend/internal/auth"
	"windbooks_backend/internal/logger"
	"windbooks_backend/internal/models"
	"windbooks_backend/internal/repositories"
	"windbooks_backend/internal/services/dto"

	"gorm.io/gorm"
)

type UserService interface {
	GetProfile(db *gorm.DB, userID string) (*dto.UserResponse, error)
	UpdateProfile(db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	UpdatePassword(db *gorm.DB, userID string, req *dto.UpdatePasswordRequest, updatedBy string, requireCurrent bool) error
	Deactivate(db *gorm.DB, userID string) error

	List(db *gorm.DB, page, limit int) (*dto.PaginatedUsers, error)
	Get(db *gorm.DB, userID string) (*dto.UserResponse, error)
	Create(db *gorm.DB, req *dto.AdminCreateUserRequest) (*dto.UserResponse, error)
	Delete(db *gorm.DB, userID string) error
}

type userService struct {
	userRepo         repositories.UserRepository
	credentialRepo   repositories.CredentialRepository
	verificationRepo repositories.VerificationRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	auditRepo        repositories.AuditRepository
	notifications    NotificationService
}

func NewUserService(
	userRepo repositories.UserRepository,
	credentialRepo repositories.CredentialRepository,
	verificationRepo repositories.VerificationRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	auditRepo repositories.AuditRepository,
	notifications NotificationService,
) UserService {
	return &userService{
		userRepo:         userRepo,
		credentialRepo:   credentialRepo,
		verificationRepo: verificationRepo,
		refreshTokenRepo: refreshTokenRepo,
		auditRepo:        auditRepo,
		notifications:    notifications,
	}
}

func (s *userService) GetProfile(db *gorm.DB, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.NewUserResponse(user), nil
}

// UpdateProfile: both passwords replace the credential after the old
// one verifies; a lone email updates the email; name and contact fields
// patch the details record; an empty request is a no-op returning the
// unchanged record.
func (s *userService) UpdateProfile(db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	switch {
	case req.OldPassword != "" && req.NewPassword != "":
		credential, err := s.credentialRepo.FindByUserID(db, userID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if !auth.CheckPasswordHash(req.OldPassword, credential.PasswordHash) {
			return nil, apperrors.ErrInvalidCredentials
		}
		if err := s.replacePassword(db, userID, req.NewPassword, userID); err != nil {
			return nil, err
		}

	case req.Email != "":
		if err := s.userRepo.UpdateEmail(db, userID, NormalizeEmail(req.Email)); err != nil {
			if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
				return nil, apperrors.ErrEmailAlreadyExists
			}
			if apperrors.Is(err, repositories.ErrUserNotFound) {
				return nil, apperrors.ErrUserNotFound
			}
			return nil, apperrors.InternalError(err)
		}
		user.Email = NormalizeEmail(req.Email)
	}

	if req.FirstName != "" || req.LastName != "" || req.ContactNumber != "" {
		details, err := s.userRepo.FindDetailsByUserID(db, userID)
		if err != nil {
			if !apperrors.Is(err, repositories.ErrDetailsNotFound) {
				return nil, apperrors.InternalError(err)
			}
			details = &models.UserDetails{UserID: userID}
		}
		if req.FirstName != "" {
			details.FirstName = req.FirstName
		}
		if req.LastName != "" {
			details.LastName = req.LastName
		}
		if req.ContactNumber != "" {
			details.ContactNumber = req.ContactNumber
		}
		if err := s.userRepo.UpdateDetails(db, details); err != nil {
			return nil, apperrors.InternalError(err)
		}
		user.Details = details
	}

	return dto.NewUserResponse(user), nil
}

// UpdatePassword is the admin-assisted variant: the current-password
// check is a toggle, an audit row records who changed it, and the owner
// gets a best-effort notification email.
func (s *userService) UpdatePassword(db *gorm.DB, userID string, req *dto.UpdatePasswordRequest, updatedBy string, requireCurrent bool) error {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	if requireCurrent {
		credential, err := s.credentialRepo.FindByUserID(db, userID)
		if err != nil {
			return apperrors.InternalError(err)
		}
		if !auth.CheckPasswordHash(req.CurrentPassword, credential.PasswordHash) {
			return apperrors.ErrInvalidCredentials
		}
	}

	if err := s.replacePassword(db, userID, req.NewPassword, updatedBy); err != nil {
		return err
	}

	if s.notifications != nil {
		if err := s.notifications.SendPasswordChangedEmail(user.Email); err != nil {
			logger.Warn("failed to send password-change notification",
				"user_id", userID,
				"error", err.Error(),
			)
		}
	}

	return nil
}

// Deactivate flips is_active and revokes the user's open sessions;
// verification state and data remain.
func (s *userService) Deactivate(db *gorm.DB, userID string) error {
	verification, err := s.verificationRepo.FindByUserID(db, userID)
	if err == nil {
		verification.UserStatus = models.UserStatusDeactivated
		if err := s.verificationRepo.Update(db, verification); err != nil {
			return apperrors.InternalError(err)
		}
	}

	if err := s.userRepo.SetActive(db, userID, false); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	if err := s.refreshTokenRepo.RevokeAllForUser(db, userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *userService) List(db *gorm.DB, page, limit int) (*dto.PaginatedUsers, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	total, err := s.userRepo.CountAll(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	users, err := s.userRepo.FindAll(db, (page-1)*limit, limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]*dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}

	return dto.NewPaginatedUsers(items, total, page, limit), nil
}

func (s *userService) Get(db *gorm.DB, userID string) (*dto.UserResponse, error) {
	return s.GetProfile(db, userID)
}

// Create is the admin path: the account starts active and verified,
// skipping the email flow.
func (s *userService) Create(db *gorm.DB, req *dto.AdminCreateUserRequest) (*dto.UserResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        NormalizeEmail(req.Email),
		IsActive:     true,
		IsSuperAdmin: req.IsSuperAdmin,
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

		if err := s.userRepo.CreateDetails(tx, &models.UserDetails{
			UserID:    user.ID,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		}); err != nil {
			return apperrors.InternalError(err)
		}

		if err := s.verificationRepo.Create(tx, &models.Verification{
			UserID:          user.ID,
			IsEmailVerified: true,
			Status:          models.VerificationStatusVerified,
			UserStatus:      models.UserStatusActive,
		}); err != nil {
			return apperrors.InternalError(err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return dto.NewUserResponse(user), nil
}

// Delete removes the user and cascades to dependent rows.
func (s *userService) Delete(db *gorm.DB, userID string) error {
	if err := s.userRepo.Delete(db, userID); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *userService) replacePassword(db *gorm.DB, userID, newPassword, updatedBy string) error {
	if err := auth.ValidatePassword(newPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := s.credentialRepo.UpdateHash(tx, userID, hashedPassword); err != nil {
			return apperrors.InternalError(err)
		}
		if err := s.auditRepo.CreatePasswordUpdate(tx, &models.UserPasswordUpdate{
			UserID:    userID,
			UpdatedBy: updatedBy,
		}); err != nil {
			// The audit row is best-effort; the password change stands.
			logger.Warn("failed to record password update",
				"user_id", userID,
				"error", err.Error(),
			)
		}
		return nil
	})
}
