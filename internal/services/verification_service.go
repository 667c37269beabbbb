package services

import (
	"time"

	"windbooks_backend/internal/apperrors"
	"windbooks_backend/internal/auth"
	"windbooks_backend/internal/models"
	"windbooks_backend/internal/repositories"

	"gorm.io/gorm"
)

// VerificationService drives the email verification lifecycle. Consuming
// a code is the only path that activates a user.
type VerificationService interface {
	VerifyEmail(db *gorm.DB, code string) error
	ResendVerification(db *gorm.DB, email string) error
}

type verificationService struct {
	userRepo         repositories.UserRepository
	verificationRepo repositories.VerificationRepository
	notifications    NotificationService
	codeTTL          time.Duration
}

func NewVerificationService(
	userRepo repositories.UserRepository,
	verificationRepo repositories.VerificationRepository,
	notifications NotificationService,
	codeTTL time.Duration,
) VerificationService {
	return &verificationService{
		userRepo:         userRepo,
		verificationRepo: verificationRepo,
		notifications:    notifications,
		codeTTL:          codeTTL,
	}
}

// VerifyEmail validates the code shape before touching the database,
// then checks existence, expiry and single-use. The three resulting
// writes (verification flags, user activation, code consumption) run in
// one transaction so a half-applied state cannot be observed.
func (s *verificationService) VerifyEmail(db *gorm.DB, code string) error {
	if !auth.IsValidVerificationCode(code) {
		return apperrors.ErrInvalidCodeFormat
	}

	record, err := s.verificationRepo.FindCode(db, code)
	if err != nil {
		if apperrors.Is(err, repositories.ErrVerificationCodeNotFound) {
			return apperrors.ErrVerificationCodeUnknown
		}
		return apperrors.InternalError(err)
	}

	if time.Now().After(record.ExpiresAt) {
		return apperrors.ErrVerificationCodeExpired
	}

	if record.IsUsed {
		return apperrors.ErrVerificationCodeUsed
	}

	verification, err := s.verificationRepo.FindByUserID(db, record.UserID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrVerificationNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		verification.IsEmailVerified = true
		verification.Status = models.VerificationStatusVerified
		verification.UserStatus = models.UserStatusActive
		if err := s.verificationRepo.Update(tx, verification); err != nil {
			return apperrors.InternalError(err)
		}

		if err := s.userRepo.SetActive(tx, record.UserID, true); err != nil {
			return apperrors.InternalError(err)
		}

		if err := s.verificationRepo.MarkCodeUsed(tx, record.ID); err != nil {
			return apperrors.InternalError(err)
		}

		return nil
	})
}

// ResendVerification reuses an unexpired unused code when one exists,
// otherwise mints a new one. Unlike registration, a send failure here
// fails the call: resending the email is the whole point.
func (s *verificationService) ResendVerification(db *gorm.DB, email string) error {
	user, err := s.userRepo.FindByEmail(db, NormalizeEmail(email))
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	verification, err := s.verificationRepo.FindByUserID(db, user.ID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrVerificationNotFound) {
			return apperrors.NotFound("Verification record")
		}
		return apperrors.InternalError(err)
	}

	if verification.IsEmailVerified {
		return apperrors.ErrAlreadyVerified
	}

	code, err := s.verificationRepo.FindUsableCode(db, user.ID)
	if err != nil {
		if !apperrors.Is(err, repositories.ErrVerificationCodeNotFound) {
			return apperrors.InternalError(err)
		}

		value, genErr := auth.GenerateVerificationCode()
		if genErr != nil {
			return apperrors.InternalError(genErr)
		}
		code = &models.EmailVerificationCode{
			Code:      value,
			UserID:    user.ID,
			ExpiresAt: time.Now().Add(s.codeTTL),
		}
		if err := s.verificationRepo.CreateCode(db, code); err != nil {
			return apperrors.InternalError(err)
		}
	}

	if err := s.notifications.SendVerificationEmail(user.Email, code.Code); err != nil {
		return apperrors.InternalError(err)
	}

	return nil
}
