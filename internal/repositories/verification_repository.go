package repositories

import (
	"errors"
	"time"

	"windbooks_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrVerificationNotFound     = errors.New("verification record not found")
	ErrVerificationCodeNotFound = errors.New("verification code not found")
)

// VerificationRepository manages per-user verification state and the
// email verification codes.
type VerificationRepository interface {
	Create(db *gorm.DB, verification *models.Verification) error
	FindByUserID(db *gorm.DB, userID string) (*models.Verification, error)
	Update(db *gorm.DB, verification *models.Verification) error

	CreateCode(db *gorm.DB, code *models.EmailVerificationCode) error
	FindCode(db *gorm.DB, code string) (*models.EmailVerificationCode, error)
	// FindUsableCode returns an unexpired, unused code for the user if
	// one exists, so resends don't proliferate codes.
	FindUsableCode(db *gorm.DB, userID string) (*models.EmailVerificationCode, error)
	MarkCodeUsed(db *gorm.DB, codeID string) error
}

type verificationRepository struct{}

func NewVerificationRepository() VerificationRepository {
	return &verificationRepository{}
}

func (r *verificationRepository) Create(db *gorm.DB, verification *models.Verification) error {
	return db.Create(verification).Error
}

func (r *verificationRepository) FindByUserID(db *gorm.DB, userID string) (*models.Verification, error) {
	var verification models.Verification
	if err := db.Where("user_id = ?", userID).First(&verification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVerificationNotFound
		}
		return nil, err
	}
	return &verification, nil
}

func (r *verificationRepository) Update(db *gorm.DB, verification *models.Verification) error {
	return db.Save(verification).Error
}

func (r *verificationRepository) CreateCode(db *gorm.DB, code *models.EmailVerificationCode) error {
	return db.Create(code).Error
}

func (r *verificationRepository) FindCode(db *gorm.DB, code string) (*models.EmailVerificationCode, error) {
	var record models.EmailVerificationCode
	if err := db.Where("code = ?", code).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVerificationCodeNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *verificationRepository) FindUsableCode(db *gorm.DB, userID string) (*models.EmailVerificationCode, error) {
	var record models.EmailVerificationCode
	err := db.
		Where("user_id = ? AND is_used = ? AND expires_at > ?", userID, false, time.Now()).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVerificationCodeNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *verificationRepository) MarkCodeUsed(db *gorm.DB, codeID string) error {
	result := db.Model(&models.EmailVerificationCode{}).
		Where("id = ?", codeID).
		Update("is_used", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVerificationCodeNotFound
	}
	return nil
}
