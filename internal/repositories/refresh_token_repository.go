package repositories

import (
	"errors"
	"time"

	"windbooks_backend/internal/models"

	"gorm.io/gorm"
)

var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshTokenRepository manages the rows backing refresh tokens. The
// row ID is the token's jti claim; revocation flips RevokedAt.
type RefreshTokenRepository interface {
	Create(db *gorm.DB, token *models.RefreshToken) error
	FindByID(db *gorm.DB, id string) (*models.RefreshToken, error)
	Revoke(db *gorm.DB, id string) error
	RevokeAllForUser(db *gorm.DB, userID string) error
	DeleteExpired(db *gorm.DB) error
	CountActiveForUser(db *gorm.DB, userID string) (int64, error)
}

type refreshTokenRepository struct{}

func NewRefreshTokenRepository() RefreshTokenRepository {
	return &refreshTokenRepository{}
}

func (r *refreshTokenRepository) Create(db *gorm.DB, token *models.RefreshToken) error {
	return db.Create(token).Error
}

func (r *refreshTokenRepository) FindByID(db *gorm.DB, id string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := db.First(&token, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

// Revoke marks the row revoked. Only rows not yet revoked match, so two
// concurrent rotations of the same token cannot both succeed.
func (r *refreshTokenRepository) Revoke(db *gorm.DB, id string) error {
	result := db.Model(&models.RefreshToken{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", time.Now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRefreshTokenNotFound
	}
	return nil
}

func (r *refreshTokenRepository) RevokeAllForUser(db *gorm.DB, userID string) error {
	return db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", time.Now()).Error
}

func (r *refreshTokenRepository) DeleteExpired(db *gorm.DB) error {
	return db.Where("expires_at < ?", time.Now()).Delete(&models.RefreshToken{}).Error
}

func (r *refreshTokenRepository) CountActiveForUser(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, time.Now()).
		Count(&count).Error
	return count, err
}
