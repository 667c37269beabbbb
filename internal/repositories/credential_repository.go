package repositories

import (
	"errors"

	"windbooks_backend/internal/models"

	"gorm.io/gorm"
)

var ErrCredentialNotFound = errors.New("credential not found")

// CredentialRepository manages the one-per-user password credential.
type CredentialRepository interface {
	Create(db *gorm.DB, credential *models.Credential) error
	FindByUserID(db *gorm.DB, userID string) (*models.Credential, error)
	UpdateHash(db *gorm.DB, userID, passwordHash string) error
}

type credentialRepository struct{}

func NewCredentialRepository() CredentialRepository {
	return &credentialRepository{}
}

func (r *credentialRepository) Create(db *gorm.DB, credential *models.Credential) error {
	return db.Create(credential).Error
}

func (r *credentialRepository) FindByUserID(db *gorm.DB, userID string) (*models.Credential, error) {
	var credential models.Credential
	if err := db.Where("user_id = ?", userID).First(&credential).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCredentialNotFound
		}
		return nil, err
	}
	return &credential, nil
}

// UpdateHash replaces the stored hash in place; credentials are never
// versioned.
func (r *credentialRepository) UpdateHash(db *gorm.DB, userID, passwordHash string) error {
	result := db.Model(&models.Credential{}).
		Where("user_id = ?", userID).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCredentialNotFound
	}
	return nil
}
