package repositories

import (
	"windbooks_backend/internal/models"

	"gorm.io/gorm"
)

// AuditRepository appends to the login-history and password-update
// logs. Append-only: no updates, "most recent" reads order by creation
// time descending.
type AuditRepository interface {
	CreateLoginHistory(db *gorm.DB, entry *models.UserLoginHistory) error
	LatestLoginHistory(db *gorm.DB, userID string, limit int) ([]models.UserLoginHistory, error)
	CreatePasswordUpdate(db *gorm.DB, entry *models.UserPasswordUpdate) error
	LatestPasswordUpdates(db *gorm.DB, userID string, limit int) ([]models.UserPasswordUpdate, error)
}

type auditRepository struct{}

func NewAuditRepository() AuditRepository {
	return &auditRepository{}
}

func (r *auditRepository) CreateLoginHistory(db *gorm.DB, entry *models.UserLoginHistory) error {
	return db.Create(entry).Error
}

func (r *auditRepository) LatestLoginHistory(db *gorm.DB, userID string, limit int) ([]models.UserLoginHistory, error) {
	var entries []models.UserLoginHistory
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *auditRepository) CreatePasswordUpdate(db *gorm.DB, entry *models.UserPasswordUpdate) error {
	return db.Create(entry).Error
}

func (r *auditRepository) LatestPasswordUpdates(db *gorm.DB, userID string, limit int) ([]models.UserPasswordUpdate, error) {
	var entries []models.UserPasswordUpdate
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
