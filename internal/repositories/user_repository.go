package repositories

import (
	"errors"

	"windbooks_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrDetailsNotFound   = errors.New("user details not found")
)

// UserRepository covers users and their profile details. Every method
// takes the *gorm.DB (pool or transaction) so callers control atomicity.
type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	Update(db *gorm.DB, user *models.User) error
	SetActive(db *gorm.DB, userID string, active bool) error
	UpdateEmail(db *gorm.DB, userID, email string) error
	Delete(db *gorm.DB, userID string) error
	FindAll(db *gorm.DB, offset, limit int) ([]models.User, error)
	CountAll(db *gorm.DB) (int64, error)

	CreateDetails(db *gorm.DB, details *models.UserDetails) error
	FindDetailsByUserID(db *gorm.DB, userID string) (*models.UserDetails, error)
	UpdateDetails(db *gorm.DB, details *models.UserDetails) error
}

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *models.User) error {
	var existing models.User
	if err := db.Where("email = ?", user.Email).First(&existing).Error; err == nil {
		return ErrUserAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return db.Create(user).Error
}

func (r *userRepository) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	err := db.
		Preload("Details").
		Preload("Verification").
		Preload("ResourceRoles").
		Preload("ResourceRoles.Role").
		Preload("ResourceRoles.Resource").
		First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := db.
		Preload("Verification").
		Preload("ResourceRoles").
		Preload("ResourceRoles.Role").
		First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(db *gorm.DB, user *models.User) error {
	return db.Save(user).Error
}

func (r *userRepository) SetActive(db *gorm.DB, userID string, active bool) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) UpdateEmail(db *gorm.DB, userID, email string) error {
	var existing models.User
	if err := db.Select("id").Where("email = ? AND id <> ?", email, userID).First(&existing).Error; err == nil {
		return ErrUserAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	result := db.Model(&models.User{}).Where("id = ?", userID).Update("email", email)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Delete(db *gorm.DB, userID string) error {
	result := db.Select("Credential", "Details", "Verification", "ResourceRoles", "RefreshTokens").
		Delete(&models.User{BaseModel: models.BaseModel{ID: userID}})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) FindAll(db *gorm.DB, offset, limit int) ([]models.User, error) {
	var users []models.User
	err := db.
		Preload("Details").
		Preload("Verification").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *userRepository) CountAll(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.User{}).Count(&count).Error
	return count, err
}

func (r *userRepository) CreateDetails(db *gorm.DB, details *models.UserDetails) error {
	return db.Create(details).Error
}

func (r *userRepository) FindDetailsByUserID(db *gorm.DB, userID string) (*models.UserDetails, error) {
	var details models.UserDetails
	if err := db.Where("user_id = ?", userID).First(&details).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDetailsNotFound
		}
		return nil, err
	}
	return &details, nil
}

func (r *userRepository) UpdateDetails(db *gorm.DB, details *models.UserDetails) error {
	return db.Save(details).Error
}
