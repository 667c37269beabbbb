package repositories

import (
	"errors"

	"windbooks_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrRoleNotFound       = errors.New("role not found")
	ErrResourceNotFound   = errors.New("resource not found")
	ErrAssignmentNotFound = errors.New("role assignment not found")
)

// RBACRepository reads the role/permission catalog and manages
// per-(user, resource) role assignments.
type RBACRepository interface {
	ListRolesWithPermissions(db *gorm.DB) ([]models.Role, error)
	FindRoleByID(db *gorm.DB, id string) (*models.Role, error)
	FindResourceByID(db *gorm.DB, id string) (*models.Resource, error)
	FindResourceByCode(db *gorm.DB, code string) (*models.Resource, error)

	FindAssignment(db *gorm.DB, userID string, resourceID *string) (*models.UserResourceRole, error)
	CreateAssignment(db *gorm.DB, assignment *models.UserResourceRole) error
	UpdateAssignment(db *gorm.DB, assignment *models.UserResourceRole) error
	DeleteAssignment(db *gorm.DB, userID string, resourceID *string) error
	ListAssignmentsForUser(db *gorm.DB, userID string) ([]models.UserResourceRole, error)
}

type rbacRepository struct{}

func NewRBACRepository() RBACRepository {
	return &rbacRepository{}
}

func (r *rbacRepository) ListRolesWithPermissions(db *gorm.DB) ([]models.Role, error) {
	var roles []models.Role
	err := db.Preload("Permissions").Order("name").Find(&roles).Error
	return roles, err
}

func (r *rbacRepository) FindRoleByID(db *gorm.DB, id string) (*models.Role, error) {
	var role models.Role
	if err := db.Preload("Permissions").First(&role, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *rbacRepository) FindResourceByID(db *gorm.DB, id string) (*models.Resource, error) {
	var resource models.Resource
	if err := db.First(&resource, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	return &resource, nil
}

func (r *rbacRepository) FindResourceByCode(db *gorm.DB, code string) (*models.Resource, error) {
	var resource models.Resource
	if err := db.First(&resource, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	return &resource, nil
}

func (r *rbacRepository) FindAssignment(db *gorm.DB, userID string, resourceID *string) (*models.UserResourceRole, error) {
	var assignment models.UserResourceRole
	query := db.Where("user_id = ?", userID)
	if resourceID == nil {
		query = query.Where("resource_id IS NULL")
	} else {
		query = query.Where("resource_id = ?", *resourceID)
	}
	if err := query.First(&assignment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *rbacRepository) CreateAssignment(db *gorm.DB, assignment *models.UserResourceRole) error {
	return db.Create(assignment).Error
}

func (r *rbacRepository) UpdateAssignment(db *gorm.DB, assignment *models.UserResourceRole) error {
	return db.Save(assignment).Error
}

func (r *rbacRepository) DeleteAssignment(db *gorm.DB, userID string, resourceID *string) error {
	query := db.Where("user_id = ?", userID)
	if resourceID == nil {
		query = query.Where("resource_id IS NULL")
	} else {
		query = query.Where("resource_id = ?", *resourceID)
	}
	result := query.Delete(&models.UserResourceRole{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}

func (r *rbacRepository) ListAssignmentsForUser(db *gorm.DB, userID string) ([]models.UserResourceRole, error) {
	var assignments []models.UserResourceRole
	err := db.
		Preload("Role").
		Preload("Role.Permissions").
		Preload("Resource").
		Where("user_id = ?", userID).
		Find(&assignments).Error
	return assignments, err
}
