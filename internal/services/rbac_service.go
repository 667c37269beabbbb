package services

import (
	"windbooks_backend/internal/apperrors"
	"windbooks_backend/internal/models"
	"windbooks_backend/internal/repositories"
	"windbooks_backend/internal/services/dto"

	"gorm.io/gorm"
)

type RBACService interface {
	GetRolePermissions(db *gorm.DB) ([]dto.RolePermissions, error)
	AssignUserResourceRole(db *gorm.DB, userID, roleID string, resourceID *string) error
	RevokeUserResourceRole(db *gorm.DB, userID string, resourceID *string) error
}

type rbacService struct {
	rbacRepo repositories.RBACRepository
	userRepo repositories.UserRepository
}

func NewRBACService(rbacRepo repositories.RBACRepository, userRepo repositories.UserRepository) RBACService {
	return &rbacService{
		rbacRepo: rbacRepo,
		userRepo: userRepo,
	}
}

// GetRolePermissions returns the static role -> permissions catalog.
func (s *rbacService) GetRolePermissions(db *gorm.DB) ([]dto.RolePermissions, error) {
	roles, err := s.rbacRepo.ListRolesWithPermissions(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := make([]dto.RolePermissions, 0, len(roles))
	for _, role := range roles {
		permissions := make([]string, 0, len(role.Permissions))
		for _, p := range role.Permissions {
			permissions = append(permissions, p.Name)
		}
		result = append(result, dto.RolePermissions{
			Role:        role.Name,
			Permissions: permissions,
		})
	}
	return result, nil
}

// AssignUserResourceRole upserts the single assignment keyed on
// (user, resource), then mirrors the role onto the default application
// resource when the user has none there yet. The mirror happens at most
// once: repeat calls find the existing default-resource row.
func (s *rbacService) AssignUserResourceRole(db *gorm.DB, userID, roleID string, resourceID *string) error {
	if _, err := s.userRepo.FindByID(db, userID); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	if _, err := s.rbacRepo.FindRoleByID(db, roleID); err != nil {
		if apperrors.Is(err, repositories.ErrRoleNotFound) {
			return apperrors.ErrRoleNotFound
		}
		return apperrors.InternalError(err)
	}

	if resourceID != nil {
		if _, err := s.rbacRepo.FindResourceByID(db, *resourceID); err != nil {
			if apperrors.Is(err, repositories.ErrResourceNotFound) {
				return apperrors.ErrResourceNotFound
			}
			return apperrors.InternalError(err)
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := s.upsertAssignment(tx, userID, roleID, resourceID); err != nil {
			return err
		}
		return s.mirrorToDefaultResource(tx, userID, roleID, resourceID)
	})
}

// RevokeUserResourceRole deletes the composite-keyed row; a missing row
// is reported as not found.
func (s *rbacService) RevokeUserResourceRole(db *gorm.DB, userID string, resourceID *string) error {
	if err := s.rbacRepo.DeleteAssignment(db, userID, resourceID); err != nil {
		if apperrors.Is(err, repositories.ErrAssignmentNotFound) {
			return apperrors.ErrAssignmentNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *rbacService) upsertAssignment(db *gorm.DB, userID, roleID string, resourceID *string) error {
	existing, err := s.rbacRepo.FindAssignment(db, userID, resourceID)
	if err != nil {
		if !apperrors.Is(err, repositories.ErrAssignmentNotFound) {
			return apperrors.InternalError(err)
		}
		if err := s.rbacRepo.CreateAssignment(db, &models.UserResourceRole{
			UserID:     userID,
			ResourceID: resourceID,
			RoleID:     roleID,
		}); err != nil {
			return apperrors.InternalError(err)
		}
		return nil
	}

	existing.RoleID = roleID
	if err := s.rbacRepo.UpdateAssignment(db, existing); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// mirrorToDefaultResource applies the side-effect invariant: granting a
// role on a non-default resource implies the same role on the default
// resource unless one is already assigned there.
func (s *rbacService) mirrorToDefaultResource(db *gorm.DB, userID, roleID string, resourceID *string) error {
	if resourceID == nil {
		return nil
	}

	defaultResource, err := s.rbacRepo.FindResourceByCode(db, models.DefaultResourceCode)
	if err != nil {
		if apperrors.Is(err, repositories.ErrResourceNotFound) {
			// Catalog without the default resource: nothing to mirror onto.
			return nil
		}
		return apperrors.InternalError(err)
	}

	if *resourceID == defaultResource.ID {
		return nil
	}

	if _, err := s.rbacRepo.FindAssignment(db, userID, &defaultResource.ID); err == nil {
		return nil
	} else if !apperrors.Is(err, repositories.ErrAssignmentNotFound) {
		return apperrors.InternalError(err)
	}

	if err := s.rbacRepo.CreateAssignment(db, &models.UserResourceRole{
		UserID:     userID,
		ResourceID: &defaultResource.ID,
		RoleID:     roleID,
	}); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
