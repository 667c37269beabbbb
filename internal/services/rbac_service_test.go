package services

import (
	"testing"

	"windbooks_backend/internal/apperrors"
	"windbooks_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) createResource(t *testing.T, code string) *models.Resource {
	t.Helper()

	resource := &models.Resource{Code: code, Name: code}
	require.NoError(t, e.db.Create(resource).Error)
	return resource
}

func (e *testEnv) assignmentCount(t *testing.T, userID string) int64 {
	t.Helper()

	var count int64
	require.NoError(t, e.db.Model(&models.UserResourceRole{}).
		Where("user_id = ?", userID).Count(&count).Error)
	return count
}

func TestGetRolePermissionsCatalog(t *testing.T) {
	env := newTestEnv(t)

	catalog, err := env.rbacService.GetRolePermissions(env.db)
	require.NoError(t, err)

	byRole := make(map[string][]string, len(catalog))
	for _, entry := range catalog {
		byRole[entry.Role] = entry.Permissions
	}

	require.Contains(t, byRole, "admin")
	require.Contains(t, byRole, "editor")
	require.Contains(t, byRole, "viewer")

	assert.Contains(t, byRole["admin"], "users:delete")
	assert.Contains(t, byRole["editor"], "reports:write")
	assert.NotContains(t, byRole["viewer"], "users:write")
}

func TestAssignRoleMirrorsToDefaultResource(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerVerifiedUser(t, "grantee@example.com", "password123")
	editor := env.seededRole(t, "editor")
	reports := env.createResource(t, "REPORTS")

	require.NoError(t, env.rbacService.AssignUserResourceRole(env.db, user.ID, editor.ID, &reports.ID))

	// One row on the target resource and one mirrored onto the default.
	assert.EqualValues(t, 2, env.assignmentCount(t, user.ID))

	defaultResource := env.defaultResource(t)
	mirrored, err := env.rbacRepo.FindAssignment(env.db, user.ID, &defaultResource.ID)
	require.NoError(t, err)
	assert.Equal(t, editor.ID, mirrored.RoleID)
}

func TestAssignRoleMirrorsAtMostOnce(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerVerifiedUser(t, "repeat@example.com", "password123")
	editor := env.seededRole(t, "editor")
	admin := env.seededRole(t, "admin")
	reports := env.createResource(t, "REPORTS")

	require.NoError(t, env.rbacService.AssignUserResourceRole(env.db, user.ID, editor.ID, &reports.ID))
	require.NoError(t, env.rbacService.AssignUserResourceRole(env.db, user.ID, admin.ID, &reports.ID))

	// Re-assigning upserts the target row; the mirror is untouched.
	assert.EqualValues(t, 2, env.assignmentCount(t, user.ID))

	target, err := env.rbacRepo.FindAssignment(env.db, user.ID, &reports.ID)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, target.RoleID)

	defaultResource := env.defaultResource(t)
	mirrored, err := env.rbacRepo.FindAssignment(env.db, user.ID, &defaultResource.ID)
	require.NoError(t, err)
	assert.Equal(t, editor.ID, mirrored.RoleID)
}

func TestAssignRoleOnDefaultResourceDoesNotMirror(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerVerifiedUser(t, "direct@example.com", "password123")
	viewer := env.seededRole(t, "viewer")
	defaultResource := env.defaultResource(t)

	require.NoError(t, env.rbacService.AssignUserResourceRole(env.db, user.ID, viewer.ID, &defaultResource.ID))

	assert.EqualValues(t, 1, env.assignmentCount(t, user.ID))
}

func TestAssignGlobalRoleDoesNotMirror(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerVerifiedUser(t, "global@example.com", "password123")
	viewer := env.seededRole(t, "viewer")

	require.NoError(t, env.rbacService.AssignUserResourceRole(env.db, user.ID, viewer.ID, nil))

	assert.EqualValues(t, 1, env.assignmentCount(t, user.ID))

	assignment, err := env.rbacRepo.FindAssignment(env.db, user.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, assignment.ResourceID)
}

func TestAssignRejectsUnknownReferences(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerVerifiedUser(t, "checked@example.com", "password123")
	viewer := env.seededRole(t, "viewer")
	missing := "00000000-0000-0000-0000-000000000000"

	err := env.rbacService.AssignUserResourceRole(env.db, missing, viewer.ID, nil)
	requireAppErrorCode(t, err, apperrors.CodeUserNotFound)

	err = env.rbacService.AssignUserResourceRole(env.db, user.ID, missing, nil)
	requireAppErrorCode(t, err, apperrors.CodeRoleNotFound)

	err = env.rbacService.AssignUserResourceRole(env.db, user.ID, viewer.ID, &missing)
	requireAppErrorCode(t, err, apperrors.CodeResourceNotFound)
}

func TestRevokeRole(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerVerifiedUser(t, "revoked@example.com", "password123")
	viewer := env.seededRole(t, "viewer")
	defaultResource := env.defaultResource(t)

	require.NoError(t, env.rbacService.AssignUserResourceRole(env.db, user.ID, viewer.ID, &defaultResource.ID))
	require.NoError(t, env.rbacService.RevokeUserResourceRole(env.db, user.ID, &defaultResource.ID))

	assert.EqualValues(t, 0, env.assignmentCount(t, user.ID))
}

func TestRevokeMissingAssignment(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerVerifiedUser(t, "bare@example.com", "password123")

	err := env.rbacService.RevokeUserResourceRole(env.db, user.ID, nil)
	requireAppErrorCode(t, err, apperrors.CodeAssignmentNotFound)
}
