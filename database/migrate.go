package database

import (
	"windbooks_backend/internal/logger"
	"windbooks_backend/internal/models"

	"gorm.io/gorm"
)

// Migrate creates the schema and seeds the role/permission catalog.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Credential{},
		&models.UserDetails{},
		&models.Verification{},
		&models.EmailVerificationCode{},
		&models.RefreshToken{},
		&models.Permission{},
		&models.Role{},
		&models.Resource{},
		&models.UserResourceRole{},
		&models.UserLoginHistory{},
		&models.UserPasswordUpdate{},
	); err != nil {
		return err
	}

	return seedCatalog(db)
}

// seedCatalog is idempotent: existing rows are looked up by their
// natural key and reused.
func seedCatalog(db *gorm.DB) error {
	permissionsByName := map[string]*models.Permission{}
	for _, name := range []string{
		"users:read",
		"users:write",
		"users:delete",
		"reports:read",
		"reports:write",
		"settings:read",
		"settings:write",
	} {
		p := &models.Permission{Name: name}
		if err := db.Where(models.Permission{Name: name}).FirstOrCreate(p).Error; err != nil {
			return err
		}
		permissionsByName[name] = p
	}

	rolePermissions := map[string][]string{
		"admin": {
			"users:read", "users:write", "users:delete",
			"reports:read", "reports:write",
			"settings:read", "settings:write",
		},
		"editor": {
			"users:read",
			"reports:read", "reports:write",
			"settings:read",
		},
		"viewer": {
			"users:read",
			"reports:read",
		},
	}

	for name, permNames := range rolePermissions {
		role := &models.Role{Name: name}
		if err := db.Where(models.Role{Name: name}).FirstOrCreate(role).Error; err != nil {
			return err
		}

		perms := make([]models.Permission, 0, len(permNames))
		for _, pn := range permNames {
			perms = append(perms, *permissionsByName[pn])
		}
		if err := db.Model(role).Association("Permissions").Replace(perms); err != nil {
			return err
		}
	}

	defaultResource := &models.Resource{
		Code: models.DefaultResourceCode,
		Name: "Windbooks Application",
	}
	if err := db.Where(models.Resource{Code: models.DefaultResourceCode}).
		FirstOrCreate(defaultResource).Error; err != nil {
		return err
	}

	logger.Info("catalog seeded",
		"permissions", len(permissionsByName),
		"roles", len(rolePermissions),
		"default_resource", defaultResource.Code,
	)
	return nil
}
