package models

// DefaultResourceCode is the distinguished application resource. Role
// assignments on any other resource are mirrored here when the user has
// no default-resource role yet.
const DefaultResourceCode = "WINDBOOKS_APP"

type Role struct {
	BaseModel
	Name        string       `gorm:"uniqueIndex;not null" json:"name"`
	Description string       `json:"description"`
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions,omitempty"`
}

type Permission struct {
	BaseModel
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description"`
}

// Resource is a permission-scoping entity roles can be granted against.
type Resource struct {
	BaseModel
	Code        string `gorm:"uniqueIndex;not null" json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UserResourceRole assigns one role to a user on a resource. ResourceID
// is nullable: a null resource is the global assignment. At most one
// row exists per (user, resource) pair.
type UserResourceRole struct {
	BaseModel
	UserID     string  `gorm:"index:idx_user_resource,unique;not null" json:"user_id"`
	ResourceID *string `gorm:"index:idx_user_resource,unique;type:uuid" json:"resource_id,omitempty"`
	RoleID     string  `gorm:"not null" json:"role_id"`

	Role     *Role     `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Resource *Resource `gorm:"foreignKey:ResourceID" json:"resource,omitempty"`
}
