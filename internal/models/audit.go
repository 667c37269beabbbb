package models

import "gorm.io/datatypes"

// UserLoginHistory is an append-only log, one row per successful login.
// ClientInfo carries request metadata (ip, user agent) as JSON.
type UserLoginHistory struct {
	BaseModel
	UserID     string         `gorm:"index;not null" json:"user_id"`
	ClientInfo datatypes.JSON `json:"client_info,omitempty"`
}

// UserPasswordUpdate records who changed a password and when.
type UserPasswordUpdate struct {
	BaseModel
	UserID    string `gorm:"index;not null" json:"user_id"`
	UpdatedBy string `gorm:"not null" json:"updated_by"`
}
