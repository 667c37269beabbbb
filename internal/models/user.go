package models

import "time"

// VerificationStatus tracks the outcome of the email verification flow.
type VerificationStatus string

const (
	VerificationStatusUnverified VerificationStatus = "unverified"
	VerificationStatusVerified   VerificationStatus = "verified"
	VerificationStatusFailed     VerificationStatus = "failed"
)

// UserStatus is the account state derived from verification.
type UserStatus string

const (
	UserStatusPending     UserStatus = "pending"
	UserStatusActive      UserStatus = "active"
	UserStatusDeactivated UserStatus = "deactivated"
)

type User struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	IsActive     bool   `gorm:"default:false" json:"is_active"`
	IsSuperAdmin bool   `gorm:"default:false" json:"is_super_admin"`

	// Relations
	Credential    *Credential        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Details       *UserDetails       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"details,omitempty"`
	Verification  *Verification      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"verification,omitempty"`
	ResourceRoles []UserResourceRole `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"resource_roles,omitempty"`
	RefreshTokens []RefreshToken     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// Credential holds the password hash, one per user. Replaced in place
// on password change, never versioned.
type Credential struct {
	BaseModel
	UserID       string `gorm:"uniqueIndex;not null" json:"user_id"`
	PasswordHash string `gorm:"not null" json:"-"`
}

type UserDetails struct {
	BaseModel
	UserID        string  `gorm:"uniqueIndex;not null" json:"user_id"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	ContactNumber string  `json:"contact_number"`
	ReportsTo     *string `gorm:"type:uuid" json:"reports_to,omitempty"`
}

// Verification tracks per-user verification state. A user can log in
// only once IsEmailVerified flipped the account active.
type Verification struct {
	BaseModel
	UserID            string             `gorm:"uniqueIndex;not null" json:"user_id"`
	IsEmailVerified   bool               `gorm:"default:false" json:"is_email_verified"`
	IsContactVerified bool               `gorm:"default:false" json:"is_contact_verified"`
	Status            VerificationStatus `gorm:"type:varchar(20);default:'unverified'" json:"status"`
	UserStatus        UserStatus         `gorm:"type:varchar(20);default:'pending'" json:"user_status"`
}

// EmailVerificationCode is a single-use, time-limited code mailed to
// the user. Consumed codes stay around with IsUsed set.
type EmailVerificationCode struct {
	BaseModel
	Code      string    `gorm:"uniqueIndex;not null" json:"code"`
	UserID    string    `gorm:"index;not null" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	IsUsed    bool      `gorm:"default:false" json:"is_used"`
}

// RefreshToken is the revocation-tracking row backing a signed refresh
// token. The row ID is embedded in the token as the jti claim; a token
// is usable only while RevokedAt is null and ExpiresAt is in the future.
type RefreshToken struct {
	BaseModel
	UserID    string     `gorm:"index;not null" json:"user_id"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}
