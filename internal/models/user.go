package models

import "time"

// User is the database representation of a staff user.
type User struct {
	UserID             string     `json:"userID"`
	Username           string     `json:"username"`
	Name               string     `json:"name"`
	PasswordHash       string     `json:"-"`
	RefreshTokenHash   *string    `json:"-"`
	RefreshTokenExpiry *time.Time `json:"-"`
	DisabledAt         *time.Time `json:"disabledAt,omitempty"`
	AuditFields
}
