package domain

import "time"

// User is a staff member allowed to operate on fees through the API.
type User struct {
	UserID             string     `json:"userID"` // Primary Key (UUID)
	Username           string     `json:"username"`
	Name               string     `json:"name"`
	PasswordHash       string     `json:"-"`
	RefreshTokenHash   *string    `json:"-"`
	RefreshTokenExpiry *time.Time `json:"-"`
	DisabledAt         *time.Time `json:"disabledAt,omitempty"`
	AuditFields
}
