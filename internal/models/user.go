package models

import "time"

// User mirrors a row of the users table. PasswordHash never leaves the
// repository layer.
type User struct {
	UserID       string `json:"userID"`
	Email        string `json:"email"`
	FullName     string `json:"fullName"`
	Role         string `json:"role"`
	PasswordHash string `json:"-"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}
