package domain

import "time"

// Role is an actor role string as exposed by the identity provider.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleRespCompta Role = "resp_compta"
	RoleCaissier   Role = "caissier"
	RoleLogistique Role = "logisticien"
)

// IsCashier reports whether the role is one of the cashier roles
// (caissier, caissier1..caissier5).
func (r Role) IsCashier() bool {
	if r == RoleCaissier {
		return true
	}
	s := string(r)
	return len(s) == len(RoleCaissier)+1 && s[:len(RoleCaissier)] == string(RoleCaissier) &&
		s[len(s)-1] >= '1' && s[len(s)-1] <= '5'
}

// User represents an application user with a single role.
type User struct {
	UserID   string `json:"userID"` // Primary Key (UUID)
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Soft delete
}
