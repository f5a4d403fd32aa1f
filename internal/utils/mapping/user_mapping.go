package mapping

import (
	"github.com/mbmkongo/caisse_management_app/internal/core/domain"
	"github.com/mbmkongo/caisse_management_app/internal/models"
)

// ToDomainUser converts a user row to its domain form. The password hash
// stays behind in the model.
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:      m.UserID,
		Email:       m.Email,
		FullName:    m.FullName,
		Role:        domain.Role(m.Role),
		AuditFields: ToDomainAuditFields(m.AuditFields),
		DeletedAt:   m.DeletedAt,
	}
}

// ToDomainUserSlice converts a slice of user rows to domain users.
func ToDomainUserSlice(ms []models.User) []domain.User {
	ds := make([]domain.User, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainUser(m)
	}
	return ds
}

// ToModelStartingBalance converts a domain starting balance to its row form.
func ToModelStartingBalance(d domain.StartingBalance) models.StartingBalance {
	return models.StartingBalance{
		AccountOwner: d.AccountOwner,
		AccountRole:  d.AccountRole,
		Currency:     string(d.Currency),
		Amount:       d.Amount,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainStartingBalance converts a starting balance row to its domain form.
func ToDomainStartingBalance(m models.StartingBalance) domain.StartingBalance {
	return domain.StartingBalance{
		AccountOwner: m.AccountOwner,
		AccountRole:  m.AccountRole,
		Currency:     domain.Currency(m.Currency),
		Amount:       m.Amount,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
