package mapping

import (
	"github.com/mbmkongo/caisse_management_app/internal/core/domain"
	"github.com/mbmkongo/caisse_management_app/internal/models"
)

// ToModelClosureTransfer flattens a domain closure into its row form.
func ToModelClosureTransfer(d domain.ClosureTransfer) models.ClosureTransfer {
	return models.ClosureTransfer{
		ClosureID:      d.ClosureID,
		CashierID:      d.CashierID,
		CashierRole:    d.CashierRole,
		ClosingDate:    d.ClosingDate,
		OpeningUSD:     d.USD.Opening,
		OpeningCDF:     d.CDF.Opening,
		ExpectedUSD:    d.USD.Expected,
		ExpectedCDF:    d.CDF.Expected,
		ClosingUSD:     d.USD.Declared,
		ClosingCDF:     d.CDF.Declared,
		TransferredUSD: d.USD.Transferred,
		TransferredCDF: d.CDF.Transferred,
		GapUSD:         d.USD.Gap,
		GapCDF:         d.CDF.Gap,
		Notes:          d.Notes,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainClosureTransfer rebuilds the per-currency breakdown from a row.
func ToDomainClosureTransfer(m models.ClosureTransfer) domain.ClosureTransfer {
	return domain.ClosureTransfer{
		ClosureID:   m.ClosureID,
		CashierID:   m.CashierID,
		CashierRole: m.CashierRole,
		ClosingDate: m.ClosingDate,
		USD: domain.CurrencyClosure{
			Opening:     m.OpeningUSD,
			Expected:    m.ExpectedUSD,
			Declared:    m.ClosingUSD,
			Transferred: m.TransferredUSD,
			Gap:         m.GapUSD,
		},
		CDF: domain.CurrencyClosure{
			Opening:     m.OpeningCDF,
			Expected:    m.ExpectedCDF,
			Declared:    m.ClosingCDF,
			Transferred: m.TransferredCDF,
			Gap:         m.GapCDF,
		},
		Notes:       m.Notes,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
