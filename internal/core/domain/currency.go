package domain

// Currency identifies one of the two trading currencies of the cash desk.
// Entries never mix currencies; every aggregation is per-currency.
type Currency string

const (
	USD Currency = "USD"
	CDF Currency = "CDF"
)

// Currencies lists the supported currencies in a stable order.
var Currencies = []Currency{USD, CDF}

// Valid reports whether c is a supported currency code.
func (c Currency) Valid() bool {
	return c == USD || c == CDF
}
