package importer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Profile describes the column layout of a supported statement format.
type Profile struct {
	Name        string
	Comma       rune
	DateCol     string
	DescCol     string
	AmountCol   string
	CurrencyCol string
	CategoryCol string
	PaidByCol   string
	DateLayout  string
	parseAmount func(string) (decimal.Decimal, error)
}

// requiredCols are the columns a header row must carry for the profile to match.
// Currency, category and paid-by columns are optional.
func (p Profile) requiredCols() []string {
	return []string{p.DateCol, p.DescCol, p.AmountCol}
}

// profiles are tried in order against every row until a header matches.
var profiles = []Profile{
	{
		Name:        "standard",
		Comma:       ',',
		DateCol:     "date",
		DescCol:     "description",
		AmountCol:   "amount",
		CurrencyCol: "currency",
		CategoryCol: "category",
		PaidByCol:   "paid_by",
		DateLayout:  "2006-01-02",
		parseAmount: decimal.NewFromString,
	},
	{
		Name:        "european",
		Comma:       ';',
		DateCol:     "data",
		DescCol:     "descrição",
		AmountCol:   "montante",
		CurrencyCol: "moeda",
		CategoryCol: "categoria",
		PaidByCol:   "pago por",
		DateLayout:  "02-01-2006",
		parseAmount: parseEuropeanAmount,
	},
}

// parseEuropeanAmount reads "1.234,56" style amounts.
func parseEuropeanAmount(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(s, ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")

	return decimal.NewFromString(clean)
}
