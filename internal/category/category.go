package category

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category classifies an expense.
type Category string

const (
	Food           Category = "Food"
	Transport      Category = "Transport"
	Accommodation  Category = "Accommodation"
	Entertainment  Category = "Entertainment"
	OfficeSupplies Category = "Office Supplies"
	Travel         Category = "Travel"
	Other          Category = "Other"
)

var all = []Category{Food, Transport, Accommodation, Entertainment, OfficeSupplies, Travel, Other}

// All returns every known category in display order.
func All() []Category {
	return slices.Clone(all)
}

func (c Category) Valid() bool {
	return slices.Contains(all, c)
}

// Parse matches s against the known categories ignoring case and surrounding space.
func Parse(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range all {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}

	return "", false
}

// Mapping remembers which category a merchant's receipts belong to.
type Mapping struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	MerchantPattern string
	Category        Category
	CreatedAt       time.Time
}
