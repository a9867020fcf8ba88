package rule

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/outlay/internal/category"
)

// Match returns the first active rule whose conditions accept the expense, walking
// rules in the order given. Priority is not consulted here: callers pass rules in
// listing order (priority desc, then newest first). Returns nil when nothing matches.
func Match(rules []*ApprovalRule, amount decimal.Decimal, cat category.Category) *ApprovalRule {
	for _, r := range rules {
		if !r.IsActive {
			continue
		}

		if r.Conditions.Matches(amount, cat) {
			return r
		}
	}

	return nil
}
