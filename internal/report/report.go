// Package report builds reimbursement reports over approved expenses.
package report

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/outlay/internal/apperr"
	"github.com/MrJamesThe3rd/outlay/internal/expense"
	"github.com/MrJamesThe3rd/outlay/internal/validation"
)

const noReceipt = "No receipt"

// Period is an inclusive date range over expense dates.
type Period struct {
	From time.Time
	To   time.Time
}

func (p Period) Validate() error {
	var errs []error

	if p.From.IsZero() {
		errs = append(errs, apperr.Invalid("start_date", "start date is required"))
	}

	if p.To.IsZero() {
		errs = append(errs, apperr.Invalid("end_date", "end date is required"))
	}

	if !p.From.IsZero() && !p.To.IsZero() && p.To.Before(p.From) {
		errs = append(errs, apperr.Invalid("end_date", "end date must not be before start date"))
	}

	return validation.Merge(errs...)
}

// Submitter groups the approved expenses of one user.
type Submitter struct {
	UserID   uuid.UUID
	Name     string
	Email    string
	Total    decimal.Decimal
	Expenses []*expense.Expense
}

// Summary totals approved expenses in the tenant's base currency.
type Summary struct {
	Period     Period
	Currency   string
	Count      int
	Total      decimal.Decimal
	Submitters []*Submitter
}

// ReceiptName is the path a receipt takes inside the report archive.
func ReceiptName(e *expense.Expense) string {
	ext := filepath.Ext(e.Receipt.FileName)
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(e.Receipt.ContentType); len(exts) > 0 {
			ext = exts[0]
		} else {
			ext = ".bin"
		}
	}

	safeDesc := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, e.Description)

	return fmt.Sprintf("receipts/%s_%s_%s%s", e.Date.Format("20060102"), safeDesc, e.ID.String()[:8], ext)
}

// Text renders the summary as plain text. files maps expense IDs to their archived
// receipt path; expenses with a receipt but no entry are listed as missing. A nil
// files prints receipt file names as stored.
func (s *Summary) Text(files map[uuid.UUID]string) string {
	var (
		sb      strings.Builder
		missing []*expense.Expense
	)

	fmt.Fprintf(&sb, "Reimbursement report %s to %s\n", s.Period.From.Format(time.DateOnly), s.Period.To.Format(time.DateOnly))
	fmt.Fprintf(&sb, "Total: %s %s (%d expenses)\n", s.Total.StringFixed(2), s.Currency, s.Count)

	for _, sub := range s.Submitters {
		fmt.Fprintf(&sb, "\n%s <%s>: %s %s\n", sub.Name, sub.Email, sub.Total.StringFixed(2), s.Currency)

		for _, e := range sub.Expenses {
			status := noReceipt

			switch {
			case e.Receipt == nil:
			case files == nil:
				status = e.Receipt.FileName
			default:
				if name, ok := files[e.ID]; ok {
					status = name
				} else {
					status = "Missing receipt"
					missing = append(missing, e)
				}
			}

			fmt.Fprintf(&sb, "* %s | %s | %s %s | %s\n",
				e.Date.Format(time.DateOnly), e.Description, e.BaseAmount.StringFixed(2), e.BaseCurrency, status)
		}
	}

	if len(missing) > 0 {
		sb.WriteString("\nMissing receipts:\n")

		for _, e := range missing {
			fmt.Fprintf(&sb, "* %s | %s | %s\n", e.ID, e.Description, e.Receipt.FileName)
		}
	}

	return sb.String()
}
