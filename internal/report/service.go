package report

//go:generate mockgen -source=service.go -destination=service_mock.go -package=report

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/outlay/internal/expense"
	"github.com/MrJamesThe3rd/outlay/internal/identity"
)

// fetchLimit bounds concurrent receipt downloads.
const fetchLimit = 4

type Expenses interface {
	ListTenant(ctx context.Context, actor *identity.User, filter expense.Filter, page expense.Page) (*expense.List, error)
}

type Directory interface {
	FindTenant(ctx context.Context, id uuid.UUID) (*identity.Tenant, error)
	UsersByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*identity.User, error)
}

type Files interface {
	Open(ctx context.Context, object string) (io.ReadCloser, error)
}

type Service struct {
	expenses  Expenses
	directory Directory
	files     Files
}

// NewService builds a report service. files may be nil, in which case every
// receipt is reported missing from the archive.
func NewService(expenses Expenses, directory Directory, files Files) *Service {
	return &Service{
		expenses:  expenses,
		directory: directory,
		files:     files,
	}
}

// Summary groups the tenant's approved expenses dated within period by submitter.
// Only admins may build it.
func (s *Service) Summary(ctx context.Context, actor *identity.User, period Period) (*Summary, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	expenses, err := s.approved(ctx, actor, period)
	if err != nil {
		return nil, err
	}

	tenant, err := s.directory.FindTenant(ctx, actor.TenantID)
	if err != nil {
		return nil, fmt.Errorf("finding tenant: %w", err)
	}

	sum := &Summary{
		Period:   period,
		Currency: tenant.BaseCurrency,
		Count:    len(expenses),
		Total:    decimal.Zero,
	}

	bySubmitter := make(map[uuid.UUID]*Submitter)
	ids := make([]uuid.UUID, 0)

	for _, e := range expenses {
		sub, ok := bySubmitter[e.SubmittedBy]
		if !ok {
			sub = &Submitter{UserID: e.SubmittedBy, Total: decimal.Zero}
			bySubmitter[e.SubmittedBy] = sub
			ids = append(ids, e.SubmittedBy)
			sum.Submitters = append(sum.Submitters, sub)
		}

		sub.Expenses = append(sub.Expenses, e)
		sub.Total = sub.Total.Add(e.BaseAmount)
		sum.Total = sum.Total.Add(e.BaseAmount)
	}

	if len(ids) > 0 {
		users, err := s.directory.UsersByIDs(ctx, actor.TenantID, ids)
		if err != nil {
			return nil, fmt.Errorf("loading submitters: %w", err)
		}

		for _, u := range users {
			if sub, ok := bySubmitter[u.ID]; ok {
				sub.Name = u.Name
				sub.Email = u.Email
			}
		}
	}

	slices.SortFunc(sum.Submitters, func(a, b *Submitter) int {
		return b.Total.Cmp(a.Total)
	})

	for _, sub := range sum.Submitters {
		slices.SortFunc(sub.Expenses, func(a, b *expense.Expense) int {
			return a.Date.Compare(b.Date)
		})
	}

	return sum, nil
}

func (s *Service) approved(ctx context.Context, actor *identity.User, period Period) ([]*expense.Expense, error) {
	filter := expense.Filter{
		Status: expense.StatusApproved,
		From:   &period.From,
		To:     &period.To,
	}

	var out []*expense.Expense

	for page := 1; ; page++ {
		list, err := s.expenses.ListTenant(ctx, actor, filter, expense.Page{Page: page, Limit: expense.MaxLimit})
		if err != nil {
			return nil, err
		}

		out = append(out, list.Expenses...)

		if page >= list.Pagination.Pages {
			return out, nil
		}
	}
}

// WriteZip writes an archive with expenses.csv, summary.txt and every receipt
// that could be read from storage. Receipts that fail to download are listed as
// missing in summary.txt rather than failing the report.
func (s *Service) WriteZip(ctx context.Context, actor *identity.User, period Period, w io.Writer) error {
	sum, err := s.Summary(ctx, actor, period)
	if err != nil {
		return err
	}

	receipts := s.fetchReceipts(ctx, sum)

	zw := zip.NewWriter(w)

	if err := writeEntry(zw, "expenses.csv", func(w io.Writer) error { return writeCSV(w, sum) }); err != nil {
		return err
	}

	files := make(map[uuid.UUID]string, len(receipts))
	for _, r := range receipts {
		files[r.expenseID] = r.name
	}

	if err := writeEntry(zw, "summary.txt", func(w io.Writer) error {
		_, err := io.WriteString(w, sum.Text(files))
		return err
	}); err != nil {
		return err
	}

	for _, r := range receipts {
		if err := writeEntry(zw, r.name, func(w io.Writer) error {
			_, err := w.Write(r.body)
			return err
		}); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}

	return nil
}

type fetched struct {
	expenseID uuid.UUID
	name      string
	body      []byte
}

func (s *Service) fetchReceipts(ctx context.Context, sum *Summary) []fetched {
	if s.files == nil {
		return nil
	}

	var withReceipt []*expense.Expense

	for _, sub := range sum.Submitters {
		for _, e := range sub.Expenses {
			if e.Receipt != nil && e.Receipt.Object != "" {
				withReceipt = append(withReceipt, e)
			}
		}
	}

	results := make([]*fetched, len(withReceipt))

	var g errgroup.Group
	g.SetLimit(fetchLimit)

	for i, e := range withReceipt {
		g.Go(func() error {
			body, err := s.download(ctx, e.Receipt.Object)
			if err != nil {
				slog.WarnContext(ctx, "receipt unavailable for report",
					"expense_id", e.ID, "object", e.Receipt.Object, "error", err)

				return nil
			}

			results[i] = &fetched{expenseID: e.ID, name: ReceiptName(e), body: body}

			return nil
		})
	}

	_ = g.Wait()

	out := make([]fetched, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}

	return out
}

func (s *Service) download(ctx context.Context, object string) ([]byte, error) {
	rc, err := s.files.Open(ctx, object)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return nil, fmt.Errorf("reading %s: %w", object, err)
	}

	return buf.Bytes(), nil
}

func writeEntry(zw *zip.Writer, name string, fill func(io.Writer) error) error {
	f, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}

	if err := fill(f); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}

	return nil
}

var csvHeader = []string{
	"id", "date", "submitter", "email", "description", "category",
	"original_amount", "original_currency", "base_amount", "base_currency", "exchange_rate",
	"approved_at", "receipt",
}

func writeCSV(w io.Writer, sum *Summary) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, sub := range sum.Submitters {
		for _, e := range sub.Expenses {
			var approvedAt, receiptURL string

			if e.ApprovedAt != nil {
				approvedAt = e.ApprovedAt.Format(time.RFC3339)
			}

			if e.Receipt != nil {
				receiptURL = e.Receipt.URL
			}

			if err := cw.Write([]string{
				e.ID.String(),
				e.Date.Format(time.DateOnly),
				sub.Name,
				sub.Email,
				e.Description,
				string(e.Category),
				e.OriginalAmount.StringFixed(2),
				e.OriginalCurrency,
				e.BaseAmount.StringFixed(2),
				e.BaseCurrency,
				e.ExchangeRate.String(),
				approvedAt,
				receiptURL,
			}); err != nil {
				return err
			}
		}
	}

	cw.Flush()

	return cw.Error()
}
