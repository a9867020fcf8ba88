package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/outlay/internal/expense"
	"github.com/MrJamesThe3rd/outlay/internal/identity"
)

type ExpenseLister interface {
	ListMine(ctx context.Context, actor *identity.User, filter expense.Filter, page expense.Page) (*expense.List, error)
}

var statusFilters = []expense.Status{"", expense.StatusPending, expense.StatusApproved, expense.StatusRejected}

type ExpensesModel struct {
	CommonModel
	expenses ExpenseLister
	actor    *identity.User

	table table.Model
	rows  []*expense.Expense
	total int

	statusFilterIdx int
	dateFilterIdx   int
	filter          expense.Filter

	loading bool
	err     error
}

func NewExpensesModel(lister ExpenseLister, actor *identity.User) ExpensesModel {
	return ExpensesModel{
		expenses: lister,
		actor:    actor,
		table: newTable([]table.Column{
			{Title: "Date", Width: 12},
			{Title: "Status", Width: 12},
			{Title: "Amount", Width: 16},
			{Title: "Base", Width: 16},
			{Title: "Category", Width: 14},
			{Title: "Description", Width: 36},
		}),
		loading: true,
	}
}

func (m ExpensesModel) Title() string { return "My expenses" }
func (m ExpensesModel) ShortHelp() string {
	return "Esc: back | s: status filter | d: date filter | r: refresh"
}

func (m ExpensesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ExpensesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadExpensesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.rows = msg.list.Expenses
		m.total = msg.list.Pagination.Total
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % len(statusFilters)
			m.applyFilter()

			return m, m.loadCmd()
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % 3
			m.applyFilter()

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ExpensesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading expenses...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	statusLabel := "All"
	if s := statusFilters[m.statusFilterIdx]; s != "" {
		statusLabel = string(s)
	}

	dateLabels := []string{"All Time", "This Month", "Last Month"}

	header := fmt.Sprintf(
		"Filter: [s] Status: %s | [d] Date: %s | showing %d of %d",
		activeStyle(statusLabel),
		activeStyle(dateLabels[m.dateFilterIdx]),
		len(m.rows), m.total,
	)

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		boxed(m.table.View()),
	))
}

func (m *ExpensesModel) applyFilter() {
	m.filter.Status = statusFilters[m.statusFilterIdx]

	switch m.dateFilterIdx {
	case 1:
		p := presetThisMonth.span(time.Now())
		m.filter.From, m.filter.To = &p.From, &p.To
	case 2:
		p := presetLastMonth.span(time.Now())
		m.filter.From, m.filter.To = &p.From, &p.To
	default:
		m.filter.From, m.filter.To = nil, nil
	}
}

func (m *ExpensesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.rows))
	for _, e := range m.rows {
		rows = append(rows, table.Row{
			FormatDate(e.Date),
			string(e.Status),
			FormatMoney(e.OriginalAmount, e.OriginalCurrency),
			FormatMoney(e.BaseAmount, e.BaseCurrency),
			string(e.Category),
			e.Description,
		})
	}

	m.table.SetRows(rows)
}

type loadExpensesMsg struct {
	list *expense.List
	err  error
}

func (m ExpensesModel) loadCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		list, err := m.expenses.ListMine(ctx, m.actor, filter, expense.Page{Limit: expense.MaxLimit})

		return loadExpensesMsg{list: list, err: err}
	}
}
