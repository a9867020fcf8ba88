package view

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/outlay/internal/expense"
	"github.com/MrJamesThe3rd/outlay/internal/identity"
)

type Approvals interface {
	PendingFor(ctx context.Context, actor *identity.User, page expense.Page) (*expense.List, error)
	Decide(ctx context.Context, actor *identity.User, id uuid.UUID, params expense.DecideParams) (*expense.Expense, error)
}

type Directory interface {
	UsersByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*identity.User, error)
}

type pendingState int

const (
	pendingStateBrowse pendingState = iota
	pendingStateDecide
)

type decisionInput struct {
	decision expense.Decision
	comments string
	reason   string
}

type PendingModel struct {
	CommonModel
	approvals Approvals
	directory Directory
	actor     *identity.User

	state    pendingState
	table    table.Model
	expenses []*expense.Expense
	names    map[uuid.UUID]string
	form     *huh.Form
	input    *decisionInput

	loading bool
	err     error
	status  string
}

func NewPendingModel(approvals Approvals, directory Directory, actor *identity.User) PendingModel {
	return PendingModel{
		approvals: approvals,
		directory: directory,
		actor:     actor,
		table: newTable([]table.Column{
			{Title: "Date", Width: 12},
			{Title: "Submitter", Width: 20},
			{Title: "Amount", Width: 16},
			{Title: "Category", Width: 14},
			{Title: "Step", Width: 6},
			{Title: "Description", Width: 36},
		}),
		names:   map[uuid.UUID]string{},
		input:   &decisionInput{},
		loading: true,
	}
}

func (m PendingModel) Title() string { return "Pending approvals" }

func (m PendingModel) ShortHelp() string {
	if m.state == pendingStateDecide {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | a: approve | x: reject | r: refresh"
}

func (m PendingModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m PendingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadPendingMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.expenses = msg.expenses
		m.names = msg.names
		m.refreshTable()

		return m, nil

	case decidedMsg:
		m.state = pendingStateBrowse
		m.form = nil
		m.table.Focus()

		switch {
		case errors.Is(msg.err, expense.ErrConflict):
			m.status = "Someone else decided this expense first; list refreshed."
		case msg.err != nil:
			m.status = fmt.Sprintf("Error: %v", msg.err)
		default:
			m.status = fmt.Sprintf("Expense %q is now %s.", msg.expense.Description, msg.expense.Status)
		}

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case pendingStateBrowse:
		return m.updateBrowse(msg)
	case pendingStateDecide:
		return m.updateDecide(msg)
	}

	return m, nil
}

func (m PendingModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			m.status = ""

			return m, m.loadCmd()
		case "a":
			return m.enterDecide(expense.Approve)
		case "x":
			return m.enterDecide(expense.Reject)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m PendingModel) selected() *expense.Expense {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.expenses) {
		return nil
	}

	return m.expenses[idx]
}

func (m PendingModel) enterDecide(d expense.Decision) (tea.Model, tea.Cmd) {
	if m.selected() == nil {
		return m, nil
	}

	*m.input = decisionInput{decision: d}

	fields := []huh.Field{
		huh.NewText().
			Key("comments").
			Title("Comments").
			CharLimit(500).
			Value(&m.input.comments).
			Validate(func(s string) error {
				if d == expense.Reject && strings.TrimSpace(s) == "" {
					return fmt.Errorf("rejection comments are required")
				}
				return nil
			}),
	}

	if d == expense.Reject {
		fields = append(fields, huh.NewInput().
			Key("reason").
			Title("Reason").
			Placeholder("Shown to the submitter").
			Value(&m.input.reason))
	}

	title := "Approve this expense?"
	if d == expense.Reject {
		title = "Reject this expense?"
	}

	fields = append(fields, huh.NewConfirm().
		Key("confirm").
		Title(title).
		Affirmative("Yes").
		Negative("No"))

	m.form = huh.NewForm(huh.NewGroup(fields...)).WithWidth(45).WithShowHelp(false)
	m.state = pendingStateDecide
	m.table.Blur()

	return m, m.form.Init()
}

func (m PendingModel) updateDecide(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = pendingStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !m.form.GetBool("confirm") {
		m.state = pendingStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	return m, m.decideCmd(m.selected(), *m.input)
}

func (m PendingModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading pending approvals...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf("Waiting on %s: %s", m.actor.Name, activeStyle(fmt.Sprintf("%d", len(m.expenses))))
	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		boxed(m.table.View()),
	)

	if e := m.selected(); e != nil {
		panelBody := m.details(e)
		if m.state == pendingStateDecide && m.form != nil {
			panelBody += "\n\n" + m.form.View()
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(panelBody)

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m PendingModel) details(e *expense.Expense) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n\n", lipgloss.NewStyle().Bold(true).Render(e.Description))
	fmt.Fprintf(&sb, "Submitted by: %s\n", m.names[e.SubmittedBy])
	fmt.Fprintf(&sb, "Amount: %s", FormatMoney(e.OriginalAmount, e.OriginalCurrency))

	if e.OriginalCurrency != e.BaseCurrency {
		fmt.Fprintf(&sb, " (%s)", FormatMoney(e.BaseAmount, e.BaseCurrency))
	}

	fmt.Fprintf(&sb, "\nDate: %s\nCategory: %s\n", FormatDate(e.Date), e.Category)

	if e.Receipt != nil {
		fmt.Fprintf(&sb, "Receipt: %s\n", e.Receipt.FileName)
	}

	if e.Workflow != nil {
		fmt.Fprintf(&sb, "\nWorkflow: %s\n", e.Workflow.SequenceType)

		for _, slot := range e.Workflow.Approvers {
			name := m.names[slot.ApproverID]
			if slot.ApproverID == m.actor.ID {
				name = "you"
			}

			fmt.Fprintf(&sb, "  %-20s %s\n", name, slot.Status)
		}
	}

	return sb.String()
}

func (m *PendingModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.expenses))

	for _, e := range m.expenses {
		step := ""
		if e.Workflow != nil {
			step = fmt.Sprintf("%d/%d", e.Workflow.CurrentStep+1, e.Workflow.TotalSteps)
		}

		rows = append(rows, table.Row{
			FormatDate(e.Date),
			m.names[e.SubmittedBy],
			FormatMoney(e.BaseAmount, e.BaseCurrency),
			string(e.Category),
			step,
			e.Description,
		})
	}

	m.table.SetRows(rows)
}

type loadPendingMsg struct {
	expenses []*expense.Expense
	names    map[uuid.UUID]string
	err      error
}

func (m PendingModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		list, err := m.approvals.PendingFor(ctx, m.actor, expense.Page{Limit: expense.MaxLimit})
		if err != nil {
			return loadPendingMsg{err: err}
		}

		names, err := lookupNames(ctx, m.directory, m.actor.TenantID, list.Expenses)
		if err != nil {
			return loadPendingMsg{err: err}
		}

		return loadPendingMsg{expenses: list.Expenses, names: names}
	}
}

// lookupNames resolves submitters and approvers of expenses to display names.
func lookupNames(ctx context.Context, dir Directory, tenantID uuid.UUID, expenses []*expense.Expense) (map[uuid.UUID]string, error) {
	seen := map[uuid.UUID]bool{}

	var ids []uuid.UUID

	add := func(id uuid.UUID) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, e := range expenses {
		add(e.SubmittedBy)

		if e.Workflow != nil {
			for _, slot := range e.Workflow.Approvers {
				add(slot.ApproverID)
			}
		}
	}

	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	users, err := dir.UsersByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		names[u.ID] = u.Name
	}

	return names, nil
}

type decidedMsg struct {
	expense *expense.Expense
	err     error
}

func (m PendingModel) decideCmd(e *expense.Expense, in decisionInput) tea.Cmd {
	if e == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		updated, err := m.approvals.Decide(ctx, m.actor, e.ID, expense.DecideParams{
			Decision: in.decision,
			Comments: strings.TrimSpace(in.comments),
			Reason:   strings.TrimSpace(in.reason),
		})

		return decidedMsg{expense: updated, err: err}
	}
}
