package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/outlay/internal/rule"
)

type RuleLister interface {
	List(ctx context.Context, tenantID uuid.UUID) ([]*rule.ApprovalRule, error)
}

type RulesModel struct {
	CommonModel
	rules    RuleLister
	tenantID uuid.UUID

	table table.Model
	list  []*rule.ApprovalRule

	loading bool
	err     error
}

func NewRulesModel(rules RuleLister, tenantID uuid.UUID) RulesModel {
	return RulesModel{
		rules:    rules,
		tenantID: tenantID,
		table: newTable([]table.Column{
			{Title: "Priority", Width: 8},
			{Title: "Name", Width: 24},
			{Title: "Policy", Width: 12},
			{Title: "Approvers", Width: 9},
			{Title: "Amount", Width: 20},
			{Title: "Categories", Width: 30},
			{Title: "Active", Width: 6},
		}),
		loading: true,
	}
}

func (m RulesModel) Title() string     { return "Approval rules" }
func (m RulesModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m RulesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m RulesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadRulesMsg:
		m.loading = false
		m.err = msg.err
		m.list = msg.rules
		m.refreshTable()

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m RulesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading rules...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	if len(m.list) == 0 {
		return lipgloss.NewStyle().Padding(2).Render("No approval rules. Expenses go to the submitter's manager.\n\n(Esc to back)")
	}

	return lipgloss.NewStyle().Padding(1).Render(boxed(m.table.View()))
}

func amountRange(c rule.Conditions) string {
	if c.MaxAmount == nil {
		return c.MinAmount.StringFixed(2) + "+"
	}

	return c.MinAmount.StringFixed(2) + " - " + c.MaxAmount.StringFixed(2)
}

func (m *RulesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.list))

	for _, r := range m.list {
		cats := "any"
		if len(r.Conditions.Categories) > 0 {
			names := make([]string, len(r.Conditions.Categories))
			for i, c := range r.Conditions.Categories {
				names[i] = string(c)
			}

			cats = strings.Join(names, ", ")
		}

		policy := string(r.SequenceType)
		if r.SequenceType == rule.Percentage {
			policy = fmt.Sprintf("%d%%", r.MinApprovalPercentage)
		}

		active := "no"
		if r.IsActive {
			active = "yes"
		}

		rows = append(rows, table.Row{
			fmt.Sprintf("%d", r.Priority),
			r.Name,
			policy,
			fmt.Sprintf("%d", len(r.Approvers)),
			amountRange(r.Conditions),
			cats,
			active,
		})
	}

	m.table.SetRows(rows)
}

type loadRulesMsg struct {
	rules []*rule.ApprovalRule
	err   error
}

func (m RulesModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		rules, err := m.rules.List(ctx, m.tenantID)

		return loadRulesMsg{rules: rules, err: err}
	}
}
