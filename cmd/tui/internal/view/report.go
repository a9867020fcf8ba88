package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/outlay/internal/identity"
	"github.com/MrJamesThe3rd/outlay/internal/report"
)

type Reporter interface {
	Summary(ctx context.Context, actor *identity.User, period report.Period) (*report.Summary, error)
	WriteZip(ctx context.Context, actor *identity.User, period report.Period, w io.Writer) error
}

type reportState int

const (
	reportStatePeriod reportState = iota
	reportStatePath
	reportStateRunning
	reportStateResult
)

type ReportModel struct {
	CommonModel
	reporter Reporter
	actor    *identity.User

	state  reportState
	err    error
	picker PeriodPicker
	period report.Period

	form    *huh.Form
	dir     *string
	spinner spinner.Model
	file    string
	summary string
}

func NewReportModel(reporter Reporter, actor *identity.User) ReportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ReportModel{
		reporter: reporter,
		actor:    actor,
		state:    reportStatePeriod,
		picker:   NewPeriodPicker(),
		dir:      new("./reports"),
		spinner:  s,
	}
}

func (m ReportModel) Title() string { return "Reimbursement report" }

func (m ReportModel) ShortHelp() string {
	switch m.state {
	case reportStateResult:
		return "Esc: back to menu"
	case reportStateRunning:
		return "Building report..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ReportModel) Init() tea.Cmd {
	return nil
}

func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if sel, ok := msg.(PeriodSelectedMsg); ok {
		m.period = sel.Period
		m.form = m.buildPathForm()
		m.state = reportStatePath

		return m, m.form.Init()
	}

	switch m.state {
	case reportStatePeriod:
		return m.updatePeriod(msg)
	case reportStatePath:
		return m.updatePath(msg)
	case reportStateRunning:
		return m.updateRunning(msg)
	case reportStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ReportModel) updatePeriod(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.picker.Choosing() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m ReportModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = reportStatePeriod
		m.picker.Reset()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = reportStateRunning
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runCmd(m.period, *m.dir))
}

func (m ReportModel) updateRunning(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(reportResultMsg); ok {
		m.state = reportStateResult
		m.err = result.err
		m.file = result.file
		m.summary = result.summary

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ReportModel) buildPathForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("dir").
				Title("Output directory").
				Description("Created if it doesn't exist").
				Placeholder("./reports").
				Value(m.dir),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ReportModel) View() string {
	switch m.state {
	case reportStatePeriod:
		return lipgloss.NewStyle().Padding(1).Render(m.picker.View())
	case reportStatePath:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	case reportStateRunning:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Collecting approved expenses and receipts...", m.spinner.View()),
		)
	case reportStateResult:
		if m.err != nil {
			return lipgloss.NewStyle().Padding(1).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
		}

		header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")).Render("Report written to " + m.file)

		return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, header, "", m.summary))
	}

	return ""
}

type reportResultMsg struct {
	file    string
	summary string
	err     error
}

const reportTimeout = 2 * time.Minute

func (m ReportModel) runCmd(period report.Period, dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		defer cancel()

		sum, err := m.reporter.Summary(ctx, m.actor, period)
		if err != nil {
			return reportResultMsg{err: err}
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return reportResultMsg{err: fmt.Errorf("creating output directory: %w", err)}
		}

		name := filepath.Join(dir, fmt.Sprintf("report_%s_%s.zip", period.From.Format("20060102"), period.To.Format("20060102")))

		f, err := os.Create(name)
		if err != nil {
			return reportResultMsg{err: fmt.Errorf("creating file: %w", err)}
		}
		defer f.Close()

		if err := m.reporter.WriteZip(ctx, m.actor, period, f); err != nil {
			return reportResultMsg{err: err}
		}

		return reportResultMsg{file: name, summary: sum.Text(nil)}
	}
}
