package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/outlay/internal/identity"
	"github.com/MrJamesThe3rd/outlay/internal/importer"
)

const importTimeout = 2 * time.Minute

type Importer interface {
	Import(ctx context.Context, actor *identity.User, r io.Reader) (*importer.Result, error)
}

type importState int

const (
	importStateFilePick importState = iota
	importStatePreview
	importStateImporting
	importStateResult
)

type ImportModel struct {
	CommonModel
	importer Importer
	actor    *identity.User

	state      importState
	filePicker filepicker.Model
	path       string
	preview    list.Model
	profile    string

	result *importer.Result
	status string
	err    error
}

func NewImportModel(imp Importer, actor *identity.User) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".CSV"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		importer:   imp,
		actor:      actor,
		filePicker: fp,
	}
}

func (m ImportModel) Title() string { return "Import expenses" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStatePreview {
		return "Enter: submit all rows | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStatePreview {
			return m.updatePreview(msg)
		}

	case previewMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.profile = msg.statement.Profile
		m.state = importStatePreview

		items := make([]list.Item, 0, len(msg.statement.Rows)+len(msg.statement.Errors))
		for _, r := range msg.statement.Rows {
			items = append(items, rowItem{row: r})
		}

		for _, e := range msg.statement.Errors {
			items = append(items, rowItem{failure: &e})
		}

		m.preview = list.New(items, rowDelegate{}, 80, 20)
		m.preview.Title = fmt.Sprintf("%d rows (%s format)", len(msg.statement.Rows), m.profile)
		m.preview.SetShowStatusBar(false)
		m.preview.SetFilteringEnabled(false)
		m.preview.SetShowHelp(false)

		return m, nil

	case importResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.result = msg.result
		m.status = fmt.Sprintf("Submitted %d expenses, %d rows failed.", len(msg.result.Imported), len(msg.result.Failed))

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.path = path
		m.status = fmt.Sprintf("Reading %s...", path)

		return m, m.previewCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStatePreview, importStateResult:
		m.state = importStateFilePick
		m.err = nil
		m.result = nil
		m.status = ""

		return m, nil
	}

	return m, Back
}

func (m ImportModel) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Submitting expenses from %s...", m.path)

		return m, m.importCmd(m.path)
	}

	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select a CSV statement to import:\n\n%s", m.filePicker.View()),
		)
	case importStatePreview:
		return lipgloss.NewStyle().Padding(1).Render(m.preview.View())
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorStyle(m.status) + "\n\n(Esc to go back)")
	}

	body := lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(m.status)

	for _, f := range m.result.Failed {
		body += "\n" + errorStyle(fmt.Sprintf("  line %d: %s", f.Line, f.Message))
	}

	for _, imp := range m.result.Imported {
		for _, w := range imp.Warnings {
			body += fmt.Sprintf("\n  line %d: %s", imp.Line, w)
		}
	}

	return style.Render(body + "\n\n(Esc to go back)")
}

type previewMsg struct {
	statement *importer.Statement
	err       error
}

type importResultMsg struct {
	result *importer.Result
	err    error
}

func (m ImportModel) previewCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return previewMsg{err: err}
		}
		defer f.Close()

		st, err := importer.Parse(f)

		return previewMsg{statement: st, err: err}
	}
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.importer.Import(ctx, m.actor, f)

		return importResultMsg{result: result, err: err}
	}
}

// rowItem is either a parsed row or a row that failed to parse.
type rowItem struct {
	row     importer.Row
	failure *importer.RowError
}

func (i rowItem) FilterValue() string { return i.row.Description }

type rowDelegate struct{}

func (d rowDelegate) Height() int                             { return 1 }
func (d rowDelegate) Spacing() int                            { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d rowDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(rowItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	if item.failure != nil {
		fmt.Fprintf(w, "%s%s", cursor, errorStyle(fmt.Sprintf("line %d: %s", item.failure.Line, item.failure.Message)))
		return
	}

	r := item.row
	currency := r.Currency
	if currency == "" {
		currency = "(base)"
	}

	fmt.Fprintf(w, "%sline %-4d %s  %12s %-6s  %-14s %s",
		cursor, r.Line, FormatDate(r.Date), r.Amount.StringFixed(2), currency, r.Category, r.Description)
}
