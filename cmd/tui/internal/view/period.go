package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/outlay/internal/report"
)

// preset is a named reimbursement period relative to today.
type preset int

const (
	presetLastMonth preset = iota
	presetThisMonth
	presetLastQuarter
	presetThisQuarter
	presetYearToDate
	presetCustom
)

var presetLabels = [...]string{
	presetLastMonth:   "Last Month",
	presetThisMonth:   "This Month",
	presetLastQuarter: "Last Quarter",
	presetThisQuarter: "This Quarter",
	presetYearToDate:  "Year to Date",
	presetCustom:      "Custom Range",
}

func (p preset) String() string {
	return presetLabels[p]
}

// span returns the calendar days p covers as of now. Custom has no span.
func (p preset) span(now time.Time) report.Period {
	y, mo, d := now.Date()
	today := time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
	month := time.Date(y, mo, 1, 0, 0, 0, 0, time.UTC)
	quarter := time.Date(y, mo-(mo-1)%3, 1, 0, 0, 0, 0, time.UTC)

	switch p {
	case presetLastMonth:
		return dayRange(month.AddDate(0, -1, 0), month.AddDate(0, 0, -1))
	case presetThisMonth:
		return dayRange(month, today)
	case presetLastQuarter:
		return dayRange(quarter.AddDate(0, -3, 0), quarter.AddDate(0, 0, -1))
	case presetThisQuarter:
		return dayRange(quarter, today)
	case presetYearToDate:
		return dayRange(time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC), today)
	}

	return report.Period{}
}

// dayRange stretches to the last second of the final day.
func dayRange(from, to time.Time) report.Period {
	return report.Period{From: from, To: to.Add(24*time.Hour - time.Second)}
}

// PeriodSelectedMsg carries the range the user settled on.
type PeriodSelectedMsg struct {
	Period report.Period
}

// PeriodPicker lets an admin choose the range a reimbursement report covers.
type PeriodPicker struct {
	cursor preset
	now    func() time.Time

	custom   *huh.Form
	from, to *string
}

func NewPeriodPicker() PeriodPicker {
	return PeriodPicker{
		now:  time.Now,
		from: new(""),
		to:   new(""),
	}
}

// Choosing reports whether the preset list is showing, as opposed to the custom range form.
func (m PeriodPicker) Choosing() bool {
	return m.custom == nil
}

func (m *PeriodPicker) Reset() {
	m.cursor = presetLastMonth
	m.custom = nil
	*m.from, *m.to = "", ""
}

func (m PeriodPicker) Update(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	if m.custom != nil {
		return m.updateCustom(msg)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > presetLastMonth {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < presetCustom {
			m.cursor++
		}
	case "enter":
		if m.cursor == presetCustom {
			m.custom = m.customForm()
			return m, m.custom.Init()
		}

		p := m.cursor.span(m.now())

		return m, func() tea.Msg { return PeriodSelectedMsg{Period: p} }
	}

	return m, nil
}

func (m PeriodPicker) updateCustom(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.custom = nil
		return m, nil
	}

	form, cmd := m.custom.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.custom = f
	}

	if m.custom.State != huh.StateCompleted {
		return m, cmd
	}

	m.custom = nil

	// Both inputs passed validation before the form could complete.
	from, _ := time.Parse(time.DateOnly, *m.from)
	to, _ := time.Parse(time.DateOnly, *m.to)
	p := dayRange(from, to)

	return m, func() tea.Msg { return PeriodSelectedMsg{Period: p} }
}

func (m PeriodPicker) customForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("From").
				Placeholder("YYYY-MM-DD").
				Value(m.from).
				Validate(validateDay),
			huh.NewInput().
				Title("To").
				Placeholder("YYYY-MM-DD").
				Value(m.to).
				Validate(func(s string) error {
					if err := validateDay(s); err != nil {
						return err
					}

					from, err := time.Parse(time.DateOnly, *m.from)
					to, _ := time.Parse(time.DateOnly, s)
					if err == nil && to.Before(from) {
						return errors.New("must not be before the start date")
					}

					return nil
				}),
		),
	).WithWidth(40).WithShowHelp(false)
}

func validateDay(s string) error {
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return errors.New("use YYYY-MM-DD")
	}

	return nil
}

func (m PeriodPicker) View() string {
	if m.custom != nil {
		return "Custom range\n\n" + m.custom.View() + "\n\n(Esc to go back)"
	}

	var sb strings.Builder

	sb.WriteString("Reimbursement period:\n\n")

	now := m.now()
	for p := presetLastMonth; p <= presetCustom; p++ {
		cursor, label := "  ", fmt.Sprintf("%-14s", p)
		if p == m.cursor {
			cursor, label = "> ", activeStyle(label)
		}

		hint := ""
		if p != presetCustom {
			s := p.span(now)
			hint = fmt.Sprintf("%s to %s", FormatDate(s.From), FormatDate(s.To))
		}

		fmt.Fprintf(&sb, "%s%s %s\n", cursor, label, hint)
	}

	sb.WriteString("\n(Enter to select, Esc to go back)")

	return sb.String()
}
