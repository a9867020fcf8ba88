package view

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/outlay/internal/identity"
)

// Authenticator checks credentials.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*identity.User, error)
}

// LoggedInMsg carries the signed in user.
type LoggedInMsg struct {
	User *identity.User
}

type LoginModel struct {
	CommonModel
	auth Authenticator

	form *huh.Form
	// creds is shared by every copy of the model; the form writes into it.
	creds *credentials
	err   error
	busy  bool
}

type credentials struct {
	email    string
	password string
}

func NewLoginModel(auth Authenticator) LoginModel {
	m := LoginModel{auth: auth, creds: &credentials{}}
	m.form = m.buildForm()

	return m
}

func (m *LoginModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("email").
				Title("Email").
				Value(&m.creds.email).
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return fmt.Errorf("enter a valid email")
					}
					return nil
				}),
			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.creds.password),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m LoginModel) Title() string     { return "Sign in" }
func (m LoginModel) ShortHelp() string { return "Enter: next | ctrl+c: quit" }

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(loginResultMsg); ok {
		m.busy = false
		if res.err != nil {
			m.err = res.err
			m.creds.password = ""
			m.form = m.buildForm()

			return m, m.form.Init()
		}

		return m, func() tea.Msg { return LoggedInMsg{User: res.user} }
	}

	if m.busy {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.busy = true
	m.err = nil

	return m, m.loginCmd(m.creds.email, m.creds.password)
}

func (m LoginModel) View() string {
	header := lipgloss.NewStyle().Bold(true).Render("Outlay approval inbox")

	body := m.form.View()
	if m.busy {
		body = "Signing in..."
	}

	if m.err != nil {
		body += "\n\n" + errorStyle(fmt.Sprintf("Error: %v", m.err))
	}

	return lipgloss.NewStyle().Padding(2).Render(header + "\n\n" + body)
}

type loginResultMsg struct {
	user *identity.User
	err  error
}

func (m LoginModel) loginCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		u, err := m.auth.Login(ctx, email, password)

		return loginResultMsg{user: u, err: err}
	}
}
