package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"cloud.google.com/go/storage"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/outlay/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/outlay/internal/config"
	"github.com/MrJamesThe3rd/outlay/internal/currency"
	"github.com/MrJamesThe3rd/outlay/internal/database"
	"github.com/MrJamesThe3rd/outlay/internal/expense"
	expenseStore "github.com/MrJamesThe3rd/outlay/internal/expense/store"
	"github.com/MrJamesThe3rd/outlay/internal/identity"
	identityStore "github.com/MrJamesThe3rd/outlay/internal/identity/store"
	"github.com/MrJamesThe3rd/outlay/internal/importer"
	"github.com/MrJamesThe3rd/outlay/internal/notify"
	"github.com/MrJamesThe3rd/outlay/internal/receipt"
	"github.com/MrJamesThe3rd/outlay/internal/report"
	"github.com/MrJamesThe3rd/outlay/internal/rule"
	ruleStore "github.com/MrJamesThe3rd/outlay/internal/rule/store"
)

type services struct {
	identity *identity.Service
	rules    *rule.Service
	expenses *expense.Service
	importer *importer.Service
	reports  *report.Service
}

type model struct {
	svc   services
	actor *identity.User

	currentView View

	loginView    view.LoginModel
	pendingView  view.PendingModel
	expensesView view.ExpensesModel
	rulesView    view.RulesModel
	importView   view.ImportModel
	reportView   view.ReportModel
}

type View int

const (
	ViewLogin View = iota
	ViewMenu
	ViewPending
	ViewExpenses
	ViewRules
	ViewImport
	ViewReport
)

func newServices(ctx context.Context, cfg *config.Config) (services, func(), error) {
	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return services{}, nil, fmt.Errorf("connecting to database: %w", err)
	}

	closers := []func(){func() { db.Close() }}
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	var sender notify.Sender = notify.Nop{}
	if cfg.SMTP.Host != "" {
		sender = notify.NewMailer(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}

	var files report.Files
	if cfg.Storage.Bucket != "" {
		client, err := storage.NewClient(ctx)
		if err != nil {
			closeAll()
			return services{}, nil, fmt.Errorf("creating storage client: %w", err)
		}

		closers = append(closers, func() { client.Close() })
		files = receipt.NewGCSStore(client, cfg.Storage.Bucket, cfg.Storage.PublicBaseURL)
	}

	converter := currency.NewConverter(
		currency.NewClient(cfg.Currency.APIBase, currency.WithTimeout(cfg.Currency.Timeout)),
		currency.NewRateCache(cfg.Currency.CacheTTL),
	)

	identitySvc := identity.NewService(identityStore.New(db), sender, cfg.CORS.FrontendURL)
	ruleSvc := rule.NewService(ruleStore.New(db), identitySvc)
	expenseSvc := expense.NewService(expenseStore.New(db), identitySvc, ruleSvc, converter, expense.WithNotifier(sender))

	return services{
		identity: identitySvc,
		rules:    ruleSvc,
		expenses: expenseSvc,
		importer: importer.NewService(expenseSvc, identitySvc),
		reports:  report.NewService(expenseSvc, identitySvc, files),
	}, closeAll, nil
}

func initialModel(svc services) model {
	return model{
		svc:         svc,
		currentView: ViewLogin,
		loginView:   view.NewLoginModel(svc.identity),
	}
}

func (m model) Init() tea.Cmd {
	return m.loginView.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewPending
				m.pendingView = view.NewPendingModel(m.svc.expenses, m.svc.identity, m.actor)

				return m, m.pendingView.Init()
			case "2":
				m.currentView = ViewExpenses
				m.expensesView = view.NewExpensesModel(m.svc.expenses, m.actor)

				return m, m.expensesView.Init()
			case "3":
				m.currentView = ViewRules
				m.rulesView = view.NewRulesModel(m.svc.rules, m.actor.TenantID)

				return m, m.rulesView.Init()
			case "4":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.svc.importer, m.actor)

				return m, m.importView.Init()
			case "5":
				if m.actor.Role != identity.RoleAdmin {
					return m, nil
				}

				m.currentView = ViewReport
				m.reportView = view.NewReportModel(m.svc.reports, m.actor)

				return m, m.reportView.Init()
			}
		}
	case view.LoggedInMsg:
		m.actor = msg.User
		m.currentView = ViewMenu

		return m, nil
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewLogin:
		var newModel tea.Model
		newModel, cmd = m.loginView.Update(msg)
		m.loginView = newModel.(view.LoginModel)
	case ViewPending:
		var newModel tea.Model
		newModel, cmd = m.pendingView.Update(msg)
		m.pendingView = newModel.(view.PendingModel)
	case ViewExpenses:
		var newModel tea.Model
		newModel, cmd = m.expensesView.Update(msg)
		m.expensesView = newModel.(view.ExpensesModel)
	case ViewRules:
		var newModel tea.Model
		newModel, cmd = m.rulesView.Update(msg)
		m.rulesView = newModel.(view.RulesModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewReport:
		var newModel tea.Model
		newModel, cmd = m.reportView.Update(msg)
		m.reportView = newModel.(view.ReportModel)
	}

	return m, cmd
}

func (m model) menu() string {
	items := "1. Pending Approvals\n" +
		"2. My Expenses\n" +
		"3. Approval Rules\n" +
		"4. Import Expenses\n"

	if m.actor.Role == identity.RoleAdmin {
		items += "5. Reimbursement Report\n"
	}

	return lipgloss.NewStyle().Padding(2).Render(
		fmt.Sprintf("Outlay (%s, %s)\n\n%s\nq. Quit", m.actor.Name, m.actor.Role, items),
	)
}

func (m model) View() string {
	switch m.currentView {
	case ViewLogin:
		return m.loginView.View()
	case ViewMenu:
		return m.menu()
	case ViewPending:
		return m.pendingView.View()
	case ViewExpenses:
		return m.expensesView.View()
	case ViewRules:
		return m.rulesView.View()
	case ViewImport:
		return m.importView.View()
	case ViewReport:
		return m.reportView.View()
	}

	return "Unknown View"
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	svc, closeAll, err := newServices(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer closeAll()

	p := tea.NewProgram(initialModel(svc), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
