package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/storage"

	"github.com/MrJamesThe3rd/outlay/internal/auth"
	"github.com/MrJamesThe3rd/outlay/internal/category"
	categoryStore "github.com/MrJamesThe3rd/outlay/internal/category/store"
	"github.com/MrJamesThe3rd/outlay/internal/config"
	"github.com/MrJamesThe3rd/outlay/internal/currency"
	"github.com/MrJamesThe3rd/outlay/internal/database"
	"github.com/MrJamesThe3rd/outlay/internal/expense"
	expenseStore "github.com/MrJamesThe3rd/outlay/internal/expense/store"
	outlayHttp "github.com/MrJamesThe3rd/outlay/internal/http"
	accountHandler "github.com/MrJamesThe3rd/outlay/internal/http/account"
	categoryHandler "github.com/MrJamesThe3rd/outlay/internal/http/category"
	currencyHandler "github.com/MrJamesThe3rd/outlay/internal/http/currency"
	expenseHandler "github.com/MrJamesThe3rd/outlay/internal/http/expense"
	importHandler "github.com/MrJamesThe3rd/outlay/internal/http/importcsv"
	receiptHandler "github.com/MrJamesThe3rd/outlay/internal/http/receipt"
	reportHandler "github.com/MrJamesThe3rd/outlay/internal/http/report"
	ruleHandler "github.com/MrJamesThe3rd/outlay/internal/http/rule"
	userHandler "github.com/MrJamesThe3rd/outlay/internal/http/user"
	"github.com/MrJamesThe3rd/outlay/internal/identity"
	identityStore "github.com/MrJamesThe3rd/outlay/internal/identity/store"
	"github.com/MrJamesThe3rd/outlay/internal/importer"
	"github.com/MrJamesThe3rd/outlay/internal/notify"
	"github.com/MrJamesThe3rd/outlay/internal/receipt"
	"github.com/MrJamesThe3rd/outlay/internal/report"
	"github.com/MrJamesThe3rd/outlay/internal/rule"
	ruleStore "github.com/MrJamesThe3rd/outlay/internal/rule/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(cfg.LogHandler()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	sender, closeSender, err := newSender(cfg)
	if err != nil {
		slog.Error("failed to set up notifications", "error", err)
		os.Exit(1)
	}
	defer closeSender()

	var files interface {
		expense.FileStore
		report.Files
	}

	if cfg.Storage.Bucket != "" {
		client, err := storage.NewClient(ctx)
		if err != nil {
			slog.Error("failed to create storage client", "error", err)
			os.Exit(1)
		}
		defer client.Close()

		files = receipt.NewGCSStore(client, cfg.Storage.Bucket, cfg.Storage.PublicBaseURL)
	} else {
		slog.Warn("receipt storage disabled, STORAGE_BUCKET is not set")
	}

	var extractor receipt.Extraction
	if cfg.Receipt.ExtractorURL != "" {
		extractor = receipt.NewExtractor(cfg.Receipt.ExtractorURL, cfg.Receipt.ExtractorKey,
			receipt.WithTimeout(cfg.Receipt.Timeout))
	} else {
		slog.Warn("receipt extraction disabled, RECEIPT_EXTRACTOR_URL is not set")
	}

	converter := currency.NewConverter(
		currency.NewClient(cfg.Currency.APIBase, currency.WithTimeout(cfg.Currency.Timeout)),
		currency.NewRateCache(cfg.Currency.CacheTTL),
	)

	var (
		identityService = identity.NewService(identityStore.New(db), sender, cfg.CORS.FrontendURL)
		ruleService     = rule.NewService(ruleStore.New(db), identityService)
		categoryService = category.NewService(categoryStore.New(db))
		receiptParser   = receipt.NewParser(extractor, categoryService)
	)

	var (
		expenseService = expense.NewService(expenseStore.New(db), identityService, ruleService, converter,
			expense.WithNotifier(sender),
			expense.WithReceipts(files, receiptParser),
		)
		importService = importer.NewService(expenseService, identityService)
		reportService = report.NewService(expenseService, identityService, files)
	)

	issuer := auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.Expire, cfg.App.Name)

	router := outlayHttp.New(outlayHttp.Handlers{
		Account:    accountHandler.NewHandler(identityService, issuer),
		Users:      userHandler.NewHandler(identityService),
		Rules:      ruleHandler.NewHandler(ruleService),
		Expenses:   expenseHandler.NewHandler(expenseService, cfg.Receipt.MaxSize),
		Receipts:   receiptHandler.NewHandler(receiptParser, cfg.Receipt.MaxSize),
		Currencies: currencyHandler.NewHandler(converter),
		Categories: categoryHandler.NewHandler(categoryService),
		Import:     importHandler.NewHandler(importService),
		Reports:    reportHandler.NewHandler(reportService),
	}, issuer, identityService, cfg.CORS.FrontendURL)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      2 * cfg.Server.Timeout,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "port", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// newSender assembles the configured notification sinks. Without any the events are dropped.
func newSender(cfg *config.Config) (notify.Sender, func(), error) {
	var (
		sinks   notify.Fanout
		closers []func()
	)

	if cfg.SMTP.Host != "" {
		sinks = append(sinks, notify.NewMailer(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}))
	}

	if cfg.NATS.URL != "" {
		conn, err := notify.Connect(cfg.NATS.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to nats: %w", err)
		}

		sinks = append(sinks, notify.NewNATSPublisher(conn))
		closers = append(closers, func() { _ = conn.Drain() })
	}

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if len(sinks) == 0 {
		slog.Warn("notifications disabled, neither SMTP_HOST nor NATS_URL is set")
		return notify.Nop{}, closeAll, nil
	}

	return sinks, closeAll, nil
}
