package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mehmetcc/nursery/internal/auth"
	"github.com/mehmetcc/nursery/internal/config"
	"github.com/mehmetcc/nursery/internal/contact"
	"github.com/mehmetcc/nursery/internal/content"
	"github.com/mehmetcc/nursery/internal/database"
	"github.com/mehmetcc/nursery/internal/mail"
	"github.com/mehmetcc/nursery/internal/server"
	"github.com/mehmetcc/nursery/internal/session"
	"github.com/mehmetcc/nursery/internal/token"
	"go.uber.org/zap"
)

func main() {
	// init logger
	logger, err := newLogger()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	// load config
	cfg, err := config.LoadConfig(logger)
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// load database
	db, err := database.Init(ctx, cfg.DbConfig)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// run migrations
	database.SetMigrationLogger(logger)
	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// auth
	verifier, err := auth.NewVerifier(cfg.AuthConfig)
	if err != nil {
		logger.Fatal("failed to initialize credential verifier", zap.Error(err))
	}
	codec := token.NewCodec(cfg.AuthConfig, logger)
	transport := session.NewCookieTransport(cfg.CookieConfig)
	authService := auth.NewAuthenticationService(verifier, codec, cfg.AuthConfig, logger)
	gate := auth.NewGate(authService, transport, logger)

	// content
	repos := content.Repos{
		Company:  content.NewCompanyRepo(db, logger),
		Services: content.NewServiceRepo(db, logger),
		Projects: content.NewProjectRepo(db, logger),
		Clients:  content.NewClientRepo(db, logger),
	}

	handlers := server.Handlers{
		Auth:    auth.NewAuthenticationHandler(authService, gate, transport, cfg.AuthConfig, logger),
		Content: content.NewContentHandler(repos, gate.RequireAdmin, logger),
		Contact: contact.NewContactHandler(mail.NewSMTPSender(cfg.MailConfig), cfg.AuthConfig.LoginRateLimit, logger),
	}
	if !cfg.MailConfig.Enabled() {
		logger.Warn("EMAIL_HOST not set, contact form submissions will fail")
	}

	srv := server.New(cfg.AppConfig, server.NewRouter(cfg.AppConfig, handlers, logger), logger)
	logger.Info("application started", zap.String("env", cfg.AppConfig.Env), zap.String("port", cfg.AppConfig.Port))
	if err := srv.Run(ctx); err != nil {
		logger.Error("http server stopped", zap.Error(err))
		return
	}
	logger.Info("application stopped")
}

func newLogger() (*zap.Logger, error) {
	if strings.EqualFold(os.Getenv("APP_ENV"), config.EnvProduction) {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
