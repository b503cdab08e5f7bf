package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"esportfed/internal/auth"
	"esportfed/internal/config"
	"esportfed/internal/db"
	"esportfed/internal/email"
	"esportfed/internal/events"
	"esportfed/internal/logger"
	"esportfed/internal/member"
	"esportfed/internal/payment"
	"esportfed/internal/plan"
	"esportfed/internal/registration"
	"esportfed/internal/scheduler"
	"esportfed/internal/server"
	"esportfed/internal/user"
)

// @title Esport Federation Membership API
// @version 1.0
// @description Membership registration, payment-gated activation and operator administration.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logger.InitWithLevel(cfg.LogLevel)
	logger.Info("Starting esportfed membership service")

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	rdb := email.NewRedisClient(cfg.RedisAddr)
	emailService := email.New(
		rdb,
		email.NewSender(cfg.ResendAPIKey, cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		cfg.EmailFrom,
		cfg.EmailFromName,
	)
	defer emailService.Close()
	logger.Info("Email service initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go emailService.Start(ctx)

	gateway := payment.Disabled()
	if cfg.StripeSecretKey != "" {
		gateway = payment.NewStripeGateway(cfg.StripeSecretKey)
	} else {
		logger.Warn("STRIPE_SECRET_KEY not set, paid plans cannot be checked out")
	}

	publisher := events.New(cfg.KafkaBroker, cfg.KafkaTopic)
	defer publisher.Close()

	memberRepo := member.NewRepository(database)
	memberService := member.NewService(memberRepo, publisher)
	catalog := plan.NewCatalog(plan.NewRepository(database), cfg.PlanCacheTTL)

	userService := user.NewService(user.NewRepository(database), cfg.JWTSecret)
	bootstrapAdmin(ctx, cfg, userService)

	sessions := registration.NewSessions(registration.Deps{
		Plans:        catalog,
		Guard:        member.NewGuard(memberRepo),
		Members:      memberRepo,
		Gateway:      gateway,
		Notifier:     email.NewDispatcher(emailService),
		Publisher:    publisher,
		Currency:     cfg.PaymentCurrency,
		AdminContact: cfg.AdminContactEmail,
	}, registration.DefaultDoneGrace)
	registrationHandler := registration.NewHandler(
		sessions,
		memberRepo,
		catalog,
		payment.NewWebhookProcessor(cfg.StripeWebhookSecret),
	)

	jobs := scheduler.New(memberService, emailService)
	if err := jobs.Start(cfg.ExpirySchedule); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}
	defer jobs.Stop()

	srv := server.New(cfg, server.Deps{
		Users:         userService,
		Members:       memberService,
		Catalog:       catalog,
		Emails:        emailService,
		Registrations: registrationHandler,
		Checks: map[string]server.HealthCheck{
			"database": database.PingContext,
			"redis":    emailService.Ping,
		},
	})

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}

// bootstrapAdmin creates the first admin account when the env asks for one.
func bootstrapAdmin(ctx context.Context, cfg *config.Config, users user.Service) {
	if cfg.BootstrapAdminEmail == "" || cfg.BootstrapAdminPassword == "" {
		return
	}

	_, err := users.CreateOperator(ctx, user.CreateOperatorRequest{
		Name:     "Administrator",
		Email:    cfg.BootstrapAdminEmail,
		Password: cfg.BootstrapAdminPassword,
		Role:     auth.RoleAdmin,
	})
	switch {
	case err == nil:
		logger.Info("Bootstrap admin created", "email", cfg.BootstrapAdminEmail)
	case errors.Is(err, user.ErrEmailExists):
		logger.Debug("Bootstrap admin already present")
	default:
		logger.Error("Failed to create bootstrap admin", "error", err)
	}
}
