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

	"github.com/cmlabs-hris/tenant-invitation-go/internal/config"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/domain/audit"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/domain/invitation"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/domain/tenant"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/domain/user"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/tenant-invitation-go/internal/handler/http"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/pkg/database"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/pkg/email"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/repository/memory"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/repository/postgresql"
	invitationService "github.com/cmlabs-hris/tenant-invitation-go/internal/service/invitation"
	"github.com/go-chi/httplog/v3"
)

type repositories struct {
	invitations invitation.InvitationRepository
	tenants     tenant.TenantRepository
	directory   user.DirectoryRepository
	audit       audit.AuditRepository
	seeder      fixtures.Seeder
	close       func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "tenant-invitations"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize store", "store", cfg.Store.Type, "error", err)
		os.Exit(1)
	}
	defer repos.close()

	if cfg.App.Env == "development" {
		if err := repos.seeder.Seed(ctx, fixtures.DevelopmentData()); err != nil {
			slog.Error("Failed to seed development data", "error", err)
			os.Exit(1)
		}
		slog.Info("Development data seeded", "tenant_id", fixtures.DevTenantID)
	}

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		slog.Error("Failed to initialize email service", "error", err)
		os.Exit(1)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	invitationSvc := invitationService.NewInvitationService(
		repos.invitations,
		repos.tenants,
		repos.directory,
		repos.audit,
		emailService,
		invitationService.Config{
			FrontendURL:     cfg.App.FrontendURL,
			DefaultPageSize: cfg.Invitation.DefaultPageSize,
		},
	)
	invitationHandler := appHTTP.NewInvitationHandler(invitationSvc)

	router := appHTTP.NewRouter(
		logger,
		appHTTP.RouterConfig{
			AllowedOrigins: cfg.App.AllowedOrigins,
			LogLevel:       cfg.SlogLevel(),
		},
		JWTService,
		invitationHandler,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
	}()

	slog.Info("Server running", "addr", server.Addr, "store", cfg.Store.Type)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
	}
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Store.Type {
	case config.StoreTypeMemory:
		store := memory.NewStore()
		return &repositories{
			invitations: store.Invitations(),
			tenants:     store.Tenants(),
			directory:   store.Directory(),
			audit:       store.Audit(),
			seeder:      store,
			close:       func() {},
		}, nil

	case config.StoreTypePostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.ApplyMigrations(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
		return &repositories{
			invitations: postgresql.NewInvitationRepository(db),
			tenants:     postgresql.NewTenantRepository(db),
			directory:   postgresql.NewDirectoryRepository(db),
			audit:       postgresql.NewAuditRepository(db),
			seeder:      postgresql.NewSeeder(db),
			close:       db.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.Store.Type)
	}
}
