package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sirena/sirena/internal/config"
	"github.com/sirena/sirena/internal/domain/admin"
	"github.com/sirena/sirena/internal/domain/appointment"
	"github.com/sirena/sirena/internal/domain/auditevent"
	"github.com/sirena/sirena/internal/domain/authorization"
	"github.com/sirena/sirena/internal/domain/billing"
	"github.com/sirena/sirena/internal/domain/client"
	"github.com/sirena/sirena/internal/domain/note"
	"github.com/sirena/sirena/internal/domain/notification"
	"github.com/sirena/sirena/internal/platform/auth"
	"github.com/sirena/sirena/internal/platform/autosave"
	"github.com/sirena/sirena/internal/platform/db"
	"github.com/sirena/sirena/internal/platform/middleware"
	"github.com/sirena/sirena/internal/platform/reporting"
)

func main() {
	root := &cobra.Command{
		Use:   "sirena-server",
		Short: "Sirena behavioral health practice server",
	}

	root.AddCommand(serveCmd(), migrateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServer(cfg)
		},
	}
}

func migrateCmd() *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the postgres schema",
	}
	var dir string
	migrate.PersistentFlags().StringVar(&dir, "dir", "migrations", "migrations directory")

	withPool := func(fn func(ctx context.Context, m *db.Migrator) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required for migrations")
			}
			ctx := cmd.Context()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()
			return fn(ctx, db.NewMigrator(pool, dir))
		}
	}

	migrate.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: withPool(func(ctx context.Context, m *db.Migrator) error {
			n, err := m.Up(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("applied %d migration(s)\n", n)
			return nil
		}),
	})
	migrate.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: withPool(func(ctx context.Context, m *db.Migrator) error {
			statuses, err := m.Status(ctx)
			if err != nil {
				return err
			}
			for _, s := range statuses {
				state := "pending"
				if s.Applied {
					state = "applied " + s.AppliedAt.Format("2006-01-02 15:04")
				}
				fmt.Printf("%04d_%s  %s\n", s.Version, s.Name, state)
			}
			return nil
		}),
	})
	return migrate
}

// repos bundles one repository per domain, backed by either the memory store
// or postgres depending on configuration.
type repos struct {
	clients        client.Repository
	appointments   appointment.Repository
	notes          note.Repository
	invoices       billing.Repository
	claims         billing.ClaimRepository
	authorizations authorization.Repository
	auditEvents    auditevent.Repository
	notifications  notification.Repository
	users          admin.Repository
}

func buildRepos(ctx context.Context, cfg *config.Config) (*repos, func(), error) {
	if cfg.Store == "postgres" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, nil, err
		}
		return &repos{
			clients:        client.NewRepoPG(pool),
			appointments:   appointment.NewRepoPG(pool),
			notes:          note.NewRepoPG(pool),
			invoices:       billing.NewRepoPG(pool),
			claims:         billing.NewClaimRepoPG(pool),
			authorizations: authorization.NewRepoPG(pool),
			auditEvents:    auditevent.NewRepoPG(pool),
			notifications:  notification.NewRepoPG(pool),
			users:          admin.NewRepoPG(pool),
		}, pool.Close, nil
	}
	return &repos{
		clients:        client.NewRepoMem(client.DefaultSeed()),
		appointments:   appointment.NewRepoMem(appointment.DefaultSeed()),
		notes:          note.NewRepoMem(note.DefaultSeed()),
		invoices:       billing.NewRepoMem(billing.DefaultSeed()),
		claims:         billing.NewClaimRepoMem(billing.DefaultClaimSeed()),
		authorizations: authorization.NewRepoMem(authorization.DefaultSeed()),
		auditEvents:    auditevent.NewRepoMem(),
		notifications:  notification.NewRepoMem(nil),
		users:          admin.NewRepoMem(nil),
	}, func() {}, nil
}

func runServer(cfg *config.Config) error {
	logger := newLogger(cfg)
	ctx := context.Background()

	r, closeRepos, err := buildRepos(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepos()

	debouncer := autosave.NewDebouncer(cfg.AutosaveDebounce())
	defer debouncer.Stop()

	authorizations := authorization.NewService(r.authorizations, logger)
	clients := client.NewService(r.clients, logger)
	appointments := appointment.NewService(r.appointments, authorizations, logger)
	notes := note.NewService(r.notes, debouncer, logger)
	invoices := billing.NewService(r.invoices, r.claims, logger)
	auditEvents := auditevent.NewService(r.auditEvents, logger)
	notifications := notification.NewService(r.notifications, logger)
	users := admin.NewService(r.users, logger)
	reports := reporting.NewService(authorizations, appointments, notes, logger)

	if cfg.Store == "memory" {
		if err := admin.EnsureSeedUsers(ctx, users); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}

	// Flip authorizations whose window has closed, then keep sweeping so the
	// utilization report stays honest on long-running processes.
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			if _, err := authorizations.ExpireStale(sweepCtx, time.Now()); err != nil && sweepCtx.Err() == nil {
				logger.Warn().Err(err).Msg("authorization expiry sweep failed")
			}
			select {
			case <-ticker.C:
			case <-sweepCtx.Done():
				return
			}
		}
	}()

	secret := cfg.JWTSecret
	if secret == "" {
		// dev mode only; Validate refuses this outside development
		secret = "sirena-development-secret-not-for-production"
	}
	issuer := auth.NewTokenIssuer([]byte(secret), "sirena", cfg.TokenTTL())

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	if cfg.IsDev() && cfg.JWTSecret == "" {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(issuer, auth.LoginSkipper))
	}
	e.Use(middleware.Audit(logger, auditEvents))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "store": cfg.Store})
	})

	api := e.Group("/api/v1")
	client.NewHandler(clients).RegisterRoutes(api)
	appointment.NewHandler(appointments).RegisterRoutes(api)
	note.NewHandler(notes).RegisterRoutes(api)
	billing.NewHandler(invoices).RegisterRoutes(api)
	authorization.NewHandler(authorizations).RegisterRoutes(api)
	auditevent.NewHandler(auditEvents).RegisterRoutes(api)
	notification.NewHandler(notifications).RegisterRoutes(api)
	admin.NewHandler(users, issuer).RegisterRoutes(api)
	reporting.NewHandler(reports).RegisterRoutes(api)

	go func() {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Str("store", cfg.Store).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
