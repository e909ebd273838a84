package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medimate/medimate/internal/config"
	"github.com/medimate/medimate/internal/domain/dose"
	"github.com/medimate/medimate/internal/domain/identity"
	"github.com/medimate/medimate/internal/domain/medication"
	"github.com/medimate/medimate/internal/domain/notification"
	"github.com/medimate/medimate/internal/domain/patient"
	"github.com/medimate/medimate/internal/platform/auth"
	"github.com/medimate/medimate/internal/platform/db"
	"github.com/medimate/medimate/internal/platform/jobs"
	"github.com/medimate/medimate/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "medimate-server",
		Short: "Medication adherence API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(generateDosesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func generateDosesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate-doses",
		Short: "Generate dose slots for a date (defaults to today)",
		RunE: func(cmd *cobra.Command, args []string) error {
			dateStr, _ := cmd.Flags().GetString("date")

			date := time.Now()
			if dateStr != "" {
				parsed, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --date %q, want YYYY-MM-DD: %w", dateStr, err)
				}
				date = parsed
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
			generator := dose.NewGenerator(medication.NewRepo(pool), dose.NewRepo(pool), logger)

			created, err := generator.GenerateForDate(ctx, date)
			if err != nil {
				return err
			}
			fmt.Printf("Created %d dose slot(s) for %s.\n", created, date.Format("2006-01-02"))
			return nil
		},
	}
	cmd.Flags().String("date", "", "Target date (YYYY-MM-DD)")
	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Session token store. Redis keeps sessions across restarts and shares
	// them between instances; the in-memory store is for single-node setups.
	var tokens auth.TokenStore
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		client := redis.NewClient(opts)
		defer client.Close()
		tokens = auth.NewRedisTokenStore(client, cfg.TokenTTL())
		logger.Info().Msg("using redis session store")
	} else {
		tokens = auth.NewMemoryTokenStore(cfg.TokenTTL())
		logger.Warn().Msg("REDIS_URL not set; sessions are in-memory and lost on restart")
	}

	// Repositories
	userRepo := identity.NewRepo(pool)
	patientRepo := patient.NewRepo(pool)
	medRepo := medication.NewRepo(pool)
	doseRepo := dose.NewRepo(pool)
	notifRepo := notification.NewRepo(pool)

	// Services
	identitySvc := identity.NewService(userRepo, tokens)
	patientSvc := patient.NewService(patientRepo)
	notifSvc := notification.NewService(notifRepo)

	// The generator doubles as the medication seeder so a newly assigned
	// medication gets its slots for today without waiting for the nightly job.
	generator := dose.NewGenerator(medRepo, doseRepo, logger)

	elderByEmail := func(ctx context.Context, email string) (uuid.UUID, error) {
		u, err := identitySvc.FindByEmail(ctx, email)
		if errors.Is(err, identity.ErrNotFound) {
			return uuid.Nil, nil
		}
		if err != nil {
			return uuid.Nil, err
		}
		return u.ID, nil
	}
	medSvc := medication.NewService(medRepo, generator, elderByEmail)
	// Repos resolve a context transaction before falling back to the pool, so
	// the medication row and its seeded dose slots commit together.
	medSvc.SetTxRunner(func(ctx context.Context, fn func(context.Context) error) error {
		return db.RunInTx(ctx, pool, fn)
	})

	// Caretaker escalation chain: elder account email, patient record by that
	// email, caretaker on the record. Any gap silently ends the chain.
	elderEmail := func(ctx context.Context, userID uuid.UUID) (string, error) {
		u, err := identitySvc.GetProfile(ctx, userID)
		if errors.Is(err, identity.ErrNotFound) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		return u.Email, nil
	}
	alertSink := func(ctx context.Context, a dose.Alert) error {
		return notifSvc.Notify(ctx, &notification.Notification{
			UserID:  a.UserID,
			Type:    a.Type,
			Title:   a.Title,
			Message: a.Message,
			Icon:    a.Icon,
			Color:   a.Color,
		})
	}
	notifier := dose.NewCaretakerNotifier(elderEmail, patientSvc.CaretakerFor, alertSink, logger)

	doseSvc := dose.NewService(doseRepo, notifier)
	sweeper := dose.NewSweeper(doseRepo, notifier, cfg.GracePeriod(), logger)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", auth.AuthTokenHeader},
	}))

	e.GET("/health", db.HealthHandler(pool))

	api := e.Group("/api")
	authed := api.Group("", auth.Middleware(tokens))
	caretaker := authed.Group("/caretaker", auth.RequireRole(identitySvc.RoleOf, identity.RoleCaretaker))

	identity.NewHandler(identitySvc).RegisterRoutes(api, authed)
	patient.NewHandler(patientSvc).RegisterRoutes(caretaker)
	medication.NewHandler(medSvc).RegisterRoutes(authed, caretaker)
	dose.NewHandler(doseSvc).RegisterRoutes(authed)
	notification.NewHandler(notifSvc).RegisterRoutes(authed)

	// Background jobs
	scheduler := jobs.NewScheduler(logger)
	if err := scheduler.Register("daily-dose-generation", "5 0 * * *", func() {
		if _, err := generator.GenerateForDate(context.Background(), time.Now()); err != nil {
			logger.Error().Err(err).Msg("daily dose generation failed")
		}
	}); err != nil {
		logger.Fatal().Err(err).Msg("failed to register dose generation job")
	}
	if err := scheduler.Register("missed-dose-sweep", "* * * * *", func() {
		sweeper.Sweep(context.Background())
	}); err != nil {
		logger.Fatal().Err(err).Msg("failed to register missed dose sweep")
	}
	scheduler.Start()

	// Start and wait for shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()
	logger.Info().Str("port", cfg.Port).Msg("server started")

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	logger.Info().Msg("shutting down")
	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
