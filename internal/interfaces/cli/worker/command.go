package worker

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eridehero/eridehero/internal/application/notification"
	"github.com/eridehero/eridehero/internal/infrastructure/catalog"
	"github.com/eridehero/eridehero/internal/infrastructure/config"
	"github.com/eridehero/eridehero/internal/infrastructure/database"
	"github.com/eridehero/eridehero/internal/infrastructure/email"
	"github.com/eridehero/eridehero/internal/infrastructure/pricing"
	"github.com/eridehero/eridehero/internal/infrastructure/repository"
	"github.com/eridehero/eridehero/internal/infrastructure/scheduler"
	"github.com/eridehero/eridehero/internal/infrastructure/token"
	"github.com/eridehero/eridehero/internal/shared/biztime"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Start the notification worker",
		Long:  `Run the scheduled jobs: price-alert sweeps, sales roundups, and session cleanup.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log := logger.NewLogger()
	log.Infow("starting notification worker", "environment", env)

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	userRepo := repository.NewUserRepository(database.Get(), log.Named("user-repo"))
	trackerRepo := repository.NewTrackerRepository(database.Get(), log.Named("tracker-repo"))
	sessionRepo := repository.NewSessionRepository(database.Get(), log.Named("session-repo"))

	emailService := email.NewSMTPEmailService(cfg.Email)
	priceFetcher := pricing.NewClient(cfg.Pricing, log.Named("pricing"))
	catalogStore := catalog.NewClient(cfg.Catalog, log.Named("catalog"))
	signer := token.NewUnsubscribeSigner(cfg.Tracker.UnsubscribeSecret)

	priceAlertJob := notification.NewPriceAlertJob(
		trackerRepo, userRepo, priceFetcher, catalogStore,
		emailService, signer, cfg.Server.BaseURL, log.Named("price-alerts"),
	)
	roundupJob := notification.NewRoundupJob(userRepo, emailService, cfg.Email.BaseURL, log.Named("roundup"))

	manager, err := scheduler.NewSchedulerManager(log.Named("scheduler"))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	if err := manager.RegisterPriceAlertJob(priceAlertJob); err != nil {
		return fmt.Errorf("failed to register price alert job: %w", err)
	}
	if err := manager.RegisterRoundupJob(roundupJob); err != nil {
		return fmt.Errorf("failed to register roundup job: %w", err)
	}
	if err := manager.RegisterSessionCleanupJob(sessionRepo); err != nil {
		return fmt.Errorf("failed to register session cleanup job: %w", err)
	}

	manager.Start()
	log.Infow("scheduler started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Infow("shutting down worker...")

	if err := manager.Stop(); err != nil {
		log.Errorw("failed to stop scheduler", "error", err)
		return err
	}

	log.Infow("worker exited gracefully")
	return nil
}
