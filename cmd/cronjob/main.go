package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"earnshare-backend/internal/config"
	"earnshare-backend/internal/jobs"
	"earnshare-backend/internal/logger"
	"earnshare-backend/internal/payment"
	"earnshare-backend/internal/repository/postgres"
	"earnshare-backend/internal/scheduler"
	"earnshare-backend/internal/service"
)

// Standalone job driver. With -run-once it executes the deposit renewal
// batch and exits, which is the shape external cron or a one-off
// operator run wants; otherwise it keeps the cron schedule running.
func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "path to config file")
	runOnce := flag.Bool("run-once", false, "run the renewal batch once and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Initialize("info", "text")
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	store := postgres.NewStore(db)
	provider := payment.NewStripeProvider(
		cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret,
		cfg.Stripe.SuccessURL, cfg.Stripe.CancelURL,
	)
	alerts := service.NewSendGridAlertSender(cfg.Email)
	depositSvc := service.NewDepositService(store.OrderRepository, provider, alerts, cfg.Deposit, cfg.Checkout.Currency)
	runner := jobs.NewJobRunner(depositSvc)

	if *runOnce {
		summary, err := runner.RenewDepositHolds(context.Background())
		if err != nil {
			logger.Error("renewal batch failed", "error", err)
			os.Exit(1)
		}
		logger.Info("renewal batch complete",
			"scanned", summary.Scanned, "renewed", summary.Renewed,
			"skipped", summary.Skipped, "failed", summary.Failed)
		return
	}

	sched := scheduler.New(runner, cfg.Scheduler)
	if err := sched.Start(); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	sched.Stop()
}
