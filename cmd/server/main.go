package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"earnshare-backend/internal/api"
	apihttp "earnshare-backend/internal/api/http"
	"earnshare-backend/internal/auth"
	"earnshare-backend/internal/config"
	"earnshare-backend/internal/jobs"
	"earnshare-backend/internal/logger"
	"earnshare-backend/internal/payment"
	"earnshare-backend/internal/repository/postgres"
	"earnshare-backend/internal/scheduler"
	"earnshare-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "path to config file")
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

	cartSvc := service.NewCartService(store.CartRepository, store.ProductRepository, store.CustomizationRepository)
	checkoutSvc := service.NewCheckoutService(store.OrderRepository, provider, cfg.Checkout.Currency)
	orderSvc := service.NewOrderService(store.OrderRepository, store.CartRepository, store.ProductRepository, store.CustomizationRepository, checkoutSvc,
		cfg.Checkout.ShippingFee, cfg.Checkout.Currency)
	depositSvc := service.NewDepositService(store.OrderRepository, provider, alerts, cfg.Deposit, cfg.Checkout.Currency)
	catalogSvc := service.NewCatalogService(store.ProductRepository)
	communitySvc := service.NewCommunityService(store.BannerRepository, store.RequestRepository, store.ReviewRepository)

	ctx := context.Background()
	authn, err := auth.NewMiddleware(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		logger.Error("failed to initialize auth", "error", err)
		os.Exit(1)
	}

	router := apihttp.NewRouter(apihttp.Handlers{
		Cart:      apihttp.NewCartHandler(cartSvc),
		Order:     apihttp.NewOrderHandler(orderSvc),
		Product:   apihttp.NewProductHandler(catalogSvc),
		Community: apihttp.NewCommunityHandler(communitySvc),
		Webhook:   apihttp.NewWebhookHandler(provider, depositSvc),
		Jobs:      apihttp.NewJobsHandler(depositSvc),
	}, authn)

	runner := jobs.NewJobRunner(depositSvc)
	sched := scheduler.New(runner, cfg.Scheduler)
	if err := sched.Start(); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      api.WithRequestLogging(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	sched.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}
