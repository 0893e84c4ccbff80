package cmd

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v5"
	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	pubnub "github.com/pubnub/go"
	"github.com/redis/go-redis/v9"

	"parking-system/billing"
	"parking-system/config"
	"parking-system/handlers"
	"parking-system/internal/payments"
	_ "parking-system/migrations"
	"parking-system/monitoring"
	"parking-system/security"
	"parking-system/services"
	"parking-system/store"
	"parking-system/utils"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the ticket store backend
	var (
		ticketStore store.TicketStore
		redisClient *redis.Client
	)
	if cfg.StoreBackend == "memory" {
		slog.Warn("using in-memory ticket store, tickets will not survive a restart")
		ticketStore = store.NewMemoryStore()
	} else {
		redisClient = utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
		defer redisClient.Close()
		ticketStore = store.NewRedisStore(redisClient)
	}

	// Initialize PubNub (optional, settlement notifications only)
	var pn *pubnub.PubNub
	if cfg.PubNubPublishKey != "" {
		pnConfig := pubnub.NewConfig()
		pnConfig.PublishKey = cfg.PubNubPublishKey
		pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
		pnConfig.SecretKey = cfg.PubNubSecretKey
		pn = pubnub.NewPubNub(pnConfig)
	}

	// Initialize the payment provider
	provider, err := payments.NewProvider(payments.ProviderKind(cfg.PaymentProvider))
	if err != nil {
		return err
	}

	// Initialize services
	calculator := billing.NewCalculator(cfg.BillingPolicy, cfg.BlockRate, cfg.DailyCap, cfg.Currency)
	lotRegistry := services.NewLotRegistry(redisClient)
	ticketService := services.NewTicketService(ticketStore, calculator, provider, lotRegistry, pn, cfg.NotifyChannel)

	// Initialize handlers
	ticketHandler := handlers.NewTicketHandler(app, ticketService)
	rateLimiter := security.NewRateLimiter(redisClient, cfg.RateLimitPerMinute)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	// Start background tasks
	if cfg.EnableMetrics {
		go startMetricsServer(cfg.MetricsPort)
		if redisClient != nil {
			go monitoring.NewMonitor(redisClient).Run(ctx)
		}
	}

	// Setup graceful shutdown
	go handleShutdown(cancel)

	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		if redisClient != nil {
			syncParkingLotsToRedis(app, lotRegistry)
		}

		// Ticket lifecycle endpoints
		e.Router.POST("/entry", rateLimiter.Middleware(ticketHandler.Entry))
		e.Router.POST("/exit", rateLimiter.Middleware(ticketHandler.Exit))
		e.Router.POST("/pay", rateLimiter.Middleware(ticketHandler.Pay))

		// Health check
		e.Router.GET("/health", ticketHandler.Health)

		log.Println("Server routes registered")

		return e.Next()
	})

	// Start server
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
	return nil
}

// syncParkingLotsToRedis mirrors the registered parking lots into Redis so
// the entry path can recognize unknown lot identifiers.
func syncParkingLotsToRedis(app *pocketbase.PocketBase, registry *services.LotRegistry) {
	ctx := context.Background()

	var records []dbx.NullStringMap
	if err := app.DB().NewQuery(
		"SELECT id FROM parking_lots WHERE status = 'open'",
	).All(&records); err != nil {
		log.Printf("Error fetching parking lots: %v", err)
		return
	}

	var lotIDs []string
	for _, record := range records {
		if id := record["id"].String; id != "" {
			lotIDs = append(lotIDs, id)
		}
	}

	if err := registry.Sync(ctx, lotIDs); err != nil {
		log.Printf("Error syncing parking lots to Redis: %v", err)
		return
	}
	log.Printf("Synced %d parking lots to Redis", len(lotIDs))
}

// startMetricsServer exposes the prometheus handler on its own listener.
func startMetricsServer(port string) {
	e := echo.New()
	e.GET("/metrics", func(c echo.Context) error {
		promhttp.Handler().ServeHTTP(c.Response(), c.Request())
		return nil
	})

	srv := &http.Server{Addr: ":" + port, Handler: e}
	log.Printf("Metrics server listening on :%s", port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("Metrics server stopped: %v", err)
	}
}

// handleShutdown handles graceful shutdown
func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
	cancel()
}
