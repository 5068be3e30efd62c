package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"tradeoffer-engine/internal/api"
	"tradeoffer-engine/internal/config"
	"tradeoffer-engine/internal/db"
	"tradeoffer-engine/internal/logger"
	"tradeoffer-engine/internal/plugin"
	"tradeoffer-engine/internal/steamweb"
	"tradeoffer-engine/internal/trading"
)

var version = "dev"

func main() {
	port := flag.Int("port", 14170, "HTTP control server port")
	host := flag.String("host", "127.0.0.1", "Host to bind to (use 0.0.0.0 to allow LAN/remote access)")
	ownSteamID := flag.Uint64("own-steamid64", 0, "this bot account's Steam ID")
	baseURL := flag.String("trading-api", envOrDefault("TRADING_API_URL", "http://127.0.0.1:8080"), "base URL of the trading web API")
	apiKey := flag.String("trading-api-key", os.Getenv("TRADING_API_KEY"), "bearer token for the trading web API")
	hasAuth := flag.Bool("mobile-authenticator", os.Getenv("HAS_MOBILE_AUTHENTICATOR") == "1", "whether this account has a mobile authenticator configured")
	scanInterval := flag.Duration("scan-interval", 30*time.Second, "interval between automatic trade-offer scans")
	flag.Parse()

	logger.Banner(version)

	if *ownSteamID == 0 {
		logger.Error("Main", "own-steamid64 is required")
		os.Exit(1)
	}

	database, err := db.Open()
	if err != nil {
		logger.Error("DB", fmt.Sprintf("Failed to open database: %v", err))
		os.Exit(1)
	}
	defer database.Close()

	cfg := database.LoadConfig()

	client := steamweb.NewClient(*baseURL, *apiKey, *hasAuth)
	permissions := db.NewPermissions(database, *ownSteamID)
	bus := plugin.NewBus()

	policy := &trading.DecisionPolicy{
		OwnSteamID64: *ownSteamID,
		Config:       cfg,
		Service:      client,
		Permissions:  permissions,
		HoldCache:    trading.NewTradeHoldCache(config.TradeHoldCacheTTL),
	}
	pipeline := &trading.OfferPipeline{
		Policy:  policy,
		Service: client,
		Plugins: bus,
		Handled: trading.NewHandledOfferSet(),
		Audit:   database,
	}
	scheduler := trading.NewScheduler(pipeline, client, bus, cfg, &sync.Mutex{})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scanDone := make(chan struct{})
	go runScanLoop(ctx, scheduler, *scanInterval, scanDone)

	srv := api.NewServer(database, scheduler, cfg)
	addr := fmt.Sprintf("%s:%d", *host, *port)
	logger.Server(addr)

	httpServer := &http.Server{Addr: addr, Handler: srv.Handler()}

	go func() {
		<-ctx.Done()
		logger.Info("Server", "Shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server", fmt.Sprintf("Shutdown error: %v", err))
		}
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server", fmt.Sprintf("Failed: %v", err))
		os.Exit(1)
	}

	<-scanDone
	logger.Info("Server", "Stopped")
}

// runScanLoop periodically triggers the scheduler's coalescing pass until
// ctx is canceled, then drives one final OnNewTrade call against the
// canceled context so any pass already in flight unwinds through its
// context-aware calls before the process exits.
func runScanLoop(ctx context.Context, scheduler *trading.Scheduler, interval time.Duration, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			scheduler.OnNewTrade(ctx)
			return
		case <-ticker.C:
			scheduler.OnNewTrade(ctx)
		}
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
