package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/chatsentry/chat-sentry/internal/sentry/common/clock"
	"github.com/chatsentry/chat-sentry/internal/sentry/common/log"
	"github.com/chatsentry/chat-sentry/internal/sentry/common/metrics"
	"github.com/chatsentry/chat-sentry/internal/sentry/config"
	"github.com/chatsentry/chat-sentry/internal/sentry/domain"
	"github.com/chatsentry/chat-sentry/internal/sentry/gateways/chat"
	"github.com/chatsentry/chat-sentry/internal/sentry/gateways/fetch"
	"github.com/chatsentry/chat-sentry/internal/sentry/gateways/ops"
	"github.com/chatsentry/chat-sentry/internal/sentry/repos/blocklist"
	"github.com/chatsentry/chat-sentry/internal/sentry/repos/blocklist/bloom"
	"github.com/chatsentry/chat-sentry/internal/sentry/repos/blocklist/lru"
	"github.com/chatsentry/chat-sentry/internal/sentry/repos/sticky"
	"github.com/chatsentry/chat-sentry/internal/sentry/services/inspector"
	"github.com/chatsentry/chat-sentry/internal/sentry/services/keeper"
	"github.com/chatsentry/chat-sentry/internal/sentry/services/refresher"
)

const (
	version = "0.1.0-dev"
	appName = "chat-sentryd"

	fetchRetries           = 3
	defaultShutdownTimeout = 10 * time.Second
)

// Application holds every running component of the daemon.
type Application struct {
	config    *config.AppConfig
	transport chat.Transport
	handler   *inspector.Handler
	refresher *refresher.Refresher
	keeper    *keeper.Keeper
	ops       *ops.Server
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	err = log.Configure(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"version":       version,
		"env":           cfg.Env,
		"log_level":     cfg.LogLevel,
		"transport":     cfg.Transport,
		"help_channels": cfg.HelpChannels,
		"match_mode":    cfg.MatchMode,
		"blocklist_url": cfg.BlocklistURL,
	}, "Starting chat-sentry")

	app, err := buildApplication(cfg)
	if err != nil {
		log.Fatal(map[string]any{"error": err}, "Failed to build application")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info(map[string]any{"signal": sig.String()}, "Shutdown signal received")
		cancel()
	}()

	if err := app.Run(ctx); err != nil {
		log.Fatal(map[string]any{"error": err}, "Daemon failed")
	}

	log.Info(nil, "chat-sentry stopped gracefully")
}

// buildApplication constructs all components and wires them together.
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	clk := &clock.RealClock{}
	logger := log.GetLogger()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	repos, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build repositories: %w", err)
	}

	gw, err := buildGateways(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build gateways: %w", err)
	}

	executor := chat.NewExecutor(gw.messenger, repos.sticky, m, logger)

	inspectorService := inspector.NewInspector(inspector.InspectorOptions{
		Blocklist:     repos.blocklist,
		Sticky:        repos.sticky,
		Clock:         clk,
		Metrics:       m,
		Logger:        logger,
		HelpChannels:  cfg.HelpChannels,
		StickyText:    cfg.StickyText,
		ReplyRateHelp: cfg.ReplyRateHelp,
		ReplyRate:     cfg.ReplyRate,
	})

	var refreshService *refresher.Refresher
	if cfg.BlocklistURL != "" {
		refreshService = refresher.NewRefresher(refresher.RefresherOptions{
			Fetcher: gw.fetcher,
			Target:  repos.blocklist,
			URL:     cfg.BlocklistURL,
			Path:    cfg.BlocklistPath,
			Metrics: m,
			Logger:  logger,
		})
	}

	keeperService := keeper.NewKeeper(keeper.KeeperOptions{
		Source:       gw.messenger,
		Sticky:       repos.sticky,
		Applier:      executor,
		Clock:        clk,
		Logger:       logger,
		HelpChannels: cfg.HelpChannels,
		StickyText:   cfg.StickyText,
		Interval:     cfg.StickyPoll(),
	})

	var opsServer *ops.Server
	if cfg.OpsAddr != "" {
		opsServer = ops.NewServer(cfg.OpsAddr, repos.blocklist, repos.sticky, registry, logger)
	}

	return &Application{
		config:    cfg,
		transport: gw.transport,
		handler:   inspector.NewHandler(inspectorService, executor),
		refresher: refreshService,
		keeper:    keeperService,
		ops:       opsServer,
	}, nil
}

// repositories holds all repository implementations.
type repositories struct {
	blocklist blocklist.Repository
	sticky    *sticky.Registry
}

// gatewayLayer holds all gateway implementations.
type gatewayLayer struct {
	transport chat.Transport
	messenger chat.Messenger
	fetcher   fetch.Fetcher
}

func buildRepositories(cfg *config.AppConfig, logger log.Logger) (*repositories, error) {
	if cfg.BlocklistURL == "" {
		log.Info(nil, "Link blocking disabled, no blocklist feed configured")
		return &repositories{
			blocklist: &blocklist.NoopBlocklist{},
			sticky:    sticky.NewRegistry(cfg.StickyIdle()),
		}, nil
	}

	mode, err := domain.ParseMatchMode(cfg.MatchMode)
	if err != nil {
		return nil, fmt.Errorf("invalid match mode: %w", err)
	}

	cache, err := lru.New(cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create verdict cache: %w", err)
	}

	blocklistRepo := blocklist.NewRepository(cache, bloom.NewFactory(), cfg.BloomFPRate, mode, logger)

	log.Info(map[string]any{
		"match_mode": mode.String(),
		"cache_size": cfg.CacheSize,
		"fp_rate":    cfg.BloomFPRate,
	}, "Blocklist repository configured")

	return &repositories{
		blocklist: blocklistRepo,
		sticky:    sticky.NewRegistry(cfg.StickyIdle()),
	}, nil
}

func buildGateways(cfg *config.AppConfig, logger log.Logger) (*gatewayLayer, error) {
	transport, messenger, err := chat.NewTransport(cfg.Transport, os.Stdin, os.Stdout, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}

	log.Info(map[string]any{"transport": transport.Name()}, "Chat transport configured")

	return &gatewayLayer{
		transport: transport,
		messenger: messenger,
		fetcher:   fetch.NewHTTPFetcher(cfg.FetchTimeout(), fetchRetries, logger),
	}, nil
}

// Run starts every component and blocks until the context is cancelled.
func (app *Application) Run(ctx context.Context) error {
	if app.refresher != nil {
		// serve whatever list is already on disk while the first download runs
		if err := app.refresher.LoadLocal(); err != nil {
			log.Warn(map[string]any{"error": err}, "Could not load local blocklist")
		}

		if err := app.refresher.Start(ctx, app.config.RefreshSeconds); err != nil {
			return fmt.Errorf("failed to start refresher: %w", err)
		}
	}

	app.keeper.Start(ctx)

	if app.ops != nil {
		if err := app.ops.Start(); err != nil {
			return fmt.Errorf("failed to start ops server: %w", err)
		}
	}

	if err := app.transport.Start(ctx, app.handler); err != nil {
		return fmt.Errorf("failed to start chat transport: %w", err)
	}

	log.Info(map[string]any{
		"transport": app.transport.Name(),
		"ops_addr":  app.config.OpsAddr,
	}, "chat-sentry started")

	<-ctx.Done()

	log.Info(nil, "Shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	if err := app.transport.Stop(); err != nil {
		log.Warn(map[string]any{"error": err}, "Error during transport shutdown")
	}

	done := make(chan struct{})
	go func() {
		if app.refresher != nil {
			app.refresher.Stop()
		}
		app.keeper.Wait()
		if app.ops != nil {
			if err := app.ops.Stop(shutdownCtx); err != nil {
				log.Warn(map[string]any{"error": err}, "Error during ops shutdown")
			}
		}
		close(done)
	}()

	select {
	case <-done:
		log.Info(nil, "Graceful shutdown completed")
		return nil
	case <-shutdownCtx.Done():
		log.Warn(map[string]any{"timeout": defaultShutdownTimeout}, "Shutdown timeout exceeded")
		return fmt.Errorf("shutdown timeout")
	}
}
