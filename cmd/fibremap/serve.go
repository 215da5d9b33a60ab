package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"fibremap/internal/config"
	"fibremap/internal/domain"
	"fibremap/internal/handler"
	"fibremap/internal/hub"
	"fibremap/internal/metrics"
	"fibremap/internal/poller"
	"fibremap/internal/service"
	"fibremap/internal/source"
	"fibremap/internal/watcher"
)

func serveCmd() *cobra.Command {
	var (
		addr      string
		sourceURI string
		watch     bool
		poll      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the topology viewer",
		Long: `Load the topology document and serve the browser viewer.

  fibremap serve --source ./network.json
  fibremap serve --source s3://maps/network.json --addr :8080
  fibremap serve --source sqlite://./fibremap.db
  fibremap serve --source ./network.yaml --watch
  fibremap serve --source https://maps.example.net/network.json --poll 5m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("addr") {
				cfg.Server.Addr = addr
			}
			if flags.Changed("source") {
				cfg.Source.URI = sourceURI
			}
			if flags.Changed("watch") {
				cfg.Source.Watch = watch
			}
			if flags.Changed("poll") {
				cfg.Source.PollInterval = config.Duration(poll)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			return runServer(cfg, path)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (default :3000)")
	cmd.Flags().StringVar(&sourceURI, "source", "", "Topology document: path, http(s)://, s3://bucket/key or sqlite://path")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload the document when the file changes")
	cmd.Flags().DurationVar(&poll, "poll", 0, "Refetch remote documents at this interval (0 disables)")

	return cmd
}

func runServer(cfg *config.Config, configFile string) error {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting fibremap server...")
	if configFile != "" {
		log.Printf("Config loaded: %s", configFile)
	}
	log.Println(cfg.Summary())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := metrics.DefaultRegistry()

	t, err := loadTopology(ctx, reg, cfg.Source.URI)
	if err != nil {
		return err
	}

	// Initialize event bus
	eventBus := service.NewEventBus()

	// Initialize SSE hub
	sseHub := hub.New()
	go sseHub.Run(ctx)

	// Connect event bus to SSE hub, routed by session
	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-eventChan:
				sseHub.Broadcast(event.SessionID, event)
			}
		}
	}()

	viewSvc := service.NewViewService(t, eventBus, reg, service.Options{
		IdleTTL:     cfg.Sessions.IdleTTL.Duration(),
		MaxSessions: cfg.Sessions.MaxSessions,
	})
	go viewSvc.RunSweeper(ctx, cfg.Sessions.SweepInterval.Duration())

	startReloader(ctx, cfg.Source, t, reg, viewSvc)

	mux := http.NewServeMux()
	handler.NewViewHandler(viewSvc).Register(mux)

	// SSE events endpoint
	mux.Handle("GET /events", sseHub)

	if cfg.Metrics.Enabled {
		mux.Handle("GET "+cfg.Metrics.Path, promhttp.HandlerFor(reg.GetPrometheusRegistry(), promhttp.HandlerOpts{}))
	}

	// Static files from embedded filesystem
	webContent, err := fs.Sub(webFS, "web")
	if err != nil {
		return fmt.Errorf("embedded web content: %w", err)
	}
	mux.Handle("/", http.FileServer(http.FS(webContent)))

	finalHandler := handler.Chain(mux,
		handler.Recover,
		handler.CORS,
		handler.Logger(reg),
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      finalHandler,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: cfg.Server.WriteTimeout.Duration(),
		IdleTimeout:  cfg.Server.IdleTimeout.Duration(),
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	}

	log.Println("Shutting down server...")
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
	return nil
}

// startReloader swaps a changed document in for new sessions. Local files
// are watched, every other source is polled.
func startReloader(ctx context.Context, src config.SourceConfig, current *domain.Topology, reg *metrics.Registry, viewSvc *service.ViewService) {
	loc, err := source.Parse(src.URI)
	if err != nil {
		return
	}

	fetch := func(ctx context.Context, uri string) (*domain.Topology, error) {
		return loadTopology(ctx, reg, uri)
	}

	if loc.Kind == source.KindFile {
		if !src.Watch {
			return
		}
		w := watcher.New(loc.Path, func(path string) {
			t, err := fetch(ctx, src.URI)
			if err != nil {
				log.Printf("Reload failed, keeping previous topology: %v", err)
				return
			}
			viewSvc.SetTopology(t)
		})

		go func() {
			if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Watcher stopped: %v", err)
			}
		}()
		return
	}

	if src.Watch {
		log.Printf("Watch ignored: %s is not a local file, use --poll", src.URI)
	}
	interval := src.PollInterval.Duration()
	if interval <= 0 {
		return
	}

	p := poller.New(src.URI, interval, fetch, viewSvc.SetTopology)
	if err := p.Seed(current); err != nil {
		log.Printf("Poller seed failed: %v", err)
	}
	go p.Run(ctx)
}
