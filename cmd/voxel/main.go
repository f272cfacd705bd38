package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Versifine/voxel/internal/config"
	"github.com/Versifine/voxel/internal/logger"
	"github.com/Versifine/voxel/internal/metrics"
	"github.com/Versifine/voxel/internal/shapes"
	"github.com/Versifine/voxel/internal/world"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config")
	dropBlock := flag.String("drop", "", "block to drop a player onto after loading the catalogue")
	flag.Parse()

	cfg, err := config.Load(config.ResolvePath(*configPath))
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *dropBlock); err != nil {
		logger.L().Error("voxel failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, dropBlock string) error {
	shapes.SetCubeMergeLimit(cfg.Engine.CubeMergeLimit)

	reg := prometheus.NewRegistry()
	engineMetrics := metrics.NewEngineMetrics()
	if err := engineMetrics.Register(reg); err != nil {
		return err
	}
	shapes.SetObserver(engineMetrics)
	defer shapes.SetObserver(nil)

	log := logger.Component("catalogue")
	start := time.Now()
	catalogue, err := world.LoadCatalogue(cfg.Catalogue.Path)
	if err != nil {
		return err
	}
	log.Info("Loaded block catalogue",
		"path", cfg.Catalogue.Path,
		"blocks", len(catalogue.Names()),
		"states", catalogue.StateCount(),
		"took", time.Since(start),
	)
	if err := writeReport(os.Stdout, catalogue); err != nil {
		return err
	}

	if dropBlock != "" {
		bounds, _ := world.VanillaDimensionBounds(cfg.World.Dimension)
		result, err := dropPlayer(catalogue, bounds, dropBlock)
		if err != nil {
			return err
		}
		logger.Component("physics").Info("Player landed",
			"block", dropBlock,
			"y", result.Y,
			"ticks", result.Ticks,
			"on_ground", result.OnGround,
			"top_sealed", result.TopSealed,
		)
	}

	if cfg.Metrics.Listen == "" {
		return nil
	}
	return serveMetrics(ctx, cfg.Metrics.Listen, reg)
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry) error {
	log := logger.Component("metrics")
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Serving metrics", "listen", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("Shutting down metrics server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
