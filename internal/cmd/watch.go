package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/forgeservicelab/forge.combined-log-parser/accesslog"
	"github.com/forgeservicelab/forge.combined-log-parser/internal/api"
	"github.com/forgeservicelab/forge.combined-log-parser/internal/collector"
	"github.com/forgeservicelab/forge.combined-log-parser/internal/config"
	"github.com/forgeservicelab/forge.combined-log-parser/internal/discovery"
	"github.com/forgeservicelab/forge.combined-log-parser/internal/enricher"
	"github.com/forgeservicelab/forge.combined-log-parser/internal/recorder"
	"github.com/forgeservicelab/forge.combined-log-parser/internal/stats"
	"github.com/forgeservicelab/forge.combined-log-parser/internal/storage"
	"github.com/forgeservicelab/forge.combined-log-parser/internal/tailer"
	"github.com/forgeservicelab/forge.combined-log-parser/internal/worker"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow configured log files and export metrics",
	Long: `Watch runs the parsing pipeline as a daemon: it tails every service
declared in the config file, parses new lines as they arrive, and serves
Prometheus metrics, parse statistics and dead letters over HTTP.

Service definitions are read once at startup; edits to the config file
are picked up for the HTTP API but tailers only change on restart.`,
	RunE: runWatch,
}

const sampleInterval = 15 * time.Second

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if cfgFile == "" {
		return errors.New("watch requires --config")
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	store := config.NewStore(cfg)
	watchStop, err := config.WatchFile(cfgFile, store)
	if err != nil {
		log.Printf("watch: config reload disabled: %v", err)
		watchStop = func() {}
	}

	// Dead letter persistence is optional.
	var letters storage.Store
	if cfg.DBPath != "" {
		bolt, err := storage.NewBoltStore(cfg.DBPath)
		if err != nil {
			return err
		}
		defer bolt.Close()
		letters = bolt
		go pruneLoop(ctx, bolt, cfg.Retention)
	}

	enrich := enricher.NewEnricher(cfg.GeoIP.CityPath, cfg.GeoIP.ASNPath)
	defer enrich.Close()

	coll := collector.NewCollector()
	coll.Register(prometheus.DefaultRegisterer)

	agg := stats.New()

	pool := worker.NewPool(cfg.Workers, cfg.QueueSize, coll, agg, letters, enrich)
	pool.Start()

	registry := accesslog.NewRegistry()
	targets := discovery.Expand(cfg.Services)
	if len(targets) == 0 {
		return errors.New("no log targets resolved from config")
	}

	// Each target gets a tailer and a goroutine feeding the pool. The
	// goroutines exit when their tailer stops and closes the channel.
	var stops []func()
	var feeders sync.WaitGroup
	for _, tgt := range targets {
		parser, err := registry.Create(tgt.Format)
		if err != nil {
			return err
		}
		lines, stop, err := tailer.Follow(tgt.Path)
		if err != nil {
			log.Printf("watch: [ERR] %s: %v", tgt.Service, err)
			continue
		}
		stops = append(stops, stop)
		log.Printf("watch: [OK] %s (%s) -> %s", tgt.Service, tgt.Format, tgt.Path)

		feeders.Add(1)
		go func(tgt discovery.Target, parser accesslog.Parser, lines <-chan string) {
			defer feeders.Done()
			for line := range lines {
				pool.Submit(worker.Job{
					Service: tgt.Service,
					Format:  tgt.Format,
					Parser:  parser,
					Line:    line,
				})
			}
		}(tgt, parser, lines)
	}

	selfRec, err := recorder.NewSelfRecorder(sampleInterval)
	if err != nil {
		log.Printf("watch: resource recorder unavailable: %v", err)
	} else {
		selfRec.Register(prometheus.DefaultRegisterer)
		selfRec.Start()
	}

	mux := http.NewServeMux()
	api.NewAPI(store, agg, letters, registry).RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: cfg.Listen, Handler: mux}
	go func() {
		log.Printf("watch: HTTP server listening on %s", cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("watch: HTTP server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("watch: shutting down")

	// Tailers first, then the feeders drain, then the pool closes its
	// queue. Submitting to a stopped pool would panic.
	for _, stop := range stops {
		stop()
	}
	feeders.Wait()
	pool.Stop()
	if selfRec != nil {
		selfRec.Stop()
	}
	watchStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("watch: HTTP shutdown: %v", err)
	}
	return nil
}

// pruneLoop deletes dead letters older than the configured retention once
// an hour until the context is cancelled.
func pruneLoop(ctx context.Context, store storage.Store, retention time.Duration) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := store.Prune(retention); err != nil {
				log.Printf("watch: dead letter prune failed: %v", err)
			}
		}
	}
}
