// Command docsearchd serves the document search gateway's HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"docsearch-gateway/internal/docsearch/cache"
	"docsearch-gateway/internal/docsearch/config"
	"docsearch-gateway/internal/docsearch/httpapi"
	"docsearch-gateway/internal/docsearch/obs"
	"docsearch-gateway/internal/docsearch/storage"
	"docsearch-gateway/internal/docsearch/tokenizer"
	"docsearch-gateway/internal/docsearch/usecase"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config.yaml")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	obs.InitLogger(cfg.Logging.Path, cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := obs.InitOTel(ctx, cfg.OTel)
	if err != nil {
		log.Fatal().Err(err).Msg("init otel")
	}
	defer shutdownOTel(context.Background())

	backingStore, err := storage.NewClient(storage.Config{
		Addresses:          cfg.BackingStore.Addresses,
		Username:           cfg.BackingStore.Username,
		Password:           cfg.BackingStore.Password,
		InsecureSkipVerify: cfg.BackingStore.InsecureSkipVerify,
		DefaultModelID:     cfg.BackingStore.DefaultModelID,
		NumberOfShards:     cfg.BackingStore.NumberOfShards,
		NumberOfReplicas:   cfg.BackingStore.NumberOfReplicas,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect to backing store")
	}

	resultCache, err := cache.New(cache.Config{
		Enabled:               cfg.Redis.Enabled,
		Addr:                  cfg.Redis.Addr,
		Password:              cfg.Redis.Password,
		DB:                    cfg.Redis.DB,
		TLSInsecureSkipVerify: cfg.Redis.TLSInsecureSkipVerify,
		TTL:                   cfg.Redis.TTL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect to cache")
	}
	if resultCache != nil {
		defer resultCache.Close()
	}

	tokenizerClient := tokenizer.NewClient(cfg.Tokenizer.URL, cfg.Tokenizer.Timeout)

	opts := []usecase.Option{
		usecase.WithLogger(obs.ZerologLogger{}),
		usecase.WithMetrics(obs.NewOtelMetrics()),
		usecase.WithMaxContentSize(cfg.BackingStore.MaxContentSize),
		usecase.WithTokenizer(tokenizerClient),
	}
	if resultCache != nil {
		opts = append(opts, usecase.WithCache(resultCache))
	}
	service := usecase.New(backingStore, opts...)

	server := httpapi.NewServer(service)
	addr := fmt.Sprintf("%s:%d", cfg.Service.Host, cfg.Service.Port)
	httpServer := &http.Server{Addr: addr, Handler: server}

	go func() {
		log.Info().Str("addr", addr).Msg("docsearchd listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	} else {
		log.Info().Msg("docsearchd stopped")
	}
}
