package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gothiabil/bilgateway/completion"
	"github.com/gothiabil/bilgateway/config"
	"github.com/gothiabil/bilgateway/http_server"
	"github.com/gothiabil/bilgateway/service"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config.Init()
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if err := config.SetupLogger(cfg); err != nil {
		log.WithError(err).Fatal("invalid logger configuration")
	}
	if cfg.ResearchAPIKey == "" {
		log.Warn("RESEARCH_API_KEY is not set, /car-research will fail")
	}

	client := completion.NewClient(completion.Options{
		URL:         cfg.CompletionURL,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Timeout:     cfg.Timeout,
	})
	s := service.New(client, cfg.ResearchAPIKey, cfg.MaxInFlight)
	server := http_server.HandleRequests(s, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithFields(log.Fields{
			"port":        cfg.Port,
			"model":       cfg.Model,
			"timeout":     cfg.Timeout,
			"maxInFlight": cfg.MaxInFlight,
		}).Info("bilgateway is running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "serve http")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
