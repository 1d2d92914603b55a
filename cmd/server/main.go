package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"openai2gemini-go/internal/config"
	"openai2gemini-go/internal/constants"
	"openai2gemini-go/internal/logging"
	"openai2gemini-go/internal/publisher"
	srv "openai2gemini-go/internal/server"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	debug := flag.Bool("debug", false, "Enable debug mode")
	flag.Parse()

	cfg := config.LoadWithFile(*configPath)
	if cfg == nil {
		log.Fatal("Failed to load configuration")
	}
	if *debug {
		cfg.Debug = true
	}

	if err := logging.Setup(cfg); err != nil {
		log.WithError(err).Fatal("failed to configure logging")
	}

	log.Infof("Starting openai2gemini-go (config: %s)", *configPath)
	if len(cfg.APIKeys) == 0 {
		log.Warn("no API keys configured; inbound authentication is disabled")
	}
	if !cfg.BucketConfigured() {
		log.Warn("no upload endpoint configured; generated images will be returned as data URLs")
	}

	// Advisory only: a failed probe never blocks startup.
	probeCtx, cancelProbe := context.WithTimeout(context.Background(), constants.HealthProbeTimeout)
	publisher.New(cfg).ProbeHealth(probeCtx)
	cancelProbe()

	engine := srv.BuildEngine(cfg)
	httpSrv := &http.Server{Addr: ":" + cfg.Port, Handler: engine}

	go func() {
		log.Infof("API listening on :%s", cfg.Port)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("http server: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("Shutdown signal received")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), constants.ServerShutdownTimeout)
	defer cancelShutdown()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("graceful shutdown incomplete")
	}
	log.Info("Server stopped")
}
