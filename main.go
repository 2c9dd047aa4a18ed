package main

import (
	"context"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/snuttools/snutt-proxy/lib"
	"github.com/snuttools/snutt-proxy/lib/config"
	"github.com/snuttools/snutt-proxy/lib/freerooms"
	"github.com/snuttools/snutt-proxy/lib/lecturecache"
	"github.com/snuttools/snutt-proxy/lib/logging"
	"github.com/snuttools/snutt-proxy/lib/metrics"
	"github.com/snuttools/snutt-proxy/lib/prewarm"
	"github.com/snuttools/snutt-proxy/lib/ratelimit"
	"github.com/snuttools/snutt-proxy/lib/snutt"
)

func startProfileServer(logger *logrus.Entry) {
	logger.Info("Profiling endpoints loaded on :7654")
	_ = http.ListenAndServe(":7654", nil)
}

func main() {
	cfg := config.Parse()

	logging.AddHook(&logging.RedactHook{Token: cfg.AccessToken})
	logger := logging.GetLogger("main")

	if cfg.APIKey == "" || cfg.AccessToken == "" {
		logger.Warn("SNUTT credentials missing, requests will fail until SNUTT_API_KEY and SNUTT_ACCESS_TOKEN are set")
	}

	if cfg.EnablePProf {
		go startProfileServer(logger)
	}

	if cfg.EnableMetrics {
		go metrics.StartMetrics(cfg.BindIP + ":" + cfg.MetricsPort)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := snutt.NewClient(snutt.ClientConfig{
		BaseURL:     cfg.UpstreamBase,
		APIKey:      cfg.APIKey,
		AccessToken: cfg.AccessToken,
		Timeout:     cfg.RequestTimeout,
		PageSize:    cfg.PageSize,
		MaxPages:    cfg.MaxPages,
	})

	lectures := lecturecache.New(ctx, client, cfg.UpstreamBase, cfg.CacheTTL)
	limiter := ratelimit.New(cfg.RateMax, cfg.RateWindow)
	rooms := freerooms.New(lectures, cfg.FreeRoomTTL)

	if len(cfg.PrewarmTargets) > 0 {
		warmer := prewarm.New(lectures, cfg.PrewarmTargets, cfg.PrewarmSchedule)
		if err := warmer.Start(); err != nil {
			logger.Panic(err)
		}
		defer warmer.Stop()
	}

	handler := lib.NewHttpHandler(lectures, rooms, limiter)

	go func() {
		if err := handler.Start(); err != nil && err != http.ErrServerClosed {
			logger.Panic(err)
		}
	}()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
	<-sc

	logger.Info("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := handler.Shutdown(shutdownCtx); err != nil {
		logger.Error(err)
	}
}
