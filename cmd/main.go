package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/MiltonKlun/TickSnap/internal/clients"
	"github.com/MiltonKlun/TickSnap/internal/config"
	"github.com/MiltonKlun/TickSnap/internal/render"
	"github.com/MiltonKlun/TickSnap/internal/repository"
	"github.com/MiltonKlun/TickSnap/internal/service"
	"github.com/MiltonKlun/TickSnap/internal/transport/rest"
	"github.com/MiltonKlun/TickSnap/internal/transport/telegram"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using system env or defaults")
	}

	cfg := config.Load()

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	if cfg.Telegram.Token == "" {
		logger.Fatal("TELEGRAM_TOKEN is not set")
	}
	if len(cfg.Telegram.AllowedUserIDs) == 0 {
		logger.Warn("ALLOWED_USER_IDS is empty, no operator will be authorized")
	}

	// top-level context which we can cancel on shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ledger, err := clients.NewSheetsClient(clients.SheetsConfig{
		CredentialsFile: cfg.Sheets.CredentialsFile,
		SpreadsheetID:   cfg.Sheets.SpreadsheetID,
		Worksheet:       cfg.Sheets.Worksheet,
	}, logger)
	if err != nil {
		logger.Fatalf("sheets client init error: %v", err)
	}

	archive, err := clients.NewArchive(cfg.Archive.Dir)
	if err != nil {
		logger.Fatalf("archive init error: %v", err)
	}

	creditRepo := repository.NewCreditRepository(ledger, logger)
	logRepo := repository.NewLogRepository(ledger, logger)

	renderer := render.NewRenderer(cfg.Receipt.FontDir, logger)
	paymentSvc := service.NewPaymentService(creditRepo, logRepo, renderer, archive, cfg.Receipt.CollectorName, logger)
	snapshotSvc := service.NewSnapshotService(ledger, archive, logger)

	bot, err := telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.AllowedUserIDs,
		creditRepo, paymentSvc, snapshotSvc, ledger, logger)
	if err != nil {
		logger.Fatalf("telegram bot init error: %v", err)
	}

	handler := rest.NewHandler(ledger, logger)
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      handler.InitRouter(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		logger.Infof("health server listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			srvErr <- err
			return
		}
		srvErr <- nil
	}()

	go bot.Run(ctx)

	// periodically drop archived receipts/snapshots past their TTL
	go func() {
		ttl := time.Duration(cfg.Archive.TTLMinutes) * time.Minute
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := archive.CleanupOlderThan(ttl); err != nil {
					logger.WithError(err).Warn("archive cleanup error")
				}
			}
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-srvErr:
		if err != nil {
			logger.Fatalf("health server error: %v", err)
		}
	case sig := <-stop:
		logger.Infof("shutdown signal received: %v", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("health server shutdown error")
		}

		// cancel top-level context so the bot poller and cleaner stop
		cancel()

		logger.Info("shutdown complete")
	}
}
