package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dukerupert/homestock/internal/backup"
	"github.com/dukerupert/homestock/internal/config"
	"github.com/dukerupert/homestock/internal/database"
	"github.com/dukerupert/homestock/internal/logging"
	"github.com/dukerupert/homestock/internal/server"
	"github.com/dukerupert/homestock/internal/sheet"
	"github.com/dukerupert/homestock/internal/store"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "decrypt" {
		if err := decrypt(os.Args[2:]); err != nil {
			log.Fatalf("decrypt: %v", err)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("%v", err)
	}
	logger := logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open %s store: %v", cfg.Backend, err)
	}
	defer closeStore()

	srv := server.New(sheet.WithTimeout(src, cfg.StoreTimeout), server.Options{
		Timezone: cfg.Timezone,
		Backup: backup.Config{
			Endpoint:   cfg.Backup.Endpoint,
			Bucket:     cfg.Backup.Bucket,
			Region:     cfg.Backup.Region,
			AccessKey:  cfg.Backup.AccessKey,
			SecretKey:  cfg.Backup.SecretKey,
			Passphrase: cfg.Backup.Passphrase,
			Interval:   cfg.Backup.Interval,
		},
	}, logger)

	go srv.RateLimiter().RunCleanup(ctx, 5*time.Minute)
	srv.BackupManager().Start(ctx)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.StoreTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("homestock listening", "addr", httpServer.Addr, "store", cfg.Backend)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	srv.Hub().Close()
	srv.BackupManager().Stop()
}

// openStore returns the configured backend and a func releasing it.
func openStore(ctx context.Context, cfg *config.Config) (sheet.Store, func(), error) {
	switch cfg.Backend {
	case config.BackendXLSX:
		s, err := sheet.OpenXLSX(cfg.XLSXPath, store.Layouts())
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case config.BackendSQLite:
		db, err := database.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		s := sheet.NewSQLStore(db)
		if err := s.EnsureSheets(ctx, store.Layouts()); err != nil {
			db.Close()
			return nil, nil, err
		}
		return s, func() { db.Close() }, nil
	default:
		s, err := sheet.NewGoogleStore(ctx, sheet.GoogleCredentials{
			ClientEmail:     cfg.Google.ClientEmail,
			PrivateKey:      cfg.Google.PrivateKey,
			CredentialsFile: cfg.Google.CredentialsFile,
		}, cfg.Google.SheetID)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
}

// decrypt turns an encrypted backup back into an .xlsx workbook:
//
//	homestock decrypt <in> <out>
//
// The passphrase comes from HOMESTOCK_BACKUP_PASSPHRASE.
func decrypt(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: homestock decrypt <in> <out>")
	}
	_ = godotenv.Load()
	passphrase := os.Getenv("HOMESTOCK_BACKUP_PASSPHRASE")
	if passphrase == "" {
		return fmt.Errorf("HOMESTOCK_BACKUP_PASSPHRASE is not set")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	plain, err := backup.Decrypt(data, passphrase)
	if err != nil {
		return err
	}
	return os.WriteFile(args[1], plain, 0o600)
}
