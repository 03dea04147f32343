// Command import bulk-loads word pairs from a .csv or .xlsx file into a
// user's deck.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/wordflash/wordflash/internal/cache"
	"github.com/wordflash/wordflash/internal/config"
	"github.com/wordflash/wordflash/internal/db"
	"github.com/wordflash/wordflash/internal/logger"
	"github.com/wordflash/wordflash/internal/repository/sqlstore"
	"github.com/wordflash/wordflash/internal/services"
)

func main() {
	username := flag.String("user", "", "username to import into (created if missing)")
	path := flag.String("file", "", "path to a .csv or .xlsx file with foreign,native[,direction] rows")
	timeout := flag.Duration("timeout", time.Minute, "overall import timeout")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
	logger.SetDefault(log)

	if *username == "" || *path == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	if err := run(cfg, *username, *path, *timeout); err != nil {
		log.Error("import failed: %v", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, username, path string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	database, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	statsCache := cache.NewNoop()
	if cfg.RedisURL != "" {
		if c, err := cache.NewRedis(ctx, cfg.RedisURL); err == nil {
			statsCache = c
			defer c.Close()
		}
	}

	userRepo := sqlstore.NewUserRepository(database.DB)
	cardRepo := sqlstore.NewFlashcardRepository(database.DB)

	user, err := services.NewUserService(userRepo, statsCache).Register(ctx, username)
	if err != nil {
		return err
	}

	summary, err := services.NewImportService(cardRepo, userRepo, statsCache, nil).Import(ctx, user.ID, path, f)
	if err != nil {
		return err
	}

	fmt.Printf("user %s: %d created, %d skipped, %d errors\n", user.Username, summary.Created, summary.Skipped, len(summary.Errors))
	for _, rowErr := range summary.Errors {
		fmt.Printf("  %s\n", rowErr.Error())
	}
	return nil
}
