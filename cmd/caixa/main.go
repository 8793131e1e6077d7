// Package main provides the interactive point-of-sale terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/lfernandes/caixa/internal/catalog"
	"github.com/lfernandes/caixa/internal/cli"
	"github.com/lfernandes/caixa/internal/ledger"
	"github.com/lfernandes/caixa/internal/platform/config"
	"github.com/lfernandes/caixa/internal/report"
	"github.com/lfernandes/caixa/internal/storage/sqlite"
	"github.com/lfernandes/caixa/internal/telemetry"
)

type appConfig struct {
	DBPath string `env:"CAIXA_DB_PATH" envDefault:"data/caixa.db"`
	Locale string `env:"CAIXA_LOCALE" envDefault:"en-US"`
}

func main() {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		log.Fatalf("load config: %v", err)
	}

	dbPath := flag.String("db-path", cfg.DBPath, "path to the sqlite database")
	locale := flag.String("locale", cfg.Locale, "locale for number formatting")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if dir := filepath.Dir(*dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("create data dir: %v", err)
		}
	}

	store, err := sqlite.Open(*dbPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	emitter := telemetry.NewEmitter(store)
	cat := catalog.New(store, emitter)
	led := ledger.New(cat, store, emitter)
	rep := report.New(store)

	app := cli.New(cat, led, rep, os.Stdin, os.Stdout, *locale)
	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("run: %v", err)
	}
}
