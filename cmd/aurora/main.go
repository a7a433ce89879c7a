package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/auroramusic/aurora/internal/config"
	"github.com/auroramusic/aurora/internal/discord"
	"github.com/auroramusic/aurora/internal/files"
	"github.com/auroramusic/aurora/internal/music/parsers"
	"github.com/auroramusic/aurora/internal/precache"
	"github.com/auroramusic/aurora/internal/storage"
	v "github.com/auroramusic/aurora/internal/version"
)

func main() {
	log.Printf("[INFO] Starting %v bot...", v.AppName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.New()

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	parsers.Configure(parsers.Settings{
		CookiesPath: cfg.CookiesPath,
		ProxyURL:    cfg.ProxyURL,
	})

	cache, err := precache.New(cfg.DownloadDir)
	if err != nil {
		log.Fatal(err)
	}

	cleaner := files.NewCleaner(cfg.DownloadDir)
	cleaner.Start()
	defer cleaner.Stop()

	errCh := make(chan error, 1)
	go func() {
		if err := discord.StartBot(ctx, cfg, store, cache); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("[INFO] Received signal %s, shutting down...", s)
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			log.Println("[ERR] Discord bot error:", err)
		}
		cancel()
	}

	log.Println("[INFO] Discord bot exited cleanly")
}
