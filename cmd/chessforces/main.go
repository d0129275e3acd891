package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	appcfg "github.com/dnspavankumar/Chessforces/internal/config"
	"github.com/dnspavankumar/Chessforces/internal/game"
	"github.com/dnspavankumar/Chessforces/internal/msgcat"
	"github.com/dnspavankumar/Chessforces/internal/obslog"
	"github.com/dnspavankumar/Chessforces/internal/render"
	"github.com/dnspavankumar/Chessforces/internal/server"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}

	store, closeStore, err := selectStore(cfg)
	if err != nil {
		log.Fatalf("store init error: %v", err)
	}
	defer closeStore()

	catalog, err := msgcat.New(cfg.MsgcatDir)
	if err != nil {
		log.Fatalf("message catalog error: %v", err)
	}

	manager := game.NewManager(store, time.Duration(cfg.SessionTTLSec)*time.Second)
	srv := server.New(manager, render.NewSVGBoardRenderer(), catalog, cfg.CookieName)

	httpServer := &fasthttp.Server{
		Handler:      srv.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		obslog.L().Info("server_listen", zap.String("addr", cfg.ListenAddr))
		if err := httpServer.ListenAndServe(cfg.ListenAddr); err != nil {
			obslog.L().Fatal("server_error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	obslog.L().Info("server_shutdown")
	_ = httpServer.Shutdown()
}

// selectStore picks the storage backend once at startup: Redis when
// configured, else Postgres, else the in-process map for development.
func selectStore(cfg *appcfg.AppConfig) (game.SessionStore, func(), error) {
	if cfg.RedisURL != "" {
		s, err := game.NewRedisStore(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		obslog.L().Info("store_selected", zap.String("backend", "redis"))
		return s, func() { _ = s.Close() }, nil
	}
	if cfg.DatabaseURL != "" {
		s, err := game.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		obslog.L().Info("store_selected", zap.String("backend", "postgres"))
		return s, func() { _ = s.Close() }, nil
	}
	obslog.L().Warn("store_selected", zap.String("backend", "memory"),
		zap.String("note", "sessions are lost on restart; set REDIS_URL or DATABASE_URL"))
	return game.NewMemoryStore(), func() {}, nil
}
