package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mahdibujari75/Sampling-App/internal/bot"
	"github.com/mahdibujari75/Sampling-App/internal/config"
	"github.com/mahdibujari75/Sampling-App/internal/dialog"
	"github.com/mahdibujari75/Sampling-App/internal/domain/production"
	"github.com/mahdibujari75/Sampling-App/internal/domain/projects"
	"github.com/mahdibujari75/Sampling-App/internal/domain/render"
	"github.com/mahdibujari75/Sampling-App/internal/domain/users"
	"github.com/mahdibujari75/Sampling-App/internal/generator"
	"github.com/mahdibujari75/Sampling-App/internal/infra/db"
	httpx "github.com/mahdibujari75/Sampling-App/internal/infra/http"
	"github.com/mahdibujari75/Sampling-App/internal/infra/lock"
	"github.com/mahdibujari75/Sampling-App/internal/infra/logger"
	"github.com/mahdibujari75/Sampling-App/internal/infra/storage"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func openStore(ctx context.Context, cfg config.Config) (storage.Store, func(), error) {
	if cfg.Storage.Backend == "gcs" {
		client, err := storage.DialGCS(ctx, cfg.Storage.CredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewGCS(client, cfg.Storage.Bucket, cfg.Storage.Prefix), func() { _ = client.Close() }, nil
	}
	local, err := storage.NewLocal(cfg.Storage.Root)
	if err != nil {
		return nil, nil, err
	}
	return local, func() {}, nil
}

func openLocker(cfg config.Config, log *slog.Logger) (lock.Locker, func()) {
	if cfg.Lock.Backend == "redis" {
		rdb := lock.Dial(cfg.Lock.RedisAddr, cfg.Lock.RedisPassword, cfg.Lock.RedisDB)
		return lock.NewRedis(rdb, cfg.Lock.TTL, log), func() { _ = rdb.Close() }
	}
	return lock.NewLocal(), func() {}
}

func loadTemplate(path string) (*render.Template, error) {
	if path == "" {
		return render.DefaultTemplate()
	}
	return render.LoadTemplateFile(path)
}

func main() {
	configPath := flag.String("config", "config/example.yaml", "path to the YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)
	if cfg.App.Timezone != "" {
		if loc, err := time.LoadLocation(cfg.App.Timezone); err == nil {
			time.Local = loc
		} else {
			log.Warn("unknown timezone, using system default", "tz", cfg.App.Timezone, "err", err)
		}
	}

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Error("storage init failed", "backend", cfg.Storage.Backend, "err", err)
		return
	}
	defer closeStore()

	locker, closeLocker := openLocker(cfg, log)
	defer closeLocker()

	tmpl, err := loadTemplate(cfg.Render.Template)
	if err != nil {
		log.Error("template load failed", "path", cfg.Render.Template, "err", err)
		return
	}

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Error("telegram init failed", "err", err)
		return
	}
	log.Info("telegram authorized", "bot", api.Self.UserName)

	b := bot.New(api, log, bot.Deps{
		Users:     users.NewRepo(pool),
		States:    dialog.NewRepo(pool),
		Projects:  projects.NewRepo(pool),
		Plans:     production.NewController(production.NewRepo(pool), locker, log),
		Generator: generator.NewService(store, locker, render.NewRenderer(tmpl), log),
		AdminChat: cfg.Telegram.AdminChatID,
	})

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, pool)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	go func() {
		if err := b.Run(ctx, cfg.Telegram.TimeoutSec); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("bot stopped", "err", err)
			stop()
		}
	}()
	log.Info("bot started", "storage", cfg.Storage.Backend, "lock", cfg.Lock.Backend)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
