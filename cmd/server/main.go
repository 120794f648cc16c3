package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lysyi3m/moodlehack/app/answers"
	"github.com/lysyi3m/moodlehack/app/api"
	"github.com/lysyi3m/moodlehack/app/auth"
	"github.com/lysyi3m/moodlehack/app/cache"
	"github.com/lysyi3m/moodlehack/app/cfg"
	"github.com/lysyi3m/moodlehack/app/database"
	"github.com/lysyi3m/moodlehack/app/feed"
	"github.com/lysyi3m/moodlehack/app/i18n"
	"github.com/lysyi3m/moodlehack/app/markdown"
	"github.com/lysyi3m/moodlehack/app/server"
	"github.com/lysyi3m/moodlehack/app/web"
)

const shutdownTimeout = 30 * time.Second

func main() {
	appCfg, err := cfg.Load(os.Args[1:])
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	if err := run(appCfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(appCfg *cfg.Cfg) error {
	slog.Info("Starting moodlehack server", "version", appCfg.Version)

	if appCfg.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY is required")
	}

	db, err := database.Open(appCfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	version, _, err := database.RunMigrations(db)
	if err != nil {
		return err
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version)

	store, err := cache.NewStore(cache.Options{
		Backend:       appCfg.CacheBackend,
		RedisAddr:     appCfg.RedisAddr,
		RedisPassword: appCfg.RedisPassword,
		RedisDB:       appCfg.RedisDB,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	tag, err := i18n.Parse(appCfg.Language)
	if err != nil {
		return err
	}
	printer := i18n.NewPrinter(tag)

	site := appCfg.Site
	answerService := answers.NewService(
		database.NewAnswerRepository(db),
		database.NewCategoryRepository(db),
		database.NewPeriodRepository(db),
		answers.Paginator{
			PerPage:    site.PageSize,
			OnEachSide: site.Pagination.OnEachSide,
			OnEnds:     site.Pagination.OnEnds,
		},
	)

	tokens := auth.NewManager(appCfg.SecretKey, appCfg.SessionTTL, appCfg.TokenTTL)
	authService := auth.NewService(database.NewUserRepository(db), tokens)

	renderer := markdown.NewRenderer(store, appCfg.CacheTTL)
	generator := feed.NewGenerator(appCfg.PublicURL(), appCfg.Version, renderer, printer)

	apiHandler := api.NewHandler(answerService, authService, generator, store, printer, site, appCfg.Language)
	webHandler := web.NewHandler(answerService, authService, renderer, printer, site, web.Options{
		Language:      appCfg.Language,
		SessionTTL:    appCfg.SessionTTL,
		SecureCookies: strings.HasPrefix(appCfg.PublicURL(), "https://"),
	})

	engine, err := server.New(apiHandler, webHandler, server.Options{
		Debug:       appCfg.Debug,
		CORSOrigins: appCfg.CORSOrigins,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:         appCfg.Addr(),
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("HTTP server listening", "addr", appCfg.Addr(), "url", appCfg.PublicURL())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("moodlehack server shutdown complete")
	return nil
}
