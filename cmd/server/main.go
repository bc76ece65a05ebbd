package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Simplici0/b2b-catalog/internal/catalog"
	"github.com/Simplici0/b2b-catalog/internal/config"
	"github.com/Simplici0/b2b-catalog/internal/export"
	"github.com/Simplici0/b2b-catalog/internal/logx"
	"github.com/Simplici0/b2b-catalog/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to load config")
	}
	logx.Init(cfg.Environment())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logx.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg config.Config) error {
	facility, err := export.FacilityFromConfig(cfg.Export)
	if err != nil {
		return err
	}
	exporter := export.New(
		export.TempStage{Dir: cfg.Export.StageDir},
		web.ExportEncoder{},
		facility,
		export.OptionsFromConfig(cfg.Export),
		export.WithBaseHref(cfg.Export.BaseHref),
	)

	srv, err := newServer(catalog.OpenSource(cfg.DataSource), exporter, cfg.StaticDir)
	if err != nil {
		return err
	}
	srv.reload(ctx)

	go srv.watchReload(ctx)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logx.Info().Str("addr", httpServer.Addr).Str("source", cfg.DataSource).Msg("listening")
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logx.Info().Msg("server shut down")
	return nil
}

// watchReload reloads the catalog on SIGHUP until ctx is done.
func (s *server) watchReload(ctx context.Context) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			s.reload(ctx)
		}
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.With(cacheFor(24*time.Hour)).Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(web.Static())))
	r.Get("/manifest.json", s.handleManifest)
	r.Handle("/images/*", http.FileServer(http.Dir(s.staticDir)))
	for _, name := range iconFiles() {
		r.Get("/"+name, s.handleIcon(name))
	}

	r.Get("/", s.handleCatalog)
	r.Post("/export", s.handleExport)
	r.Get("/api/catalog", s.handleAPICatalog)
	r.Get("/api/categories", s.handleAPICategories)
	r.Get("/healthz", s.handleHealth)

	return r
}
