package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Simplici0/b2b-catalog/internal/build"
	"github.com/Simplici0/b2b-catalog/internal/catalog"
	"github.com/Simplici0/b2b-catalog/internal/export"
	"github.com/Simplici0/b2b-catalog/internal/logx"
	"github.com/Simplici0/b2b-catalog/internal/money"
	"github.com/Simplici0/b2b-catalog/internal/view"
	"github.com/Simplici0/b2b-catalog/web"
)

type server struct {
	source    catalog.Source
	exporter  *export.Exporter
	format    money.Formatter
	page      *template.Template
	staticDir string

	state atomic.Pointer[catalogState]
}

// catalogState is one loaded catalog. It is replaced as a whole and never mutated.
type catalogState struct {
	Products   []catalog.Product
	Categories []string
	Err        error
	LoadedAt   time.Time
}

type baseViewData struct {
	ErrorMessage   string
	SuccessMessage string
}

type catalogViewData struct {
	baseViewData
	LoadError    string
	State        view.State
	Categories   []string
	ExportBusy   bool
	Catalog      view.Catalog
	EmptyMessage string
	HitBadge     string
	BestBadge    string
}

type apiCatalog struct {
	State   view.State   `json:"state"`
	Catalog view.Catalog `json:"catalog"`
}

type apiError struct {
	Error string `json:"error"`
}

func newServer(src catalog.Source, exporter *export.Exporter, staticDir string) (*server, error) {
	page, err := web.ParsePage("catalog.html")
	if err != nil {
		return nil, err
	}
	return &server{
		source:    src,
		exporter:  exporter,
		format:    money.RUB(),
		page:      page,
		staticDir: staticDir,
	}, nil
}

// reload fetches the catalog and swaps it in. A failed reload keeps the previously loaded
// catalog, a failed first load leaves the server in the load error state.
func (s *server) reload(ctx context.Context) {
	products, err := catalog.Load(ctx, s.source)
	if err != nil {
		if prev := s.state.Load(); prev != nil && prev.Err == nil {
			logx.Error().Err(err).Msg("catalog reload failed, keeping previous catalog")
			return
		}
		logx.Error().Err(err).Msg("catalog load failed")
		s.state.Store(&catalogState{Err: err, LoadedAt: time.Now()})
		return
	}

	st := &catalogState{
		Products:   products,
		Categories: catalog.Categories(products),
		LoadedAt:   time.Now(),
	}
	s.state.Store(st)
	logx.Info().Int("products", len(st.Products)).Int("categories", len(st.Categories)).Msg("catalog loaded")
}

func (s *server) current() *catalogState {
	if st := s.state.Load(); st != nil {
		return st
	}
	return &catalogState{Err: catalog.ErrLoad}
}

func stateFromRequest(r *http.Request) view.State {
	q := r.URL.Query()
	return view.State{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		Expanded: catalog.ID(q.Get("open")),
	}
}

func (s *server) catalogData(r *http.Request) (catalogViewData, int) {
	st := s.current()
	if st.Err != nil {
		return catalogViewData{LoadError: view.LoadErrorMessage}, http.StatusServiceUnavailable
	}

	vs := stateFromRequest(r)
	return catalogViewData{
		State:        vs,
		Categories:   st.Categories,
		ExportBusy:   s.exporter.Busy(),
		Catalog:      view.Apply(st.Products, vs, s.format),
		EmptyMessage: view.EmptyMessage,
		HitBadge:     view.HitBadge,
		BestBadge:    view.BestBadge,
	}, http.StatusOK
}

func (s *server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	data, status := s.catalogData(r)
	s.renderTemplate(w, status, data)
}

func (s *server) handleExport(w http.ResponseWriter, r *http.Request) {
	st := s.current()
	if st.Err != nil {
		s.renderTemplate(w, http.StatusServiceUnavailable, catalogViewData{LoadError: view.LoadErrorMessage})
		return
	}

	res, err := s.exporter.Export(r.Context(), st.Products)
	if err != nil {
		data, _ := s.catalogData(r)
		var exportErr *export.Error
		switch {
		case errors.Is(err, export.ErrInProgress):
			data.ErrorMessage = export.BusyNotice
			s.renderTemplate(w, http.StatusConflict, data)
		case errors.As(err, &exportErr):
			data.ErrorMessage = exportErr.Notice()
			s.renderTemplate(w, http.StatusBadGateway, data)
		default:
			data.ErrorMessage = export.Notice
			s.renderTemplate(w, http.StatusInternalServerError, data)
		}
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Body)))
	w.Header().Set("X-Export-Run", res.RunID.String())
	if _, err := w.Write(res.Body); err != nil {
		logx.Warn().Err(err).Str("run", res.RunID.String()).Msg("failed to send export")
	}
}

func (s *server) handleAPICatalog(w http.ResponseWriter, r *http.Request) {
	st := s.current()
	if st.Err != nil {
		writeJSON(w, http.StatusServiceUnavailable, apiError{Error: view.LoadErrorMessage})
		return
	}

	vs := stateFromRequest(r)
	writeJSON(w, http.StatusOK, apiCatalog{State: vs, Catalog: view.Apply(st.Products, vs, s.format)})
}

func (s *server) handleAPICategories(w http.ResponseWriter, r *http.Request) {
	st := s.current()
	if st.Err != nil {
		writeJSON(w, http.StatusServiceUnavailable, apiError{Error: view.LoadErrorMessage})
		return
	}
	categories := st.Categories
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *server) handleManifest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/manifest+json")
	http.ServeFileFS(w, r, web.Static(), "manifest.json")
}

func (s *server) handleIcon(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(s.staticDir, name))
	}
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *server) renderTemplate(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := s.page.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		logx.Error().Err(err).Msg("failed to render template")
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		logx.Warn().Err(err).Msg("failed to write json response")
	}
}

func iconFiles() []string {
	names := make([]string, 0, len(build.IconSizes))
	for _, size := range build.IconSizes {
		names = append(names, fmt.Sprintf("icon-%d.svg", size))
	}
	return names
}

func cacheFor(d time.Duration) func(http.Handler) http.Handler {
	value := fmt.Sprintf("public, max-age=%d", int(d.Seconds()))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", value)
			next.ServeHTTP(w, r)
		})
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		logx.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}
