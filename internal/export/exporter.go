package export

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Simplici0/b2b-catalog/internal/catalog"
	"github.com/Simplici0/b2b-catalog/internal/logx"
	"github.com/Simplici0/b2b-catalog/internal/money"
)

// Notice is the user-visible message for a failed export.
const Notice = "Ошибка генерации PDF. Попробуйте ещё раз."

// BusyNotice is shown when an export is requested while another one runs.
const BusyNotice = "Каталог уже формируется. Дождитесь завершения."

// ErrInProgress is returned while another export is in flight.
var ErrInProgress = errors.New("export already in progress")

// Error is a failed export run. It always carries a notice safe to show to users.
type Error struct {
	RunID uuid.UUID
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("export %s: %v", e.RunID, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Notice returns the message to show instead of the raw error.
func (e *Error) Notice() string {
	return Notice
}

// Result is a finished export.
type Result struct {
	RunID       uuid.UUID
	Filename    string
	ContentType string
	Body        []byte
	Sections    int
	Products    int
}

// Exporter runs one export at a time: build, mount, rasterize, unmount.
type Exporter struct {
	stage    Stage
	encoder  Encoder
	facility Facility
	opts     Options
	format   money.Formatter
	baseHref string
	now      func() time.Time

	busy atomic.Bool
}

// Option customizes an Exporter.
type Option func(*Exporter)

// WithClock overrides the generation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// WithFormatter overrides the price formatter.
func WithFormatter(f money.Formatter) Option {
	return func(e *Exporter) { e.format = f }
}

// WithBaseHref sets the base URL used to resolve relative image paths.
func WithBaseHref(href string) Option {
	return func(e *Exporter) { e.baseHref = href }
}

func New(stage Stage, enc Encoder, facility Facility, opts Options, options ...Option) *Exporter {
	e := &Exporter{
		stage:    stage,
		encoder:  enc,
		facility: facility,
		opts:     opts,
		format:   money.RUB(),
		now:      time.Now,
	}
	for _, o := range options {
		o(e)
	}
	return e
}

// Busy reports whether an export is currently running.
func (e *Exporter) Busy() bool {
	return e.busy.Load()
}

// Export renders the complete product list and hands it to the facility.
// The staged document is removed whether the facility succeeds or fails.
func (e *Exporter) Export(ctx context.Context, products []catalog.Product) (Result, error) {
	if !e.busy.CompareAndSwap(false, true) {
		return Result{}, ErrInProgress
	}
	defer e.busy.Store(false)

	runID := uuid.New()

	doc := BuildDocument(products, e.now(), e.format)
	doc.Options = e.opts
	doc.BaseHref = baseHref(e.baseHref)

	path, err := e.stage.Mount(doc, e.encoder)
	if err != nil {
		return Result{}, &Error{RunID: runID, Err: err}
	}
	defer func() {
		if err := e.stage.Unmount(path); err != nil {
			logx.Error().Err(err).Str("run", runID.String()).Msg("failed to remove export document")
		}
	}()

	artifact, err := e.facility.Rasterize(ctx, path, e.opts)
	if err != nil {
		logx.Warn().Err(err).Str("run", runID.String()).Msg("export facility failed")
		return Result{}, &Error{RunID: runID, Err: err}
	}

	logx.Info().Str("run", runID.String()).Int("products", doc.Total).Int("sections", len(doc.Sections)).Int("bytes", len(artifact.Body)).Msg("catalog exported")

	return Result{
		RunID:       runID,
		Filename:    e.opts.FilenameWithExt(artifact.Ext),
		ContentType: artifact.ContentType,
		Body:        artifact.Body,
		Sections:    len(doc.Sections),
		Products:    doc.Total,
	}, nil
}
