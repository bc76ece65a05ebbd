// Package viewer runs an interactive catalog session.
//
// A Session owns the loaded products and the view state. Every event is applied on the
// goroutine running Run, so the state needs no locking and renders never interleave.
package viewer

import (
	"context"
	"errors"
	"time"

	"github.com/Simplici0/b2b-catalog/internal/catalog"
	"github.com/Simplici0/b2b-catalog/internal/debounce"
	"github.com/Simplici0/b2b-catalog/internal/money"
	"github.com/Simplici0/b2b-catalog/internal/view"
)

// DefaultDebounce is the quiet period applied to search input.
const DefaultDebounce = 200 * time.Millisecond

// ErrClosed is returned by calls made after Run has returned.
var ErrClosed = errors.New("viewer session closed")

// RenderFunc receives every freshly built view.
type RenderFunc func(view.Catalog)

// Snapshot is a copy of the session state.
type Snapshot struct {
	State      view.State
	Products   []catalog.Product
	Categories []string
	View       view.Catalog
}

type Session struct {
	events   chan func()
	done     chan struct{}
	debounce *debounce.Debouncer
	render   RenderFunc
	format   money.Formatter

	// owned by the Run goroutine
	products   []catalog.Product
	categories []string
	state      view.State
	current    view.Catalog
}

// Option customizes a Session.
type Option func(*Session)

// WithDebounce sets the quiet period for search input.
func WithDebounce(d time.Duration) Option {
	return func(s *Session) { s.debounce = debounce.New(d) }
}

// WithFormatter overrides the price formatter.
func WithFormatter(f money.Formatter) Option {
	return func(s *Session) { s.format = f }
}

// New creates a session over a successfully loaded product list.
func New(products []catalog.Product, render RenderFunc, opts ...Option) *Session {
	s := &Session{
		events:   make(chan func()),
		done:     make(chan struct{}),
		debounce: debounce.New(DefaultDebounce),
		render:   render,
		format:   money.RUB(),
	}
	for _, o := range opts {
		o(s)
	}
	s.load(products)
	return s
}

func (s *Session) load(products []catalog.Product) {
	s.products = products
	s.categories = catalog.Categories(products)
	s.state = view.State{}
}

// Run renders the initial view and applies events until ctx is done.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)
	defer s.debounce.Stop()

	s.apply()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-s.events:
			ev()
		}
	}
}

func (s *Session) apply() {
	s.current = view.Apply(s.products, s.state, s.format)
	if s.render != nil {
		s.render(s.current)
	}
}

func (s *Session) send(ev func()) error {
	select {
	case s.events <- ev:
		return nil
	case <-s.done:
		return ErrClosed
	}
}

// Input records the search text and filters once typing has paused.
func (s *Session) Input(text string) error {
	return s.send(func() {
		s.state.Query = text
		if s.debounce.Delay() <= 0 {
			s.apply()
			return
		}
		s.debounce.Trigger(func() {
			_ = s.send(s.apply)
		})
	})
}

// SelectCategory filters by category immediately. An empty category selects all.
// A pending search pass is folded into this one.
func (s *Session) SelectCategory(category string) error {
	return s.send(func() {
		s.debounce.Stop()
		s.state.Category = category
		s.apply()
	})
}

// Toggle expands the card id, collapsing the previously expanded one.
func (s *Session) Toggle(id catalog.ID) error {
	return s.send(func() {
		s.state = s.state.Toggle(id)
		s.apply()
	})
}

// Replace swaps in a freshly loaded product list with a new state.
func (s *Session) Replace(products []catalog.Product) error {
	return s.send(func() {
		s.debounce.Stop()
		s.load(products)
		s.apply()
	})
}

// Snapshot returns a copy of the current state and view.
func (s *Session) Snapshot(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	err := s.send(func() {
		reply <- Snapshot{
			State:      s.state,
			Products:   s.products,
			Categories: append([]string(nil), s.categories...),
			View:       s.current,
		}
	})
	if err != nil {
		return Snapshot{}, err
	}

	select {
	case snap := <-reply:
		return snap, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}
