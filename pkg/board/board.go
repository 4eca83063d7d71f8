// Package board is the variable manager view: one scope at a time, the
// message scope grouped by floor and every other scope as a flat list.
package board

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-variables/pkg/card"
	"github.com/mattsolo1/grove-variables/pkg/floor"
	"github.com/mattsolo1/grove-variables/pkg/models"
)

const (
	MsgNoVariables  = "No variables"
	MsgInvalidFloor = "enter valid floor numbers"
	MsgMaxBelowMin  = "max floor cannot be less than min floor"
)

// DefaultWindow is how many floors below the last one the floor view opens with.
const DefaultWindow = 4

// Source is the variable store the board reads from.
type Source interface {
	floor.Store
	ScopeVariables(ctx context.Context, scope models.Scope) (map[string]any, error)
	LastFloor(ctx context.Context) (int, error)
}

// Surface is where the board draws. Scroll offsets are saved before each
// refresh and restored after it unless the refresh was superseded.
type Surface interface {
	floor.Surface
	ScrollOffset() int
	SetScrollOffset(offset int)
}

// Board tracks the active scope and floor range.
type Board struct {
	surface  Surface
	source   Source
	filter   floor.FilterSource
	pipeline *floor.Pipeline
	window   int
	logger   *logrus.Entry
	cardOpts []card.Option

	mu       sync.Mutex
	scope    models.Scope
	min, max floor.Bound
}

// Option configures a Board.
type Option func(*Board)

// WithFilter sets the filter state shared by both views.
func WithFilter(f floor.FilterSource) Option {
	return func(b *Board) { b.filter = f }
}

// WithWindow sets how many floors the default range spans below the last.
func WithWindow(n int) Option {
	return func(b *Board) { b.window = n }
}

// WithLogger sets the logger.
func WithLogger(l *logrus.Entry) Option {
	return func(b *Board) { b.logger = l }
}

// WithCardOptions sets the options card trees are created with.
func WithCardOptions(opts ...card.Option) Option {
	return func(b *Board) { b.cardOpts = append(b.cardOpts, opts...) }
}

// New creates a board showing the global scope.
func New(surface Surface, source Source, opts ...Option) *Board {
	b := &Board{
		surface: surface,
		source:  source,
		window:  DefaultWindow,
		scope:   models.ScopeGlobal,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.filter == nil {
		b.filter = floor.StaticFilter(floor.DefaultFilter())
	}
	if b.logger == nil {
		b.logger = logrus.NewEntry(logrus.New())
	}
	b.logger = b.logger.WithField("component", "board")

	popts := []floor.Option{
		floor.WithFilter(b.filter),
		floor.WithLogger(b.logger),
		floor.WithCardOptions(b.cardOpts...),
	}
	if source != nil {
		popts = append(popts, floor.WithStore(source))
	}
	b.pipeline = floor.New(surface, popts...)
	return b
}

// Scope returns the active scope.
func (b *Board) Scope() models.Scope {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.scope
}

// Range returns the floor range of the message scope.
func (b *Board) Range() (min, max floor.Bound) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.min, b.max
}

// ActivateScope switches scope and refreshes. Entering the message scope
// for the first time opens the range on the last few floors.
func (b *Board) ActivateScope(ctx context.Context, scope models.Scope) floor.Result {
	b.mu.Lock()
	b.scope = scope
	needRange := scope == models.ScopeMessage && (!b.min.Set || !b.max.Set)
	b.mu.Unlock()

	if needRange && b.source != nil {
		last, err := b.source.LastFloor(ctx)
		if err != nil {
			b.logger.WithError(err).Warn("failed to read last floor")
			last = 0
		}
		min, max := floor.DefaultRange(last, b.window)
		b.mu.Lock()
		b.min, b.max = min, max
		b.mu.Unlock()
	}
	return b.Refresh(ctx)
}

// SetRange validates the typed floor range. It returns a message for the
// user when the range is rejected, or "" once the range is applied.
func (b *Board) SetRange(minText, maxText string) string {
	min, max := floor.ParseBound(minText), floor.ParseBound(maxText)
	if !min.Set || !max.Set || min.Value < 0 || max.Value < 0 {
		return MsgInvalidFloor
	}
	if max.Value < min.Value {
		return MsgMaxBelowMin
	}
	b.mu.Lock()
	b.min, b.max = min, max
	b.mu.Unlock()
	return ""
}

// Refresh redraws the active scope.
func (b *Board) Refresh(ctx context.Context) floor.Result {
	offset := b.surface.ScrollOffset()

	b.mu.Lock()
	scope, min, max := b.scope, b.min, b.max
	b.mu.Unlock()

	var res floor.Result
	if scope == models.ScopeMessage {
		res = b.pipeline.Render(ctx, min, max)
	} else {
		res = b.renderList(ctx, scope)
	}
	if !res.Cancelled {
		b.surface.SetScrollOffset(offset)
	}
	return res
}

func (b *Board) renderList(ctx context.Context, scope models.Scope) floor.Result {
	ticket := b.pipeline.Reserve()
	if b.source == nil {
		if !ticket.Publish(ctx, func() { b.surface.ShowError(floor.ErrNoStore) }) {
			return floor.Result{Cancelled: true}
		}
		return floor.Result{Err: floor.ErrNoStore}
	}

	vars, err := b.source.ScopeVariables(ctx, scope)
	if err != nil {
		b.logger.WithError(err).WithField("scope", string(scope)).Error("failed to load variables")
		if !ticket.Publish(ctx, func() { b.surface.ShowError(err) }) {
			return floor.Result{Cancelled: true}
		}
		return floor.Result{Err: err}
	}

	filter := b.filter.Filter()
	tree := card.New(b.cardOpts...)
	panel := &floor.Panel{Floor: floor.ListFloor, Title: string(scope), Expanded: true}
	for _, item := range scopeItems(scope, vars) {
		ok, err := filter.Match(floor.ListFloor, item)
		if err != nil {
			b.logger.WithError(err).Warn("filter failed, hiding variable")
			continue
		}
		if ok {
			panel.Cards = append(panel.Cards, tree.Build(item, false).ID())
		}
	}
	view := &floor.View{Cards: tree, Panels: []*floor.Panel{panel}}

	ok := ticket.Publish(ctx, func() {
		if len(panel.Cards) == 0 {
			b.surface.ShowEmpty(floor.EmptyNoVariables, MsgNoVariables)
			return
		}
		b.surface.Commit(view)
	})
	return floor.Result{Cancelled: !ok}
}

func scopeItems(scope models.Scope, vars map[string]any) []models.VariableItem {
	items := floor.Items(0, vars)
	for i := range items {
		items[i].ID = string(scope) + "/" + items[i].Name
	}
	return items
}
