// Package floor renders variables grouped by floor into collapsible panels.
// Renders may overlap; only the most recently issued one ever reaches the
// Surface.
package floor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-variables/pkg/card"
	"github.com/mattsolo1/grove-variables/pkg/models"
	"github.com/mattsolo1/grove-variables/pkg/value"
)

// ErrNoStore is shown when a render runs without a variable store.
var ErrNoStore = errors.New("variable store not found")

// Store returns the variables recorded on one floor, untyped.
type Store interface {
	FloorVariables(ctx context.Context, floor int) (map[string]any, error)
}

// Pipeline renders floor ranges onto a Surface.
type Pipeline struct {
	surface  Surface
	store    Store
	filter   FilterSource
	logger   *logrus.Entry
	cardOpts []card.Option

	maxSpan int

	mu     sync.Mutex
	latest uint64
}

// DefaultMaxSpan is the widest floor range a render accepts.
const DefaultMaxSpan = 10000

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithStore sets the variable store.
func WithStore(s Store) Option {
	return func(p *Pipeline) { p.store = s }
}

// WithFilter sets where the filter state is read from.
func WithFilter(f FilterSource) Option {
	return func(p *Pipeline) { p.filter = f }
}

// WithLogger sets the logger.
func WithLogger(l *logrus.Entry) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithCardOptions sets the options every render's card tree is created with.
func WithCardOptions(opts ...card.Option) Option {
	return func(p *Pipeline) { p.cardOpts = append(p.cardOpts, opts...) }
}

// WithMaxSpan caps how many floors one render may walk.
func WithMaxSpan(n int) Option {
	return func(p *Pipeline) { p.maxSpan = n }
}

// New creates a pipeline that renders onto surface.
func New(surface Surface, opts ...Option) *Pipeline {
	p := &Pipeline{surface: surface, maxSpan: DefaultMaxSpan}
	for _, opt := range opts {
		opt(p)
	}
	if p.maxSpan <= 0 {
		p.maxSpan = DefaultMaxSpan
	}
	if p.filter == nil {
		p.filter = StaticFilter(DefaultFilter())
	}
	if p.logger == nil {
		p.logger = logrus.NewEntry(logrus.New())
	}
	p.logger = p.logger.WithField("component", "floor")
	return p
}

// SetStore replaces the variable store used by later renders.
func (p *Pipeline) SetStore(s Store) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.store = s
}

func (p *Pipeline) issue() (uint64, Store) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.latest++
	return p.latest, p.store
}

func (p *Pipeline) current(ctx context.Context, token uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return token == p.latest && ctx.Err() == nil
}

// publish runs fn only if token is still the latest issued render. The check
// and fn run under one lock so a newer render cannot be issued in between.
func (p *Pipeline) publish(ctx context.Context, token uint64, fn func()) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if token != p.latest || ctx.Err() != nil {
		return false
	}
	fn()
	return true
}

// Ticket is a render slot taken outside Render, for views that share the
// Surface with the floor view but are drawn by the caller.
type Ticket struct {
	p     *Pipeline
	token uint64
}

// Reserve supersedes every render issued so far and returns a ticket that
// stays current until the next Render or Reserve.
func (p *Pipeline) Reserve() Ticket {
	token, _ := p.issue()
	return Ticket{p: p, token: token}
}

// Current reports whether the ticket is still the latest.
func (t Ticket) Current(ctx context.Context) bool {
	return t.p.current(ctx, t.token)
}

// Publish runs fn if the ticket is still the latest.
func (t Ticket) Publish(ctx context.Context, fn func()) bool {
	return t.p.publish(ctx, t.token, fn)
}

var cancelled = Result{Cancelled: true}

// Render shows the floors from max down to min. It supersedes every render
// issued before it; a superseded render returns a cancelled Result and makes
// no further calls on the Surface. Cancelling ctx has the same effect.
func (p *Pipeline) Render(ctx context.Context, min, max Bound) Result {
	token, store := p.issue()
	logger := p.logger.WithFields(logrus.Fields{"render": token, "min": min.String(), "max": max.String()})

	if !p.current(ctx, token) {
		return cancelled
	}
	if store == nil {
		logger.WithError(ErrNoStore).Error("failed to render floor variables")
		if !p.publish(ctx, token, func() { p.surface.ShowError(ErrNoStore) }) {
			return cancelled
		}
		return Result{Err: ErrNoStore}
	}

	if !min.Set || !max.Set {
		return p.empty(ctx, token, EmptyInvalidRange, MsgInvalidRange)
	}
	if max.Value < min.Value {
		return p.empty(ctx, token, EmptyInvalidRange, MsgEmptyRange)
	}

	if !p.current(ctx, token) {
		return cancelled
	}

	if max.Value-min.Value < 0 || max.Value-min.Value >= p.maxSpan {
		// the first test catches ranges whose width overflows int
		return p.empty(ctx, token, EmptyInvalidRange, fmt.Sprintf(MsgRangeTooWide, p.maxSpan))
	}

	type floorItems struct {
		floor int
		items []models.VariableItem
	}
	var kept []floorItems

	filter := p.filter.Filter()
	for f := max.Value; ; f-- {
		vars, err := store.FloorVariables(ctx, f)
		if !p.current(ctx, token) {
			logger.WithField("floor", f).Debug("render superseded")
			return cancelled
		}
		if err != nil {
			logger.WithError(err).WithField("floor", f).Warn("failed to fetch floor variables")
		} else if items := p.apply(logger, filter, f, vars); len(items) > 0 {
			kept = append(kept, floorItems{floor: f, items: items})
		}
		if f == min.Value {
			break
		}
	}

	tree := card.New(p.cardOpts...)
	view := &View{Cards: tree}
	for _, k := range kept {
		if !p.current(ctx, token) {
			return cancelled
		}
		panel := newPanel(k.floor)
		for _, item := range k.items {
			panel.Cards = append(panel.Cards, tree.Build(item, false).ID())
		}
		view.Panels = append(view.Panels, panel)
	}
	// Panels are in descending floor order, so the first is the newest.
	if len(view.Panels) > 0 {
		view.Panels[0].Expanded = true
	}

	ok := p.publish(ctx, token, func() {
		if len(view.Panels) == 0 {
			p.surface.ShowEmpty(EmptyNoVariables, MsgNoVariables)
			return
		}
		p.surface.Commit(view)
	})
	if !ok {
		return cancelled
	}
	logger.WithFields(logrus.Fields{"panels": len(view.Panels), "cards": view.Len()}).Debug("rendered floor variables")
	return Result{}
}

func (p *Pipeline) empty(ctx context.Context, token uint64, reason EmptyReason, msg string) Result {
	if !p.publish(ctx, token, func() { p.surface.ShowEmpty(reason, msg) }) {
		return cancelled
	}
	return Result{}
}

func (p *Pipeline) apply(logger *logrus.Entry, filter Filter, floor int, vars map[string]any) []models.VariableItem {
	var out []models.VariableItem
	for _, item := range Items(floor, vars) {
		ok, err := filter.Match(floor, item)
		if err != nil {
			logger.WithError(err).WithField("floor", floor).Warn("filter failed, hiding variable")
			continue
		}
		if ok {
			out = append(out, item)
		}
	}
	return out
}

// Items turns a floor's raw variables into typed items ordered by name.
func Items(floor int, vars map[string]any) []models.VariableItem {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	items := make([]models.VariableItem, 0, len(names))
	for _, name := range names {
		v := value.Normalize(vars[name])
		items = append(items, models.VariableItem{
			ID:       ItemID(floor, name),
			Name:     name,
			DataType: value.Infer(v),
			Value:    v,
		})
	}
	return items
}

// ItemID is the persisted identifier of a floor variable.
func ItemID(floor int, name string) string {
	return fmt.Sprintf("floor-%d/%s", floor, name)
}
