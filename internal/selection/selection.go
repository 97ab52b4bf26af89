// Package selection keeps the form side and the document side of a review in
// step: at most one field is highlighted, and selecting a field brings its page
// into view.
package selection

import (
	"log/slog"
	"sync"

	"github.com/jackzampolin/provlink/internal/metrics"
	"github.com/jackzampolin/provlink/internal/provenance"
	"github.com/jackzampolin/provlink/internal/resolver"
)

// OutcomeCleared is recorded when a selection is explicitly cleared.
const OutcomeCleared = "cleared"

// PageRequester is the part of the viewport selection drives.
type PageRequester interface {
	GoToPage(page int) bool
}

// Options configures a Controller.
type Options struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// Controller owns the single active highlight.
type Controller struct {
	// nav orders selections end to end: resolve, set and the page request of one
	// selection complete before the next begins.
	nav sync.Mutex

	mu        sync.Mutex
	store     *provenance.Store
	active    *provenance.HighlightTarget
	viewport  PageRequester
	listeners []func(*provenance.HighlightTarget)

	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New creates a controller over an empty provenance store.
func New(viewport PageRequester, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Controller{
		store:    provenance.Empty(),
		viewport: viewport,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
	}
}

// OnChange registers a listener called with a copy of the new active target, or
// nil when the highlight is cleared.
func (c *Controller) OnChange(fn func(*provenance.HighlightTarget)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// SelectField resolves fieldName in form and makes it the only highlight. When
// the target sits on another page the viewport is asked to go there. A field
// with no provenance clears the highlight and leaves the page alone.
func (c *Controller) SelectField(fieldName string, form resolver.FormRef) (*provenance.HighlightTarget, resolver.Outcome) {
	c.nav.Lock()
	c.mu.Lock()
	target, outcome := resolver.ResolveWithOutcome(c.store.Forms(), fieldName, form)
	c.active = target
	snap := target.Clone()
	c.mu.Unlock()

	if target != nil && target.PageNumber > 0 && c.viewport != nil {
		c.viewport.GoToPage(target.PageNumber)
	}
	c.nav.Unlock()

	c.metrics.IncrementSelection(string(outcome))
	c.logger.Debug("field selected", "field", fieldName, "form", form.FormType, "outcome", outcome)
	c.notify(snap)
	return snap, outcome
}

// ClearHighlight removes the active highlight. The viewport is not touched.
func (c *Controller) ClearHighlight() {
	c.nav.Lock()
	c.mu.Lock()
	had := c.active != nil
	c.active = nil
	c.mu.Unlock()
	c.nav.Unlock()

	if had {
		c.metrics.IncrementSelection(OutcomeCleared)
		c.notify(nil)
	}
}

// SwitchDocument replaces the provenance store. The previous highlight belongs
// to the previous document; it is cleared in the same step the new store becomes
// visible, so no selection can resolve against one and land on the other.
func (c *Controller) SwitchDocument(store *provenance.Store) {
	if store == nil {
		store = provenance.Empty()
	}
	c.nav.Lock()
	c.mu.Lock()
	had := c.active != nil
	c.active = nil
	c.store = store
	c.mu.Unlock()
	c.nav.Unlock()

	if had {
		c.metrics.IncrementSelection(OutcomeCleared)
		c.notify(nil)
	}
}

// Active returns a copy of the active target, or nil.
func (c *Controller) Active() *provenance.HighlightTarget {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active.Clone()
}

// Store returns the current provenance store.
func (c *Controller) Store() *provenance.Store {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store
}

func (c *Controller) notify(t *provenance.HighlightTarget) {
	c.mu.Lock()
	listeners := make([]func(*provenance.HighlightTarget), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(t.Clone())
	}
}
