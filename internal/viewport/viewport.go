// Package viewport owns the page, zoom and load lifecycle of the document being
// reviewed. Every asynchronous result (document load, page render) is tagged with
// the generation that requested it and is dropped if a newer request has since
// been issued.
package viewport

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
)

// LoadState is the document load lifecycle.
type LoadState int

const (
	Idle LoadState = iota
	Loading
	Ready
	Failed
)

func (s LoadState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("LoadState(%d)", int(s))
	}
}

// MarshalText renders the state name in JSON and YAML output.
func (s LoadState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name.
func (s *LoadState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "idle":
		*s = Idle
	case "loading":
		*s = Loading
	case "ready":
		*s = Ready
	case "failed":
		*s = Failed
	default:
		return fmt.Errorf("unknown load state %q", b)
	}
	return nil
}

// Zoom limits. Zoom moves in fixed steps between MinZoom and MaxZoom.
const (
	MinZoom     = 0.5
	MaxZoom     = 3.0
	ZoomStep    = 0.25
	DefaultZoom = 1.0
)

// State is a snapshot of the viewport.
type State struct {
	DocumentID   string    `json:"documentId"`
	Generation   uint64    `json:"generation"`
	LoadState    LoadState `json:"loadState"`
	PageNumber   int       `json:"pageNumber"`
	PageCount    int       `json:"pageCount"`
	Zoom         float64   `json:"zoom"`
	PageWidthPx  float64   `json:"pageWidthPx"`
	PageHeightPx float64   `json:"pageHeightPx"`
	Error        string    `json:"error,omitempty"`
}

// DimsKnown reports whether the current page has been rendered at least once.
// Overlay geometry must not be computed until it has.
func (s State) DimsKnown() bool {
	return s.PageWidthPx > 0 && s.PageHeightPx > 0
}

// RenderToken identifies one page render request.
type RenderToken struct {
	Generation uint64 `json:"generation"`
	Page       int    `json:"page"`
	Seq        uint64 `json:"seq"`
}

type dims struct {
	width, height float64
}

// Options configures a Controller.
type Options struct {
	Logger *slog.Logger
	// OnStale is called with "load" or "render" when a stale result is dropped.
	OnStale func(kind string)
}

// Controller is the viewport state machine:
//
//	Idle    -> Loading  Begin
//	Loading -> Ready    Complete (current generation only)
//	Loading -> Failed   Fail (current generation only)
//	Failed  -> Loading  Retry
//	Ready   -> Ready    GoToPage, SetZoom and friends
//
// User navigation and page jumps requested by field selection share GoToPage.
type Controller struct {
	mu        sync.Mutex
	state     State
	dims      map[int]dims
	renderSeq uint64
	logger    *slog.Logger
	onStale   func(string)
	listeners []func(State)
}

// New creates an idle controller.
func New(opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Controller{
		state:   State{LoadState: Idle, Zoom: DefaultZoom},
		dims:    make(map[int]dims),
		logger:  opts.Logger,
		onStale: opts.OnStale,
	}
}

// OnChange registers a listener called after every applied transition.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Generation returns the current load generation.
func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Generation
}

// Begin starts loading documentID from any state and returns the generation the
// load must present when it completes. Anything in flight is superseded.
func (c *Controller) Begin(documentID string) uint64 {
	c.mu.Lock()
	c.state.Generation++
	c.state.DocumentID = documentID
	c.state.LoadState = Loading
	c.state.PageNumber = 1
	c.state.PageCount = 0
	c.state.Error = ""
	c.resetDimsLocked()
	gen := c.state.Generation
	snap := c.state
	c.mu.Unlock()

	c.logger.Debug("viewport loading", "document", documentID, "generation", gen)
	c.notify(snap)
	return gen
}

// Complete moves Loading to Ready once the page count is known.
// It returns false and changes nothing if gen has been superseded.
func (c *Controller) Complete(gen uint64, pageCount int) bool {
	c.mu.Lock()
	if gen != c.state.Generation || c.state.LoadState != Loading {
		c.mu.Unlock()
		c.stale("load", gen)
		return false
	}
	if pageCount < 1 {
		c.state.LoadState = Failed
		c.state.Error = "document has no pages"
	} else {
		c.state.LoadState = Ready
		c.state.PageCount = pageCount
		c.state.PageNumber = 1
	}
	snap := c.state
	c.mu.Unlock()

	c.notify(snap)
	return snap.LoadState == Ready
}

// Fail moves Loading to Failed. Stale failures are ignored like stale successes.
func (c *Controller) Fail(gen uint64, err error) bool {
	c.mu.Lock()
	if gen != c.state.Generation || c.state.LoadState != Loading {
		c.mu.Unlock()
		c.stale("load", gen)
		return false
	}
	c.state.LoadState = Failed
	if err != nil {
		c.state.Error = err.Error()
	} else {
		c.state.Error = "document load failed"
	}
	snap := c.state
	c.mu.Unlock()

	c.logger.Error("document load failed", "document", snap.DocumentID, "generation", gen, "error", snap.Error)
	c.notify(snap)
	return true
}

// Retry re-enters Loading from Failed with a fresh generation.
func (c *Controller) Retry() (uint64, bool) {
	c.mu.Lock()
	if c.state.LoadState != Failed {
		c.mu.Unlock()
		return 0, false
	}
	docID := c.state.DocumentID
	c.mu.Unlock()
	return c.Begin(docID), true
}

// GoToPage navigates to page, clamped to the document. Requests made while the
// document is not Ready are ignored so a half-loaded document never accepts a page.
func (c *Controller) GoToPage(page int) bool {
	return c.mutateReady(func(s *State) {
		s.PageNumber = clampPage(page, s.PageCount)
	})
}

// NextPage advances one page.
func (c *Controller) NextPage() bool {
	return c.mutateReady(func(s *State) {
		s.PageNumber = clampPage(s.PageNumber+1, s.PageCount)
	})
}

// PrevPage goes back one page.
func (c *Controller) PrevPage() bool {
	return c.mutateReady(func(s *State) {
		s.PageNumber = clampPage(s.PageNumber-1, s.PageCount)
	})
}

// SetZoom snaps zoom to the nearest step inside [MinZoom, MaxZoom].
func (c *Controller) SetZoom(zoom float64) bool {
	return c.mutateReady(func(s *State) {
		s.Zoom = SnapZoom(zoom)
	})
}

// ZoomIn increases zoom by one step.
func (c *Controller) ZoomIn() bool {
	return c.mutateReady(func(s *State) {
		s.Zoom = SnapZoom(s.Zoom + ZoomStep)
	})
}

// ZoomOut decreases zoom by one step.
func (c *Controller) ZoomOut() bool {
	return c.mutateReady(func(s *State) {
		s.Zoom = SnapZoom(s.Zoom - ZoomStep)
	})
}

// BeginRender issues a token for rasterizing page. Only the most recently issued
// token can commit dimensions.
func (c *Controller) BeginRender(page int) (RenderToken, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.LoadState != Ready {
		return RenderToken{}, false
	}
	c.renderSeq++
	return RenderToken{
		Generation: c.state.Generation,
		Page:       clampPage(page, c.state.PageCount),
		Seq:        c.renderSeq,
	}, true
}

// CommitRender records the unzoomed pixel size a render produced. The result is
// discarded when the document changed, a newer render was requested, or the
// viewport has moved to another page meanwhile.
func (c *Controller) CommitRender(tok RenderToken, widthPx, heightPx float64) bool {
	c.mu.Lock()
	if tok.Generation != c.state.Generation || tok.Seq != c.renderSeq ||
		c.state.LoadState != Ready || tok.Page != c.state.PageNumber {
		c.mu.Unlock()
		c.stale("render", tok.Generation)
		return false
	}
	if !(widthPx > 0) || !(heightPx > 0) || math.IsInf(widthPx, 0) || math.IsInf(heightPx, 0) {
		c.mu.Unlock()
		return false
	}
	c.dims[tok.Page] = dims{width: widthPx, height: heightPx}
	c.applyDimsLocked()
	snap := c.state
	c.mu.Unlock()

	c.notify(snap)
	return true
}

func (c *Controller) mutateReady(fn func(*State)) bool {
	c.mu.Lock()
	if c.state.LoadState != Ready {
		c.mu.Unlock()
		return false
	}
	fn(&c.state)
	c.applyDimsLocked()
	snap := c.state
	c.mu.Unlock()

	c.notify(snap)
	return true
}

// applyDimsLocked exposes the cached pixel size of the current page, or zero if
// that page has not been rendered in this generation.
func (c *Controller) applyDimsLocked() {
	d := c.dims[c.state.PageNumber]
	c.state.PageWidthPx = d.width
	c.state.PageHeightPx = d.height
}

func (c *Controller) resetDimsLocked() {
	c.dims = make(map[int]dims)
	c.state.PageWidthPx = 0
	c.state.PageHeightPx = 0
}

func (c *Controller) stale(kind string, gen uint64) {
	c.logger.Debug("discarding stale result", "kind", kind, "generation", gen)
	if c.onStale != nil {
		c.onStale(kind)
	}
}

func (c *Controller) notify(s State) {
	c.mu.Lock()
	listeners := make([]func(State), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(s)
	}
}

// SnapZoom rounds zoom to the nearest ZoomStep and clamps it to the zoom range.
func SnapZoom(zoom float64) float64 {
	if math.IsNaN(zoom) {
		return DefaultZoom
	}
	z := math.Round(zoom/ZoomStep) * ZoomStep
	return math.Min(MaxZoom, math.Max(MinZoom, z))
}

func clampPage(page, count int) int {
	if page < 1 {
		return 1
	}
	if count > 0 && page > count {
		return count
	}
	return page
}
