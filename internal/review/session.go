// Package review ties the viewport, selection and document loading together into
// a review session: one reviewer looking at one document at a time.
package review

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jackzampolin/provlink/internal/coords"
	"github.com/jackzampolin/provlink/internal/displayfield"
	"github.com/jackzampolin/provlink/internal/document"
	"github.com/jackzampolin/provlink/internal/metrics"
	"github.com/jackzampolin/provlink/internal/overlay"
	"github.com/jackzampolin/provlink/internal/provenance"
	"github.com/jackzampolin/provlink/internal/resolver"
	"github.com/jackzampolin/provlink/internal/selection"
	"github.com/jackzampolin/provlink/internal/viewport"
)

// Viewer holds presentation settings that may change while sessions are open.
type Viewer struct {
	Tooltip       coords.TooltipOptions
	MarkerSize    float64
	ReducedMotion bool
	Schema        displayfield.Schema
}

// Config configures sessions.
type Config struct {
	Fetcher document.Fetcher
	Viewer  Viewer
	// LoadTimeout bounds a single document load. Zero means no limit.
	LoadTimeout time.Duration
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
}

// Session is one reviewer's view of one document at a time.
type Session struct {
	id        string
	fetcher   document.Fetcher
	viewer    func() Viewer
	timeout   time.Duration
	logger    *slog.Logger
	metrics   *metrics.Metrics
	createdAt time.Time

	viewport  *viewport.Controller
	selection *selection.Controller

	mu     sync.Mutex
	ref    document.Ref
	doc    *document.ExtractedDocument
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSession creates an idle session. Call Open to load a document.
func NewSession(id string, cfg Config) *Session {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	logger := cfg.Logger.With("session", id)
	m := cfg.Metrics
	vp := viewport.New(viewport.Options{
		Logger:  logger,
		OnStale: m.IncrementStale,
	})
	viewer := cfg.Viewer
	return &Session{
		id:        id,
		fetcher:   cfg.Fetcher,
		viewer:    func() Viewer { return viewer },
		timeout:   cfg.LoadTimeout,
		logger:    logger,
		metrics:   m,
		createdAt: time.Now(),
		viewport:  vp,
		selection: selection.New(vp, selection.Options{Logger: logger, Metrics: m}),
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Open replaces the current document with ref. The highlight is cleared and the
// old provenance dropped before the new load starts; any load still in flight is
// cancelled and its result, should it arrive anyway, is discarded. It returns the
// generation of the new load.
func (s *Session) Open(ref document.Ref) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.SwitchDocument(provenance.Empty())
	if s.cancel != nil {
		s.cancel()
	}
	s.ref = ref
	s.doc = nil
	gen := s.viewport.Begin(ref.DocumentID)
	s.startLoadLocked(gen, ref)
	s.logger.Info("opening document", "document", ref.String(), "generation", gen)
	return gen
}

// Retry reloads the current document after a failed load. It is a no-op unless
// the viewport is in the Failed state.
func (s *Session) Retry() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gen, ok := s.viewport.Retry()
	if !ok {
		return 0, false
	}
	s.startLoadLocked(gen, s.ref)
	s.logger.Info("retrying document load", "document", s.ref.String(), "generation", gen)
	return gen, true
}

func (s *Session) startLoadLocked(gen uint64, ref document.Ref) {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if s.timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), s.timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	s.cancel = cancel
	s.wg.Add(1)
	go s.load(ctx, cancel, gen, ref)
}

func (s *Session) load(ctx context.Context, cancel context.CancelFunc, gen uint64, ref document.Ref) {
	defer s.wg.Done()
	defer cancel()

	start := time.Now()
	doc, err := document.Load(ctx, s.fetcher, ref, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.viewport.Generation() {
		// Superseded: let the viewport record the discard.
		s.viewport.Complete(gen, 0)
		s.metrics.ObserveLoad("stale", time.Since(start))
		return
	}
	if err != nil {
		s.metrics.ObserveLoad("error", time.Since(start))
		s.viewport.Fail(gen, err)
		return
	}

	s.metrics.ObserveLoad("ok", time.Since(start))
	s.metrics.RecordParse(doc.Report.Rejected, doc.Report.DroppedForms, doc.Report.DroppedFields)
	s.doc = doc
	s.selection.SwitchDocument(provenance.NewStore(doc.Provenance))
	s.viewport.Complete(gen, doc.PageCount)
}

// Wait blocks until no load is in flight.
func (s *Session) Wait() {
	s.wg.Wait()
}

// Close cancels any in-flight load and waits for it to finish.
func (s *Session) Close() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// SelectField highlights fieldName in form and brings its page into view.
func (s *Session) SelectField(fieldName string, form resolver.FormRef) (*provenance.HighlightTarget, resolver.Outcome) {
	return s.selection.SelectField(fieldName, form)
}

// ClearHighlight removes the highlight without moving the page.
func (s *Session) ClearHighlight() {
	s.selection.ClearHighlight()
}

// GoToPage navigates the viewport.
func (s *Session) GoToPage(page int) bool { return s.viewport.GoToPage(page) }

// NextPage advances one page.
func (s *Session) NextPage() bool { return s.viewport.NextPage() }

// PrevPage goes back one page.
func (s *Session) PrevPage() bool { return s.viewport.PrevPage() }

// SetZoom sets the zoom level.
func (s *Session) SetZoom(z float64) bool { return s.viewport.SetZoom(z) }

// ZoomIn zooms in one step.
func (s *Session) ZoomIn() bool { return s.viewport.ZoomIn() }

// ZoomOut zooms out one step.
func (s *Session) ZoomOut() bool { return s.viewport.ZoomOut() }

// BeginRender issues a render token for page.
func (s *Session) BeginRender(page int) (viewport.RenderToken, bool) {
	return s.viewport.BeginRender(page)
}

// CommitRender records the pixel size of a finished render.
func (s *Session) CommitRender(tok viewport.RenderToken, widthPx, heightPx float64) bool {
	return s.viewport.CommitRender(tok, widthPx, heightPx)
}

// Viewport returns the viewport snapshot.
func (s *Session) Viewport() viewport.State {
	return s.viewport.State()
}

// Active returns the highlighted target, or nil.
func (s *Session) Active() *provenance.HighlightTarget {
	return s.selection.Active()
}

// Document returns the loaded document, if the current load has finished.
func (s *Session) Document() (*document.ExtractedDocument, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc, s.doc != nil
}

// Overlay computes the overlay scene for the page currently in view.
func (s *Session) Overlay() overlay.Scene {
	state := s.viewport.State()
	v := s.viewer()
	return overlay.Render(overlay.Input{
		PageNumber:    state.PageNumber,
		PageWidthPx:   state.PageWidthPx,
		PageHeightPx:  state.PageHeightPx,
		Zoom:          state.Zoom,
		Highlight:     s.selection.Active(),
		Fields:        s.selection.Store().FieldsOnPage(state.PageNumber),
		Tooltip:       v.Tooltip,
		MarkerSize:    v.MarkerSize,
		ReducedMotion: v.ReducedMotion,
	})
}

// Fields lists the display fields of the loaded document.
func (s *Session) Fields() []displayfield.View {
	return displayfield.Views(displayfield.Build(s.viewer().Schema, s.selection.Store().Forms()))
}

// Surface is the configuration the document renderer needs to draw the page.
type Surface struct {
	PDFSource        string                      `json:"pdfSource"`
	ContentType      string                      `json:"contentType,omitempty"`
	LoadState        viewport.LoadState          `json:"loadState"`
	CurrentPage      int                         `json:"currentPage"`
	PageCount        int                         `json:"pageCount"`
	Zoom             float64                     `json:"zoom"`
	Transform        string                      `json:"transform"`
	HighlightedField *provenance.HighlightTarget `json:"highlightedField"`
	FieldProvenances []provenance.FormProvenance `json:"fieldProvenances"`
}

// Surface returns the render-surface configuration. pdfSource is where the
// renderer fetches document bytes from.
func (s *Session) Surface(pdfSource string) Surface {
	state := s.viewport.State()
	surface := Surface{
		LoadState:        state.LoadState,
		CurrentPage:      state.PageNumber,
		PageCount:        state.PageCount,
		Zoom:             state.Zoom,
		Transform:        coords.ZoomTransform(state.Zoom),
		HighlightedField: s.selection.Active(),
		FieldProvenances: s.selection.Store().Forms(),
	}
	if surface.FieldProvenances == nil {
		surface.FieldProvenances = []provenance.FormProvenance{}
	}
	if doc, ok := s.Document(); ok {
		surface.PDFSource = pdfSource
		surface.ContentType = doc.ContentType
	}
	return surface
}

// Snapshot summarizes the session.
type Snapshot struct {
	ID         string                      `json:"id"`
	Ref        document.Ref                `json:"ref"`
	FileName   string                      `json:"fileName,omitempty"`
	Viewport   viewport.State              `json:"viewport"`
	Active     *provenance.HighlightTarget `json:"active"`
	FormCount  int                         `json:"formCount"`
	FieldCount int                         `json:"fieldCount"`
	Report     *provenance.Report          `json:"provenanceReport,omitempty"`
	CreatedAt  time.Time                   `json:"createdAt"`
}

// Snapshot returns the session summary.
func (s *Session) Snapshot() Snapshot {
	store := s.selection.Store()
	snap := Snapshot{
		ID:         s.id,
		Viewport:   s.viewport.State(),
		Active:     s.selection.Active(),
		FormCount:  store.Len(),
		FieldCount: store.FieldCount(),
		CreatedAt:  s.createdAt,
	}
	s.mu.Lock()
	snap.Ref = s.ref
	if s.doc != nil {
		snap.FileName = s.doc.FileName
		report := s.doc.Report
		snap.Report = &report
	}
	s.mu.Unlock()
	return snap
}
