package endpoints

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/provlink/internal/api"
	"github.com/jackzampolin/provlink/internal/displayfield"
	"github.com/jackzampolin/provlink/internal/overlay"
	"github.com/jackzampolin/provlink/internal/provenance"
	"github.com/jackzampolin/provlink/internal/resolver"
	"github.com/jackzampolin/provlink/internal/review"
	"github.com/jackzampolin/provlink/internal/svcctx"
	"github.com/jackzampolin/provlink/internal/viewport"
)

// SelectRequest is the field-click callback payload.
type SelectRequest struct {
	FieldName string `json:"field_name"`
	FormType  string `json:"form_type"`
}

// SelectResponse reports what the selection resolved to.
type SelectResponse struct {
	Outcome  resolver.Outcome            `json:"outcome"`
	Target   *provenance.HighlightTarget `json:"target"`
	Viewport viewport.State              `json:"viewport"`
}

// FieldsResponse lists the display fields of the loaded document.
type FieldsResponse struct {
	Fields []displayfield.View `json:"fields"`
}

// SelectFieldEndpoint handles POST /api/sessions/{id}/select.
type SelectFieldEndpoint struct{}

func (e *SelectFieldEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/sessions/{id}/select", e.handler
}

func (e *SelectFieldEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Select a field
//	@Description	Highlight the field's source region and navigate to its page. Falls back to the form's region, then to no highlight.
//	@Tags			selection
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Session ID"
//	@Param			body	body		SelectRequest	true	"Field and form"
//	@Success		200		{object}	SelectResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/sessions/{id}/select [post]
func (e *SelectFieldEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	var req SelectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.FieldName == "" {
		writeError(w, http.StatusBadRequest, "field_name is required")
		return
	}

	target, outcome := s.SelectField(req.FieldName, resolver.FormRef{FormType: req.FormType})
	if logger := svcctx.LoggerFrom(r.Context()); logger != nil {
		logger.Debug("field selected", "session", s.ID(), "field", req.FieldName, "form", req.FormType, "outcome", outcome)
	}
	writeJSON(w, http.StatusOK, SelectResponse{
		Outcome:  outcome,
		Target:   target,
		Viewport: s.Viewport(),
	})
}

func (e *SelectFieldEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "select <id> <field-name> [form-type]",
		Short: "Highlight a field's source region",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := SelectRequest{FieldName: args[1]}
			if len(args) == 3 {
				req.FormType = args[2]
			}
			client := api.NewClient(getServerURL())
			var resp SelectResponse
			if err := client.Post(cmd.Context(), "/api/sessions/"+args[0]+"/select", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// ClearHighlightEndpoint handles DELETE /api/sessions/{id}/select.
type ClearHighlightEndpoint struct{}

func (e *ClearHighlightEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/sessions/{id}/select", e.handler
}

func (e *ClearHighlightEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Clear the highlight
//	@Description	Removes the highlight without changing the page
//	@Tags			selection
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	viewport.State
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/sessions/{id}/select [delete]
func (e *ClearHighlightEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	s.ClearHighlight()
	writeJSON(w, http.StatusOK, s.Viewport())
}

func (e *ClearHighlightEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <id>",
		Short: "Clear the highlight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			if err := client.Delete(cmd.Context(), "/api/sessions/"+args[0]+"/select"); err != nil {
				return err
			}
			fmt.Printf("Cleared highlight for session %s\n", args[0])
			return nil
		},
	}
}

// OverlayEndpoint handles GET /api/sessions/{id}/overlay.
type OverlayEndpoint struct{}

func (e *OverlayEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/sessions/{id}/overlay", e.handler
}

func (e *OverlayEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get the overlay for the current page
//	@Description	Highlight, markers and tooltip in page pixels. Empty until a render of the current page has been committed.
//	@Tags			selection
//	@Produce		json
//	@Produce		image/svg+xml
//	@Param			id		path		string	true	"Session ID"
//	@Param			format	query		string	false	"json (default) or svg"
//	@Success		200		{object}	overlay.Scene
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/sessions/{id}/overlay [get]
func (e *OverlayEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	scene := s.Overlay()
	switch r.URL.Query().Get("format") {
	case "", "json":
		writeJSON(w, http.StatusOK, scene)
	case "svg":
		w.Header().Set("Content-Type", "image/svg+xml")
		if err := scene.WriteSVG(w); err != nil {
			if logger := svcctx.LoggerFrom(r.Context()); logger != nil {
				logger.Error("failed to write overlay", "session", s.ID(), "error", err)
			}
		}
	default:
		writeError(w, http.StatusBadRequest, `format must be "json" or "svg"`)
	}
}

func (e *OverlayEndpoint) Command(getServerURL func() string) *cobra.Command {
	var svg bool
	cmd := &cobra.Command{
		Use:   "overlay <id>",
		Short: "Get the overlay for the current page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			path := "/api/sessions/" + args[0] + "/overlay"
			if svg {
				return client.GetRaw(cmd.Context(), path+"?format=svg", os.Stdout)
			}
			var resp overlay.Scene
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().BoolVar(&svg, "svg", false, "Print the overlay as SVG")
	return cmd
}

// FieldsEndpoint handles GET /api/sessions/{id}/fields.
type FieldsEndpoint struct{}

func (e *FieldsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/sessions/{id}/fields", e.handler
}

func (e *FieldsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		List display fields
//	@Description	Schema fields in schema order, then fields inferred from provenance, with confidence badges
//	@Tags			selection
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	FieldsResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/sessions/{id}/fields [get]
func (e *FieldsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	fields := s.Fields()
	if fields == nil {
		fields = []displayfield.View{}
	}
	writeJSON(w, http.StatusOK, FieldsResponse{Fields: fields})
}

func (e *FieldsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "fields <id>",
		Short: "List the document's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp FieldsResponse
			if err := client.Get(cmd.Context(), "/api/sessions/"+args[0]+"/fields", &resp); err != nil {
				return err
			}
			return api.Output(resp.Fields)
		},
	}
}

// SurfaceEndpoint handles GET /api/sessions/{id}/surface.
type SurfaceEndpoint struct{}

func (e *SurfaceEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/sessions/{id}/surface", e.handler
}

func (e *SurfaceEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get the render surface configuration
//	@Description	Document source, page, zoom transform, highlighted field and provenance for the renderer
//	@Tags			selection
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	review.Surface
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/sessions/{id}/surface [get]
func (e *SurfaceEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Surface("/api/sessions/"+s.ID()+"/document/content"))
}

func (e *SurfaceEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "surface <id>",
		Short: "Get the render surface configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp review.Surface
			if err := client.Get(cmd.Context(), "/api/sessions/"+args[0]+"/surface", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
