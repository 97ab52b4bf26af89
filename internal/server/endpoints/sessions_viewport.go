package endpoints

import (
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/provlink/internal/api"
	"github.com/jackzampolin/provlink/internal/viewport"
)

// PageRequest sets the page directly or steps with action "next" or "prev".
type PageRequest struct {
	Page   *int   `json:"page,omitempty"`
	Action string `json:"action,omitempty"`
}

// ZoomRequest sets the zoom directly or steps with action "in" or "out".
type ZoomRequest struct {
	Zoom   *float64 `json:"zoom,omitempty"`
	Action string   `json:"action,omitempty"`
}

// RenderRequest asks for a render token for a page.
type RenderRequest struct {
	Page int `json:"page"`
}

// CommitRenderRequest reports the unzoomed pixel size a render produced.
type CommitRenderRequest struct {
	Token  viewport.RenderToken `json:"token"`
	Width  float64              `json:"width"`
	Height float64              `json:"height"`
}

// CommitRenderResponse says whether the commit was applied. Stale commits are dropped.
type CommitRenderResponse struct {
	Accepted bool           `json:"accepted"`
	Viewport viewport.State `json:"viewport"`
}

// PageEndpoint handles POST /api/sessions/{id}/page.
type PageEndpoint struct{}

func (e *PageEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/sessions/{id}/page", e.handler
}

func (e *PageEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Navigate pages
//	@Description	Go to a page (clamped to the document) or step with action next/prev
//	@Tags			viewport
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Session ID"
//	@Param			body	body		PageRequest	true	"Page or action"
//	@Success		200		{object}	viewport.State
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/api/sessions/{id}/page [post]
func (e *PageEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	var req PageRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var applied bool
	switch {
	case req.Page != nil:
		applied = s.GoToPage(*req.Page)
	case req.Action == "next":
		applied = s.NextPage()
	case req.Action == "prev":
		applied = s.PrevPage()
	default:
		writeError(w, http.StatusBadRequest, `page or action ("next", "prev") is required`)
		return
	}
	if !applied {
		loadStateConflict(w, s)
		return
	}
	writeJSON(w, http.StatusOK, s.Viewport())
}

func (e *PageEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "page <id> <page|next|prev>",
		Short: "Navigate to a page",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req PageRequest
			if n, err := strconv.Atoi(args[1]); err == nil {
				req.Page = &n
			} else {
				req.Action = args[1]
			}
			client := api.NewClient(getServerURL())
			var resp viewport.State
			if err := client.Post(cmd.Context(), "/api/sessions/"+args[0]+"/page", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// ZoomEndpoint handles POST /api/sessions/{id}/zoom.
type ZoomEndpoint struct{}

func (e *ZoomEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/sessions/{id}/zoom", e.handler
}

func (e *ZoomEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Set zoom
//	@Description	Set zoom (snapped to 0.25 steps within [0.5, 3]) or step with action in/out
//	@Tags			viewport
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Session ID"
//	@Param			body	body		ZoomRequest	true	"Zoom or action"
//	@Success		200		{object}	viewport.State
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/api/sessions/{id}/zoom [post]
func (e *ZoomEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	var req ZoomRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var applied bool
	switch {
	case req.Zoom != nil:
		applied = s.SetZoom(*req.Zoom)
	case req.Action == "in":
		applied = s.ZoomIn()
	case req.Action == "out":
		applied = s.ZoomOut()
	default:
		writeError(w, http.StatusBadRequest, `zoom or action ("in", "out") is required`)
		return
	}
	if !applied {
		loadStateConflict(w, s)
		return
	}
	writeJSON(w, http.StatusOK, s.Viewport())
}

func (e *ZoomEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "zoom <id> <level|in|out>",
		Short: "Set the zoom level",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req ZoomRequest
			if z, err := strconv.ParseFloat(args[1], 64); err == nil {
				req.Zoom = &z
			} else {
				req.Action = args[1]
			}
			client := api.NewClient(getServerURL())
			var resp viewport.State
			if err := client.Post(cmd.Context(), "/api/sessions/"+args[0]+"/zoom", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// RenderEndpoint handles POST /api/sessions/{id}/render.
type RenderEndpoint struct{}

func (e *RenderEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/sessions/{id}/render", e.handler
}

func (e *RenderEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Begin a page render
//	@Description	Issue a render token. Only the most recent token for the current document and page can commit dimensions.
//	@Tags			viewport
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Session ID"
//	@Param			body	body		RenderRequest	true	"Page to render"
//	@Success		200		{object}	viewport.RenderToken
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/api/sessions/{id}/render [post]
func (e *RenderEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	var req RenderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	tok, ok := s.BeginRender(req.Page)
	if !ok {
		loadStateConflict(w, s)
		return
	}
	writeJSON(w, http.StatusOK, tok)
}

func (e *RenderEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "render <id> <page>",
		Short: "Request a render token for a page",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := strconv.Atoi(args[1])
			if err != nil {
				return err
			}
			client := api.NewClient(getServerURL())
			var resp viewport.RenderToken
			if err := client.Post(cmd.Context(), "/api/sessions/"+args[0]+"/render", RenderRequest{Page: page}, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// CommitRenderEndpoint handles POST /api/sessions/{id}/render/commit.
type CommitRenderEndpoint struct{}

func (e *CommitRenderEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/sessions/{id}/render/commit", e.handler
}

func (e *CommitRenderEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Commit a page render
//	@Description	Record the unzoomed pixel size of a finished render. Stale commits return accepted=false.
//	@Tags			viewport
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Session ID"
//	@Param			body	body		CommitRenderRequest	true	"Token and size"
//	@Success		200		{object}	CommitRenderResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/sessions/{id}/render/commit [post]
func (e *CommitRenderEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	var req CommitRenderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		writeError(w, http.StatusBadRequest, "width and height must be positive")
		return
	}
	accepted := s.CommitRender(req.Token, req.Width, req.Height)
	writeJSON(w, http.StatusOK, CommitRenderResponse{Accepted: accepted, Viewport: s.Viewport()})
}

func (e *CommitRenderEndpoint) Command(getServerURL func() string) *cobra.Command {
	var req CommitRenderRequest
	cmd := &cobra.Command{
		Use:   "commit <id>",
		Short: "Commit the pixel size of a finished render",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp CommitRenderResponse
			if err := client.Post(cmd.Context(), "/api/sessions/"+args[0]+"/render/commit", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().Uint64Var(&req.Token.Generation, "generation", 0, "Token generation")
	cmd.Flags().IntVar(&req.Token.Page, "page", 0, "Token page")
	cmd.Flags().Uint64Var(&req.Token.Seq, "seq", 0, "Token sequence")
	cmd.Flags().Float64Var(&req.Width, "width", 0, "Rendered width in pixels at zoom 1")
	cmd.Flags().Float64Var(&req.Height, "height", 0, "Rendered height in pixels at zoom 1")
	_ = cmd.MarkFlagRequired("width")
	_ = cmd.MarkFlagRequired("height")
	return cmd
}
