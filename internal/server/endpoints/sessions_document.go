package endpoints

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/provlink/internal/api"
	"github.com/jackzampolin/provlink/internal/review"
	"github.com/jackzampolin/provlink/internal/viewport"
)

// SwitchDocumentEndpoint handles POST /api/sessions/{id}/document.
type SwitchDocumentEndpoint struct{}

func (e *SwitchDocumentEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/sessions/{id}/document", e.handler
}

func (e *SwitchDocumentEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Switch the session's document
//	@Description	Clears the highlight and provenance immediately, then loads the new document. A load still in flight for the previous document is discarded.
//	@Tags			documents
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Session ID"
//	@Param			body	body		OpenDocumentRequest	true	"Document to open"
//	@Success		202		{object}	review.Snapshot
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/sessions/{id}/document [post]
func (e *SwitchDocumentEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	var req OpenDocumentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ref := req.ref()
	if err := ref.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.Open(ref)
	writeJSON(w, http.StatusAccepted, s.Snapshot())
}

func (e *SwitchDocumentEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "open <id> <submission-id> <document-id>",
		Short: "Switch a session to another document",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp review.Snapshot
			req := OpenDocumentRequest{SubmissionID: args[1], DocumentID: args[2]}
			if err := client.Post(cmd.Context(), "/api/sessions/"+args[0]+"/document", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// RetryEndpoint handles POST /api/sessions/{id}/retry.
type RetryEndpoint struct{}

func (e *RetryEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/sessions/{id}/retry", e.handler
}

func (e *RetryEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Retry a failed document load
//	@Tags			documents
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		202	{object}	review.Snapshot
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Router			/api/sessions/{id}/retry [post]
func (e *RetryEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	if _, ok := s.Retry(); !ok {
		writeError(w, http.StatusConflict, "document has not failed to load")
		return
	}
	writeJSON(w, http.StatusAccepted, s.Snapshot())
}

func (e *RetryEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "retry <id>",
		Short: "Retry a failed document load",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp review.Snapshot
			if err := client.Post(cmd.Context(), "/api/sessions/"+args[0]+"/retry", nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// DocumentContentEndpoint handles GET /api/sessions/{id}/document/content.
type DocumentContentEndpoint struct{}

func (e *DocumentContentEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/sessions/{id}/document/content", e.handler
}

func (e *DocumentContentEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get document bytes
//	@Description	Raw document content for the renderer (PDF or image)
//	@Tags			documents
//	@Produce		application/pdf
//	@Produce		image/png
//	@Produce		image/jpeg
//	@Produce		image/tiff
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{file}		binary
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Router			/api/sessions/{id}/document/content [get]
func (e *DocumentContentEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	doc, ok := s.Document()
	if !ok {
		loadStateConflict(w, s)
		return
	}
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Bytes)))
	if doc.FileName != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", doc.FileName))
	}
	w.Write(doc.Bytes)
}

func (e *DocumentContentEndpoint) Command(getServerURL func() string) *cobra.Command {
	var outputFile string
	cmd := &cobra.Command{
		Use:   "content <id>",
		Short: "Download the session's document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Create(outputFile)
			if err != nil {
				return err
			}
			defer f.Close()
			client := api.NewClient(getServerURL())
			return client.GetRaw(cmd.Context(), "/api/sessions/"+args[0]+"/document/content", f)
		},
	}
	cmd.Flags().StringVarP(&outputFile, "file", "f", "", "Output file path")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// loadStateConflict writes a 409 when the session's document is not ready.
func loadStateConflict(w http.ResponseWriter, s *review.Session) {
	state := s.Viewport()
	msg := "document is " + state.LoadState.String()
	if state.LoadState == viewport.Failed && state.Error != "" {
		msg += ": " + state.Error
	}
	writeError(w, http.StatusConflict, msg)
}
