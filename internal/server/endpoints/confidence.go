package endpoints

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/provlink/internal/api"
	"github.com/jackzampolin/provlink/internal/confidence"
)

// ConfidenceResponse classifies a single confidence score.
type ConfidenceResponse struct {
	Value          *float64                  `json:"value"`
	Percent        string                    `json:"percent,omitempty"`
	Classification confidence.Classification `json:"classification"`
	ManualReview   bool                      `json:"manualReview"`
}

// ConfidenceEndpoint handles GET /api/confidence.
type ConfidenceEndpoint struct{}

func (e *ConfidenceEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/confidence", e.handler
}

func (e *ConfidenceEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Classify a confidence score
//	@Description	Map an extraction confidence in [0,1] to its tier, colour role and label. Omit value for an unknown score.
//	@Tags			confidence
//	@Produce		json
//	@Param			value	query		number	false	"Confidence score"
//	@Success		200		{object}	ConfidenceResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/api/confidence [get]
func (e *ConfidenceEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var value *float64
	if raw := r.URL.Query().Get("value"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "value must be a number")
			return
		}
		value = &v
	}
	writeJSON(w, http.StatusOK, ConfidenceResponse{
		Value:          value,
		Percent:        confidence.FormatPercent(value),
		Classification: confidence.Classify(value),
		ManualReview:   confidence.NeedsManualVerification(value),
	})
}

func (e *ConfidenceEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "confidence [value]",
		Short: "Classify a confidence score",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/confidence"
			if len(args) == 1 {
				path += "?value=" + url.QueryEscape(args[0])
			}
			client := api.NewClient(getServerURL())
			var resp ConfidenceResponse
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
