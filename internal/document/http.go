package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// defaultMaxBodyBytes bounds a single storage response.
const defaultMaxBodyBytes = 64 << 20

// HTTPConfig configures an HTTPFetcher.
type HTTPConfig struct {
	BaseURL string
	// Token, if set, is sent as a bearer token.
	Token   string
	Timeout time.Duration
	// MaxRetries is the number of extra attempts for transient failures.
	MaxRetries int
	RetryDelay time.Duration
	// RateLimit caps requests per second to storage. Zero means unlimited.
	RateLimit float64
	// MaxBodyBytes caps a single response. Defaults to 64 MiB.
	MaxBodyBytes int64
	Client       *http.Client
	Logger       *slog.Logger
}

// HTTPFetcher reads documents from the storage collaborator at
// {base}/submissions/{submission}/documents/{document}.
type HTTPFetcher struct {
	base     *url.URL
	token    string
	client   *http.Client
	limiter  *rate.Limiter
	attempts uint
	delay    time.Duration
	maxBody  int64
	logger   *slog.Logger
}

// StatusError is a non-2xx storage response.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("storage returned %d for %s", e.Status, e.URL)
}

// NewHTTPFetcher creates a fetcher for cfg.BaseURL.
func NewHTTPFetcher(cfg HTTPConfig) (*HTTPFetcher, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("storage base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid storage base URL: %w", err)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		cfg.Client = &http.Client{Timeout: timeout}
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 250 * time.Millisecond
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	return &HTTPFetcher{
		base:     base,
		token:    cfg.Token,
		client:   cfg.Client,
		limiter:  rate.NewLimiter(limit, 1),
		attempts: uint(cfg.MaxRetries) + 1,
		delay:    cfg.RetryDelay,
		maxBody:  cfg.MaxBodyBytes,
		logger:   cfg.Logger,
	}, nil
}

// Fetch reads the document payload, then resolves its content and provenance
// concurrently. A provenance URL that cannot be read leaves the document
// without provenance rather than failing the load.
func (f *HTTPFetcher) Fetch(ctx context.Context, ref Ref) (*Source, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	docURL := f.base.JoinPath("submissions", ref.SubmissionID, "documents", ref.DocumentID).String()

	body, err := f.get(ctx, docURL)
	if err != nil {
		return nil, err
	}
	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("failed to decode document payload: %w", err)
	}

	src := &Source{FileName: p.FileName, ContentType: p.ContentType}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		switch {
		case p.Content != "":
			b, ct, err := DecodeContent(p.Content)
			if err != nil {
				return err
			}
			src.Bytes = b
			if src.ContentType == "" {
				src.ContentType = ct
			}
		case p.URL != "":
			b, err := f.get(gctx, f.resolve(p.URL))
			if err != nil {
				return fmt.Errorf("failed to fetch document content: %w", err)
			}
			src.Bytes = b
		default:
			return fmt.Errorf("%w: payload has neither content nor url", ErrUnsupportedContent)
		}
		return nil
	})

	g.Go(func() error {
		if len(p.Provenance) > 0 || p.ProvenanceURL == "" {
			src.Provenance = p.InlineProvenance()
			return nil
		}
		b, err := f.get(gctx, f.resolve(p.ProvenanceURL))
		if err != nil {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			f.logger.Warn("provenance unavailable", "document", ref.String(), "error", err)
			return nil
		}
		src.Provenance = string(b)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return src, nil
}

// get performs a paced GET, retrying connection errors and 5xx responses.
func (f *HTTPFetcher) get(ctx context.Context, target string) ([]byte, error) {
	var body []byte
	err := retry.Do(
		func() error {
			if err := f.limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			if f.token != "" {
				req.Header.Set("Authorization", "Bearer "+f.token)
			}
			resp, err := f.client.Do(req)
			if err != nil {
				if ctx.Err() != nil {
					return retry.Unrecoverable(ctx.Err())
				}
				return err
			}
			defer resp.Body.Close()

			switch {
			case resp.StatusCode == http.StatusNotFound:
				return retry.Unrecoverable(fmt.Errorf("%w: %s", ErrNotFound, target))
			case resp.StatusCode >= 500:
				return &StatusError{URL: target, Status: resp.StatusCode}
			case resp.StatusCode >= 300:
				return retry.Unrecoverable(&StatusError{URL: target, Status: resp.StatusCode})
			}

			b, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
			if err != nil {
				return err
			}
			if int64(len(b)) > f.maxBody {
				return retry.Unrecoverable(fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, target, f.maxBody))
			}
			body = b
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(f.attempts),
		retry.Delay(f.delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			f.logger.Warn("retrying storage request", "url", target, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (f *HTTPFetcher) resolve(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return f.base.ResolveReference(u).String()
}
