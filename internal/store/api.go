package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go"

	"github.com/finewise-dev/finewise/internal/model"
)

// ErrUnexpectedStatus is wrapped by errors for non-2xx API responses.
var ErrUnexpectedStatus = errors.New("unexpected status")

// StatusError is a non-2xx response from the expenses API.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %d: %s", ErrUnexpectedStatus, e.Code, e.Message)
	}
	return fmt.Sprintf("%s %d", ErrUnexpectedStatus, e.Code)
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

// APIConfig configures an APIStore.
type APIConfig struct {
	BaseURL string // e.g. http://127.0.0.1:5000/api/v1
	Token   string // bearer token; empty sends no Authorization header
	Timeout time.Duration
	// Attempts is the total number of tries per request, including the first.
	Attempts   uint
	RetryDelay time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// APIStore fetches expenses from the FineWise REST API.
type APIStore struct {
	base     *url.URL
	token    string
	client   *http.Client
	attempts uint
	delay    time.Duration
	logger   *slog.Logger
}

// listResponse is the body of GET /expenses. Pagination and summary
// fields are ignored.
type listResponse struct {
	Expenses []model.RawExpense `json:"expenses"`
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewAPIStore validates cfg and creates an APIStore.
func NewAPIStore(cfg APIConfig) (*APIStore, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", cfg.BaseURL)
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	attempts := cfg.Attempts
	if attempts == 0 {
		attempts = 3
	}
	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &APIStore{
		base:     base,
		token:    cfg.Token,
		client:   client,
		attempts: attempts,
		delay:    delay,
		logger:   logger,
	}, nil
}

// Expenses calls GET /expenses with start_date, end_date and limit.
// Rate limiting (429) and server errors are retried.
func (s *APIStore) Expenses(ctx context.Context, q Query) ([]model.RawExpense, error) {
	u := s.base.JoinPath("expenses")
	params := url.Values{}
	if !q.Start.IsZero() {
		params.Set("start_date", q.Start.Format(dateFormat))
	}
	if !q.End.IsZero() {
		params.Set("end_date", q.End.Format(dateFormat))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	u.RawQuery = params.Encode()

	var resp listResponse
	err := retry.Do(
		func() error {
			return s.get(ctx, u.String(), &resp)
		},
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Warn("expenses request failed, will retry", "attempt", n+1, "error", err)
		}),
		retry.Attempts(s.attempts),
		retry.Delay(s.delay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	return resp.Expenses, nil
}

func (s *APIStore) get(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return permanentError{fmt.Errorf("building request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	res, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		serr := &StatusError{Code: res.StatusCode}
		var env errorEnvelope
		if json.Unmarshal(body, &env) == nil {
			serr.Message = env.Error.Message
		}
		return serr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return permanentError{fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// permanentError marks a failure that retrying cannot fix.
type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var perm permanentError
	if errors.As(err, &perm) {
		return false
	}
	var serr *StatusError
	if errors.As(err, &serr) {
		return serr.Code == http.StatusTooManyRequests || serr.Code >= 500
	}
	return true
}
