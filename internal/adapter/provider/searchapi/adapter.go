// Package searchapi implements the flight search endpoint client.
package searchapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/flight-search/flight-booking-system/internal/adapter/provider/payload"
	"github.com/flight-search/flight-booking-system/internal/domain"
	"github.com/flight-search/flight-booking-system/internal/infrastructure/logger"
	"github.com/flight-search/flight-booking-system/internal/infrastructure/ratelimit"
)

// Name is the unique identifier of the search endpoint searcher.
const Name = "searchapi"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 10 << 20

// Config holds the endpoint settings.
type Config struct {
	BaseURL      string
	APIKey       string
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// Adapter queries GET {base}/flights and decodes the itinerary payload.
type Adapter struct {
	baseURL string
	apiKey  string
	client  *retryablehttp.Client
	limiter *ratelimit.Limiter
	log     *logger.Logger
}

// NewAdapter creates an Adapter. A nil limiter disables rate limiting.
func NewAdapter(cfg Config, limiter *ratelimit.Limiter, log *logger.Logger) *Adapter {
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithSearcher(Name)

	client := retryablehttp.NewClient()
	client.RetryMax = cfg.RetryMax
	if cfg.RetryWaitMin > 0 {
		client.RetryWaitMin = cfg.RetryWaitMin
	}
	if cfg.RetryWaitMax > 0 {
		client.RetryWaitMax = cfg.RetryWaitMax
	}
	if cfg.Timeout > 0 {
		client.HTTPClient.Timeout = cfg.Timeout
	}
	client.CheckRetry = retryPolicy
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.Logger = leveledLogger{log}

	return &Adapter{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  client,
		limiter: limiter,
		log:     log,
	}
}

// Name returns the searcher identifier.
func (a *Adapter) Name() string {
	return Name
}

// Search fetches itineraries for the query.
//
// Errors are *domain.SearchError. Rate limiting (429) and server errors (5xx)
// are marked retryable; other statuses, malformed bodies and cancellation are not.
func (a *Adapter) Search(ctx context.Context, query domain.SearchQuery) ([]domain.Itinerary, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx, Name); err != nil {
			return nil, domain.NewSearchError(Name, err)
		}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, a.searchURL(query), nil)
	if err != nil {
		return nil, domain.NewSearchError(Name, err)
	}
	req.Header.Set("Accept", "application/json")
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	start := time.Now()
	resp, err := a.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, domain.NewSearchError(Name, ctxErr)
		}
		if isTimeout(err) {
			return nil, domain.NewRetryableSearchError(Name, fmt.Errorf("%w: %v", domain.ErrSearchTimeout, err))
		}
		return nil, domain.NewRetryableSearchError(Name, fmt.Errorf("%w: %v", domain.ErrSearchUnavailable, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, domain.NewRetryableSearchError(Name, fmt.Errorf("read body: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		statusErr := fmt.Errorf("%w: status %d", domain.ErrSearchUnavailable, resp.StatusCode)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, domain.NewRetryableSearchError(Name, statusErr)
		}
		return nil, domain.NewSearchError(Name, statusErr)
	}

	itineraries, err := payload.Decode(body)
	if err != nil {
		return nil, domain.NewSearchError(Name, err)
	}

	a.log.Debug().
		Int("results", len(itineraries)).
		Dur("duration", time.Since(start)).
		Msg("search endpoint answered")
	return itineraries, nil
}

// searchURL builds the endpoint URL with the query parameters the endpoint expects.
func (a *Adapter) searchURL(q domain.SearchQuery) string {
	params := url.Values{}
	params.Set("originLocationCode", q.From)
	params.Set("destinationLocationCode", q.To)
	params.Set("departureDate", q.DepartDate)
	if q.ReturnDate != "" {
		params.Set("returnDate", q.ReturnDate)
	}
	params.Set("adults", strconv.Itoa(q.Adults))
	params.Set("children", strconv.Itoa(q.Children))
	if q.CurrencyCode != "" {
		params.Set("currencyCode", q.CurrencyCode)
	}
	return a.baseURL + "/flights?" + params.Encode()
}

// retryPolicy stops on cancellation and otherwise defers to the default
// policy, which retries connection errors, 429 and 5xx.
func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return false, err
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

var _ domain.FlightSearcher = (*Adapter)(nil)
