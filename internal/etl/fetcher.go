package etl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"cloud.google.com/go/civil"

	"github.com/campfin/fecload/pkg/logger"
	"github.com/campfin/fecload/pkg/models"
)

const (
	// DefaultBaseURL is the FEC schedule A listing endpoint.
	DefaultBaseURL = "https://api.open.fec.gov/v1/schedules/schedule_a/"

	// PerPage is the fixed page size requested from the API.
	PerPage = 100

	fetchRetries   = 5
	requestTimeout = 60 * time.Second

	transportBackoffStart = 2 * time.Second
	transportBackoffCap   = 60 * time.Second
	rateLimitBackoffStart = 30 * time.Second
	rateLimitBackoffCap   = 300 * time.Second
	serverBackoffStep     = 5 * time.Second
)

// Fetcher pulls one page of schedule A receipts at a time. Each call runs
// its own retry loop; no state is shared between calls beyond the fixed
// query parameters.
type Fetcher struct {
	APIKey    string
	BaseURL   string
	MinDate   string // pushed down as min_date, empty to omit
	MinAmount string // pushed down as min_amount, empty to omit
	Client    *http.Client
	Retries   int

	sleep func(time.Duration)
}

// NewFetcher builds a fetcher against the public FEC API. The amount floor
// and the cutoff date are pushed down as server-side filters so most
// unwanted records never cross the wire.
func NewFetcher(apiKey string, minDate civil.Date) *Fetcher {
	return &Fetcher{
		APIKey:    apiKey,
		BaseURL:   DefaultBaseURL,
		MinDate:   minDate.String(),
		MinAmount: strconv.Itoa(AmountFloor),
		Client:    &http.Client{Timeout: requestTimeout},
		Retries:   fetchRetries,
		sleep:     time.Sleep,
	}
}

// FetchPage issues one GET for the given period and 1-based page number,
// retrying per failure class: capped doubling for transport errors, a slow
// multiplicative backoff for 429s, linear backoff for 500/502/503. Any other
// HTTP status fails immediately.
func (f *Fetcher) FetchPage(ctx context.Context, period, page int) (*models.ContributionsPage, error) {
	transportBackoff := transportBackoffStart
	rateBackoff := rateLimitBackoffStart

	for attempt := 1; attempt <= f.Retries; attempt++ {
		data, ferr := f.fetchOnce(ctx, period, page)
		if ferr == nil {
			return data, nil
		}

		switch ferr.Kind {
		case FetchTransport:
			logger.Warnf("Transport error (period %d, page %d), attempt %d/%d: %v",
				period, page, attempt, f.Retries, ferr.Err)
			f.sleep(transportBackoff)
			transportBackoff *= 2
			if transportBackoff > transportBackoffCap {
				transportBackoff = transportBackoffCap
			}
		case FetchRateLimited:
			logger.Warnf("Rate limited (period %d, page %d), attempt %d/%d, backing off %s",
				period, page, attempt, f.Retries, rateBackoff)
			f.sleep(rateBackoff)
			rateBackoff = time.Duration(float64(rateBackoff) * 1.5)
			if rateBackoff > rateLimitBackoffCap {
				rateBackoff = rateLimitBackoffCap
			}
		case FetchServer:
			logger.Warnf("Server error %d (period %d, page %d), attempt %d/%d",
				ferr.Status, period, page, attempt, f.Retries)
			f.sleep(serverBackoffStep * time.Duration(attempt))
		default:
			return nil, ferr
		}
	}

	return nil, &FetchError{
		Kind:   FetchExhausted,
		Period: period,
		Page:   page,
		Err:    fmt.Errorf("no successful response after %d attempts", f.Retries),
	}
}

func (f *Fetcher) fetchOnce(ctx context.Context, period, page int) (*models.ContributionsPage, *FetchError) {
	params := url.Values{}
	params.Set("api_key", f.APIKey)
	params.Set("two_year_transaction_period", strconv.Itoa(period))
	params.Set("sort", "-contribution_receipt_date")
	params.Set("per_page", strconv.Itoa(PerPage))
	params.Set("page", strconv.Itoa(page))
	params.Set("is_individual", "true")
	if f.MinAmount != "" {
		params.Set("min_amount", f.MinAmount)
	}
	if f.MinDate != "" {
		params.Set("min_date", f.MinDate)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &FetchError{Kind: FetchClient, Period: period, Page: page, Err: err}
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: FetchTransport, Period: period, Page: page, Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return nil, &FetchError{Kind: FetchRateLimited, Period: period, Page: page,
			Status: resp.StatusCode, Err: fmt.Errorf("%s", resp.Status)}
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return nil, &FetchError{Kind: FetchServer, Period: period, Page: page,
			Status: resp.StatusCode, Err: fmt.Errorf("%s", resp.Status)}
	default:
		return nil, &FetchError{Kind: FetchClient, Period: period, Page: page,
			Status: resp.StatusCode, Err: fmt.Errorf("%s", resp.Status)}
	}

	var data models.ContributionsPage
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		// A malformed body is not a network fault; do not retry.
		return nil, &FetchError{Kind: FetchClient, Period: period, Page: page,
			Err: fmt.Errorf("decoding response: %w", err)}
	}
	return &data, nil
}
