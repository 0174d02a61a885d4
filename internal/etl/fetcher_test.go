package etl

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/require"

	"github.com/campfin/fecload/pkg/models"
)

func okPage(results ...models.Contribution) models.ContributionsPage {
	return models.ContributionsPage{
		Results:    results,
		Pagination: models.Pagination{Page: 1, Pages: 1, PerPage: PerPage, Count: len(results)},
	}
}

func newTestFetcher(t *testing.T, handler http.HandlerFunc) (*Fetcher, *[]time.Duration) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sleeps := &[]time.Duration{}
	f := NewFetcher("test-key", civil.Date{Year: 2020, Month: 9, Day: 1})
	f.BaseURL = srv.URL
	f.sleep = func(d time.Duration) { *sleeps = append(*sleeps, d) }
	return f, sleeps
}

func TestFetchPageSendsFixedQueryParameters(t *testing.T) {
	var got url.Values
	f, _ := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		json.NewEncoder(w).Encode(okPage())
	})

	_, err := f.FetchPage(context.Background(), 2026, 3)
	require.NoError(t, err)

	require.Equal(t, "test-key", got.Get("api_key"))
	require.Equal(t, "2026", got.Get("two_year_transaction_period"))
	require.Equal(t, "-contribution_receipt_date", got.Get("sort"))
	require.Equal(t, "100", got.Get("per_page"))
	require.Equal(t, "3", got.Get("page"))
	require.Equal(t, "true", got.Get("is_individual"))
	require.Equal(t, "125", got.Get("min_amount"))
	require.Equal(t, "2020-09-01", got.Get("min_date"))
}

func TestFetchPageRetriesOnceAfterRateLimit(t *testing.T) {
	calls := 0
	f, sleeps := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(okPage(models.Contribution{CommitteeID: "C001"}))
	})

	page, err := f.FetchPage(context.Background(), 2026, 1)
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	require.Equal(t, 2, calls)
	require.Equal(t, []time.Duration{30 * time.Second}, *sleeps)
}

func TestFetchPageRateLimitBackoffGrowsByHalf(t *testing.T) {
	f, sleeps := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := f.FetchPage(context.Background(), 2026, 1)

	var ferr *FetchError
	require.ErrorAs(t, err, &ferr)
	require.Equal(t, FetchExhausted, ferr.Kind)
	require.Equal(t, []time.Duration{
		30 * time.Second,
		45 * time.Second,
		67500 * time.Millisecond,
		101250 * time.Millisecond,
		151875 * time.Millisecond,
	}, *sleeps)
}

func TestFetchPageLinearBackoffOnServerErrors(t *testing.T) {
	calls := 0
	f, sleeps := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch calls {
		case 1:
			w.WriteHeader(http.StatusInternalServerError)
		case 2:
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			json.NewEncoder(w).Encode(okPage())
		}
	})

	_, err := f.FetchPage(context.Background(), 2024, 1)
	require.NoError(t, err)
	require.Equal(t, 3, calls)
	require.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second}, *sleeps)
}

func TestFetchPageFailsFastOnClientError(t *testing.T) {
	calls := 0
	f, sleeps := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := f.FetchPage(context.Background(), 2026, 1)

	var ferr *FetchError
	require.ErrorAs(t, err, &ferr)
	require.Equal(t, FetchClient, ferr.Kind)
	require.Equal(t, http.StatusNotFound, ferr.Status)
	require.Equal(t, 1, calls)
	require.Empty(t, *sleeps)
}

func TestFetchPageFailsFastOnMalformedBody(t *testing.T) {
	calls := 0
	f, _ := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte("{not json"))
	})

	_, err := f.FetchPage(context.Background(), 2026, 1)

	var ferr *FetchError
	require.ErrorAs(t, err, &ferr)
	require.Equal(t, FetchClient, ferr.Kind)
	require.Equal(t, 1, calls)
}

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func TestFetchPageDoublesTransportBackoffUntilExhausted(t *testing.T) {
	var sleeps []time.Duration
	f := NewFetcher("test-key", civil.Date{Year: 2020, Month: 9, Day: 1})
	f.Client = &http.Client{Transport: failingTransport{}}
	f.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }

	_, err := f.FetchPage(context.Background(), 2026, 1)

	var ferr *FetchError
	require.ErrorAs(t, err, &ferr)
	require.Equal(t, FetchExhausted, ferr.Kind)
	require.Equal(t, []time.Duration{
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		32 * time.Second,
	}, sleeps)
}
