package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campfin/fecload/internal/etl"
)

type stubRefresher struct {
	err   error
	calls int
}

func (s *stubRefresher) Refresh(ctx context.Context) error {
	s.calls++
	return s.err
}

func doRefresh(t *testing.T, r Refresher) *httptest.ResponseRecorder {
	t.Helper()
	srv := New(r)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestRefreshEndpointCompletes(t *testing.T) {
	stub := &stubRefresher{}
	rec := doRefresh(t, stub)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Refresh completed", rec.Body.String())
	require.Equal(t, 1, stub.calls)
}

func TestRefreshEndpointReportsFailure(t *testing.T) {
	stub := &stubRefresher{err: errors.New("load into staging failed")}
	rec := doRefresh(t, stub)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "Refresh failed")
}

func TestRefreshEndpointRejectsConcurrentRun(t *testing.T) {
	stub := &stubRefresher{err: etl.ErrRunInProgress}
	rec := doRefresh(t, stub)

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "Refresh already in progress", rec.Body.String())
}

func TestHealthEndpoint(t *testing.T) {
	srv := New(&stubRefresher{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}
