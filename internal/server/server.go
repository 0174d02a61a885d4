package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/campfin/fecload/internal/etl"
	"github.com/campfin/fecload/pkg/logger"
)

// Refresher runs one full ETL cycle.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Server exposes the HTTP trigger for the refresh job. The refresh runs
// synchronously inside the request, mirroring the cloud-function trigger
// this job replaces.
type Server struct {
	echo      *echo.Echo
	refresher Refresher
}

func New(r Refresher) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	s := &Server{echo: e, refresher: r}
	e.GET("/healthz", s.handleHealth)
	e.GET("/refresh", s.handleRefresh)
	e.POST("/refresh", s.handleRefresh)
	return s
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (s *Server) handleRefresh(c echo.Context) error {
	err := s.refresher.Refresh(c.Request().Context())
	if errors.Is(err, etl.ErrRunInProgress) {
		return c.String(http.StatusConflict, "Refresh already in progress")
	}
	if err != nil {
		logger.Errorf("Refresh failed: %v", err)
		return c.String(http.StatusInternalServerError, "Refresh failed: "+err.Error())
	}
	return c.String(http.StatusOK, "Refresh completed")
}

// Handler exposes the underlying mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
