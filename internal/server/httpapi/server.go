// Package httpapi exposes the record collection over HTTP: REST mutations,
// a list endpoint, and a WebSocket watch stream that pushes the complete
// ordered collection on every change.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/ramen-kiroku/ramenlog/internal/common"
	"github.com/ramen-kiroku/ramenlog/internal/logging"
	"github.com/ramen-kiroku/ramenlog/internal/models"
	"github.com/ramen-kiroku/ramenlog/internal/server/records"
)

type Server struct {
	addr            string
	echo            *echo.Echo
	service         *records.Service
	hub             *Hub
	upgrader        websocket.Upgrader
	logger          logging.Logger
	shutdownTimeout time.Duration
}

func NewServer(addr string, service *records.Service, hub *Hub, logger logging.Logger) *Server {
	s := &Server{
		addr:            addr,
		echo:            echo.New(),
		service:         service,
		hub:             hub,
		shutdownTimeout: 5 * time.Second,
		upgrader: websocket.Upgrader{
			// single-user app behind the caller's own network; no origin policy
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true

	api := s.echo.Group("/api")
	api.GET("/records", s.listRecords)
	api.POST("/records", s.createRecord)
	api.PUT("/records/:id", s.updateRecord)
	api.DELETE("/records/:id", s.deleteRecord)
	api.GET("/records/watch", s.watchRecords)

	return s
}

// Handler exposes the routing tree; tests mount it on httptest servers.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(s.addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	}
}

// SetShutdownTimeout overrides how long Run waits for in-flight requests
// during shutdown.
func (s *Server) SetShutdownTimeout(d time.Duration) {
	if d > 0 {
		s.shutdownTimeout = d
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) listRecords(c echo.Context) error {
	list, err := s.service.List(c.Request().Context())
	if err != nil {
		s.logger.Error(c.Request().Context(), "list records failed", "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: common.ErrorInternal.Error()})
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) createRecord(c echo.Context) error {
	var p models.RecordPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
	}

	rec, err := s.service.Create(c.Request().Context(), p)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, rec)
}

func (s *Server) updateRecord(c echo.Context) error {
	var p models.RecordPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
	}

	if err := s.service.Update(c.Request().Context(), c.Param("id"), p); err != nil {
		return s.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) deleteRecord(c echo.Context) error {
	if err := s.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return s.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// watchRecords upgrades to WebSocket, delivers the current snapshot, then
// keeps the connection registered with the hub until the peer goes away.
// The snapshot is fetched inside Hub.Add so no broadcast can slip between
// the read and the registration.
func (s *Server) watchRecords(c echo.Context) error {
	ctx := c.Request().Context()

	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		return nil
	}

	if err := s.hub.Add(conn, func() ([]models.Record, error) {
		return s.service.List(ctx)
	}); err != nil {
		s.logger.Error(ctx, "watch bootstrap failed", "error", err)
		_ = conn.Close()
		return nil
	}

	go func() {
		defer func() {
			s.hub.Remove(conn)
			_ = conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	return nil
}

func (s *Server) writeError(c echo.Context, err error) error {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: verr.Message})
	case errors.Is(err, common.ErrorNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: common.ErrorNotFound.Error()})
	default:
		s.logger.Error(c.Request().Context(), "request failed", "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: common.ErrorInternal.Error()})
	}
}
