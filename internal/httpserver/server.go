package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/girishnp17/Avaa-AI/internal/interview"
	"github.com/girishnp17/Avaa-AI/internal/profile"
)

// SessionFactory builds a fully wired session for a parsed profile and job.
type SessionFactory func(id string, prof profile.Profile, job profile.JobContext) *interview.Session

// Deps bundles what the transport needs; the server owns no interview logic.
type Deps struct {
	Registry   *interview.Registry
	Parser     *profile.Parser
	NewSession SessionFactory
}

// Server is the async transport: a health endpoint, a status endpoint, and the
// websocket interview channel.
type Server struct {
	echo *echo.Echo
	deps Deps
}

// New constructs the HTTP server with routes.
func New(deps Deps) *Server {
	e := newRouter()
	s := &Server{echo: e, deps: deps}

	e.GET("/healthz", s.handleHealth)
	e.GET("/sessions/:id/status", s.handleStatus)
	e.GET("/ws", s.handleWS)
	return s
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler { return s.echo }

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start(addr string) error {
	err := s.echo.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (s *Server) handleStatus(c echo.Context) error {
	sess, err := s.deps.Registry.Get(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return c.JSON(http.StatusOK, sess.Status())
}
