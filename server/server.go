// Package server exposes the HTTP boundary: character listing and creation,
// group CRUD, and the streaming chat endpoint that relays turn events to the
// client as server-sent events.
package server

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/parlorhq/parlor/character"
	"github.com/parlorhq/parlor/logging"
	"github.com/parlorhq/parlor/room"
	"github.com/parlorhq/parlor/turn"
)

// Server bundles the echo instance with its collaborators.
type Server struct {
	echo     *echo.Echo
	registry *character.Registry
	chars    character.Store
	rooms    room.Store
	hub      *room.Hub
	orch     *turn.Orchestrator
	validate *validator.Validate
	log      logging.Logger
}

// New assembles the HTTP server and registers all routes.
func New(registry *character.Registry, chars character.Store, rooms room.Store, hub *room.Hub, orch *turn.Orchestrator, log logging.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:     e,
		registry: registry,
		chars:    chars,
		rooms:    rooms,
		hub:      hub,
		orch:     orch,
		validate: validator.New(),
		log:      log,
	}

	api := e.Group("/api")
	api.GET("/characters", s.listCharacters)
	api.POST("/characters", s.addCharacter)
	api.POST("/groups", s.createGroup)
	api.GET("/groups", s.listGroups)
	api.GET("/groups/:id", s.groupDetails)
	api.GET("/groups/:id/messages", s.groupMessages)
	api.PUT("/groups/:id/mute", s.setMute)
	api.POST("/chat", s.chat)

	return s
}

// Start begins serving on addr and blocks until shutdown.
func (s *Server) Start(addr string) error { return s.echo.Start(addr) }

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error { return s.echo.Shutdown(ctx) }

// Handler exposes the underlying http.Handler for tests.
func (s *Server) Handler() http.Handler { return s.echo }

// bindAndValidate decodes the request body and runs struct validation,
// normalizing both failure classes to 400.
func (s *Server) bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
