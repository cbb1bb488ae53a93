package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parlorhq/parlor/core"
	"github.com/parlorhq/parlor/room"
	"github.com/parlorhq/parlor/turn"
)

type chatRequest struct {
	RoomID   string `json:"room_id" validate:"required"`
	Message  string `json:"message" validate:"required"`
	UserName string `json:"user_name"`
}

// chat runs one turn and relays its event feed as server-sent events, one
// JSON fragment per "data:" line. Closing the connection cancels the
// in-flight stream; the current participant's partial reply is committed
// and the turn ends.
func (s *Server) chat(c echo.Context) error {
	var req chatRequest
	if err := s.bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.UserName == "" {
		req.UserName = "Me"
	}

	ctx := c.Request().Context()
	sess, err := s.hub.Session(ctx, req.RoomID)
	if errors.Is(err, room.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "group not found")
	}
	if err != nil {
		s.log.Error("open session", "error", err.Error())
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to open group")
	}

	// Headers are written lazily on the first event so turn-start
	// validation failures can still produce a plain error response.
	res := c.Response()
	started := false
	sink := func(ev core.TurnEvent) {
		if !started {
			res.Header().Set(echo.HeaderContentType, "text/event-stream")
			res.Header().Set("Cache-Control", "no-cache")
			res.Header().Set("Connection", "keep-alive")
			res.WriteHeader(http.StatusOK)
			started = true
		}
		data, err := json.Marshal(ev)
		if err != nil {
			return
		}
		if _, err := res.Write([]byte("data: " + string(data) + "\n\n")); err != nil {
			return
		}
		res.Flush()
	}

	err = s.orch.Run(ctx, sess, req.UserName, req.Message, sink)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, core.ErrTurnInFlight):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, turn.ErrEmptyMessage), errors.Is(err, turn.ErrNoParticipants):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		s.log.Error("turn failed", "room", req.RoomID, "error", err.Error())
		return echo.NewHTTPError(http.StatusInternalServerError, "turn failed")
	}
}
