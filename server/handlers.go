package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/parlorhq/parlor/character"
	"github.com/parlorhq/parlor/core"
	"github.com/parlorhq/parlor/room"
)

type addCharacterRequest struct {
	Name    string `json:"name" validate:"required"`
	Model   string `json:"model" validate:"required"`
	APIKey  string `json:"api_key" validate:"required"`
	BaseURL string `json:"base_url" validate:"omitempty,url"`
	Prompt  string `json:"prompt"`
	Avatar  string `json:"avatar"`
}

type createGroupRequest struct {
	Name      string   `json:"name" validate:"required"`
	MemberIDs []string `json:"member_ids" validate:"required,min=1,dive,required"`
	OwnerID   string   `json:"owner_id"`
}

type setMuteRequest struct {
	ParticipantID string `json:"participant_id" validate:"required"`
	Muted         bool   `json:"muted"`
}

// listCharacters merges the built-in catalog with persisted custom
// characters.
func (s *Server) listCharacters(c echo.Context) error {
	list, err := s.registry.ListAll(c.Request().Context())
	if err != nil {
		s.log.Error("list characters", "error", err.Error())
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list characters")
	}
	return c.JSON(http.StatusOK, list)
}

// addCharacter persists a new custom character under a reserved-prefix id.
func (s *Server) addCharacter(c echo.Context) error {
	var req addCharacterRequest
	if err := s.bindAndValidate(c, &req); err != nil {
		return err
	}
	custom := character.Custom{
		ID:        "custom_" + core.NewID(),
		Name:      req.Name,
		Model:     req.Model,
		BaseURL:   req.BaseURL,
		APIKey:    req.APIKey,
		Prompt:    req.Prompt,
		Avatar:    req.Avatar,
		CreatedAt: time.Now().UTC(),
	}
	if custom.Avatar == "" {
		custom.Avatar = "/img/custom-bot.png"
	}
	if err := s.chars.Put(c.Request().Context(), custom); err != nil {
		s.log.Error("store character", "error", err.Error())
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to store character")
	}
	return c.JSON(http.StatusCreated, map[string]string{"id": custom.ID})
}

// createGroup validates and persists a new room.
func (s *Server) createGroup(c echo.Context) error {
	var req createGroupRequest
	if err := s.bindAndValidate(c, &req); err != nil {
		return err
	}
	owner := req.OwnerID
	if owner == "" {
		owner = "anonymous"
	}
	r := core.Room{
		ID:        "group_" + core.NewID(),
		Name:      req.Name,
		MemberIDs: req.MemberIDs,
		OwnerID:   owner,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.rooms.Create(c.Request().Context(), r); err != nil {
		s.log.Error("create group", "error", err.Error())
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create group")
	}
	return c.JSON(http.StatusCreated, map[string]string{"id": r.ID})
}

// listGroups lists rooms, optionally filtered by owner.
func (s *Server) listGroups(c echo.Context) error {
	rooms, err := s.rooms.List(c.Request().Context(), c.QueryParam("userId"))
	if err != nil {
		s.log.Error("list groups", "error", err.Error())
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list groups")
	}
	return c.JSON(http.StatusOK, rooms)
}

// groupDetails returns one room's configuration.
func (s *Server) groupDetails(c echo.Context) error {
	r, err := s.rooms.Get(c.Request().Context(), c.Param("id"))
	if errors.Is(err, room.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "group not found")
	}
	if err != nil {
		s.log.Error("group details", "error", err.Error())
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch group")
	}
	return c.JSON(http.StatusOK, r)
}

// groupMessages returns the room's current message list, including any open
// placeholder, for rendering.
func (s *Server) groupMessages(c echo.Context) error {
	sess, err := s.hub.Session(c.Request().Context(), c.Param("id"))
	if errors.Is(err, room.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "group not found")
	}
	if err != nil {
		s.log.Error("group messages", "error", err.Error())
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to open group")
	}
	return c.JSON(http.StatusOK, sess.Messages())
}

// setMute toggles a participant's room-scoped mute flag. A turn already in
// flight keeps its snapshot.
func (s *Server) setMute(c echo.Context) error {
	var req setMuteRequest
	if err := s.bindAndValidate(c, &req); err != nil {
		return err
	}
	sess, err := s.hub.Session(c.Request().Context(), c.Param("id"))
	if errors.Is(err, room.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "group not found")
	}
	if err != nil {
		s.log.Error("set mute", "error", err.Error())
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to open group")
	}
	if req.Muted {
		sess.Mute(req.ParticipantID)
	} else {
		sess.Unmute(req.ParticipantID)
	}
	return c.NoContent(http.StatusNoContent)
}
