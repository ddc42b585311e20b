package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/meethub/eventsvc/internal/domain/event"
	"github.com/meethub/eventsvc/internal/domain/team"
	"github.com/meethub/eventsvc/internal/domain/user"
	"github.com/meethub/eventsvc/internal/http/middlewares"
)

type TeamsService interface {
	Add(ctx context.Context, userID int64, req team.NewTeamMemberRequest) (team.TeamMember, error)
	List(ctx context.Context, userID, eventID int64) ([]team.TeamMember, error)
	UpdateRole(ctx context.Context, userID, eventID, memberID int64, req team.UpdateTeamMemberRequest) (team.TeamMember, error)
	Remove(ctx context.Context, userID, eventID, memberID int64) error
}

type TeamsHandler struct {
	svc TeamsService
}

func NewTeamsHandler(svc TeamsService) *TeamsHandler {
	return &TeamsHandler{svc: svc}
}

func (h *TeamsHandler) AddTeamMember(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "Missing identity")
		return
	}

	var req team.NewTeamMemberRequest

	if !BindJSON(ctx, &req) {
		return
	}

	added, err := h.svc.Add(ctx.Request.Context(), userID, req)

	if err != nil {
		respondTeamError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, added)
}

func (h *TeamsHandler) GetTeamByEventID(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "Missing identity")
		return
	}

	eventID, ok := eventIDParam(ctx)
	if !ok {
		return
	}

	members, err := h.svc.List(ctx.Request.Context(), userID, eventID)

	if err != nil {
		respondTeamError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, members)
}

func (h *TeamsHandler) UpdateTeamMember(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "Missing identity")
		return
	}

	eventID, ok := eventIDParam(ctx)
	if !ok {
		return
	}

	memberID, ok := memberIDParam(ctx)
	if !ok {
		return
	}

	var req team.UpdateTeamMemberRequest

	if !BindJSON(ctx, &req) {
		return
	}

	updated, err := h.svc.UpdateRole(ctx.Request.Context(), userID, eventID, memberID, req)

	if err != nil {
		respondTeamError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

func (h *TeamsHandler) DeleteTeamMember(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "Missing identity")
		return
	}

	eventID, ok := eventIDParam(ctx)
	if !ok {
		return
	}

	memberID, ok := memberIDParam(ctx)
	if !ok {
		return
	}

	err := h.svc.Remove(ctx.Request.Context(), userID, eventID, memberID)

	if err != nil {
		respondTeamError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func memberIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("memberId"), 10, 64)

	if err != nil || id <= 0 {
		RespondBadRequest(ctx, "member id must be a positive number")
		return 0, false
	}

	return id, true
}

func respondTeamError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, event.ErrNotFound),
		errors.Is(err, team.ErrNotFound),
		errors.Is(err, user.ErrNotFound):
		RespondNotFound(ctx, err.Error())

	case errors.Is(err, team.ErrNotAuthorized):
		RespondForbidden(ctx, err.Error())

	default:
		RespondInternal(ctx, "Something went wrong")
	}
}
