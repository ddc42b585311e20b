package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/meethub/eventsvc/internal/domain/event"
	"github.com/meethub/eventsvc/internal/domain/user"
	"github.com/meethub/eventsvc/internal/http/middlewares"
	"github.com/meethub/eventsvc/internal/service/events"
)

type EventsService interface {
	Create(ctx context.Context, userID int64, req event.CreateEventRequest) (event.Event, error)
	Update(ctx context.Context, userID, eventID int64, req event.UpdateEventRequest) (event.Event, error)
	GetByID(ctx context.Context, eventID, requesterID int64) (event.Event, error)
	List(ctx context.Context, from, size int, filter events.SearchFilter) ([]event.Event, error)
	Delete(ctx context.Context, userID, eventID int64) error
}

type EventsHandler struct {
	svc EventsService
}

func NewEventsHandler(svc EventsService) *EventsHandler {
	return &EventsHandler{svc: svc}
}

func (h *EventsHandler) CreateEvent(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "Missing identity")
		return
	}

	var req event.CreateEventRequest

	if !BindJSON(ctx, &req) {
		return
	}

	created, err := h.svc.Create(ctx.Request.Context(), userID, req)

	if err != nil {
		respondEventError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

func (h *EventsHandler) UpdateEvent(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "Missing identity")
		return
	}

	eventID, ok := eventIDParam(ctx)
	if !ok {
		return
	}

	var req event.UpdateEventRequest

	if !BindJSON(ctx, &req) {
		return
	}

	updated, err := h.svc.Update(ctx.Request.Context(), userID, eventID, req)

	if err != nil {
		respondEventError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

func (h *EventsHandler) GetEventByID(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "Missing identity")
		return
	}

	eventID, ok := eventIDParam(ctx)
	if !ok {
		return
	}

	e, err := h.svc.GetByID(ctx.Request.Context(), eventID, userID)

	if err != nil {
		respondEventError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, e)
}

func (h *EventsHandler) ListEvents(ctx *gin.Context) {
	from, size, ok := pageParams(ctx)
	if !ok {
		return
	}

	var filter events.SearchFilter

	if raw := ctx.Query("userId"); raw != "" {
		ownerID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			RespondInternal(ctx, "Could not list events")
			return
		}
		filter.OwnerID = &ownerID
	}

	if raw := ctx.Query("registrationStatus"); raw != "" {
		filter.Status = &raw
	}

	list, err := h.svc.List(ctx.Request.Context(), from, size, filter)

	if err != nil {
		respondEventError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, list)
}

func (h *EventsHandler) DeleteEvent(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "Missing identity")
		return
	}

	eventID, ok := eventIDParam(ctx)
	if !ok {
		return
	}

	err := h.svc.Delete(ctx.Request.Context(), userID, eventID)

	if err != nil {
		respondEventError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func eventIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)

	if err != nil || id <= 0 {
		RespondBadRequest(ctx, "event id must be a positive number")
		return 0, false
	}

	return id, true
}

// pageParams parses from/size with the legacy defaults. Junk paging
// values surface as a 500, matching the previous surface.
func pageParams(ctx *gin.Context) (int, int, bool) {
	from := 0
	size := 10

	if raw := ctx.Query("from"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			RespondInternal(ctx, "Could not list events")
			return 0, 0, false
		}
		from = v
	}

	if raw := ctx.Query("size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			RespondInternal(ctx, "Could not list events")
			return 0, 0, false
		}
		size = v
	}

	if from < 0 || size <= 0 {
		RespondInternal(ctx, "Could not list events")
		return 0, 0, false
	}

	return from, size, true
}

func respondEventError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, event.ErrNotFound),
		errors.Is(err, event.ErrUnknownStatus),
		errors.Is(err, user.ErrNotFound):
		RespondNotFound(ctx, err.Error())

	case errors.Is(err, event.ErrNotOwner):
		RespondForbidden(ctx, err.Error())

	case errors.Is(err, event.ErrDateRange):
		RespondBadRequest(ctx, err.Error())

	default:
		RespondInternal(ctx, "Something went wrong")
	}
}
