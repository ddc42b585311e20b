package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/meethub/eventsvc/internal/domain/event"
	"github.com/meethub/eventsvc/internal/domain/user"
)

// VerifyPolicy controls when user existence is asserted against the
// user service. The source of truth for identities lives remotely, so
// this is a deployment policy, not a hard invariant.
type VerifyPolicy string

const (
	// VerifyOnCreate checks the acting user when an event is created
	// and both actor and target when a team member is added.
	VerifyOnCreate VerifyPolicy = "create"
	// VerifyAlways additionally checks the acting user on every
	// mutating operation.
	VerifyAlways VerifyPolicy = "always"
	// VerifyOff never calls the user service.
	VerifyOff VerifyPolicy = "off"
)

type Store interface {
	Create(ctx context.Context, e event.Event) (event.Event, error)
	GetByID(ctx context.Context, id int64) (event.Event, error)
	Update(ctx context.Context, e event.Event) (event.Event, error)
	List(ctx context.Context, filter event.SearchFilter, limit, offset int) ([]event.Event, error)
	Delete(ctx context.Context, id int64) error
}

type UserVerifier interface {
	GetUserByID(ctx context.Context, callerID, id int64) (user.User, error)
}

type Service struct {
	store  Store
	users  UserVerifier
	policy VerifyPolicy
	log    *slog.Logger
}

func NewService(store Store, users UserVerifier, policy VerifyPolicy, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}

	return &Service{store: store, users: users, policy: policy, log: log}
}

func (s *Service) Policy() VerifyPolicy {
	return s.policy
}

// VerifyUser asserts that a user exists in the remote user service.
// Shared with the team service so both engines apply one policy.
func (s *Service) VerifyUser(ctx context.Context, callerID, id int64) error {
	if s.policy == VerifyOff || s.users == nil {
		return nil
	}

	_, err := s.users.GetUserByID(ctx, callerID, id)
	if err != nil {
		return fmt.Errorf("verify user id=%d: %w", id, err)
	}

	return nil
}

func (s *Service) Create(ctx context.Context, userID int64, req event.CreateEventRequest) (event.Event, error) {
	if err := s.VerifyUser(ctx, userID, userID); err != nil {
		return event.Event{}, err
	}

	if err := checkDateRange(req.StartDateTime, req.EndDateTime); err != nil {
		return event.Event{}, err
	}

	e := event.Event{
		Name:               req.Name,
		Description:        req.Description,
		StartDateTime:      req.StartDateTime,
		EndDateTime:        req.EndDateTime,
		Location:           req.Location,
		OwnerID:            userID,
		ParticipantLimit:   req.ParticipantLimit,
		RegistrationStatus: req.RegistrationStatus,
	}

	created, err := s.store.Create(ctx, e)
	if err != nil {
		return event.Event{}, fmt.Errorf("create event: %w", err)
	}

	s.log.InfoContext(ctx, "event created", "event_id", created.ID, "owner_id", userID)

	return created, nil
}

func (s *Service) Update(ctx context.Context, userID, eventID int64, req event.UpdateEventRequest) (event.Event, error) {
	if s.policy == VerifyAlways {
		if err := s.VerifyUser(ctx, userID, userID); err != nil {
			return event.Event{}, err
		}
	}

	e, err := s.store.GetByID(ctx, eventID)
	if err != nil {
		return event.Event{}, err
	}

	if e.OwnerID != userID {
		return event.Event{}, fmt.Errorf("user id=%d event id=%d: %w", userID, eventID, event.ErrNotOwner)
	}

	applyPatch(&e, req)

	// validate the merged pair, not just the touched field
	if err := checkDateRange(e.StartDateTime, e.EndDateTime); err != nil {
		return event.Event{}, err
	}

	updated, err := s.store.Update(ctx, e)
	if err != nil {
		return event.Event{}, fmt.Errorf("update event id=%d: %w", eventID, err)
	}

	s.log.InfoContext(ctx, "event updated", "event_id", eventID, "user_id", userID)

	return updated, nil
}

// GetByID returns the event with the creation timestamp hidden from
// everyone but the owner. The stored record is never mutated.
func (s *Service) GetByID(ctx context.Context, eventID, requesterID int64) (event.Event, error) {
	e, err := s.store.GetByID(ctx, eventID)
	if err != nil {
		return event.Event{}, err
	}

	if e.OwnerID != requesterID {
		e.CreatedDateTime = nil
	}

	return e, nil
}

func (s *Service) List(ctx context.Context, from, size int, filter SearchFilter) ([]event.Event, error) {
	f := event.SearchFilter{OwnerID: filter.OwnerID}

	if filter.Status != nil {
		status, err := event.ParseRegistrationStatus(*filter.Status)
		if err != nil {
			return nil, fmt.Errorf("status %q: %w", *filter.Status, err)
		}
		f.Status = &status
	}

	events, err := s.store.List(ctx, f, size, from*size)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	s.log.DebugContext(ctx, "events listed", "count", len(events), "from", from, "size", size)

	return events, nil
}

func (s *Service) Delete(ctx context.Context, userID, eventID int64) error {
	if s.policy == VerifyAlways {
		if err := s.VerifyUser(ctx, userID, userID); err != nil {
			return err
		}
	}

	e, err := s.store.GetByID(ctx, eventID)
	if err != nil {
		return err
	}

	if e.OwnerID != userID {
		return fmt.Errorf("user id=%d event id=%d: %w", userID, eventID, event.ErrNotOwner)
	}

	if err := s.store.Delete(ctx, eventID); err != nil {
		return fmt.Errorf("delete event id=%d: %w", eventID, err)
	}

	s.log.InfoContext(ctx, "event deleted", "event_id", eventID, "user_id", userID)

	return nil
}

// SearchFilter carries the raw wire filter; the status name is
// resolved against the enum here so an unknown value fails the list.
type SearchFilter struct {
	OwnerID *int64
	Status  *string
}

func checkDateRange(start, end time.Time) error {
	if end.Before(start) {
		return fmt.Errorf("end %s before start %s: %w", end, start, event.ErrDateRange)
	}

	return nil
}

func applyPatch(e *event.Event, req event.UpdateEventRequest) {
	if req.Name != nil {
		e.Name = *req.Name
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.StartDateTime != nil {
		e.StartDateTime = *req.StartDateTime
	}
	if req.EndDateTime != nil {
		e.EndDateTime = *req.EndDateTime
	}
	if req.Location != nil {
		e.Location = *req.Location
	}
	if req.ParticipantLimit != nil {
		e.ParticipantLimit = *req.ParticipantLimit
	}
	if req.RegistrationStatus != nil {
		e.RegistrationStatus = *req.RegistrationStatus
	}
}
