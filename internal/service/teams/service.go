package teams

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/meethub/eventsvc/internal/domain/event"
	"github.com/meethub/eventsvc/internal/domain/team"
	"github.com/meethub/eventsvc/internal/service/events"
)

type Store interface {
	Get(ctx context.Context, key team.MemberKey) (team.TeamMember, error)
	ListByEvent(ctx context.Context, eventID int64) ([]team.TeamMember, error)
	Save(ctx context.Context, m team.TeamMember) (team.TeamMember, error)
	Delete(ctx context.Context, key team.MemberKey) error
}

// EventService is the slice of the event policy engine the team engine
// relies on: event lookups (so a missing event surfaces as not found)
// and the shared user verification policy.
type EventService interface {
	GetByID(ctx context.Context, eventID, requesterID int64) (event.Event, error)
	VerifyUser(ctx context.Context, callerID, id int64) error
	Policy() events.VerifyPolicy
}

type Service struct {
	store  Store
	events EventService
	log    *slog.Logger
}

func NewService(store Store, eventSvc EventService, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}

	return &Service{store: store, events: eventSvc, log: log}
}

func (s *Service) Add(ctx context.Context, userID int64, req team.NewTeamMemberRequest) (team.TeamMember, error) {
	if s.events.Policy() != events.VerifyOff {
		if err := s.events.VerifyUser(ctx, userID, userID); err != nil {
			return team.TeamMember{}, err
		}
		if err := s.events.VerifyUser(ctx, userID, req.UserID); err != nil {
			return team.TeamMember{}, err
		}
	}

	if err := s.requireOwnerOrManager(ctx, req.EventID, userID); err != nil {
		return team.TeamMember{}, err
	}

	m := team.TeamMember{
		EventID: req.EventID,
		UserID:  req.UserID,
		Role:    req.Role,
	}

	saved, err := s.store.Save(ctx, m)
	if err != nil {
		return team.TeamMember{}, fmt.Errorf("add team member: %w", err)
	}

	s.log.InfoContext(ctx, "team member added",
		"event_id", saved.EventID, "member_id", saved.UserID, "role", saved.Role, "user_id", userID)

	return saved, nil
}

// List returns the team of an event, empty when there is none. Reads
// are not role-gated; the event lookup still rejects missing events.
func (s *Service) List(ctx context.Context, userID, eventID int64) ([]team.TeamMember, error) {
	if _, err := s.events.GetByID(ctx, eventID, userID); err != nil {
		return nil, err
	}

	members, err := s.store.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list team event id=%d: %w", eventID, err)
	}

	s.log.DebugContext(ctx, "team listed", "event_id", eventID, "count", len(members), "user_id", userID)

	return members, nil
}

func (s *Service) UpdateRole(ctx context.Context, userID, eventID, memberID int64, req team.UpdateTeamMemberRequest) (team.TeamMember, error) {
	if s.events.Policy() == events.VerifyAlways {
		if err := s.events.VerifyUser(ctx, userID, userID); err != nil {
			return team.TeamMember{}, err
		}
	}

	if err := s.requireOwnerOrManager(ctx, eventID, userID); err != nil {
		return team.TeamMember{}, err
	}

	m, err := s.store.Get(ctx, team.MemberKey{EventID: eventID, UserID: memberID})
	if err != nil {
		return team.TeamMember{}, err
	}

	m.Role = req.Role

	updated, err := s.store.Save(ctx, m)
	if err != nil {
		return team.TeamMember{}, fmt.Errorf("update team member: %w", err)
	}

	s.log.InfoContext(ctx, "team member updated",
		"event_id", eventID, "member_id", memberID, "role", updated.Role, "user_id", userID)

	return updated, nil
}

func (s *Service) Remove(ctx context.Context, userID, eventID, memberID int64) error {
	if s.events.Policy() == events.VerifyAlways {
		if err := s.events.VerifyUser(ctx, userID, userID); err != nil {
			return err
		}
	}

	if err := s.requireOwnerOrManager(ctx, eventID, userID); err != nil {
		return err
	}

	key := team.MemberKey{EventID: eventID, UserID: memberID}

	if _, err := s.store.Get(ctx, key); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete team member: %w", err)
	}

	s.log.InfoContext(ctx, "team member removed", "event_id", eventID, "member_id", memberID, "user_id", userID)

	return nil
}

// requireOwnerOrManager is the shared mutation gate: the acting user
// must own the event or hold a MANAGER row on it. The event is loaded
// through the event engine, so a missing event is not found, not a
// silent authorization failure.
func (s *Service) requireOwnerOrManager(ctx context.Context, eventID, userID int64) error {
	e, err := s.events.GetByID(ctx, eventID, userID)
	if err != nil {
		return err
	}

	if e.OwnerID == userID {
		return nil
	}

	m, err := s.store.Get(ctx, team.MemberKey{EventID: eventID, UserID: userID})
	if err != nil {
		if errors.Is(err, team.ErrNotFound) {
			return fmt.Errorf("user id=%d event id=%d: %w", userID, eventID, team.ErrNotAuthorized)
		}
		return err
	}

	if m.Role != team.RoleManager {
		return fmt.Errorf("user id=%d event id=%d: %w", userID, eventID, team.ErrNotAuthorized)
	}

	return nil
}
