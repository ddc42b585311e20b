package teams_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meethub/eventsvc/internal/domain/event"
	"github.com/meethub/eventsvc/internal/domain/team"
	"github.com/meethub/eventsvc/internal/domain/user"
	"github.com/meethub/eventsvc/internal/repo/memory"
	"github.com/meethub/eventsvc/internal/service/events"
	"github.com/meethub/eventsvc/internal/service/teams"
)

type fakeUsers struct {
	errByID map[int64]error
}

func (f *fakeUsers) GetUserByID(ctx context.Context, callerID, id int64) (user.User, error) {
	if err, ok := f.errByID[id]; ok {
		return user.User{}, err
	}
	return user.User{ID: id}, nil
}

type fixture struct {
	events  *events.Service
	teams   *teams.Service
	eventID int64
}

// newFixture wires both engines over memory stores; user 1 owns the event.
func newFixture(t *testing.T, policy events.VerifyPolicy, users *fakeUsers) fixture {
	t.Helper()

	eventSvc := events.NewService(memory.NewEventsRepo(), users, policy, nil)
	teamSvc := teams.NewService(memory.NewTeamMembersRepo(), eventSvc, nil)

	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	created, err := eventSvc.Create(context.Background(), 1, event.CreateEventRequest{
		Name:               "Conference",
		Description:        "Annual conference",
		StartDateTime:      start,
		EndDateTime:        start.Add(8 * time.Hour),
		Location:           "Berlin",
		RegistrationStatus: event.RegistrationOpen,
	})
	require.NoError(t, err)

	return fixture{events: eventSvc, teams: teamSvc, eventID: created.ID}
}

func newMemberRequest(eventID, userID int64, role team.Role) team.NewTeamMemberRequest {
	return team.NewTeamMemberRequest{EventID: eventID, UserID: userID, Role: role}
}

func TestAddTeamMember(t *testing.T) {
	ctx := context.Background()

	t.Run("owner adds a member", func(t *testing.T) {
		f := newFixture(t, events.VerifyOff, nil)

		added, err := f.teams.Add(ctx, 1, newMemberRequest(f.eventID, 2, team.RoleMember))
		require.NoError(t, err)

		assert.Equal(t, f.eventID, added.EventID)
		assert.Equal(t, int64(2), added.UserID)
		assert.Equal(t, team.RoleMember, added.Role)
	})

	t.Run("manager adds a member", func(t *testing.T) {
		f := newFixture(t, events.VerifyOff, nil)

		_, err := f.teams.Add(ctx, 1, newMemberRequest(f.eventID, 2, team.RoleManager))
		require.NoError(t, err)

		_, err = f.teams.Add(ctx, 2, newMemberRequest(f.eventID, 3, team.RoleMember))
		require.NoError(t, err)
	})

	t.Run("plain member is rejected", func(t *testing.T) {
		f := newFixture(t, events.VerifyOff, nil)

		_, err := f.teams.Add(ctx, 1, newMemberRequest(f.eventID, 2, team.RoleMember))
		require.NoError(t, err)

		_, err = f.teams.Add(ctx, 2, newMemberRequest(f.eventID, 3, team.RoleMember))
		require.ErrorIs(t, err, team.ErrNotAuthorized)
	})

	t.Run("stranger is rejected", func(t *testing.T) {
		f := newFixture(t, events.VerifyOff, nil)

		_, err := f.teams.Add(ctx, 5, newMemberRequest(f.eventID, 3, team.RoleMember))
		require.ErrorIs(t, err, team.ErrNotAuthorized)
	})

	t.Run("missing event is not found", func(t *testing.T) {
		f := newFixture(t, events.VerifyOff, nil)

		_, err := f.teams.Add(ctx, 1, newMemberRequest(404, 2, team.RoleMember))
		require.ErrorIs(t, err, event.ErrNotFound)
	})

	t.Run("verifies actor and target under the create policy", func(t *testing.T) {
		users := &fakeUsers{errByID: map[int64]error{7: user.ErrNotFound}}
		f := newFixture(t, events.VerifyOnCreate, users)

		_, err := f.teams.Add(ctx, 1, newMemberRequest(f.eventID, 7, team.RoleMember))
		require.ErrorIs(t, err, user.ErrNotFound)
	})
}

func TestListTeam(t *testing.T) {
	ctx := context.Background()

	t.Run("empty team lists as empty", func(t *testing.T) {
		f := newFixture(t, events.VerifyOff, nil)

		members, err := f.teams.List(ctx, 2, f.eventID)
		require.NoError(t, err)
		assert.NotNil(t, members)
		assert.Empty(t, members)
	})

	t.Run("any user may read the team", func(t *testing.T) {
		f := newFixture(t, events.VerifyOff, nil)

		_, err := f.teams.Add(ctx, 1, newMemberRequest(f.eventID, 2, team.RoleMember))
		require.NoError(t, err)

		members, err := f.teams.List(ctx, 99, f.eventID)
		require.NoError(t, err)
		require.Len(t, members, 1)
	})

	t.Run("missing event is not found", func(t *testing.T) {
		f := newFixture(t, events.VerifyOff, nil)

		_, err := f.teams.List(ctx, 1, 404)
		require.ErrorIs(t, err, event.ErrNotFound)
	})
}

func TestUpdateTeamMember(t *testing.T) {
	ctx := context.Background()

	t.Run("owner promotes a member to manager", func(t *testing.T) {
		f := newFixture(t, events.VerifyOff, nil)

		_, err := f.teams.Add(ctx, 1, newMemberRequest(f.eventID, 2, team.RoleMember))
		require.NoError(t, err)

		updated, err := f.teams.UpdateRole(ctx, 1, f.eventID, 2, team.UpdateTeamMemberRequest{Role: team.RoleManager})
		require.NoError(t, err)
		assert.Equal(t, team.RoleManager, updated.Role)

		members, err := f.teams.List(ctx, 1, f.eventID)
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, team.RoleManager, members[0].Role)
	})

	t.Run("member cannot change roles", func(t *testing.T) {
		f := newFixture(t, events.VerifyOff, nil)

		_, err := f.teams.Add(ctx, 1, newMemberRequest(f.eventID, 2, team.RoleMember))
		require.NoError(t, err)

		_, err = f.teams.UpdateRole(ctx, 2, f.eventID, 2, team.UpdateTeamMemberRequest{Role: team.RoleManager})
		require.ErrorIs(t, err, team.ErrNotAuthorized)
	})

	t.Run("missing member is not found", func(t *testing.T) {
		f := newFixture(t, events.VerifyOff, nil)

		_, err := f.teams.UpdateRole(ctx, 1, f.eventID, 42, team.UpdateTeamMemberRequest{Role: team.RoleManager})
		require.ErrorIs(t, err, team.ErrNotFound)
	})
}

func TestRemoveTeamMember(t *testing.T) {
	ctx := context.Background()

	t.Run("owner removes a member", func(t *testing.T) {
		f := newFixture(t, events.VerifyOff, nil)

		_, err := f.teams.Add(ctx, 1, newMemberRequest(f.eventID, 2, team.RoleMember))
		require.NoError(t, err)

		require.NoError(t, f.teams.Remove(ctx, 1, f.eventID, 2))

		members, err := f.teams.List(ctx, 1, f.eventID)
		require.NoError(t, err)
		assert.Empty(t, members)
	})

	t.Run("manager removes a member", func(t *testing.T) {
		f := newFixture(t, events.VerifyOff, nil)

		_, err := f.teams.Add(ctx, 1, newMemberRequest(f.eventID, 2, team.RoleManager))
		require.NoError(t, err)
		_, err = f.teams.Add(ctx, 1, newMemberRequest(f.eventID, 3, team.RoleMember))
		require.NoError(t, err)

		require.NoError(t, f.teams.Remove(ctx, 2, f.eventID, 3))
	})

	t.Run("plain member is rejected", func(t *testing.T) {
		f := newFixture(t, events.VerifyOff, nil)

		_, err := f.teams.Add(ctx, 1, newMemberRequest(f.eventID, 2, team.RoleMember))
		require.NoError(t, err)

		err = f.teams.Remove(ctx, 2, f.eventID, 2)
		require.ErrorIs(t, err, team.ErrNotAuthorized)
	})

	t.Run("missing member is not found", func(t *testing.T) {
		f := newFixture(t, events.VerifyOff, nil)

		err := f.teams.Remove(ctx, 1, f.eventID, 42)
		require.ErrorIs(t, err, team.ErrNotFound)
	})
}
