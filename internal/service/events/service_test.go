package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meethub/eventsvc/internal/domain/event"
	"github.com/meethub/eventsvc/internal/domain/user"
	"github.com/meethub/eventsvc/internal/repo/memory"
	"github.com/meethub/eventsvc/internal/service/events"
)

// fakeUsers stands in for the user service client.
type fakeUsers struct {
	errByID map[int64]error
	calls   int
}

func (f *fakeUsers) GetUserByID(ctx context.Context, callerID, id int64) (user.User, error) {
	f.calls++
	if err, ok := f.errByID[id]; ok {
		return user.User{}, err
	}
	return user.User{ID: id, Name: "someone"}, nil
}

func newService(policy events.VerifyPolicy, users *fakeUsers) (*events.Service, *memory.EventsRepo) {
	repo := memory.NewEventsRepo()
	return events.NewService(repo, users, policy, nil), repo
}

func validCreateRequest() event.CreateEventRequest {
	start := time.Date(2024, 12, 26, 18, 0, 0, 0, time.UTC)

	return event.CreateEventRequest{
		Name:               "Go Meetup",
		Description:        "Monthly backend meetup",
		StartDateTime:      start,
		EndDateTime:        start.Add(4 * time.Hour),
		Location:           "Toronto",
		ParticipantLimit:   50,
		RegistrationStatus: event.RegistrationOpen,
	}
}

func TestCreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns owner and creation timestamp", func(t *testing.T) {
		svc, _ := newService(events.VerifyOff, nil)

		created, err := svc.Create(ctx, 1, validCreateRequest())
		require.NoError(t, err)

		assert.Equal(t, int64(1), created.OwnerID)
		assert.NotZero(t, created.ID)
		require.NotNil(t, created.CreatedDateTime)
	})

	t.Run("rejects end before start", func(t *testing.T) {
		svc, _ := newService(events.VerifyOff, nil)

		req := validCreateRequest()
		req.EndDateTime = req.StartDateTime.Add(-time.Hour)

		_, err := svc.Create(ctx, 1, req)
		require.ErrorIs(t, err, event.ErrDateRange)
	})

	t.Run("verifies the acting user under the create policy", func(t *testing.T) {
		users := &fakeUsers{errByID: map[int64]error{9: user.ErrNotFound}}
		svc, _ := newService(events.VerifyOnCreate, users)

		_, err := svc.Create(ctx, 9, validCreateRequest())
		require.ErrorIs(t, err, user.ErrNotFound)
		assert.Equal(t, 1, users.calls)
	})

	t.Run("skips verification when the policy is off", func(t *testing.T) {
		users := &fakeUsers{errByID: map[int64]error{1: user.ErrNotFound}}
		svc, _ := newService(events.VerifyOff, users)

		_, err := svc.Create(ctx, 1, validCreateRequest())
		require.NoError(t, err)
		assert.Equal(t, 0, users.calls)
	})
}

func TestUpdateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("applies only the provided fields", func(t *testing.T) {
		svc, _ := newService(events.VerifyOff, nil)

		created, err := svc.Create(ctx, 1, validCreateRequest())
		require.NoError(t, err)

		name := "Go Meetup (rescheduled)"
		updated, err := svc.Update(ctx, 1, created.ID, event.UpdateEventRequest{Name: &name})
		require.NoError(t, err)

		assert.Equal(t, name, updated.Name)
		assert.Equal(t, created.Description, updated.Description)
		assert.Equal(t, created.StartDateTime, updated.StartDateTime)
		assert.Equal(t, created.EndDateTime, updated.EndDateTime)
		assert.Equal(t, created.Location, updated.Location)
		assert.Equal(t, created.ParticipantLimit, updated.ParticipantLimit)
		assert.Equal(t, created.RegistrationStatus, updated.RegistrationStatus)
	})

	t.Run("revalidates the merged date pair", func(t *testing.T) {
		svc, _ := newService(events.VerifyOff, nil)

		created, err := svc.Create(ctx, 1, validCreateRequest())
		require.NoError(t, err)

		// end moved a year back without touching start
		end := created.EndDateTime.AddDate(-1, 0, 0)
		_, err = svc.Update(ctx, 1, created.ID, event.UpdateEventRequest{EndDateTime: &end})
		require.ErrorIs(t, err, event.ErrDateRange)

		// stored entity untouched
		stored, err := svc.GetByID(ctx, created.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, created.EndDateTime, stored.EndDateTime)
	})

	t.Run("rejects non-owners", func(t *testing.T) {
		svc, _ := newService(events.VerifyOff, nil)

		created, err := svc.Create(ctx, 1, validCreateRequest())
		require.NoError(t, err)

		name := "hijacked"
		_, err = svc.Update(ctx, 2, created.ID, event.UpdateEventRequest{Name: &name})
		require.ErrorIs(t, err, event.ErrNotOwner)

		stored, err := svc.GetByID(ctx, created.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, created.Name, stored.Name)
	})

	t.Run("missing event is not found", func(t *testing.T) {
		svc, _ := newService(events.VerifyOff, nil)

		name := "whatever"
		_, err := svc.Update(ctx, 1, 404, event.UpdateEventRequest{Name: &name})
		require.ErrorIs(t, err, event.ErrNotFound)
	})
}

func TestGetEventByID(t *testing.T) {
	ctx := context.Background()

	svc, _ := newService(events.VerifyOff, nil)

	created, err := svc.Create(ctx, 1, validCreateRequest())
	require.NoError(t, err)

	t.Run("owner sees the creation timestamp", func(t *testing.T) {
		got, err := svc.GetByID(ctx, created.ID, 1)
		require.NoError(t, err)
		require.NotNil(t, got.CreatedDateTime)
	})

	t.Run("other readers do not", func(t *testing.T) {
		got, err := svc.GetByID(ctx, created.ID, 2)
		require.NoError(t, err)
		assert.Nil(t, got.CreatedDateTime)
		assert.Equal(t, created.Name, got.Name)

		// and the stored record keeps it
		again, err := svc.GetByID(ctx, created.ID, 1)
		require.NoError(t, err)
		require.NotNil(t, again.CreatedDateTime)
	})

	t.Run("missing event is not found", func(t *testing.T) {
		_, err := svc.GetByID(ctx, 404, 1)
		require.ErrorIs(t, err, event.ErrNotFound)
	})
}

func TestListEvents(t *testing.T) {
	ctx := context.Background()

	svc, _ := newService(events.VerifyOff, nil)

	first := validCreateRequest()
	_, err := svc.Create(ctx, 1, first)
	require.NoError(t, err)

	second := validCreateRequest()
	second.Name = "Closed event"
	second.RegistrationStatus = event.RegistrationClosed
	_, err = svc.Create(ctx, 2, second)
	require.NoError(t, err)

	t.Run("unfiltered page", func(t *testing.T) {
		got, err := svc.List(ctx, 0, 10, events.SearchFilter{})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("filter by owner", func(t *testing.T) {
		owner := int64(2)
		got, err := svc.List(ctx, 0, 10, events.SearchFilter{OwnerID: &owner})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, owner, got[0].OwnerID)
	})

	t.Run("status filter is case-insensitive", func(t *testing.T) {
		status := "closed"
		got, err := svc.List(ctx, 0, 10, events.SearchFilter{Status: &status})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, event.RegistrationClosed, got[0].RegistrationStatus)
	})

	t.Run("unknown status fails", func(t *testing.T) {
		status := "PENDING"
		_, err := svc.List(ctx, 0, 10, events.SearchFilter{Status: &status})
		require.ErrorIs(t, err, event.ErrUnknownStatus)
	})

	t.Run("paging windows", func(t *testing.T) {
		page0, err := svc.List(ctx, 0, 1, events.SearchFilter{})
		require.NoError(t, err)
		page1, err := svc.List(ctx, 1, 1, events.SearchFilter{})
		require.NoError(t, err)

		require.Len(t, page0, 1)
		require.Len(t, page1, 1)
		assert.NotEqual(t, page0[0].ID, page1[0].ID)
	})
}

func TestDeleteEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("owner deletes", func(t *testing.T) {
		svc, _ := newService(events.VerifyOff, nil)

		created, err := svc.Create(ctx, 1, validCreateRequest())
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, 1, created.ID))

		_, err = svc.GetByID(ctx, created.ID, 1)
		require.ErrorIs(t, err, event.ErrNotFound)
	})

	t.Run("non-owner is rejected and the event survives", func(t *testing.T) {
		svc, _ := newService(events.VerifyOff, nil)

		created, err := svc.Create(ctx, 1, validCreateRequest())
		require.NoError(t, err)

		err = svc.Delete(ctx, 2, created.ID)
		require.ErrorIs(t, err, event.ErrNotOwner)

		_, err = svc.GetByID(ctx, created.ID, 2)
		require.NoError(t, err)
	})

	t.Run("missing event is not found", func(t *testing.T) {
		svc, _ := newService(events.VerifyOff, nil)

		err := svc.Delete(ctx, 1, 404)
		require.ErrorIs(t, err, event.ErrNotFound)
	})
}
