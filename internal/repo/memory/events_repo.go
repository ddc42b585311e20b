package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/meethub/eventsvc/internal/domain/event"
)

// EventsRepo keeps events in a map so service tests run without
// postgres. Semantics mirror the postgres repo.
type EventsRepo struct {
	mu     sync.RWMutex
	items  map[int64]event.Event
	nextID int64
}

func NewEventsRepo() *EventsRepo {
	return &EventsRepo{
		items:  make(map[int64]event.Event),
		nextID: 1,
	}
}

func (r *EventsRepo) Create(ctx context.Context, e event.Event) (event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()

	e.ID = r.nextID
	e.CreatedDateTime = &now
	r.nextID++
	r.items[e.ID] = e

	return e, nil
}

func (r *EventsRepo) GetByID(ctx context.Context, id int64) (event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[id]
	if !ok {
		return event.Event{}, event.ErrNotFound
	}

	return e, nil
}

func (r *EventsRepo) Update(ctx context.Context, e event.Event) (event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[e.ID]
	if !ok {
		return event.Event{}, event.ErrNotFound
	}

	// created timestamp is immutable
	e.CreatedDateTime = stored.CreatedDateTime
	r.items[e.ID] = e

	return e, nil
}

func (r *EventsRepo) List(ctx context.Context, filter event.SearchFilter, limit, offset int) ([]event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]event.Event, 0, len(r.items))

	for _, e := range r.items {
		if filter.OwnerID != nil && e.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.Status != nil && e.RegistrationStatus != *filter.Status {
			continue
		}
		matched = append(matched, e)
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	if offset >= len(matched) {
		return []event.Event{}, nil
	}

	matched = matched[offset:]
	if limit >= 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	return matched, nil
}

func (r *EventsRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return event.ErrNotFound
	}

	delete(r.items, id)

	return nil
}
