package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/meethub/eventsvc/internal/domain/team"
)

type TeamMembersRepo struct {
	mu    sync.RWMutex
	items map[team.MemberKey]team.TeamMember
}

func NewTeamMembersRepo() *TeamMembersRepo {
	return &TeamMembersRepo{
		items: make(map[team.MemberKey]team.TeamMember),
	}
}

func (r *TeamMembersRepo) Get(ctx context.Context, key team.MemberKey) (team.TeamMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[key]
	if !ok {
		return team.TeamMember{}, team.ErrNotFound
	}

	return m, nil
}

func (r *TeamMembersRepo) ListByEvent(ctx context.Context, eventID int64) ([]team.TeamMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.TeamMember, 0)

	for key, m := range r.items {
		if key.EventID == eventID {
			out = append(out, m)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })

	return out, nil
}

func (r *TeamMembersRepo) Save(ctx context.Context, m team.TeamMember) (team.TeamMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[m.Key()] = m

	return m, nil
}

func (r *TeamMembersRepo) Delete(ctx context.Context, key team.MemberKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[key]; !ok {
		return team.ErrNotFound
	}

	delete(r.items, key)

	return nil
}
