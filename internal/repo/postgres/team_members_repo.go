package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meethub/eventsvc/internal/domain/team"
	"github.com/meethub/eventsvc/internal/observability"
)

type TeamMembersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewTeamMembersRepo(pool *pgxpool.Pool, prom *observability.Prom) *TeamMembersRepo {
	return &TeamMembersRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *TeamMembersRepo) Get(ctx context.Context, key team.MemberKey) (team.TeamMember, error) {
	var m team.TeamMember

	err := r.prom.ObserveDB("team_members.get", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT event_id, user_id, role FROM team_members WHERE event_id = $1 AND user_id = $2`,
			key.EventID, key.UserID,
		).Scan(&m.EventID, &m.UserID, &m.Role)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return team.TeamMember{}, team.ErrNotFound
		}
		return team.TeamMember{}, err
	}

	return m, nil
}

func (r *TeamMembersRepo) ListByEvent(ctx context.Context, eventID int64) ([]team.TeamMember, error) {
	var output []team.TeamMember

	err := r.prom.ObserveDB("team_members.list", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT event_id, user_id, role FROM team_members WHERE event_id = $1 ORDER BY user_id ASC`,
			eventID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		output = make([]team.TeamMember, 0)

		for rows.Next() {
			var m team.TeamMember
			if err := rows.Scan(&m.EventID, &m.UserID, &m.Role); err != nil {
				return err
			}
			output = append(output, m)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

// Save upserts on the composite key: one role per (event, user) pair.
func (r *TeamMembersRepo) Save(ctx context.Context, m team.TeamMember) (team.TeamMember, error) {
	var out team.TeamMember

	err := r.prom.ObserveDB("team_members.save", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO team_members(event_id, user_id, role) VALUES($1,$2,$3)
			 ON CONFLICT (event_id, user_id) DO UPDATE SET role = EXCLUDED.role
			 RETURNING event_id, user_id, role`,
			m.EventID, m.UserID, m.Role,
		).Scan(&out.EventID, &out.UserID, &out.Role)
	})

	if err != nil {
		return team.TeamMember{}, err
	}

	return out, nil
}

func (r *TeamMembersRepo) Delete(ctx context.Context, key team.MemberKey) error {
	return r.prom.ObserveDB("team_members.delete", func() error {
		tag, err := r.pool.Exec(ctx,
			`DELETE FROM team_members WHERE event_id = $1 AND user_id = $2`,
			key.EventID, key.UserID,
		)

		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return team.ErrNotFound
		}

		return nil
	})
}
