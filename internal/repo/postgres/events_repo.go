package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meethub/eventsvc/internal/domain/event"
	"github.com/meethub/eventsvc/internal/observability"
)

type EventsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewEventsRepo(pool *pgxpool.Pool, prom *observability.Prom) *EventsRepo {
	return &EventsRepo{
		pool: pool,
		prom: prom,
	}
}

const eventColumns = `id, name, description, created_date_time, start_date_time, end_date_time, location, owner_id, participant_limit, registration_status`

func (r *EventsRepo) Create(ctx context.Context, e event.Event) (event.Event, error) {
	var out event.Event

	err := r.prom.ObserveDB("events.create", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO events(name, description, start_date_time, end_date_time, location, owner_id, participant_limit, registration_status)
			 VALUES($1,$2,$3,$4,$5,$6,$7,$8)
			 RETURNING `+eventColumns,
			e.Name, e.Description, e.StartDateTime, e.EndDateTime, e.Location, e.OwnerID, e.ParticipantLimit, e.RegistrationStatus,
		).Scan(scanTargets(&out)...)
	})

	if err != nil {
		return event.Event{}, err
	}

	return out, nil
}

func (r *EventsRepo) GetByID(ctx context.Context, id int64) (event.Event, error) {
	var out event.Event

	err := r.prom.ObserveDB("events.get", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT `+eventColumns+` FROM events WHERE id = $1`, id,
		).Scan(scanTargets(&out)...)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, err
	}

	return out, nil
}

func (r *EventsRepo) Update(ctx context.Context, e event.Event) (event.Event, error) {
	var out event.Event

	err := r.prom.ObserveDB("events.update", func() error {
		return r.pool.QueryRow(ctx,
			`UPDATE events
				SET name = $2,
						description = $3,
						start_date_time = $4,
						end_date_time = $5,
						location = $6,
						participant_limit = $7,
						registration_status = $8
			WHERE id = $1
			RETURNING `+eventColumns,
			e.ID,
			e.Name,
			e.Description,
			e.StartDateTime,
			e.EndDateTime,
			e.Location,
			e.ParticipantLimit,
			e.RegistrationStatus,
		).Scan(scanTargets(&out)...)
	})

	if err != nil {
		// if there are no rows matching the id
		if errors.Is(err, pgx.ErrNoRows) {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, err
	}

	return out, nil
}

func (r *EventsRepo) List(ctx context.Context, filter event.SearchFilter, limit, offset int) ([]event.Event, error) {
	baseQuery := `SELECT ` + eventColumns + ` FROM events`

	var conds []string
	var args []interface{}

	argsPosition := 1

	if filter.OwnerID != nil {
		conds = append(conds, fmt.Sprintf("owner_id = $%d", argsPosition))
		args = append(args, *filter.OwnerID)
		argsPosition++
	}

	if filter.Status != nil {
		conds = append(conds, fmt.Sprintf("registration_status = $%d", argsPosition))
		args = append(args, *filter.Status)
		argsPosition++
	}

	query := baseQuery

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	// stable ordering for pagination
	query += fmt.Sprintf(" ORDER BY id ASC LIMIT $%d OFFSET $%d", argsPosition, argsPosition+1)

	args = append(args, limit, offset)

	var output []event.Event

	err := r.prom.ObserveDB("events.list", func() error {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		output = make([]event.Event, 0, limit)

		for rows.Next() {
			var e event.Event
			if err := rows.Scan(scanTargets(&e)...); err != nil {
				return err
			}
			output = append(output, e)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

func (r *EventsRepo) Delete(ctx context.Context, id int64) error {
	return r.prom.ObserveDB("events.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)

		if err != nil {
			return err
		}

		// if no rows were deleted as a result return a not found error
		if tag.RowsAffected() == 0 {
			return event.ErrNotFound
		}

		return nil
	})
}

func scanTargets(e *event.Event) []interface{} {
	return []interface{}{
		&e.ID,
		&e.Name,
		&e.Description,
		&e.CreatedDateTime,
		&e.StartDateTime,
		&e.EndDateTime,
		&e.Location,
		&e.OwnerID,
		&e.ParticipantLimit,
		&e.RegistrationStatus,
	}
}
