package repository

import (
	"context"
	"time"

	"github.com/fairway-league/golfer/backend/internal/domain"
)

func (r *Repository) GetAllEvents() ([]*domain.Event, error) {
	query := `
		SELECT id, nickname, name, description, created_at, version
		FROM events
		ORDER BY created_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*domain.Event{}
	for rows.Next() {
		var event domain.Event
		dst := []any{
			&event.ID,
			&event.Nickname,
			&event.Name,
			&event.Description,
			&event.CreatedAt,
			&event.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *Repository) GetEventByID(id int64) (*domain.Event, error) {
	query := `
		SELECT nickname, name, description, created_at, version
		FROM events WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	event := &domain.Event{
		ID: id,
	}

	dst := []any{&event.Nickname, &event.Name, &event.Description, &event.CreatedAt, &event.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return event, nil
}

func (r *Repository) CreateEvent(event *domain.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO events (nickname, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`

	args := []any{event.Nickname, event.Name, event.Description}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&event.ID, &event.CreatedAt, &event.Version); err != nil {
		return err
	}

	return nil
}
