package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/fairway-league/golfer/backend/internal/domain"
)

func (r *Repository) CreateEventDate(ed *domain.EventDate) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO event_dates (event_id, date)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	if err := tx.QueryRowContext(ctx, query, ed.EventID, ed.Date).Scan(&ed.ID, &ed.CreatedAt); err != nil {
		return err
	}

	for i, teeTime := range ed.Times {
		query = `
			INSERT INTO event_date_times (event_date_id, position, tee_time)
			VALUES ($1, $2, $3)
		`
		if _, err := tx.ExecContext(ctx, query, ed.ID, i, teeTime); err != nil {
			return err
		}
	}

	// 球员的顺序即为优化器的初始排列
	for i, player := range ed.Players {
		query = `
			INSERT INTO event_date_players (event_date_id, position, player_id)
			VALUES ($1, $2, $3)
		`
		if _, err := tx.ExecContext(ctx, query, ed.ID, i, player.ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// GetEventDates 返回赛事的所有比赛日，按日期升序排列，包括开球时间和球员
func (r *Repository) GetEventDates(eventID int64) ([]*domain.EventDate, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			ed.id,
			to_char(ed.date, 'YYYY-MM-DD'),
			ed.created_at,
			edt.tee_time
		FROM event_dates ed
		LEFT JOIN event_date_times edt ON ed.id = edt.event_date_id
		WHERE ed.event_id = $1
		ORDER BY ed.date, edt.position
	`

	rows, err := r.dbpool.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dates := make([]*domain.EventDate, 0)
	datesMap := make(map[int64]*domain.EventDate)

	for rows.Next() {
		var row struct {
			ID        int64
			Date      string
			CreatedAt time.Time
			TeeTime   sql.NullString
		}

		dst := []any{&row.ID, &row.Date, &row.CreatedAt, &row.TeeTime}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		ed, exists := datesMap[row.ID]
		if !exists {
			// 说明此时是第一次查到这个比赛日
			ed = &domain.EventDate{
				ID:        row.ID,
				EventID:   eventID,
				Date:      row.Date,
				Times:     make([]string, 0),
				Players:   make([]domain.Player, 0),
				CreatedAt: row.CreatedAt,
			}
			datesMap[row.ID] = ed
			dates = append(dates, ed)
		}

		// 没有开球时间的比赛日会被优化器拒绝，这里只负责原样返回
		if !row.TeeTime.Valid {
			continue
		}

		ed.Times = append(ed.Times, row.TeeTime.String)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	query = `
		SELECT
			edp.event_date_id,
			p.id,
			p.nickname,
			p.full_name,
			p.email,
			p.created_at,
			p.version
		FROM event_date_players edp
		JOIN event_dates ed ON ed.id = edp.event_date_id
		JOIN players p ON p.id = edp.player_id
		WHERE ed.event_id = $1
		ORDER BY edp.event_date_id, edp.position
	`

	playerRows, err := r.dbpool.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer playerRows.Close()

	for playerRows.Next() {
		var dateID int64
		var player domain.Player

		dst := []any{&dateID, &player.ID, &player.Nickname, &player.FullName, &player.Email, &player.CreatedAt, &player.Version}
		if err := playerRows.Scan(dst...); err != nil {
			return nil, err
		}

		if ed, exists := datesMap[dateID]; exists {
			ed.Players = append(ed.Players, player)
		}
	}

	if err := playerRows.Err(); err != nil {
		return nil, err
	}

	return dates, nil
}
