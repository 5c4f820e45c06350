package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/fairway-league/golfer/backend/internal/domain"
)

// ReplaceEventTeams 用新的分组结果和诊断注释替换赛事原有的记录
func (r *Repository) ReplaceEventTeams(eventID int64, teams []domain.EventTeam, comments []domain.EventComment) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 先将之前的分组结果删除，event_team_players 通过外键级联删除
	query := `DELETE FROM event_teams WHERE event_id = $1`
	if _, err := tx.ExecContext(ctx, query, eventID); err != nil {
		return err
	}

	query = `DELETE FROM event_comments WHERE event_id = $1`
	if _, err := tx.ExecContext(ctx, query, eventID); err != nil {
		return err
	}

	for i, team := range teams {
		query := `
			INSERT INTO event_teams (event_id, date, tee_time, position)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`

		var teamID int64
		if err := tx.QueryRowContext(ctx, query, eventID, team.Date, team.Time, i).Scan(&teamID); err != nil {
			return err
		}

		for j, player := range team.Players {
			query := `
				INSERT INTO event_team_players (event_team_id, position, player_id)
				VALUES ($1, $2, $3)
			`

			if _, err := tx.ExecContext(ctx, query, teamID, j, player.ID); err != nil {
				return err
			}
		}
	}

	for i, comment := range comments {
		query := `
			INSERT INTO event_comments (event_id, position, key, value)
			VALUES ($1, $2, $3, $4)
		`

		if _, err := tx.ExecContext(ctx, query, eventID, i, comment.Key, comment.Value); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// GetEventTeams 按比赛日、开球时间的顺序返回赛事的分组，队伍内按照队长、球车的顺序
func (r *Repository) GetEventTeams(eventID int64) ([]domain.EventTeam, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			et.id,
			to_char(et.date, 'YYYY-MM-DD'),
			et.tee_time,
			p.id,
			p.nickname,
			p.full_name,
			p.email,
			p.created_at,
			p.version
		FROM event_teams et
		LEFT JOIN event_team_players etp ON et.id = etp.event_team_id
		LEFT JOIN players p ON p.id = etp.player_id
		WHERE et.event_id = $1
		ORDER BY et.position, etp.position
	`

	rows, err := r.dbpool.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]domain.EventTeam, 0)
	teamIndex := make(map[int64]int) // teamID -> teams 中的下标

	for rows.Next() {
		var row struct {
			TeamID    int64
			Date      string
			TeeTime   string
			PlayerID  sql.NullInt64
			Nickname  sql.NullString
			FullName  sql.NullString
			Email     sql.NullString
			CreatedAt sql.NullTime
			Version   sql.NullInt32
		}

		dst := []any{
			&row.TeamID,
			&row.Date,
			&row.TeeTime,
			&row.PlayerID,
			&row.Nickname,
			&row.FullName,
			&row.Email,
			&row.CreatedAt,
			&row.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		ix, exists := teamIndex[row.TeamID]
		if !exists {
			ix = len(teams)
			teamIndex[row.TeamID] = ix
			teams = append(teams, domain.EventTeam{
				EventID: eventID,
				Date:    row.Date,
				Time:    row.TeeTime,
				Players: make([]domain.Player, 0),
			})
		}

		if !row.PlayerID.Valid {
			// 分组结果中不会出现空队伍，这里只是为了代码的健壮性
			continue
		}

		teams[ix].Players = append(teams[ix].Players, domain.Player{
			ID:        row.PlayerID.Int64,
			Nickname:  row.Nickname.String,
			FullName:  row.FullName.String,
			Email:     row.Email.String,
			CreatedAt: row.CreatedAt.Time,
			Version:   row.Version.Int32,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return teams, nil
}

func (r *Repository) GetEventComments(eventID int64) ([]domain.EventComment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT key, value, created_at
		FROM event_comments
		WHERE event_id = $1
		ORDER BY position
	`

	rows, err := r.dbpool.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]domain.EventComment, 0)
	for rows.Next() {
		comment := domain.EventComment{EventID: eventID}
		if err := rows.Scan(&comment.Key, &comment.Value, &comment.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}
