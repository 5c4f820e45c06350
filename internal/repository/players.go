package repository

import (
	"context"
	"time"

	"github.com/fairway-league/golfer/backend/internal/domain"
)

func (r *Repository) GetAllPlayers() ([]*domain.Player, error) {
	query := `
		SELECT id, nickname, full_name, email, created_at, version
		FROM players
		ORDER BY nickname
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]*domain.Player, 0)
	for rows.Next() {
		player := &domain.Player{}
		dst := []any{&player.ID, &player.Nickname, &player.FullName, &player.Email, &player.CreatedAt, &player.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		players = append(players, player)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return players, nil
}

func (r *Repository) GetPlayerByID(id int64) (*domain.Player, error) {
	query := `
		SELECT nickname, full_name, email, created_at, version
		FROM players WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	player := &domain.Player{
		ID: id,
	}

	dst := []any{&player.Nickname, &player.FullName, &player.Email, &player.CreatedAt, &player.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return player, nil
}

// GetPlayersByNicknames 按昵称批量查询球员，返回 nickname -> player
// 不存在的昵称不会出现在结果中，由调用方检查
func (r *Repository) GetPlayersByNicknames(nicknames []string) (map[string]*domain.Player, error) {
	query := `
		SELECT id, nickname, full_name, email, created_at, version
		FROM players
		WHERE nickname = ANY($1)
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, nicknames)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make(map[string]*domain.Player, len(nicknames))
	for rows.Next() {
		player := &domain.Player{}
		dst := []any{&player.ID, &player.Nickname, &player.FullName, &player.Email, &player.CreatedAt, &player.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		players[player.Nickname] = player
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return players, nil
}

func (r *Repository) CreatePlayer(player *domain.Player) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO players (nickname, full_name, email)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`

	args := []any{player.Nickname, player.FullName, player.Email}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&player.ID, &player.CreatedAt, &player.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdatePlayer(player *domain.Player) error {
	query := `
		UPDATE players
		SET
			nickname = $1,
			full_name = $2,
			email = $3,
			version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{player.Nickname, player.FullName, player.Email, player.ID, player.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&player.CreatedAt, &player.Version); err != nil {
		return err
	}

	return nil
}
