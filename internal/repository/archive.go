package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type ArchiveRepository interface {
	Save(ctx context.Context, archived *entity.ArchivedGame) error
	GetByID(ctx context.Context, id string) (*entity.ArchivedGame, error)
	ListByPlayer(ctx context.Context, playerID entity.PlayerID) ([]*entity.ArchivedGame, error)
}

type archiveRepository struct {
	conn *sql.DB
}

func NewArchiveRepository(conn *sql.DB) ArchiveRepository {
	return &archiveRepository{
		conn: conn,
	}
}

func (that *archiveRepository) Save(ctx context.Context, archived *entity.ArchivedGame) error {
	game := archived.Game

	snapshot, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	query := `
INSERT INTO archived_games (id, player_one, player_two, status, winner, turn, snapshot, finished_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    player_one = excluded.player_one,
    player_two = excluded.player_two,
    status = excluded.status,
    winner = excluded.winner,
    turn = excluded.turn,
    snapshot = excluded.snapshot,
    finished_at = excluded.finished_at`

	_, err = that.conn.ExecContext(ctx, query,
		game.ID,
		string(game.Players[0]),
		string(game.Players[1]),
		game.State.Status.String(),
		string(game.State.Winner),
		game.Turn,
		string(snapshot),
		archived.FinishedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("can't save archived game: %w", err)
	}

	return nil
}

func (that *archiveRepository) GetByID(ctx context.Context, id string) (*entity.ArchivedGame, error) {
	query := `SELECT snapshot, finished_at FROM archived_games WHERE id = ?`

	archived, err := scanArchivedGame(that.conn.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't find archived game: %w", err)
	}

	return archived, nil
}

func (that *archiveRepository) ListByPlayer(ctx context.Context, playerID entity.PlayerID) ([]*entity.ArchivedGame, error) {
	query := `
SELECT snapshot, finished_at FROM archived_games
WHERE player_one = ? OR player_two = ?
ORDER BY finished_at DESC, id`

	rows, err := that.conn.QueryContext(ctx, query, string(playerID), string(playerID))
	if err != nil {
		return nil, fmt.Errorf("can't list archived games: %w", err)
	}
	defer rows.Close()

	var games []*entity.ArchivedGame
	for rows.Next() {
		archived, err := scanArchivedGame(rows)
		if err != nil {
			return nil, fmt.Errorf("can't read archived game: %w", err)
		}
		games = append(games, archived)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't list archived games: %w", err)
	}

	return games, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanArchivedGame(row scanner) (*entity.ArchivedGame, error) {
	var (
		snapshot   string
		finishedAt int64
	)

	if err := row.Scan(&snapshot, &finishedAt); err != nil {
		return nil, err
	}

	var archived entity.ArchivedGame
	if err := json.Unmarshal([]byte(snapshot), &archived.Game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}
	if err := archived.Game.Validate(); err != nil {
		return nil, fmt.Errorf("failed to load archived game %s: %w", archived.Game.ID, err)
	}
	archived.FinishedAt = time.UnixMilli(finishedAt).UTC()

	return &archived, nil
}
