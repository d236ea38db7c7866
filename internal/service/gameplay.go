package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
)

// MakeTurn applies the player's move under the live store's optimistic lock.
// A move that ends the game moves it from the live store into the archive.
func (that *gameService) MakeTurn(ctx context.Context, gameID string, playerID entity.PlayerID, tile entity.Tile) (*entity.Game, error) {
	log := that.logger.With("method", "MakeTurn", "gameID", gameID, "player", playerID)

	game, err := that.gameRepo.Update(ctx, gameID, func(game *entity.Game) error {
		return game.PlayAs(playerID, tile)
	})
	if errors.Is(err, repository.ErrGameNotFound) {
		return that.rejectArchived(ctx, gameID, err)
	}
	if errors.Is(err, apperror.ErrGameNotActive) {
		return that.rejectFinished(ctx, gameID, err)
	}
	if err != nil {
		log.Debug("turn rejected", "error", err)
		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	if !game.IsFinished() {
		return game, nil
	}

	if err = that.finishGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to finish game: %w", err)
	}

	log.Info("game finished", "status", game.State.Status.String(), "winner", game.State.Winner)

	return game, nil
}

// rejectArchived answers a move on a game that already left the live store.
func (that *gameService) rejectArchived(ctx context.Context, gameID string, notFound error) (*entity.Game, error) {
	archived, err := that.archiveRepo.GetByID(ctx, gameID)
	if errors.Is(err, repository.ErrGameNotFound) {
		return nil, fmt.Errorf("failed to make turn: %w", notFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve game from archive: %w", err)
	}

	return &archived.Game, fmt.Errorf("failed to make turn: %w", apperror.ErrGameNotActive)
}

// rejectFinished answers a move on a game still in the live store. A finished
// game found there missed its archiving and is archived now.
func (that *gameService) rejectFinished(ctx context.Context, gameID string, notActive error) (*entity.Game, error) {
	log := that.logger.With("method", "rejectFinished", "gameID", gameID)

	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil || !game.IsFinished() {
		return nil, fmt.Errorf("failed to make turn: %w", notActive)
	}

	if err = that.finishGame(ctx, game); err != nil {
		log.Error("failed to archive finished game", "error", err)
	} else {
		log.Info("finished game archived", "status", game.State.Status.String())
	}

	return game, fmt.Errorf("failed to make turn: %w", notActive)
}

// finishGame archives a terminal game and then drops its live copy.
func (that *gameService) finishGame(ctx context.Context, game *entity.Game) error {
	log := that.logger.With("method", "finishGame", "gameID", game.ID)

	archived := &entity.ArchivedGame{
		Game:       game.Snapshot(),
		FinishedAt: that.clock.Now().UTC(),
	}

	if err := that.archiveRepo.Save(ctx, archived); err != nil {
		return fmt.Errorf("failed to archive game: %w", err)
	}

	// the archive already holds the result, a stale live copy only rejects moves
	if err := that.gameRepo.DeleteByID(ctx, game.ID); err != nil {
		log.Error("failed to delete game", "error", err)
	}

	return nil
}
