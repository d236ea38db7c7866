package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
)

type GameService interface {
	CreateGame(ctx context.Context, playerOne, playerTwo entity.PlayerID) (*entity.Game, error)
	MakeTurn(ctx context.Context, gameID string, playerID entity.PlayerID, tile entity.Tile) (*entity.Game, error)

	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
	History(ctx context.Context, playerID entity.PlayerID) ([]*entity.ArchivedGame, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
	Update(ctx context.Context, id string, fn func(game *entity.Game) error) (*entity.Game, error)
}

type archiveRepo interface {
	Save(ctx context.Context, archived *entity.ArchivedGame) error
	GetByID(ctx context.Context, id string) (*entity.ArchivedGame, error)
	ListByPlayer(ctx context.Context, playerID entity.PlayerID) ([]*entity.ArchivedGame, error)
}

type gameService struct {
	logger *slog.Logger
	clock  quartz.Clock

	gameRepo    gameRepo
	archiveRepo archiveRepo
}

func NewGameService(logger *slog.Logger, clock quartz.Clock, gameRepo gameRepo, archiveRepo archiveRepo) GameService {
	return &gameService{
		logger: logger,
		clock:  clock,

		gameRepo:    gameRepo,
		archiveRepo: archiveRepo,
	}
}

// CreateGame starts a new game between two authenticated players and stores it.
func (that *gameService) CreateGame(ctx context.Context, playerOne, playerTwo entity.PlayerID) (*entity.Game, error) {
	game := &entity.Game{ID: uuid.NewString()}

	if err := game.Start([2]entity.PlayerID{playerOne, playerTwo}); err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to store game: %w", err)
	}

	that.logger.Info("game created", "method", "CreateGame", "gameID", game.ID)

	return game, nil
}

// GetGame looks in the live store first and falls back to the archive.
func (that *gameService) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err == nil {
		return game, nil
	}

	if !errors.Is(err, repository.ErrGameNotFound) {
		return nil, fmt.Errorf("failed to retrieve game from storage: %w", err)
	}

	archived, err := that.archiveRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve game from archive: %w", err)
	}

	return &archived.Game, nil
}

func (that *gameService) History(ctx context.Context, playerID entity.PlayerID) ([]*entity.ArchivedGame, error) {
	games, err := that.archiveRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived games: %w", err)
	}

	return games, nil
}
