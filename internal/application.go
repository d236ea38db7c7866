package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/coder/quartz"
	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// App holds the wired game service and the connections behind it.
type App struct {
	Games service.GameService

	logger  *slog.Logger
	redis   *redis.Client
	archive *storage.Storage
}

// New connects both stores and builds the game service.
func New(ctx context.Context, logger *slog.Logger, conf *config.Config) (*App, error) {
	log := logger.With("component", "app")

	if conf.Redis.Host == "" || conf.Redis.Port == "" {
		return nil, ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	archiveStorage, err := storage.NewSQLiteStorage(conf.SQLiteStoragePath)
	if err != nil {
		_ = redisStorage.Close()
		return nil, fmt.Errorf("could not open sqlite storage: %w", err)
	}

	if err = archiveStorage.Init(ctx); err != nil {
		_ = redisStorage.Close()
		_ = archiveStorage.Close()
		return nil, fmt.Errorf("could not init sqlite storage: %w", err)
	}

	gameRepo := repository.NewGameRepository(redisStorage, conf.UpdateRetries)
	archiveRepo := repository.NewArchiveRepository(archiveStorage.Connection)
	gameService := service.NewGameService(logger, quartz.NewReal(), gameRepo, archiveRepo)

	log.Debug("storages connected", "redis", conf.Redis.GetRedisAddr(), "sqlite", conf.SQLiteStoragePath)

	return &App{
		Games: gameService,

		logger:  log,
		redis:   redisStorage,
		archive: archiveStorage,
	}, nil
}

// Close releases both stores.
func (that *App) Close() {
	if err := that.redis.Close(); err != nil {
		that.logger.Error("could not close redis storage", "error", err)
	}

	if err := that.archive.Close(); err != nil {
		that.logger.Error("could not close sqlite storage", "error", err)
	}
}
