package apperror

import "errors"

var (
	ErrGameAlreadyStarted = errors.New("the game has already been started")
	ErrNotEnoughPlayers   = errors.New("the game needs 2 players to start")
	ErrGameNotActive      = errors.New("the game is not active")
	ErrTileOutOfBounds    = errors.New("unable to play out of the board")
	ErrTileAlreadySet     = errors.New("the tile is already set")
	ErrPlayerNotInGame    = errors.New("you are not a game player")
	ErrNotYourTurn        = errors.New("it's not your turn")
	ErrInvalidGame        = errors.New("the game state is inconsistent")
)
