package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const (
	BoardSize  = 3
	TotalCells = BoardSize * BoardSize

	playersCount = 2
)

// Lines lists every row, column and diagonal that wins when filled with one sign.
var Lines = [8][3]Tile{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Tile addresses one board cell.
type Tile struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

func (that Tile) inBounds() bool {
	return that.Row >= 0 && that.Row < BoardSize && that.Column >= 0 && that.Column < BoardSize
}

// Board is the 3x3 grid. A zero Sign marks an empty cell.
type Board [BoardSize][BoardSize]Sign

func (that *Board) at(tile Tile) Sign {
	return that[tile.Row][tile.Column]
}

// Occupied returns the number of non-empty cells.
func (that *Board) Occupied() int {
	count := 0
	for _, row := range that {
		for _, cell := range row {
			if !cell.IsEmpty() {
				count++
			}
		}
	}
	return count
}

// Game is the aggregate root of one match. The zero value is an unstarted game.
type Game struct {
	ID      string      `json:"id"`
	Players [2]PlayerID `json:"players"`
	Turn    int         `json:"turn"`
	Board   Board       `json:"board"`
	State   State       `json:"state"`
}

// Start assigns both slots and opens the first turn.
func (that *Game) Start(players [2]PlayerID) error {
	return that.StartWith(players[:]...)
}

// StartWith is Start for callers holding an unchecked list of identifiers.
func (that *Game) StartWith(players ...PlayerID) error {
	if that.Turn != 0 {
		return apperror.ErrGameAlreadyStarted
	}

	if len(players) != playersCount {
		return fmt.Errorf("%w: got %d", apperror.ErrNotEnoughPlayers, len(players))
	}

	copy(that.Players[:], players)
	that.State = State{Status: StatusActive}
	that.Turn = 1

	return nil
}

// Play marks the tile with the acting sign and advances the game.
func (that *Game) Play(tile Tile) error {
	if !that.IsActive() {
		return apperror.ErrGameNotActive
	}

	if !tile.inBounds() {
		return fmt.Errorf("%w: row %d, column %d", apperror.ErrTileOutOfBounds, tile.Row, tile.Column)
	}

	if !that.Board.at(tile).IsEmpty() {
		return apperror.ErrTileAlreadySet
	}

	that.Board[tile.Row][tile.Column] = that.CurrentSign()

	that.updateState()
	if that.IsActive() {
		that.Turn++
	}

	return nil
}

// PlayAs is Play guarded by the mover's identity: only the acting slot may move.
func (that *Game) PlayAs(player PlayerID, tile Tile) error {
	if !that.IsActive() {
		return apperror.ErrGameNotActive
	}

	if _, ok := that.SlotOf(player); !ok {
		return fmt.Errorf("%w: %s", apperror.ErrPlayerNotInGame, player)
	}

	if that.CurrentPlayer() != player {
		return apperror.ErrNotYourTurn
	}

	return that.Play(tile)
}

// Validate checks a decoded game against the invariants Start and Play keep:
// turn 0 only while unstarted, one mark per played turn, a winner only for Won.
func (that *Game) Validate() error {
	if that.State.Status == StatusUnstarted {
		if that.Turn != 0 || that.Board.Occupied() != 0 {
			return fmt.Errorf("%w: unstarted game on turn %d", apperror.ErrInvalidGame, that.Turn)
		}
		return nil
	}

	if that.Turn < 1 || that.Turn > TotalCells {
		return fmt.Errorf("%w: turn %d out of range", apperror.ErrInvalidGame, that.Turn)
	}

	// an active game has not marked its current turn yet
	marks := that.Turn
	if that.IsActive() {
		marks--
	}
	if occupied := that.Board.Occupied(); occupied != marks {
		return fmt.Errorf("%w: %d marks on turn %d", apperror.ErrInvalidGame, occupied, that.Turn)
	}

	switch that.State.Status {
	case StatusWon:
		if _, ok := that.SlotOf(that.State.Winner); !ok {
			return fmt.Errorf("%w: winner %q is not a player", apperror.ErrInvalidGame, that.State.Winner)
		}
	case StatusTie:
		if that.Turn != TotalCells {
			return fmt.Errorf("%w: tie on turn %d", apperror.ErrInvalidGame, that.Turn)
		}
	}

	if that.State.Status != StatusWon && that.State.Winner != "" {
		return fmt.Errorf("%w: winner set on a %s game", apperror.ErrInvalidGame, that.State.Status)
	}

	return nil
}

// updateState runs after every mark, before the turn counter moves.
func (that *Game) updateState() {
	if that.hasWinningLine() {
		that.State = State{Status: StatusWon, Winner: that.CurrentPlayer()}
		return
	}

	if that.Turn == TotalCells {
		that.State = State{Status: StatusTie}
	}
}

func (that *Game) hasWinningLine() bool {
	for _, line := range Lines {
		if that.isWinningTrio(line) {
			return true
		}
	}
	return false
}

func (that *Game) isWinningTrio(line [3]Tile) bool {
	first := that.Board.at(line[0])
	return !first.IsEmpty() && first == that.Board.at(line[1]) && first == that.Board.at(line[2])
}

// CurrentPlayerIndex returns the acting slot. It is only meaningful once started.
func (that *Game) CurrentPlayerIndex() int {
	if that.Turn < 1 {
		return 0
	}
	return (that.Turn - 1) % playersCount
}

func (that *Game) CurrentPlayer() PlayerID {
	return that.Players[that.CurrentPlayerIndex()]
}

func (that *Game) CurrentSign() Sign {
	return SignForSlot(that.CurrentPlayerIndex())
}

// SlotOf reports which slot the player holds, preferring the lower index.
func (that *Game) SlotOf(player PlayerID) (int, bool) {
	for i, p := range that.Players {
		if p == player {
			return i, true
		}
	}
	return 0, false
}

func (that *Game) IsStarted() bool {
	return that.Turn != 0
}

func (that *Game) IsActive() bool {
	return that.State.Status == StatusActive
}

func (that *Game) IsFinished() bool {
	return that.State.IsTerminal()
}

// Winner returns the winning player, if any.
func (that *Game) Winner() (PlayerID, bool) {
	if that.State.Status != StatusWon {
		return "", false
	}
	return that.State.Winner, true
}

// Snapshot returns a copy that shares nothing with the receiver.
func (that *Game) Snapshot() Game {
	return *that
}
