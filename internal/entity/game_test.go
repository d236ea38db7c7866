package entity

import (
	"encoding/json"
	"testing"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice PlayerID = "alice"
	bob   PlayerID = "bob"
)

func newStartedGame(t *testing.T) *Game {
	t.Helper()

	game := &Game{ID: "123"}
	require.NoError(t, game.Start([2]PlayerID{alice, bob}))

	return game
}

func playAll(t *testing.T, game *Game, tiles ...Tile) {
	t.Helper()

	for _, tile := range tiles {
		require.NoError(t, game.Play(tile))
	}
}

func TestGame_Start(t *testing.T) {
	t.Run("Start assigns players and opens the first turn", func(t *testing.T) {
		// Given: a zero game
		game := &Game{ID: "123"}

		// When: the game is started
		err := game.Start([2]PlayerID{alice, bob})

		// Then: both slots are set and the game is active on turn 1
		require.NoError(t, err)

		expectedGame := &Game{
			ID:      "123",
			Players: [2]PlayerID{alice, bob},
			Turn:    1,
			State:   State{Status: StatusActive},
		}

		require.Equal(t, expectedGame, game)
	})

	t.Run("Error on starting twice", func(t *testing.T) {
		// Given: a started game
		game := newStartedGame(t)
		before := game.Snapshot()

		// When: the game is started again with other players
		err := game.Start([2]PlayerID{"carol", "dave"})

		// Then: ErrGameAlreadyStarted is returned and the first start is kept
		require.ErrorIs(t, err, apperror.ErrGameAlreadyStarted)
		require.Equal(t, before, *game)
	})

	t.Run("Error on wrong number of players", func(t *testing.T) {
		// Given: a zero game
		game := &Game{}

		// When: it is started with a single identifier
		err := game.StartWith(alice)

		// Then: ErrNotEnoughPlayers is returned and the game stays unstarted
		require.ErrorIs(t, err, apperror.ErrNotEnoughPlayers)
		assert.Equal(t, Game{}, *game)

		// When: it is started with three identifiers
		err = game.StartWith(alice, bob, "carol")

		// Then: the same error is returned
		require.ErrorIs(t, err, apperror.ErrNotEnoughPlayers)
		assert.False(t, game.IsStarted())
	})

	t.Run("Identical identifiers are accepted", func(t *testing.T) {
		// Given: a zero game
		game := &Game{}

		// When: both slots get the same identifier
		err := game.Start([2]PlayerID{alice, alice})

		// Then: the game starts
		require.NoError(t, err)
		assert.True(t, game.IsActive())
	})
}

func TestGame_Play(t *testing.T) {
	t.Run("Play marks exactly one cell with the acting sign", func(t *testing.T) {
		// Given: a started game
		game := newStartedGame(t)

		// When: the first player plays the center
		err := game.Play(Tile{Row: 1, Column: 1})
		require.NoError(t, err)

		// Then: only the center is set to O and the turn advances
		expectedBoard := Board{}
		expectedBoard[1][1] = SignO

		assert.Equal(t, expectedBoard, game.Board)
		assert.Equal(t, 1, game.Board.Occupied())
		assert.Equal(t, 2, game.Turn)
		assert.Equal(t, bob, game.CurrentPlayer())
		assert.Equal(t, SignX, game.CurrentSign())
	})

	t.Run("Signs alternate with turn parity", func(t *testing.T) {
		// Given: a started game
		game := newStartedGame(t)

		// When: three moves are played
		playAll(t, game, Tile{0, 0}, Tile{0, 1}, Tile{0, 2})

		// Then: the marks are O, X, O
		assert.Equal(t, [3]Sign{SignO, SignX, SignO}, game.Board[0])
		assert.Equal(t, 4, game.Turn)
		assert.Equal(t, 1, game.CurrentPlayerIndex())
	})

	t.Run("Error on playing before start", func(t *testing.T) {
		// Given: a zero game
		game := &Game{}

		// When: a move is attempted
		err := game.Play(Tile{Row: 0, Column: 0})

		// Then: ErrGameNotActive is returned
		require.ErrorIs(t, err, apperror.ErrGameNotActive)
		assert.Equal(t, Game{}, *game)
	})

	t.Run("Error on tile out of bounds", func(t *testing.T) {
		cases := []Tile{
			{Row: 3, Column: 0},
			{Row: 0, Column: 3},
			{Row: -1, Column: 1},
			{Row: 1, Column: -1},
			{Row: 20, Column: 20},
		}

		for _, tile := range cases {
			// Given: a game with one occupied cell
			game := newStartedGame(t)
			playAll(t, game, Tile{0, 0})
			before := game.Snapshot()

			// When: a tile outside the board is played
			err := game.Play(tile)

			// Then: ErrTileOutOfBounds is returned and nothing changes
			require.ErrorIs(t, err, apperror.ErrTileOutOfBounds, "tile %+v", tile)
			require.Equal(t, before, *game)
		}
	})

	t.Run("Error on tile already set", func(t *testing.T) {
		// Given: a game where O holds the corner
		game := newStartedGame(t)
		playAll(t, game, Tile{0, 0})
		before := game.Snapshot()

		// When: X plays the same corner
		err := game.Play(Tile{Row: 0, Column: 0})

		// Then: ErrTileAlreadySet is returned and the corner is still O
		require.ErrorIs(t, err, apperror.ErrTileAlreadySet)
		require.Equal(t, before, *game)
		assert.Equal(t, SignO, game.Board[0][0])
	})

	t.Run("Repeated failures are idempotent", func(t *testing.T) {
		// Given: a game in progress
		game := newStartedGame(t)
		playAll(t, game, Tile{0, 0}, Tile{1, 1})
		before := game.Snapshot()

		// When: the same failing move is submitted twice
		firstErr := game.Play(Tile{Row: 1, Column: 1})
		firstSnapshot := game.Snapshot()
		secondErr := game.Play(Tile{Row: 1, Column: 1})

		// Then: both calls fail the same way and the game never changes
		require.ErrorIs(t, firstErr, apperror.ErrTileAlreadySet)
		require.ErrorIs(t, secondErr, apperror.ErrTileAlreadySet)
		assert.Equal(t, firstErr.Error(), secondErr.Error())
		assert.Equal(t, before, firstSnapshot)
		assert.Equal(t, before, *game)
	})
}

func TestGame_UpdateState(t *testing.T) {
	t.Run("First player wins on row 0", func(t *testing.T) {
		// Given: a started game
		game := newStartedGame(t)

		// When: O completes the top row on the fifth move
		playAll(t, game, Tile{0, 0}, Tile{1, 0}, Tile{0, 1}, Tile{1, 1}, Tile{0, 2})

		// Then: the first player wins and the turn is not incremented
		assert.Equal(t, State{Status: StatusWon, Winner: alice}, game.State)
		assert.Equal(t, 5, game.Turn)
		assert.True(t, game.IsFinished())

		winner, ok := game.Winner()
		assert.True(t, ok)
		assert.Equal(t, alice, winner)
	})

	t.Run("Second player wins on a column", func(t *testing.T) {
		// Given: a started game
		game := newStartedGame(t)

		// When: X fills the middle column
		playAll(t, game, Tile{0, 0}, Tile{0, 1}, Tile{2, 2}, Tile{1, 1}, Tile{1, 0}, Tile{2, 1})

		// Then: the second player wins on turn 6
		assert.Equal(t, State{Status: StatusWon, Winner: bob}, game.State)
		assert.Equal(t, 6, game.Turn)
	})

	t.Run("Anti-diagonal wins", func(t *testing.T) {
		// Given: a started game
		game := newStartedGame(t)

		// When: O fills the anti-diagonal
		playAll(t, game, Tile{0, 2}, Tile{0, 0}, Tile{1, 1}, Tile{0, 1}, Tile{2, 0})

		// Then: the first player wins
		assert.Equal(t, StatusWon, game.State.Status)
		assert.Equal(t, alice, game.State.Winner)
	})

	t.Run("Win on the last cell is a win, not a tie", func(t *testing.T) {
		// Given: a started game
		game := newStartedGame(t)

		// When: O completes the main diagonal with the ninth mark
		playAll(t, game,
			Tile{0, 0}, Tile{0, 1}, Tile{0, 2},
			Tile{1, 0}, Tile{1, 1}, Tile{1, 2},
			Tile{2, 1}, Tile{2, 0}, Tile{2, 2},
		)

		// Then: the first player wins on turn 9
		assert.Equal(t, State{Status: StatusWon, Winner: alice}, game.State)
		assert.Equal(t, TotalCells, game.Turn)
	})

	t.Run("Full board without a line is a tie", func(t *testing.T) {
		// Given: a started game
		game := newStartedGame(t)

		// When: nine alternating moves fill the board without a line
		playAll(t, game,
			Tile{0, 0}, Tile{0, 1}, Tile{0, 2},
			Tile{1, 1}, Tile{1, 0}, Tile{1, 2},
			Tile{2, 1}, Tile{2, 0}, Tile{2, 2},
		)

		// Then: the game is tied on turn 9
		assert.Equal(t, State{Status: StatusTie}, game.State)
		assert.Equal(t, 9, game.Turn)
		assert.Equal(t, TotalCells, game.Board.Occupied())

		_, ok := game.Winner()
		assert.False(t, ok)
	})

	t.Run("Error on playing after the game is won", func(t *testing.T) {
		// Given: a game won by the first player
		game := newStartedGame(t)
		playAll(t, game, Tile{0, 0}, Tile{1, 0}, Tile{0, 1}, Tile{1, 1}, Tile{0, 2})
		before := game.Snapshot()

		// When: the second player tries another move
		err := game.Play(Tile{Row: 2, Column: 2})

		// Then: ErrGameNotActive is returned and nothing changes
		require.ErrorIs(t, err, apperror.ErrGameNotActive)
		require.Equal(t, before, *game)
	})
}

func TestGame_PlayAs(t *testing.T) {
	t.Run("Acting player may move", func(t *testing.T) {
		// Given: a started game
		game := newStartedGame(t)

		// When: the first player moves on turn 1
		err := game.PlayAs(alice, Tile{Row: 2, Column: 2})

		// Then: the move is applied
		require.NoError(t, err)
		assert.Equal(t, SignO, game.Board[2][2])
	})

	t.Run("Error on playing out of turn", func(t *testing.T) {
		// Given: a started game
		game := newStartedGame(t)
		before := game.Snapshot()

		// When: the second player moves on turn 1
		err := game.PlayAs(bob, Tile{Row: 2, Column: 2})

		// Then: ErrNotYourTurn is returned and nothing changes
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		require.Equal(t, before, *game)
	})

	t.Run("Error on stranger moving", func(t *testing.T) {
		// Given: a started game
		game := newStartedGame(t)
		before := game.Snapshot()

		// When: a player outside the game moves
		err := game.PlayAs("mallory", Tile{Row: 0, Column: 0})

		// Then: ErrPlayerNotInGame is returned and nothing changes
		require.ErrorIs(t, err, apperror.ErrPlayerNotInGame)
		require.Equal(t, before, *game)
	})

	t.Run("Error on moving in an unstarted game", func(t *testing.T) {
		// Given: a zero game
		game := &Game{}

		// When: anyone tries to move
		err := game.PlayAs(alice, Tile{Row: 0, Column: 0})

		// Then: ErrGameNotActive is returned before identity is checked
		require.ErrorIs(t, err, apperror.ErrGameNotActive)
	})

	t.Run("Same identifier in both slots plays every turn", func(t *testing.T) {
		// Given: a game where one identity holds both slots
		game := &Game{}
		require.NoError(t, game.Start([2]PlayerID{alice, alice}))

		// When: it plays twice in a row
		require.NoError(t, game.PlayAs(alice, Tile{0, 0}))
		require.NoError(t, game.PlayAs(alice, Tile{1, 1}))

		// Then: both signs are on the board
		assert.Equal(t, SignO, game.Board[0][0])
		assert.Equal(t, SignX, game.Board[1][1])
	})
}

func TestGame_JSONRoundTrip(t *testing.T) {
	won := newStartedGame(t)
	playAll(t, won, Tile{0, 0}, Tile{1, 0}, Tile{0, 1}, Tile{1, 1}, Tile{0, 2})

	tie := newStartedGame(t)
	playAll(t, tie,
		Tile{0, 0}, Tile{0, 1}, Tile{0, 2},
		Tile{1, 1}, Tile{1, 0}, Tile{1, 2},
		Tile{2, 1}, Tile{2, 0}, Tile{2, 2},
	)

	active := newStartedGame(t)
	playAll(t, active, Tile{1, 1}, Tile{2, 0})

	games := map[string]Game{
		"unstarted": {ID: "123"},
		"active":    active.Snapshot(),
		"tie":       tie.Snapshot(),
		"won":       won.Snapshot(),
	}

	for name, game := range games {
		t.Run(name, func(t *testing.T) {
			// When: the game is encoded and decoded
			data, err := json.Marshal(game)
			require.NoError(t, err)

			var decoded Game
			require.NoError(t, json.Unmarshal(data, &decoded))

			// Then: every field survives
			require.Equal(t, game, decoded)
		})
	}

	t.Run("Wire format", func(t *testing.T) {
		// When: an active game is encoded
		data, err := json.Marshal(active)
		require.NoError(t, err)

		// Then: signs and status are readable strings
		assert.JSONEq(t, `{
			"id": "123",
			"players": ["alice", "bob"],
			"turn": 3,
			"board": [["", "", ""], ["", "O", ""], ["X", "", ""]],
			"state": {"status": "active"}
		}`, string(data))
	})
}

func TestGame_Validate(t *testing.T) {
	t.Run("Accepts every reachable game", func(t *testing.T) {
		// Given: games at each lifecycle point
		unstarted := &Game{ID: "123"}

		active := newStartedGame(t)
		playAll(t, active, Tile{Row: 1, Column: 1})

		won := newStartedGame(t)
		playAll(t, won,
			Tile{Row: 0, Column: 0}, Tile{Row: 1, Column: 0}, Tile{Row: 0, Column: 1},
			Tile{Row: 1, Column: 1}, Tile{Row: 0, Column: 2})

		tie := newStartedGame(t)
		playAll(t, tie,
			Tile{Row: 0, Column: 0}, Tile{Row: 0, Column: 1}, Tile{Row: 0, Column: 2},
			Tile{Row: 1, Column: 1}, Tile{Row: 1, Column: 0}, Tile{Row: 1, Column: 2},
			Tile{Row: 2, Column: 1}, Tile{Row: 2, Column: 0}, Tile{Row: 2, Column: 2})

		// Then: all of them are valid
		for _, game := range []*Game{unstarted, newStartedGame(t), active, won, tie} {
			assert.NoError(t, game.Validate())
		}
	})

	t.Run("Rejects an active game with a negative turn", func(t *testing.T) {
		// Given: a decoded snapshot that claims to be active on turn -3
		var game Game
		require.NoError(t, json.Unmarshal(
			[]byte(`{"id":"123","players":["alice","bob"],"turn":-3,"state":{"status":"active"}}`), &game))

		// When: the game is validated
		err := game.Validate()

		// Then: ErrInvalidGame is returned
		require.ErrorIs(t, err, apperror.ErrInvalidGame)
	})

	t.Run("Rejects inconsistent snapshots", func(t *testing.T) {
		tests := []struct {
			name string
			game func() *Game
		}{
			{"unstarted with a turn", func() *Game {
				return &Game{Turn: 2}
			}},
			{"turn past the board", func() *Game {
				game := newStartedGame(t)
				game.Turn = 10
				return game
			}},
			{"marks ahead of the turn", func() *Game {
				game := newStartedGame(t)
				game.Board[0][0] = SignO
				return game
			}},
			{"won by a stranger", func() *Game {
				game := newStartedGame(t)
				playAll(t, game,
					Tile{Row: 0, Column: 0}, Tile{Row: 1, Column: 0}, Tile{Row: 0, Column: 1},
					Tile{Row: 1, Column: 1}, Tile{Row: 0, Column: 2})
				game.State.Winner = "mallory"
				return game
			}},
			{"tie before the last turn", func() *Game {
				game := newStartedGame(t)
				playAll(t, game, Tile{Row: 0, Column: 0})
				game.Turn = 1
				game.State = State{Status: StatusTie}
				return game
			}},
			{"winner on an active game", func() *Game {
				game := newStartedGame(t)
				game.State.Winner = alice
				return game
			}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				// Then: ErrInvalidGame is returned
				assert.ErrorIs(t, tt.game().Validate(), apperror.ErrInvalidGame)
			})
		}
	})
}
