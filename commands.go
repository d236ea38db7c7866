package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
)

type CLI struct {
	Config string `short:"c" default:"config.yml" help:"Path to the yml config file."`

	New     NewCmd     `cmd:"" help:"Start a game between two players."`
	Play    PlayCmd    `cmd:"" help:"Play a move as one of the players."`
	Show    ShowCmd    `cmd:"" help:"Print a live or archived game."`
	History HistoryCmd `cmd:"" help:"List the finished games of a player."`
}

type NewCmd struct {
	PlayerOne string `arg:"" name:"player-one" help:"Player in slot 0, plays O and moves first."`
	PlayerTwo string `arg:"" name:"player-two" help:"Player in slot 1, plays X."`
}

func (cmd *NewCmd) Run(ctx context.Context, games service.GameService, out io.Writer) error {
	game, err := games.CreateGame(ctx, entity.PlayerID(cmd.PlayerOne), entity.PlayerID(cmd.PlayerTwo))
	if err != nil {
		return err
	}

	return writeJSON(out, game)
}

type PlayCmd struct {
	GameID string `arg:"" name:"game-id"`
	Player string `arg:"" help:"Player making the move."`
	Row    int    `arg:"" help:"Row, 0 to 2."`
	Column int    `arg:"" help:"Column, 0 to 2."`
}

func (cmd *PlayCmd) Run(ctx context.Context, games service.GameService, out io.Writer) error {
	tile := entity.Tile{Row: cmd.Row, Column: cmd.Column}

	game, err := games.MakeTurn(ctx, cmd.GameID, entity.PlayerID(cmd.Player), tile)
	if err != nil {
		return err
	}

	return writeJSON(out, game)
}

type ShowCmd struct {
	GameID string `arg:"" name:"game-id"`
}

func (cmd *ShowCmd) Run(ctx context.Context, games service.GameService, out io.Writer) error {
	game, err := games.GetGame(ctx, cmd.GameID)
	if err != nil {
		return err
	}

	return writeJSON(out, game)
}

type HistoryCmd struct {
	Player string `arg:""`
}

func (cmd *HistoryCmd) Run(ctx context.Context, games service.GameService, out io.Writer) error {
	history, err := games.History(ctx, entity.PlayerID(cmd.Player))
	if err != nil {
		return err
	}

	if history == nil {
		history = []*entity.ArchivedGame{}
	}

	return writeJSON(out, history)
}

func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}
