package entity

import (
	"errors"
	"fmt"
)

// Status tags the State variant. The zero value is an unstarted game.
type Status uint8

const (
	StatusUnstarted Status = iota
	StatusActive
	StatusTie
	StatusWon
)

var ErrUnknownGameStatus = errors.New("unknown game status")

var statusNames = map[Status]string{
	StatusUnstarted: "unstarted",
	StatusActive:    "active",
	StatusTie:       "tie",
	StatusWon:       "won",
}

func (that Status) String() string {
	if name, ok := statusNames[that]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", uint8(that))
}

func (that Status) MarshalText() ([]byte, error) {
	name, ok := statusNames[that]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownGameStatus, that)
	}
	return []byte(name), nil
}

func (that *Status) UnmarshalText(text []byte) error {
	for status, name := range statusNames {
		if name == string(text) {
			*that = status
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownGameStatus, text)
}

// State is Unstarted, Active, Tie or Won. Winner is set only for Won.
type State struct {
	Status Status   `json:"status"`
	Winner PlayerID `json:"winner,omitempty"`
}

func (that State) IsTerminal() bool {
	return that.Status == StatusTie || that.Status == StatusWon
}
