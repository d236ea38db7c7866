package entity

import (
	"errors"
	"fmt"
)

// PlayerID is an opaque identity handed over by the identity layer.
type PlayerID string

// Sign is the mark a slot leaves on the board. Slot 0 plays O, slot 1 plays X.
type Sign uint8

const (
	NoSign Sign = iota
	SignO
	SignX
)

var ErrUnknownSign = errors.New("unknown sign")

// SignForSlot derives the sign from the slot index.
func SignForSlot(slot int) Sign {
	if slot%playersCount == 0 {
		return SignO
	}
	return SignX
}

func (that Sign) IsEmpty() bool {
	return that == NoSign
}

func (that Sign) String() string {
	switch that {
	case SignO:
		return "O"
	case SignX:
		return "X"
	default:
		return ""
	}
}

func (that Sign) MarshalText() ([]byte, error) {
	if that > SignX {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSign, that)
	}
	return []byte(that.String()), nil
}

func (that *Sign) UnmarshalText(text []byte) error {
	switch string(text) {
	case "":
		*that = NoSign
	case "O":
		*that = SignO
	case "X":
		*that = SignX
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSign, text)
	}
	return nil
}
