package entity

import "time"

// ArchivedGame is a finished game kept after it leaves the live store.
type ArchivedGame struct {
	Game       Game      `json:"game"`
	FinishedAt time.Time `json:"finished_at"`
}
