package models

import (
	"time"
)

// Winner types.
const (
	WinnerPrimary   = "primary"
	WinnerAlternate = "alternate"
)

// Selection methods recorded on a WinnerRecord.
const (
	SelectionWeightedRandom = "weighted_random"
	SelectionManual         = "manual"
)

// WinnerRecord is one drawn winner for a giveaway. Records are written in a
// single atomic batch by the draw and are append-only afterwards. An entry
// appears at most once across all records of its giveaway.
type WinnerRecord struct {
	ID              string    `json:"id" db:"id"`
	GiveawayID      string    `json:"giveaway_id" db:"giveaway_id"`
	EntryID         string    `json:"entry_id" db:"entry_id"`
	WinnerType      string    `json:"winner_type" db:"winner_type"` // primary, alternate
	Rank            int       `json:"rank" db:"rank"`
	SelectionMethod string    `json:"selection_method" db:"selection_method"`
	SelectedAt      time.Time `json:"selected_at" db:"selected_at"`
}
