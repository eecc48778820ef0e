package models

import (
	"strings"
	"time"
)

// Entry-type policy values controlling which contact identifies an entrant.
const (
	EntryTypePhone = "phone"
	EntryTypeEmail = "email"
	EntryTypeBoth  = "both"
)

// Alternate-winner selection modes.
const (
	AlternateAuto   = "auto"
	AlternateManual = "manual"
)

// BonusPolicy controls the secondary-contact bonus for a giveaway.
type BonusPolicy struct {
	Enabled bool `json:"enabled" db:"bonus_enabled"`
	Count   int  `json:"count" db:"bonus_count"`
}

// ReferralPolicy controls referral crediting and its anti-abuse caps.
type ReferralPolicy struct {
	Enabled           bool `json:"enabled" db:"referral_enabled"`
	BonusPerReferral  int  `json:"bonus_per_referral" db:"bonus_per_referral"`
	MaxReferralBonus  int  `json:"max_referral_bonus" db:"max_referral_bonus"`
	MaxReferralsPerIP int  `json:"max_referrals_per_ip" db:"max_referrals_per_ip"`
}

// WinnerPolicy controls how many winners a draw produces.
type WinnerPolicy struct {
	NumWinners         int    `json:"num_winners" db:"num_winners"`
	AlternateWinners   int    `json:"alternate_winners" db:"alternate_winners"`
	AlternateSelection string `json:"alternate_selection" db:"alternate_selection"` // auto, manual
}

// Giveaway is the sweepstakes configuration record. Policy fields are edited
// by the admin CMS; this service only enforces them. Once winners have been
// selected the record is immutable apart from administrative corrections.
type Giveaway struct {
	ID                string         `json:"id" db:"id"`
	Name              string         `json:"name" db:"name"`
	StartAt           time.Time      `json:"start_at" db:"start_at"`
	EndAt             time.Time      `json:"end_at" db:"end_at"`
	DrawingAt         time.Time      `json:"drawing_at" db:"drawing_at"`
	RestrictedStates  []string       `json:"restricted_states" db:"restricted_states"`
	EntryType         string         `json:"entry_type" db:"entry_type"` // phone, email, both
	Bonus             BonusPolicy    `json:"bonus"`
	Referral          ReferralPolicy `json:"referral"`
	Winner            WinnerPolicy   `json:"winner"`
	Closed            bool           `json:"closed" db:"closed"` // administratively closed early
	Archived          bool           `json:"archived" db:"archived"`
	WinnersSelectedAt *time.Time     `json:"winners_selected_at,omitempty" db:"winners_selected_at"`
	CreatedAt         time.Time      `json:"created_at" db:"created_at"`
}

// AcceptingEntries reports whether a submission at t should be accepted.
func (g *Giveaway) AcceptingEntries(t time.Time) bool {
	if g.Closed || g.Archived {
		return false
	}
	return !t.Before(g.StartAt) && !t.After(g.EndAt)
}

// StateRestricted reports whether the given two-letter state code is excluded.
func (g *Giveaway) StateRestricted(state string) bool {
	for _, s := range g.RestrictedStates {
		if strings.EqualFold(s, state) {
			return true
		}
	}
	return false
}
