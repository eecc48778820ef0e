package models

import (
	"time"
)

// Entry is one sweepstakes participation record, unique per
// (giveaway, normalized primary contact). Counters only ever grow: the base
// entry is granted at creation, the bonus at most once, referral credits up
// to the giveaway's cap. Version backs the store's conditional updates.
type Entry struct {
	ID                string    `json:"id" db:"id"`
	GiveawayID        string    `json:"giveaway_id" db:"giveaway_id"`
	PrimaryContact    string    `json:"primary_contact" db:"primary_contact"`
	ContactType       string    `json:"contact_type" db:"contact_type"` // phone, email
	FirstName         string    `json:"first_name" db:"first_name"`
	LastName          string    `json:"last_name" db:"last_name"`
	State             string    `json:"state" db:"state"`
	ZipCode           string    `json:"zip_code" db:"zip_code"`
	SourceIP          string    `json:"source_ip" db:"source_ip"`
	BaseEntries       int       `json:"base_entries" db:"base_entries"`
	BonusEntries      int       `json:"bonus_entries" db:"bonus_entries"`
	BonusClaimed      bool      `json:"bonus_claimed" db:"bonus_claimed"`
	SecondaryContact  *string   `json:"secondary_contact,omitempty" db:"secondary_contact"`
	ReferralCode      string    `json:"referral_code" db:"referral_code"`
	ReferredByEntryID *string   `json:"referred_by_entry_id,omitempty" db:"referred_by_entry_id"`
	ReferralEntries   int       `json:"referral_entries" db:"referral_entries"`
	Version           int       `json:"-" db:"version"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// EntryCount is the number of draw tickets this entry holds.
func (e *Entry) EntryCount() int {
	return e.BaseEntries + e.BonusEntries + e.ReferralEntries
}

// ReferralEdge records one credited referral: referee entered with the
// referrer's code. A referee is attributed to at most one referrer, and the
// referrer is always an entry created strictly earlier than the referee.
type ReferralEdge struct {
	ID              string    `json:"id" db:"id"`
	GiveawayID      string    `json:"giveaway_id" db:"giveaway_id"`
	ReferrerEntryID string    `json:"referrer_entry_id" db:"referrer_entry_id"`
	RefereeEntryID  string    `json:"referee_entry_id" db:"referee_entry_id"`
	SourceIP        string    `json:"source_ip" db:"source_ip"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
