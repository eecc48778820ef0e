package store

import (
	"context"
	"errors"

	"giveaway-system/models"
)

// Sentinel errors surfaced by every Store implementation.
var (
	// ErrNotFound: no row for the given key.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEntry: an entry already exists for the
	// (giveaway, primary contact) pair.
	ErrDuplicateEntry = errors.New("duplicate entry")
	// ErrCodeCollision: the generated referral code is already taken.
	// Callers regenerate and retry.
	ErrCodeCollision = errors.New("referral code collision")
	// ErrVersionConflict: a conditional update lost the race; the caller
	// re-reads and retries.
	ErrVersionConflict = errors.New("version conflict")
	// ErrAlreadySelected: winners were already recorded for the giveaway.
	ErrAlreadySelected = errors.New("winners already selected")
)

// Store is the durable record of giveaways, entries, referral edges and
// winner records. Uniqueness of (giveaway, contact) and the atomicity of
// referral crediting and winner recording are store-level guarantees, not
// application locks.
type Store interface {
	CreateGiveaway(ctx context.Context, g *models.Giveaway) error
	GetGiveaway(ctx context.Context, id string) (*models.Giveaway, error)

	// CreateEntry stores a new entry. Fails with ErrDuplicateEntry when the
	// (giveaway, primary contact) pair already exists, ErrCodeCollision when
	// the entry's referral code is taken.
	CreateEntry(ctx context.Context, e *models.Entry) error
	GetEntry(ctx context.Context, id string) (*models.Entry, error)
	FindByContact(ctx context.Context, giveawayID, primaryContact string) (*models.Entry, error)
	FindByReferralCode(ctx context.Context, giveawayID, code string) (*models.Entry, error)
	ListEntries(ctx context.Context, giveawayID string) ([]models.Entry, error)

	// SetBonusClaimed marks the bonus claimed, records the secondary contact
	// and sets the bonus credit, conditional on the entry still being at
	// expectedVersion.
	SetBonusClaimed(ctx context.Context, entryID, secondaryContact string, bonusEntries, expectedVersion int) error

	// CreditReferral credits the referrer named by edge.ReferrerEntryID and
	// inserts the edge as one atomic unit. Both caps are evaluated against
	// the same snapshot used for the increment. Returns the number of
	// referral entries actually credited: min(bonusPerReferral, remaining
	// cap), or 0 with no edge written when a cap is exhausted or the referee
	// is already attributed.
	CreditReferral(ctx context.Context, edge *models.ReferralEdge, bonusPerReferral, maxReferralBonus, maxReferralsPerIP int) (int, error)

	// RecordWinners writes the full winner set and stamps the giveaway as
	// drawn in one atomic batch. Fails with ErrAlreadySelected if a draw has
	// already been recorded, leaving existing records untouched.
	RecordWinners(ctx context.Context, giveawayID string, records []models.WinnerRecord) error
	ListWinners(ctx context.Context, giveawayID string) ([]models.WinnerRecord, error)
}
