package giveaway

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"giveaway-system/contact"
	"giveaway-system/monitoring"
	"giveaway-system/store"
)

// bonusClaimRetries bounds the CAS retry loop when a concurrent credit bumps
// the entry version between our read and write.
const bonusClaimRetries = 3

// BonusResult reports the entry's ticket count after a successful claim.
type BonusResult struct {
	EntryCount int `json:"entry_count"`
}

// ClaimBonus awards the secondary-contact bonus exactly once. A repeated
// claim fails with ErrAlreadyClaimed; a secondary contact that fails
// validation or duplicates the entry's own primary contact fails with
// contact.ErrInvalidContact.
func (s *Service) ClaimBonus(ctx context.Context, giveawayID, entryID, secondaryContact, secondaryType string) (*BonusResult, error) {
	g, err := s.store.GetGiveaway(ctx, giveawayID)
	if err != nil {
		return nil, err
	}
	if !g.Bonus.Enabled {
		return nil, ErrBonusUnavailable
	}

	sc, err := contact.Normalize(secondaryType, secondaryContact)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < bonusClaimRetries; attempt++ {
		entry, err := s.store.GetEntry(ctx, entryID)
		if err != nil {
			return nil, err
		}
		if entry.GiveawayID != giveawayID {
			return nil, store.ErrNotFound
		}
		if entry.BonusClaimed {
			return nil, ErrAlreadyClaimed
		}
		if sc.Value == entry.PrimaryContact {
			return nil, fmt.Errorf("%w: secondary contact matches primary contact", contact.ErrInvalidContact)
		}

		err = s.store.SetBonusClaimed(ctx, entryID, sc.Value, g.Bonus.Count, entry.Version)
		if err == nil {
			monitoring.BonusClaimsTotal.Inc()
			s.log.Info("bonus claimed",
				zap.String("giveaway_id", giveawayID),
				zap.String("entry_id", entryID),
				zap.Int("bonus_entries", g.Bonus.Count))
			return &BonusResult{
				EntryCount: entry.BaseEntries + g.Bonus.Count + entry.ReferralEntries,
			}, nil
		}
		if !errors.Is(err, store.ErrVersionConflict) {
			return nil, err
		}
		// Version moved underneath us; re-read and try again.
	}
	return nil, fmt.Errorf("%w: bonus claim kept losing the version race", ErrTransientStore)
}
