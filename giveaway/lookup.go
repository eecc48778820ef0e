package giveaway

import (
	"context"
	"errors"
	"fmt"

	"giveaway-system/contact"
	"giveaway-system/store"
)

// EntryView is the entrant-facing slice of an entry. It carries everything
// the UI needs to offer "claim your bonus" and "share your link" without
// re-deriving policy on the client.
type EntryView struct {
	FirstName        string `json:"first_name"`
	EntryCount       int    `json:"entry_count"`
	BaseEntries      int    `json:"base_entries"`
	BonusEntries     int    `json:"bonus_entries"`
	ReferralEntries  int    `json:"referral_entries"`
	BonusClaimed     bool   `json:"bonus_claimed"`
	ReferralCode     string `json:"referral_code"`
	CanClaimBonus    bool   `json:"can_claim_bonus"`
	CanEarnReferrals bool   `json:"can_earn_referrals"`
}

// LookupResult distinguishes "never entered" from an error: not-found is a
// normal outcome the UI answers with an invitation to enter.
type LookupResult struct {
	Found bool       `json:"found"`
	Entry *EntryView `json:"entry,omitempty"`
}

// Lookup re-identifies a prior entrant by contact. The one transient-retry in
// the service lives here: lookup is a pure read, so retrying cannot
// double-credit anything.
func (s *Service) Lookup(ctx context.Context, giveawayID, phone, email string) (*LookupResult, error) {
	g, err := s.store.GetGiveaway(ctx, giveawayID)
	if err != nil {
		return nil, err
	}

	resolved, err := contact.Resolve(g.EntryType, phone, email)
	if err != nil {
		return nil, err
	}

	entry, err := s.store.FindByContact(ctx, g.ID, resolved.Primary.Value)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		entry, err = s.store.FindByContact(ctx, g.ID, resolved.Primary.Value)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &LookupResult{Found: false}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrTransientStore, err)
	}

	return &LookupResult{
		Found: true,
		Entry: &EntryView{
			FirstName:        entry.FirstName,
			EntryCount:       entry.EntryCount(),
			BaseEntries:      entry.BaseEntries,
			BonusEntries:     entry.BonusEntries,
			ReferralEntries:  entry.ReferralEntries,
			BonusClaimed:     entry.BonusClaimed,
			ReferralCode:     entry.ReferralCode,
			CanClaimBonus:    g.Bonus.Enabled && !entry.BonusClaimed,
			CanEarnReferrals: g.Referral.Enabled && entry.ReferralEntries < g.Referral.MaxReferralBonus,
		},
	}, nil
}
