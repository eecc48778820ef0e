package giveaway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"giveaway-system/contact"
	"giveaway-system/models"
	"giveaway-system/monitoring"
	"giveaway-system/store"
)

// SubmitInput is one entry submission from the public site.
type SubmitInput struct {
	GiveawayID string
	Phone      string
	Email      string
	FirstName  string
	LastName   string
	State      string
	ZipCode    string
	Consent    bool
	SourceIP   string

	// Optional inline bonus claim.
	SecondaryContact     string
	SecondaryContactType string

	// Optional shared code. Unknown codes are ignored, never fatal.
	ReferralCode string
}

// SubmitResult is returned to the entrant on success.
type SubmitResult struct {
	EntryID       string `json:"entry_id"`
	ReferralCode  string `json:"referral_code"`
	CanClaimBonus bool   `json:"can_claim_bonus"`
}

// SubmitEntry records a new entry: eligibility checks, contact resolution,
// the at-most-once create, then referral attribution. A duplicate contact
// surfaces store.ErrDuplicateEntry so the caller can route the user to
// lookup instead of retrying.
func (s *Service) SubmitEntry(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	g, err := s.store.GetGiveaway(ctx, in.GiveawayID)
	if err != nil {
		return nil, err
	}

	if !g.AcceptingEntries(time.Now()) {
		return nil, ErrGiveawayClosed
	}
	if g.StateRestricted(in.State) {
		return nil, ErrStateRestricted
	}
	if !in.Consent {
		return nil, ErrConsentRequired
	}

	resolved, err := contact.Resolve(g.EntryType, in.Phone, in.Email)
	if err != nil {
		return nil, err
	}

	entry := &models.Entry{
		GiveawayID:     g.ID,
		PrimaryContact: resolved.Primary.Value,
		ContactType:    resolved.Primary.Type,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		State:          in.State,
		ZipCode:        in.ZipCode,
		SourceIP:       in.SourceIP,
		BaseEntries:    1,
	}
	// Under the "both" policy the required email already is a second contact
	// channel, so it satisfies the bonus on the spot. Otherwise the entrant
	// could re-claim later by resubmitting the same email.
	if resolved.Secondary != nil {
		v := resolved.Secondary.Value
		entry.SecondaryContact = &v
		if g.Bonus.Enabled {
			entry.BonusEntries = g.Bonus.Count
			entry.BonusClaimed = true
		}
	}

	// An inline secondary contact is an immediate bonus claim, folded into
	// the same create so entry and bonus land together or not at all.
	if in.SecondaryContact != "" && g.Bonus.Enabled {
		sc, err := contact.Normalize(in.SecondaryContactType, in.SecondaryContact)
		if err != nil {
			return nil, err
		}
		if sc.Value == entry.PrimaryContact {
			return nil, fmt.Errorf("%w: secondary contact matches primary contact", contact.ErrInvalidContact)
		}
		entry.SecondaryContact = &sc.Value
		entry.BonusEntries = g.Bonus.Count
		entry.BonusClaimed = true
	}

	if err := s.createWithFreshCode(ctx, entry); err != nil {
		if errors.Is(err, store.ErrDuplicateEntry) {
			monitoring.DuplicateEntriesTotal.Inc()
		}
		return nil, err
	}
	monitoring.EntriesSubmittedTotal.Inc()
	s.log.Info("entry created",
		zap.String("giveaway_id", g.ID),
		zap.String("entry_id", entry.ID),
		zap.Bool("bonus_claimed", entry.BonusClaimed))

	if in.ReferralCode != "" && g.Referral.Enabled {
		s.attributeReferral(ctx, g, entry, in.ReferralCode)
	}

	return &SubmitResult{
		EntryID:       entry.ID,
		ReferralCode:  entry.ReferralCode,
		CanClaimBonus: g.Bonus.Enabled && !entry.BonusClaimed,
	}, nil
}

// createWithFreshCode retries entry creation on the rare referral-code
// collision. Contact duplicates are returned as-is.
func (s *Service) createWithFreshCode(ctx context.Context, entry *models.Entry) error {
	for attempt := 0; attempt < 3; attempt++ {
		code, err := newReferralCode()
		if err != nil {
			return err
		}
		entry.ReferralCode = code
		err = s.store.CreateEntry(ctx, entry)
		if err == nil || !errors.Is(err, store.ErrCodeCollision) {
			return err
		}
	}
	return fmt.Errorf("%w: could not allocate a unique referral code", ErrTransientStore)
}
