package giveaway

import (
	"context"
	cryptorand "crypto/rand"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"giveaway-system/models"
	"giveaway-system/monitoring"
	"giveaway-system/store"
)

// Referral codes avoid lookalike characters so they survive being read off a
// phone screen or said out loud.
const (
	codeAlphabet = "abcdefghjkmnpqrstuvwxyz23456789"
	codeLength   = 8
)

func newReferralCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := cryptorand.Read(buf); err != nil {
		return "", fmt.Errorf("generate referral code: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}

// attributeReferral resolves a shared code and credits the referrer under the
// giveaway's caps. An unknown or expired code is not an error: the referee's
// entry already succeeded and must stay successful, so every failure path
// here degrades to "no credit".
func (s *Service) attributeReferral(ctx context.Context, g *models.Giveaway, referee *models.Entry, code string) {
	referrer, err := s.store.FindByReferralCode(ctx, g.ID, code)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Warn("referral code lookup failed",
				zap.String("giveaway_id", g.ID), zap.Error(err))
		}
		return
	}

	edge := &models.ReferralEdge{
		GiveawayID:      g.ID,
		ReferrerEntryID: referrer.ID,
		RefereeEntryID:  referee.ID,
		SourceIP:        referee.SourceIP,
	}
	credited, err := s.store.CreditReferral(ctx, edge,
		g.Referral.BonusPerReferral, g.Referral.MaxReferralBonus, g.Referral.MaxReferralsPerIP)
	if err != nil {
		// The entry stands; the credit and its edge were rolled back together.
		s.log.Warn("referral credit failed",
			zap.String("giveaway_id", g.ID),
			zap.String("referrer_entry_id", referrer.ID),
			zap.Error(err))
		return
	}
	if credited > 0 {
		monitoring.ReferralCreditsTotal.Add(float64(credited))
		s.log.Info("referral credited",
			zap.String("giveaway_id", g.ID),
			zap.String("referrer_entry_id", referrer.ID),
			zap.String("referee_entry_id", referee.ID),
			zap.Int("credited", credited))
	}
}
