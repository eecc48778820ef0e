package giveaway

import (
	"context"
	"testing"
	"time"

	"giveaway-system/contact"
)

func TestLookup(t *testing.T) {
	ctx := context.Background()

	t.Run("not found is a result, not an error", func(t *testing.T) {
		svc, st := newTestService()
		g := seedGiveaway(t, st, nil)

		res, err := svc.Lookup(ctx, g.ID, "5558675309", "")
		if err != nil {
			t.Fatalf("Lookup: %v", err)
		}
		if res.Found {
			t.Errorf("expected not found")
		}
		if res.Entry != nil {
			t.Errorf("entry should be nil when not found")
		}
	})

	t.Run("found returns counters and affordances", func(t *testing.T) {
		svc, st := newTestService()
		g := seedGiveaway(t, st, nil)

		submitted, err := svc.SubmitEntry(ctx, validInput(g.ID, "5558675309"))
		if err != nil {
			t.Fatalf("SubmitEntry: %v", err)
		}
		time.Sleep(time.Millisecond)
		in := validInput(g.ID, "5550000002")
		in.ReferralCode = submitted.ReferralCode
		if _, err := svc.SubmitEntry(ctx, in); err != nil {
			t.Fatalf("referee SubmitEntry: %v", err)
		}

		// Lookup with the same number formatted differently.
		res, err := svc.Lookup(ctx, g.ID, "(555) 867-5309", "")
		if err != nil {
			t.Fatalf("Lookup: %v", err)
		}
		if !res.Found || res.Entry == nil {
			t.Fatalf("expected found entry, got %+v", res)
		}
		e := res.Entry
		if e.FirstName != "Jane" {
			t.Errorf("unexpected name %q", e.FirstName)
		}
		if e.BaseEntries != 1 || e.ReferralEntries != 2 || e.BonusEntries != 0 {
			t.Errorf("unexpected counters: %+v", e)
		}
		if e.EntryCount != 3 {
			t.Errorf("entry count should be 3, got %d", e.EntryCount)
		}
		if e.ReferralCode != submitted.ReferralCode {
			t.Errorf("referral code mismatch")
		}
		if !e.CanClaimBonus {
			t.Errorf("bonus should still be claimable")
		}
		if !e.CanEarnReferrals {
			t.Errorf("referrals should still be earnable below the cap")
		}
	})

	t.Run("affordances close after bonus claim", func(t *testing.T) {
		svc, st := newTestService()
		g := seedGiveaway(t, st, nil)
		submitted, _ := svc.SubmitEntry(ctx, validInput(g.ID, "5558675309"))
		if _, err := svc.ClaimBonus(ctx, g.ID, submitted.EntryID, "jane@example.com", contact.TypeEmail); err != nil {
			t.Fatalf("ClaimBonus: %v", err)
		}

		res, err := svc.Lookup(ctx, g.ID, "5558675309", "")
		if err != nil {
			t.Fatalf("Lookup: %v", err)
		}
		if res.Entry.CanClaimBonus {
			t.Errorf("bonus affordance should be gone after claiming")
		}
		if !res.Entry.BonusClaimed || res.Entry.BonusEntries != 3 {
			t.Errorf("unexpected bonus state: %+v", res.Entry)
		}
	})
}
