package giveaway

import (
	"context"
	"errors"
	"testing"
	"time"

	"giveaway-system/contact"
	"giveaway-system/models"
	"giveaway-system/store"
)

func newTestService() (*Service, *store.MemoryStore) {
	st := store.NewMemoryStore()
	return New(st, nil), st
}

func seedGiveaway(t *testing.T, st *store.MemoryStore, mutate func(*models.Giveaway)) *models.Giveaway {
	t.Helper()
	now := time.Now()
	g := &models.Giveaway{
		Name:             "Closing-Cost Giveaway",
		StartAt:          now.Add(-24 * time.Hour),
		EndAt:            now.Add(24 * time.Hour),
		DrawingAt:        now.Add(48 * time.Hour),
		RestrictedStates: []string{"NY", "FL"},
		EntryType:        models.EntryTypePhone,
		Bonus:            models.BonusPolicy{Enabled: true, Count: 3},
		Referral: models.ReferralPolicy{
			Enabled:           true,
			BonusPerReferral:  2,
			MaxReferralBonus:  10,
			MaxReferralsPerIP: 5,
		},
		Winner: models.WinnerPolicy{
			NumWinners:         1,
			AlternateWinners:   2,
			AlternateSelection: models.AlternateAuto,
		},
	}
	if mutate != nil {
		mutate(g)
	}
	if err := st.CreateGiveaway(context.Background(), g); err != nil {
		t.Fatalf("CreateGiveaway: %v", err)
	}
	return g
}

func validInput(giveawayID, phone string) SubmitInput {
	return SubmitInput{
		GiveawayID: giveawayID,
		Phone:      phone,
		FirstName:  "Jane",
		LastName:   "Doe",
		State:      "TX",
		ZipCode:    "75001",
		Consent:    true,
		SourceIP:   "203.0.113.10",
	}
}

func TestSubmitEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("success grants one base entry", func(t *testing.T) {
		svc, st := newTestService()
		g := seedGiveaway(t, st, nil)

		res, err := svc.SubmitEntry(ctx, validInput(g.ID, "555-867-5309"))
		if err != nil {
			t.Fatalf("SubmitEntry: %v", err)
		}
		if res.EntryID == "" || res.ReferralCode == "" {
			t.Fatalf("missing ids in result: %+v", res)
		}
		if !res.CanClaimBonus {
			t.Errorf("bonus should still be claimable")
		}

		e, err := st.GetEntry(ctx, res.EntryID)
		if err != nil {
			t.Fatalf("GetEntry: %v", err)
		}
		if e.BaseEntries != 1 || e.BonusEntries != 0 || e.ReferralEntries != 0 {
			t.Errorf("unexpected counters: %+v", e)
		}
		if e.EntryCount() != 1 {
			t.Errorf("entry count should be 1, got %d", e.EntryCount())
		}
		if e.PrimaryContact != "5558675309" {
			t.Errorf("contact not normalized: %q", e.PrimaryContact)
		}
	})

	t.Run("before start window", func(t *testing.T) {
		svc, st := newTestService()
		g := seedGiveaway(t, st, func(g *models.Giveaway) {
			g.StartAt = time.Now().Add(time.Hour)
		})
		_, err := svc.SubmitEntry(ctx, validInput(g.ID, "5558675309"))
		if !errors.Is(err, ErrGiveawayClosed) {
			t.Fatalf("expected ErrGiveawayClosed, got %v", err)
		}
	})

	t.Run("after end window", func(t *testing.T) {
		svc, st := newTestService()
		g := seedGiveaway(t, st, func(g *models.Giveaway) {
			g.EndAt = time.Now().Add(-time.Hour)
		})
		_, err := svc.SubmitEntry(ctx, validInput(g.ID, "5558675309"))
		if !errors.Is(err, ErrGiveawayClosed) {
			t.Fatalf("expected ErrGiveawayClosed, got %v", err)
		}
	})

	t.Run("administratively closed", func(t *testing.T) {
		svc, st := newTestService()
		g := seedGiveaway(t, st, func(g *models.Giveaway) { g.Closed = true })
		_, err := svc.SubmitEntry(ctx, validInput(g.ID, "5558675309"))
		if !errors.Is(err, ErrGiveawayClosed) {
			t.Fatalf("expected ErrGiveawayClosed, got %v", err)
		}
	})

	t.Run("restricted state", func(t *testing.T) {
		svc, st := newTestService()
		g := seedGiveaway(t, st, nil)
		in := validInput(g.ID, "5558675309")
		in.State = "ny"
		_, err := svc.SubmitEntry(ctx, in)
		if !errors.Is(err, ErrStateRestricted) {
			t.Fatalf("expected ErrStateRestricted, got %v", err)
		}
	})

	t.Run("consent required", func(t *testing.T) {
		svc, st := newTestService()
		g := seedGiveaway(t, st, nil)
		in := validInput(g.ID, "5558675309")
		in.Consent = false
		_, err := svc.SubmitEntry(ctx, in)
		if !errors.Is(err, ErrConsentRequired) {
			t.Fatalf("expected ErrConsentRequired, got %v", err)
		}
	})

	t.Run("phone policy rejects email-only submission", func(t *testing.T) {
		svc, st := newTestService()
		g := seedGiveaway(t, st, nil)
		in := validInput(g.ID, "")
		in.Email = "jane@example.com"
		_, err := svc.SubmitEntry(ctx, in)
		if !errors.Is(err, contact.ErrInvalidContact) {
			t.Fatalf("expected ErrInvalidContact, got %v", err)
		}
	})

	t.Run("duplicate contact", func(t *testing.T) {
		svc, st := newTestService()
		g := seedGiveaway(t, st, nil)
		if _, err := svc.SubmitEntry(ctx, validInput(g.ID, "5558675309")); err != nil {
			t.Fatalf("first SubmitEntry: %v", err)
		}
		// Same number in a different format still collides.
		_, err := svc.SubmitEntry(ctx, validInput(g.ID, "(555) 867-5309"))
		if !errors.Is(err, store.ErrDuplicateEntry) {
			t.Fatalf("expected ErrDuplicateEntry, got %v", err)
		}
		// So does the same number with a US country code.
		_, err = svc.SubmitEntry(ctx, validInput(g.ID, "+1 555-867-5309"))
		if !errors.Is(err, store.ErrDuplicateEntry) {
			t.Fatalf("expected ErrDuplicateEntry for +1 form, got %v", err)
		}
		entries, _ := st.ListEntries(ctx, g.ID)
		if len(entries) != 1 {
			t.Errorf("expected exactly one stored entry, got %d", len(entries))
		}
	})

	t.Run("inline secondary contact claims the bonus", func(t *testing.T) {
		svc, st := newTestService()
		g := seedGiveaway(t, st, nil)
		in := validInput(g.ID, "5558675309")
		in.SecondaryContact = "jane@example.com"
		in.SecondaryContactType = contact.TypeEmail

		res, err := svc.SubmitEntry(ctx, in)
		if err != nil {
			t.Fatalf("SubmitEntry: %v", err)
		}
		if res.CanClaimBonus {
			t.Errorf("bonus should already be claimed")
		}
		e, _ := st.GetEntry(ctx, res.EntryID)
		if !e.BonusClaimed || e.BonusEntries != 3 {
			t.Errorf("inline bonus not applied: %+v", e)
		}
		if e.EntryCount() != 4 {
			t.Errorf("entry count should be 4, got %d", e.EntryCount())
		}
	})

	t.Run("both policy email satisfies the bonus at create", func(t *testing.T) {
		svc, st := newTestService()
		g := seedGiveaway(t, st, func(g *models.Giveaway) { g.EntryType = models.EntryTypeBoth })
		in := validInput(g.ID, "5558675309")
		in.Email = "jane@example.com"

		res, err := svc.SubmitEntry(ctx, in)
		if err != nil {
			t.Fatalf("SubmitEntry: %v", err)
		}
		if res.CanClaimBonus {
			t.Errorf("bonus should already be satisfied by the required email")
		}
		e, _ := st.GetEntry(ctx, res.EntryID)
		if !e.BonusClaimed || e.BonusEntries != 3 {
			t.Errorf("bonus not granted at create: %+v", e)
		}
		if e.SecondaryContact == nil || *e.SecondaryContact != "jane@example.com" {
			t.Errorf("secondary contact not stored: %v", e.SecondaryContact)
		}

		// Resubmitting the same email as a claim cannot double the bonus.
		if _, err := svc.ClaimBonus(ctx, g.ID, res.EntryID, "jane@example.com", contact.TypeEmail); !errors.Is(err, ErrAlreadyClaimed) {
			t.Fatalf("expected ErrAlreadyClaimed, got %v", err)
		}
	})

	t.Run("unknown referral code never blocks the entry", func(t *testing.T) {
		svc, st := newTestService()
		g := seedGiveaway(t, st, nil)
		in := validInput(g.ID, "5558675309")
		in.ReferralCode = "abc123"

		res, err := svc.SubmitEntry(ctx, in)
		if err != nil {
			t.Fatalf("SubmitEntry with bogus code: %v", err)
		}
		entries, _ := st.ListEntries(ctx, g.ID)
		for _, e := range entries {
			if e.ReferralEntries != 0 {
				t.Errorf("no entry should have been credited, got %+v", e)
			}
		}
		if res.EntryID == "" {
			t.Errorf("entry should have been created")
		}
	})

	t.Run("valid referral code credits the referrer", func(t *testing.T) {
		svc, st := newTestService()
		g := seedGiveaway(t, st, nil)

		referrer, err := svc.SubmitEntry(ctx, validInput(g.ID, "5550000001"))
		if err != nil {
			t.Fatalf("referrer SubmitEntry: %v", err)
		}
		time.Sleep(time.Millisecond)

		in := validInput(g.ID, "5550000002")
		in.ReferralCode = referrer.ReferralCode
		if _, err := svc.SubmitEntry(ctx, in); err != nil {
			t.Fatalf("referee SubmitEntry: %v", err)
		}

		e, _ := st.GetEntry(ctx, referrer.EntryID)
		if e.ReferralEntries != 2 {
			t.Errorf("expected 2 referral entries, got %d", e.ReferralEntries)
		}
		if e.EntryCount() != e.BaseEntries+e.BonusEntries+e.ReferralEntries {
			t.Errorf("entry count invariant broken: %+v", e)
		}
	})

	t.Run("referral disabled ignores the code", func(t *testing.T) {
		svc, st := newTestService()
		g := seedGiveaway(t, st, func(g *models.Giveaway) { g.Referral.Enabled = false })

		referrer, err := svc.SubmitEntry(ctx, validInput(g.ID, "5550000001"))
		if err != nil {
			t.Fatalf("referrer SubmitEntry: %v", err)
		}
		time.Sleep(time.Millisecond)

		in := validInput(g.ID, "5550000002")
		in.ReferralCode = referrer.ReferralCode
		if _, err := svc.SubmitEntry(ctx, in); err != nil {
			t.Fatalf("referee SubmitEntry: %v", err)
		}
		e, _ := st.GetEntry(ctx, referrer.EntryID)
		if e.ReferralEntries != 0 {
			t.Errorf("referral credit applied despite disabled policy: %+v", e)
		}
	})

	t.Run("unknown giveaway", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.SubmitEntry(ctx, validInput("missing-id", "5558675309"))
		if !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
