package giveaway

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"giveaway-system/models"
	"giveaway-system/store"
)

func seedEntries(t *testing.T, svc *Service, giveawayID string, n int) []string {
	t.Helper()
	ctx := context.Background()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		res, err := svc.SubmitEntry(ctx, validInput(giveawayID, "55512300"+string(rune('0'+i/10))+string(rune('0'+i%10))))
		if err != nil {
			t.Fatalf("SubmitEntry %d: %v", i, err)
		}
		ids = append(ids, res.EntryID)
	}
	return ids
}

func TestSelectWinners(t *testing.T) {
	ctx := context.Background()

	t.Run("draws primaries and auto alternates", func(t *testing.T) {
		st := store.NewMemoryStore()
		svc := New(st, nil, WithDrawSource(rand.NewSource(7)))
		g := seedGiveaway(t, st, func(g *models.Giveaway) {
			g.Winner = models.WinnerPolicy{NumWinners: 2, AlternateWinners: 2, AlternateSelection: models.AlternateAuto}
		})
		seedEntries(t, svc, g.ID, 6)

		res, err := svc.SelectWinners(ctx, g.ID)
		if err != nil {
			t.Fatalf("SelectWinners: %v", err)
		}
		if len(res.PrimaryWinners) != 2 {
			t.Errorf("expected 2 primary winners, got %d", len(res.PrimaryWinners))
		}
		if len(res.AlternateWinners) != 2 {
			t.Errorf("expected 2 alternate winners, got %d", len(res.AlternateWinners))
		}

		// Without replacement: no entry may win twice.
		seen := map[string]bool{}
		for _, w := range append(res.PrimaryWinners, res.AlternateWinners...) {
			if seen[w.EntryID] {
				t.Errorf("entry %s drawn twice", w.EntryID)
			}
			seen[w.EntryID] = true
		}

		// Ranks are draw order within each type.
		for i, w := range res.PrimaryWinners {
			if w.Rank != i+1 {
				t.Errorf("primary rank %d at position %d", w.Rank, i)
			}
		}
		for i, w := range res.AlternateWinners {
			if w.Rank != i+1 {
				t.Errorf("alternate rank %d at position %d", w.Rank, i)
			}
		}

		records, _ := st.ListWinners(ctx, g.ID)
		if len(records) != 4 {
			t.Errorf("expected 4 winner records, got %d", len(records))
		}
	})

	t.Run("manual alternates draw primaries only", func(t *testing.T) {
		st := store.NewMemoryStore()
		svc := New(st, nil, WithDrawSource(rand.NewSource(7)))
		g := seedGiveaway(t, st, func(g *models.Giveaway) {
			g.Winner = models.WinnerPolicy{NumWinners: 2, AlternateWinners: 3, AlternateSelection: models.AlternateManual}
		})
		seedEntries(t, svc, g.ID, 6)

		res, err := svc.SelectWinners(ctx, g.ID)
		if err != nil {
			t.Fatalf("SelectWinners: %v", err)
		}
		if len(res.PrimaryWinners) != 2 || len(res.AlternateWinners) != 0 {
			t.Errorf("manual mode should produce primaries only, got %d/%d",
				len(res.PrimaryWinners), len(res.AlternateWinners))
		}
	})

	t.Run("second draw is rejected and changes nothing", func(t *testing.T) {
		st := store.NewMemoryStore()
		svc := New(st, nil, WithDrawSource(rand.NewSource(7)))
		g := seedGiveaway(t, st, nil)
		seedEntries(t, svc, g.ID, 4)

		if _, err := svc.SelectWinners(ctx, g.ID); err != nil {
			t.Fatalf("first SelectWinners: %v", err)
		}
		before, _ := st.ListWinners(ctx, g.ID)

		_, err := svc.SelectWinners(ctx, g.ID)
		if !errors.Is(err, store.ErrAlreadySelected) {
			t.Fatalf("expected ErrAlreadySelected, got %v", err)
		}
		after, _ := st.ListWinners(ctx, g.ID)
		if len(before) != len(after) {
			t.Errorf("winner records changed by rejected draw")
		}
		for i := range before {
			if before[i].EntryID != after[i].EntryID {
				t.Errorf("winner records changed by rejected draw")
			}
		}
	})

	t.Run("no entries", func(t *testing.T) {
		st := store.NewMemoryStore()
		svc := New(st, nil)
		g := seedGiveaway(t, st, nil)

		_, err := svc.SelectWinners(ctx, g.ID)
		if !errors.Is(err, ErrNoEntries) {
			t.Fatalf("expected ErrNoEntries, got %v", err)
		}
	})

	t.Run("more winners than entries draws everyone once", func(t *testing.T) {
		st := store.NewMemoryStore()
		svc := New(st, nil, WithDrawSource(rand.NewSource(7)))
		g := seedGiveaway(t, st, func(g *models.Giveaway) {
			g.Winner = models.WinnerPolicy{NumWinners: 5, AlternateWinners: 5, AlternateSelection: models.AlternateAuto}
		})
		seedEntries(t, svc, g.ID, 3)

		res, err := svc.SelectWinners(ctx, g.ID)
		if err != nil {
			t.Fatalf("SelectWinners: %v", err)
		}
		if len(res.PrimaryWinners) != 3 || len(res.AlternateWinners) != 0 {
			t.Errorf("expected all 3 entries as primaries, got %d/%d",
				len(res.PrimaryWinners), len(res.AlternateWinners))
		}
	})
}

// TestWeightedDrawDistribution draws one winner 10,000 times from entries
// with counts A=1, B=3, C=1. B holds 3 of 5 tickets and should win about 60%
// of the time.
func TestWeightedDrawDistribution(t *testing.T) {
	entries := []models.Entry{
		{ID: "A", BaseEntries: 1},
		{ID: "B", BaseEntries: 1, ReferralEntries: 2},
		{ID: "C", BaseEntries: 1},
	}
	rng := rand.New(rand.NewSource(42))

	const draws = 10000
	wins := map[string]int{}
	for i := 0; i < draws; i++ {
		picked := drawWithoutReplacement(rng.Int63n, entries, 1)
		if len(picked) != 1 {
			t.Fatalf("expected 1 pick, got %d", len(picked))
		}
		wins[picked[0].ID]++
	}

	bShare := float64(wins["B"]) / draws
	if bShare < 0.57 || bShare > 0.63 {
		t.Errorf("B should win about 60%% of draws, got %.1f%%", bShare*100)
	}
	aShare := float64(wins["A"]) / draws
	if aShare < 0.17 || aShare > 0.23 {
		t.Errorf("A should win about 20%% of draws, got %.1f%%", aShare*100)
	}
}

// TestDrawWithoutReplacementExhaustsPool asks for more winners than entries.
func TestDrawWithoutReplacementExhaustsPool(t *testing.T) {
	entries := []models.Entry{
		{ID: "A", BaseEntries: 1},
		{ID: "B", BaseEntries: 4},
	}
	rng := rand.New(rand.NewSource(1))
	picked := drawWithoutReplacement(rng.Int63n, entries, 10)
	if len(picked) != 2 {
		t.Fatalf("expected the whole pool, got %d", len(picked))
	}
	if picked[0].ID == picked[1].ID {
		t.Errorf("same entry drawn twice")
	}
}
