package giveaway

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"giveaway-system/models"
)

// TestConcurrentReferralsRespectCap submits many referees with the same
// referral code at once; the referrer's credit must land exactly at the cap
// with no lost or doubled updates.
func TestConcurrentReferralsRespectCap(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService()
	g := seedGiveaway(t, st, func(g *models.Giveaway) {
		g.Referral.BonusPerReferral = 2
		g.Referral.MaxReferralBonus = 6
		g.Referral.MaxReferralsPerIP = 100
	})

	referrer, err := svc.SubmitEntry(ctx, validInput(g.ID, "5550000001"))
	if err != nil {
		t.Fatalf("referrer SubmitEntry: %v", err)
	}
	time.Sleep(time.Millisecond)

	const referees = 20
	var wg sync.WaitGroup
	for i := 0; i < referees; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			in := validInput(g.ID, fmt.Sprintf("55500100%02d", n))
			in.SourceIP = fmt.Sprintf("198.51.100.%d", n)
			in.ReferralCode = referrer.ReferralCode
			if _, err := svc.SubmitEntry(ctx, in); err != nil {
				t.Errorf("referee %d SubmitEntry: %v", n, err)
			}
		}(i)
	}
	wg.Wait()

	e, err := st.GetEntry(ctx, referrer.EntryID)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if e.ReferralEntries != 6 {
		t.Errorf("referral entries must land exactly at the cap of 6, got %d", e.ReferralEntries)
	}
	if e.EntryCount() != e.BaseEntries+e.BonusEntries+e.ReferralEntries {
		t.Errorf("entry count invariant broken: %+v", e)
	}

	entries, _ := st.ListEntries(ctx, g.ID)
	if len(entries) != referees+1 {
		t.Errorf("every referee entry should exist regardless of crediting, got %d", len(entries))
	}
}

// TestConcurrentDuplicateSubmissions races the same contact; exactly one
// entry survives.
func TestConcurrentDuplicateSubmissions(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService()
	g := seedGiveaway(t, st, nil)

	const attempts = 10
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.SubmitEntry(ctx, validInput(g.ID, "5558675309"))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes int
	for err := range results {
		if err == nil {
			successes++
		}
	}
	if successes != 1 {
		t.Errorf("expected exactly one successful submission, got %d", successes)
	}
	entries, _ := st.ListEntries(ctx, g.ID)
	if len(entries) != 1 {
		t.Errorf("expected exactly one stored entry, got %d", len(entries))
	}
}
