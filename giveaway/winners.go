package giveaway

import (
	"context"
	"time"

	"go.uber.org/zap"

	"giveaway-system/models"
	"giveaway-system/monitoring"
	"giveaway-system/store"
)

// Winner pairs a drawn record with the entrant fields an administrator needs
// to reach the winner.
type Winner struct {
	EntryID         string `json:"entry_id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	PrimaryContact  string `json:"primary_contact"`
	State           string `json:"state"`
	WinnerType      string `json:"winner_type"`
	Rank            int    `json:"rank"`
	SelectionMethod string `json:"selection_method"`
	EntryCount      int    `json:"entry_count"`
}

// DrawResult is the outcome of one winner draw.
type DrawResult struct {
	PrimaryWinners   []Winner `json:"primary_winners"`
	AlternateWinners []Winner `json:"alternate_winners"`
}

// SelectWinners performs the weighted draw for a giveaway. Each entry holds
// EntryCount() tickets; winners are drawn without replacement, primaries
// first, then alternates when the policy selects them automatically. The
// whole winner set persists in one atomic batch: a second invocation fails
// with store.ErrAlreadySelected and changes nothing.
func (s *Service) SelectWinners(ctx context.Context, giveawayID string) (*DrawResult, error) {
	g, err := s.store.GetGiveaway(ctx, giveawayID)
	if err != nil {
		return nil, err
	}
	if g.WinnersSelectedAt != nil {
		return nil, store.ErrAlreadySelected
	}

	entries, err := s.store.ListEntries(ctx, giveawayID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	numPrimary := g.Winner.NumWinners
	numAlternate := 0
	if g.Winner.AlternateSelection == models.AlternateAuto {
		numAlternate = g.Winner.AlternateWinners
	}

	s.drawMu.Lock()
	picks := drawWithoutReplacement(s.drawSrc.Int63n, entries, numPrimary+numAlternate)
	s.drawMu.Unlock()

	now := time.Now()
	records := make([]models.WinnerRecord, 0, len(picks))
	winners := make([]Winner, 0, len(picks))
	for i, e := range picks {
		winnerType := models.WinnerPrimary
		rank := i + 1
		if i >= numPrimary {
			winnerType = models.WinnerAlternate
			rank = i - numPrimary + 1
		}
		records = append(records, models.WinnerRecord{
			GiveawayID:      giveawayID,
			EntryID:         e.ID,
			WinnerType:      winnerType,
			Rank:            rank,
			SelectionMethod: models.SelectionWeightedRandom,
			SelectedAt:      now,
		})
		winners = append(winners, Winner{
			EntryID:         e.ID,
			FirstName:       e.FirstName,
			LastName:        e.LastName,
			PrimaryContact:  e.PrimaryContact,
			State:           e.State,
			WinnerType:      winnerType,
			Rank:            rank,
			SelectionMethod: models.SelectionWeightedRandom,
			EntryCount:      e.EntryCount(),
		})
	}

	if err := s.store.RecordWinners(ctx, giveawayID, records); err != nil {
		return nil, err
	}
	monitoring.WinnerDrawsTotal.Inc()
	s.log.Info("winners selected",
		zap.String("giveaway_id", giveawayID),
		zap.Int("primary", min(numPrimary, len(picks))),
		zap.Int("alternate", len(picks)-min(numPrimary, len(picks))))

	result := &DrawResult{
		PrimaryWinners:   []Winner{},
		AlternateWinners: []Winner{},
	}
	for _, w := range winners {
		if w.WinnerType == models.WinnerPrimary {
			result.PrimaryWinners = append(result.PrimaryWinners, w)
		} else {
			result.AlternateWinners = append(result.AlternateWinners, w)
		}
	}
	return result, nil
}

// drawWithoutReplacement picks up to n entries, where an entry's chance on
// each pick is proportional to its ticket count among the remaining
// candidates. intn is rand.Int63n or a deterministic stand-in under test.
func drawWithoutReplacement(intn func(int64) int64, entries []models.Entry, n int) []models.Entry {
	candidates := make([]models.Entry, len(entries))
	copy(candidates, entries)

	if n > len(candidates) {
		n = len(candidates)
	}

	picked := make([]models.Entry, 0, n)
	for len(picked) < n {
		var total int64
		for i := range candidates {
			total += int64(candidates[i].EntryCount())
		}
		if total <= 0 {
			break
		}
		x := intn(total)
		for i := range candidates {
			x -= int64(candidates[i].EntryCount())
			if x < 0 {
				picked = append(picked, candidates[i])
				candidates = append(candidates[:i], candidates[i+1:]...)
				break
			}
		}
	}
	return picked
}
