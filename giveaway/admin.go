package giveaway

import (
	"context"
	"fmt"

	"giveaway-system/models"
)

// Administrative surface consumed by the CMS. The CMS owns policy editing;
// these calls only seed and read.

func (s *Service) CreateGiveaway(ctx context.Context, g *models.Giveaway) error {
	switch g.EntryType {
	case models.EntryTypePhone, models.EntryTypeEmail, models.EntryTypeBoth:
	default:
		return fmt.Errorf("unknown entry type %q", g.EntryType)
	}
	switch g.Winner.AlternateSelection {
	case models.AlternateAuto, models.AlternateManual:
	default:
		return fmt.Errorf("unknown alternate selection %q", g.Winner.AlternateSelection)
	}
	if g.Winner.NumWinners < 1 {
		return fmt.Errorf("a giveaway needs at least one winner")
	}
	return s.store.CreateGiveaway(ctx, g)
}

func (s *Service) Giveaway(ctx context.Context, id string) (*models.Giveaway, error) {
	return s.store.GetGiveaway(ctx, id)
}

func (s *Service) Entries(ctx context.Context, giveawayID string) ([]models.Entry, error) {
	if _, err := s.store.GetGiveaway(ctx, giveawayID); err != nil {
		return nil, err
	}
	return s.store.ListEntries(ctx, giveawayID)
}

func (s *Service) Winners(ctx context.Context, giveawayID string) ([]models.WinnerRecord, error) {
	if _, err := s.store.GetGiveaway(ctx, giveawayID); err != nil {
		return nil, err
	}
	return s.store.ListWinners(ctx, giveawayID)
}
