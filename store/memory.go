package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"giveaway-system/models"
)

// MemoryStore is a mutex-guarded in-memory Store with the same semantics as
// the Postgres implementation. Used by tests and local development without a
// database.
type MemoryStore struct {
	mu        sync.Mutex
	giveaways map[string]*models.Giveaway
	entries   map[string]*models.Entry
	byContact map[string]string // giveawayID + "\x00" + contact -> entryID
	byCode    map[string]string // referral code -> entryID
	edges     []models.ReferralEdge
	winners   map[string][]models.WinnerRecord // giveawayID -> records
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		giveaways: make(map[string]*models.Giveaway),
		entries:   make(map[string]*models.Entry),
		byContact: make(map[string]string),
		byCode:    make(map[string]string),
		winners:   make(map[string][]models.WinnerRecord),
	}
}

func contactKey(giveawayID, contact string) string {
	return giveawayID + "\x00" + contact
}

func (s *MemoryStore) CreateGiveaway(_ context.Context, g *models.Giveaway) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	cp := *g
	s.giveaways[g.ID] = &cp
	return nil
}

func (s *MemoryStore) GetGiveaway(_ context.Context, id string) (*models.Giveaway, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.giveaways[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (s *MemoryStore) CreateEntry(_ context.Context, e *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := contactKey(e.GiveawayID, e.PrimaryContact)
	if _, exists := s.byContact[key]; exists {
		return ErrDuplicateEntry
	}
	if _, exists := s.byCode[e.ReferralCode]; exists {
		return ErrCodeCollision
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	if e.BaseEntries == 0 {
		e.BaseEntries = 1
	}
	e.Version = 1

	cp := *e
	s.entries[e.ID] = &cp
	s.byContact[key] = e.ID
	s.byCode[e.ReferralCode] = e.ID
	return nil
}

func (s *MemoryStore) GetEntry(_ context.Context, id string) (*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entryCopy(id)
}

func (s *MemoryStore) entryCopy(id string) (*models.Entry, error) {
	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *MemoryStore) FindByContact(_ context.Context, giveawayID, primaryContact string) (*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byContact[contactKey(giveawayID, primaryContact)]
	if !ok {
		return nil, ErrNotFound
	}
	return s.entryCopy(id)
}

func (s *MemoryStore) FindByReferralCode(_ context.Context, giveawayID, code string) (*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byCode[code]
	if !ok {
		return nil, ErrNotFound
	}
	e := s.entries[id]
	if e.GiveawayID != giveawayID {
		return nil, ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *MemoryStore) ListEntries(_ context.Context, giveawayID string) ([]models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Entry
	for _, e := range s.entries {
		if e.GiveawayID == giveawayID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (s *MemoryStore) SetBonusClaimed(_ context.Context, entryID, secondaryContact string, bonusEntries, expectedVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[entryID]
	if !ok {
		return ErrNotFound
	}
	if e.Version != expectedVersion {
		return ErrVersionConflict
	}
	e.BonusEntries = bonusEntries
	e.BonusClaimed = true
	e.SecondaryContact = &secondaryContact
	e.Version++
	return nil
}

func (s *MemoryStore) CreditReferral(_ context.Context, edge *models.ReferralEdge, bonusPerReferral, maxReferralBonus, maxReferralsPerIP int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	referrer, ok := s.entries[edge.ReferrerEntryID]
	if !ok {
		return 0, ErrNotFound
	}
	referee, ok := s.entries[edge.RefereeEntryID]
	if !ok {
		return 0, ErrNotFound
	}

	// First valid code wins: a referee attributed once stays attributed.
	if referee.ReferredByEntryID != nil {
		return 0, nil
	}
	// No self-referrals, and the referrer must predate the referee. The
	// ordering check is what keeps the referral graph acyclic.
	if referrer.ID == referee.ID || !referrer.CreatedAt.Before(referee.CreatedAt) {
		return 0, nil
	}

	perIP := 0
	for i := range s.edges {
		if s.edges[i].ReferrerEntryID == referrer.ID && s.edges[i].SourceIP == edge.SourceIP {
			perIP++
		}
	}
	if maxReferralsPerIP > 0 && perIP >= maxReferralsPerIP {
		return 0, nil
	}

	remaining := maxReferralBonus - referrer.ReferralEntries
	if remaining <= 0 {
		return 0, nil
	}
	credit := bonusPerReferral
	if credit > remaining {
		credit = remaining
	}

	if edge.ID == "" {
		edge.ID = uuid.NewString()
	}
	if edge.CreatedAt.IsZero() {
		edge.CreatedAt = time.Now()
	}

	referrer.ReferralEntries += credit
	referrer.Version++
	referrerID := referrer.ID
	referee.ReferredByEntryID = &referrerID
	referee.Version++
	s.edges = append(s.edges, *edge)
	return credit, nil
}

func (s *MemoryStore) RecordWinners(_ context.Context, giveawayID string, records []models.WinnerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.giveaways[giveawayID]
	if !ok {
		return ErrNotFound
	}
	if g.WinnersSelectedAt != nil {
		return ErrAlreadySelected
	}

	stored := make([]models.WinnerRecord, len(records))
	copy(stored, records)
	for i := range stored {
		if stored[i].ID == "" {
			stored[i].ID = uuid.NewString()
		}
	}
	now := time.Now()
	s.winners[giveawayID] = stored
	g.WinnersSelectedAt = &now
	return nil
}

func (s *MemoryStore) ListWinners(_ context.Context, giveawayID string) ([]models.WinnerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.winners[giveawayID]
	out := make([]models.WinnerRecord, len(records))
	copy(out, records)
	return out, nil
}
