package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"giveaway-system/models"
)

// PostgresStore implements Store on a pgx connection pool. Deduplication
// rides on the unique index over (giveaway_id, primary_contact); counter
// updates are conditional on the row version; referral crediting and winner
// recording run inside transactions.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const giveawayColumns = `
    id, name, start_at, end_at, drawing_at, restricted_states, entry_type,
    bonus_enabled, bonus_count,
    referral_enabled, bonus_per_referral, max_referral_bonus, max_referrals_per_ip,
    num_winners, alternate_winners, alternate_selection,
    closed, archived, winners_selected_at, created_at`

const entryColumns = `
    id, giveaway_id, primary_contact, contact_type, first_name, last_name,
    state, zip_code, source_ip, base_entries, bonus_entries, bonus_claimed,
    secondary_contact, referral_code, referred_by_entry_id, referral_entries,
    version, created_at`

func (s *PostgresStore) CreateGiveaway(ctx context.Context, g *models.Giveaway) error {
	return s.pool.QueryRow(ctx, `
        INSERT INTO giveaways (
            name, start_at, end_at, drawing_at, restricted_states, entry_type,
            bonus_enabled, bonus_count,
            referral_enabled, bonus_per_referral, max_referral_bonus, max_referrals_per_ip,
            num_winners, alternate_winners, alternate_selection, closed, archived
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
        RETURNING id, created_at
    `, g.Name, g.StartAt, g.EndAt, g.DrawingAt, g.RestrictedStates, g.EntryType,
		g.Bonus.Enabled, g.Bonus.Count,
		g.Referral.Enabled, g.Referral.BonusPerReferral, g.Referral.MaxReferralBonus, g.Referral.MaxReferralsPerIP,
		g.Winner.NumWinners, g.Winner.AlternateWinners, g.Winner.AlternateSelection,
		g.Closed, g.Archived,
	).Scan(&g.ID, &g.CreatedAt)
}

func scanGiveaway(row pgx.Row) (*models.Giveaway, error) {
	var g models.Giveaway
	err := row.Scan(
		&g.ID, &g.Name, &g.StartAt, &g.EndAt, &g.DrawingAt, &g.RestrictedStates, &g.EntryType,
		&g.Bonus.Enabled, &g.Bonus.Count,
		&g.Referral.Enabled, &g.Referral.BonusPerReferral, &g.Referral.MaxReferralBonus, &g.Referral.MaxReferralsPerIP,
		&g.Winner.NumWinners, &g.Winner.AlternateWinners, &g.Winner.AlternateSelection,
		&g.Closed, &g.Archived, &g.WinnersSelectedAt, &g.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (s *PostgresStore) GetGiveaway(ctx context.Context, id string) (*models.Giveaway, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+giveawayColumns+` FROM giveaways WHERE id = $1`, id)
	return scanGiveaway(row)
}

func (s *PostgresStore) CreateEntry(ctx context.Context, e *models.Entry) error {
	err := s.pool.QueryRow(ctx, `
        INSERT INTO entries (
            giveaway_id, primary_contact, contact_type, first_name, last_name,
            state, zip_code, source_ip, bonus_entries, bonus_claimed,
            secondary_contact, referral_code
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, base_entries, version, created_at
    `, e.GiveawayID, e.PrimaryContact, e.ContactType, e.FirstName, e.LastName,
		e.State, e.ZipCode, e.SourceIP, e.BonusEntries, e.BonusClaimed,
		e.SecondaryContact, e.ReferralCode,
	).Scan(&e.ID, &e.BaseEntries, &e.Version, &e.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "referral_code") {
				return ErrCodeCollision
			}
			return ErrDuplicateEntry
		}
		return fmt.Errorf("create entry: %w", err)
	}
	return nil
}

func scanEntry(row pgx.Row) (*models.Entry, error) {
	var e models.Entry
	err := row.Scan(
		&e.ID, &e.GiveawayID, &e.PrimaryContact, &e.ContactType, &e.FirstName, &e.LastName,
		&e.State, &e.ZipCode, &e.SourceIP, &e.BaseEntries, &e.BonusEntries, &e.BonusClaimed,
		&e.SecondaryContact, &e.ReferralCode, &e.ReferredByEntryID, &e.ReferralEntries,
		&e.Version, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (s *PostgresStore) GetEntry(ctx context.Context, id string) (*models.Entry, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = $1`, id)
	return scanEntry(row)
}

func (s *PostgresStore) FindByContact(ctx context.Context, giveawayID, primaryContact string) (*models.Entry, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE giveaway_id = $1 AND primary_contact = $2`,
		giveawayID, primaryContact)
	return scanEntry(row)
}

func (s *PostgresStore) FindByReferralCode(ctx context.Context, giveawayID, code string) (*models.Entry, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE giveaway_id = $1 AND referral_code = $2`,
		giveawayID, code)
	return scanEntry(row)
}

func (s *PostgresStore) ListEntries(ctx context.Context, giveawayID string) ([]models.Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE giveaway_id = $1 ORDER BY created_at`,
		giveawayID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (s *PostgresStore) SetBonusClaimed(ctx context.Context, entryID, secondaryContact string, bonusEntries, expectedVersion int) error {
	tag, err := s.pool.Exec(ctx, `
        UPDATE entries
        SET bonus_entries = $2, bonus_claimed = true, secondary_contact = $3, version = version + 1
        WHERE id = $1 AND version = $4
    `, entryID, bonusEntries, secondaryContact, expectedVersion)
	if err != nil {
		return fmt.Errorf("set bonus claimed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := s.GetEntry(ctx, entryID); err != nil {
			return err
		}
		return ErrVersionConflict
	}
	return nil
}

func (s *PostgresStore) CreditReferral(ctx context.Context, edge *models.ReferralEdge, bonusPerReferral, maxReferralBonus, maxReferralsPerIP int) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("credit referral: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock both rows so the cap checks and the increment see one snapshot.
	var referrer models.Entry
	err = tx.QueryRow(ctx, `
        SELECT id, created_at, referral_entries FROM entries WHERE id = $1 FOR UPDATE
    `, edge.ReferrerEntryID).Scan(&referrer.ID, &referrer.CreatedAt, &referrer.ReferralEntries)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	var referee models.Entry
	err = tx.QueryRow(ctx, `
        SELECT id, created_at, referred_by_entry_id FROM entries WHERE id = $1 FOR UPDATE
    `, edge.RefereeEntryID).Scan(&referee.ID, &referee.CreatedAt, &referee.ReferredByEntryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	if referee.ReferredByEntryID != nil {
		return 0, nil
	}
	if referrer.ID == referee.ID || !referrer.CreatedAt.Before(referee.CreatedAt) {
		return 0, nil
	}

	var perIP int
	err = tx.QueryRow(ctx, `
        SELECT COUNT(*) FROM referral_edges WHERE referrer_entry_id = $1 AND source_ip = $2
    `, referrer.ID, edge.SourceIP).Scan(&perIP)
	if err != nil {
		return 0, err
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

	_, err = tx.Exec(ctx, `
        UPDATE entries SET referral_entries = referral_entries + $2, version = version + 1 WHERE id = $1
    `, referrer.ID, credit)
	if err != nil {
		return 0, err
	}
	_, err = tx.Exec(ctx, `
        UPDATE entries SET referred_by_entry_id = $2, version = version + 1 WHERE id = $1
    `, referee.ID, referrer.ID)
	if err != nil {
		return 0, err
	}
	err = tx.QueryRow(ctx, `
        INSERT INTO referral_edges (giveaway_id, referrer_entry_id, referee_entry_id, source_ip)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `, edge.GiveawayID, referrer.ID, referee.ID, edge.SourceIP).Scan(&edge.ID, &edge.CreatedAt)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("credit referral: %w", err)
	}
	return credit, nil
}

func (s *PostgresStore) RecordWinners(ctx context.Context, giveawayID string, records []models.WinnerRecord) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("record winners: %w", err)
	}
	defer tx.Rollback(ctx)

	// The drawn-check and the batch write are one transaction, so a retry or
	// a double-click can never produce a second draw or a partial set.
	tag, err := tx.Exec(ctx, `
        UPDATE giveaways SET winners_selected_at = NOW()
        WHERE id = $1 AND winners_selected_at IS NULL
    `, giveawayID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM giveaways WHERE id = $1)`, giveawayID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrAlreadySelected
	}

	for i := range records {
		r := &records[i]
		err = tx.QueryRow(ctx, `
            INSERT INTO winner_records (giveaway_id, entry_id, winner_type, rank, selection_method, selected_at)
            VALUES ($1, $2, $3, $4, $5, $6)
            RETURNING id
        `, r.GiveawayID, r.EntryID, r.WinnerType, r.Rank, r.SelectionMethod, r.SelectedAt).Scan(&r.ID)
		if err != nil {
			return fmt.Errorf("record winners: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) ListWinners(ctx context.Context, giveawayID string) ([]models.WinnerRecord, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT id, giveaway_id, entry_id, winner_type, rank, selection_method, selected_at
        FROM winner_records WHERE giveaway_id = $1
        ORDER BY CASE winner_type WHEN 'primary' THEN 0 ELSE 1 END, rank
    `, giveawayID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.WinnerRecord
	for rows.Next() {
		var r models.WinnerRecord
		if err := rows.Scan(&r.ID, &r.GiveawayID, &r.EntryID, &r.WinnerType, &r.Rank, &r.SelectionMethod, &r.SelectedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
