package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"giveaway-system/config"
)

var Pool *pgxpool.Pool

func InitDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	var err error
	Pool, err = pgxpool.New(context.Background(), dsn)
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := Pool.Ping(context.Background()); err != nil {
		return fmt.Errorf("unable to ping database: %w", err)
	}

	log.Println("connected to PostgreSQL")
	if err := createGiveawaysTable(); err != nil {
		return fmt.Errorf("failed to create giveaways table: %w", err)
	}
	if err := createEntriesTable(); err != nil {
		return fmt.Errorf("failed to create entries table: %w", err)
	}
	if err := createReferralEdgesTable(); err != nil {
		return fmt.Errorf("failed to create referral_edges table: %w", err)
	}
	if err := createWinnerRecordsTable(); err != nil {
		return fmt.Errorf("failed to create winner_records table: %w", err)
	}
	return nil
}

func CloseDB() {
	if Pool != nil {
		Pool.Close()
		log.Println("PostgreSQL connection closed")
	}
}

func createGiveawaysTable() error {
	// pgcrypto for gen_random_uuid()
	_, err := Pool.Exec(context.Background(), `CREATE EXTENSION IF NOT EXISTS "pgcrypto";`)
	if err != nil {
		return err
	}

	_, err = Pool.Exec(context.Background(), `
        CREATE TABLE IF NOT EXISTS giveaways (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            name VARCHAR(200) NOT NULL,
            start_at TIMESTAMPTZ NOT NULL,
            end_at TIMESTAMPTZ NOT NULL,
            drawing_at TIMESTAMPTZ NOT NULL,
            restricted_states TEXT[] NOT NULL DEFAULT '{}',
            entry_type VARCHAR(10) NOT NULL DEFAULT 'phone'
                CHECK (entry_type IN ('phone', 'email', 'both')),
            bonus_enabled BOOLEAN NOT NULL DEFAULT false,
            bonus_count INTEGER NOT NULL DEFAULT 0,
            referral_enabled BOOLEAN NOT NULL DEFAULT false,
            bonus_per_referral INTEGER NOT NULL DEFAULT 0,
            max_referral_bonus INTEGER NOT NULL DEFAULT 0,
            max_referrals_per_ip INTEGER NOT NULL DEFAULT 0,
            num_winners INTEGER NOT NULL DEFAULT 1,
            alternate_winners INTEGER NOT NULL DEFAULT 0,
            alternate_selection VARCHAR(10) NOT NULL DEFAULT 'auto'
                CHECK (alternate_selection IN ('auto', 'manual')),
            closed BOOLEAN NOT NULL DEFAULT false,
            archived BOOLEAN NOT NULL DEFAULT false,
            winners_selected_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
    `)
	if err != nil {
		return err
	}

	log.Println("giveaways table ready")
	return nil
}

func createEntriesTable() error {
	_, err := Pool.Exec(context.Background(), `
        CREATE TABLE IF NOT EXISTS entries (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            giveaway_id UUID NOT NULL REFERENCES giveaways(id),
            primary_contact VARCHAR(255) NOT NULL,
            contact_type VARCHAR(10) NOT NULL,
            first_name VARCHAR(100) NOT NULL,
            last_name VARCHAR(100) NOT NULL,
            state VARCHAR(2) NOT NULL,
            zip_code VARCHAR(10) NOT NULL,
            source_ip VARCHAR(45) NOT NULL DEFAULT '',
            base_entries INTEGER NOT NULL DEFAULT 1,
            bonus_entries INTEGER NOT NULL DEFAULT 0,
            bonus_claimed BOOLEAN NOT NULL DEFAULT false,
            secondary_contact VARCHAR(255),
            referral_code VARCHAR(20) NOT NULL,
            referred_by_entry_id UUID REFERENCES entries(id),
            referral_entries INTEGER NOT NULL DEFAULT 0,
            version INTEGER NOT NULL DEFAULT 1,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            CONSTRAINT entries_giveaway_contact_key UNIQUE (giveaway_id, primary_contact),
            CONSTRAINT entries_referral_code_key UNIQUE (referral_code)
        );
    `)
	if err != nil {
		return err
	}

	_, err = Pool.Exec(context.Background(), `
        CREATE INDEX IF NOT EXISTS idx_entries_giveaway_id ON entries(giveaway_id);
        CREATE INDEX IF NOT EXISTS idx_entries_referral_code ON entries(referral_code);
    `)
	if err != nil {
		return err
	}

	log.Println("entries table ready")
	return nil
}

func createReferralEdgesTable() error {
	_, err := Pool.Exec(context.Background(), `
        CREATE TABLE IF NOT EXISTS referral_edges (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            giveaway_id UUID NOT NULL REFERENCES giveaways(id),
            referrer_entry_id UUID NOT NULL REFERENCES entries(id),
            referee_entry_id UUID NOT NULL REFERENCES entries(id),
            source_ip VARCHAR(45) NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            CONSTRAINT referral_edges_referee_key UNIQUE (referee_entry_id)
        );
    `)
	if err != nil {
		return err
	}

	_, err = Pool.Exec(context.Background(), `
        CREATE INDEX IF NOT EXISTS idx_referral_edges_referrer ON referral_edges(referrer_entry_id);
        CREATE INDEX IF NOT EXISTS idx_referral_edges_referrer_ip ON referral_edges(referrer_entry_id, source_ip);
    `)
	if err != nil {
		return err
	}

	log.Println("referral_edges table ready")
	return nil
}

func createWinnerRecordsTable() error {
	_, err := Pool.Exec(context.Background(), `
        CREATE TABLE IF NOT EXISTS winner_records (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            giveaway_id UUID NOT NULL REFERENCES giveaways(id),
            entry_id UUID NOT NULL REFERENCES entries(id),
            winner_type VARCHAR(10) NOT NULL CHECK (winner_type IN ('primary', 'alternate')),
            rank INTEGER NOT NULL,
            selection_method VARCHAR(20) NOT NULL,
            selected_at TIMESTAMPTZ NOT NULL,
            CONSTRAINT winner_records_giveaway_entry_key UNIQUE (giveaway_id, entry_id)
        );
    `)
	if err != nil {
		return err
	}

	_, err = Pool.Exec(context.Background(), `
        CREATE INDEX IF NOT EXISTS idx_winner_records_giveaway ON winner_records(giveaway_id);
    `)
	if err != nil {
		return err
	}

	log.Println("winner_records table ready")
	return nil
}
