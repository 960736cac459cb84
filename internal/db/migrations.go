package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`CREATE TABLE IF NOT EXISTS contracts (
		contract_number TEXT PRIMARY KEY,
		customer_name TEXT,
		ad_type TEXT,
		rent_cost NUMERIC(18,2) NOT NULL DEFAULT 0,
		installation_cost NUMERIC(18,2) NOT NULL DEFAULT 0,
		print_cost NUMERIC(18,2) NOT NULL DEFAULT 0,
		include_installation_in_fee BOOLEAN NOT NULL DEFAULT FALSE,
		include_print_in_fee BOOLEAN NOT NULL DEFAULT FALSE,
		rent_fee_rate NUMERIC(5,2) NOT NULL DEFAULT 0,
		installation_fee_rate NUMERIC(5,2) NOT NULL DEFAULT 0,
		print_fee_rate NUMERIC(5,2) NOT NULL DEFAULT 0,
		total_paid NUMERIC(18,2) NOT NULL DEFAULT 0,
		start_date DATE,
		end_date DATE,
		status TEXT,
		billboard_ids TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_end_date ON contracts (end_date);`,
	`CREATE TABLE IF NOT EXISTS billboards (
		id BIGSERIAL PRIMARY KEY,
		name TEXT,
		size TEXT,
		city TEXT,
		municipality TEXT,
		status TEXT NOT NULL DEFAULT 'available',
		has_cutout BOOLEAN NOT NULL DEFAULT FALSE,
		contract_number TEXT,
		customer_name TEXT,
		ad_type TEXT,
		rent_start_date DATE,
		rent_end_date DATE
	);`,
	`CREATE INDEX IF NOT EXISTS idx_billboards_municipality ON billboards (municipality);`,
	`CREATE TABLE IF NOT EXISTS installation_teams (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL,
		sizes TEXT[] NOT NULL DEFAULT '{}',
		cities TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS installation_task_items (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		billboard_id BIGINT NOT NULL REFERENCES billboards(id),
		design_face_a TEXT,
		design_face_b TEXT,
		installed_image_url TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_installation_items_billboard ON installation_task_items (billboard_id, created_at DESC);`,
	`CREATE TABLE IF NOT EXISTS withdrawals (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		amount NUMERIC(18,2) NOT NULL CHECK (amount > 0),
		date DATE NOT NULL,
		method TEXT,
		note TEXT,
		receiver TEXT,
		sender TEXT,
		created_by UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'closure_type') THEN
			CREATE TYPE closure_type AS ENUM ('period', 'contract_range');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS period_closures (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		closure_type closure_type NOT NULL,
		closure_date DATE NOT NULL,
		period_start DATE,
		period_end DATE,
		contract_start BIGINT,
		contract_end BIGINT,
		notes TEXT,
		created_by UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS contract_exclusions (
		contract_number TEXT PRIMARY KEY,
		excluded BOOLEAN NOT NULL DEFAULT TRUE,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'removal_task_status') THEN
			CREATE TYPE removal_task_status AS ENUM ('pending', 'in_progress', 'completed', 'cancelled');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'removal_item_status') THEN
			CREATE TYPE removal_item_status AS ENUM ('pending', 'completed');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS removal_tasks (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		contract_numbers TEXT[] NOT NULL DEFAULT '{}',
		team_id UUID NOT NULL REFERENCES installation_teams(id),
		status removal_task_status NOT NULL DEFAULT 'pending',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_removal_tasks_status ON removal_tasks (status);`,
	`CREATE TABLE IF NOT EXISTS removal_task_items (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		task_id UUID NOT NULL REFERENCES removal_tasks(id) ON DELETE CASCADE,
		billboard_id BIGINT NOT NULL REFERENCES billboards(id),
		status removal_item_status NOT NULL DEFAULT 'pending',
		completed_at TIMESTAMPTZ,
		removal_date DATE,
		notes TEXT,
		design_face_a TEXT,
		design_face_b TEXT,
		installed_image_url TEXT,
		removed_image_url TEXT
	);`,
	`CREATE INDEX IF NOT EXISTS idx_removal_items_task_id ON removal_task_items (task_id);`,
	`CREATE INDEX IF NOT EXISTS idx_removal_items_billboard_id ON removal_task_items (billboard_id);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
