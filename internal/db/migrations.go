package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS roles (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(64) NOT NULL UNIQUE,
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		role_id BIGINT NOT NULL REFERENCES roles(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_users_role_id ON users (role_id);`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id BIGSERIAL PRIMARY KEY,
		customer_id VARCHAR(255) NOT NULL,
		customer_name VARCHAR(255) NOT NULL,
		customer_address TEXT NOT NULL,
		problem_description TEXT NOT NULL,
		priority VARCHAR(16) NOT NULL DEFAULT 'Medium'
			CHECK (priority IN ('Low', 'Medium', 'High', 'Urgent')),
		category VARCHAR(16) NOT NULL
			CHECK (category IN ('Broadband', 'Dedicated', 'Reseller')),
		status VARCHAR(16) NOT NULL DEFAULT 'New'
			CHECK (status IN ('New', 'In Progress', 'Pending', 'Cancel', 'Solved', 'Investigation')),
		created_by BIGINT NOT NULL REFERENCES users(id),
		resolved_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_customer_id ON tickets (customer_id);`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_priority ON tickets (priority);`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_category ON tickets (category);`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_status ON tickets (status);`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_created_by ON tickets (created_by);`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_status_priority ON tickets (status, priority);`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_created_at_status ON tickets (created_at, status);`,
	`CREATE TABLE IF NOT EXISTS ticket_assignments (
		id BIGSERIAL PRIMARY KEY,
		ticket_id BIGINT NOT NULL REFERENCES tickets(id) ON DELETE CASCADE,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		assigned_by BIGINT NOT NULL REFERENCES users(id),
		assigned_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_ticket_assignments_ticket_user ON ticket_assignments (ticket_id, user_id);`,
	`CREATE INDEX IF NOT EXISTS idx_ticket_assignments_ticket_id ON ticket_assignments (ticket_id);`,
	`CREATE INDEX IF NOT EXISTS idx_ticket_assignments_user_id ON ticket_assignments (user_id);`,
	`CREATE INDEX IF NOT EXISTS idx_ticket_assignments_assigned_by ON ticket_assignments (assigned_by);`,
	`CREATE INDEX IF NOT EXISTS idx_ticket_assignments_assigned_at ON ticket_assignments (assigned_at);`,
	`CREATE OR REPLACE FUNCTION set_updated_at()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_tickets_updated_at') THEN
			CREATE TRIGGER trg_tickets_updated_at
				BEFORE UPDATE ON tickets
				FOR EACH ROW
				EXECUTE PROCEDURE set_updated_at();
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_ticket_assignments_updated_at') THEN
			CREATE TRIGGER trg_ticket_assignments_updated_at
				BEFORE UPDATE ON ticket_assignments
				FOR EACH ROW
				EXECUTE PROCEDURE set_updated_at();
		END IF;
	END
	$$;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
