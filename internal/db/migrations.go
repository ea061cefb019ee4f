package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'violation_status') THEN
			CREATE TYPE violation_status AS ENUM ('PENDING', 'PAID', 'APPEALED', 'DISMISSED');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'verdict') THEN
			CREATE TYPE verdict AS ENUM ('PENDING', 'ACCEPTED', 'REJECTED');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'appeal_status') THEN
			CREATE TYPE appeal_status AS ENUM ('PENDING', 'REVIEWED');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'report_status') THEN
			CREATE TYPE report_status AS ENUM ('PENDING', 'APPROVED', 'REJECTED');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS violations (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		owner_id UUID NOT NULL,
		type VARCHAR(64) NOT NULL,
		occurred_at TIMESTAMPTZ NOT NULL,
		location TEXT,
		fine_amount BIGINT NOT NULL CHECK (fine_amount > 0),
		law_reference TEXT,
		evidence_url TEXT,
		status violation_status NOT NULL DEFAULT 'PENDING',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_violations_owner_id ON violations (owner_id);`,
	`CREATE INDEX IF NOT EXISTS idx_violations_status ON violations (status);`,
	`CREATE INDEX IF NOT EXISTS idx_violations_created_at ON violations (created_at);`,
	`CREATE TABLE IF NOT EXISTS appeals (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		violation_id UUID NOT NULL REFERENCES violations(id) ON DELETE CASCADE,
		owner_id UUID NOT NULL,
		reason TEXT NOT NULL,
		automated_verdict verdict NOT NULL DEFAULT 'PENDING',
		authority_verdict verdict NOT NULL DEFAULT 'PENDING',
		status appeal_status NOT NULL DEFAULT 'PENDING',
		automated_resolved_at TIMESTAMPTZ,
		resolved_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_appeals_violation_id ON appeals (violation_id);`,
	`CREATE INDEX IF NOT EXISTS idx_appeals_owner_id ON appeals (owner_id);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_violation_active_appeal
		ON appeals (violation_id)
		WHERE status = 'PENDING';`,
	`CREATE TABLE IF NOT EXISTS appeal_attachments (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		appeal_id UUID NOT NULL REFERENCES appeals(id) ON DELETE CASCADE,
		file_url TEXT NOT NULL,
		uploaded_by UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_appeal_attachments_appeal_id ON appeal_attachments (appeal_id);`,
	`CREATE TABLE IF NOT EXISTS appeal_comments (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		appeal_id UUID NOT NULL REFERENCES appeals(id) ON DELETE CASCADE,
		author_id UUID NOT NULL,
		author_role VARCHAR(32) NOT NULL,
		message TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_appeal_comments_appeal_id ON appeal_comments (appeal_id);`,
	`CREATE TABLE IF NOT EXISTS violation_status_log (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		violation_id UUID NOT NULL REFERENCES violations(id) ON DELETE CASCADE,
		old_status violation_status,
		new_status violation_status NOT NULL,
		note TEXT,
		changed_by UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_violation_status_log_violation_id ON violation_status_log (violation_id);`,
	`CREATE TABLE IF NOT EXISTS appeal_status_log (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		appeal_id UUID NOT NULL REFERENCES appeals(id) ON DELETE CASCADE,
		old_status appeal_status,
		new_status appeal_status NOT NULL,
		note TEXT,
		changed_by UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_appeal_status_log_appeal_id ON appeal_status_log (appeal_id);`,
	`CREATE TABLE IF NOT EXISTS reports (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		reporter_id UUID NOT NULL,
		type VARCHAR(64) NOT NULL,
		location TEXT,
		media_url TEXT NOT NULL,
		occurred_at TIMESTAMPTZ NOT NULL,
		status report_status NOT NULL DEFAULT 'PENDING',
		decided_by UUID,
		decided_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_reports_reporter_id ON reports (reporter_id);`,
	`CREATE INDEX IF NOT EXISTS idx_reports_status ON reports (status);`,
	`CREATE OR REPLACE FUNCTION set_row_updated_at()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_violations_updated_at') THEN
			CREATE TRIGGER trg_violations_updated_at
				BEFORE UPDATE ON violations
				FOR EACH ROW
				EXECUTE PROCEDURE set_row_updated_at();
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_appeals_updated_at') THEN
			CREATE TRIGGER trg_appeals_updated_at
				BEFORE UPDATE ON appeals
				FOR EACH ROW
				EXECUTE PROCEDURE set_row_updated_at();
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_reports_updated_at') THEN
			CREATE TRIGGER trg_reports_updated_at
				BEFORE UPDATE ON reports
				FOR EACH ROW
				EXECUTE PROCEDURE set_row_updated_at();
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
