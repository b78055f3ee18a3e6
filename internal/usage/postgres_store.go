package usage

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresStore implements Store with PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL-backed usage store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the usage table. The goose migrations under
// migrations/ are the canonical schema.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS usage_records (
			session_id        TEXT PRIMARY KEY,
			asset_id          TEXT NOT NULL,
			cumulative_spent  NUMERIC(30,8) NOT NULL DEFAULT 0,
			transaction_count INT NOT NULL DEFAULT 0,
			updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT chk_spent_nonneg CHECK (cumulative_spent >= 0),
			CONSTRAINT chk_count_nonneg CHECK (transaction_count >= 0)
		);
	`)
	return err
}

func (p *PostgresStore) Init(ctx context.Context, sessionID, assetID string) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO usage_records (session_id, asset_id, cumulative_spent, transaction_count, updated_at)
		VALUES ($1, $2, 0, 0, NOW())
		ON CONFLICT (session_id) DO UPDATE SET
			asset_id          = $2,
			cumulative_spent  = 0,
			transaction_count = 0,
			updated_at        = NOW()
	`, sessionID, assetID)
	return err
}

func (p *PostgresStore) Get(ctx context.Context, sessionID string) (*UsageRecord, error) {
	rec := &UsageRecord{}
	err := p.db.QueryRowContext(ctx, `
		SELECT session_id, asset_id, cumulative_spent, transaction_count, updated_at
		FROM usage_records WHERE session_id = $1
	`, sessionID).Scan(&rec.SessionID, &rec.AssetID, &rec.CumulativeSpent, &rec.TransactionCount, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Add commits the spend bump in a single UPDATE so a concurrent reader
// sees either the old or the new total, never a partial write.
func (p *PostgresStore) Add(ctx context.Context, sessionID, amt string) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE usage_records SET
			cumulative_spent  = cumulative_spent + $2::NUMERIC(30,8),
			transaction_count = transaction_count + 1,
			updated_at        = NOW()
		WHERE session_id = $1
	`, sessionID, amt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// No record means the session was never initialized here.
		_, err = p.db.ExecContext(ctx, `
			INSERT INTO usage_records (session_id, asset_id, cumulative_spent, transaction_count, updated_at)
			VALUES ($1, '', $2::NUMERIC(30,8), 1, NOW())
		`, sessionID, amt)
		return err
	}
	return nil
}

func (p *PostgresStore) Reset(ctx context.Context, sessionID string) error {
	_, err := p.db.ExecContext(ctx, `
		UPDATE usage_records SET
			cumulative_spent  = 0,
			transaction_count = 0,
			updated_at        = NOW()
		WHERE session_id = $1
	`, sessionID)
	return err
}

func (p *PostgresStore) Delete(ctx context.Context, sessionID string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM usage_records WHERE session_id = $1`, sessionID)
	return err
}
