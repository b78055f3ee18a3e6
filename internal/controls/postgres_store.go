package controls

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresStore implements Store with PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL-backed session store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the control session table. The goose migrations under
// migrations/ are the canonical schema; this mirrors them for setups
// that skip the migrate command.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS control_sessions (
			id                       TEXT PRIMARY KEY,
			block_id                 TEXT NOT NULL,
			asset_id                 TEXT NOT NULL,
			authorized_duration_days INT NOT NULL,
			max_per_transaction      NUMERIC(30,8) NOT NULL,
			cumulative_max           NUMERIC(30,8) NOT NULL,
			activated_at             TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			expired_at               TIMESTAMPTZ,
			CONSTRAINT chk_duration_positive CHECK (authorized_duration_days > 0),
			CONSTRAINT chk_limit_order CHECK (max_per_transaction <= cumulative_max)
		);
		CREATE INDEX IF NOT EXISTS idx_control_sessions_block
			ON control_sessions(block_id, activated_at DESC);
	`)
	return err
}

func (p *PostgresStore) Create(ctx context.Context, s *Session) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO control_sessions
			(id, block_id, asset_id, authorized_duration_days, max_per_transaction, cumulative_max, activated_at, expired_at)
		VALUES ($1, $2, $3, $4, $5::NUMERIC(30,8), $6::NUMERIC(30,8), $7, $8)
	`, s.ID, s.BlockID, s.Settings.AssetID, s.Settings.AuthorizedDurationDays,
		s.Settings.MaxPerTransaction, s.Settings.CumulativeMax, s.ActivatedAt, s.ExpiredAt)
	return err
}

func (p *PostgresStore) Get(ctx context.Context, id string) (*Session, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT id, block_id, asset_id, authorized_duration_days, max_per_transaction, cumulative_max, activated_at, expired_at
		FROM control_sessions WHERE id = $1
	`, id)
	return scanSession(row)
}

func (p *PostgresStore) GetByBlock(ctx context.Context, blockID string) (*Session, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT id, block_id, asset_id, authorized_duration_days, max_per_transaction, cumulative_max, activated_at, expired_at
		FROM control_sessions
		WHERE block_id = $1 AND expired_at IS NULL
		ORDER BY activated_at DESC
		LIMIT 1
	`, blockID)
	return scanSession(row)
}

func (p *PostgresStore) Update(ctx context.Context, s *Session) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE control_sessions SET expired_at = $2 WHERE id = $1
	`, s.ID, s.ExpiredAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM control_sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func scanSession(row *sql.Row) (*Session, error) {
	var (
		s       Session
		expired sql.NullTime
	)
	err := row.Scan(&s.ID, &s.BlockID, &s.Settings.AssetID, &s.Settings.AuthorizedDurationDays,
		&s.Settings.MaxPerTransaction, &s.Settings.CumulativeMax, &s.ActivatedAt, &expired)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if expired.Valid {
		t := expired.Time
		s.ExpiredAt = &t
	}
	return &s, nil
}
