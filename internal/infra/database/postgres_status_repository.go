package database

import (
	"context"
	"database/sql"
	"fmt"

	"refund_status_service/internal/domain/refund"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresStatusRepository is the durable variant of the status aggregate
// store: one row per StatusRecord keyed by filing_id. Selected at bootstrap
// when DATABASE_URL is configured; the read/write contract is identical to
// the in-memory store.
type PostgresStatusRepository struct {
	db *sql.DB
}

func NewPostgresStatusRepository(db *sql.DB) *PostgresStatusRepository {
	return &PostgresStatusRepository{db: db}
}

func (r *PostgresStatusRepository) Get(ctx context.Context, filingID string) (*refund.StatusRecord, error) {
	query := `SELECT filing_id, tracking_id, jurisdiction, status, raw_status_code, message_key, last_updated_at, amount
              FROM refund_filing_statuses WHERE filing_id = $1`
	rec := &refund.StatusRecord{}
	err := r.db.QueryRowContext(ctx, query, filingID).Scan(
		&rec.FilingID, &rec.TrackingID, &rec.Jurisdiction, &rec.Status,
		&rec.RawStatusCode, &rec.MessageKey, &rec.LastUpdatedAt, &rec.Amount,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting status record for filing %s: %w", filingID, err)
	}
	return rec, nil
}

func (r *PostgresStatusRepository) Upsert(ctx context.Context, record *refund.StatusRecord) error {
	query := `INSERT INTO refund_filing_statuses
                (filing_id, tracking_id, jurisdiction, status, raw_status_code, message_key, last_updated_at, amount)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
              ON CONFLICT (filing_id) DO UPDATE SET
                tracking_id = EXCLUDED.tracking_id,
                jurisdiction = EXCLUDED.jurisdiction,
                status = EXCLUDED.status,
                raw_status_code = EXCLUDED.raw_status_code,
                message_key = EXCLUDED.message_key,
                last_updated_at = EXCLUDED.last_updated_at,
                amount = EXCLUDED.amount`
	_, err := r.db.ExecContext(ctx, query,
		record.FilingID, record.TrackingID, record.Jurisdiction, record.Status,
		record.RawStatusCode, record.MessageKey, record.LastUpdatedAt, record.Amount,
	)
	if err != nil {
		return fmt.Errorf("error upserting status record for filing %s: %w", record.FilingID, err)
	}
	return nil
}

func (r *PostgresStatusRepository) ActiveFilingIDs(ctx context.Context) ([]string, error) {
	// Terminal statuses never leave the active set once written, so the
	// exclusion list is fixed at query time.
	query := `SELECT filing_id FROM refund_filing_statuses WHERE status <> $1`
	rows, err := r.db.QueryContext(ctx, query, refund.StatusDeposited)
	if err != nil {
		return nil, fmt.Errorf("error listing active filing ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning active filing id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating active filing ids: %w", err)
	}
	return ids, nil
}
