package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/certverify-labs/certverify/internal/domain"
)

// PgxPool is the subset of pgxpool.Pool the repository needs, also
// satisfied by pgxmock.
type PgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
}

// RepositoryInterface defines operations for verification history data access
type RepositoryInterface interface {
	Insert(ctx context.Context, rec *domain.HistoryRecord, keep int) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.HistoryRecord, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type Repository struct {
	pool PgxPool
}

func NewRepository(pool PgxPool) *Repository {
	return &Repository{pool: pool}
}

// Insert stores a history record and trims the user's history so only the
// newest keep rows remain.
func (r *Repository) Insert(ctx context.Context, rec *domain.HistoryRecord, keep int) error {
	query := `
		INSERT INTO verification_history (id, user_id, filename, file_size, file_type, result, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING processed_at
	`

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	result, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("marshal history result: %w", err)
	}

	err = r.pool.QueryRow(ctx, query,
		rec.ID,
		rec.UserID,
		rec.Filename,
		rec.FileSize,
		rec.FileType,
		result,
	).Scan(&rec.ProcessedAt)
	if err != nil {
		return fmt.Errorf("insert history record: %w", err)
	}

	return r.trim(ctx, rec.UserID, keep)
}

func (r *Repository) trim(ctx context.Context, userID uuid.UUID, keep int) error {
	query := `
		DELETE FROM verification_history
		WHERE user_id = $1
		  AND id NOT IN (
			SELECT id FROM verification_history
			WHERE user_id = $1
			ORDER BY processed_at DESC, id DESC
			LIMIT $2
		  )
	`

	if _, err := r.pool.Exec(ctx, query, userID, keep); err != nil {
		return fmt.Errorf("trim history: %w", err)
	}
	return nil
}

// ListByUser returns the newest history records for a user, most recent
// first. Rows sharing a processed_at timestamp order by id so the result
// is stable.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.HistoryRecord, error) {
	query := `
		SELECT id, user_id, filename, file_size, file_type, result, processed_at
		FROM verification_history
		WHERE user_id = $1
		ORDER BY processed_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	records := make([]domain.HistoryRecord, 0, limit)
	for rows.Next() {
		var rec domain.HistoryRecord
		var result []byte
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.Filename,
			&rec.FileSize,
			&rec.FileType,
			&result,
			&rec.ProcessedAt,
		); err != nil {
			return nil, fmt.Errorf("scan history record: %w", err)
		}
		if err := json.Unmarshal(result, &rec.Result); err != nil {
			return nil, fmt.Errorf("unmarshal history result: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Clear removes all history records for a user.
func (r *Repository) Clear(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM verification_history WHERE user_id = $1`
	if _, err := r.pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
