package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"playground/internal/domain"
	"playground/internal/sqlinline"
)

// HistoryRepositoryPG stores the generation ledger in PostgreSQL.
type HistoryRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository constructs a new history repository instance.
func NewHistoryRepository(pool *pgxpool.Pool) *HistoryRepositoryPG {
	return &HistoryRepositoryPG{pool: pool}
}

// Record persists one generation. The caller assigns no ID; one is minted
// here so the row exists independently of any provider identifiers.
func (r *HistoryRepositoryPG) Record(ctx context.Context, rec domain.GenerationRecord) (string, error) {
	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx, sqlinline.QInsertGeneration,
		id, rec.Mode, rec.Prompt, rec.ImageCount, rec.InputTokens, rec.OutputTokens, rec.EstimatedCost, rec.Filenames)
	if err != nil {
		return "", err
	}
	return id, nil
}

// ListRecent returns the newest ledger rows, newest first.
func (r *HistoryRepositoryPG) ListRecent(ctx context.Context, limit int) ([]domain.GenerationRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, sqlinline.QListGenerations, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.GenerationRecord
	for rows.Next() {
		var rec domain.GenerationRecord
		if err := rows.Scan(&rec.ID, &rec.Mode, &rec.Prompt, &rec.ImageCount, &rec.InputTokens, &rec.OutputTokens, &rec.EstimatedCost, &rec.Filenames, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
