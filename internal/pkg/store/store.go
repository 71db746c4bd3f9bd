package store

import (
	"context"
	"time"

	"github.com/ougirez/cenytepla/internal/domain"
	"github.com/ougirez/cenytepla/internal/pkg/store/xpgx"
)

type Pool = xpgx.Pool

// RunSummary is the persisted per-year ingest status line.
type RunSummary struct {
	RunID     string            `db:"run_id" json:"run_id"`
	Year      domain.Year       `db:"year" json:"year"`
	Status    domain.YearStatus `db:"status" json:"status"`
	Accepted  int               `db:"accepted" json:"accepted"`
	Rejected  int               `db:"rejected" json:"rejected"`
	TotalRows int               `db:"total_rows" json:"total_rows"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
}

type Store interface {
	EnsureRegions(ctx context.Context) error
	UpsertRecords(ctx context.Context, records []*domain.HeatPriceRecord) (int, error)
	InsertRejectedRows(ctx context.Context, runID string, rows []domain.RejectedRow) error
	InsertRunSummary(ctx context.Context, summary *RunSummary) error
	ListRecords(ctx context.Context, opts ListRecordsOpts) ([]*domain.StoredRecord, error)
	ListLocalities(ctx context.Context) ([]*domain.Locality, error)
	ListRunSummaries(ctx context.Context) ([]*RunSummary, error)
}

type store struct {
	pool Pool
}

func NewStore(pool Pool) Store {
	return &store{pool}
}
