package store

import (
	"context"
	"strings"

	"github.com/ougirez/cenytepla/internal/domain"
	"github.com/ougirez/cenytepla/internal/pkg/logger"
)

func (s *store) InsertRejectedRows(ctx context.Context, runID string, rows []domain.RejectedRow) error {
	if len(rows) == 0 {
		return nil
	}

	query := builder().Insert(tableRejectedRows).
		Columns("run_id", "year", "page", "line", "raw_cells", "reason", "detail")

	for _, row := range rows {
		query = query.Values(runID, row.Year, row.Page, row.Line,
			strings.Join(row.Cells, "|"), string(row.Reason), row.Detail)
	}

	if _, err := s.pool.Execx(ctx, query); err != nil {
		logger.Error(ctx, err.Error())
		return wrapErr(err)
	}

	return nil
}

func (s *store) InsertRunSummary(ctx context.Context, summary *RunSummary) error {
	query := builder().Insert(tableIngestRuns).
		Columns("run_id", "year", "status", "accepted", "rejected", "total_rows").
		Values(summary.RunID, summary.Year, string(summary.Status),
			summary.Accepted, summary.Rejected, summary.TotalRows)

	if _, err := s.pool.Execx(ctx, query); err != nil {
		return wrapErr(err)
	}

	return nil
}

func (s *store) ListRunSummaries(ctx context.Context) ([]*RunSummary, error) {
	query := builder().
		Select("run_id", "year", "status", "accepted", "rejected", "total_rows", "created_at").
		From(tableIngestRuns).
		OrderBy("created_at desc, year")

	var selected []*RunSummary
	err := s.pool.Selectx(ctx, &selected, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}
