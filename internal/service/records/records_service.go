package records

import (
	"context"
	"fmt"

	"github.com/ougirez/cenytepla/internal/domain"
	"github.com/ougirez/cenytepla/internal/pkg/store"
)

// Service is the read path the dashboard consumes: filtered views over
// the persisted canonical dataset. It never invokes the pipeline.
type Service struct {
	store store.Store
}

func NewRecordsService(store store.Store) *Service {
	return &Service{store: store}
}

func (s *Service) ListRecords(ctx context.Context, opts store.ListRecordsOpts) ([]*domain.StoredRecord, error) {
	records, err := s.store.ListRecords(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("store.ListRecords: %w", err)
	}
	return records, nil
}

func (s *Service) ListLocalities(ctx context.Context) ([]*domain.Locality, error) {
	localities, err := s.store.ListLocalities(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListLocalities: %w", err)
	}
	return localities, nil
}

func (s *Service) ListRunSummaries(ctx context.Context) ([]*store.RunSummary, error) {
	summaries, err := s.store.ListRunSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListRunSummaries: %w", err)
	}
	return summaries, nil
}
