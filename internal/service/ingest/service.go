package ingest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ougirez/cenytepla/internal/domain"
	"github.com/ougirez/cenytepla/internal/domain/dto"
	"github.com/ougirez/cenytepla/internal/pipeline/catalog"
	"github.com/ougirez/cenytepla/internal/pipeline/layout"
	"github.com/ougirez/cenytepla/internal/pipeline/normalize"
	"github.com/ougirez/cenytepla/internal/pipeline/pdftext"
	"github.com/ougirez/cenytepla/internal/pipeline/validate"
	"github.com/ougirez/cenytepla/internal/pkg/logger"
	"github.com/ougirez/cenytepla/internal/pkg/observability"
	"github.com/ougirez/cenytepla/internal/pkg/store"
)

// Fetcher supplies one year's report document.
type Fetcher interface {
	Fetch(ctx context.Context, year domain.Year) (*pdftext.Document, error)
}

type Service struct {
	store   store.Store
	catalog *catalog.Catalog
	fetcher Fetcher
	merge   MergeOptions
}

func NewService(st store.Store, cat *catalog.Catalog, fetcher Fetcher, merge MergeOptions) *Service {
	return &Service{store: st, catalog: cat, fetcher: fetcher, merge: merge}
}

// YearReport is one line of the per-year status summary a run always
// terminates with, whatever happened to the individual years.
type YearReport struct {
	Year      domain.Year       `json:"year"`
	Status    domain.YearStatus `json:"status"`
	Accepted  int               `json:"accepted"`
	Rejected  int               `json:"rejected"`
	TotalRows int               `json:"total_rows"`
	Error     string            `json:"error,omitempty"`
}

type RunReport struct {
	RunID      string                    `json:"run_id"`
	Years      []YearReport              `json:"years"`
	Records    []*domain.HeatPriceRecord `json:"-"`
	Rejected   []domain.RejectedRow      `json:"-"`
	Collisions []Collision               `json:"collisions,omitempty"`
	Stored     int                       `json:"stored"`
}

// ProcessYear drives the parser, normalizer and validator over every page
// of one year's document. Pages run concurrently; results are assembled
// in document order so the rejection report is deterministic.
//
// Completeness holds by construction: every raw row the parser emits ends
// up accepted or rejected, never skipped.
func (s *Service) ProcessYear(ctx context.Context, doc *pdftext.Document, year domain.Year) (*dto.YearResult, error) {
	lay, err := s.catalog.LayoutFor(year)
	if err != nil {
		return nil, fmt.Errorf("catalog.LayoutFor: %w", err)
	}

	parser := layout.NewParser(lay)
	normalizer := normalize.New(lay)
	validator := validate.New(lay)

	result := dto.NewYearResult(year)
	result.Status = domain.StatusParsing

	type pageOutcome struct {
		hadTable bool
		rows     int
		accepted []*domain.HeatPriceRecord
		rejected []domain.RejectedRow
	}
	outcomes := make([]pageOutcome, len(doc.Pages))

	eg, _ := errgroup.WithContext(ctx)
	for i := range doc.Pages {
		i := i
		eg.Go(func() error {
			parsed := parser.ParsePage(doc.Pages[i])
			observability.PagesParsed.Inc()

			out := pageOutcome{hadTable: parsed.HadTable, rows: len(parsed.Rows)}
			for _, raw := range parsed.Rows {
				partial := normalizer.Normalize(raw)
				rec, rej := validator.Validate(year, partial)
				if rej != nil {
					out.rejected = append(out.rejected, *rej)
					observability.RowsRejected.WithLabelValues(string(rej.Reason)).Inc()
					continue
				}
				out.accepted = append(out.accepted, rec)
				observability.RowsAccepted.Inc()
			}
			outcomes[i] = out
			return nil
		})
	}
	if err = eg.Wait(); err != nil {
		return nil, fmt.Errorf("err in goroutine: %w", err)
	}

	for _, out := range outcomes {
		result.AddPage(out.rows, out.hadTable, out.accepted, out.rejected)
	}
	result.Seal()

	if result.Status == domain.StatusNoTableFound {
		return result, &domain.NoTableFoundError{Year: year}
	}

	logger.Infof(ctx, "year %d processed: %d accepted, %d rejected of %d rows",
		year, len(result.Accepted()), len(result.Rejected()), result.TotalRows())

	return result, nil
}

// Run ingests the requested years, merges them and loads the outcome into
// the store. A failed year is reported and skipped; the run itself only
// fails on storage errors, never on per-year parse failures.
func (s *Service) Run(ctx context.Context, years []domain.Year) (*RunReport, error) {
	report := &RunReport{RunID: uuid.NewString()}

	var (
		mu      sync.Mutex
		results []*dto.YearResult
	)
	reports := make([]YearReport, len(years))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, year := range years {
		i, year := i, year
		eg.Go(func() error {
			yr := YearReport{Year: year, Status: domain.StatusUnprocessed}

			doc, err := s.fetcher.Fetch(egCtx, year)
			if err != nil {
				logger.Warnf(egCtx, "report for %d unavailable: %s", year, err.Error())
				yr.Status = domain.StatusUnavailable
				yr.Error = err.Error()
				reports[i] = yr
				return nil
			}

			result, err := s.ProcessYear(egCtx, doc, year)
			if err != nil {
				// Fault isolation is at year granularity: a failed year
				// is reported and skipped, the siblings keep running.
				var notFound *domain.NoTableFoundError
				if errors.As(err, &notFound) {
					yr.Status = domain.StatusNoTableFound
				} else {
					logger.Errorf(egCtx, "year %d failed: %s", year, err.Error())
					yr.Status = domain.StatusFailed
				}
				yr.Error = err.Error()
				reports[i] = yr
				return nil
			}

			yr.Status = result.Status
			yr.Accepted = len(result.Accepted())
			yr.Rejected = len(result.Rejected())
			yr.TotalRows = result.TotalRows()
			reports[i] = yr

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("err in goroutine: %w", err)
	}

	report.Years = reports
	sort.Slice(results, func(i, j int) bool { return results[i].Year < results[j].Year })

	report.Records, report.Collisions = Merge(results, s.merge)
	for _, res := range results {
		report.Rejected = append(report.Rejected, res.Rejected()...)
	}
	for _, c := range report.Collisions {
		logger.Warnf(ctx, "merge collision: %s", c.Note)
	}

	if err := s.persist(ctx, report); err != nil {
		return nil, err
	}

	return report, nil
}

func (s *Service) persist(ctx context.Context, report *RunReport) error {
	if s.store == nil {
		return nil
	}

	if err := s.store.EnsureRegions(ctx); err != nil {
		return fmt.Errorf("store.EnsureRegions: %w", err)
	}

	stored, err := s.store.UpsertRecords(ctx, report.Records)
	if err != nil {
		return fmt.Errorf("store.UpsertRecords: %w", err)
	}
	report.Stored = stored

	if err = s.store.InsertRejectedRows(ctx, report.RunID, report.Rejected); err != nil {
		return fmt.Errorf("store.InsertRejectedRows: %w", err)
	}

	for _, yr := range report.Years {
		summary := &store.RunSummary{
			RunID:     report.RunID,
			Year:      yr.Year,
			Status:    yr.Status,
			Accepted:  yr.Accepted,
			Rejected:  yr.Rejected,
			TotalRows: yr.TotalRows,
		}
		if err = s.store.InsertRunSummary(ctx, summary); err != nil {
			return fmt.Errorf("store.InsertRunSummary, year-%d: %w", yr.Year, err)
		}
	}

	return nil
}
