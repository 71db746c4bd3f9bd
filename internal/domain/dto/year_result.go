package dto

import (
	"sort"
	"sync"

	"github.com/ougirez/cenytepla/internal/domain"
)

// YearResult accumulates one year's batch outcome while pages are being
// processed concurrently. Accessors are safe for concurrent use; the
// orchestrator freezes the result before handing it to the merger.
type YearResult struct {
	Year   domain.Year
	Status domain.YearStatus

	mu         sync.Mutex
	accepted   []*domain.HeatPriceRecord
	rejected   []domain.RejectedRow
	totalRows  int
	pages      int
	headerSeen bool
}

func NewYearResult(year domain.Year) *YearResult {
	return &YearResult{Year: year, Status: domain.StatusUnprocessed}
}

// AddPage records the outcome of one page: how many raw rows the layout
// parser emitted there, which of them validated, which were rejected.
func (r *YearResult) AddPage(rows int, hadTable bool, accepted []*domain.HeatPriceRecord, rejected []domain.RejectedRow) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pages++
	r.totalRows += rows
	if hadTable {
		r.headerSeen = true
	}
	r.accepted = append(r.accepted, accepted...)
	r.rejected = append(r.rejected, rejected...)
}

// HeaderSeen reports whether any page of the document carried a
// recognizable table header.
func (r *YearResult) HeaderSeen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.headerSeen
}

// Accepted returns the accepted records in document order.
func (r *YearResult) Accepted() []*domain.HeatPriceRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.accepted
}

// Rejected returns the rejection report in document order. The order is
// deterministic even though pages run concurrently: the orchestrator sorts
// on (page, line) when it seals the result.
func (r *YearResult) Rejected() []domain.RejectedRow {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rejected
}

// TotalRows is the number of raw rows the layout parser emitted for the
// whole document. Completeness invariant:
// len(Accepted()) + len(Rejected()) == TotalRows().
func (r *YearResult) TotalRows() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.totalRows
}

func (r *YearResult) Pages() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pages
}

// Seal fixes the terminal state and establishes the deterministic
// document order of both sequences.
func (r *YearResult) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.headerSeen {
		r.Status = domain.StatusNoTableFound
		return
	}
	r.Status = domain.StatusPartiallyAccepted

	sort.SliceStable(r.rejected, func(i, j int) bool {
		if r.rejected[i].Page != r.rejected[j].Page {
			return r.rejected[i].Page < r.rejected[j].Page
		}
		return r.rejected[i].Line < r.rejected[j].Line
	})
}
