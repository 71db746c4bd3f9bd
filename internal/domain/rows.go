package domain

// RawRow is one table row scraped from a report page, before any typing.
// Ephemeral: produced by the layout parser, consumed by the normalizer.
type RawRow struct {
	Page  int      // 1-based page number within the document
	Line  int      // 0-based line index within the page
	Cells []string // ordered raw cell strings, padded to the layout width
}

// RejectionReason classifies why a row failed validation.
type RejectionReason string

const (
	ReasonMissingField    RejectionReason = "missing_field"
	ReasonNumericParse    RejectionReason = "numeric_parse"
	ReasonUnknownCategory RejectionReason = "unknown_category"
	ReasonOutOfRange      RejectionReason = "out_of_range"
	ReasonUnitMismatch    RejectionReason = "unit_mismatch"
)

// RejectedRow is a RawRow that failed validation, kept with the first
// violated invariant so no input disappears silently.
type RejectedRow struct {
	Year   Year            `json:"year"`
	Page   int             `json:"page"`
	Line   int             `json:"line"`
	Cells  []string        `json:"raw_cells"`
	Reason RejectionReason `json:"reason"`
	Detail string          `json:"detail"`
}

// YearStatus is the terminal state of one year's batch.
type YearStatus string

const (
	StatusUnprocessed YearStatus = "unprocessed"
	StatusParsing     YearStatus = "parsing"
	// StatusPartiallyAccepted covers the fully-accepted case too
	// (rejected count zero).
	StatusPartiallyAccepted YearStatus = "partially_accepted"
	StatusNoTableFound      YearStatus = "no_table_found"
	// StatusFailed means the year's pipeline errored after the document
	// was read (no catalog revision, parser failure); like the other
	// terminal failure states it never aborts the run.
	StatusFailed YearStatus = "failed"
	// StatusUnavailable means the year's document was missing or
	// unreadable; the year is skipped, never aborting the run.
	StatusUnavailable YearStatus = "unavailable"
)
