package domain

import (
	"errors"
	"fmt"
)

// Per-field normalization failures. These never abort a batch: the
// normalizer records them against the field and the validator turns the
// first one into a RejectedRow.
var (
	ErrNumericParse      = errors.New("no parsable number in cell")
	ErrUnknownCategory   = errors.New("value not in the known category set")
	ErrMissingField      = errors.New("required field missing")
	ErrRangeViolation    = errors.New("value outside the sane range")
	ErrUnitInconsistency = errors.New("mixed price units in one record")
)

// NoTableFoundError is fatal for a single year: the document contained no
// recognizable table on any page. An empty-but-valid result never maps to
// this error.
type NoTableFoundError struct {
	Year Year
}

func (e *NoTableFoundError) Error() string {
	return fmt.Sprintf("no heat price table found in the %d report", e.Year)
}

// ReasonFor maps a normalization/validation failure onto its rejection
// reason. Unknown errors count as missing data rather than being dropped.
func ReasonFor(err error) RejectionReason {
	switch {
	case errors.Is(err, ErrNumericParse):
		return ReasonNumericParse
	case errors.Is(err, ErrUnknownCategory):
		return ReasonUnknownCategory
	case errors.Is(err, ErrRangeViolation):
		return ReasonOutOfRange
	case errors.Is(err, ErrUnitInconsistency):
		return ReasonUnitMismatch
	default:
		return ReasonMissingField
	}
}
