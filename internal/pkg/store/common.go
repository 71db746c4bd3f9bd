package store

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/ougirez/cenytepla/internal/pkg/constants"
)

const (
	tableRegions      = "regions"
	tableLocalities   = "localities"
	tableHeatPrices   = "heat_prices"
	tableRejectedRows = "rejected_rows"
	tableIngestRuns   = "ingest_runs"
)

var mapping = map[error]error{pgx.ErrNoRows: constants.ErrDBNotFound}

func wrapErr(err error) error {
	for k, v := range mapping {
		if errors.Is(err, k) {
			return v
		}
	}
	return err
}

// builder returns a squirrel SQL builder with postgres placeholders.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
