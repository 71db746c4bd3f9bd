package ingest

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ougirez/cenytepla/internal/domain"
	"github.com/ougirez/cenytepla/internal/domain/dto"
	"github.com/ougirez/cenytepla/internal/pkg/observability"
)

// Policy decides which record survives a duplicate (locality, year) key.
// The regulator's intended tie-break is unclear, so the policy is
// configuration rather than a constant.
type Policy string

const (
	// PolicyKeepFirst keeps the first-seen record and warns.
	PolicyKeepFirst Policy = "keep_first"
	// PolicyPlausiblePrice prefers the candidate whose price is closest
	// to the locality's most recent earlier-year price; without such a
	// reference it behaves like PolicyKeepFirst.
	PolicyPlausiblePrice Policy = "plausible_price"
)

type MergeOptions struct {
	Policy Policy
}

// Collision is the warning the merger surfaces instead of overwriting
// silently.
type Collision struct {
	Key  domain.Key
	Kept *domain.HeatPriceRecord
	Note string
}

// Merge concatenates per-year results into the canonical dataset. Inputs
// arrive validated; the only check applied here is the duplicate-key one.
func Merge(results []*dto.YearResult, opts MergeOptions) ([]*domain.HeatPriceRecord, []Collision) {
	var (
		merged     []*domain.HeatPriceRecord
		collisions []Collision
	)
	index := make(map[domain.Key]int)
	// Most recent earlier-year price per locality, maintained while
	// walking years in ascending order.
	lastPrice := make(map[string]decimal.Decimal)

	for _, res := range results {
		seenThisYear := make(map[string]bool)
		for _, rec := range res.Accepted() {
			key := rec.Key()
			at, dup := index[key]
			if !dup {
				index[key] = len(merged)
				merged = append(merged, rec)
				seenThisYear[rec.Locality] = true
				continue
			}

			kept := merged[at]
			if opts.Policy == PolicyPlausiblePrice {
				if prior, ok := lastPrice[rec.Locality]; ok {
					if distance(rec.Price, prior).LessThan(distance(kept.Price, prior)) {
						merged[at] = rec
						kept = rec
					}
				}
			}

			observability.MergeCollisions.Inc()
			collisions = append(collisions, Collision{
				Key:  key,
				Kept: kept,
				Note: fmt.Sprintf("duplicate key (%s, %d): kept price %s %s",
					key.Locality, key.Year, kept.Price, kept.Unit),
			})
		}

		// Collisions within the year resolve against older data only,
		// so price references update after the year is done.
		for _, rec := range res.Accepted() {
			if seenThisYear[rec.Locality] {
				lastPrice[rec.Locality] = merged[index[rec.Key()]].Price
			}
		}
	}

	return merged, collisions
}

func distance(a, b decimal.Decimal) decimal.Decimal {
	return a.Sub(b).Abs()
}
