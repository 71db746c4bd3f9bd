package domain_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ougirez/cenytepla/internal/domain"
)

func TestFuelSharesDominant(t *testing.T) {
	shares := func(coal, biomass, waste, gas, other int64) domain.FuelShares {
		return domain.FuelShares{
			Coal:    decimal.NewFromInt(coal),
			Biomass: decimal.NewFromInt(biomass),
			Waste:   decimal.NewFromInt(waste),
			Gas:     decimal.NewFromInt(gas),
			Other:   decimal.NewFromInt(other),
		}
	}

	assert.Equal(t, domain.FuelCoal, shares(80, 5, 0, 15, 0).Dominant())
	assert.Equal(t, domain.FuelGas, shares(10, 0, 0, 90, 0).Dominant())
	assert.Equal(t, domain.FuelWasteHeat, shares(0, 0, 100, 0, 0).Dominant())
	// All-zero rows carry no information about the fuel mix.
	assert.Equal(t, domain.FuelOther, shares(0, 0, 0, 0, 0).Dominant())
	// A tied split has no dominant fuel either.
	assert.Equal(t, domain.FuelOther, shares(50, 0, 0, 50, 0).Dominant())
	assert.Equal(t, domain.FuelOther, shares(30, 30, 0, 30, 10).Dominant())
	// A later larger share clears an earlier tie.
	assert.Equal(t, domain.FuelGas, shares(25, 25, 0, 50, 0).Dominant())
}

func TestReasonFor(t *testing.T) {
	assert.Equal(t, domain.ReasonNumericParse,
		domain.ReasonFor(fmt.Errorf("price: %w", domain.ErrNumericParse)))
	assert.Equal(t, domain.ReasonUnknownCategory,
		domain.ReasonFor(fmt.Errorf("fuel: %w", domain.ErrUnknownCategory)))
	assert.Equal(t, domain.ReasonOutOfRange,
		domain.ReasonFor(fmt.Errorf("price: %w", domain.ErrRangeViolation)))
	assert.Equal(t, domain.ReasonUnitMismatch,
		domain.ReasonFor(fmt.Errorf("unit: %w", domain.ErrUnitInconsistency)))
	assert.Equal(t, domain.ReasonMissingField,
		domain.ReasonFor(fmt.Errorf("locality: %w", domain.ErrMissingField)))
	assert.Equal(t, domain.ReasonMissingField, domain.ReasonFor(fmt.Errorf("anything else")))
}

func TestRecordKey(t *testing.T) {
	rec := &domain.HeatPriceRecord{Year: 2021, Locality: "Most"}
	assert.Equal(t, domain.Key{Year: 2021, Locality: "Most"}, rec.Key())
}
