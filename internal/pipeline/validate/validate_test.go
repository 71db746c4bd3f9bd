package validate_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ougirez/cenytepla/internal/domain"
	"github.com/ougirez/cenytepla/internal/pipeline/catalog"
	"github.com/ougirez/cenytepla/internal/pipeline/normalize"
	"github.com/ougirez/cenytepla/internal/pipeline/validate"
)

func layout2018(t *testing.T) catalog.Layout {
	t.Helper()
	lay, err := catalog.Default().LayoutFor(2021)
	require.NoError(t, err)
	return lay
}

func validPartial(lay catalog.Layout) *normalize.PartialRecord {
	locality := "Olomouc"
	region := domain.RegionCode("M")
	fuel := domain.FuelCoal
	delivery := domain.DeliverySteam
	price := decimal.RequireFromString("623.5")
	return &normalize.PartialRecord{
		Row:       domain.RawRow{Page: 1, Line: 4, Cells: []string{"Olomouc", "M", "uhlí", "", "", "", "pára", "623,50", ""}},
		Unit:      lay.Unit,
		Locality:  &locality,
		Region:    &region,
		Fuel:      &fuel,
		Delivery:  &delivery,
		Price:     &price,
		FieldErrs: map[catalog.Field]error{},
	}
}

func TestValidateAcceptsCompleteRecord(t *testing.T) {
	lay := layout2018(t)
	v := validate.New(lay)

	rec, rej := v.Validate(2021, validPartial(lay))

	require.Nil(t, rej)
	require.NotNil(t, rec)
	assert.Equal(t, 2021, rec.Year)
	assert.Equal(t, "Olomouc", rec.Locality)
	assert.Equal(t, domain.RegionCode("M"), rec.Region)
	assert.True(t, rec.Price.Equal(decimal.RequireFromString("623.5")))
	assert.Equal(t, "Kč/GJ", rec.Unit)
}

func TestValidateRejectsMissingPrice(t *testing.T) {
	lay := layout2018(t)
	v := validate.New(lay)

	partial := validPartial(lay)
	partial.Price = nil

	rec, rej := v.Validate(2021, partial)

	assert.Nil(t, rec)
	require.NotNil(t, rej)
	assert.Equal(t, domain.ReasonMissingField, rej.Reason)
	assert.Equal(t, 2021, rej.Year)
	assert.Equal(t, 1, rej.Page)
	assert.Equal(t, 4, rej.Line)
	assert.Equal(t, partial.Row.Cells, rej.Cells)
}

func TestValidateUnparsablePriceIsNumericParse(t *testing.T) {
	lay := layout2018(t)
	v := validate.New(lay)

	partial := validPartial(lay)
	partial.Price = nil
	_, parseErr := normalize.ParseDecimal("n/a")
	partial.FieldErrs[catalog.FieldPrice] = parseErr

	rec, rej := v.Validate(2021, partial)

	// The price is absent because parsing failed; the rejection carries the
	// parse failure, not a generic missing-field one.
	assert.Nil(t, rec)
	require.NotNil(t, rej)
	assert.Equal(t, domain.ReasonNumericParse, rej.Reason)
}

func TestValidateRejectsNegativePrice(t *testing.T) {
	lay := layout2018(t)
	v := validate.New(lay)

	partial := validPartial(lay)
	neg := decimal.RequireFromString("-1")
	partial.Price = &neg

	_, rej := v.Validate(2021, partial)

	require.NotNil(t, rej)
	assert.Equal(t, domain.ReasonOutOfRange, rej.Reason)
}

func TestValidateRejectsPriceAboveCeiling(t *testing.T) {
	lay := layout2018(t)
	v := validate.New(lay)

	partial := validPartial(lay)
	huge := decimal.NewFromInt(123456)
	partial.Price = &huge

	_, rej := v.Validate(2021, partial)

	require.NotNil(t, rej)
	assert.Equal(t, domain.ReasonOutOfRange, rej.Reason)
}

func TestValidateRejectsUnitMismatch(t *testing.T) {
	lay := layout2018(t)
	v := validate.New(lay)

	partial := validPartial(lay)
	partial.Unit = "Kč/MWh"

	_, rej := v.Validate(2021, partial)

	require.NotNil(t, rej)
	assert.Equal(t, domain.ReasonUnitMismatch, rej.Reason)
}

func TestValidateChecksFieldsInOrder(t *testing.T) {
	lay := layout2018(t)
	v := validate.New(lay)

	// Both the locality and the price are missing; the rejection names the
	// first required field in check order.
	partial := validPartial(lay)
	partial.Locality = nil
	partial.Price = nil

	_, rej := v.Validate(2021, partial)

	require.NotNil(t, rej)
	assert.Equal(t, domain.ReasonMissingField, rej.Reason)
	assert.Contains(t, rej.Detail, "locality")
}

func TestValidateRequiredBeforeRange(t *testing.T) {
	lay := layout2018(t)
	v := validate.New(lay)

	// A missing region outranks an out-of-range price.
	partial := validPartial(lay)
	partial.Region = nil
	neg := decimal.RequireFromString("-5")
	partial.Price = &neg

	_, rej := v.Validate(2021, partial)

	require.NotNil(t, rej)
	assert.Equal(t, domain.ReasonMissingField, rej.Reason)
	assert.Contains(t, rej.Detail, "region")
}
