// Package validate enforces per-record invariants. Validation is total:
// every partial record produces exactly one outcome, a canonical record
// or a rejected row carrying the first violated invariant.
package validate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ougirez/cenytepla/internal/domain"
	"github.com/ougirez/cenytepla/internal/pipeline/catalog"
	"github.com/ougirez/cenytepla/internal/pipeline/normalize"
)

// requiredFields in check order. A field that failed normalization is
// reported with its own failure; a field that was simply absent is a
// missing-field rejection.
var requiredFields = []catalog.Field{
	catalog.FieldLocality,
	catalog.FieldRegion,
	catalog.FieldFuel,
	catalog.FieldDelivery,
	catalog.FieldPrice,
}

type Validator struct {
	layout catalog.Layout
}

func New(layout catalog.Layout) *Validator {
	return &Validator{layout: layout}
}

// Validate runs the fixed check order: required fields, numeric ranges,
// categorical membership, unit consistency.
func (v *Validator) Validate(year domain.Year, rec *normalize.PartialRecord) (*domain.HeatPriceRecord, *domain.RejectedRow) {
	if err := v.checkRequired(rec); err != nil {
		return nil, v.reject(year, rec, err)
	}
	if err := v.checkRanges(rec); err != nil {
		return nil, v.reject(year, rec, err)
	}
	if err := v.checkCategories(rec); err != nil {
		return nil, v.reject(year, rec, err)
	}
	if err := v.checkUnit(rec); err != nil {
		return nil, v.reject(year, rec, err)
	}

	return &domain.HeatPriceRecord{
		Year:                year,
		Locality:            *rec.Locality,
		Region:              *rec.Region,
		FuelType:            *rec.Fuel,
		DeliveryMethod:      *rec.Delivery,
		Price:               *rec.Price,
		Unit:                rec.Unit,
		FuelShares:          rec.Shares,
		QuantityGJ:          rec.Quantity,
		InstalledCapacityMW: rec.Capacity,
		DeliveryPoints:      rec.DeliveryPoints,
		Customers:           rec.Customers,
	}, nil
}

func (v *Validator) checkRequired(rec *normalize.PartialRecord) error {
	for _, field := range requiredFields {
		if v.present(rec, field) {
			continue
		}
		if err, ok := rec.FieldErrs[field]; ok {
			return err
		}
		return fmt.Errorf("%s: %w", field, domain.ErrMissingField)
	}
	return nil
}

func (v *Validator) present(rec *normalize.PartialRecord, field catalog.Field) bool {
	switch field {
	case catalog.FieldLocality:
		return rec.Locality != nil
	case catalog.FieldRegion:
		return rec.Region != nil
	case catalog.FieldFuel:
		return rec.Fuel != nil
	case catalog.FieldDelivery:
		return rec.Delivery != nil
	case catalog.FieldPrice:
		return rec.Price != nil
	default:
		return true
	}
}

func (v *Validator) checkRanges(rec *normalize.PartialRecord) error {
	if rec.Price.IsNegative() {
		return fmt.Errorf("price %s is negative: %w", rec.Price, domain.ErrRangeViolation)
	}
	if rec.Price.GreaterThanOrEqual(v.layout.PriceCeiling) {
		return fmt.Errorf("price %s breaches the %s ceiling: %w",
			rec.Price, v.layout.PriceCeiling, domain.ErrRangeViolation)
	}

	for _, c := range []struct {
		name string
		val  *decimal.Decimal
	}{
		{"quantity", rec.Quantity},
		{"installed capacity", rec.Capacity},
	} {
		if c.val != nil && c.val.IsNegative() {
			return fmt.Errorf("%s %s is negative: %w", c.name, c.val, domain.ErrRangeViolation)
		}
	}
	for _, c := range []struct {
		name string
		val  *int
	}{
		{"delivery points", rec.DeliveryPoints},
		{"customers", rec.Customers},
	} {
		if c.val != nil && *c.val < 0 {
			return fmt.Errorf("%s %d is negative: %w", c.name, *c.val, domain.ErrRangeViolation)
		}
	}

	return nil
}

// checkCategories guards the closed sets against synonym tables that map
// onto values outside the vocabulary (a config mistake, not a data one).
func (v *Validator) checkCategories(rec *normalize.PartialRecord) error {
	if _, ok := domain.RegionNames[*rec.Region]; !ok {
		return fmt.Errorf("region %q: %w", *rec.Region, domain.ErrUnknownCategory)
	}
	switch *rec.Fuel {
	case domain.FuelCoal, domain.FuelGas, domain.FuelBiomass, domain.FuelWasteHeat, domain.FuelOther:
	default:
		return fmt.Errorf("fuel %q: %w", *rec.Fuel, domain.ErrUnknownCategory)
	}
	switch *rec.Delivery {
	case domain.DeliveryHotWater, domain.DeliverySteam:
	default:
		return fmt.Errorf("delivery %q: %w", *rec.Delivery, domain.ErrUnknownCategory)
	}
	return nil
}

// checkUnit guards records assembled outside the normalizer. The wired
// pipeline stamps the layout's unit on every partial record, so a mismatch
// or blank here means a caller built the record by hand.
func (v *Validator) checkUnit(rec *normalize.PartialRecord) error {
	if rec.Unit == "" {
		return fmt.Errorf("record has no price unit: %w", domain.ErrUnitInconsistency)
	}
	if rec.Unit != v.layout.Unit {
		return fmt.Errorf("unit %q conflicts with layout unit %q: %w",
			rec.Unit, v.layout.Unit, domain.ErrUnitInconsistency)
	}
	return nil
}

func (v *Validator) reject(year domain.Year, rec *normalize.PartialRecord, err error) *domain.RejectedRow {
	return &domain.RejectedRow{
		Year:   year,
		Page:   rec.Row.Page,
		Line:   rec.Row.Line,
		Cells:  rec.Row.Cells,
		Reason: domain.ReasonFor(err),
		Detail: err.Error(),
	}
}
