// Package normalize converts raw table cells into typed values: locale
// numerics, synonym-mapped categories and cleaned text. Per-field failures
// are recorded on the partial record and never abort a batch.
package normalize

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ougirez/cenytepla/internal/domain"
	"github.com/ougirez/cenytepla/internal/pipeline/catalog"
)

// PartialRecord is the normalizer's output: every field either typed or
// absent, with the failure (if any) recorded against the field name.
type PartialRecord struct {
	Row  domain.RawRow
	Unit string

	Locality       *string
	Region         *domain.RegionCode
	Fuel           *domain.FuelType
	Shares         *domain.FuelShares
	Delivery       *domain.DeliveryMethod
	Price          *decimal.Decimal
	Quantity       *decimal.Decimal
	Capacity       *decimal.Decimal
	DeliveryPoints *int
	Customers      *int

	FieldErrs map[catalog.Field]error
}

// Normalizer applies one layout revision's synonym tables. Safe for
// concurrent use: all state is read-only after construction.
type Normalizer struct {
	layout     catalog.Layout
	fuels      map[string]domain.FuelType
	deliveries map[string]domain.DeliveryMethod
	regions    map[string]domain.RegionCode
}

func New(layout catalog.Layout) *Normalizer {
	n := &Normalizer{
		layout:     layout,
		fuels:      make(map[string]domain.FuelType, len(layout.FuelSynonyms)),
		deliveries: make(map[string]domain.DeliveryMethod, len(layout.DeliverySynonyms)),
		regions:    make(map[string]domain.RegionCode, len(layout.RegionSynonyms)),
	}
	for k, v := range layout.FuelSynonyms {
		n.fuels[Fold(k)] = v
	}
	for k, v := range layout.DeliverySynonyms {
		n.deliveries[Fold(k)] = v
	}
	for k, v := range layout.RegionSynonyms {
		n.regions[Fold(k)] = v
	}
	return n
}

// Normalize types one raw row against the layout's column mapping.
func (n *Normalizer) Normalize(row domain.RawRow) *PartialRecord {
	rec := &PartialRecord{
		Row:       row,
		Unit:      n.layout.Unit,
		FieldErrs: make(map[catalog.Field]error),
	}

	var shares domain.FuelShares
	sharesSeen := false

	for i, field := range n.layout.Columns {
		var cell string
		if i < len(row.Cells) {
			cell = row.Cells[i]
		}

		text := CleanText(cell)
		if text == "" {
			// Empty after trimming is missing, not empty string;
			// the validator decides whether that matters.
			continue
		}

		switch field {
		case catalog.FieldIgnore:

		case catalog.FieldLocality:
			rec.Locality = &text

		case catalog.FieldRegion:
			if code, ok := n.regions[Fold(text)]; ok {
				rec.Region = &code
			} else {
				rec.FieldErrs[field] = fmt.Errorf("region %q: %w", text, domain.ErrUnknownCategory)
			}

		case catalog.FieldFuel:
			if fuel, ok := n.fuels[Fold(text)]; ok {
				rec.Fuel = &fuel
			} else {
				rec.FieldErrs[field] = fmt.Errorf("fuel %q: %w", text, domain.ErrUnknownCategory)
			}

		case catalog.FieldDelivery:
			if dm, ok := n.deliveries[Fold(text)]; ok {
				rec.Delivery = &dm
			} else {
				rec.FieldErrs[field] = fmt.Errorf("delivery %q: %w", text, domain.ErrUnknownCategory)
			}

		case catalog.FieldPrice:
			rec.Price = n.parseDecimalField(rec, field, text)

		case catalog.FieldQuantity:
			rec.Quantity = n.parseDecimalField(rec, field, text)

		case catalog.FieldCapacity:
			rec.Capacity = n.parseDecimalField(rec, field, text)

		case catalog.FieldDeliveryPoints:
			rec.DeliveryPoints = n.parseIntField(rec, field, text)

		case catalog.FieldCustomers:
			rec.Customers = n.parseIntField(rec, field, text)

		case catalog.FieldShareCoal, catalog.FieldShareBiomass, catalog.FieldShareWaste,
			catalog.FieldShareGas, catalog.FieldShareOther:
			d := n.parseDecimalField(rec, field, text)
			if d == nil {
				continue
			}
			sharesSeen = true
			switch field {
			case catalog.FieldShareCoal:
				shares.Coal = *d
			case catalog.FieldShareBiomass:
				shares.Biomass = *d
			case catalog.FieldShareWaste:
				shares.Waste = *d
			case catalog.FieldShareGas:
				shares.Gas = *d
			case catalog.FieldShareOther:
				shares.Other = *d
			}
		}
	}

	if sharesSeen {
		rec.Shares = &shares
		if rec.Fuel == nil {
			dominant := shares.Dominant()
			rec.Fuel = &dominant
		}
	}

	return rec
}

func (n *Normalizer) parseDecimalField(rec *PartialRecord, field catalog.Field, text string) *decimal.Decimal {
	d, err := ParseDecimal(text)
	if err != nil {
		rec.FieldErrs[field] = fmt.Errorf("%s %q: %w", field, text, err)
		return nil
	}
	return &d
}

func (n *Normalizer) parseIntField(rec *PartialRecord, field catalog.Field, text string) *int {
	d, err := ParseDecimal(text)
	if err != nil {
		rec.FieldErrs[field] = fmt.Errorf("%s %q: %w", field, text, err)
		return nil
	}
	if !d.IsInteger() {
		rec.FieldErrs[field] = fmt.Errorf("%s %q: not a whole number: %w", field, text, domain.ErrNumericParse)
		return nil
	}
	v := int(d.IntPart())
	return &v
}

// ParseDecimal parses a locale-formatted numeric cell. Comma and period
// both work as the decimal separator; space and period thousands
// separators are stripped. A period is only a thousands separator when a
// comma decimal separator follows it or when several periods group the
// digits, so "1234.56" stays 1234.56.
func ParseDecimal(cell string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range cell {
		switch {
		case r >= '0' && r <= '9', r == ',', r == '.', r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			// Thousands separator or stray padding; drop it.
		default:
			// Currency marks and footnote daggers ride along in some
			// revisions; they carry no digits.
		}
	}
	s := b.String()

	if !strings.ContainsAny(s, "0123456789") {
		return decimal.Decimal{}, domain.ErrNumericParse
	}

	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0:
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case dot >= 0:
		if strings.Count(s, ".") > 1 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%q: %w", cell, domain.ErrNumericParse)
	}
	return d, nil
}

// CleanText trims a cell and collapses internal whitespace runs to single
// spaces, keeping case and diacritics.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var foldTransformer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Fold produces the case- and diacritic-insensitive lookup form of a
// string: whitespace collapsed, lowercased, combining marks stripped.
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, CleanText(s))
	if err != nil {
		folded = CleanText(s)
	}
	return strings.ToLower(folded)
}
