// Package catalog holds the per-year extraction configuration: header
// keyword sets, column mappings and synonym tables. Header wording drifts
// between report years, so every layout is versioned by the first year it
// applies to and passed explicitly into the parser and normalizer.
package catalog

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/ougirez/cenytepla/internal/domain"
)

// Field names a logical column of the report table.
type Field string

const (
	FieldLocality       Field = "locality"
	FieldRegion         Field = "region"
	FieldFuel           Field = "fuel_type"
	FieldDelivery       Field = "delivery_method"
	FieldPrice          Field = "price"
	FieldQuantity       Field = "quantity_gj"
	FieldCapacity       Field = "installed_capacity_mw"
	FieldDeliveryPoints Field = "delivery_points"
	FieldCustomers      Field = "customers"
	FieldShareCoal      Field = "share_coal"
	FieldShareBiomass   Field = "share_biomass"
	FieldShareWaste     Field = "share_waste"
	FieldShareGas       Field = "share_gas"
	FieldShareOther     Field = "share_other"
	FieldIgnore         Field = "-"
)

// Layout is the extraction configuration for one report format revision.
type Layout struct {
	// Year the revision first applies to; it stays in force until a
	// later revision supersedes it.
	Year domain.Year

	Unit string

	// HeaderKeywords are matched (case- and diacritic-insensitively)
	// against each line; a line hitting at least HeaderMinHits of them
	// starts the table.
	HeaderKeywords []string
	HeaderMinHits  int

	// FooterKeywords end the table for the rest of the page.
	FooterKeywords []string

	// Columns maps cell position onto record fields.
	Columns []Field

	// MinColumns is the fewest cells a line must split into to count as
	// a data row at all. Rows between MinColumns and len(Columns) are
	// padded with empty cells and left to the validator.
	MinColumns int

	PriceCeiling decimal.Decimal

	FuelSynonyms     map[string]domain.FuelType
	DeliverySynonyms map[string]domain.DeliveryMethod
	RegionSynonyms   map[string]domain.RegionCode
}

// HasShareColumns reports whether fuel is given as percentage columns
// instead of a categorical cell.
func (l Layout) HasShareColumns() bool {
	for _, f := range l.Columns {
		switch f {
		case FieldShareCoal, FieldShareBiomass, FieldShareWaste, FieldShareGas, FieldShareOther:
			return true
		}
	}
	return false
}

// Catalog is an immutable set of layout revisions keyed by year.
type Catalog struct {
	layouts []Layout // sorted ascending by Year
}

func New(layouts ...Layout) *Catalog {
	c := &Catalog{layouts: append([]Layout(nil), layouts...)}
	sort.Slice(c.layouts, func(i, j int) bool { return c.layouts[i].Year < c.layouts[j].Year })
	return c
}

// LayoutFor returns the revision in force for the given year: the exact
// match if present, otherwise the latest revision from an earlier year.
func (c *Catalog) LayoutFor(year domain.Year) (Layout, error) {
	var found *Layout
	for i := range c.layouts {
		if c.layouts[i].Year <= year {
			found = &c.layouts[i]
		}
	}
	if found == nil {
		return Layout{}, fmt.Errorf("no layout revision covers year %d", year)
	}

	l := *found
	l.Year = year
	return l, nil
}

// Load reads a catalog file (YAML) through viper. Missing optional maps
// fall back to the built-in defaults so a file only has to spell out what
// actually changed in a revision.
func Load(path string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig: %w", err)
	}

	var file struct {
		Layouts []struct {
			Year             int               `mapstructure:"year"`
			Unit             string            `mapstructure:"unit"`
			HeaderKeywords   []string          `mapstructure:"header_keywords"`
			HeaderMinHits    int               `mapstructure:"header_min_hits"`
			FooterKeywords   []string          `mapstructure:"footer_keywords"`
			Columns          []string          `mapstructure:"columns"`
			MinColumns       int               `mapstructure:"min_columns"`
			PriceCeiling     float64           `mapstructure:"price_ceiling"`
			FuelSynonyms     map[string]string `mapstructure:"fuel_synonyms"`
			DeliverySynonyms map[string]string `mapstructure:"delivery_synonyms"`
			RegionSynonyms   map[string]string `mapstructure:"region_synonyms"`
		} `mapstructure:"layouts"`
	}
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("v.Unmarshal: %w", err)
	}
	if len(file.Layouts) == 0 {
		return nil, fmt.Errorf("catalog file %s declares no layouts", path)
	}

	layouts := make([]Layout, 0, len(file.Layouts))
	for _, fl := range file.Layouts {
		l := Layout{
			Year:           fl.Year,
			Unit:           fl.Unit,
			HeaderKeywords: fl.HeaderKeywords,
			HeaderMinHits:  fl.HeaderMinHits,
			FooterKeywords: fl.FooterKeywords,
			MinColumns:     fl.MinColumns,
			PriceCeiling:   decimal.NewFromFloat(fl.PriceCeiling),
		}
		for _, c := range fl.Columns {
			l.Columns = append(l.Columns, Field(c))
		}

		l.FuelSynonyms = make(map[string]domain.FuelType, len(fl.FuelSynonyms))
		for k, val := range fl.FuelSynonyms {
			l.FuelSynonyms[k] = domain.FuelType(val)
		}
		l.DeliverySynonyms = make(map[string]domain.DeliveryMethod, len(fl.DeliverySynonyms))
		for k, val := range fl.DeliverySynonyms {
			l.DeliverySynonyms[k] = domain.DeliveryMethod(val)
		}
		l.RegionSynonyms = make(map[string]domain.RegionCode, len(fl.RegionSynonyms))
		for k, val := range fl.RegionSynonyms {
			l.RegionSynonyms[k] = domain.RegionCode(val)
		}

		applyDefaults(&l)
		layouts = append(layouts, l)
	}

	return New(layouts...), nil
}

func applyDefaults(l *Layout) {
	if l.Unit == "" {
		l.Unit = DefaultUnit
	}
	if len(l.HeaderKeywords) == 0 {
		l.HeaderKeywords = defaultHeaderKeywords()
	}
	if l.HeaderMinHits == 0 {
		l.HeaderMinHits = 2
	}
	if len(l.FooterKeywords) == 0 {
		l.FooterKeywords = defaultFooterKeywords()
	}
	if l.MinColumns == 0 {
		l.MinColumns = len(l.Columns) / 2
	}
	if l.PriceCeiling.IsZero() {
		l.PriceCeiling = DefaultPriceCeiling
	}
	if len(l.FuelSynonyms) == 0 {
		l.FuelSynonyms = defaultFuelSynonyms()
	}
	if len(l.DeliverySynonyms) == 0 {
		l.DeliverySynonyms = defaultDeliverySynonyms()
	}
	if len(l.RegionSynonyms) == 0 {
		l.RegionSynonyms = defaultRegionSynonyms()
	}
}
