package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Year = int

// FuelType is the closed set of fuel categories a locality can report.
type FuelType string

const (
	FuelCoal      FuelType = "coal"
	FuelGas       FuelType = "gas"
	FuelBiomass   FuelType = "biomass"
	FuelWasteHeat FuelType = "waste-heat"
	FuelOther     FuelType = "other"
)

// DeliveryMethod is the closed set of heat delivery media.
type DeliveryMethod string

const (
	DeliveryHotWater DeliveryMethod = "hot-water"
	DeliverySteam    DeliveryMethod = "steam"
)

// RegionCode is the one-letter kraj code used by the ERÚ reports.
type RegionCode string

// RegionNames maps every known kraj code to its full name. The set is
// closed: a record whose region is not a key here never validates.
var RegionNames = map[RegionCode]string{
	"A": "Hlavní město Praha",
	"B": "Jihomoravský kraj",
	"C": "Jihočeský kraj",
	"E": "Pardubický kraj",
	"H": "Královéhradecký kraj",
	"J": "Kraj Vysočina",
	"K": "Karlovarský kraj",
	"L": "Liberecký kraj",
	"M": "Olomoucký kraj",
	"P": "Plzeňský kraj",
	"S": "Středočeský kraj",
	"T": "Moravskoslezský kraj",
	"U": "Ústecký kraj",
	"Z": "Zlínský kraj",
}

// FuelShares carries the per-fuel percentage columns of the source reports.
// Present only for years whose layout reports fuel as share columns.
type FuelShares struct {
	Coal    decimal.Decimal `json:"coal" db:"share_coal"`
	Biomass decimal.Decimal `json:"biomass" db:"share_biomass"`
	Waste   decimal.Decimal `json:"waste" db:"share_waste"`
	Gas     decimal.Decimal `json:"gas" db:"share_gas"`
	Other   decimal.Decimal `json:"other" db:"share_other"`
}

// Dominant returns the fuel category with the largest share. Ties and
// all-zero rows fall back to FuelOther.
func (fs FuelShares) Dominant() FuelType {
	best := FuelOther
	max := decimal.Zero
	tied := false
	for _, c := range []struct {
		fuel  FuelType
		share decimal.Decimal
	}{
		{FuelCoal, fs.Coal},
		{FuelBiomass, fs.Biomass},
		{FuelWasteHeat, fs.Waste},
		{FuelGas, fs.Gas},
		{FuelOther, fs.Other},
	} {
		switch {
		case c.share.GreaterThan(max):
			best = c.fuel
			max = c.share
			tied = false
		case c.share.Equal(max) && max.IsPositive() && c.fuel != best:
			tied = true
		}
	}
	if tied {
		return FuelOther
	}
	return best
}

// HeatPriceRecord is the canonical entity: one validated price observation
// for a locality in a reporting year. Records are immutable once built.
type HeatPriceRecord struct {
	Year           Year            `json:"year"`
	Locality       string          `json:"locality"`
	Region         RegionCode      `json:"region"`
	FuelType       FuelType        `json:"fuel_type"`
	DeliveryMethod DeliveryMethod  `json:"delivery_method"`
	Price          decimal.Decimal `json:"price"`
	Unit           string          `json:"unit"`

	// Supplemental columns, present only when the year's layout carries them.
	FuelShares          *FuelShares      `json:"fuel_shares,omitempty"`
	QuantityGJ          *decimal.Decimal `json:"quantity_gj,omitempty"`
	InstalledCapacityMW *decimal.Decimal `json:"installed_capacity_mw,omitempty"`
	DeliveryPoints      *int             `json:"delivery_points,omitempty"`
	Customers           *int             `json:"customers,omitempty"`
}

// Key identifies a record for duplicate detection at merge time.
type Key struct {
	Year     Year
	Locality string
}

func (r *HeatPriceRecord) Key() Key {
	return Key{Year: r.Year, Locality: r.Locality}
}

// StoredRecord is a HeatPriceRecord as read back from the store.
type StoredRecord struct {
	ID                  int64            `db:"id" json:"id"`
	Year                Year             `db:"year" json:"year"`
	Locality            string           `db:"locality" json:"locality"`
	Region              RegionCode       `db:"region_code" json:"region"`
	FuelType            FuelType         `db:"fuel_type" json:"fuel_type"`
	DeliveryMethod      DeliveryMethod   `db:"delivery_method" json:"delivery_method"`
	Price               decimal.Decimal  `db:"price" json:"price"`
	Unit                string           `db:"unit" json:"unit"`
	QuantityGJ          *decimal.Decimal `db:"quantity_gj" json:"quantity_gj,omitempty"`
	InstalledCapacityMW *decimal.Decimal `db:"installed_capacity_mw" json:"installed_capacity_mw,omitempty"`
	DeliveryPoints      *int             `db:"delivery_points" json:"delivery_points,omitempty"`
	Customers           *int             `db:"customers" json:"customers,omitempty"`
	CreatedAt           time.Time        `db:"created_at" json:"-"`
	UpdatedAt           time.Time        `db:"updated_at" json:"-"`
}

// Locality is a row of the localities lookup table.
type Locality struct {
	ID         int64      `db:"id" json:"id"`
	Name       string     `db:"name" json:"name"`
	RegionCode RegionCode `db:"region_code" json:"region_code"`
	CreatedAt  time.Time  `db:"created_at" json:"-"`
	UpdatedAt  time.Time  `db:"updated_at" json:"-"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
