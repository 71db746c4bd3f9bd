package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/ougirez/cenytepla/internal/domain"
	"github.com/ougirez/cenytepla/internal/pkg/logger"
)

type ListRecordsOpts struct {
	YearFrom       *domain.Year
	YearTo         *domain.Year
	Region         *domain.RegionCode
	FuelType       *domain.FuelType
	DeliveryMethod *domain.DeliveryMethod
	Locality       *string
}

var (
	localitiesColumns = []string{"id", "name", "region_code", "created_at", "updated_at"}
	recordColumns     = []string{
		"hp.id", "hp.year", "l.name as locality", "l.region_code", "hp.fuel_type",
		"hp.delivery_method", "hp.price", "hp.unit", "hp.quantity_gj",
		"hp.installed_capacity_mw", "hp.delivery_points", "hp.customers",
		"hp.created_at", "hp.updated_at",
	}
)

// EnsureRegions seeds the closed kraj vocabulary. Idempotent.
func (s *store) EnsureRegions(ctx context.Context) error {
	query := builder().Insert(tableRegions).Columns("code", "name")
	for code, name := range domain.RegionNames {
		query = query.Values(string(code), name)
	}
	query = query.Suffix(`on conflict (code) do update set name=excluded.name`)

	if _, err := s.pool.Execx(ctx, query); err != nil {
		return wrapErr(err)
	}
	return nil
}

// UpsertRecords loads one merged dataset. Localities are upserted first,
// then the fact rows keyed on (year, locality, delivery_method).
func (s *store) UpsertRecords(ctx context.Context, records []*domain.HeatPriceRecord) (int, error) {
	inserted := 0
	for _, rec := range records {
		loc, err := s.upsertLocality(ctx, rec.Locality, rec.Region)
		if err != nil {
			logger.Errorf(ctx, "upsertLocality: %s", err.Error())
			return inserted, fmt.Errorf("upsertLocality, locality-%s: %w", rec.Locality, err)
		}

		if err = s.upsertRecord(ctx, loc.ID, rec); err != nil {
			logger.Errorf(ctx, "upsertRecord: %s", err.Error())
			return inserted, fmt.Errorf("upsertRecord, locality-%s, year-%d: %w", rec.Locality, rec.Year, err)
		}
		inserted++
	}

	return inserted, nil
}

func (s *store) upsertLocality(ctx context.Context, name string, region domain.RegionCode) (*domain.Locality, error) {
	query := builder().Insert(tableLocalities).
		Columns("name", "region_code").
		Values(name, string(region)).
		Suffix(`on conflict (name) do update set region_code=excluded.region_code`)

	_, err := s.pool.Execx(ctx, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	selectQuery := builder().Select(localitiesColumns...).
		From(tableLocalities).
		Where(sq.Eq{"name": name})

	var selected domain.Locality
	err = s.pool.Getx(ctx, &selected, selectQuery)
	if err != nil {
		return nil, wrapErr(err)
	}

	return &selected, nil
}

func (s *store) upsertRecord(ctx context.Context, localityID int64, rec *domain.HeatPriceRecord) error {
	cols := []string{
		"year", "locality_id", "fuel_type", "delivery_method", "price", "unit",
		"quantity_gj", "installed_capacity_mw", "delivery_points", "customers",
		"share_coal", "share_biomass", "share_waste", "share_gas", "share_other",
	}

	vals := []interface{}{
		rec.Year, localityID, string(rec.FuelType), string(rec.DeliveryMethod),
		rec.Price, rec.Unit, rec.QuantityGJ, rec.InstalledCapacityMW,
		rec.DeliveryPoints, rec.Customers,
	}
	if rec.FuelShares != nil {
		vals = append(vals, rec.FuelShares.Coal, rec.FuelShares.Biomass,
			rec.FuelShares.Waste, rec.FuelShares.Gas, rec.FuelShares.Other)
	} else {
		vals = append(vals, nil, nil, nil, nil, nil)
	}

	query := builder().Insert(tableHeatPrices).
		Columns(cols...).
		Values(vals...).
		Suffix(`
on conflict (year, locality_id, delivery_method)
do update
set
	fuel_type = excluded.fuel_type,
	price = excluded.price,
	unit = excluded.unit,
	quantity_gj = excluded.quantity_gj,
	installed_capacity_mw = excluded.installed_capacity_mw,
	delivery_points = excluded.delivery_points,
	customers = excluded.customers,
	share_coal = excluded.share_coal,
	share_biomass = excluded.share_biomass,
	share_waste = excluded.share_waste,
	share_gas = excluded.share_gas,
	share_other = excluded.share_other,
	updated_at = now()`)

	if _, err := s.pool.Execx(ctx, query); err != nil {
		return wrapErr(err)
	}

	return nil
}

func (s *store) ListRecords(ctx context.Context, opts ListRecordsOpts) ([]*domain.StoredRecord, error) {
	query := builder().Select(recordColumns...).
		From(tableHeatPrices + " hp").
		Join(tableLocalities + " l on l.id=hp.locality_id").
		OrderBy("hp.year, l.name, hp.delivery_method")

	if opts.YearFrom != nil {
		query = query.Where(sq.GtOrEq{"hp.year": *opts.YearFrom})
	}
	if opts.YearTo != nil {
		query = query.Where(sq.LtOrEq{"hp.year": *opts.YearTo})
	}
	if opts.Region != nil {
		query = query.Where(sq.Eq{"l.region_code": string(*opts.Region)})
	}
	if opts.FuelType != nil {
		query = query.Where(sq.Eq{"hp.fuel_type": string(*opts.FuelType)})
	}
	if opts.DeliveryMethod != nil {
		query = query.Where(sq.Eq{"hp.delivery_method": string(*opts.DeliveryMethod)})
	}
	if opts.Locality != nil {
		query = query.Where(sq.ILike{"l.name": "%" + *opts.Locality + "%"})
	}

	var selected []*domain.StoredRecord
	err := s.pool.Selectx(ctx, &selected, query)
	if err != nil {
		logger.Error(ctx, err.Error())
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) ListLocalities(ctx context.Context) ([]*domain.Locality, error) {
	query := builder().Select(localitiesColumns...).
		From(tableLocalities).
		OrderBy("region_code, name")

	var selected []*domain.Locality
	err := s.pool.Selectx(ctx, &selected, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}
