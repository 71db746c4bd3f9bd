package controller

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ougirez/cenytepla/internal/domain"
	"github.com/ougirez/cenytepla/internal/pkg/store"
)

func (c *Controller) GetRecords(ctx echo.Context) error {
	var opts store.ListRecordsOpts

	if v := ctx.QueryParams().Get("year_from"); v != "" {
		year, err := strconv.Atoi(v)
		if err == nil {
			opts.YearFrom = &year
		}
	}
	if v := ctx.QueryParams().Get("year_to"); v != "" {
		year, err := strconv.Atoi(v)
		if err == nil {
			opts.YearTo = &year
		}
	}
	if v := ctx.QueryParams().Get("region"); v != "" {
		region := domain.RegionCode(v)
		opts.Region = &region
	}
	if v := ctx.QueryParams().Get("fuel_type"); v != "" {
		fuel := domain.FuelType(v)
		opts.FuelType = &fuel
	}
	if v := ctx.QueryParams().Get("delivery_method"); v != "" {
		dm := domain.DeliveryMethod(v)
		opts.DeliveryMethod = &dm
	}
	if v := ctx.QueryParams().Get("locality"); v != "" {
		opts.Locality = &v
	}

	recs, err := c.records.ListRecords(ctx.Request().Context(), opts)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, recs)
}

func (c *Controller) GetLocalities(ctx echo.Context) error {
	localities, err := c.records.ListLocalities(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, localities)
}

func (c *Controller) GetRunSummaries(ctx echo.Context) error {
	summaries, err := c.records.ListRunSummaries(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, summaries)
}
