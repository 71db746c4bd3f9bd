package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ougirez/cenytepla/internal/domain"
)

type runIngestRequest struct {
	Years []domain.Year `json:"years" validate:"required,min=1,dive,gte=2001,lte=2100"`
}

// RunIngest runs the pipeline for the requested years and answers with
// the per-year status summary. Failed years are reported, not fatal.
func (c *Controller) RunIngest(ctx echo.Context) error {
	var req runIngestRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	report, err := c.ingest.Run(ctx.Request().Context(), req.Years)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, report)
}
