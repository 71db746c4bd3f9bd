package api

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ougirez/cenytepla/internal/api/controller"
	"github.com/ougirez/cenytepla/internal/pkg/logger"
	"github.com/ougirez/cenytepla/internal/pkg/store"
	"github.com/ougirez/cenytepla/internal/service/ingest"
	"github.com/ougirez/cenytepla/internal/service/records"
)

type APIService struct {
	router         *echo.Echo
	recordsService *records.Service
	ingestService  *ingest.Service
}

func (svc *APIService) Serve(addr string) {
	logger.Fatal(context.Background(), svc.router.Start(addr))
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

func NewAPIService(store store.Store, ingestService *ingest.Service) (*APIService, error) {
	svc := &APIService{router: echo.New()}

	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.Use(middleware.Logger())
	svc.router.HTTPErrorHandler = httpErrorHandler
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000"},
		AllowMethods: []string{echo.GET, echo.POST},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))

	svc.recordsService = records.NewRecordsService(store)
	svc.ingestService = ingestService

	api := svc.router.Group("/api/v1")
	cntrl := controller.NewController(svc.recordsService, svc.ingestService)

	recs := api.Group("/records")
	recs.GET("", cntrl.GetRecords)
	recs.GET("/localities", cntrl.GetLocalities)

	years := api.Group("/years")
	years.GET("/summary", cntrl.GetRunSummaries)

	ing := api.Group("/ingest", svc.AdminMiddleware)
	ing.POST("/run", cntrl.RunIngest)

	return svc, nil
}
