package controller

import (
	"github.com/ougirez/cenytepla/internal/service/ingest"
	"github.com/ougirez/cenytepla/internal/service/records"
)

type Controller struct {
	records *records.Service
	ingest  *ingest.Service
}

func NewController(recordsService *records.Service, ingestService *ingest.Service) *Controller {
	return &Controller{records: recordsService, ingest: ingestService}
}
