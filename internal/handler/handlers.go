package handler

import (
	"github.com/deppfellow/querylab/internal/server"
	"github.com/deppfellow/querylab/internal/service"
)

// Handlers groups all HTTP handlers so the router receives one value.
type Handlers struct {
	Health *HealthHandler
	Report *ReportHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(s),
		Report: NewReportHandler(s, services.Report),
	}
}
