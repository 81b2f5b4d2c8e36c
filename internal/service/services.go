package service

import (
	"github.com/deppfellow/querylab/internal/repository"
	"github.com/deppfellow/querylab/internal/server"
)

type Services struct {
	Report *ReportService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	report, err := NewReportService(s, repos)
	if err != nil {
		return nil, err
	}

	return &Services{
		Report: report,
	}, nil
}
