package get_report

import (
	"context"

	"github.com/m04kA/SMC-BarberShop/internal/service/reports/models"
)

type ReportService interface {
	GetReport(ctx context.Context, req *models.GetReportRequest) (*models.ReportResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
