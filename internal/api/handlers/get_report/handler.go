package get_report

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BarberShop/internal/api/handlers"
	"github.com/m04kA/SMC-BarberShop/internal/service/reports"
	"github.com/m04kA/SMC-BarberShop/internal/service/reports/models"
)

const msgInvalidPeriod = "некорректный период: from не позже to, не более 366 дней"

type Handler struct {
	service ReportService
	logger  Logger
}

func NewHandler(service ReportService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/reports
// Query params: from, to (required, YYYY-MM-DD, включительно)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &models.GetReportRequest{
		From: query.Get("from"),
		To:   query.Get("to"),
	}

	report, err := h.service.GetReport(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, reports.ErrInvalidPeriod):
			h.logger.Warn("GET /reports - Invalid period: from=%s, to=%s", req.From, req.To)
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		case errors.Is(err, reports.ErrInvalidInput):
			h.logger.Warn("GET /reports - Invalid input: %v", err)
			handlers.RespondBadRequest(w, handlers.DetailMessage(err, reports.ErrInvalidInput))

		default:
			h.logger.Error("GET /reports - Failed to build report: from=%s, to=%s, error=%v", req.From, req.To, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /reports - Report built successfully: from=%s, to=%s, total=%d",
		req.From, req.To, report.TotalAppointments)
	handlers.RespondJSON(w, http.StatusOK, report)
}
