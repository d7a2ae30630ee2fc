package get_dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-BarberShop/internal/service/reports/models"
	"github.com/m04kA/SMC-BarberShop/pkg/logger"
)

type fakeService struct {
	err error
}

func (f *fakeService) GetDashboard(context.Context) (*models.DashboardResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.DashboardResponse{TodayAppointments: 4, TotalClients: 10}, nil
}

func TestHandle(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(&fakeService{}, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"todayAppointments":4`)

	rec = httptest.NewRecorder()
	NewHandler(&fakeService{err: errors.New("db")}, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
