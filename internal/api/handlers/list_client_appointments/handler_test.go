package list_client_appointments

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberShop/internal/service/appointments/models"
	"github.com/m04kA/SMC-BarberShop/pkg/logger"
)

type fakeService struct {
	gotReq *models.ListAppointmentsRequest
	err    error
}

func (f *fakeService) List(_ context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	f.gotReq = req
	return &models.AppointmentListResponse{}, f.err
}

func serve(svc *fakeService, id string) *httptest.ResponseRecorder {
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/v1/clients/"+id+"/appointments", nil),
		map[string]string{"clientId": id})
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_IncludesHistory(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "12")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(12), *svc.gotReq.ClientID)
	assert.True(t, svc.gotReq.IncludeInactive)
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, "x").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&fakeService{err: errors.New("db")}, "12").Code)
}
