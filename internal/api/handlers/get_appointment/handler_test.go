package get_appointment

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-BarberShop/internal/service/appointments"
	"github.com/m04kA/SMC-BarberShop/internal/service/appointments/models"
	"github.com/m04kA/SMC-BarberShop/pkg/logger"
)

type fakeService struct {
	resp *models.AppointmentResponse
	err  error
}

func (f *fakeService) GetByID(context.Context, int64) (*models.AppointmentResponse, error) {
	return f.resp, f.err
}

func serve(h *Handler, id string) *httptest.ResponseRecorder {
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/v1/appointments/"+id, nil),
		map[string]string{"appointmentId": id})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		svc        *fakeService
		wantStatus int
	}{
		{"ok", "5", &fakeService{resp: &models.AppointmentResponse{ID: 5}}, http.StatusOK},
		{"bad id", "x", &fakeService{}, http.StatusBadRequest},
		{"not found", "5", &fakeService{err: appointments.ErrAppointmentNotFound}, http.StatusNotFound},
		{"internal", "5", &fakeService{err: fmt.Errorf("%w: boom", appointments.ErrInternal)}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewHandler(tt.svc, logger.NewNop()), tt.id)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
