package update_appointment_status

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberShop/internal/service/appointments"
	"github.com/m04kA/SMC-BarberShop/internal/service/appointments/models"
	"github.com/m04kA/SMC-BarberShop/pkg/logger"
)

type fakeService struct {
	gotReq *models.UpdateStatusRequest
	err    error
}

func (f *fakeService) UpdateStatus(_ context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentResponse{ID: id, Status: req.Status}, nil
}

func serve(h *Handler, id, body string) *httptest.ResponseRecorder {
	req := mux.SetURLVars(httptest.NewRequest(http.MethodPatch, "/api/v1/appointments/"+id+"/status", strings.NewReader(body)),
		map[string]string{"appointmentId": id})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_OK(t *testing.T) {
	svc := &fakeService{}
	rec := serve(NewHandler(svc, logger.NewNop()), "3", `{"status":"completed"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "completed", svc.gotReq.Status)
	assert.Contains(t, rec.Body.String(), `"status":"completed"`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{"empty body", ``, nil, http.StatusBadRequest},
		{"invalid input", `{"status":"done"}`, fmt.Errorf("%w: status: must be one of", appointments.ErrInvalidInput), http.StatusBadRequest},
		{"not found", `{"status":"completed"}`, appointments.ErrAppointmentNotFound, http.StatusNotFound},
		{"terminal", `{"status":"completed"}`, appointments.ErrInvalidTransition, http.StatusConflict},
		{"cannot cancel", `{"status":"cancelled"}`, appointments.ErrCannotCancel, http.StatusConflict},
		{"slot taken", `{"status":"scheduled"}`, appointments.ErrSlotNotAvailable, http.StatusConflict},
		{"internal", `{"status":"completed"}`, appointments.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewHandler(&fakeService{err: tt.err}, logger.NewNop()), "3", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
