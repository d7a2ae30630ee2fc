package delete_appointment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-BarberShop/internal/service/appointments"
	"github.com/m04kA/SMC-BarberShop/pkg/logger"
)

type fakeService struct {
	err error
}

func (f *fakeService) Delete(context.Context, int64) error {
	return f.err
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		err        error
		wantStatus int
	}{
		{"ok", "9", nil, http.StatusNoContent},
		{"bad id", "nine", nil, http.StatusBadRequest},
		{"not found", "9", appointments.ErrAppointmentNotFound, http.StatusNotFound},
		{"internal", "9", appointments.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/", nil),
				map[string]string{"appointmentId": tt.id})
			rec := httptest.NewRecorder()

			NewHandler(&fakeService{err: tt.err}, logger.NewNop()).Handle(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
