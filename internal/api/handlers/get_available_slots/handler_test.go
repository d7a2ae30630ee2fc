package get_available_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	getAvailableSlots "github.com/m04kA/SMC-BarberShop/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-BarberShop/pkg/logger"
	"github.com/m04kA/SMC-BarberShop/pkg/types"
)

type fakeUseCase struct {
	gotReq *getAvailableSlots.Request
	resp   *getAvailableSlots.Response
	err    error
}

func (f *fakeUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	f.gotReq = req
	return f.resp, f.err
}

func newRequest(employeeID, query string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees/"+employeeID+"/available-slots?"+query, nil)
	return mux.SetURLVars(req, map[string]string{"employeeId": employeeID})
}

func TestHandle_OK(t *testing.T) {
	day := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	uc := &fakeUseCase{resp: &getAvailableSlots.Response{
		Date: day, EmployeeID: 2, ServiceID: 3, DurationMinutes: 60,
		Slots: []getAvailableSlots.Slot{
			{StartAt: day.Add(9 * time.Hour), StartTime: types.TimeString("09:00"), EndTime: types.TimeString("10:00")},
			{StartAt: day.Add(9*time.Hour + 30*time.Minute), StartTime: types.TimeString("09:30"), EndTime: types.TimeString("10:30")},
		},
	}}
	h := NewHandler(uc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest("2", "serviceId=3&date=2024-03-11"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2), uc.gotReq.EmployeeID)
	assert.Equal(t, int64(3), uc.gotReq.ServiceID)

	var resp AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2024-03-11", resp.Date)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, "09:00", resp.Slots[0].StartTime)
	assert.Equal(t, "10:30", resp.Slots[1].EndTime)
}

func TestHandle_EmptySlotsIsArray(t *testing.T) {
	uc := &fakeUseCase{resp: &getAvailableSlots.Response{Date: time.Now()}}
	h := NewHandler(uc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest("2", "serviceId=3&date=2024-03-10"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slots":[]`)
}

func TestHandle_BadParams(t *testing.T) {
	tests := []struct {
		name       string
		employeeID string
		query      string
	}{
		{"bad employee", "abc", "serviceId=3&date=2024-03-11"},
		{"missing service", "2", "date=2024-03-11"},
		{"bad service", "2", "serviceId=x&date=2024-03-11"},
		{"missing date", "2", "serviceId=3"},
		{"bad date", "2", "serviceId=3&date=11-03-2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{}
			h := NewHandler(uc, logger.NewNop())

			rec := httptest.NewRecorder()
			h.Handle(rec, newRequest(tt.employeeID, tt.query))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, uc.gotReq)
		})
	}
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{getAvailableSlots.ErrEmployeeNotFound, http.StatusNotFound},
		{getAvailableSlots.ErrServiceNotFound, http.StatusNotFound},
		{getAvailableSlots.ErrEmployeeNotBarber, http.StatusBadRequest},
		{getAvailableSlots.ErrInvalidDate, http.StatusBadRequest},
		{getAvailableSlots.ErrDateTooFarInFuture, http.StatusBadRequest},
		{getAvailableSlots.ErrInvalidInput, http.StatusBadRequest},
		{getAvailableSlots.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.err}, logger.NewNop())

			rec := httptest.NewRecorder()
			h.Handle(rec, newRequest("2", "serviceId=3&date=2024-03-11"))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
