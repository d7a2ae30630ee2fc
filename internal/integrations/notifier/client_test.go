package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

type recordingLogger struct {
	errors []string
}

func (l *recordingLogger) Info(format string, v ...interface{}) {}
func (l *recordingLogger) Warn(format string, v ...interface{}) {}
func (l *recordingLogger) Error(format string, v ...interface{}) {
	l.errors = append(l.errors, format)
}

func testAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:              12,
		ClientID:        1,
		EmployeeID:      2,
		ServiceID:       3,
		ServiceName:     "Corte",
		StartAt:         time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
		Status:          domain.StatusScheduled,
		Price:           50,
	}
}

func TestClient_Notify(t *testing.T) {
	var got AppointmentEvent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/appointments", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, &recordingLogger{})
	err := client.Notify(context.Background(), EventAppointmentCreated, testAppointment())

	require.NoError(t, err)
	assert.Equal(t, EventAppointmentCreated, got.Event)
	assert.Equal(t, int64(12), got.AppointmentID)
	assert.Equal(t, "scheduled", got.Status)
	assert.Equal(t, "Corte", got.ServiceName)
}

func TestClient_Notify_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, &recordingLogger{})
	err := client.Notify(context.Background(), EventAppointmentCreated, testAppointment())

	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_Disabled(t *testing.T) {
	client := NewClient("", time.Second, &recordingLogger{})
	assert.NoError(t, client.Notify(context.Background(), EventAppointmentCreated, testAppointment()))
}

func TestClient_NotifyWithGracefulDegradation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	log := &recordingLogger{}
	client := NewClient(url, 100*time.Millisecond, log)
	client.NotifyWithGracefulDegradation(context.Background(), EventAppointmentCancelled, testAppointment())

	assert.Len(t, log.errors, 1)
}
