package notifier

import (
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

// EventType тип события о записи
type EventType string

const (
	EventAppointmentCreated       EventType = "appointment.created"
	EventAppointmentCancelled     EventType = "appointment.cancelled"
	EventAppointmentStatusChanged EventType = "appointment.status_changed"
)

// AppointmentEvent тело уведомления
type AppointmentEvent struct {
	Event           EventType `json:"event"`
	AppointmentID   int64     `json:"appointment_id"`
	ClientID        int64     `json:"client_id"`
	EmployeeID      int64     `json:"employee_id"`
	ServiceID       int64     `json:"service_id"`
	ServiceName     string    `json:"service_name"`
	StartAt         time.Time `json:"start_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	Price           float64   `json:"price"`
	OccurredAt      time.Time `json:"occurred_at"`
}

func newAppointmentEvent(event EventType, a *domain.Appointment, now time.Time) AppointmentEvent {
	return AppointmentEvent{
		Event:           event,
		AppointmentID:   a.ID,
		ClientID:        a.ClientID,
		EmployeeID:      a.EmployeeID,
		ServiceID:       a.ServiceID,
		ServiceName:     a.ServiceName,
		StartAt:         a.StartAt,
		DurationMinutes: a.DurationMinutes,
		Status:          string(a.Status),
		Price:           a.Price,
		OccurredAt:      now,
	}
}
