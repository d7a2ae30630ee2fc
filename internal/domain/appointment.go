package domain

import "time"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// IsValid reports whether s is a known appointment status
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// PaymentStatus represents the payment state of an appointment
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// IsValid reports whether s is a known payment status
func (s PaymentStatus) IsValid() bool {
	return s == PaymentPending || s == PaymentPaid
}

// Appointment represents a client's visit to a barber
type Appointment struct {
	ID              int64
	ClientID        int64
	EmployeeID      int64
	ServiceID       int64
	StartAt         time.Time
	DurationMinutes int
	Status          AppointmentStatus
	PaymentStatus   PaymentStatus

	// Denormalized data for history and reports
	ServiceName string
	Price       float64
	Notes       *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndAt returns the moment the appointment ends
func (a *Appointment) EndAt() time.Time {
	return a.StartAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// IsActive returns true if the appointment occupies the barber's time
func (a *Appointment) IsActive() bool {
	return a.Status == StatusScheduled || a.Status == StatusCompleted
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusScheduled
}

// IsCompleted returns true if the client was served
func (a *Appointment) IsCompleted() bool {
	return a.Status == StatusCompleted
}

// AppointmentsFilter фильтр для получения записей
type AppointmentsFilter struct {
	EmployeeID      *int64             // Фильтр по барберу (опционально)
	ClientID        *int64             // Фильтр по клиенту (опционально)
	From            *time.Time         // Начало периода включительно (опционально)
	To              *time.Time         // Конец периода не включительно (опционально)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли отмененные и no-show
	Search          string             // Поиск по имени клиента, барбера или услуги
}
