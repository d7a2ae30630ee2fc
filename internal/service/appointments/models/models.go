package models

import (
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

// Request модели

// ListAppointmentsRequest запрос на получение списка записей
type ListAppointmentsRequest struct {
	Date            string  `json:"date" validate:"omitempty,datetime=2006-01-02"` // Один день "2024-03-11"
	EmployeeID      *int64  `json:"employeeId,omitempty" validate:"omitempty,gt=0"`
	ClientID        *int64  `json:"clientId,omitempty" validate:"omitempty,gt=0"`
	Status          *string `json:"status,omitempty" validate:"omitempty,oneof=scheduled completed cancelled no_show"`
	Search          string  `json:"q" validate:"max=100"`
	IncludeInactive bool    `json:"includeInactive,omitempty"`
}

// UpdateStatusRequest запрос на смену статуса записи
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled completed cancelled no_show"`
}

// UpdatePaymentRequest запрос на смену статуса оплаты
type UpdatePaymentRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required,oneof=pending paid"`
}

// CancelRequest запрос на отмену записи
type CancelRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64     `json:"id"`
	ClientID        int64     `json:"clientId"`
	EmployeeID      int64     `json:"employeeId"`
	ServiceID       int64     `json:"serviceId"`
	StartAt         time.Time `json:"startAt"`
	EndAt           time.Time `json:"endAt"`
	Date            string    `json:"date"`      // "2024-03-11" в часовом поясе барбершопа
	StartTime       string    `json:"startTime"` // "10:00"
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`
	PaymentStatus   string    `json:"paymentStatus"`

	// Денормализованные данные
	ServiceName string  `json:"serviceName"`
	Price       float64 `json:"price"`
	Notes       *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO, loc задаёт часовой пояс для date/startTime
func FromDomainAppointment(a *domain.Appointment, loc *time.Location) *AppointmentResponse {
	if a == nil {
		return nil
	}

	local := a.StartAt.In(loc)
	resp := &AppointmentResponse{
		ID:                 a.ID,
		ClientID:           a.ClientID,
		EmployeeID:         a.EmployeeID,
		ServiceID:          a.ServiceID,
		StartAt:            a.StartAt,
		EndAt:              a.EndAt(),
		Date:               local.Format(domain.DateFormat),
		StartTime:          local.Format(domain.TimeFormat),
		DurationMinutes:    a.DurationMinutes,
		Status:             string(a.Status),
		PaymentStatus:      string(a.PaymentStatus),
		ServiceName:        a.ServiceName,
		Price:              a.Price,
		Notes:              a.Notes,
		CancellationReason: a.CancellationReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if a.CancelledAt != nil {
		cancelledStr := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment, loc *time.Location) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, a := range appointments {
		if item := FromDomainAppointment(a, loc); item != nil {
			resp.Appointments = append(resp.Appointments, *item)
		}
	}

	return resp
}
