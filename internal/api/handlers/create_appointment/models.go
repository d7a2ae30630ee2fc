package create_appointment

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
	createAppointment "github.com/m04kA/SMC-BarberShop/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-BarberShop/pkg/types"
)

var errInvalidTime = errors.New("invalid start time")

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ClientID   int64   `json:"clientId"`
	EmployeeID int64   `json:"employeeId"`
	ServiceID  int64   `json:"serviceId"`
	Date       string  `json:"date"`      // "2024-03-11"
	StartTime  string  `json:"startTime"` // "10:00"
	Notes      *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64   `json:"id"`
	ClientID        int64   `json:"clientId"`
	EmployeeID      int64   `json:"employeeId"`
	ServiceID       int64   `json:"serviceId"`
	StartAt         string  `json:"startAt"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	PaymentStatus   string  `json:"paymentStatus"`
	ServiceName     string  `json:"serviceName"`
	Price           float64 `json:"price"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest() (*createAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidTime, err)
	}

	return &createAppointment.Request{
		ClientID:   r.ClientID,
		EmployeeID: r.EmployeeID,
		ServiceID:  r.ServiceID,
		Date:       date,
		StartTime:  startTime,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response, loc *time.Location) *AppointmentResponse {
	local := resp.StartAt.In(loc)
	return &AppointmentResponse{
		ID:              resp.ID,
		ClientID:        resp.ClientID,
		EmployeeID:      resp.EmployeeID,
		ServiceID:       resp.ServiceID,
		StartAt:         local.Format(time.RFC3339),
		Date:            local.Format(domain.DateFormat),
		StartTime:       types.NewTimeString(local).String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		PaymentStatus:   resp.PaymentStatus,
		ServiceName:     resp.ServiceName,
		Price:           resp.Price,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
