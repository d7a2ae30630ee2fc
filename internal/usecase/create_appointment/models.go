package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-BarberShop/pkg/types"
)

// Settings правила записи барбершопа
type Settings struct {
	MinBookingNoticeMinutes int
	AdvanceBookingDays      int // 0 = без ограничений
}

// Request модель запроса на создание записи
type Request struct {
	ClientID   int64
	EmployeeID int64
	ServiceID  int64
	Date       time.Time        // Календарная дата, время и часовой пояс не учитываются
	StartTime  types.TimeString // Время начала в часовом поясе барбершопа, например "10:00"
	Notes      *string
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64
	ClientID        int64
	EmployeeID      int64
	ServiceID       int64
	StartAt         time.Time
	DurationMinutes int
	Status          string
	PaymentStatus   string

	// Денормализованные данные
	ServiceName string
	Price       float64
	Notes       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
