package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/availability"
	"github.com/m04kA/SMC-BarberShop/internal/domain"
	"github.com/m04kA/SMC-BarberShop/internal/integrations/notifier"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	UpdatePayment(ctx context.Context, id int64, status domain.PaymentStatus) error
	Cancel(ctx context.Context, id int64, reason *string, cancelledAt time.Time) error
	Delete(ctx context.Context, id int64) error
}

// ClientRepository интерфейс репозитория клиентов
type ClientRepository interface {
	UpdateLastVisit(ctx context.Context, id int64, visitedAt time.Time) error
}

// EmployeeRepository интерфейс репозитория сотрудников
type EmployeeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
}

// AvailabilityEngine границы дня в часовом поясе барбершопа и проверка слота
type AvailabilityEngine interface {
	DayBounds(date time.Time) (time.Time, time.Time)
	Location() *time.Location
	IsSlotAvailable(candidate time.Time, durationMinutes int, existing []availability.ExistingAppointment, wh *domain.WorkingHours) (bool, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier отправка уведомлений о записи
type Notifier interface {
	NotifyWithGracefulDegradation(ctx context.Context, event notifier.EventType, appointment *domain.Appointment)
}

// ReportsInvalidator сброс закешированных отчётов
type ReportsInvalidator interface {
	Invalidate(ctx context.Context)
}

// Validator проверка входных DTO по тегам
type Validator interface {
	Struct(s interface{}) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
