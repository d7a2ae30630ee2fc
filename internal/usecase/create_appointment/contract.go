package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/availability"
	"github.com/m04kA/SMC-BarberShop/internal/domain"
	"github.com/m04kA/SMC-BarberShop/internal/integrations/notifier"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
	GetByFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

// ClientRepository интерфейс репозитория клиентов
type ClientRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
}

// EmployeeRepository интерфейс репозитория сотрудников
type EmployeeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// SlotEngine проверка доступности слота
type SlotEngine interface {
	IsSlotAvailable(candidate time.Time, durationMinutes int, existing []availability.ExistingAppointment, wh *domain.WorkingHours) (bool, error)
	DayBounds(date time.Time) (time.Time, time.Time)
	Location() *time.Location
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier отправка уведомлений о записи
type Notifier interface {
	NotifyWithGracefulDegradation(ctx context.Context, event notifier.EventType, appointment *domain.Appointment)
}

// ReportsInvalidator сброс закешированных отчётов
type ReportsInvalidator interface {
	Invalidate(ctx context.Context)
}

// Metrics метрики use case
type Metrics interface {
	IncAppointmentsCreated()
	IncBookingConflicts()
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
