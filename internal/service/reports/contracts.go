package reports

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

// ClientRepository интерфейс репозитория клиентов
type ClientRepository interface {
	Count(ctx context.Context) (int, error)
}

// EmployeeRepository интерфейс репозитория сотрудников
type EmployeeRepository interface {
	List(ctx context.Context, role *domain.EmployeeRole, search string) ([]*domain.Employee, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	List(ctx context.Context, search string) ([]*domain.Service, error)
}

// Cache кеш готовых отчётов
type Cache interface {
	GetReport(ctx context.Context, from, to time.Time) (*domain.Report, error)
	SetReport(ctx context.Context, report *domain.Report) error
	GetDashboard(ctx context.Context, day time.Time) (*domain.Dashboard, error)
	SetDashboard(ctx context.Context, day time.Time, dashboard *domain.Dashboard) error
	Invalidate(ctx context.Context) error
}

// DayBounds границы календарного дня в часовом поясе барбершопа
type DayBounds interface {
	DayBounds(date time.Time) (time.Time, time.Time)
	Location() *time.Location
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
