package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
	reportsCache "github.com/m04kA/SMC-BarberShop/internal/infra/cache/reports"
	"github.com/m04kA/SMC-BarberShop/internal/service/reports/models"
	"github.com/m04kA/SMC-BarberShop/pkg/ptr"
)

// Service сервис отчётов и сводки для главного экрана
type Service struct {
	appointmentRepo AppointmentRepository
	clientRepo      ClientRepository
	employeeRepo    EmployeeRepository
	serviceRepo     ServiceRepository
	cache           Cache // nil, если Redis отключен
	days            DayBounds
	validator       Validator
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса отчётов. cache может быть nil.
func NewService(
	appointmentRepo AppointmentRepository,
	clientRepo ClientRepository,
	employeeRepo EmployeeRepository,
	serviceRepo ServiceRepository,
	cache Cache,
	days DayBounds,
	validator Validator,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		clientRepo:      clientRepo,
		employeeRepo:    employeeRepo,
		serviceRepo:     serviceRepo,
		cache:           cache,
		days:            days,
		validator:       validator,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetReport строит отчёт за период, обе даты включительно
func (s *Service) GetReport(ctx context.Context, req *models.GetReportRequest) (*models.ReportResponse, error) {
	s.logger.Info("GetReport: from=%s, to=%s", req.From, req.To)

	// 1. Валидация периода
	if err := s.validator.Struct(req); err != nil {
		s.logger.Warn("GetReport: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	loc := s.days.Location()
	fromDate, err := time.ParseInLocation(domain.DateFormat, req.From, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: from: %v", ErrInvalidInput, err)
	}
	toDate, err := time.ParseInLocation(domain.DateFormat, req.To, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: to: %v", ErrInvalidInput, err)
	}
	if toDate.Before(fromDate) {
		return nil, fmt.Errorf("%w: from must not be after to", ErrInvalidPeriod)
	}
	if toDate.After(fromDate.AddDate(0, 0, models.MaxPeriodDays)) {
		return nil, fmt.Errorf("%w: period must not exceed %d days", ErrInvalidPeriod, models.MaxPeriodDays)
	}

	from, _ := s.days.DayBounds(fromDate)
	_, to := s.days.DayBounds(toDate)

	// 2. Пробуем кеш
	if s.cache != nil {
		cached, err := s.cache.GetReport(ctx, from, to)
		if err == nil {
			s.logger.Info("GetReport: cache hit for %s..%s", req.From, req.To)
			return models.FromDomainReport(cached, loc), nil
		}
		if !errors.Is(err, reportsCache.ErrCacheMiss) {
			s.logger.Warn("GetReport: cache unavailable, computing directly: %v", err)
		}
	}

	// 3. Считаем
	report, err := s.buildReport(ctx, from, to)
	if err != nil {
		return nil, err
	}

	// 4. Сохраняем в кеш, ошибка кеша не влияет на ответ
	if s.cache != nil {
		if err := s.cache.SetReport(ctx, report); err != nil {
			s.logger.Warn("GetReport: failed to cache report: %v", err)
		}
	}

	s.logger.Info("GetReport: %d appointments, %d completed", report.TotalAppointments, report.CompletedCount)
	return models.FromDomainReport(report, loc), nil
}

// GetDashboard строит сводку на текущий день
func (s *Service) GetDashboard(ctx context.Context) (*models.DashboardResponse, error) {
	loc := s.days.Location()
	now := s.timeProvider.Now().In(loc)
	todayStart, _ := s.days.DayBounds(now)

	if s.cache != nil {
		cached, err := s.cache.GetDashboard(ctx, todayStart)
		if err == nil {
			return models.FromDomainDashboard(cached, loc), nil
		}
		if !errors.Is(err, reportsCache.ErrCacheMiss) {
			s.logger.Warn("GetDashboard: cache unavailable, computing directly: %v", err)
		}
	}

	dashboard, err := s.buildDashboard(ctx, now)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetDashboard(ctx, todayStart, dashboard); err != nil {
			s.logger.Warn("GetDashboard: failed to cache dashboard: %v", err)
		}
	}

	return models.FromDomainDashboard(dashboard, loc), nil
}

// Invalidate сбрасывает закешированные отчёты, ошибки только логируются
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("Invalidate: failed to invalidate reports cache: %v", err)
	}
}

func (s *Service) buildReport(ctx context.Context, from, to time.Time) (*domain.Report, error) {
	appointments, err := s.appointmentRepo.GetByFilter(ctx, domain.AppointmentsFilter{
		From:            &from,
		To:              &to,
		IncludeInactive: true,
	})
	if err != nil {
		s.logger.Error("GetReport: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: GetReport - failed to get appointments: %v", ErrInternal, err)
	}

	services, err := s.serviceRepo.List(ctx, "")
	if err != nil {
		s.logger.Error("GetReport: failed to get services: %v", err)
		return nil, fmt.Errorf("%w: GetReport - failed to get services: %v", ErrInternal, err)
	}

	barbers, err := s.employeeRepo.List(ctx, ptr.Ptr(domain.RoleBarber), "")
	if err != nil {
		s.logger.Error("GetReport: failed to get employees: %v", err)
		return nil, fmt.Errorf("%w: GetReport - failed to get employees: %v", ErrInternal, err)
	}

	completed, revenue := completedTotals(appointments)
	return &domain.Report{
		From:                from,
		To:                  to,
		TotalAppointments:   len(appointments),
		CompletedCount:      completed,
		CompletionRate:      completionRate(completed, len(appointments)),
		TotalRevenue:        revenue,
		ServicePerformance:  servicePerformance(services, appointments),
		EmployeePerformance: employeePerformance(barbers, appointments),
	}, nil
}

func (s *Service) buildDashboard(ctx context.Context, now time.Time) (*domain.Dashboard, error) {
	todayStart, todayEnd := s.days.DayBounds(now)
	upcomingEnd, _ := s.days.DayBounds(todayStart.AddDate(0, 0, domain.DashboardUpcomingDays))
	monthStart, _ := s.days.DayBounds(time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()))

	// 1. Записи за сегодня, включая отменённые
	today, err := s.appointmentRepo.GetByFilter(ctx, domain.AppointmentsFilter{
		From:            &todayStart,
		To:              &todayEnd,
		IncludeInactive: true,
	})
	if err != nil {
		s.logger.Error("GetDashboard: failed to get today's appointments: %v", err)
		return nil, fmt.Errorf("%w: GetDashboard - failed to get appointments: %v", ErrInternal, err)
	}

	// 2. Запланированные записи на ближайшие дни
	scheduled, err := s.appointmentRepo.GetByFilter(ctx, domain.AppointmentsFilter{
		From:   &todayStart,
		To:     &upcomingEnd,
		Status: ptr.Ptr(domain.StatusScheduled),
	})
	if err != nil {
		s.logger.Error("GetDashboard: failed to get upcoming appointments: %v", err)
		return nil, fmt.Errorf("%w: GetDashboard - failed to get appointments: %v", ErrInternal, err)
	}

	// 3. Завершённые записи с начала месяца
	monthCompleted, err := s.appointmentRepo.GetByFilter(ctx, domain.AppointmentsFilter{
		From:   &monthStart,
		To:     &todayEnd,
		Status: ptr.Ptr(domain.StatusCompleted),
	})
	if err != nil {
		s.logger.Error("GetDashboard: failed to get month appointments: %v", err)
		return nil, fmt.Errorf("%w: GetDashboard - failed to get appointments: %v", ErrInternal, err)
	}

	// 4. Справочники
	totalClients, err := s.clientRepo.Count(ctx)
	if err != nil {
		s.logger.Error("GetDashboard: failed to count clients: %v", err)
		return nil, fmt.Errorf("%w: GetDashboard - failed to count clients: %v", ErrInternal, err)
	}

	services, err := s.serviceRepo.List(ctx, "")
	if err != nil {
		s.logger.Error("GetDashboard: failed to get services: %v", err)
		return nil, fmt.Errorf("%w: GetDashboard - failed to get services: %v", ErrInternal, err)
	}

	_, todayRevenue := completedTotals(today)

	return &domain.Dashboard{
		GeneratedAt:        now,
		TodayAppointments:  len(today),
		TotalClients:       totalClients,
		TotalServices:      len(services),
		TodayRevenue:       todayRevenue,
		Upcoming:           s.upcoming(todayStart, scheduled),
		ServicePerformance: servicePerformance(services, monthCompleted),
	}, nil
}

// upcoming раскладывает записи по дням начиная с today
func (s *Service) upcoming(today time.Time, appointments []*domain.Appointment) []domain.DailyCount {
	result := make([]domain.DailyCount, domain.DashboardUpcomingDays)
	for i := range result {
		result[i].Date, _ = s.days.DayBounds(today.AddDate(0, 0, i))
	}

	for _, a := range appointments {
		day, _ := s.days.DayBounds(a.StartAt)
		for i := range result {
			if result[i].Date.Equal(day) {
				result[i].Count++
				break
			}
		}
	}
	return result
}
