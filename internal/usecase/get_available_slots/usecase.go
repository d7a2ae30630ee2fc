package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/availability"
	"github.com/m04kA/SMC-BarberShop/internal/domain"
	catalogRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/catalog"
	employeeRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/employee"
	"github.com/m04kA/SMC-BarberShop/pkg/ptr"
	"github.com/m04kA/SMC-BarberShop/pkg/types"
)

// UseCase use case для получения свободных слотов барбера
type UseCase struct {
	appointmentRepo AppointmentRepository
	employeeRepo    EmployeeRepository
	serviceRepo     ServiceRepository
	engine          SlotEngine
	settings        Settings
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	employeeRepo EmployeeRepository,
	serviceRepo ServiceRepository,
	engine SlotEngine,
	settings Settings,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		employeeRepo:    employeeRepo,
		serviceRepo:     serviceRepo,
		engine:          engine,
		settings:        settings,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения свободных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: employee=%d, service=%d, date=%s",
		req.EmployeeID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Границы дня и текущее время в часовом поясе барбершопа
	loc := uc.engine.Location()
	now := uc.timeProvider.Now().In(loc)
	y, m, d := req.Date.Date()
	dayStart, dayEnd := uc.engine.DayBounds(time.Date(y, m, d, 0, 0, 0, 0, loc))
	today, _ := uc.engine.DayBounds(now)

	// 3. Валидация даты
	if err := validateDate(dayStart, today, uc.settings.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 4. Получаем барбера
	employee, err := uc.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employeeRepo.ErrEmployeeNotFound) {
			uc.logger.Warn("GetAvailableSlots: employee id=%d not found", req.EmployeeID)
			return nil, ErrEmployeeNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get employee id=%d: %v", req.EmployeeID, err)
		return nil, fmt.Errorf("%w: failed to get employee: %v", ErrInternal, err)
	}
	if !employee.IsBarber() {
		uc.logger.Warn("GetAvailableSlots: employee id=%d has role %s", req.EmployeeID, employee.Role)
		return nil, ErrEmployeeNotBarber
	}

	// 5. Получаем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 6. Получаем активные записи барбера на этот день
	appointments, err := uc.appointmentRepo.GetByFilter(ctx, domain.AppointmentsFilter{
		EmployeeID: ptr.Ptr(req.EmployeeID),
		From:       &dayStart,
		To:         &dayEnd,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 7. Считаем свободные слоты по графику барбера
	workingHours := employee.WorkingHours.For(dayStart.Weekday())
	seq, err := uc.engine.GenerateSlots(dayStart, workingHours, availability.FromAppointments(appointments), service.DurationMinutes)
	if err != nil {
		if availability.IsValidationError(err) {
			uc.logger.Warn("GetAvailableSlots: invalid schedule for employee id=%d: %v", req.EmployeeID, err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	// 8. Отбрасываем слоты, на которые уже поздно записываться
	earliest := now.Add(time.Duration(uc.settings.MinBookingNoticeMinutes) * time.Minute)
	slots := make([]Slot, 0)
	for start := range seq {
		if start.Before(earliest) {
			continue
		}
		end := start.Add(time.Duration(service.DurationMinutes) * time.Minute)
		slots = append(slots, Slot{
			StartAt:   start,
			StartTime: types.NewTimeString(start),
			EndTime:   types.NewTimeString(end),
		})
	}

	if uc.metrics != nil {
		uc.metrics.ObserveSlots(len(slots))
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for employee=%d, service=%d, date=%s",
		len(slots), req.EmployeeID, req.ServiceID, dayStart.Format(domain.DateFormat))

	return &Response{
		Date:            dayStart,
		EmployeeID:      req.EmployeeID,
		ServiceID:       req.ServiceID,
		DurationMinutes: service.DurationMinutes,
		Slots:           slots,
	}, nil
}
