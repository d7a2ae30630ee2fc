package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/availability"
	"github.com/m04kA/SMC-BarberShop/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/catalog"
	clientRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/client"
	employeeRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/employee"
	"github.com/m04kA/SMC-BarberShop/internal/integrations/notifier"
	"github.com/m04kA/SMC-BarberShop/pkg/ptr"
)

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	clientRepo      ClientRepository
	employeeRepo    EmployeeRepository
	serviceRepo     ServiceRepository
	engine          SlotEngine
	txManager       TransactionManager
	notifier        Notifier
	reports         ReportsInvalidator
	settings        Settings
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	clientRepo ClientRepository,
	employeeRepo EmployeeRepository,
	serviceRepo ServiceRepository,
	engine SlotEngine,
	txManager TransactionManager,
	notifier Notifier,
	reports ReportsInvalidator,
	settings Settings,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		clientRepo:      clientRepo,
		employeeRepo:    employeeRepo,
		serviceRepo:     serviceRepo,
		engine:          engine,
		txManager:       txManager,
		notifier:        notifier,
		reports:         reports,
		settings:        settings,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Проверка слота и вставка выполняются в одной сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: client=%d, employee=%d, service=%d, date=%s, time=%s",
		req.ClientID, req.EmployeeID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Переводим дату и время в момент в часовом поясе барбершопа
	loc := uc.engine.Location()
	now := uc.timeProvider.Now().In(loc)
	y, m, d := req.Date.Date()
	dayStart, dayEnd := uc.engine.DayBounds(time.Date(y, m, d, 0, 0, 0, 0, loc))
	today, _ := uc.engine.DayBounds(now)
	startAt := req.StartTime.On(dayStart, loc)

	// 3. Валидация даты и времени
	if err := validateDate(dayStart, today, uc.settings.AdvanceBookingDays); err != nil {
		uc.logger.Warn("CreateAppointment: date validation failed: %v", err)
		return nil, err
	}
	if err := validateBookingTime(startAt, now, uc.settings.MinBookingNoticeMinutes); err != nil {
		uc.logger.Warn("CreateAppointment: booking time validation failed: %v", err)
		return nil, err
	}

	// 4. Получаем клиента
	if _, err := uc.clientRepo.GetByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, clientRepo.ErrClientNotFound) {
			uc.logger.Warn("CreateAppointment: client id=%d not found", req.ClientID)
			return nil, ErrClientNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get client id=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: failed to get client: %v", ErrInternal, err)
	}

	// 5. Получаем барбера
	employee, err := uc.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employeeRepo.ErrEmployeeNotFound) {
			uc.logger.Warn("CreateAppointment: employee id=%d not found", req.EmployeeID)
			return nil, ErrEmployeeNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get employee id=%d: %v", req.EmployeeID, err)
		return nil, fmt.Errorf("%w: failed to get employee: %v", ErrInternal, err)
	}
	if !employee.IsBarber() {
		uc.logger.Warn("CreateAppointment: employee id=%d has role %s", req.EmployeeID, employee.Role)
		return nil, ErrEmployeeNotBarber
	}

	// 6. Получаем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	workingHours := employee.WorkingHours.For(dayStart.Weekday())
	var result *domain.Appointment

	// 7. Выполняем проверку и вставку в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Активные записи барбера на этот день с блокировкой (FOR UPDATE)
		appointments, err := uc.appointmentRepo.GetByFilter(txCtx, domain.AppointmentsFilter{
			EmployeeID: ptr.Ptr(req.EmployeeID),
			From:       &dayStart,
			To:         &dayEnd,
		})
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotConflict) {
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 7.2. Проверяем слот
		ok, err := uc.engine.IsSlotAvailable(startAt, service.DurationMinutes, availability.FromAppointments(appointments), workingHours)
		if err != nil {
			if availability.IsValidationError(err) {
				uc.logger.Warn("CreateAppointment: invalid schedule or service: %v", err)
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			return fmt.Errorf("%w: failed to check slot: %v", ErrInternal, err)
		}
		if !ok {
			uc.logger.Warn("CreateAppointment: slot %s for employee id=%d is not available",
				startAt.Format(time.RFC3339), req.EmployeeID)
			return ErrSlotNotAvailable
		}

		// 7.3. Создаем запись с денормализацией услуги
		created, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			ClientID:        req.ClientID,
			EmployeeID:      req.EmployeeID,
			ServiceID:       req.ServiceID,
			StartAt:         startAt,
			DurationMinutes: service.DurationMinutes,
			Status:          domain.StatusScheduled,
			PaymentStatus:   domain.PaymentPending,
			ServiceName:     service.Name,
			Price:           service.EffectivePrice(now),
			Notes:           req.Notes,
		})
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotConflict) {
				uc.logger.Warn("CreateAppointment: concurrent booking detected: %v", err)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotNotAvailable) {
			uc.metrics.IncBookingConflicts()
			return nil, err
		}
		if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		uc.logger.Error("CreateAppointment: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	uc.metrics.IncAppointmentsCreated()
	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	// 8. Побочные эффекты после фиксации транзакции
	uc.reports.Invalidate(ctx)
	uc.notifier.NotifyWithGracefulDegradation(ctx, notifier.EventAppointmentCreated, result)

	return &Response{
		ID:              result.ID,
		ClientID:        result.ClientID,
		EmployeeID:      result.EmployeeID,
		ServiceID:       result.ServiceID,
		StartAt:         result.StartAt,
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		PaymentStatus:   string(result.PaymentStatus),
		ServiceName:     result.ServiceName,
		Price:           result.Price,
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}
