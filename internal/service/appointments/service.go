package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/availability"
	"github.com/m04kA/SMC-BarberShop/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-BarberShop/internal/integrations/notifier"
	"github.com/m04kA/SMC-BarberShop/internal/service/appointments/models"
	"github.com/m04kA/SMC-BarberShop/pkg/ptr"
	"github.com/m04kA/SMC-BarberShop/pkg/sanitizer"
)

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	clientRepo      ClientRepository
	employeeRepo    EmployeeRepository
	engine          AvailabilityEngine
	txManager       TransactionManager
	notifier        Notifier
	reports         ReportsInvalidator
	validator       Validator
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	clientRepo ClientRepository,
	employeeRepo EmployeeRepository,
	engine AvailabilityEngine,
	txManager TransactionManager,
	notifier Notifier,
	reports ReportsInvalidator,
	validator Validator,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		clientRepo:      clientRepo,
		employeeRepo:    employeeRepo,
		engine:          engine,
		txManager:       txManager,
		notifier:        notifier,
		reports:         reports,
		validator:       validator,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	appointment, err := s.get(ctx, id, "GetByID")
	if err != nil {
		return nil, err
	}
	return models.FromDomainAppointment(appointment, s.engine.Location()), nil
}

// List получает записи с фильтрацией
//
// Примеры использования:
//   - Записи на день: Date = "2024-03-11"
//   - Расписание барбера на день: Date и EmployeeID
//   - История клиента: ClientID и IncludeInactive = true
//   - Поиск по имени клиента, барбера или услуги: Search
func (s *Service) List(ctx context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		s.logger.Warn("List: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	filter := domain.AppointmentsFilter{
		EmployeeID:      req.EmployeeID,
		ClientID:        req.ClientID,
		IncludeInactive: req.IncludeInactive,
		Search:          strings.TrimSpace(req.Search),
	}

	if req.Date != "" {
		date, err := time.ParseInLocation(domain.DateFormat, req.Date, s.engine.Location())
		if err != nil {
			return nil, fmt.Errorf("%w: date: %v", ErrInvalidInput, err)
		}
		from, to := s.engine.DayBounds(date)
		filter.From = &from
		filter.To = &to
	}

	if req.Status != nil {
		status := domain.AppointmentStatus(*req.Status)
		filter.Status = &status
	}

	appointments, err := s.appointmentRepo.GetByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d appointments, date=%q, employee=%v", len(appointments), req.Date, req.EmployeeID)
	return models.FromDomainAppointmentList(appointments, s.engine.Location()), nil
}

// UpdateStatus меняет статус записи.
// Отменённая запись не меняется; перевод в cancelled работает как Cancel без причины.
// Возврат из no_show снова занимает время барбера, поэтому слот проверяется заново:
// график барбера, выходные дни барбершопа и пересечения с активными записями.
// При завершении записи обновляется дата последнего визита клиента.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s", id, req.Status)

	// 1. Валидируем статус
	if err := s.validator.Struct(req); err != nil {
		s.logger.Warn("UpdateStatus: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	newStatus := domain.AppointmentStatus(req.Status)

	if newStatus == domain.StatusCancelled {
		return s.Cancel(ctx, id, &models.CancelRequest{})
	}

	// 2. Получаем запись
	appointment, err := s.get(ctx, id, "UpdateStatus")
	if err != nil {
		return nil, err
	}

	// 3. Проверяем переход
	if appointment.Status == domain.StatusCancelled {
		s.logger.Warn("UpdateStatus: appointment id=%d is cancelled", id)
		return nil, fmt.Errorf("%w: appointment is cancelled", ErrInvalidTransition)
	}
	if appointment.Status == newStatus {
		return models.FromDomainAppointment(appointment, s.engine.Location()), nil
	}

	// 4. Проверка слота, статус и последний визит клиента в одной транзакции
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if !appointment.IsActive() {
			if err := s.checkSlot(txCtx, appointment); err != nil {
				return err
			}
		}
		if err := s.appointmentRepo.UpdateStatus(txCtx, id, newStatus); err != nil {
			return err
		}
		if newStatus == domain.StatusCompleted {
			return s.clientRepo.UpdateLastVisit(txCtx, appointment.ClientID, appointment.StartAt)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
			s.logger.Warn("UpdateStatus: appointment id=%d not found during update", id)
			return nil, ErrAppointmentNotFound
		case errors.Is(err, appointmentRepo.ErrSlotConflict), errors.Is(err, ErrSlotNotAvailable):
			s.logger.Warn("UpdateStatus: slot of appointment id=%d is no longer available: %v", id, err)
			return nil, ErrSlotNotAvailable
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	appointment.Status = newStatus
	s.afterChange(ctx, notifier.EventAppointmentStatusChanged, appointment)

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s", id, newStatus)
	return s.GetByID(ctx, id)
}

// UpdatePayment меняет статус оплаты записи
func (s *Service) UpdatePayment(ctx context.Context, id int64, req *models.UpdatePaymentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdatePayment: updating appointment id=%d to payment=%s", id, req.PaymentStatus)

	if err := s.validator.Struct(req); err != nil {
		s.logger.Warn("UpdatePayment: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.appointmentRepo.UpdatePayment(ctx, id, domain.PaymentStatus(req.PaymentStatus)); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdatePayment: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("UpdatePayment: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdatePayment - repository error: %v", ErrInternal, err)
	}

	s.reports.Invalidate(ctx)

	s.logger.Info("UpdatePayment: successfully updated appointment id=%d", id)
	return s.GetByID(ctx, id)
}

// Cancel отменяет запланированную запись, слот освобождается
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%d", id)

	if err := s.validator.Struct(req); err != nil {
		s.logger.Warn("Cancel: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 1. Получаем запись
	appointment, err := s.get(ctx, id, "Cancel")
	if err != nil {
		return nil, err
	}

	// 2. Проверяем, можно ли отменить запись
	if !appointment.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", id, appointment.Status)
		return nil, ErrCannotCancel
	}

	// 3. Отменяем запись
	cancelledAt := s.timeProvider.Now()
	reason := sanitizer.NormalizeText(req.Reason)
	if err := s.appointmentRepo.Cancel(ctx, id, reason, cancelledAt); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found during cancellation", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	appointment.Status = domain.StatusCancelled
	appointment.CancellationReason = reason
	appointment.CancelledAt = &cancelledAt
	s.afterChange(ctx, notifier.EventAppointmentCancelled, appointment)

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", id)
	return s.GetByID(ctx, id)
}

// Delete удаляет запись физически
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.appointmentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Delete: appointment id=%d not found", id)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Delete: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.reports.Invalidate(ctx)

	s.logger.Info("Delete: successfully deleted appointment id=%d", id)
	return nil
}

// Вспомогательные методы

// checkSlot проверяет, что время записи всё ещё свободно у барбера
func (s *Service) checkSlot(ctx context.Context, appointment *domain.Appointment) error {
	employee, err := s.employeeRepo.GetByID(ctx, appointment.EmployeeID)
	if err != nil {
		return fmt.Errorf("checkSlot - get employee: %w", err)
	}

	dayStart, dayEnd := s.engine.DayBounds(appointment.StartAt)
	appointments, err := s.appointmentRepo.GetByFilter(ctx, domain.AppointmentsFilter{
		EmployeeID: ptr.Ptr(appointment.EmployeeID),
		From:       &dayStart,
		To:         &dayEnd,
	})
	if err != nil {
		return fmt.Errorf("checkSlot - get appointments: %w", err)
	}

	// Сама запись неактивна и в existing не попадает
	ok, err := s.engine.IsSlotAvailable(
		appointment.StartAt,
		appointment.DurationMinutes,
		availability.FromAppointments(appointments),
		employee.WorkingHours.For(dayStart.Weekday()),
	)
	if err != nil {
		return fmt.Errorf("checkSlot - check slot: %w", err)
	}
	if !ok {
		return ErrSlotNotAvailable
	}
	return nil
}

func (s *Service) get(ctx context.Context, id int64, op string) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appointment, nil
}

// afterChange сбрасывает кеш отчётов и уведомляет внешнюю систему
func (s *Service) afterChange(ctx context.Context, event notifier.EventType, appointment *domain.Appointment) {
	s.reports.Invalidate(ctx)
	s.notifier.NotifyWithGracefulDegradation(ctx, event, appointment)
}
