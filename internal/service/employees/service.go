package employees

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
	employeeRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/employee"
	"github.com/m04kA/SMC-BarberShop/internal/service/employees/models"
	"github.com/m04kA/SMC-BarberShop/pkg/sanitizer"
)

// Service сервис для работы с сотрудниками и их графиком
type Service struct {
	employeeRepo EmployeeRepository
	txManager    TransactionManager
	validator    Validator
	phoneRegion  string
	logger       Logger
}

// NewService создает новый экземпляр сервиса сотрудников
func NewService(
	employeeRepo EmployeeRepository,
	txManager TransactionManager,
	validator Validator,
	phoneRegion string,
	logger Logger,
) *Service {
	if phoneRegion == "" {
		phoneRegion = domain.DefaultPhoneRegion
	}
	return &Service{
		employeeRepo: employeeRepo,
		txManager:    txManager,
		validator:    validator,
		phoneRegion:  phoneRegion,
		logger:       logger,
	}
}

// Create создает сотрудника вместе с графиком работы
func (s *Service) Create(ctx context.Context, req *models.EmployeeRequest) (*models.EmployeeResponse, error) {
	s.logger.Info("Create: creating employee name=%q, role=%s", req.Name, req.Role)

	// 1. Валидация и нормализация
	employee, err := s.toDomain(req)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	// 2. Сотрудник и график сохраняются в одной транзакции
	var created *domain.Employee
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.employeeRepo.Create(txCtx, employee)
		return err
	})
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created employee id=%d", created.ID)
	return models.FromDomainEmployee(created), nil
}

// GetByID получает сотрудника по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.EmployeeResponse, error) {
	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employeeRepo.ErrEmployeeNotFound) {
			s.logger.Warn("GetByID: employee id=%d not found", id)
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("GetByID: repository error for employee id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainEmployee(employee), nil
}

// List возвращает сотрудников с фильтром по роли и поиском по имени
func (s *Service) List(ctx context.Context, req *models.ListEmployeesRequest) (*models.EmployeeListResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var role *domain.EmployeeRole
	if req.Role != nil {
		r := domain.EmployeeRole(*req.Role)
		role = &r
	}

	employees, err := s.employeeRepo.List(ctx, role, strings.TrimSpace(req.Search))
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d employees", len(employees))
	return models.FromDomainEmployeeList(employees), nil
}

// Update обновляет сотрудника и полностью заменяет его график
func (s *Service) Update(ctx context.Context, id int64, req *models.EmployeeRequest) (*models.EmployeeResponse, error) {
	s.logger.Info("Update: updating employee id=%d", id)

	employee, err := s.toDomain(req)
	if err != nil {
		s.logger.Warn("Update: validation failed for employee id=%d: %v", id, err)
		return nil, err
	}
	employee.ID = id

	var updated *domain.Employee
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = s.employeeRepo.Update(txCtx, employee)
		return err
	})
	if err != nil {
		if errors.Is(err, employeeRepo.ErrEmployeeNotFound) {
			s.logger.Warn("Update: employee id=%d not found", id)
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("Update: repository error for employee id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated employee id=%d", id)
	return models.FromDomainEmployee(updated), nil
}

// Delete удаляет сотрудника без записей
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, employeeRepo.ErrEmployeeNotFound):
			s.logger.Warn("Delete: employee id=%d not found", id)
			return ErrEmployeeNotFound
		case errors.Is(err, employeeRepo.ErrEmployeeInUse):
			s.logger.Warn("Delete: employee id=%d has appointments", id)
			return ErrEmployeeInUse
		}
		s.logger.Error("Delete: repository error for employee id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted employee id=%d", id)
	return nil
}

// toDomain приводит поля к каноническому виду, валидирует результат
// и нормализует телефон. Исходный запрос не изменяется.
func (s *Service) toDomain(req *models.EmployeeRequest) (*domain.Employee, error) {
	normalized := *req
	normalized.Name = sanitizer.NormalizeName(req.Name)
	normalized.Email = sanitizer.NormalizeEmail(req.Email)
	normalized.Phone = strings.TrimSpace(req.Phone)

	if err := s.validator.Struct(&normalized); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var phone string
	if normalized.Phone != "" {
		var err error
		phone, err = sanitizer.NormalizePhone(normalized.Phone, s.phoneRegion)
		if err != nil {
			return nil, fmt.Errorf("%w: phone: %v", ErrInvalidInput, err)
		}
	}

	schedule := models.ToDomainSchedule(normalized.WorkingHours)
	for day, wh := range schedule {
		if wh == nil {
			continue
		}
		if !wh.Start.IsBefore(wh.End) {
			return nil, fmt.Errorf("%w: workingHours.%s: start must be before end",
				ErrInvalidInput, models.WeekdayKey(time.Weekday(day)))
		}
	}

	specialties := make([]string, 0, len(req.Specialties))
	for _, sp := range normalized.Specialties {
		if sp = sanitizer.NormalizeName(sp); sp != "" {
			specialties = append(specialties, sp)
		}
	}

	return &domain.Employee{
		Name:         normalized.Name,
		Phone:        phone,
		Email:        normalized.Email,
		Role:         domain.EmployeeRole(normalized.Role),
		Specialties:  specialties,
		WorkingHours: schedule,
	}, nil
}
