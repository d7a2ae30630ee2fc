package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
	catalogRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-BarberShop/internal/service/catalog/models"
	"github.com/m04kA/SMC-BarberShop/pkg/sanitizer"
)

// Service сервис для работы с каталогом услуг барбершопа
type Service struct {
	serviceRepo  ServiceRepository
	validator    Validator
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(
	serviceRepo ServiceRepository,
	validator Validator,
	logger Logger,
) *Service {
	return &Service{
		serviceRepo:  serviceRepo,
		validator:    validator,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Create создает новую услугу
func (s *Service) Create(ctx context.Context, req *models.ServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Create: creating service name=%q, duration=%d", req.Name, req.DurationMinutes)

	service, err := s.toDomain(req)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	created, err := s.serviceRepo.Create(ctx, service)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created service id=%d", created.ID)
	return models.FromDomainService(created, s.timeProvider.Now()), nil
}

// GetByID получает услугу по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ServiceResponse, error) {
	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("GetByID: service id=%d not found", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetByID: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainService(service, s.timeProvider.Now()), nil
}

// List возвращает услуги, search ищет по названию и описанию
func (s *Service) List(ctx context.Context, req *models.ListServicesRequest) (*models.ServiceListResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	services, err := s.serviceRepo.List(ctx, strings.TrimSpace(req.Search))
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d services", len(services))
	return models.FromDomainServiceList(services, s.timeProvider.Now()), nil
}

// Update обновляет услугу. Цена уже созданных записей не меняется.
func (s *Service) Update(ctx context.Context, id int64, req *models.ServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Update: updating service id=%d", id)

	service, err := s.toDomain(req)
	if err != nil {
		s.logger.Warn("Update: validation failed for service id=%d: %v", id, err)
		return nil, err
	}
	service.ID = id

	updated, err := s.serviceRepo.Update(ctx, service)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("Update: service id=%d not found", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("Update: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated service id=%d", id)
	return models.FromDomainService(updated, s.timeProvider.Now()), nil
}

// Delete удаляет услугу без записей
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.serviceRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, catalogRepo.ErrServiceNotFound):
			s.logger.Warn("Delete: service id=%d not found", id)
			return ErrServiceNotFound
		case errors.Is(err, catalogRepo.ErrServiceInUse):
			s.logger.Warn("Delete: service id=%d has appointments", id)
			return ErrServiceInUse
		}
		s.logger.Error("Delete: repository error for service id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted service id=%d", id)
	return nil
}

// toDomain валидирует запрос, проверяет акцию и нормализует текст
func (s *Service) toDomain(req *models.ServiceRequest) (*domain.Service, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	name := sanitizer.NormalizeName(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name: is required", ErrInvalidInput)
	}

	service := &domain.Service{
		Name:            name,
		Description:     strings.TrimSpace(req.Description),
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
	}

	if req.Promotion != nil {
		if req.Promotion.DiscountedPrice >= req.Price {
			return nil, fmt.Errorf("%w: promotion.discountedPrice: must be less than price", ErrInvalidInput)
		}
		service.Promotion = &domain.Promotion{
			IsActive:        req.Promotion.IsActive,
			DiscountedPrice: req.Promotion.DiscountedPrice,
			ValidUntil:      req.Promotion.ValidUntil,
		}
	}

	return service, nil
}
