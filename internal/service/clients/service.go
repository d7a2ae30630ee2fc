package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
	clientRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/client"
	"github.com/m04kA/SMC-BarberShop/internal/service/clients/models"
	"github.com/m04kA/SMC-BarberShop/pkg/sanitizer"
)

// Service сервис для работы с клиентами
type Service struct {
	clientRepo  ClientRepository
	validator   Validator
	phoneRegion string
	logger      Logger
}

// NewService создает новый экземпляр сервиса клиентов.
// phoneRegion используется для номеров без кода страны.
func NewService(
	clientRepo ClientRepository,
	validator Validator,
	phoneRegion string,
	logger Logger,
) *Service {
	if phoneRegion == "" {
		phoneRegion = domain.DefaultPhoneRegion
	}
	return &Service{
		clientRepo:  clientRepo,
		validator:   validator,
		phoneRegion: phoneRegion,
		logger:      logger,
	}
}

// Create создает нового клиента
func (s *Service) Create(ctx context.Context, req *models.ClientRequest) (*models.ClientResponse, error) {
	s.logger.Info("Create: creating client name=%q", req.Name)

	// 1. Валидация и нормализация
	client, err := s.toDomain(req)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	// 2. Сохраняем
	created, err := s.clientRepo.Create(ctx, client)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created client id=%d", created.ID)
	return models.FromDomainClient(created), nil
}

// GetByID получает клиента по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ClientResponse, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, clientRepo.ErrClientNotFound) {
			s.logger.Warn("GetByID: client id=%d not found", id)
			return nil, ErrClientNotFound
		}
		s.logger.Error("GetByID: repository error for client id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainClient(client), nil
}

// List возвращает клиентов, search ищет по имени, телефону и email
func (s *Service) List(ctx context.Context, req *models.ListClientsRequest) (*models.ClientListResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	clients, err := s.clientRepo.List(ctx, strings.TrimSpace(req.Search))
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d clients, search=%q", len(clients), req.Search)
	return models.FromDomainClientList(clients), nil
}

// Update обновляет данные клиента
func (s *Service) Update(ctx context.Context, id int64, req *models.ClientRequest) (*models.ClientResponse, error) {
	s.logger.Info("Update: updating client id=%d", id)

	client, err := s.toDomain(req)
	if err != nil {
		s.logger.Warn("Update: validation failed for client id=%d: %v", id, err)
		return nil, err
	}
	client.ID = id

	updated, err := s.clientRepo.Update(ctx, client)
	if err != nil {
		if errors.Is(err, clientRepo.ErrClientNotFound) {
			s.logger.Warn("Update: client id=%d not found", id)
			return nil, ErrClientNotFound
		}
		s.logger.Error("Update: repository error for client id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated client id=%d", id)
	return models.FromDomainClient(updated), nil
}

// Delete удаляет клиента без записей
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.clientRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, clientRepo.ErrClientNotFound):
			s.logger.Warn("Delete: client id=%d not found", id)
			return ErrClientNotFound
		case errors.Is(err, clientRepo.ErrClientInUse):
			s.logger.Warn("Delete: client id=%d has appointments", id)
			return ErrClientInUse
		}
		s.logger.Error("Delete: repository error for client id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted client id=%d", id)
	return nil
}

// toDomain приводит поля к каноническому виду, валидирует результат
// и нормализует телефон. Исходный запрос не изменяется.
func (s *Service) toDomain(req *models.ClientRequest) (*domain.Client, error) {
	normalized := *req
	normalized.Name = sanitizer.NormalizeName(req.Name)
	normalized.Email = sanitizer.NormalizeEmail(req.Email)
	normalized.Notes = sanitizer.NormalizeText(req.Notes)

	if err := s.validator.Struct(&normalized); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	phone, err := sanitizer.NormalizePhone(normalized.Phone, s.phoneRegion)
	if err != nil {
		return nil, fmt.Errorf("%w: phone: %v", ErrInvalidInput, err)
	}

	return &domain.Client{
		Name:                normalized.Name,
		Phone:               phone,
		Email:               normalized.Email,
		PreferredEmployeeID: normalized.PreferredEmployeeID,
		Notes:               normalized.Notes,
	}, nil
}
