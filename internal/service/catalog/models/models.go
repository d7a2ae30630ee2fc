package models

import (
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

// Request модели

// PromotionRequest акционная цена услуги
type PromotionRequest struct {
	IsActive        bool       `json:"isActive"`
	DiscountedPrice float64    `json:"discountedPrice" validate:"gte=0"`
	ValidUntil      *time.Time `json:"validUntil,omitempty"`
}

// ServiceRequest данные услуги для создания и обновления
type ServiceRequest struct {
	Name            string            `json:"name" validate:"required,max=100"`
	Description     string            `json:"description" validate:"max=500"`
	DurationMinutes int               `json:"durationMinutes" validate:"gte=5,lte=480"`
	Price           float64           `json:"price" validate:"gte=0"`
	Promotion       *PromotionRequest `json:"promotion,omitempty"`
}

// ListServicesRequest запрос на получение списка услуг
type ListServicesRequest struct {
	Search string `json:"q" validate:"max=100"`
}

// Response модели

// PromotionResponse акционная цена услуги
type PromotionResponse struct {
	IsActive        bool       `json:"isActive"`
	DiscountedPrice float64    `json:"discountedPrice"`
	ValidUntil      *time.Time `json:"validUntil,omitempty"`
}

// ServiceResponse ответ с данными услуги
type ServiceResponse struct {
	ID              int64              `json:"id"`
	Name            string             `json:"name"`
	Description     string             `json:"description,omitempty"`
	DurationMinutes int                `json:"durationMinutes"`
	Price           float64            `json:"price"`
	EffectivePrice  float64            `json:"effectivePrice"` // Цена с учётом действующей акции
	Promotion       *PromotionResponse `json:"promotion,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// ServiceListResponse ответ со списком услуг
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

// FromDomainService конвертирует domain модель в DTO, now нужен для расчёта цены по акции
func FromDomainService(s *domain.Service, now time.Time) *ServiceResponse {
	if s == nil {
		return nil
	}

	resp := &ServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		EffectivePrice:  s.EffectivePrice(now),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}

	if s.Promotion != nil {
		resp.Promotion = &PromotionResponse{
			IsActive:        s.Promotion.IsActive,
			DiscountedPrice: s.Promotion.DiscountedPrice,
			ValidUntil:      s.Promotion.ValidUntil,
		}
	}

	return resp
}

// FromDomainServiceList конвертирует список domain моделей в DTO
func FromDomainServiceList(services []*domain.Service, now time.Time) *ServiceListResponse {
	resp := &ServiceListResponse{
		Services: make([]ServiceResponse, 0, len(services)),
	}

	for _, s := range services {
		if item := FromDomainService(s, now); item != nil {
			resp.Services = append(resp.Services, *item)
		}
	}

	return resp
}
