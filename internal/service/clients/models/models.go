package models

import (
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

// Request модели

// ClientRequest данные клиента для создания и обновления
type ClientRequest struct {
	Name                string  `json:"name" validate:"required,max=100"`
	Phone               string  `json:"phone" validate:"required,max=32"`
	Email               string  `json:"email" validate:"omitempty,email,max=254"`
	PreferredEmployeeID *int64  `json:"preferredEmployeeId,omitempty" validate:"omitempty,gt=0"`
	Notes               *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// ListClientsRequest запрос на получение списка клиентов
type ListClientsRequest struct {
	Search string `json:"q" validate:"max=100"`
}

// Response модели

// ClientResponse ответ с данными клиента
type ClientResponse struct {
	ID                  int64      `json:"id"`
	Name                string     `json:"name"`
	Phone               string     `json:"phone"`
	Email               string     `json:"email,omitempty"`
	LastVisit           *time.Time `json:"lastVisit,omitempty"`
	PreferredEmployeeID *int64     `json:"preferredEmployeeId,omitempty"`
	Notes               *string    `json:"notes,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// ClientListResponse ответ со списком клиентов
type ClientListResponse struct {
	Clients []ClientResponse `json:"clients"`
}

// FromDomainClient конвертирует domain модель в DTO
func FromDomainClient(c *domain.Client) *ClientResponse {
	if c == nil {
		return nil
	}

	return &ClientResponse{
		ID:                  c.ID,
		Name:                c.Name,
		Phone:               c.Phone,
		Email:               c.Email,
		LastVisit:           c.LastVisit,
		PreferredEmployeeID: c.PreferredEmployeeID,
		Notes:               c.Notes,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}

// FromDomainClientList конвертирует список domain моделей в DTO
func FromDomainClientList(clients []*domain.Client) *ClientListResponse {
	resp := &ClientListResponse{
		Clients: make([]ClientResponse, 0, len(clients)),
	}

	for _, c := range clients {
		if item := FromDomainClient(c); item != nil {
			resp.Clients = append(resp.Clients, *item)
		}
	}

	return resp
}
