package clients

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BarberShop/internal/api/handlers"
	"github.com/m04kA/SMC-BarberShop/internal/service/clients"
	"github.com/m04kA/SMC-BarberShop/internal/service/clients/models"
)

const (
	msgInvalidClientID    = "некорректный ID клиента"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "клиент не найден"
	msgInUse              = "у клиента есть записи, удаление невозможно"
)

// Handler CRUD клиентов
type Handler struct {
	service ClientService
	logger  Logger
}

func NewHandler(service ClientService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Create POST /api/v1/clients
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.ClientRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /clients - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	client, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.respondError(w, "POST /clients", err)
		return
	}

	h.logger.Info("POST /clients - Client created successfully: client_id=%d", client.ID)
	handlers.RespondJSON(w, http.StatusCreated, client)
}

// Get GET /api/v1/clients/{clientId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	clientID, err := handlers.PathID(r, "clientId")
	if err != nil {
		h.logger.Warn("GET /clients/{id} - Invalid client ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	client, err := h.service.GetByID(r.Context(), clientID)
	if err != nil {
		h.respondError(w, "GET /clients/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, client)
}

// List GET /api/v1/clients?q=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context(), &models.ListClientsRequest{
		Search: r.URL.Query().Get("q"),
	})
	if err != nil {
		h.respondError(w, "GET /clients", err)
		return
	}

	h.logger.Info("GET /clients - Clients retrieved successfully: count=%d", len(result.Clients))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Update PUT /api/v1/clients/{clientId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	clientID, err := handlers.PathID(r, "clientId")
	if err != nil {
		h.logger.Warn("PUT /clients/{id} - Invalid client ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	var req models.ClientRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /clients/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	client, err := h.service.Update(r.Context(), clientID, &req)
	if err != nil {
		h.respondError(w, "PUT /clients/{id}", err)
		return
	}

	h.logger.Info("PUT /clients/{id} - Client updated successfully: client_id=%d", clientID)
	handlers.RespondJSON(w, http.StatusOK, client)
}

// Delete DELETE /api/v1/clients/{clientId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	clientID, err := handlers.PathID(r, "clientId")
	if err != nil {
		h.logger.Warn("DELETE /clients/{id} - Invalid client ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	if err := h.service.Delete(r.Context(), clientID); err != nil {
		h.respondError(w, "DELETE /clients/{id}", err)
		return
	}

	h.logger.Info("DELETE /clients/{id} - Client deleted successfully: client_id=%d", clientID)
	handlers.RespondNoContent(w)
}

func (h *Handler) respondError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, clients.ErrClientNotFound):
		h.logger.Warn("%s - Client not found", route)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, clients.ErrClientInUse):
		h.logger.Warn("%s - Client has appointments", route)
		handlers.RespondConflict(w, msgInUse)

	case errors.Is(err, clients.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, handlers.DetailMessage(err, clients.ErrInvalidInput))

	default:
		h.logger.Error("%s - Internal error: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
