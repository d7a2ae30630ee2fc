package employees

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BarberShop/internal/api/handlers"
	"github.com/m04kA/SMC-BarberShop/internal/service/employees"
	"github.com/m04kA/SMC-BarberShop/internal/service/employees/models"
)

const (
	msgInvalidEmployeeID  = "некорректный ID сотрудника"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "сотрудник не найден"
	msgInUse              = "у сотрудника есть записи, удаление невозможно"
)

// Handler CRUD сотрудников
type Handler struct {
	service EmployeeService
	logger  Logger
}

func NewHandler(service EmployeeService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Create POST /api/v1/employees
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.EmployeeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /employees - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	employee, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.respondError(w, "POST /employees", err)
		return
	}

	h.logger.Info("POST /employees - Employee created successfully: employee_id=%d", employee.ID)
	handlers.RespondJSON(w, http.StatusCreated, employee)
}

// Get GET /api/v1/employees/{employeeId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	employeeID, err := handlers.PathID(r, "employeeId")
	if err != nil {
		h.logger.Warn("GET /employees/{id} - Invalid client ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEmployeeID)
		return
	}

	employee, err := h.service.GetByID(r.Context(), employeeID)
	if err != nil {
		h.respondError(w, "GET /employees/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, employee)
}

// List GET /api/v1/employees?role=&q=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context(), &models.ListEmployeesRequest{
		Role:   handlers.QueryString(r, "role"),
		Search: r.URL.Query().Get("q"),
	})
	if err != nil {
		h.respondError(w, "GET /employees", err)
		return
	}

	h.logger.Info("GET /employees - Employees retrieved successfully: count=%d", len(result.Employees))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Update PUT /api/v1/employees/{employeeId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	employeeID, err := handlers.PathID(r, "employeeId")
	if err != nil {
		h.logger.Warn("PUT /employees/{id} - Invalid client ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEmployeeID)
		return
	}

	var req models.EmployeeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /employees/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	employee, err := h.service.Update(r.Context(), employeeID, &req)
	if err != nil {
		h.respondError(w, "PUT /employees/{id}", err)
		return
	}

	h.logger.Info("PUT /employees/{id} - Employee updated successfully: employee_id=%d", employeeID)
	handlers.RespondJSON(w, http.StatusOK, employee)
}

// Delete DELETE /api/v1/employees/{employeeId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	employeeID, err := handlers.PathID(r, "employeeId")
	if err != nil {
		h.logger.Warn("DELETE /employees/{id} - Invalid client ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEmployeeID)
		return
	}

	if err := h.service.Delete(r.Context(), employeeID); err != nil {
		h.respondError(w, "DELETE /employees/{id}", err)
		return
	}

	h.logger.Info("DELETE /employees/{id} - Employee deleted successfully: employee_id=%d", employeeID)
	handlers.RespondNoContent(w)
}

func (h *Handler) respondError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, employees.ErrEmployeeNotFound):
		h.logger.Warn("%s - Employee not found", route)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, employees.ErrEmployeeInUse):
		h.logger.Warn("%s - Employee has appointments", route)
		handlers.RespondConflict(w, msgInUse)

	case errors.Is(err, employees.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, handlers.DetailMessage(err, employees.ErrInvalidInput))

	default:
		h.logger.Error("%s - Internal error: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
