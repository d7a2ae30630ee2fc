package models

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
	"github.com/m04kA/SMC-BarberShop/pkg/types"
)

// Request модели

// WorkingHoursRequest рабочие часы на один день
type WorkingHoursRequest struct {
	Start string `json:"start" validate:"required,hhmm"` // "09:00"
	End   string `json:"end" validate:"required,hhmm"`   // "18:00"
}

// EmployeeRequest данные сотрудника для создания и обновления.
// WorkingHours: ключ - день недели ("monday"), отсутствующий день - выходной.
type EmployeeRequest struct {
	Name         string                          `json:"name" validate:"required,max=100"`
	Phone        string                          `json:"phone" validate:"omitempty,max=32"`
	Email        string                          `json:"email" validate:"omitempty,email,max=254"`
	Role         string                          `json:"role" validate:"required,oneof=barber admin"`
	Specialties  []string                        `json:"specialties" validate:"max=20,dive,required,max=50"`
	WorkingHours map[string]*WorkingHoursRequest `json:"workingHours" validate:"dive,keys,oneof=sunday monday tuesday wednesday thursday friday saturday,endkeys,required"`
}

// ListEmployeesRequest запрос на получение списка сотрудников
type ListEmployeesRequest struct {
	Role   *string `json:"role,omitempty" validate:"omitempty,oneof=barber admin"`
	Search string  `json:"q" validate:"max=100"`
}

// Response модели

// WorkingHoursResponse рабочие часы на один день
type WorkingHoursResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// EmployeeResponse ответ с данными сотрудника
type EmployeeResponse struct {
	ID           int64                           `json:"id"`
	Name         string                          `json:"name"`
	Phone        string                          `json:"phone,omitempty"`
	Email        string                          `json:"email,omitempty"`
	Role         string                          `json:"role"`
	Specialties  []string                        `json:"specialties"`
	WorkingHours map[string]WorkingHoursResponse `json:"workingHours"`
	CreatedAt    time.Time                       `json:"createdAt"`
	UpdatedAt    time.Time                       `json:"updatedAt"`
}

// EmployeeListResponse ответ со списком сотрудников
type EmployeeListResponse struct {
	Employees []EmployeeResponse `json:"employees"`
}

// WeekdayKey имя дня недели в JSON
func WeekdayKey(day time.Weekday) string {
	return strings.ToLower(day.String())
}

// ToDomainSchedule конвертирует график из запроса в недельное расписание
func ToDomainSchedule(hours map[string]*WorkingHoursRequest) domain.WeeklySchedule {
	var schedule domain.WeeklySchedule
	for day := time.Sunday; day <= time.Saturday; day++ {
		wh, ok := hours[WeekdayKey(day)]
		if !ok || wh == nil {
			continue
		}
		schedule[day] = &domain.WorkingHours{
			Start: types.TimeString(wh.Start),
			End:   types.TimeString(wh.End),
		}
	}
	return schedule
}

// FromDomainEmployee конвертирует domain модель в DTO
func FromDomainEmployee(e *domain.Employee) *EmployeeResponse {
	if e == nil {
		return nil
	}

	resp := &EmployeeResponse{
		ID:           e.ID,
		Name:         e.Name,
		Phone:        e.Phone,
		Email:        e.Email,
		Role:         string(e.Role),
		Specialties:  e.Specialties,
		WorkingHours: make(map[string]WorkingHoursResponse),
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
	if resp.Specialties == nil {
		resp.Specialties = []string{}
	}

	for day := time.Sunday; day <= time.Saturday; day++ {
		if wh := e.WorkingHours.For(day); wh != nil {
			resp.WorkingHours[WeekdayKey(day)] = WorkingHoursResponse{
				Start: wh.Start.String(),
				End:   wh.End.String(),
			}
		}
	}

	return resp
}

// FromDomainEmployeeList конвертирует список domain моделей в DTO
func FromDomainEmployeeList(employees []*domain.Employee) *EmployeeListResponse {
	resp := &EmployeeListResponse{
		Employees: make([]EmployeeResponse, 0, len(employees)),
	}

	for _, e := range employees {
		if item := FromDomainEmployee(e); item != nil {
			resp.Employees = append(resp.Employees, *item)
		}
	}

	return resp
}
