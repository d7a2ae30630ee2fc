package employees

import (
	"context"

	"github.com/m04kA/SMC-BarberShop/internal/service/employees/models"
)

type EmployeeService interface {
	Create(ctx context.Context, req *models.EmployeeRequest) (*models.EmployeeResponse, error)
	GetByID(ctx context.Context, id int64) (*models.EmployeeResponse, error)
	List(ctx context.Context, req *models.ListEmployeesRequest) (*models.EmployeeListResponse, error)
	Update(ctx context.Context, id int64, req *models.EmployeeRequest) (*models.EmployeeResponse, error)
	Delete(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
