package employee

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
	"github.com/m04kA/SMC-BarberShop/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberShop/pkg/psqlbuilder"
	"github.com/m04kA/SMC-BarberShop/pkg/types"
)

const (
	table      = "employees"
	hoursTable = "employee_working_hours"
)

var columns = []string{
	"id",
	"name",
	"phone",
	"email",
	"role",
	"specialties",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с сотрудниками и их графиком
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сотрудников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает сотрудника вместе с графиком работы.
// Вызывать внутри транзакции, чтобы сотрудник не остался без графика при ошибке.
func (r *Repository) Create(ctx context.Context, employee *domain.Employee) (*domain.Employee, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("name", "phone", "email", "role", "specialties").
		Values(employee.Name, employee.Phone, employee.Email, employee.Role, pq.StringArray(employee.Specialties)).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&employee.ID, &employee.CreatedAt, &employee.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	if err := r.insertWorkingHours(ctx, executor, employee.ID, employee.WorkingHours); err != nil {
		return nil, err
	}

	return employee, nil
}

// GetByID получает сотрудника по ID вместе с графиком работы
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	employee, err := scanEmployee(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan employee: %v", ErrScanRow, err)
	}

	schedules, err := r.loadWorkingHours(ctx, executor, []int64{id})
	if err != nil {
		return nil, err
	}
	employee.WorkingHours = schedules[id]

	return employee, nil
}

// List возвращает сотрудников, отсортированных по имени.
// role ограничивает выборку одной ролью, search ищет по подстроке в имени.
func (r *Repository) List(ctx context.Context, role *domain.EmployeeRole, search string) ([]*domain.Employee, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		OrderBy("name ASC", "id ASC")

	if role != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"role": *role})
	}
	if search != "" {
		selectBuilder = selectBuilder.Where(squirrel.ILike{"name": psqlbuilder.ContainsPattern(search)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	employees := make([]*domain.Employee, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		employees = append(employees, employee)
		ids = append(ids, employee.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	if len(ids) == 0 {
		return employees, nil
	}

	schedules, err := r.loadWorkingHours(ctx, executor, ids)
	if err != nil {
		return nil, err
	}
	for _, e := range employees {
		e.WorkingHours = schedules[e.ID]
	}

	return employees, nil
}

// Update обновляет данные сотрудника и полностью заменяет его график.
// Вызывать внутри транзакции.
func (r *Repository) Update(ctx context.Context, employee *domain.Employee) (*domain.Employee, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("name", employee.Name).
		Set("phone", employee.Phone).
		Set("email", employee.Email).
		Set("role", employee.Role).
		Set("specialties", pq.StringArray(employee.Specialties)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": employee.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&employee.CreatedAt, &employee.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	deleteQuery, deleteArgs, err := psqlbuilder.Delete(hoursTable).
		Where(squirrel.Eq{"employee_id": employee.ID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build delete hours query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return nil, fmt.Errorf("%w: Update - delete hours: %v", ErrExecQuery, err)
	}

	if err := r.insertWorkingHours(ctx, executor, employee.ID, employee.WorkingHours); err != nil {
		return nil, err
	}

	return employee, nil
}

// Delete удаляет сотрудника, график удаляется каскадно
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrEmployeeInUse
		}
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrEmployeeNotFound
	}

	return nil
}

func (r *Repository) insertWorkingHours(ctx context.Context, executor DBExecutor, employeeID int64, schedule domain.WeeklySchedule) error {
	insertBuilder := psqlbuilder.Insert(hoursTable).
		Columns("employee_id", "weekday", "start_time", "end_time")

	days := 0
	for day := time.Sunday; day <= time.Saturday; day++ {
		wh := schedule.For(day)
		if wh == nil {
			continue
		}
		insertBuilder = insertBuilder.Values(employeeID, int(day), wh.Start, wh.End)
		days++
	}
	if days == 0 {
		return nil
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertWorkingHours - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertWorkingHours - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) loadWorkingHours(ctx context.Context, executor DBExecutor, employeeIDs []int64) (map[int64]domain.WeeklySchedule, error) {
	query, args, err := psqlbuilder.Select("employee_id", "weekday", "start_time", "end_time").
		From(hoursTable).
		Where(squirrel.Eq{"employee_id": employeeIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: loadWorkingHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: loadWorkingHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	schedules := make(map[int64]domain.WeeklySchedule, len(employeeIDs))
	for rows.Next() {
		var (
			employeeID int64
			weekday    int
			start, end types.TimeString
		)
		if err := rows.Scan(&employeeID, &weekday, &start, &end); err != nil {
			return nil, fmt.Errorf("%w: loadWorkingHours - scan row: %v", ErrScanRow, err)
		}
		if weekday < int(time.Sunday) || weekday > int(time.Saturday) {
			continue
		}
		schedule := schedules[employeeID]
		schedule[weekday] = &domain.WorkingHours{Start: start, End: end}
		schedules[employeeID] = schedule
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadWorkingHours - rows error: %v", ErrScanRow, err)
	}

	return schedules, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEmployee(row scanner) (*domain.Employee, error) {
	var (
		employee    domain.Employee
		specialties pq.StringArray
	)
	err := row.Scan(
		&employee.ID,
		&employee.Name,
		&employee.Phone,
		&employee.Email,
		&employee.Role,
		&specialties,
		&employee.CreatedAt,
		&employee.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	employee.Specialties = []string(specialties)
	if employee.Specialties == nil {
		employee.Specialties = []string{}
	}
	return &employee, nil
}
