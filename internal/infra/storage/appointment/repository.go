package appointment

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
)

const table = "appointments"

// Коды ошибок PostgreSQL, означающие конкурентную запись на тот же слот
const (
	pqExclusionViolation   = "23P01"
	pqSerializationFailure = "40001"
)

var columns = []string{
	"a.id",
	"a.client_id",
	"a.employee_id",
	"a.service_id",
	"a.start_at",
	"a.duration_minutes",
	"a.status",
	"a.payment_status",
	"a.service_name",
	"a.price",
	"a.notes",
	"a.cancellation_reason",
	"a.cancelled_at",
	"a.created_at",
	"a.updated_at",
}

// Repository репозиторий для работы с записями клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись.
// Если в контексте передана активная транзакция, использует её.
// Пересечение с другой активной записью барбера возвращается как ErrSlotConflict.
func (r *Repository) Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"client_id",
			"employee_id",
			"service_id",
			"start_at",
			"end_at",
			"duration_minutes",
			"status",
			"payment_status",
			"service_name",
			"price",
			"notes",
		).
		Values(
			appointment.ClientID,
			appointment.EmployeeID,
			appointment.ServiceID,
			appointment.StartAt,
			appointment.EndAt(),
			appointment.DurationMinutes,
			appointment.Status,
			appointment.PaymentStatus,
			appointment.ServiceName,
			appointment.Price,
			appointment.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&appointment.ID, &appointment.CreatedAt, &appointment.UpdatedAt)
	if err != nil {
		if isConflict(err) {
			return nil, fmt.Errorf("%w: Create: %v", ErrSlotConflict, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return appointment, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table + " a").
		Where(squirrel.Eq{"a.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appointment, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return appointment, nil
}

// GetByFilter получает записи с гибкой фильтрацией.
//
// Примеры использования:
//
// 1. Активные записи барбера на день (для расчёта слотов):
//
//	filter := domain.AppointmentsFilter{EmployeeID: &id, From: &dayStart, To: &dayEnd}
//
// 2. Все записи за период, включая отменённые (для отчётов):
//
//	filter := domain.AppointmentsFilter{From: &from, To: &to, IncludeInactive: true}
//
// 3. Поиск по имени клиента, барбера или услуги:
//
//	filter := domain.AppointmentsFilter{Search: "silva"}
//
// Внутри транзакции выборка по барберу блокируется через FOR UPDATE.
func (r *Repository) GetByFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table + " a")

	if filter.EmployeeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.employee_id": *filter.EmployeeID})
	}
	if filter.ClientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.client_id": *filter.ClientID})
	}

	// Фильтрация по периоду [From, To)
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"a.start_at": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"a.start_at": *filter.To})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.status": *filter.Status})
	} else if !filter.IncludeInactive {
		inactive := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactive[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"a.status": inactive})
	}

	if filter.Search != "" {
		pattern := psqlbuilder.ContainsPattern(filter.Search)
		selectBuilder = selectBuilder.
			Join("clients c ON c.id = a.client_id").
			Join("employees e ON e.id = a.employee_id").
			Where(squirrel.Or{
				squirrel.ILike{"c.name": pattern},
				squirrel.ILike{"e.name": pattern},
				squirrel.ILike{"a.service_name": pattern},
			})
	}

	selectBuilder = selectBuilder.OrderBy("a.start_at ASC", "a.id ASC")

	// Блокируем записи барбера, пока создаётся новая
	if dbmetrics.IsInTransaction(ctx) && filter.EmployeeID != nil {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF a")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if isConflict(err) {
			return nil, fmt.Errorf("%w: GetByFilter: %v", ErrSlotConflict, err)
		}
		return nil, fmt.Errorf("%w: GetByFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByFilter - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByFilter - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

// UpdateStatus обновляет статус записи.
// Возврат в активный статус может пересечься с другой записью, это ErrSlotConflict.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	query, args, err := psqlbuilder.Update(table).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, query, args, "UpdateStatus")
}

// UpdatePayment обновляет статус оплаты
func (r *Repository) UpdatePayment(ctx context.Context, id int64, status domain.PaymentStatus) error {
	query, args, err := psqlbuilder.Update(table).
		Set("payment_status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdatePayment - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, query, args, "UpdatePayment")
}

// Cancel отменяет запись с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, reason *string, cancelledAt time.Time) error {
	query, args, err := psqlbuilder.Update(table).
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", cancelledAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, query, args, "Cancel")
}

// Delete удаляет запись (физическое удаление).
// Для сохранения истории предпочтительнее Cancel.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, query, args, "Delete")
}

func (r *Repository) execAffectingOne(ctx context.Context, query string, args []interface{}, op string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isConflict(err) {
			return fmt.Errorf("%w: %s: %v", ErrSlotConflict, op, err)
		}
		return fmt.Errorf("%w: %s - execute: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

func isConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == pqExclusionViolation || pqErr.Code == pqSerializationFailure
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row scanner) (*domain.Appointment, error) {
	var appointment domain.Appointment
	err := row.Scan(
		&appointment.ID,
		&appointment.ClientID,
		&appointment.EmployeeID,
		&appointment.ServiceID,
		&appointment.StartAt,
		&appointment.DurationMinutes,
		&appointment.Status,
		&appointment.PaymentStatus,
		&appointment.ServiceName,
		&appointment.Price,
		&appointment.Notes,
		&appointment.CancellationReason,
		&appointment.CancelledAt,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}
