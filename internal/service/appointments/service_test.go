package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberShop/internal/availability"
	"github.com/m04kA/SMC-BarberShop/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-BarberShop/internal/integrations/notifier"
	"github.com/m04kA/SMC-BarberShop/internal/service/appointments/models"
	"github.com/m04kA/SMC-BarberShop/pkg/ptr"
	"github.com/m04kA/SMC-BarberShop/pkg/types"
	"github.com/m04kA/SMC-BarberShop/pkg/validation"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeAppointments struct {
	items     map[int64]*domain.Appointment
	filter    domain.AppointmentsFilter
	statusErr error
}

func (r *fakeAppointments) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	if a, ok := r.items[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, appointmentRepo.ErrAppointmentNotFound
}

func (r *fakeAppointments) GetByFilter(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	r.filter = filter
	var result []*domain.Appointment
	for _, a := range r.items {
		result = append(result, a)
	}
	return result, nil
}

func (r *fakeAppointments) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	if r.statusErr != nil {
		return r.statusErr
	}
	a, ok := r.items[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	a.Status = status
	return nil
}

func (r *fakeAppointments) UpdatePayment(_ context.Context, id int64, status domain.PaymentStatus) error {
	a, ok := r.items[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	a.PaymentStatus = status
	return nil
}

func (r *fakeAppointments) Cancel(_ context.Context, id int64, reason *string, cancelledAt time.Time) error {
	a, ok := r.items[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	a.Status = domain.StatusCancelled
	a.CancellationReason = reason
	a.CancelledAt = &cancelledAt
	return nil
}

func (r *fakeAppointments) Delete(_ context.Context, id int64) error {
	if _, ok := r.items[id]; !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	delete(r.items, id)
	return nil
}

type fakeClients struct {
	visits map[int64]time.Time
	err    error
}

func (c *fakeClients) UpdateLastVisit(_ context.Context, id int64, at time.Time) error {
	if c.err != nil {
		return c.err
	}
	c.visits[id] = at
	return nil
}

type fakeEmployees struct {
	items map[int64]*domain.Employee
}

func (r *fakeEmployees) GetByID(_ context.Context, id int64) (*domain.Employee, error) {
	if e, ok := r.items[id]; ok {
		return e, nil
	}
	return nil, errors.New("employee not found")
}

type fakeTxManager struct{ calls int }

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type recordingNotifier struct{ events []notifier.EventType }

func (n *recordingNotifier) NotifyWithGracefulDegradation(_ context.Context, event notifier.EventType, _ *domain.Appointment) {
	n.events = append(n.events, event)
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(context.Context) { c.calls++ }

var (
	brt = time.FixedZone("BRT", -3*60*60)
	now = time.Date(2024, 3, 11, 8, 0, 0, 0, brt)
)

func weekdays(start, end string) domain.WeeklySchedule {
	var s domain.WeeklySchedule
	for day := time.Monday; day <= time.Saturday; day++ {
		s[day] = &domain.WorkingHours{Start: types.TimeString(start), End: types.TimeString(end)}
	}
	return s
}

type fixture struct {
	svc          *Service
	appointments *fakeAppointments
	clients      *fakeClients
	employees    *fakeEmployees
	tx           *fakeTxManager
	notifier     *recordingNotifier
	reports      *countingInvalidator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	engine, err := availability.NewEngine(availability.Policy{Location: brt})
	require.NoError(t, err)

	f := &fixture{
		appointments: &fakeAppointments{items: map[int64]*domain.Appointment{
			1: {
				ID: 1, ClientID: 5, EmployeeID: 1, ServiceID: 10,
				StartAt: time.Date(2024, 3, 11, 10, 0, 0, 0, brt), DurationMinutes: 30,
				Status: domain.StatusScheduled, PaymentStatus: domain.PaymentPending,
				ServiceName: "Corte", Price: 50,
			},
		}},
		clients: &fakeClients{visits: map[int64]time.Time{}},
		employees: &fakeEmployees{items: map[int64]*domain.Employee{
			1: {ID: 1, Name: "Pedro", Role: domain.RoleBarber, WorkingHours: weekdays("09:00", "18:00")},
		}},
		tx:       &fakeTxManager{},
		notifier: &recordingNotifier{},
		reports:  &countingInvalidator{},
	}
	f.svc = NewService(f.appointments, f.clients, f.employees, engine, f.tx, f.notifier, f.reports, validation.New(), nopLogger{})
	f.svc.timeProvider = fixedTime{now: now}
	return f
}

func TestGetByID(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-11", resp.Date)
	assert.Equal(t, "10:00", resp.StartTime)
	assert.Equal(t, time.Date(2024, 3, 11, 10, 30, 0, 0, brt), resp.EndAt)

	_, err = f.svc.GetByID(context.Background(), 2)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestList_DateFilterUsesLocalDay(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.List(context.Background(), &models.ListAppointmentsRequest{
		Date:       "2024-03-11",
		EmployeeID: ptr.Ptr(int64(1)),
		Status:     ptr.Ptr("scheduled"),
		Search:     "  silva ",
	})

	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 1)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, brt), *f.appointments.filter.From)
	assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, brt), *f.appointments.filter.To)
	assert.Equal(t, domain.StatusScheduled, *f.appointments.filter.Status)
	assert.Equal(t, "silva", f.appointments.filter.Search)
}

func TestList_InvalidInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.List(context.Background(), &models.ListAppointmentsRequest{Date: "11/03/2024"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.List(context.Background(), &models.ListAppointmentsRequest{Status: ptr.Ptr("pending")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatus_CompletedUpdatesLastVisit(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "completed"})

	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, time.Date(2024, 3, 11, 10, 0, 0, 0, brt), f.clients.visits[5])
	assert.Equal(t, 1, f.tx.calls)
	assert.Equal(t, []notifier.EventType{notifier.EventAppointmentStatusChanged}, f.notifier.events)
	assert.Equal(t, 1, f.reports.calls)
}

func TestUpdateStatus_NoShowDoesNotTouchClient(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "no_show"})

	require.NoError(t, err)
	assert.Empty(t, f.clients.visits)
}

func TestUpdateStatus_CancelledIsTerminal(t *testing.T) {
	f := newFixture(t)
	f.appointments.items[1].Status = domain.StatusCancelled

	_, err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "scheduled"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Zero(t, f.tx.calls)
}

func TestUpdateStatus_ReactivationConflict(t *testing.T) {
	f := newFixture(t)
	f.appointments.items[1].Status = domain.StatusNoShow
	f.appointments.statusErr = appointmentRepo.ErrSlotConflict

	_, err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "scheduled"})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Empty(t, f.notifier.events)
}

func TestUpdateStatus_ReactivationRechecksSlot(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(f *fixture)
		wantErr error
	}{
		{name: "slot still free"},
		{
			name: "outside working hours",
			prepare: func(f *fixture) {
				f.employees.items[1].WorkingHours = weekdays("11:00", "18:00")
			},
			wantErr: ErrSlotNotAvailable,
		},
		{
			name: "barber does not work that day",
			prepare: func(f *fixture) {
				f.employees.items[1].WorkingHours = domain.WeeklySchedule{}
			},
			wantErr: ErrSlotNotAvailable,
		},
		{
			name: "taken by another appointment",
			prepare: func(f *fixture) {
				f.appointments.items[2] = &domain.Appointment{
					ID: 2, ClientID: 6, EmployeeID: 1, ServiceID: 10,
					StartAt: time.Date(2024, 3, 11, 10, 15, 0, 0, brt), DurationMinutes: 30,
					Status: domain.StatusScheduled,
				}
			},
			wantErr: ErrSlotNotAvailable,
		},
		{
			name: "unknown barber",
			prepare: func(f *fixture) {
				delete(f.employees.items, 1)
			},
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.appointments.items[1].Status = domain.StatusNoShow
			if tt.prepare != nil {
				tt.prepare(f)
			}

			resp, err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "scheduled"})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, domain.StatusNoShow, f.appointments.items[1].Status)
				assert.Empty(t, f.notifier.events)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "scheduled", resp.Status)
			require.NotNil(t, f.appointments.filter.EmployeeID)
			assert.Equal(t, int64(1), *f.appointments.filter.EmployeeID)
			assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, brt), *f.appointments.filter.From)
		})
	}
}

func TestUpdateStatus_ActiveAppointmentSkipsSlotCheck(t *testing.T) {
	f := newFixture(t)
	delete(f.employees.items, 1)

	_, err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "completed"})

	require.NoError(t, err)
	assert.Nil(t, f.appointments.filter.EmployeeID)
}

func TestUpdateStatus_ClientUpdateFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	f.clients.err = errors.New("db down")

	_, err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "completed"})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestUpdateStatus_ToCancelledCancels(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "cancelled"})

	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	require.NotNil(t, resp.CancelledAt)
	assert.Equal(t, []notifier.EventType{notifier.EventAppointmentCancelled}, f.notifier.events)
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "done"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancel(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Cancel(context.Background(), 1, &models.CancelRequest{Reason: ptr.Ptr("  cliente desmarcou ")})

	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "cliente desmarcou", *resp.CancellationReason)
	assert.Equal(t, now.Format(time.RFC3339), *resp.CancelledAt)

	_, err = f.svc.Cancel(context.Background(), 1, &models.CancelRequest{})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestUpdatePayment(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.UpdatePayment(context.Background(), 1, &models.UpdatePaymentRequest{PaymentStatus: "paid"})
	require.NoError(t, err)
	assert.Equal(t, "paid", resp.PaymentStatus)
	assert.Equal(t, 1, f.reports.calls)

	_, err = f.svc.UpdatePayment(context.Background(), 1, &models.UpdatePaymentRequest{PaymentStatus: "refunded"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.UpdatePayment(context.Background(), 9, &models.UpdatePaymentRequest{PaymentStatus: "paid"})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.svc.Delete(context.Background(), 1))
	assert.ErrorIs(t, f.svc.Delete(context.Background(), 1), ErrAppointmentNotFound)
	assert.Equal(t, 1, f.reports.calls)
}
