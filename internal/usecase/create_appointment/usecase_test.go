package create_appointment

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
	catalogRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/catalog"
	clientRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/client"
	employeeRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/employee"
	"github.com/m04kA/SMC-BarberShop/internal/integrations/notifier"
	"github.com/m04kA/SMC-BarberShop/pkg/ptr"
	"github.com/m04kA/SMC-BarberShop/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeAppointments struct {
	existing  []*domain.Appointment
	getErr    error
	createErr error
	created   []*domain.Appointment
	filter    domain.AppointmentsFilter
	inTx      bool
}

func (f *fakeAppointments) GetByFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	f.filter = filter
	f.inTx = ctx.Value(txKey{}) != nil
	return f.existing, f.getErr
}

func (f *fakeAppointments) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	stored := *a
	stored.ID = int64(len(f.created) + 1)
	f.created = append(f.created, &stored)
	return &stored, nil
}

type fakeClients map[int64]*domain.Client

func (f fakeClients) GetByID(_ context.Context, id int64) (*domain.Client, error) {
	if c, ok := f[id]; ok {
		return c, nil
	}
	return nil, clientRepo.ErrClientNotFound
}

type fakeEmployees map[int64]*domain.Employee

func (f fakeEmployees) GetByID(_ context.Context, id int64) (*domain.Employee, error) {
	if e, ok := f[id]; ok {
		return e, nil
	}
	return nil, employeeRepo.ErrEmployeeNotFound
}

type fakeServices map[int64]*domain.Service

func (f fakeServices) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	if s, ok := f[id]; ok {
		return s, nil
	}
	return nil, catalogRepo.ErrServiceNotFound
}

type txKey struct{}

type fakeTxManager struct{ calls int }

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(context.WithValue(ctx, txKey{}, true))
}

type recordingNotifier struct{ events []notifier.EventType }

func (n *recordingNotifier) NotifyWithGracefulDegradation(_ context.Context, event notifier.EventType, _ *domain.Appointment) {
	n.events = append(n.events, event)
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(context.Context) { c.calls++ }

type countingMetrics struct{ created, conflicts int }

func (m *countingMetrics) IncAppointmentsCreated() { m.created++ }
func (m *countingMetrics) IncBookingConflicts()    { m.conflicts++ }

var brt = time.FixedZone("BRT", -3*60*60)

func barber() *domain.Employee {
	var schedule domain.WeeklySchedule
	for day := time.Monday; day <= time.Saturday; day++ {
		schedule[day] = &domain.WorkingHours{Start: "09:00", End: "18:00"}
	}
	return &domain.Employee{ID: 1, Name: "Pedro", Role: domain.RoleBarber, WorkingHours: schedule}
}

type fixture struct {
	uc           *UseCase
	appointments *fakeAppointments
	tx           *fakeTxManager
	notifier     *recordingNotifier
	reports      *countingInvalidator
	metrics      *countingMetrics
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	engine, err := availability.NewEngine(availability.Policy{
		ClosedWeekdays: []time.Weekday{time.Sunday},
		Location:       brt,
	})
	require.NoError(t, err)

	f := &fixture{
		appointments: &fakeAppointments{},
		tx:           &fakeTxManager{},
		notifier:     &recordingNotifier{},
		reports:      &countingInvalidator{},
		metrics:      &countingMetrics{},
	}
	f.uc = NewUseCase(
		f.appointments,
		fakeClients{5: {ID: 5, Name: "Ana"}},
		fakeEmployees{
			1: barber(),
			2: {ID: 2, Name: "Admin", Role: domain.RoleAdmin},
		},
		fakeServices{
			10: {ID: 10, Name: "Corte", DurationMinutes: 30, Price: 50},
			11: {
				ID: 11, Name: "Corte + barba", DurationMinutes: 60, Price: 80,
				Promotion: &domain.Promotion{IsActive: true, DiscountedPrice: 65},
			},
		},
		engine,
		f.tx,
		f.notifier,
		f.reports,
		Settings{MinBookingNoticeMinutes: 30, AdvanceBookingDays: 30},
		f.metrics,
		nopLogger{},
	)
	f.uc.timeProvider = fixedTime{now: now}
	return f
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validRequest() *Request {
	return &Request{
		ClientID:   5,
		EmployeeID: 1,
		ServiceID:  10,
		Date:       date(2024, 3, 11),
		StartTime:  types.TimeString("10:00"),
		Notes:      ptr.Ptr("degradê"),
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(t, time.Date(2024, 3, 10, 12, 0, 0, 0, brt))

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, time.Date(2024, 3, 11, 10, 0, 0, 0, brt), resp.StartAt)
	assert.Equal(t, 30, resp.DurationMinutes)
	assert.Equal(t, string(domain.StatusScheduled), resp.Status)
	assert.Equal(t, string(domain.PaymentPending), resp.PaymentStatus)
	assert.Equal(t, "Corte", resp.ServiceName)
	assert.Equal(t, 50.0, resp.Price)
	require.NotNil(t, resp.Notes)
	assert.Equal(t, "degradê", *resp.Notes)

	assert.Equal(t, 1, f.tx.calls)
	assert.True(t, f.appointments.inTx)
	require.NotNil(t, f.appointments.filter.EmployeeID)
	assert.Equal(t, int64(1), *f.appointments.filter.EmployeeID)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, brt), *f.appointments.filter.From)
	assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, brt), *f.appointments.filter.To)

	assert.Equal(t, 1, f.metrics.created)
	assert.Equal(t, []notifier.EventType{notifier.EventAppointmentCreated}, f.notifier.events)
	assert.Equal(t, 1, f.reports.calls)
}

func TestExecute_UsesPromotionalPrice(t *testing.T) {
	f := newFixture(t, time.Date(2024, 3, 10, 12, 0, 0, 0, brt))
	req := validRequest()
	req.ServiceID = 11

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 65.0, resp.Price)
	assert.Equal(t, 60, resp.DurationMinutes)
}

func TestExecute_SlotTaken(t *testing.T) {
	f := newFixture(t, time.Date(2024, 3, 10, 12, 0, 0, 0, brt))
	f.appointments.existing = []*domain.Appointment{
		{StartAt: time.Date(2024, 3, 11, 9, 30, 0, 0, brt), DurationMinutes: 60, Status: domain.StatusScheduled},
	}

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Empty(t, f.appointments.created)
	assert.Equal(t, 1, f.metrics.conflicts)
	assert.Empty(t, f.notifier.events)
	assert.Zero(t, f.reports.calls)
}

func TestExecute_CancelledAppointmentDoesNotBlock(t *testing.T) {
	f := newFixture(t, time.Date(2024, 3, 10, 12, 0, 0, 0, brt))
	f.appointments.existing = []*domain.Appointment{
		{StartAt: time.Date(2024, 3, 11, 10, 0, 0, 0, brt), DurationMinutes: 30, Status: domain.StatusCancelled},
	}

	_, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
}

func TestExecute_StoreConflict(t *testing.T) {
	f := newFixture(t, time.Date(2024, 3, 10, 12, 0, 0, 0, brt))
	f.appointments.createErr = appointmentRepo.ErrSlotConflict

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Equal(t, 1, f.metrics.conflicts)
	assert.Zero(t, f.metrics.created)
}

func TestExecute_OutsideWorkingHours(t *testing.T) {
	tests := []struct {
		name  string
		date  time.Time
		start types.TimeString
	}{
		{name: "before opening", date: date(2024, 3, 11), start: "08:30"},
		{name: "ends after closing", date: date(2024, 3, 11), start: "17:45"},
		{name: "closed weekday", date: date(2024, 3, 17), start: "10:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, time.Date(2024, 3, 10, 12, 0, 0, 0, brt))
			req := validRequest()
			req.Date = tt.date
			req.StartTime = tt.start

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrSlotNotAvailable)
		})
	}
}

func TestExecute_Errors(t *testing.T) {
	now := time.Date(2024, 3, 11, 9, 45, 0, 0, brt)

	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr error
	}{
		{name: "missing client", mutate: func(r *Request) { r.ClientID = 0 }, wantErr: ErrInvalidInput},
		{name: "bad start time", mutate: func(r *Request) { r.StartTime = "25:00" }, wantErr: ErrInvalidInput},
		{name: "missing date", mutate: func(r *Request) { r.Date = time.Time{} }, wantErr: ErrInvalidInput},
		{name: "past date", mutate: func(r *Request) { r.Date = date(2024, 3, 10) }, wantErr: ErrInvalidDate},
		{name: "too far", mutate: func(r *Request) { r.Date = date(2024, 4, 15) }, wantErr: ErrDateTooFarInFuture},
		{name: "within notice", mutate: func(r *Request) { r.StartTime = "10:00" }, wantErr: ErrTooLateToBook},
		{name: "unknown client", mutate: func(r *Request) { r.StartTime = "11:00"; r.ClientID = 99 }, wantErr: ErrClientNotFound},
		{name: "unknown employee", mutate: func(r *Request) { r.StartTime = "11:00"; r.EmployeeID = 99 }, wantErr: ErrEmployeeNotFound},
		{name: "admin", mutate: func(r *Request) { r.StartTime = "11:00"; r.EmployeeID = 2 }, wantErr: ErrEmployeeNotBarber},
		{name: "unknown service", mutate: func(r *Request) { r.StartTime = "11:00"; r.ServiceID = 99 }, wantErr: ErrServiceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, now)
			req := validRequest()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, f.tx.calls)
		})
	}
}

func TestExecute_RepositoryFailure(t *testing.T) {
	f := newFixture(t, time.Date(2024, 3, 10, 12, 0, 0, 0, brt))
	f.appointments.getErr = errors.New("connection refused")

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrInternal)
	assert.Zero(t, f.metrics.conflicts)
}
