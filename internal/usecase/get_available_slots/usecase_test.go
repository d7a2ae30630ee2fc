package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberShop/internal/availability"
	"github.com/m04kA/SMC-BarberShop/internal/domain"
	catalogRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/catalog"
	employeeRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/employee"
	"github.com/m04kA/SMC-BarberShop/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeAppointments struct {
	items  []*domain.Appointment
	err    error
	filter domain.AppointmentsFilter
}

func (f *fakeAppointments) GetByFilter(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	f.filter = filter
	return f.items, f.err
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

type countingMetrics struct{ observed []int }

func (m *countingMetrics) ObserveSlots(count int) { m.observed = append(m.observed, count) }

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
	metrics      *countingMetrics
}

// now: Monday 2024-03-11 08:00 local
func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	engine, err := availability.NewEngine(availability.Policy{
		ClosedWeekdays: []time.Weekday{time.Sunday},
		Location:       brt,
	})
	require.NoError(t, err)

	f := &fixture{appointments: &fakeAppointments{}, metrics: &countingMetrics{}}
	f.uc = NewUseCase(
		f.appointments,
		fakeEmployees{
			1: barber(),
			2: {ID: 2, Name: "Admin", Role: domain.RoleAdmin},
		},
		fakeServices{
			10: {ID: 10, Name: "Corte", DurationMinutes: 30, Price: 50},
			11: {ID: 11, Name: "Corte + barba", DurationMinutes: 60, Price: 80},
		},
		engine,
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

func TestExecute_FullDay(t *testing.T) {
	f := newFixture(t, time.Date(2024, 3, 10, 12, 0, 0, 0, brt))

	resp, err := f.uc.Execute(context.Background(), &Request{EmployeeID: 1, ServiceID: 10, Date: date(2024, 3, 11)})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 18)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("09:30"), resp.Slots[0].EndTime)
	assert.Equal(t, types.TimeString("17:30"), resp.Slots[17].StartTime)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, brt), resp.Date)
	assert.Equal(t, []int{18}, f.metrics.observed)

	require.NotNil(t, f.appointments.filter.From)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, brt), *f.appointments.filter.From)
	assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, brt), *f.appointments.filter.To)
	assert.False(t, f.appointments.filter.IncludeInactive)
}

func TestExecute_SkipsBookedAndCancelledDoNotBlock(t *testing.T) {
	f := newFixture(t, time.Date(2024, 3, 10, 12, 0, 0, 0, brt))
	f.appointments.items = []*domain.Appointment{
		{StartAt: time.Date(2024, 3, 11, 9, 0, 0, 0, brt), DurationMinutes: 60, Status: domain.StatusScheduled},
		{StartAt: time.Date(2024, 3, 11, 10, 0, 0, 0, brt), DurationMinutes: 30, Status: domain.StatusCancelled},
	}

	resp, err := f.uc.Execute(context.Background(), &Request{EmployeeID: 1, ServiceID: 10, Date: date(2024, 3, 11)})

	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, types.TimeString("10:00"), resp.Slots[0].StartTime)
	assert.Len(t, resp.Slots, 16)
}

func TestExecute_TodayRespectsMinNotice(t *testing.T) {
	f := newFixture(t, time.Date(2024, 3, 11, 14, 10, 0, 0, brt))

	resp, err := f.uc.Execute(context.Background(), &Request{EmployeeID: 1, ServiceID: 11, Date: date(2024, 3, 11)})

	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)
	// 14:10 + 30 min notice
	assert.Equal(t, types.TimeString("15:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("17:00"), resp.Slots[len(resp.Slots)-1].StartTime)
}

func TestExecute_ClosedDayIsEmpty(t *testing.T) {
	f := newFixture(t, time.Date(2024, 3, 9, 12, 0, 0, 0, brt))

	resp, err := f.uc.Execute(context.Background(), &Request{EmployeeID: 1, ServiceID: 10, Date: date(2024, 3, 10)})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_Errors(t *testing.T) {
	now := time.Date(2024, 3, 11, 8, 0, 0, 0, brt)

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{name: "missing employee id", req: &Request{ServiceID: 10, Date: date(2024, 3, 12)}, wantErr: ErrInvalidInput},
		{name: "missing date", req: &Request{EmployeeID: 1, ServiceID: 10}, wantErr: ErrInvalidInput},
		{name: "past date", req: &Request{EmployeeID: 1, ServiceID: 10, Date: date(2024, 3, 10)}, wantErr: ErrInvalidDate},
		{name: "too far", req: &Request{EmployeeID: 1, ServiceID: 10, Date: date(2024, 4, 11)}, wantErr: ErrDateTooFarInFuture},
		{name: "unknown employee", req: &Request{EmployeeID: 99, ServiceID: 10, Date: date(2024, 3, 12)}, wantErr: ErrEmployeeNotFound},
		{name: "admin", req: &Request{EmployeeID: 2, ServiceID: 10, Date: date(2024, 3, 12)}, wantErr: ErrEmployeeNotBarber},
		{name: "unknown service", req: &Request{EmployeeID: 1, ServiceID: 99, Date: date(2024, 3, 12)}, wantErr: ErrServiceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, now)
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_RepositoryFailure(t *testing.T) {
	f := newFixture(t, time.Date(2024, 3, 11, 8, 0, 0, 0, brt))
	f.appointments.err = errors.New("connection refused")

	_, err := f.uc.Execute(context.Background(), &Request{EmployeeID: 1, ServiceID: 10, Date: date(2024, 3, 12)})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestExecute_MalformedScheduleIsInvalidInput(t *testing.T) {
	f := newFixture(t, time.Date(2024, 3, 11, 8, 0, 0, 0, brt))
	broken := barber()
	broken.WorkingHours[time.Tuesday] = &domain.WorkingHours{Start: "18:00", End: "09:00"}
	f.uc.employeeRepo = fakeEmployees{1: broken}

	_, err := f.uc.Execute(context.Background(), &Request{EmployeeID: 1, ServiceID: 10, Date: date(2024, 3, 12)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
