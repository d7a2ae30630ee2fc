package domain

import (
	"time"

	"github.com/m04kA/SMC-BarberShop/pkg/types"
)

// EmployeeRole represents the role of an employee in the shop
type EmployeeRole string

const (
	RoleBarber EmployeeRole = "barber"
	RoleAdmin  EmployeeRole = "admin"
)

// IsValid reports whether r is a known role
func (r EmployeeRole) IsValid() bool {
	return r == RoleBarber || r == RoleAdmin
}

// WorkingHours is the daily window during which an employee accepts bookings
type WorkingHours struct {
	Start types.TimeString
	End   types.TimeString
}

// WeeklySchedule holds working hours per weekday, indexed by time.Weekday.
// A nil entry means a day off.
type WeeklySchedule [7]*WorkingHours

// For returns the working hours for the given weekday
func (s WeeklySchedule) For(day time.Weekday) *WorkingHours {
	if day < time.Sunday || day > time.Saturday {
		return nil
	}
	return s[day]
}

// Employee represents a barber or an administrator
type Employee struct {
	ID           int64
	Name         string
	Phone        string
	Email        string
	Role         EmployeeRole
	Specialties  []string
	WorkingHours WeeklySchedule

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBarber returns true if the employee serves clients
func (e *Employee) IsBarber() bool {
	return e.Role == RoleBarber
}
