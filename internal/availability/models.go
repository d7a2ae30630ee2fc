package availability

import (
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

// ExistingAppointment is the part of a booked appointment the engine needs
type ExistingAppointment struct {
	Start           time.Time
	DurationMinutes int
}

// Policy holds the shop-wide scheduling rules
type Policy struct {
	// ClosedWeekdays are days on which nothing can be booked regardless of working hours
	ClosedWeekdays []time.Weekday
	// Location is used for every time-of-day and calendar-date comparison. nil means UTC.
	Location *time.Location
	// StepMinutes is the spacing between generated slots. 0 means DefaultStepMinutes.
	StepMinutes int
}

// DefaultStepMinutes spacing between generated slots
const DefaultStepMinutes = 30

// Interval is a half-open [Start, End) range in minutes since midnight
type Interval struct {
	Start int
	End   int
}

// Overlaps reports whether two half-open intervals intersect.
// Touching endpoints do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && i.End > other.Start
}

// FromAppointments converts stored appointments, skipping those that no longer occupy time
func FromAppointments(appointments []*domain.Appointment) []ExistingAppointment {
	existing := make([]ExistingAppointment, 0, len(appointments))
	for _, a := range appointments {
		if a == nil || !a.IsActive() {
			continue
		}
		existing = append(existing, ExistingAppointment{Start: a.StartAt, DurationMinutes: a.DurationMinutes})
	}
	return existing
}
