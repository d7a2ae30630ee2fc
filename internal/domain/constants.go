package domain

import "time"

// Default configuration values
const (
	DefaultSlotStepMinutes         = 30
	DefaultAdvanceBookingDays      = 60
	DefaultMinBookingNoticeMinutes = 30
	DefaultClosedWeekday           = time.Sunday
	DefaultPhoneRegion             = "BR"
	DashboardUpcomingDays          = 7
)

// Business validation constants
const (
	MinServiceDurationMinutes   = 5
	MaxServiceDurationMinutes   = 480 // 8 hours
	MaxAdvanceBookingDays       = 365
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxNameLength               = 100
	MaxSearchLength             = 100
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы записей, занимающих время барбера
var ActiveStatuses = []AppointmentStatus{
	StatusScheduled,
	StatusCompleted,
}

// InactiveStatuses статусы записей, освобождающих слот
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
	StatusNoShow,
}
