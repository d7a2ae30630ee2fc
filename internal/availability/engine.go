package availability

import (
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

// Engine computes bookable slots. It holds only its policy and is safe for concurrent use.
type Engine struct {
	closed [7]bool
	loc    *time.Location
	step   int
}

// NewEngine creates an engine for the given policy
func NewEngine(policy Policy) (*Engine, error) {
	e := &Engine{
		loc:  policy.Location,
		step: policy.StepMinutes,
	}
	if e.loc == nil {
		e.loc = time.UTC
	}
	if e.step == 0 {
		e.step = DefaultStepMinutes
	}
	if e.step < 0 {
		return nil, fmt.Errorf("%w: step must be positive, got %d", ErrInvalidPolicy, policy.StepMinutes)
	}

	for _, day := range policy.ClosedWeekdays {
		if day < time.Sunday || day > time.Saturday {
			return nil, fmt.Errorf("%w: unknown weekday %d", ErrInvalidPolicy, day)
		}
		e.closed[day] = true
	}

	return e, nil
}

// Location returns the timezone used for comparisons
func (e *Engine) Location() *time.Location {
	return e.loc
}

// StepMinutes returns the spacing between generated slots
func (e *Engine) StepMinutes() int {
	return e.step
}

// DayBounds returns [start, end) of the calendar day containing date, in the engine location
func (e *Engine) DayBounds(date time.Time) (time.Time, time.Time) {
	y, m, d := date.In(e.loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, e.loc)
	return start, start.AddDate(0, 0, 1)
}

// IsClosed reports whether the shop is closed on the weekday of t
func (e *Engine) IsClosed(t time.Time) bool {
	return e.closed[t.In(e.loc).Weekday()]
}

// IsSlotAvailable checks whether [candidate, candidate+duration) fits into the working hours
// and does not overlap any existing appointment of the same calendar date.
// candidate must be minute-aligned, otherwise a *ValidationError is returned.
// An existing appointment starting mid-minute occupies every minute it touches.
func (e *Engine) IsSlotAvailable(candidate time.Time, durationMinutes int, existing []ExistingAppointment, wh *domain.WorkingHours) (bool, error) {
	if err := validate(durationMinutes, wh, existing); err != nil {
		return false, err
	}
	candidate = candidate.In(e.loc)
	if !minuteAligned(candidate) {
		return false, &ValidationError{Field: "candidate", Reason: fmt.Sprintf("must be minute-aligned, got %s", candidate.Format(time.RFC3339Nano))}
	}
	return e.isAvailable(candidate, durationMinutes, existing, wh), nil
}

// GenerateSlots returns the available start times for the given date in increasing order.
// Input errors are returned before iteration. The sequence can be ranged over more than once
// and is not affected by later changes to existing.
func (e *Engine) GenerateSlots(date time.Time, wh *domain.WorkingHours, existing []ExistingAppointment, durationMinutes int) (iter.Seq[time.Time], error) {
	if err := validate(durationMinutes, wh, existing); err != nil {
		return nil, err
	}

	snapshot := slices.Clone(existing)
	var hours *domain.WorkingHours
	if wh != nil {
		hours = &domain.WorkingHours{Start: wh.Start, End: wh.End}
	}

	return func(yield func(time.Time) bool) {
		if hours == nil {
			return
		}

		y, m, d := date.In(e.loc).Date()
		var last time.Time
		for minute := hours.Start.Minutes(); minute+durationMinutes <= hours.End.Minutes(); minute += e.step {
			slot := time.Date(y, m, d, minute/60, minute%60, 0, 0, e.loc)
			if !last.IsZero() && !slot.After(last) {
				continue
			}
			if !e.isAvailable(slot, durationMinutes, snapshot, hours) {
				continue
			}
			last = slot
			if !yield(slot) {
				return
			}
		}
	}, nil
}

// Slots is GenerateSlots collected into a slice
func (e *Engine) Slots(date time.Time, wh *domain.WorkingHours, existing []ExistingAppointment, durationMinutes int) ([]time.Time, error) {
	seq, err := e.GenerateSlots(date, wh, existing, durationMinutes)
	if err != nil {
		return nil, err
	}
	return slices.Collect(seq), nil
}

// candidate must already be in e.loc
func (e *Engine) isAvailable(candidate time.Time, durationMinutes int, existing []ExistingAppointment, wh *domain.WorkingHours) bool {
	if wh == nil {
		return false
	}
	if e.closed[candidate.Weekday()] {
		return false
	}

	slot := Interval{Start: minutesOfDay(candidate)}
	slot.End = slot.Start + durationMinutes
	if slot.Start < wh.Start.Minutes() || slot.End > wh.End.Minutes() {
		return false
	}

	for _, appt := range existing {
		start := appt.Start.In(e.loc)
		if !sameDate(start, candidate) {
			continue
		}
		busy := Interval{Start: minutesOfDay(start)}
		busy.End = busy.Start + appt.DurationMinutes
		if !minuteAligned(start) {
			busy.End++
		}
		if slot.Overlaps(busy) {
			return false
		}
	}

	return true
}

func validate(durationMinutes int, wh *domain.WorkingHours, existing []ExistingAppointment) error {
	if durationMinutes <= 0 {
		return &ValidationError{Field: "durationMinutes", Reason: fmt.Sprintf("must be positive, got %d", durationMinutes)}
	}

	if wh != nil {
		if err := wh.Start.Validate(); err != nil {
			return &ValidationError{Field: "workingHours.start", Reason: err.Error()}
		}
		if err := wh.End.Validate(); err != nil {
			return &ValidationError{Field: "workingHours.end", Reason: err.Error()}
		}
		if wh.Start.Minutes() >= wh.End.Minutes() {
			return &ValidationError{Field: "workingHours", Reason: fmt.Sprintf("start %s is not before end %s", wh.Start, wh.End)}
		}
	}

	for i, appt := range existing {
		if appt.DurationMinutes <= 0 {
			return &ValidationError{
				Field:  fmt.Sprintf("existing[%d].durationMinutes", i),
				Reason: fmt.Sprintf("must be positive, got %d", appt.DurationMinutes),
			}
		}
	}

	return nil
}

// minutesOfDay отбрасывает секунды
func minutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func minuteAligned(t time.Time) bool {
	return t.Second() == 0 && t.Nanosecond() == 0
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
