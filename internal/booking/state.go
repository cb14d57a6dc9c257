package booking

import (
	"fmt"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

// State is a query-time view over bookings. It is distinct from Status.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

var states = []State{StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected}

// ParseState matches s exactly against the known state names.
func ParseState(s string) (State, error) {
	for _, st := range states {
		if string(st) == s {
			return st, nil
		}
	}
	return "", apperror.InvalidArgument(fmt.Sprintf("Unknown state: %s", s))
}

// Matches reports whether b belongs to the state at instant now.
//
// Bookings occupy the half-open interval [start, end):
//
//	FUTURE   now < start
//	CURRENT  start <= now < end
//	PAST     end <= now
//
// so every booking falls in exactly one of the three for a given now.
// WAITING and REJECTED look at the status only.
func (s State) Matches(b *Booking, now time.Time) bool {
	switch s {
	case StateAll:
		return true
	case StateCurrent:
		return !b.StartTime.After(now) && now.Before(b.EndTime)
	case StatePast:
		return !now.Before(b.EndTime)
	case StateFuture:
		return b.StartTime.After(now)
	case StateWaiting:
		return b.Status == StatusWaiting
	case StateRejected:
		return b.Status == StatusRejected
	default:
		return false
	}
}

// Classify returns the time bucket (CURRENT, PAST or FUTURE) of b at now.
func Classify(b *Booking, now time.Time) State {
	switch {
	case b.StartTime.After(now):
		return StateFuture
	case now.Before(b.EndTime):
		return StateCurrent
	default:
		return StatePast
	}
}
