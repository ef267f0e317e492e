// Package availability decides whether a parking space is bookable for a
// requested interval. It is pure: callers load the relevant records and
// events, this package only computes.
package availability

import "time"

type Reason string

const (
	ReasonAreaNotFound           Reason = "AREA_NOT_FOUND"
	ReasonAreaClosedManual       Reason = "AREA_CLOSED_MANUAL"
	ReasonAreaClosedEvent        Reason = "AREA_CLOSED_EVENT"
	ReasonSpaceNotFound          Reason = "SPACE_NOT_FOUND"
	ReasonSpaceStatusUnavailable Reason = "SPACE_STATUS_UNAVAILABLE"
)

const (
	AreaStatusAvailable        = "available"
	AreaStatusOccupied         = "occupied"
	AreaStatusTemporarilyClose = "temporarily_closed"
	AreaStatusUnderMaintenance = "under_maintenance"

	SpaceStatusAvailable   = "available"
	SpaceStatusOccupied    = "occupied"
	SpaceStatusReserved    = "reserved"
	SpaceStatusMaintenance = "maintenance"
)

// Interval is half-open: [Start, End). A booking ending at T never touches
// one starting at T.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals share any instant.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains reports whether the instant falls inside the half-open interval.
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// SpaceState is the slice of a space record the model needs.
type SpaceState struct {
	Exists bool
	AreaID string
	Status string
}

// AreaState is the slice of an area record the model needs.
type AreaState struct {
	Exists bool
	Status string
}

// EventWindow is an administrative event closing its target area for
// [Start, Start+Duration).
type EventWindow struct {
	AreaID   string
	Start    time.Time
	Duration time.Duration
}

func (e EventWindow) Interval() Interval {
	return Interval{Start: e.Start, End: e.Start.Add(e.Duration)}
}

// ActiveAt reports whether the event window contains the given instant.
func (e EventWindow) ActiveAt(now time.Time) bool {
	return e.Interval().Contains(now)
}

// Decision is the outcome of an availability check. Reason is set only when
// Open is false.
type Decision struct {
	Open   bool
	Reason Reason
}

// Check evaluates the two independent gates, space first: the space must
// exist with status available, and its area must exist and not be closed.
// A closed area is attributed to an event when any of the given events
// targets it and overlaps the requested interval, otherwise to a manual
// admin setting.
func Check(space SpaceState, area AreaState, events []EventWindow, requested Interval) Decision {
	if !space.Exists {
		return Decision{Reason: ReasonSpaceNotFound}
	}

	if space.Status != SpaceStatusAvailable {
		return Decision{Reason: ReasonSpaceStatusUnavailable}
	}

	if !area.Exists {
		return Decision{Reason: ReasonAreaNotFound}
	}

	switch area.Status {
	case AreaStatusOccupied, AreaStatusTemporarilyClose, AreaStatusUnderMaintenance:
		for _, event := range events {
			if event.AreaID == space.AreaID && event.Interval().Overlaps(requested) {
				return Decision{Reason: ReasonAreaClosedEvent}
			}
		}

		return Decision{Reason: ReasonAreaClosedManual}
	}

	return Decision{Open: true}
}

// ClosedAreaIDs returns the set of area ids that have at least one event
// active at the given instant. Events are the source of truth for
// closed-due-to-event; area status is a cache derived from this set.
func ClosedAreaIDs(events []EventWindow, now time.Time) map[string]struct{} {
	closed := map[string]struct{}{}

	for _, event := range events {
		if event.AreaID == "" {
			continue
		}

		if event.ActiveAt(now) {
			closed[event.AreaID] = struct{}{}
		}
	}

	return closed
}

// ReferencedAreaIDs returns every area id any event points at, active or not.
func ReferencedAreaIDs(events []EventWindow) map[string]struct{} {
	referenced := map[string]struct{}{}

	for _, event := range events {
		if event.AreaID == "" {
			continue
		}

		referenced[event.AreaID] = struct{}{}
	}

	return referenced
}
