package model

import (
	"mawgifi/internal/domains/availability"
	"mawgifi/shared/model"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID         = "id"
	FieldVehicleID  = "vehicle_id"
	FieldSpaceID    = "space_id"
	FieldStartTime  = "start_time"
	FieldEndTime    = "end_time"
	FieldStatus     = "status"
	FieldCheckInAt  = "check_in_at"
	FieldCheckOutAt = "check_out_at"
	FieldQRPayload  = "qr_payload"
)

const (
	StatusPending   = "pending"
	StatusCheckedIn = "checked_in"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// ActiveStatuses are the statuses that participate in conflict detection.
// Completed and cancelled bookings never conflict.
var ActiveStatuses = []string{StatusPending, StatusCheckedIn}

// transitions is the forward-only status machine. Nothing leaves
// completed or cancelled.
var transitions = map[string][]string{
	StatusPending:   {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether the status machine permits moving from one
// status to another.
func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}

	return false
}

type Booking struct {
	ID         string     `db:"id"`
	VehicleID  string     `db:"vehicle_id"`
	SpaceID    string     `db:"space_id"`
	StartTime  time.Time  `db:"start_time"`
	EndTime    time.Time  `db:"end_time"`
	Status     string     `db:"status"`
	CheckInAt  *time.Time `db:"check_in_at"`
	CheckOutAt *time.Time `db:"check_out_at"`
	QRPayload  string     `db:"qr_payload"`
	model.Metadata
}

// Interval returns the booking's half-open time window.
func (b *Booking) Interval() availability.Interval {
	return availability.Interval{Start: b.StartTime, End: b.EndTime}
}

// Started reports whether the booking's start lies at or before now.
func (b *Booking) Started(now time.Time) bool {
	return !b.StartTime.After(now)
}

// ActiveAt reports whether the booking's interval contains now.
func (b *Booking) ActiveAt(now time.Time) bool {
	return b.Interval().Contains(now)
}
