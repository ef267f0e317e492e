package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mawgifi/internal/domains/booking/model"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{name: "pending to checked_in", from: model.StatusPending, to: model.StatusCheckedIn, want: true},
		{name: "pending to cancelled", from: model.StatusPending, to: model.StatusCancelled, want: true},
		{name: "checked_in to completed", from: model.StatusCheckedIn, to: model.StatusCompleted, want: true},
		{name: "checked_in to cancelled", from: model.StatusCheckedIn, to: model.StatusCancelled, want: true},
		{name: "pending to completed skips check-in", from: model.StatusPending, to: model.StatusCompleted, want: false},
		{name: "checked_in back to pending", from: model.StatusCheckedIn, to: model.StatusPending, want: false},
		{name: "completed to pending", from: model.StatusCompleted, to: model.StatusPending, want: false},
		{name: "completed to checked_in", from: model.StatusCompleted, to: model.StatusCheckedIn, want: false},
		{name: "completed to cancelled", from: model.StatusCompleted, to: model.StatusCancelled, want: false},
		{name: "cancelled to pending", from: model.StatusCancelled, to: model.StatusPending, want: false},
		{name: "cancelled to checked_in", from: model.StatusCancelled, to: model.StatusCheckedIn, want: false},
		{name: "cancelled to completed", from: model.StatusCancelled, to: model.StatusCompleted, want: false},
		{name: "unknown status", from: "unknown", to: model.StatusPending, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.CanTransition(tt.from, tt.to))
		})
	}
}

func TestBookingTiming(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	booking := model.Booking{StartTime: start, EndTime: end}

	assert.False(t, booking.Started(start.Add(-time.Minute)))
	assert.True(t, booking.Started(start))
	assert.True(t, booking.Started(start.Add(time.Minute)))

	assert.False(t, booking.ActiveAt(start.Add(-time.Minute)))
	assert.True(t, booking.ActiveAt(start))
	assert.True(t, booking.ActiveAt(end.Add(-time.Second)))
	// End is exclusive.
	assert.False(t, booking.ActiveAt(end))

	interval := booking.Interval()
	assert.Equal(t, start, interval.Start)
	assert.Equal(t, end, interval.End)
}
