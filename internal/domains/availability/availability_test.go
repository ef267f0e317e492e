package availability_test

import (
	"mawgifi/internal/domains/availability"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 6, 10, hour, minute, 0, 0, time.UTC)
}

func TestIntervalOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    availability.Interval
		b    availability.Interval
		want bool
	}{
		{
			name: "fully overlapping",
			a:    availability.Interval{Start: at(9, 0), End: at(11, 0)},
			b:    availability.Interval{Start: at(9, 0), End: at(11, 0)},
			want: true,
		},
		{
			name: "partial overlap",
			a:    availability.Interval{Start: at(9, 0), End: at(11, 0)},
			b:    availability.Interval{Start: at(10, 0), End: at(12, 0)},
			want: true,
		},
		{
			name: "contained",
			a:    availability.Interval{Start: at(9, 0), End: at(12, 0)},
			b:    availability.Interval{Start: at(10, 0), End: at(11, 0)},
			want: true,
		},
		{
			name: "touching boundary is not a conflict",
			a:    availability.Interval{Start: at(9, 0), End: at(11, 0)},
			b:    availability.Interval{Start: at(11, 0), End: at(13, 0)},
			want: false,
		},
		{
			name: "disjoint",
			a:    availability.Interval{Start: at(9, 0), End: at(10, 0)},
			b:    availability.Interval{Start: at(12, 0), End: at(13, 0)},
			want: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, test.a.Overlaps(test.b))
			assert.Equal(t, test.want, test.b.Overlaps(test.a))
		})
	}
}

func TestCheck(t *testing.T) {
	requested := availability.Interval{Start: at(9, 0), End: at(11, 0)}

	openSpace := availability.SpaceState{Exists: true, AreaID: "area-1", Status: availability.SpaceStatusAvailable}
	openArea := availability.AreaState{Exists: true, Status: availability.AreaStatusAvailable}

	tests := []struct {
		name   string
		space  availability.SpaceState
		area   availability.AreaState
		events []availability.EventWindow
		want   availability.Decision
	}{
		{
			name:  "open space in open area",
			space: openSpace,
			area:  openArea,
			want:  availability.Decision{Open: true},
		},
		{
			name:  "space does not exist",
			space: availability.SpaceState{},
			area:  openArea,
			want:  availability.Decision{Reason: availability.ReasonSpaceNotFound},
		},
		{
			name:  "space under maintenance",
			space: availability.SpaceState{Exists: true, AreaID: "area-1", Status: availability.SpaceStatusMaintenance},
			area:  openArea,
			want:  availability.Decision{Reason: availability.ReasonSpaceStatusUnavailable},
		},
		{
			name:  "area does not exist",
			space: openSpace,
			area:  availability.AreaState{},
			want:  availability.Decision{Reason: availability.ReasonAreaNotFound},
		},
		{
			name:  "area closed by admin",
			space: openSpace,
			area:  availability.AreaState{Exists: true, Status: availability.AreaStatusUnderMaintenance},
			want:  availability.Decision{Reason: availability.ReasonAreaClosedManual},
		},
		{
			name:  "area closed by overlapping event",
			space: openSpace,
			area:  availability.AreaState{Exists: true, Status: availability.AreaStatusTemporarilyClose},
			events: []availability.EventWindow{
				{AreaID: "area-1", Start: at(8, 0), Duration: 4 * time.Hour},
			},
			want: availability.Decision{Reason: availability.ReasonAreaClosedEvent},
		},
		{
			name:  "closed area with event on another area counts as manual",
			space: openSpace,
			area:  availability.AreaState{Exists: true, Status: availability.AreaStatusTemporarilyClose},
			events: []availability.EventWindow{
				{AreaID: "area-2", Start: at(8, 0), Duration: 4 * time.Hour},
			},
			want: availability.Decision{Reason: availability.ReasonAreaClosedManual},
		},
		{
			name:  "closed area with non-overlapping event counts as manual",
			space: openSpace,
			area:  availability.AreaState{Exists: true, Status: availability.AreaStatusTemporarilyClose},
			events: []availability.EventWindow{
				{AreaID: "area-1", Start: at(12, 0), Duration: time.Hour},
			},
			want: availability.Decision{Reason: availability.ReasonAreaClosedManual},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := availability.Check(test.space, test.area, test.events, requested)

			assert.Equal(t, test.want, got)
		})
	}
}

func TestCheckDuringAndAfterEventWindow(t *testing.T) {
	// Event closes area-1 from 09:00 to 11:00.
	event := availability.EventWindow{AreaID: "area-1", Start: at(9, 0), Duration: 2 * time.Hour}
	space := availability.SpaceState{Exists: true, AreaID: "area-1", Status: availability.SpaceStatusAvailable}

	// At 09:30 the recompute has flagged the area temporarily_closed.
	during := availability.Check(
		space,
		availability.AreaState{Exists: true, Status: availability.AreaStatusTemporarilyClose},
		[]availability.EventWindow{event},
		availability.Interval{Start: at(9, 30), End: at(10, 0)},
	)
	assert.False(t, during.Open)
	assert.Equal(t, availability.ReasonAreaClosedEvent, during.Reason)

	// At 11:30 the recompute has reset the area to available.
	after := availability.Check(
		space,
		availability.AreaState{Exists: true, Status: availability.AreaStatusAvailable},
		[]availability.EventWindow{event},
		availability.Interval{Start: at(11, 30), End: at(12, 0)},
	)
	assert.True(t, after.Open)
}

func TestClosedAreaIDs(t *testing.T) {
	events := []availability.EventWindow{
		{AreaID: "area-1", Start: at(9, 0), Duration: 2 * time.Hour},
		{AreaID: "area-2", Start: at(14, 0), Duration: time.Hour},
		{AreaID: "", Start: at(9, 0), Duration: 2 * time.Hour},
	}

	closed := availability.ClosedAreaIDs(events, at(9, 30))

	assert.Len(t, closed, 1)
	assert.Contains(t, closed, "area-1")

	// Window end is exclusive.
	closed = availability.ClosedAreaIDs(events, at(11, 0))
	assert.Empty(t, closed)
}

func TestReferencedAreaIDs(t *testing.T) {
	events := []availability.EventWindow{
		{AreaID: "area-1", Start: at(9, 0), Duration: 2 * time.Hour},
		{AreaID: "area-1", Start: at(13, 0), Duration: time.Hour},
		{AreaID: "area-2", Start: at(14, 0), Duration: time.Hour},
		{AreaID: "", Start: at(9, 0), Duration: time.Hour},
	}

	referenced := availability.ReferencedAreaIDs(events)

	assert.Len(t, referenced, 2)
	assert.Contains(t, referenced, "area-1")
	assert.Contains(t, referenced, "area-2")
}
