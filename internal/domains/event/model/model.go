package model

import (
	"mawgifi/internal/domains/availability"
	"mawgifi/shared/model"
	"time"
)

const (
	TableName  = "events"
	EntityName = "event"

	FieldID              = "id"
	FieldName            = "name"
	FieldType            = "type"
	FieldAreaID          = "area_id"
	FieldStartTime       = "start_time"
	FieldDurationMinutes = "duration_minutes"
	FieldReport          = "report"
)

type Event struct {
	ID              string    `db:"id"`
	Name            string    `db:"name"`
	Type            string    `db:"type"`
	AreaID          *string   `db:"area_id"`
	StartTime       time.Time `db:"start_time"`
	DurationMinutes int       `db:"duration_minutes"`
	Report          string    `db:"report"`
	model.Metadata
}

// Window converts the event row into the availability model's pure form.
// Events without a target area produce a window with an empty AreaID,
// which the model ignores.
func (e *Event) Window() availability.EventWindow {
	areaID := ""
	if e.AreaID != nil {
		areaID = *e.AreaID
	}

	return availability.EventWindow{
		AreaID:   areaID,
		Start:    e.StartTime,
		Duration: time.Duration(e.DurationMinutes) * time.Minute,
	}
}

// Windows maps a slice of event rows to availability windows.
func Windows(events []Event) []availability.EventWindow {
	windows := make([]availability.EventWindow, len(events))
	for i, event := range events {
		windows[i] = event.Window()
	}

	return windows
}
