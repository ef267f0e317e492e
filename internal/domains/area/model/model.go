package model

import "mawgifi/shared/model"

const (
	TableName  = "areas"
	EntityName = "area"

	FieldID     = "id"
	FieldName   = "name"
	FieldType   = "type"
	FieldStatus = "status"
	FieldColor  = "color"
	FieldSize   = "size"
)

const (
	StatusAvailable        = "available"
	StatusOccupied         = "occupied"
	StatusTemporarilyClose = "temporarily_closed"
	StatusUnderMaintenance = "under_maintenance"
)

type Area struct {
	ID     string `db:"id"`
	Name   string `db:"name"`
	Type   string `db:"type"`
	Status string `db:"status"`
	Color  string `db:"color"`
	Size   int    `db:"size"`
	model.Metadata
}

// Open reports whether the area accepts new bookings. Any other status,
// manual or event-derived, closes the whole area.
func (a *Area) Open() bool {
	return a.Status == StatusAvailable
}
