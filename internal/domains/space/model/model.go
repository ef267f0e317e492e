package model

import "mawgifi/shared/model"

const (
	TableName  = "spaces"
	EntityName = "space"

	FieldID        = "id"
	FieldAreaID    = "area_id"
	FieldCode      = "code"
	FieldStatus    = "status"
	FieldQRPayload = "qr_payload"
)

const (
	StatusAvailable   = "available"
	StatusOccupied    = "occupied"
	StatusReserved    = "reserved"
	StatusMaintenance = "maintenance"
)

type Space struct {
	ID        string `db:"id"`
	AreaID    string `db:"area_id"`
	Code      string `db:"code"`
	Status    string `db:"status"`
	QRPayload string `db:"qr_payload"`
	model.Metadata
}
