package model

import "mawgifi/shared/model"

const (
	TableName  = "vehicles"
	EntityName = "vehicle"

	FieldID             = "id"
	FieldOwnerID        = "owner_id"
	FieldType           = "type"
	FieldModel          = "model"
	FieldPlate          = "plate"
	FieldApprovalStatus = "approval_status"
)

const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

type Vehicle struct {
	ID             string `db:"id"`
	OwnerID        string `db:"owner_id"`
	Type           string `db:"type"`
	Model          string `db:"model"`
	Plate          string `db:"plate"`
	ApprovalStatus string `db:"approval_status"`
	model.Metadata
}
