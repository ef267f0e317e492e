package dto

import (
	"mawgifi/internal/domains/vehicle/model"
	"mawgifi/shared"
	gDto "mawgifi/shared/dto"
	gModel "mawgifi/shared/model"
	"mawgifi/shared/timezone"

	"github.com/google/uuid"
)

type CreateVehicleRequest struct {
	Type  string `json:"type"  validate:"required,max=50"`
	Model string `json:"model" validate:"required,max=100"`
	Plate string `json:"plate" validate:"required,max=20"`
}

func (c *CreateVehicleRequest) ToModel(owner string) model.Vehicle {
	return model.Vehicle{
		ID:             uuid.NewString(),
		OwnerID:        owner,
		Type:           c.Type,
		Model:          c.Model,
		Plate:          c.Plate,
		ApprovalStatus: model.ApprovalPending,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  owner,
			ModifiedBy: owner,
		},
	}
}

type UpdateVehicleRequest struct {
	Type  string `db:"type"  json:"type"  validate:"omitempty,max=50"`
	Model string `db:"model" json:"model" validate:"omitempty,max=100"`
	Plate string `db:"plate" json:"plate" validate:"omitempty,max=20"`
}

type ApproveVehicleRequest struct {
	ApprovalStatus string `db:"approval_status" json:"approval_status" validate:"required,oneof=approved rejected"`
}

type VehicleResponse struct {
	ID             string `json:"id"`
	OwnerID        string `json:"owner_id"`
	Type           string `json:"type"`
	Model          string `json:"model"`
	Plate          string `json:"plate"`
	ApprovalStatus string `json:"approval_status"`
	gDto.Metadata
}

func (r *VehicleResponse) FromModel(model model.Vehicle) {
	r.ID = model.ID
	r.OwnerID = model.OwnerID
	r.Type = model.Type
	r.Model = model.Model
	r.Plate = model.Plate
	r.ApprovalStatus = model.ApprovalStatus
	r.Metadata.FromModel(model.Metadata)
}

type GetVehiclesResponse struct {
	Vehicles  []VehicleResponse `json:"vehicles"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetVehiclesResponse) FromModels(models []model.Vehicle, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Vehicles = make([]VehicleResponse, len(models))
	for i, mod := range models {
		r.Vehicles[i].FromModel(mod)
	}
}
