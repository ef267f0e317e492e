package dto

import (
	"fmt"
	"mawgifi/internal/domains/availability"
	"mawgifi/internal/domains/space/model"
	"mawgifi/shared"
	gDto "mawgifi/shared/dto"
	gModel "mawgifi/shared/model"
	"mawgifi/shared/timezone"

	"github.com/google/uuid"
)

type CreateSpaceRequest struct {
	AreaID string `json:"area_id" validate:"required"`
	Code   string `json:"code"    validate:"required,max=20"`
	Status string `json:"status"  validate:"omitempty,oneof=available occupied reserved maintenance"`
}

func (c *CreateSpaceRequest) ToModel(user string) model.Space {
	status := model.StatusAvailable
	if c.Status != "" {
		status = c.Status
	}

	id := uuid.NewString()

	return model.Space{
		ID:        id,
		AreaID:    c.AreaID,
		Code:      c.Code,
		Status:    status,
		QRPayload: fmt.Sprintf("mawgifi://space/%s", id),
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type BulkCreateSpacesRequest struct {
	AreaID string   `json:"area_id" validate:"required"`
	Codes  []string `json:"codes"   validate:"required,min=1,dive,required,max=20"`
}

func (b *BulkCreateSpacesRequest) ToModels(user string) []model.Space {
	models := make([]model.Space, len(b.Codes))

	for i, code := range b.Codes {
		req := CreateSpaceRequest{AreaID: b.AreaID, Code: code}
		models[i] = req.ToModel(user)
	}

	return models
}

type UpdateSpaceRequest struct {
	Code   string `db:"code"   json:"code"   validate:"omitempty,max=20"`
	Status string `db:"status" json:"status" validate:"omitempty,oneof=available occupied reserved maintenance"`
}

type SpaceResponse struct {
	ID        string `json:"id"`
	AreaID    string `json:"area_id"`
	Code      string `json:"code"`
	Status    string `json:"status"`
	QRPayload string `json:"qr_payload"`
	gDto.Metadata
}

func (r *SpaceResponse) FromModel(model model.Space) {
	r.ID = model.ID
	r.AreaID = model.AreaID
	r.Code = model.Code
	r.Status = model.Status
	r.QRPayload = model.QRPayload
	r.Metadata.FromModel(model.Metadata)
}

type GetSpacesResponse struct {
	Spaces    []SpaceResponse `json:"spaces"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetSpacesResponse) FromModels(models []model.Space, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Spaces = make([]SpaceResponse, len(models))
	for i, mod := range models {
		r.Spaces[i].FromModel(mod)
	}
}

// SpaceAvailabilityResponse is the effective per-space state combining the
// area gate and the space gate.
type SpaceAvailabilityResponse struct {
	SpaceID string `json:"space_id"`
	AreaID  string `json:"area_id"`
	Code    string `json:"code"`
	Open    bool   `json:"open"`
	Reason  string `json:"reason,omitempty"`
}

func (r *SpaceAvailabilityResponse) FromDecision(space model.Space, decision availability.Decision) {
	r.SpaceID = space.ID
	r.AreaID = space.AreaID
	r.Code = space.Code
	r.Open = decision.Open
	r.Reason = string(decision.Reason)
}

type ListAvailabilityResponse struct {
	Spaces []SpaceAvailabilityResponse `json:"spaces"`
}
