package dto

import (
	"mawgifi/internal/domains/area/model"
	"mawgifi/shared"
	gDto "mawgifi/shared/dto"
	gModel "mawgifi/shared/model"
	"mawgifi/shared/timezone"

	"github.com/google/uuid"
)

type CreateAreaRequest struct {
	Name   string `json:"name"   validate:"required,max=100"`
	Type   string `json:"type"   validate:"required,max=50"`
	Status string `json:"status" validate:"omitempty,oneof=available occupied temporarily_closed under_maintenance"`
	Color  string `json:"color"  validate:"omitempty,max=20"`
	Size   int    `json:"size"   validate:"omitempty,min=0"`
}

func (c *CreateAreaRequest) ToModel(user string) model.Area {
	status := model.StatusAvailable
	if c.Status != "" {
		status = c.Status
	}

	return model.Area{
		ID:     uuid.NewString(),
		Name:   c.Name,
		Type:   c.Type,
		Status: status,
		Color:  c.Color,
		Size:   c.Size,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateAreaRequest struct {
	Name   string `db:"name"   json:"name"   validate:"omitempty,max=100"`
	Type   string `db:"type"   json:"type"   validate:"omitempty,max=50"`
	Status string `db:"status" json:"status" validate:"omitempty,oneof=available occupied temporarily_closed under_maintenance"`
	Color  string `db:"color"  json:"color"  validate:"omitempty,max=20"`
	Size   *int   `db:"size"   json:"size"   validate:"omitempty,min=0"`
}

type AreaResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Status string `json:"status"`
	Color  string `json:"color"`
	Size   int    `json:"size"`
	gDto.Metadata
}

func (r *AreaResponse) FromModel(model model.Area) {
	r.ID = model.ID
	r.Name = model.Name
	r.Type = model.Type
	r.Status = model.Status
	r.Color = model.Color
	r.Size = model.Size
	r.Metadata.FromModel(model.Metadata)
}

type GetAreasResponse struct {
	Areas     []AreaResponse `json:"areas"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetAreasResponse) FromModels(models []model.Area, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Areas = make([]AreaResponse, len(models))
	for i, mod := range models {
		r.Areas[i].FromModel(mod)
	}
}
