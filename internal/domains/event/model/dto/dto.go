package dto

import (
	"mawgifi/internal/domains/event/model"
	"mawgifi/shared"
	"mawgifi/shared/constant"
	gDto "mawgifi/shared/dto"
	gModel "mawgifi/shared/model"
	"mawgifi/shared/timezone"

	"github.com/google/uuid"
)

type CreateEventRequest struct {
	Name            string  `json:"name"             validate:"required,max=100"`
	Type            string  `json:"type"             validate:"required,max=50"`
	AreaID          *string `json:"area_id"          validate:"omitempty"`
	StartTime       string  `json:"start_time"       validate:"required"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,min=1"`
	Report          string  `json:"report"           validate:"omitempty"`
}

func (c *CreateEventRequest) ToModel(user string) (model.Event, error) {
	start, err := timezone.Parse(constant.DateFormat, c.StartTime)
	if err != nil {
		return model.Event{}, err
	}

	return model.Event{
		ID:              uuid.NewString(),
		Name:            c.Name,
		Type:            c.Type,
		AreaID:          c.AreaID,
		StartTime:       start,
		DurationMinutes: c.DurationMinutes,
		Report:          c.Report,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type UpdateEventRequest struct {
	Name            string  `db:"name"             json:"name"             validate:"omitempty,max=100"`
	Type            string  `db:"type"             json:"type"             validate:"omitempty,max=50"`
	AreaID          *string `db:"area_id"          json:"area_id"          validate:"omitempty"`
	StartTime       string  `json:"start_time"     validate:"omitempty"`
	DurationMinutes *int    `db:"duration_minutes" json:"duration_minutes" validate:"omitempty,min=1"`
	Report          string  `db:"report"           json:"report"           validate:"omitempty"`
}

type EventResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Type            string  `json:"type"`
	AreaID          *string `json:"area_id"`
	StartTime       string  `json:"start_time"`
	DurationMinutes int     `json:"duration_minutes"`
	Report          string  `json:"report"`
	gDto.Metadata
}

func (r *EventResponse) FromModel(model model.Event) {
	r.ID = model.ID
	r.Name = model.Name
	r.Type = model.Type
	r.AreaID = model.AreaID
	r.StartTime = timezone.Format(model.StartTime, constant.DateFormat)
	r.DurationMinutes = model.DurationMinutes
	r.Report = model.Report
	r.Metadata.FromModel(model.Metadata)
}

type GetEventsResponse struct {
	Events    []EventResponse `json:"events"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetEventsResponse) FromModels(models []model.Event, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Events = make([]EventResponse, len(models))
	for i, mod := range models {
		r.Events[i].FromModel(mod)
	}
}
