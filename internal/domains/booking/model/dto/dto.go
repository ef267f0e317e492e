package dto

import (
	"mawgifi/internal/domains/availability"
	"mawgifi/internal/domains/booking/model"
	"mawgifi/shared"
	"mawgifi/shared/constant"
	gDto "mawgifi/shared/dto"
	gModel "mawgifi/shared/model"
	"mawgifi/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	VehicleID string `json:"vehicle_id" validate:"required"`
	SpaceID   string `json:"space_id"   validate:"required"`
	Date      string `json:"date"       validate:"required,dateonly"`
	StartTime string `json:"start_time" validate:"required,timeonly"`
	EndTime   string `json:"end_time"   validate:"required,timeonly"`
}

// ToInterval resolves the request's date and wall-clock times into absolute
// timestamps. An end time at or before the start time rolls over to the
// following calendar day (overnight booking).
func (c *CreateBookingRequest) ToInterval() (availability.Interval, error) {
	return resolveInterval(c.Date, c.StartTime, c.EndTime)
}

func (c *CreateBookingRequest) ToModel(user, qrPayload string, interval availability.Interval) model.Booking {
	return model.Booking{
		ID:        uuid.NewString(),
		VehicleID: c.VehicleID,
		SpaceID:   c.SpaceID,
		StartTime: interval.Start,
		EndTime:   interval.End,
		Status:    model.StatusPending,
		QRPayload: qrPayload,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateBookingRequest struct {
	Date      string `json:"date"       validate:"required,dateonly"`
	StartTime string `json:"start_time" validate:"required,timeonly"`
	EndTime   string `json:"end_time"   validate:"required,timeonly"`
}

func (u *UpdateBookingRequest) ToInterval() (availability.Interval, error) {
	return resolveInterval(u.Date, u.StartTime, u.EndTime)
}

func resolveInterval(date, startTime, endTime string) (availability.Interval, error) {
	day, err := timezone.Parse(constant.DateOnlyFormat, date)
	if err != nil {
		return availability.Interval{}, err
	}

	startClock, err := time.Parse(constant.TimeOnlyFormat, startTime)
	if err != nil {
		return availability.Interval{}, err
	}

	endClock, err := time.Parse(constant.TimeOnlyFormat, endTime)
	if err != nil {
		return availability.Interval{}, err
	}

	start := timezone.CombineDateTime(day, startClock)
	end := timezone.CombineDateTime(day, endClock)

	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}

	return availability.Interval{Start: start, End: end}, nil
}

type CreateBookingResponse struct {
	BookingID string `json:"booking_id"`
	QRPayload string `json:"qr_payload"`
}

type BookingResponse struct {
	ID         string `json:"id"`
	VehicleID  string `json:"vehicle_id"`
	SpaceID    string `json:"space_id"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Status     string `json:"status"`
	CheckInAt  string `json:"check_in_at,omitempty"`
	CheckOutAt string `json:"check_out_at,omitempty"`
	QRPayload  string `json:"qr_payload"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.VehicleID = model.VehicleID
	r.SpaceID = model.SpaceID
	r.StartTime = timezone.Format(model.StartTime, constant.DateFormat)
	r.EndTime = timezone.Format(model.EndTime, constant.DateFormat)
	r.Status = model.Status

	if model.CheckInAt != nil {
		r.CheckInAt = timezone.Format(*model.CheckInAt, constant.DateFormat)
	}

	if model.CheckOutAt != nil {
		r.CheckOutAt = timezone.Format(*model.CheckOutAt, constant.DateFormat)
	}

	r.QRPayload = model.QRPayload
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type BookedSpacesRequest struct {
	Date      string `json:"date"       validate:"required,dateonly"`
	StartTime string `json:"start_time" validate:"required,timeonly"`
	EndTime   string `json:"end_time"   validate:"required,timeonly"`
}

func (b *BookedSpacesRequest) ToInterval() (availability.Interval, error) {
	return resolveInterval(b.Date, b.StartTime, b.EndTime)
}

type BookedSpacesResponse struct {
	SpaceIDs []string `json:"space_ids"`
}
