package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mawgifi/internal/domains/booking/model/dto"
)

func TestCreateBookingRequestToInterval(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		startTime string
		endTime   string
		wantStart string
		wantEnd   string
		wantErr   bool
	}{
		{
			name:      "same-day interval",
			date:      "2024-01-01",
			startTime: "08:00",
			endTime:   "10:00",
			wantStart: "2024-01-01 08:00",
			wantEnd:   "2024-01-01 10:00",
		},
		{
			name:      "overnight interval rolls end to next day",
			date:      "2024-01-01",
			startTime: "22:00",
			endTime:   "02:00",
			wantStart: "2024-01-01 22:00",
			wantEnd:   "2024-01-02 02:00",
		},
		{
			name:      "equal start and end treated as full day",
			date:      "2024-01-01",
			startTime: "09:00",
			endTime:   "09:00",
			wantStart: "2024-01-01 09:00",
			wantEnd:   "2024-01-02 09:00",
		},
		{
			name:      "malformed date",
			date:      "01-01-2024",
			startTime: "08:00",
			endTime:   "10:00",
			wantErr:   true,
		},
		{
			name:      "malformed time",
			date:      "2024-01-01",
			startTime: "8am",
			endTime:   "10:00",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := dto.CreateBookingRequest{
				VehicleID: "vehicle-id",
				SpaceID:   "space-id",
				Date:      tt.date,
				StartTime: tt.startTime,
				EndTime:   tt.endTime,
			}

			interval, err := req.ToInterval()

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantStart, interval.Start.Format("2006-01-02 15:04"))
			assert.Equal(t, tt.wantEnd, interval.End.Format("2006-01-02 15:04"))
			assert.True(t, interval.End.After(interval.Start))
		})
	}
}

func TestCreateBookingRequestToModel(t *testing.T) {
	req := dto.CreateBookingRequest{
		VehicleID: "vehicle-id",
		SpaceID:   "space-id",
		Date:      "2024-01-01",
		StartTime: "08:00",
		EndTime:   "10:00",
	}

	interval, err := req.ToInterval()
	assert.NoError(t, err)

	booking := req.ToModel("user-id", "mawgifi://checkin/space-id/token", interval)

	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, "vehicle-id", booking.VehicleID)
	assert.Equal(t, "space-id", booking.SpaceID)
	assert.Equal(t, "pending", booking.Status)
	assert.Equal(t, "mawgifi://checkin/space-id/token", booking.QRPayload)
	assert.Equal(t, interval.Start, booking.StartTime)
	assert.Equal(t, interval.End, booking.EndTime)
	assert.Equal(t, "user-id", booking.CreatedBy)
	assert.Nil(t, booking.CheckInAt)
	assert.Nil(t, booking.CheckOutAt)
}

func TestUpdateBookingRequestToInterval(t *testing.T) {
	req := dto.UpdateBookingRequest{
		Date:      "2024-03-10",
		StartTime: "23:30",
		EndTime:   "01:00",
	}

	interval, err := req.ToInterval()
	assert.NoError(t, err)
	assert.Equal(t, 90*time.Minute, interval.End.Sub(interval.Start))
}
