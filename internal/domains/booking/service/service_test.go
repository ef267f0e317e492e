package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"mawgifi/config"
	kafkaMocks "mawgifi/infras/kafka/mocks"
	"mawgifi/infras/otel/mocks"
	qrMocks "mawgifi/infras/qr/mocks"
	areaMocks "mawgifi/internal/domains/area/mocks"
	areaModel "mawgifi/internal/domains/area/model"
	"mawgifi/internal/domains/availability"
	bookingMocks "mawgifi/internal/domains/booking/mocks"
	"mawgifi/internal/domains/booking/model"
	"mawgifi/internal/domains/booking/model/dto"
	"mawgifi/internal/domains/booking/repository"
	"mawgifi/internal/domains/booking/service"
	eventDto "mawgifi/internal/domains/event/model/dto"
	spaceMocks "mawgifi/internal/domains/space/mocks"
	spaceModel "mawgifi/internal/domains/space/model"
	vehicleMocks "mawgifi/internal/domains/vehicle/mocks"
	vehicleModel "mawgifi/internal/domains/vehicle/model"
	"mawgifi/shared/constant"
	gDto "mawgifi/shared/dto"
	"mawgifi/shared/failure"
	gModel "mawgifi/shared/model"
	"mawgifi/shared/timezone"
)

// stubEvents satisfies the event service interface without touching storage.
type stubEvents struct {
	windows []availability.EventWindow
}

func (s *stubEvents) Create(_ context.Context, _ eventDto.CreateEventRequest) error { return nil }
func (s *stubEvents) GetAll(_ context.Context, _ gDto.QueryParams, _ gDto.FilterGroup) (eventDto.GetEventsResponse, error) {
	return eventDto.GetEventsResponse{}, nil
}
func (s *stubEvents) Count(_ context.Context, _ gDto.QueryParams, _ gDto.FilterGroup) (int, error) {
	return 0, nil
}
func (s *stubEvents) Get(_ context.Context, _ string) (eventDto.EventResponse, error) {
	return eventDto.EventResponse{}, nil
}
func (s *stubEvents) Update(_ context.Context, _ eventDto.UpdateEventRequest, _ string) error {
	return nil
}
func (s *stubEvents) Delete(_ context.Context, _ string) error { return nil }
func (s *stubEvents) Windows(_ context.Context) ([]availability.EventWindow, error) {
	return s.windows, nil
}
func (s *stubEvents) RecomputeAreaStatuses(_ context.Context) error { return nil }

func requesterContext(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func approvedVehicle(owner string) vehicleModel.Vehicle {
	return vehicleModel.Vehicle{
		ID:             "vehicle-id",
		OwnerID:        owner,
		Type:           "car",
		Model:          "Corolla",
		Plate:          "ABC-123",
		ApprovalStatus: vehicleModel.ApprovalApproved,
	}
}

func openSpace() spaceModel.Space {
	return spaceModel.Space{
		ID:     "space-id",
		AreaID: "area-id",
		Code:   "A-01",
		Status: spaceModel.StatusAvailable,
	}
}

func openArea() areaModel.Area {
	return areaModel.Area{
		ID:     "area-id",
		Name:   "North Lot",
		Status: areaModel.StatusAvailable,
	}
}

type bookingDeps struct {
	repo    *bookingMocks.MockBooking
	vehicle *vehicleMocks.MockVehicle
	space   *spaceMocks.MockSpace
	area    *areaMocks.MockArea
	events  *stubEvents
	encoder *qrMocks.MockEncoder
	broker  *kafkaMocks.MockClient
}

func newBookingService(ctrl *gomock.Controller) (service.Booking, *bookingDeps) {
	deps := &bookingDeps{
		repo:    bookingMocks.NewMockBooking(ctrl),
		vehicle: vehicleMocks.NewMockVehicle(ctrl),
		space:   spaceMocks.NewMockSpace(ctrl),
		area:    areaMocks.NewMockArea(ctrl),
		events:  &stubEvents{},
		encoder: qrMocks.NewMockEncoder(ctrl),
		broker:  kafkaMocks.NewMockClient(ctrl),
	}

	deps.broker.EXPECT().
		SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	cfg := &config.Config{}

	svc := service.New(deps.repo, deps.vehicle, deps.space, deps.area, deps.events, deps.encoder, deps.broker, cfg, mocks.NewOtel())

	return svc, deps
}

func TestBookingService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newBookingService(ctrl)
	ctx := requesterContext("user-id", constant.RoleStudent)

	req := dto.CreateBookingRequest{
		VehicleID: "vehicle-id",
		SpaceID:   "space-id",
		Date:      "2030-01-01",
		StartTime: "08:00",
		EndTime:   "10:00",
	}

	tests := []struct {
		name       string
		req        dto.CreateBookingRequest
		setupMock  func()
		wantErr    bool
		wantReason string
	}{
		{
			name: "successful creation",
			req:  req,
			setupMock: func() {
				deps.vehicle.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approvedVehicle("user-id"), nil)
				deps.space.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openSpace(), nil)
				deps.area.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openArea(), nil)
				deps.repo.EXPECT().
					WithTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, fn func(*sqlx.Tx) error) error {
						return fn(nil)
					})
				deps.space.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(openSpace(), nil)
				deps.repo.EXPECT().
					HasOverlapTx(gomock.Any(), gomock.Any(), "space-id", gomock.Any(), gomock.Any(), gomock.Any()).
					Return(false, nil)
				deps.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "malformed date",
			req: dto.CreateBookingRequest{
				VehicleID: "vehicle-id",
				SpaceID:   "space-id",
				Date:      "not-a-date",
				StartTime: "08:00",
				EndTime:   "10:00",
			},
			setupMock:  func() {},
			wantErr:    true,
			wantReason: failure.ReasonValidation,
		},
		{
			name: "vehicle not found",
			req:  req,
			setupMock: func() {
				deps.vehicle.EXPECT().Get(gomock.Any(), gomock.Any()).Return(vehicleModel.Vehicle{}, nil)
			},
			wantErr:    true,
			wantReason: failure.ReasonNotFound,
		},
		{
			name: "vehicle owned by someone else",
			req:  req,
			setupMock: func() {
				deps.vehicle.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approvedVehicle("other-user"), nil)
			},
			wantErr:    true,
			wantReason: failure.ReasonUnauthorized,
		},
		{
			name: "vehicle pending approval",
			req:  req,
			setupMock: func() {
				vehicle := approvedVehicle("user-id")
				vehicle.ApprovalStatus = vehicleModel.ApprovalPending
				deps.vehicle.EXPECT().Get(gomock.Any(), gomock.Any()).Return(vehicle, nil)
			},
			wantErr:    true,
			wantReason: failure.ReasonVehicleNotApproved,
		},
		{
			name: "space does not exist",
			req:  req,
			setupMock: func() {
				deps.vehicle.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approvedVehicle("user-id"), nil)
				deps.space.EXPECT().Get(gomock.Any(), gomock.Any()).Return(spaceModel.Space{}, nil)
			},
			wantErr:    true,
			wantReason: failure.ReasonNotFound,
		},
		{
			name: "space under maintenance",
			req:  req,
			setupMock: func() {
				deps.vehicle.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approvedVehicle("user-id"), nil)
				space := openSpace()
				space.Status = spaceModel.StatusMaintenance
				deps.space.EXPECT().Get(gomock.Any(), gomock.Any()).Return(space, nil)
			},
			wantErr:    true,
			wantReason: failure.ReasonSpaceStatusUnavailable,
		},
		{
			name: "area manually closed",
			req:  req,
			setupMock: func() {
				deps.vehicle.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approvedVehicle("user-id"), nil)
				deps.space.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openSpace(), nil)
				area := openArea()
				area.Status = areaModel.StatusUnderMaintenance
				deps.area.EXPECT().Get(gomock.Any(), gomock.Any()).Return(area, nil)
			},
			wantErr:    true,
			wantReason: failure.ReasonAreaClosedManual,
		},
		{
			name: "overlapping booking",
			req:  req,
			setupMock: func() {
				deps.vehicle.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approvedVehicle("user-id"), nil)
				deps.space.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openSpace(), nil)
				deps.area.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openArea(), nil)
				deps.repo.EXPECT().
					WithTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, fn func(*sqlx.Tx) error) error {
						return fn(nil)
					})
				deps.space.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(openSpace(), nil)
				deps.repo.EXPECT().
					HasOverlapTx(gomock.Any(), gomock.Any(), "space-id", gomock.Any(), gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr:    true,
			wantReason: failure.ReasonSlotConflict,
		},
		{
			name: "vehicle lookup error",
			req:  req,
			setupMock: func() {
				deps.vehicle.EXPECT().Get(gomock.Any(), gomock.Any()).Return(vehicleModel.Vehicle{}, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Create(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantReason != "" {
					assert.Equal(t, tt.wantReason, failure.GetReason(err))
				}
				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, res.BookingID)
			assert.Contains(t, res.QRPayload, "space-id")
		})
	}
}

func TestBookingService_Create_ClosedByEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newBookingService(ctrl)
	ctx := requesterContext("user-id", constant.RoleStudent)

	day, err := timezone.Parse(constant.DateOnlyFormat, "2030-01-01")
	assert.NoError(t, err)

	// Event closes the area from 09:00 for two hours.
	deps.events.windows = []availability.EventWindow{
		{AreaID: "area-id", Start: day.Add(9 * time.Hour), Duration: 2 * time.Hour},
	}

	deps.vehicle.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approvedVehicle("user-id"), nil)
	deps.space.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openSpace(), nil)

	area := openArea()
	area.Status = areaModel.StatusTemporarilyClose
	deps.area.EXPECT().Get(gomock.Any(), gomock.Any()).Return(area, nil)

	req := dto.CreateBookingRequest{
		VehicleID: "vehicle-id",
		SpaceID:   "space-id",
		Date:      "2030-01-01",
		StartTime: "09:30",
		EndTime:   "10:30",
	}

	_, err = svc.Create(ctx, req)
	assert.Error(t, err)
	assert.Equal(t, failure.ReasonAreaClosedEvent, failure.GetReason(err))
}

// fakeBookingRepo stores bookings in memory and serializes its transactions
// with a mutex, mirroring the row-lock the real repository takes on the
// space. It backs the concurrency test.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings []model.Booking
}

var _ repository.Booking = (*fakeBookingRepo)(nil)

func (f *fakeBookingRepo) WithTransaction(_ context.Context, fn func(tx *sqlx.Tx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return fn(nil)
}

func (f *fakeBookingRepo) HasOverlapTx(_ context.Context, _ *sqlx.Tx, spaceID string, start, end time.Time, excludeID string) (bool, error) {
	for _, b := range f.bookings {
		if b.SpaceID != spaceID || b.ID == excludeID {
			continue
		}

		if b.Status != model.StatusPending && b.Status != model.StatusCheckedIn {
			continue
		}

		if b.StartTime.Before(end) && start.Before(b.EndTime) {
			return true, nil
		}
	}

	return false, nil
}

func (f *fakeBookingRepo) InsertTx(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
	f.bookings = append(f.bookings, booking)

	return nil
}

func (f *fakeBookingRepo) Insert(_ context.Context, _ model.Booking) error { return nil }
func (f *fakeBookingRepo) Get(_ context.Context, _ gDto.FilterGroup, _ ...string) (model.Booking, error) {
	return model.Booking{}, nil
}
func (f *fakeBookingRepo) GetAll(_ context.Context, _ gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Booking, error) {
	return nil, nil
}
func (f *fakeBookingRepo) Exist(_ context.Context, _ gDto.FilterGroup) (bool, error) {
	return false, nil
}
func (f *fakeBookingRepo) Count(_ context.Context, _ gDto.FilterGroup) (int, error) { return 0, nil }
func (f *fakeBookingRepo) Update(_ context.Context, _ map[string]any, _ gDto.FilterGroup) error {
	return nil
}
func (f *fakeBookingRepo) UpdateTx(_ context.Context, _ *sqlx.Tx, _ map[string]any, _ gDto.FilterGroup) error {
	return nil
}
func (f *fakeBookingRepo) Delete(_ context.Context, _ gDto.FilterGroup) error { return nil }
func (f *fakeBookingRepo) GetBookedSpaceIDs(_ context.Context, _, _ time.Time) ([]string, error) {
	return nil, nil
}

func TestBookingService_Create_ConcurrentSameSlot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fakeRepo := &fakeBookingRepo{}
	mockVehicle := vehicleMocks.NewMockVehicle(ctrl)
	mockSpace := spaceMocks.NewMockSpace(ctrl)
	mockArea := areaMocks.NewMockArea(ctrl)
	mockEncoder := qrMocks.NewMockEncoder(ctrl)
	mockBroker := kafkaMocks.NewMockClient(ctrl)

	mockVehicle.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approvedVehicle("user-id"), nil).AnyTimes()
	mockSpace.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openSpace(), nil).AnyTimes()
	mockSpace.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(openSpace(), nil).AnyTimes()
	mockArea.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openArea(), nil).AnyTimes()
	mockBroker.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	svc := service.New(fakeRepo, mockVehicle, mockSpace, mockArea, &stubEvents{}, mockEncoder, mockBroker, cfg, mocks.NewOtel())

	ctx := requesterContext("user-id", constant.RoleStudent)
	req := dto.CreateBookingRequest{
		VehicleID: "vehicle-id",
		SpaceID:   "space-id",
		Date:      "2030-01-01",
		StartTime: "08:00",
		EndTime:   "10:00",
	}

	var wg sync.WaitGroup

	results := make([]error, 2)

	for i := range results {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			_, err := svc.Create(ctx, req)
			results[i] = err
		}(i)
	}

	wg.Wait()

	successes := 0
	conflicts := 0

	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case failure.GetReason(err) == failure.ReasonSlotConflict:
			conflicts++
		}
	}

	assert.Equal(t, 1, successes, "exactly one create must succeed")
	assert.Equal(t, 1, conflicts, "the other create must fail with a slot conflict")
	assert.Len(t, fakeRepo.bookings, 1)
}

func TestBookingService_Create_BoundaryTouchAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fakeRepo := &fakeBookingRepo{}
	mockVehicle := vehicleMocks.NewMockVehicle(ctrl)
	mockSpace := spaceMocks.NewMockSpace(ctrl)
	mockArea := areaMocks.NewMockArea(ctrl)
	mockEncoder := qrMocks.NewMockEncoder(ctrl)
	mockBroker := kafkaMocks.NewMockClient(ctrl)

	mockVehicle.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approvedVehicle("user-id"), nil).AnyTimes()
	mockSpace.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openSpace(), nil).AnyTimes()
	mockSpace.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(openSpace(), nil).AnyTimes()
	mockArea.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openArea(), nil).AnyTimes()
	mockBroker.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	svc := service.New(fakeRepo, mockVehicle, mockSpace, mockArea, &stubEvents{}, mockEncoder, mockBroker, cfg, mocks.NewOtel())

	ctx := requesterContext("user-id", constant.RoleStudent)

	first := dto.CreateBookingRequest{
		VehicleID: "vehicle-id",
		SpaceID:   "space-id",
		Date:      "2030-01-01",
		StartTime: "08:00",
		EndTime:   "10:00",
	}

	// Second booking starts exactly where the first one ends.
	second := dto.CreateBookingRequest{
		VehicleID: "vehicle-id",
		SpaceID:   "space-id",
		Date:      "2030-01-01",
		StartTime: "10:00",
		EndTime:   "12:00",
	}

	_, err := svc.Create(ctx, first)
	assert.NoError(t, err)

	_, err = svc.Create(ctx, second)
	assert.NoError(t, err)

	assert.Len(t, fakeRepo.bookings, 2)
}

func pendingBooking(owner string, start, end time.Time) model.Booking {
	return model.Booking{
		ID:        "booking-id",
		VehicleID: "vehicle-id",
		SpaceID:   "space-id",
		StartTime: start,
		EndTime:   end,
		Status:    model.StatusPending,
		QRPayload: "mawgifi://checkin/space-id/token",
		Metadata:  gModel.Metadata{CreatedBy: owner},
	}
}

func TestBookingService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newBookingService(ctrl)
	ctx := requesterContext("user-id", constant.RoleStudent)

	future := timezone.Now().Add(24 * time.Hour)
	past := timezone.Now().Add(-24 * time.Hour)

	req := dto.UpdateBookingRequest{Date: "2030-01-02", StartTime: "08:00", EndTime: "10:00"}

	tests := []struct {
		name       string
		setupMock  func()
		wantErr    bool
		wantReason string
	}{
		{
			name: "successful reschedule",
			setupMock: func() {
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking("user-id", future, future.Add(2*time.Hour)), nil)
				deps.repo.EXPECT().
					WithTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, fn func(*sqlx.Tx) error) error {
						return fn(nil)
					})
				deps.space.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(openSpace(), nil)
				deps.repo.EXPECT().
					HasOverlapTx(gomock.Any(), gomock.Any(), "space-id", gomock.Any(), gomock.Any(), "booking-id").
					Return(false, nil)
				deps.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "booking not found",
			setupMock: func() {
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)
			},
			wantErr:    true,
			wantReason: failure.ReasonNotFound,
		},
		{
			name: "not the owner",
			setupMock: func() {
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking("other-user", future, future.Add(2*time.Hour)), nil)
			},
			wantErr:    true,
			wantReason: failure.ReasonUnauthorized,
		},
		{
			name: "already checked in",
			setupMock: func() {
				booking := pendingBooking("user-id", future, future.Add(2*time.Hour))
				booking.Status = model.StatusCheckedIn
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
			},
			wantErr:    true,
			wantReason: failure.ReasonInvalidState,
		},
		{
			name: "already started",
			setupMock: func() {
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking("user-id", past, past.Add(2*time.Hour)), nil)
			},
			wantErr:    true,
			wantReason: failure.ReasonInvalidState,
		},
		{
			name: "new interval conflicts",
			setupMock: func() {
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking("user-id", future, future.Add(2*time.Hour)), nil)
				deps.repo.EXPECT().
					WithTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, fn func(*sqlx.Tx) error) error {
						return fn(nil)
					})
				deps.space.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(openSpace(), nil)
				deps.repo.EXPECT().
					HasOverlapTx(gomock.Any(), gomock.Any(), "space-id", gomock.Any(), gomock.Any(), "booking-id").
					Return(true, nil)
			},
			wantErr:    true,
			wantReason: failure.ReasonSlotConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Update(ctx, req, "booking-id")

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantReason != "" {
					assert.Equal(t, tt.wantReason, failure.GetReason(err))
				}
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestBookingService_Cancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newBookingService(ctrl)
	ctx := requesterContext("user-id", constant.RoleStudent)

	future := timezone.Now().Add(24 * time.Hour)
	past := timezone.Now().Add(-24 * time.Hour)

	tests := []struct {
		name       string
		setupMock  func()
		wantErr    bool
		wantReason string
	}{
		{
			name: "cancel future pending booking",
			setupMock: func() {
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking("user-id", future, future.Add(2*time.Hour)), nil)
				deps.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "cancel after start rejected",
			setupMock: func() {
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking("user-id", past, past.Add(2*time.Hour)), nil)
			},
			wantErr:    true,
			wantReason: failure.ReasonInvalidState,
		},
		{
			name: "cancel completed booking rejected",
			setupMock: func() {
				booking := pendingBooking("user-id", past, past.Add(2*time.Hour))
				booking.Status = model.StatusCompleted
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
			},
			wantErr:    true,
			wantReason: failure.ReasonInvalidState,
		},
		{
			name: "cancel cancelled booking rejected",
			setupMock: func() {
				booking := pendingBooking("user-id", future, future.Add(2*time.Hour))
				booking.Status = model.StatusCancelled
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
			},
			wantErr:    true,
			wantReason: failure.ReasonInvalidState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Cancel(ctx, "booking-id")

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantReason != "" {
					assert.Equal(t, tt.wantReason, failure.GetReason(err))
				}
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestBookingService_CheckInCheckOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newBookingService(ctrl)
	ctx := requesterContext("user-id", constant.RoleStudent)

	now := timezone.Now()

	tests := []struct {
		name       string
		call       func() error
		setupMock  func()
		wantErr    bool
		wantReason string
	}{
		{
			name: "check in pending booking",
			call: func() error { return svc.CheckIn(ctx, "booking-id") },
			setupMock: func() {
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking("user-id", now, now.Add(2*time.Hour)), nil)
				deps.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, model.StatusCheckedIn, fields[model.FieldStatus])
						assert.Contains(t, fields, model.FieldCheckInAt)
						return nil
					})
			},
		},
		{
			name: "double check in rejected",
			call: func() error { return svc.CheckIn(ctx, "booking-id") },
			setupMock: func() {
				booking := pendingBooking("user-id", now, now.Add(2*time.Hour))
				booking.Status = model.StatusCheckedIn
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
			},
			wantErr:    true,
			wantReason: failure.ReasonInvalidState,
		},
		{
			name: "check in cancelled booking rejected",
			call: func() error { return svc.CheckIn(ctx, "booking-id") },
			setupMock: func() {
				booking := pendingBooking("user-id", now, now.Add(2*time.Hour))
				booking.Status = model.StatusCancelled
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
			},
			wantErr:    true,
			wantReason: failure.ReasonInvalidState,
		},
		{
			name: "check out checked in booking",
			call: func() error { return svc.CheckOut(ctx, "booking-id") },
			setupMock: func() {
				booking := pendingBooking("user-id", now, now.Add(2*time.Hour))
				booking.Status = model.StatusCheckedIn
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
				deps.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, model.StatusCompleted, fields[model.FieldStatus])
						assert.Contains(t, fields, model.FieldCheckOutAt)
						return nil
					})
			},
		},
		{
			name: "check out before check in rejected",
			call: func() error { return svc.CheckOut(ctx, "booking-id") },
			setupMock: func() {
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking("user-id", now, now.Add(2*time.Hour)), nil)
			},
			wantErr:    true,
			wantReason: failure.ReasonInvalidState,
		},
		{
			name: "check out completed booking rejected",
			call: func() error { return svc.CheckOut(ctx, "booking-id") },
			setupMock: func() {
				booking := pendingBooking("user-id", now, now.Add(2*time.Hour))
				booking.Status = model.StatusCompleted
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
			},
			wantErr:    true,
			wantReason: failure.ReasonInvalidState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := tt.call()

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantReason != "" {
					assert.Equal(t, tt.wantReason, failure.GetReason(err))
				}
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestBookingService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newBookingService(ctrl)
	ctx := requesterContext("user-id", constant.RoleStudent)

	now := timezone.Now()

	tests := []struct {
		name       string
		setupMock  func()
		wantErr    bool
		wantReason string
	}{
		{
			name: "delete past booking",
			setupMock: func() {
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking("user-id", now.Add(-4*time.Hour), now.Add(-2*time.Hour)), nil)
				deps.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "delete booking in progress rejected",
			setupMock: func() {
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking("user-id", now.Add(-time.Hour), now.Add(time.Hour)), nil)
			},
			wantErr:    true,
			wantReason: failure.ReasonInvalidState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Delete(ctx, "booking-id")

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantReason != "" {
					assert.Equal(t, tt.wantReason, failure.GetReason(err))
				}
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestBookingService_GetBookedSpaces(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newBookingService(ctrl)
	ctx := requesterContext("user-id", constant.RoleStudent)

	deps.repo.EXPECT().
		GetBookedSpaceIDs(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]string{"space-1", "space-2"}, nil)

	res, err := svc.GetBookedSpaces(ctx, dto.BookedSpacesRequest{
		Date:      "2030-01-01",
		StartTime: "08:00",
		EndTime:   "10:00",
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"space-1", "space-2"}, res.SpaceIDs)
}

func TestBookingService_QRCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newBookingService(ctrl)
	ctx := requesterContext("user-id", constant.RoleStudent)

	now := timezone.Now()
	booking := pendingBooking("user-id", now, now.Add(2*time.Hour))

	deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
	deps.encoder.EXPECT().EncodePNG(booking.QRPayload).Return([]byte("png-bytes"), nil)

	png, err := svc.QRCode(ctx, "booking-id")

	assert.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), png)
}
