package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"mawgifi/config"
	"mawgifi/infras/otel/mocks"
	areaMocks "mawgifi/internal/domains/area/mocks"
	areaModel "mawgifi/internal/domains/area/model"
	"mawgifi/internal/domains/availability"
	bookingMocks "mawgifi/internal/domains/booking/mocks"
	eventDto "mawgifi/internal/domains/event/model/dto"
	spaceMocks "mawgifi/internal/domains/space/mocks"
	"mawgifi/internal/domains/space/model"
	"mawgifi/internal/domains/space/model/dto"
	"mawgifi/internal/domains/space/service"
	cacheMocks "mawgifi/shared/cache/mocks"
	"mawgifi/shared/constant"
	gDto "mawgifi/shared/dto"
	"mawgifi/shared/failure"
	"mawgifi/shared/timezone"
)

type stubEvents struct {
	windows    []availability.EventWindow
	recomputes int
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
func (s *stubEvents) RecomputeAreaStatuses(_ context.Context) error {
	s.recomputes++

	return nil
}

type spaceDeps struct {
	repo    *spaceMocks.MockSpace
	area    *areaMocks.MockArea
	booking *bookingMocks.MockBooking
	events  *stubEvents
	cache   *cacheMocks.MockRedisCache
}

func newSpaceService(ctrl *gomock.Controller) (service.Space, *spaceDeps) {
	deps := &spaceDeps{
		repo:    spaceMocks.NewMockSpace(ctrl),
		area:    areaMocks.NewMockArea(ctrl),
		booking: bookingMocks.NewMockBooking(ctrl),
		events:  &stubEvents{},
		cache:   cacheMocks.NewMockRedisCache(ctrl),
	}

	deps.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	deps.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Parking.MaxSpaces = 100
	cfg.Cache.TTL = 3600

	svc := service.New(deps.repo, deps.area, deps.booking, deps.events, cfg, deps.cache, mocks.NewOtel())

	return svc, deps
}

func TestSpaceService_Create_CapacityCap(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newSpaceService(ctrl)
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-id")

	req := dto.CreateSpaceRequest{AreaID: "area-id", Code: "A-01"}

	tests := []struct {
		name       string
		setupMock  func()
		wantErr    bool
		wantReason string
	}{
		{
			name: "99 existing spaces leaves room",
			setupMock: func() {
				deps.area.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				deps.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(99, nil)
				deps.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "100 existing spaces hits the cap",
			setupMock: func() {
				deps.area.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				deps.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(100, nil)
			},
			wantErr:    true,
			wantReason: failure.ReasonCapacityExceeded,
		},
		{
			name: "unknown area",
			setupMock: func() {
				deps.area.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr:    true,
			wantReason: failure.ReasonNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Create(ctx, req)

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

func TestSpaceService_BulkCreate_CapacityCap(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newSpaceService(ctrl)
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-id")

	req := dto.BulkCreateSpacesRequest{AreaID: "area-id", Codes: []string{"B-01", "B-02", "B-03"}}

	// 98 existing + 3 new crosses the 100 cap.
	deps.area.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	deps.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(98, nil)

	err := svc.BulkCreate(ctx, req)

	assert.Error(t, err)
	assert.Equal(t, failure.ReasonCapacityExceeded, failure.GetReason(err))

	// 97 existing + 3 new fits exactly.
	deps.area.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	deps.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(97, nil)
	deps.repo.EXPECT().InsertBulk(gomock.Any(), gomock.Len(3)).Return(nil)

	err = svc.BulkCreate(ctx, req)

	assert.NoError(t, err)
}

func TestSpaceService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newSpaceService(ctrl)
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-id")

	tests := []struct {
		name       string
		setupMock  func()
		wantErr    bool
		wantReason string
	}{
		{
			name: "delete space without bookings",
			setupMock: func() {
				deps.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				deps.booking.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				deps.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "delete space with active bookings rejected",
			setupMock: func() {
				deps.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				deps.booking.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr:    true,
			wantReason: failure.ReasonInvalidState,
		},
		{
			name: "delete unknown space",
			setupMock: func() {
				deps.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr:    true,
			wantReason: failure.ReasonNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Delete(ctx, "space-id")

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

func TestSpaceService_ListAvailability(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newSpaceService(ctrl)
	ctx := context.Background()

	now := timezone.Now()

	spaces := []model.Space{
		{ID: "space-1", AreaID: "area-open", Code: "A-01", Status: model.StatusAvailable},
		{ID: "space-2", AreaID: "area-open", Code: "A-02", Status: model.StatusMaintenance},
		{ID: "space-3", AreaID: "area-closed", Code: "B-01", Status: model.StatusAvailable},
	}

	areas := []areaModel.Area{
		{ID: "area-open", Name: "North Lot", Status: areaModel.StatusAvailable},
		{ID: "area-closed", Name: "South Lot", Status: areaModel.StatusTemporarilyClose},
	}

	// The event keeping area-closed shut is active right now.
	deps.events.windows = []availability.EventWindow{
		{AreaID: "area-closed", Start: now.Add(-time.Hour), Duration: 2 * time.Hour},
	}

	deps.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(spaces, nil)
	deps.area.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(areas, nil)

	res, err := svc.ListAvailability(ctx, "")

	assert.NoError(t, err)
	assert.Equal(t, 1, deps.events.recomputes)
	assert.Len(t, res.Spaces, 3)

	assert.True(t, res.Spaces[0].Open)
	assert.Empty(t, res.Spaces[0].Reason)

	assert.False(t, res.Spaces[1].Open)
	assert.Equal(t, string(availability.ReasonSpaceStatusUnavailable), res.Spaces[1].Reason)

	assert.False(t, res.Spaces[2].Open)
	assert.Equal(t, string(availability.ReasonAreaClosedEvent), res.Spaces[2].Reason)
}
