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
	eventMocks "mawgifi/internal/domains/event/mocks"
	"mawgifi/internal/domains/event/model"
	"mawgifi/internal/domains/event/model/dto"
	"mawgifi/internal/domains/event/service"
	cacheMocks "mawgifi/shared/cache/mocks"
	"mawgifi/shared/constant"
	gDto "mawgifi/shared/dto"
	"mawgifi/shared/failure"
	"mawgifi/shared/timezone"
)

type eventDeps struct {
	repo  *eventMocks.MockEvent
	area  *areaMocks.MockArea
	cache *cacheMocks.MockRedisCache
}

func newEventService(ctrl *gomock.Controller) (service.Event, *eventDeps) {
	deps := &eventDeps{
		repo:  eventMocks.NewMockEvent(ctrl),
		area:  areaMocks.NewMockArea(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}

	deps.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	deps.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(deps.repo, deps.area, cfg, deps.cache, mocks.NewOtel())

	return svc, deps
}

func areaIDPtr(id string) *string { return &id }

func TestEventService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newEventService(ctrl)
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "staff-id")

	validStart := timezone.Format(timezone.Now().Add(time.Hour), constant.DateFormat)

	tests := []struct {
		name       string
		req        dto.CreateEventRequest
		setupMock  func()
		wantErr    bool
		wantReason string
	}{
		{
			name: "event targeting an existing area",
			req: dto.CreateEventRequest{
				Name:            "Graduation ceremony",
				Type:            "ceremony",
				AreaID:          areaIDPtr("area-id"),
				StartTime:       validStart,
				DurationMinutes: 120,
			},
			setupMock: func() {
				deps.area.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				deps.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				// Recompute runs right after the insert.
				deps.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Event{}, nil)
			},
		},
		{
			name: "campus-wide event without an area",
			req: dto.CreateEventRequest{
				Name:            "Orientation week",
				Type:            "announcement",
				StartTime:       validStart,
				DurationMinutes: 60,
			},
			setupMock: func() {
				deps.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				deps.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Event{}, nil)
			},
		},
		{
			name: "unknown area",
			req: dto.CreateEventRequest{
				Name:            "Maintenance window",
				Type:            "maintenance",
				AreaID:          areaIDPtr("missing-area"),
				StartTime:       validStart,
				DurationMinutes: 60,
			},
			setupMock: func() {
				deps.area.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr:    true,
			wantReason: failure.ReasonNotFound,
		},
		{
			name: "malformed start time",
			req: dto.CreateEventRequest{
				Name:            "Maintenance window",
				Type:            "maintenance",
				StartTime:       "next tuesday",
				DurationMinutes: 60,
			},
			setupMock:  func() {},
			wantErr:    true,
			wantReason: failure.ReasonValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Create(ctx, tt.req)

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

func TestEventService_RecomputeAreaStatuses(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newEventService(ctrl)
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "staff-id")

	now := timezone.Now()

	events := []model.Event{
		// Active right now: area-1 must be closed.
		{ID: "event-1", AreaID: areaIDPtr("area-1"), StartTime: now.Add(-30 * time.Minute), DurationMinutes: 60},
		// Already over: area-2 is eligible for reopening.
		{ID: "event-2", AreaID: areaIDPtr("area-2"), StartTime: now.Add(-3 * time.Hour), DurationMinutes: 60},
		// No target area: contributes nothing.
		{ID: "event-3", StartTime: now.Add(-30 * time.Minute), DurationMinutes: 60},
	}

	deps.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(events, nil)

	var closeFilter, reopenFilter gDto.FilterGroup

	deps.area.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, filter gDto.FilterGroup) error {
			switch fields[areaModel.FieldStatus] {
			case areaModel.StatusTemporarilyClose:
				closeFilter = filter
			case areaModel.StatusAvailable:
				reopenFilter = filter
			default:
				t.Fatalf("unexpected status write: %v", fields[areaModel.FieldStatus])
			}

			return nil
		}).
		Times(2)

	err := svc.RecomputeAreaStatuses(ctx)
	assert.NoError(t, err)

	// Closing targets area-1 and skips rows already temporarily_closed.
	assert.Equal(t, []string{"area-1"}, filterIDs(t, closeFilter))
	assert.Equal(t, gDto.FilterOperatorNotEq, statusGuard(t, closeFilter).Operator)

	// Reopening targets area-2 and only touches rows closed by the recompute.
	assert.Equal(t, []string{"area-2"}, filterIDs(t, reopenFilter))
	assert.Equal(t, gDto.FilterOperatorEq, statusGuard(t, reopenFilter).Operator)
}

// A second run over the same event set finds the guards already satisfied in
// the database, so the guarded updates match zero rows. With no events at all
// there is nothing referenced and no update is issued.
func TestEventService_RecomputeAreaStatuses_NoEventsNoWrites(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newEventService(ctrl)
	ctx := context.Background()

	deps.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Event{}, nil)

	err := svc.RecomputeAreaStatuses(ctx)
	assert.NoError(t, err)
}

func TestEventService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newEventService(ctrl)
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "staff-id")

	tests := []struct {
		name       string
		setupMock  func()
		wantErr    bool
		wantReason string
	}{
		{
			name: "delete triggers recompute",
			setupMock: func() {
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Event{ID: "event-id"}, nil)
				deps.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
				deps.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Event{}, nil)
			},
		},
		{
			name: "delete unknown event",
			setupMock: func() {
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Event{}, nil)
			},
			wantErr:    true,
			wantReason: failure.ReasonNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Delete(ctx, "event-id")

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

func filterIDs(t *testing.T, group gDto.FilterGroup) []string {
	t.Helper()

	for _, raw := range group.Filters {
		filter, ok := raw.(gDto.Filter)
		if !ok || filter.Field != areaModel.FieldID {
			continue
		}

		ids, ok := filter.Value.([]string)
		if !ok {
			t.Fatalf("id filter value is %T, want []string", filter.Value)
		}

		return ids
	}

	t.Fatal("filter group has no id filter")

	return nil
}

func statusGuard(t *testing.T, group gDto.FilterGroup) gDto.Filter {
	t.Helper()

	for _, raw := range group.Filters {
		filter, ok := raw.(gDto.Filter)
		if !ok || filter.Field != areaModel.FieldStatus {
			continue
		}

		return filter
	}

	t.Fatal("filter group has no status guard")

	return gDto.Filter{}
}
