package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"mawgifi/config"
	"mawgifi/infras/otel/mocks"
	areaMocks "mawgifi/internal/domains/area/mocks"
	"mawgifi/internal/domains/area/model"
	"mawgifi/internal/domains/area/model/dto"
	"mawgifi/internal/domains/area/service"
	spaceMocks "mawgifi/internal/domains/space/mocks"
	cacheMocks "mawgifi/shared/cache/mocks"
	"mawgifi/shared/constant"
	"mawgifi/shared/failure"
)

type areaDeps struct {
	repo  *areaMocks.MockArea
	space *spaceMocks.MockSpace
	cache *cacheMocks.MockRedisCache
}

func newAreaService(ctrl *gomock.Controller) (service.Area, *areaDeps) {
	deps := &areaDeps{
		repo:  areaMocks.NewMockArea(ctrl),
		space: spaceMocks.NewMockSpace(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}

	deps.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	deps.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(deps.repo, deps.space, cfg, deps.cache, mocks.NewOtel())

	return svc, deps
}

func TestAreaService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newAreaService(ctrl)
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-id")

	req := dto.CreateAreaRequest{Name: "North Lot", Type: "parking", Size: 40}

	deps.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, area model.Area) error {
			assert.NotEmpty(t, area.ID)
			assert.Equal(t, "North Lot", area.Name)
			assert.Equal(t, model.StatusAvailable, area.Status)
			assert.Equal(t, "admin-id", area.CreatedBy)

			return nil
		})

	err := svc.Create(ctx, req)
	assert.NoError(t, err)
}

func TestAreaService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newAreaService(ctrl)
	ctx := context.Background()

	tests := []struct {
		name       string
		setupMock  func()
		wantErr    bool
		wantReason string
	}{
		{
			name: "cache miss falls back to the database",
			setupMock: func() {
				deps.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Area{ID: "area-id", Name: "North Lot"}, nil)
				deps.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			},
		},
		{
			name: "unknown area",
			setupMock: func() {
				deps.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Area{}, nil)
			},
			wantErr:    true,
			wantReason: failure.ReasonNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Get(ctx, "area-id")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantReason, failure.GetReason(err))
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "area-id", res.ID)
		})
	}
}

func TestAreaService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newAreaService(ctrl)
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-id")

	tests := []struct {
		name       string
		req        dto.UpdateAreaRequest
		setupMock  func()
		wantErr    bool
		wantReason string
	}{
		{
			name: "close area for maintenance",
			req:  dto.UpdateAreaRequest{Status: model.StatusUnderMaintenance},
			setupMock: func() {
				deps.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				deps.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:       "empty request",
			req:        dto.UpdateAreaRequest{},
			setupMock:  func() {},
			wantErr:    true,
			wantReason: failure.ReasonValidation,
		},
		{
			name: "unknown area",
			req:  dto.UpdateAreaRequest{Name: "South Lot"},
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

			err := svc.Update(ctx, tt.req, "area-id")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantReason, failure.GetReason(err))
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestAreaService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newAreaService(ctrl)
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-id")

	tests := []struct {
		name       string
		setupMock  func()
		wantErr    bool
		wantReason string
	}{
		{
			name: "delete empty area",
			setupMock: func() {
				deps.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				deps.space.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				deps.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "delete area that still has spaces",
			setupMock: func() {
				deps.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				deps.space.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr:    true,
			wantReason: failure.ReasonInvalidState,
		},
		{
			name: "delete unknown area",
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

			err := svc.Delete(ctx, "area-id")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantReason, failure.GetReason(err))
				return
			}

			assert.NoError(t, err)
		})
	}
}
