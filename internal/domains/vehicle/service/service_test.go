package service_test

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"mawgifi/config"
	"mawgifi/infras/otel/mocks"
	vehicleMocks "mawgifi/internal/domains/vehicle/mocks"
	"mawgifi/internal/domains/vehicle/model"
	"mawgifi/internal/domains/vehicle/model/dto"
	"mawgifi/internal/domains/vehicle/service"
	cacheMocks "mawgifi/shared/cache/mocks"
	"mawgifi/shared/constant"
	gDto "mawgifi/shared/dto"
	"mawgifi/shared/failure"
)

func newVehicleService(ctrl *gomock.Controller) (service.Vehicle, *vehicleMocks.MockVehicle) {
	repo := vehicleMocks.NewMockVehicle(ctrl)

	cache := cacheMocks.NewMockRedisCache(ctrl)
	cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	return service.New(repo, cfg, cache, mocks.NewOtel()), repo
}

func requesterContext(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func TestVehicleService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newVehicleService(ctrl)
	ctx := requesterContext("student-id", constant.RoleStudent)

	req := dto.CreateVehicleRequest{Type: "motorcycle", Model: "Honda Beat", Plate: "B 1234 XYZ"}

	tests := []struct {
		name       string
		setupMock  func()
		wantErr    bool
		wantReason string
	}{
		{
			name: "successful registration",
			setupMock: func() {
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, vehicle model.Vehicle) error {
						assert.Equal(t, "student-id", vehicle.OwnerID)
						assert.Equal(t, model.ApprovalPending, vehicle.ApprovalStatus)

						return nil
					})
			},
		},
		{
			name: "duplicate plate",
			setupMock: func() {
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: "23505"})
			},
			wantErr:    true,
			wantReason: failure.ReasonValidation,
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

func TestVehicleService_Ownership(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newVehicleService(ctrl)

	vehicle := model.Vehicle{ID: "vehicle-id", OwnerID: "owner-id", Plate: "B 1234 XYZ", ApprovalStatus: model.ApprovalApproved}

	tests := []struct {
		name       string
		ctx        context.Context
		wantErr    bool
		wantReason string
	}{
		{
			name: "owner reads own vehicle",
			ctx:  requesterContext("owner-id", constant.RoleStudent),
		},
		{
			name:       "other student rejected",
			ctx:        requesterContext("other-id", constant.RoleStudent),
			wantErr:    true,
			wantReason: failure.ReasonUnauthorized,
		},
		{
			name: "staff may read any vehicle",
			ctx:  requesterContext("staff-id", constant.RoleStaff),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(vehicle, nil)

			res, err := svc.Get(tt.ctx, "vehicle-id")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantReason, failure.GetReason(err))
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "vehicle-id", res.ID)
		})
	}
}

func TestVehicleService_Update_PlateChangeResetsApproval(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newVehicleService(ctrl)
	ctx := requesterContext("owner-id", constant.RoleStudent)

	vehicle := model.Vehicle{ID: "vehicle-id", OwnerID: "owner-id", ApprovalStatus: model.ApprovalApproved}

	repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(vehicle, nil)
	repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, model.ApprovalPending, fields[model.FieldApprovalStatus])
			assert.Equal(t, "B 9999 ZZZ", fields[model.FieldPlate])

			return nil
		})

	err := svc.Update(ctx, dto.UpdateVehicleRequest{Plate: "B 9999 ZZZ"}, "vehicle-id")
	assert.NoError(t, err)
}

func TestVehicleService_Update_ModelOnlyKeepsApproval(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newVehicleService(ctrl)
	ctx := requesterContext("owner-id", constant.RoleStudent)

	vehicle := model.Vehicle{ID: "vehicle-id", OwnerID: "owner-id", ApprovalStatus: model.ApprovalApproved}

	repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(vehicle, nil)
	repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			_, touched := fields[model.FieldApprovalStatus]
			assert.False(t, touched)

			return nil
		})

	err := svc.Update(ctx, dto.UpdateVehicleRequest{Model: "Honda Vario"}, "vehicle-id")
	assert.NoError(t, err)
}

func TestVehicleService_Approve(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newVehicleService(ctrl)
	ctx := requesterContext("staff-id", constant.RoleStaff)

	tests := []struct {
		name       string
		setupMock  func()
		wantErr    bool
		wantReason string
	}{
		{
			name: "approve pending vehicle",
			setupMock: func() {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, model.ApprovalApproved, fields[model.FieldApprovalStatus])

						return nil
					})
			},
		},
		{
			name: "unknown vehicle",
			setupMock: func() {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr:    true,
			wantReason: failure.ReasonNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Approve(ctx, dto.ApproveVehicleRequest{ApprovalStatus: model.ApprovalApproved}, "vehicle-id")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantReason, failure.GetReason(err))
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestVehicleService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newVehicleService(ctrl)
	ctx := requesterContext("other-id", constant.RoleStudent)

	vehicle := model.Vehicle{ID: "vehicle-id", OwnerID: "owner-id"}

	repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(vehicle, nil)

	err := svc.Delete(ctx, "vehicle-id")

	assert.Error(t, err)
	assert.Equal(t, failure.ReasonUnauthorized, failure.GetReason(err))
}
