package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"mawgifi/infras/jwt"
	jwtMocks "mawgifi/infras/jwt/mocks"
	"mawgifi/infras/otel/mocks"
	"mawgifi/internal/domains/auth/model/dto"
	"mawgifi/internal/domains/auth/service"
	userMocks "mawgifi/internal/domains/user/mocks"
	"mawgifi/internal/domains/user/model"
	"mawgifi/shared/constant"
	"mawgifi/shared/failure"
)

// bcrypt hash of "password".
const passwordHash = "$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi"

type authDeps struct {
	repo *userMocks.MockUser
	jwt  *jwtMocks.MockJWT
}

func newAuthService(ctrl *gomock.Controller) (service.Auth, *authDeps) {
	deps := &authDeps{
		repo: userMocks.NewMockUser(ctrl),
		jwt:  jwtMocks.NewMockJWT(ctrl),
	}

	svc := service.New(deps.repo, deps.jwt, mocks.NewOtel())

	return svc, deps
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newAuthService(ctrl)
	ctx := context.Background()

	activeUser := model.User{
		ID:       "user-id",
		Email:    "student@campus.edu",
		Password: passwordHash,
		Role:     constant.RoleStudent,
		Active:   true,
	}

	pair := &jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 900}

	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "valid credentials",
			req:  dto.LoginRequest{Email: "student@campus.edu", Password: "password"},
			setupMock: func() {
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeUser, nil)
				deps.jwt.EXPECT().GenerateTokenPair("user-id", "student@campus.edu", constant.RoleStudent).Return(pair, nil)
			},
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Email: "student@campus.edu", Password: "hunter2"},
			setupMock: func() {
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeUser, nil)
			},
			wantErr: true,
		},
		{
			name: "unknown email",
			req:  dto.LoginRequest{Email: "nobody@campus.edu", Password: "password"},
			setupMock: func() {
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)
			},
			wantErr: true,
		},
		{
			name: "deactivated account",
			req:  dto.LoginRequest{Email: "student@campus.edu", Password: "password"},
			setupMock: func() {
				inactive := activeUser
				inactive.Active = false
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(inactive, nil)
			},
			wantErr: true,
		},
		{
			name: "repository error",
			req:  dto.LoginRequest{Email: "student@campus.edu", Password: "password"},
			setupMock: func() {
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Login(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				// Every failure mode reads the same to the caller.
				assert.Equal(t, failure.ReasonUnauthorized, failure.GetReason(err))
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "access", res.AccessToken)
			assert.Equal(t, "refresh", res.RefreshToken)
			assert.Equal(t, constant.RoleStudent, res.Role)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newAuthService(ctrl)
	ctx := context.Background()

	pair := &jwt.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh", ExpiresIn: 900}

	deps.jwt.EXPECT().RefreshTokens("old-refresh").Return(pair, nil)

	res, err := svc.RefreshToken(ctx, dto.RefreshTokenRequest{RefreshToken: "old-refresh"})
	assert.NoError(t, err)
	assert.Equal(t, "new-access", res.AccessToken)

	deps.jwt.EXPECT().RefreshTokens("expired").Return(nil, errors.New("token is expired"))

	_, err = svc.RefreshToken(ctx, dto.RefreshTokenRequest{RefreshToken: "expired"})
	assert.Error(t, err)
	assert.Equal(t, failure.ReasonUnauthorized, failure.GetReason(err))
}
