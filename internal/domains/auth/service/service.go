package service

import (
	"context"
	"mawgifi/infras/jwt"
	"mawgifi/infras/otel"
	"mawgifi/internal/domains/auth/model/dto"
	userModel "mawgifi/internal/domains/user/model"
	userRepo "mawgifi/internal/domains/user/repository"
	"mawgifi/shared"
	"mawgifi/shared/constant"
	"mawgifi/shared/failure"
	"mawgifi/shared/password"

	"github.com/rs/zerolog/log"
)

type Auth interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error)
}

type serviceImpl struct {
	repo userRepo.User
	jwt  jwt.JWT
	otel otel.Otel
}

func New(repo userRepo.User, jwt jwt.JWT, otel otel.Otel) Auth {
	return &serviceImpl{
		repo: repo,
		jwt:  jwt,
		otel: otel,
	}
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.repo.Get(ctx, shared.FilterByID(req.Email, userModel.FieldEmail, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, failure.Unauthorized("invalid email or password") //nolint:wrapcheck
	}

	if user.ID == constant.Empty || !user.Active {
		return res, failure.Unauthorized("invalid email or password") //nolint:wrapcheck
	}

	if err = password.Verify(req.Password, user.Password); err != nil {
		return res, failure.Unauthorized("invalid email or password") //nolint:wrapcheck
	}

	tokenPair, err := s.jwt.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate token pair")

		return res, failure.InternalError(err) //nolint:wrapcheck
	}

	res.FromTokenPair(tokenPair, user.Role)

	return res, nil
}

func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.RefreshTokenResponse, err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefreshToken")
	defer scope.End()
	defer scope.TraceIfError(err)

	tokenPair, err := s.jwt.RefreshTokens(req.RefreshToken)
	if err != nil {
		return res, failure.Unauthorized("invalid refresh token") //nolint:wrapcheck
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}
