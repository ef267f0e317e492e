package service

import (
	"context"
	"fmt"
	"mawgifi/config"
	"mawgifi/infras/otel"
	"mawgifi/internal/domains/area/model"
	"mawgifi/internal/domains/area/model/dto"
	"mawgifi/internal/domains/area/repository"
	spaceModel "mawgifi/internal/domains/space/model"
	spaceRepo "mawgifi/internal/domains/space/repository"
	"mawgifi/shared"
	"mawgifi/shared/cache"
	"mawgifi/shared/constant"
	gDto "mawgifi/shared/dto"
	"mawgifi/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetArea    = "area:get"
	cacheGetAllArea = "area:gets"
	cacheCountArea  = "area:count"

	cacheAvailability = "availability"
)

type Area interface {
	Create(ctx context.Context, req dto.CreateAreaRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetAreasResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.AreaResponse, error)
	Update(ctx context.Context, req dto.UpdateAreaRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo      repository.Area
	spaceRepo spaceRepo.Space
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(repo repository.Area, spaceRepo spaceRepo.Space, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Area {
	return &serviceImpl{
		repo:      repo,
		spaceRepo: spaceRepo,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateAreaRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateArea")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.repo.Insert(ctx, req.ToModel(user)); err != nil {
		log.Error().Err(err).Msg("failed to create area")

		return fmt.Errorf("failed to create area: %w", err)
	}

	s.invalidate(ctx, "")

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetAreasResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAllAreas")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllArea, req)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for areas")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count areas")

		return res, fmt.Errorf("failed to count areas: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get areas")

		return res, fmt.Errorf("failed to get areas: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save areas to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CountAreas")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountArea, req)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count areas")

		return res, fmt.Errorf("failed to count areas: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save area count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.AreaResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetArea")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetArea, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for area")

		return res, nil
	}

	area, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get area")

		return res, fmt.Errorf("failed to get area: %w", err)
	}

	if area.ID == constant.Empty {
		return res, failure.NotFound("area not found") //nolint:wrapcheck
	}

	res.FromModel(area)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save area to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateAreaRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateArea")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateAreaRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") //nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if area exists")

		return fmt.Errorf("failed to check if area exists: %w", err)
	}

	if !exist {
		return failure.NotFound("area not found") //nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update area")

		return fmt.Errorf("failed to update area: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteArea")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if area exists")

		return fmt.Errorf("failed to check if area exists: %w", err)
	}

	if !exist {
		return failure.NotFound("area not found") //nolint:wrapcheck
	}

	// An area with spaces cannot be removed; spaces (and their bookings)
	// must go first.
	hasSpaces, err := s.spaceRepo.Exist(ctx, shared.FilterByID(id, spaceModel.FieldAreaID, spaceModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check area spaces")

		return fmt.Errorf("failed to check area spaces: %w", err)
	}

	if hasSpaces {
		return failure.InvalidState("area still has spaces") //nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete area")

		return fmt.Errorf("failed to delete area: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetArea, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete area from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllArea, cacheCountArea, cacheAvailability)
	}()
}
