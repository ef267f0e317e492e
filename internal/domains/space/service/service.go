package service

import (
	"context"
	"fmt"
	"mawgifi/config"
	"mawgifi/infras/otel"
	areaModel "mawgifi/internal/domains/area/model"
	areaRepo "mawgifi/internal/domains/area/repository"
	"mawgifi/internal/domains/availability"
	bookingModel "mawgifi/internal/domains/booking/model"
	bookingRepo "mawgifi/internal/domains/booking/repository"
	eventService "mawgifi/internal/domains/event/service"
	"mawgifi/internal/domains/space/model"
	"mawgifi/internal/domains/space/model/dto"
	"mawgifi/internal/domains/space/repository"
	"mawgifi/shared"
	"mawgifi/shared/cache"
	"mawgifi/shared/constant"
	gDto "mawgifi/shared/dto"
	"mawgifi/shared/failure"
	"mawgifi/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetSpace    = "space:get"
	cacheGetAllSpace = "space:gets"
	cacheCountSpace  = "space:count"

	cacheAvailability = "availability"
)

type Space interface {
	Create(ctx context.Context, req dto.CreateSpaceRequest) error
	BulkCreate(ctx context.Context, req dto.BulkCreateSpacesRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetSpacesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.SpaceResponse, error)
	Update(ctx context.Context, req dto.UpdateSpaceRequest, id string) error
	Delete(ctx context.Context, id string) error
	ListAvailability(ctx context.Context, areaID string) (dto.ListAvailabilityResponse, error)
}

type serviceImpl struct {
	repo        repository.Space
	areaRepo    areaRepo.Area
	bookingRepo bookingRepo.Booking
	events      eventService.Event
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Space,
	areaRepo areaRepo.Area,
	bookingRepo bookingRepo.Booking,
	events eventService.Event,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Space {
	return &serviceImpl{
		repo:        repo,
		areaRepo:    areaRepo,
		bookingRepo: bookingRepo,
		events:      events,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateSpaceRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateSpace")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	areaExists, err := s.areaRepo.Exist(ctx, shared.FilterByID(req.AreaID, areaModel.FieldID, areaModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if area exists")

		return fmt.Errorf("failed to check if area exists: %w", err)
	}

	if !areaExists {
		return failure.NotFound("area not found") //nolint:wrapcheck
	}

	if err = s.checkCapacity(ctx, 1); err != nil {
		return err
	}

	if err = s.repo.Insert(ctx, req.ToModel(user)); err != nil {
		if shared.IsUniqueViolation(err) {
			return failure.BadRequestFromString("space code already exists in this area") //nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create space")

		return fmt.Errorf("failed to create space: %w", err)
	}

	s.invalidate(ctx, "")

	return nil
}

func (s *serviceImpl) BulkCreate(ctx context.Context, req dto.BulkCreateSpacesRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".BulkCreateSpaces")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	areaExists, err := s.areaRepo.Exist(ctx, shared.FilterByID(req.AreaID, areaModel.FieldID, areaModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if area exists")

		return fmt.Errorf("failed to check if area exists: %w", err)
	}

	if !areaExists {
		return failure.NotFound("area not found") //nolint:wrapcheck
	}

	if err = s.checkCapacity(ctx, len(req.Codes)); err != nil {
		return err
	}

	if err = s.repo.InsertBulk(ctx, req.ToModels(user)); err != nil {
		if shared.IsUniqueViolation(err) {
			return failure.BadRequestFromString("space code already exists in this area") //nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to bulk create spaces")

		return fmt.Errorf("failed to bulk create spaces: %w", err)
	}

	s.invalidate(ctx, "")

	return nil
}

// checkCapacity enforces the system-wide cap on the number of spaces.
func (s *serviceImpl) checkCapacity(ctx context.Context, adding int) error {
	total, err := s.repo.Count(ctx, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to count spaces")

		return fmt.Errorf("failed to count spaces: %w", err)
	}

	maxSpaces := s.cfg.Parking.MaxSpaces
	if total+adding > maxSpaces {
		return failure.CapacityExceeded(fmt.Sprintf("space limit of %d reached", maxSpaces)) //nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetSpacesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAllSpaces")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllSpace, req)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for spaces")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count spaces")

		return res, fmt.Errorf("failed to count spaces: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get spaces")

		return res, fmt.Errorf("failed to get spaces: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save spaces to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CountSpaces")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountSpace, req)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count spaces")

		return res, fmt.Errorf("failed to count spaces: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save space count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.SpaceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetSpace")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetSpace, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for space")

		return res, nil
	}

	space, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get space")

		return res, fmt.Errorf("failed to get space: %w", err)
	}

	if space.ID == constant.Empty {
		return res, failure.NotFound("space not found") //nolint:wrapcheck
	}

	res.FromModel(space)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save space to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateSpaceRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateSpace")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateSpaceRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") //nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if space exists")

		return fmt.Errorf("failed to check if space exists: %w", err)
	}

	if !exist {
		return failure.NotFound("space not found") //nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		if shared.IsUniqueViolation(err) {
			return failure.BadRequestFromString("space code already exists in this area") //nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to update space")

		return fmt.Errorf("failed to update space: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteSpace")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if space exists")

		return fmt.Errorf("failed to check if space exists: %w", err)
	}

	if !exist {
		return failure.NotFound("space not found") //nolint:wrapcheck
	}

	// A space with live bookings cannot be removed.
	bookingFilter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: bookingModel.FieldSpaceID, Operator: gDto.FilterOperatorEq, Value: id, Table: bookingModel.TableName},
			gDto.Filter{Field: bookingModel.FieldStatus, Operator: gDto.FilterOperatorIn, Value: bookingModel.ActiveStatuses, Table: bookingModel.TableName},
		},
	}

	hasBookings, err := s.bookingRepo.Exist(ctx, bookingFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check space bookings")

		return fmt.Errorf("failed to check space bookings: %w", err)
	}

	if hasBookings {
		return failure.InvalidState("space still has active bookings") //nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete space")

		return fmt.Errorf("failed to delete space: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// ListAvailability evaluates the effective open/closed state of every
// space, optionally limited to one area. The event-driven recompute runs
// first so the area statuses are fresh.
func (s *serviceImpl) ListAvailability(ctx context.Context, areaID string) (res dto.ListAvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListAvailability")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.events.RecomputeAreaStatuses(ctx); err != nil {
		return res, err
	}

	spaceFilter := gDto.FilterGroup{}
	if areaID != constant.Empty {
		spaceFilter = shared.FilterByID(areaID, model.FieldAreaID, model.TableName)
	}

	spaces, err := s.repo.GetAll(ctx, gDto.QueryParams{}, spaceFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get spaces")

		return res, fmt.Errorf("failed to get spaces: %w", err)
	}

	areas, err := s.areaRepo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get areas")

		return res, fmt.Errorf("failed to get areas: %w", err)
	}

	areasByID := make(map[string]areaModel.Area, len(areas))
	for _, area := range areas {
		areasByID[area.ID] = area
	}

	windows, err := s.events.Windows(ctx)
	if err != nil {
		return res, err
	}

	// A nanosecond-wide interval makes Overlaps behave like a point-in-time
	// containment check at now.
	now := timezone.Now()
	instant := availability.Interval{Start: now, End: now.Add(time.Nanosecond)}

	res.Spaces = make([]dto.SpaceAvailabilityResponse, len(spaces))

	for i, space := range spaces {
		spaceState := availability.SpaceState{Exists: true, AreaID: space.AreaID, Status: space.Status}

		areaState := availability.AreaState{}
		if area, ok := areasByID[space.AreaID]; ok {
			areaState = availability.AreaState{Exists: true, Status: area.Status}
		}

		decision := availability.Check(spaceState, areaState, windows, instant)
		res.Spaces[i].FromDecision(space, decision)
	}

	return res, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetSpace, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete space from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllSpace, cacheCountSpace, cacheAvailability)
	}()
}
