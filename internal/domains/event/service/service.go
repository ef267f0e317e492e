package service

import (
	"context"
	"fmt"
	"mawgifi/config"
	"mawgifi/infras/otel"
	areaModel "mawgifi/internal/domains/area/model"
	areaRepo "mawgifi/internal/domains/area/repository"
	"mawgifi/internal/domains/availability"
	"mawgifi/internal/domains/event/model"
	"mawgifi/internal/domains/event/model/dto"
	"mawgifi/internal/domains/event/repository"
	"mawgifi/shared"
	"mawgifi/shared/cache"
	"mawgifi/shared/constant"
	gDto "mawgifi/shared/dto"
	"mawgifi/shared/failure"
	"mawgifi/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetEvent    = "event:get"
	cacheGetAllEvent = "event:gets"
	cacheCountEvent  = "event:count"

	cacheAvailability = "availability"
)

type Event interface {
	Create(ctx context.Context, req dto.CreateEventRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetEventsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.EventResponse, error)
	Update(ctx context.Context, req dto.UpdateEventRequest, id string) error
	Delete(ctx context.Context, id string) error
	Windows(ctx context.Context) ([]availability.EventWindow, error)
	RecomputeAreaStatuses(ctx context.Context) error
}

type serviceImpl struct {
	repo     repository.Event
	areaRepo areaRepo.Area
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo repository.Event, areaRepo areaRepo.Area, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Event {
	return &serviceImpl{
		repo:     repo,
		areaRepo: areaRepo,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateEventRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateEvent")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if req.AreaID != nil {
		areaExists, err := s.areaRepo.Exist(ctx, shared.FilterByID(*req.AreaID, areaModel.FieldID, areaModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to check if area exists")

			return fmt.Errorf("failed to check if area exists: %w", err)
		}

		if !areaExists {
			return failure.NotFound("area not found") //nolint:wrapcheck
		}
	}

	event, err := req.ToModel(user)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse event request")

		return failure.BadRequestFromString(fmt.Sprintf("invalid start time format: %v", err)) //nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, event); err != nil {
		log.Error().Err(err).Msg("failed to create event")

		return fmt.Errorf("failed to create event: %w", err)
	}

	if err = s.RecomputeAreaStatuses(ctx); err != nil {
		log.Error().Err(err).Msg("failed to recompute area statuses after event create")

		return err
	}

	s.invalidate(ctx, "")

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetEventsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAllEvents")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllEvent, req)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for events")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count events")

		return res, fmt.Errorf("failed to count events: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get events")

		return res, fmt.Errorf("failed to get events: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save events to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CountEvents")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountEvent, req)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count events")

		return res, fmt.Errorf("failed to count events: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save event count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.EventResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetEvent")
	defer scope.End()
	defer scope.TraceIfError(err)

	event, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get event")

		return res, fmt.Errorf("failed to get event: %w", err)
	}

	if event.ID == constant.Empty {
		return res, failure.NotFound("event not found") //nolint:wrapcheck
	}

	res.FromModel(event)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateEventRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateEvent")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if event exists")

		return fmt.Errorf("failed to check if event exists: %w", err)
	}

	if !exist {
		return failure.NotFound("event not found") //nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)

	if req.StartTime != "" {
		start, err := timezone.Parse(constant.DateFormat, req.StartTime)
		if err != nil {
			return failure.BadRequestFromString(fmt.Sprintf("invalid start time format: %v", err)) //nolint:wrapcheck
		}

		updatedFields[model.FieldStartTime] = start
	}

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update event")

		return fmt.Errorf("failed to update event: %w", err)
	}

	if err = s.RecomputeAreaStatuses(ctx); err != nil {
		log.Error().Err(err).Msg("failed to recompute area statuses after event update")

		return err
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteEvent")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	event, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get event")

		return fmt.Errorf("failed to get event: %w", err)
	}

	if event.ID == constant.Empty {
		return failure.NotFound("event not found") //nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete event")

		return fmt.Errorf("failed to delete event: %w", err)
	}

	// The deleted event may have been the only one keeping its area closed.
	if err = s.RecomputeAreaStatuses(ctx); err != nil {
		log.Error().Err(err).Msg("failed to recompute area statuses after event delete")

		return err
	}

	s.invalidate(ctx, id)

	return nil
}

// Windows loads every event as a pure availability window.
func (s *serviceImpl) Windows(ctx context.Context) (res []availability.EventWindow, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".EventWindows")
	defer scope.End()
	defer scope.TraceIfError(err)

	events, err := s.repo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to load events")

		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	return model.Windows(events), nil
}

// RecomputeAreaStatuses derives area status from the current events.
// Areas with an active event are forced to temporarily_closed. Areas that
// are referenced by some event but have none active are reset to available,
// but only when currently temporarily_closed, so manual occupied or
// under_maintenance settings survive. Running it twice without intervening
// event mutations writes nothing the second time.
func (s *serviceImpl) RecomputeAreaStatuses(ctx context.Context) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RecomputeAreaStatuses")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	windows, err := s.Windows(ctx)
	if err != nil {
		return err
	}

	now := timezone.Now()
	closed := availability.ClosedAreaIDs(windows, now)
	referenced := availability.ReferencedAreaIDs(windows)

	closedIDs := make([]string, 0, len(closed))
	for id := range closed {
		closedIDs = append(closedIDs, id)
	}

	reopenIDs := make([]string, 0, len(referenced))
	for id := range referenced {
		if _, stillClosed := closed[id]; !stillClosed {
			reopenIDs = append(reopenIDs, id)
		}
	}

	if len(closedIDs) > 0 {
		closeFields := map[string]any{
			areaModel.FieldStatus:    areaModel.StatusTemporarilyClose,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: user,
		}

		closeFilter := gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorAnd,
			Filters: []any{
				gDto.Filter{Field: areaModel.FieldID, Operator: gDto.FilterOperatorIn, Value: closedIDs, Table: areaModel.TableName},
				gDto.Filter{ArgName: "current_status", Field: areaModel.FieldStatus, Operator: gDto.FilterOperatorNotEq, Value: areaModel.StatusTemporarilyClose, Table: areaModel.TableName},
			},
		}

		if err = s.areaRepo.Update(ctx, closeFields, closeFilter); err != nil {
			log.Error().Err(err).Msg("failed to close areas with active events")

			return fmt.Errorf("failed to close areas with active events: %w", err)
		}
	}

	if len(reopenIDs) > 0 {
		reopenFields := map[string]any{
			areaModel.FieldStatus:    areaModel.StatusAvailable,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: user,
		}

		reopenFilter := gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorAnd,
			Filters: []any{
				gDto.Filter{Field: areaModel.FieldID, Operator: gDto.FilterOperatorIn, Value: reopenIDs, Table: areaModel.TableName},
				gDto.Filter{ArgName: "current_status", Field: areaModel.FieldStatus, Operator: gDto.FilterOperatorEq, Value: areaModel.StatusTemporarilyClose, Table: areaModel.TableName},
			},
		}

		if err = s.areaRepo.Update(ctx, reopenFields, reopenFilter); err != nil {
			log.Error().Err(err).Msg("failed to reopen areas without active events")

			return fmt.Errorf("failed to reopen areas without active events: %w", err)
		}
	}

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetEvent, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete event from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllEvent, cacheCountEvent, cacheAvailability)
	}()
}
