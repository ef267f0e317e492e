//go:build wireinject
// +build wireinject

package di

import (
	"mawgifi/config"
	"mawgifi/infras/jwt"
	"mawgifi/infras/kafka"
	"mawgifi/infras/otel"
	"mawgifi/infras/postgres"
	"mawgifi/infras/qr"
	"mawgifi/infras/redis"
	"mawgifi/permissions"
	"mawgifi/shared/cache"
	"mawgifi/transport/http"
	"mawgifi/transport/http/middleware"
	"mawgifi/transport/http/router"

	"github.com/google/wire"

	areaRepository "mawgifi/internal/domains/area/repository"
	areaService "mawgifi/internal/domains/area/service"
	authService "mawgifi/internal/domains/auth/service"
	bookingRepository "mawgifi/internal/domains/booking/repository"
	bookingService "mawgifi/internal/domains/booking/service"
	eventRepository "mawgifi/internal/domains/event/repository"
	eventService "mawgifi/internal/domains/event/service"
	spaceRepository "mawgifi/internal/domains/space/repository"
	spaceService "mawgifi/internal/domains/space/service"
	userRepository "mawgifi/internal/domains/user/repository"
	vehicleRepository "mawgifi/internal/domains/vehicle/repository"
	vehicleService "mawgifi/internal/domains/vehicle/service"

	areaHandler "mawgifi/internal/handlers/area"
	authHandler "mawgifi/internal/handlers/auth"
	bookingHandler "mawgifi/internal/handlers/booking"
	eventHandler "mawgifi/internal/handlers/event"
	spaceHandler "mawgifi/internal/handlers/space"
	vehicleHandler "mawgifi/internal/handlers/vehicle"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	qr.New,
)

var middlewares = wire.NewSet(
	permissions.Get,
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var areaDomain = wire.NewSet(
	areaRepository.New,
	areaService.New,
)

var spaceDomain = wire.NewSet(
	spaceRepository.New,
	spaceService.New,
)

var vehicleDomain = wire.NewSet(
	vehicleRepository.New,
	vehicleService.New,
)

var eventDomain = wire.NewSet(
	eventRepository.New,
	eventService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var domains = wire.NewSet(
	authDomain,
	areaDomain,
	spaceDomain,
	vehicleDomain,
	eventDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	areaHandler.New,
	spaceHandler.New,
	vehicleHandler.New,
	eventHandler.New,
	bookingHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
