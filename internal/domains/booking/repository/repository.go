package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"mawgifi/infras/otel"
	"mawgifi/infras/postgres"
	"mawgifi/internal/domains/booking/model"
	"mawgifi/shared/constant"
	gDto "mawgifi/shared/dto"
	"mawgifi/shared/logger"
	gRepo "mawgifi/shared/repository"
	"time"

	"github.com/jmoiron/sqlx"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error
	HasOverlapTx(ctx context.Context, sqltx *sqlx.Tx, spaceID string, start, end time.Time, excludeID string) (bool, error)
	GetBookedSpaceIDs(ctx context.Context, start, end time.Time) ([]string, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// HasOverlapTx runs the half-open overlap test against active bookings for
// one space, inside the caller's transaction. The caller must have locked
// the space row first so that concurrent check-and-insert sequences for the
// same space are serialized.
func (repo *repositoryImpl) HasOverlapTx(ctx context.Context, sqltx *sqlx.Tx, spaceID string, start, end time.Time, excludeID string) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.HasOverlapTx")
	defer scope.End()

	query := `SELECT EXISTS(
		SELECT 1 FROM bookings
		WHERE space_id = :space_id
		AND status IN ('pending', 'checked_in')
		AND start_time < :end_time
		AND end_time > :start_time
		AND id != :exclude_id
	)`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	args := map[string]any{
		"space_id":   spaceID,
		"start_time": start,
		"end_time":   end,
		"exclude_id": excludeID,
	}

	prepare, err := sqltx.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to prepare overlap check: %w", err)
	}
	defer prepare.Close()

	hasOverlap := false

	err = prepare.GetContext(ctx, &hasOverlap, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to check booking overlap: %w", err)
	}

	return hasOverlap, nil
}

// GetBookedSpaceIDs returns the distinct spaces with an active booking
// overlapping [start, end).
func (repo *repositoryImpl) GetBookedSpaceIDs(ctx context.Context, start, end time.Time) ([]string, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.GetBookedSpaceIDs")
	defer scope.End()

	query := `SELECT DISTINCT space_id FROM bookings
		WHERE status IN ('pending', 'checked_in')
		AND start_time < :end_time
		AND end_time > :start_time`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	args := map[string]any{
		"start_time": start,
		"end_time":   end,
	}

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to prepare booked spaces query: %w", err)
	}
	defer prepare.Close()

	var spaceIDs []string

	err = prepare.SelectContext(ctx, &spaceIDs, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get booked spaces: %w", err)
	}

	return spaceIDs, nil
}
