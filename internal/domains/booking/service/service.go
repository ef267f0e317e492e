package service

import (
	"context"
	"fmt"
	"mawgifi/config"
	"mawgifi/infras/kafka"
	"mawgifi/infras/otel"
	"mawgifi/infras/qr"
	areaModel "mawgifi/internal/domains/area/model"
	areaRepo "mawgifi/internal/domains/area/repository"
	"mawgifi/internal/domains/availability"
	"mawgifi/internal/domains/booking/model"
	"mawgifi/internal/domains/booking/model/dto"
	"mawgifi/internal/domains/booking/repository"
	eventService "mawgifi/internal/domains/event/service"
	spaceModel "mawgifi/internal/domains/space/model"
	spaceRepo "mawgifi/internal/domains/space/repository"
	vehicleModel "mawgifi/internal/domains/vehicle/model"
	vehicleRepo "mawgifi/internal/domains/vehicle/repository"
	"mawgifi/shared"
	"mawgifi/shared/constant"
	gDto "mawgifi/shared/dto"
	"mawgifi/shared/failure"
	"mawgifi/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	eventBookingCreated    = "booking.created"
	eventBookingUpdated    = "booking.updated"
	eventBookingCancelled  = "booking.cancelled"
	eventBookingCheckedIn  = "booking.checked_in"
	eventBookingCheckedOut = "booking.checked_out"
	eventBookingDeleted    = "booking.deleted"
)

// lifecycleEvent is the payload published to the booking events topic on
// every lifecycle mutation.
type lifecycleEvent struct {
	Type      string `json:"type"`
	BookingID string `json:"booking_id"`
	SpaceID   string `json:"space_id"`
	Status    string `json:"status"`
}

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.CreateBookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) error
	Cancel(ctx context.Context, id string) error
	CheckIn(ctx context.Context, id string) error
	CheckOut(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	GetBookedSpaces(ctx context.Context, req dto.BookedSpacesRequest) (dto.BookedSpacesResponse, error)
	QRCode(ctx context.Context, id string) ([]byte, error)
}

type serviceImpl struct {
	repo        repository.Booking
	vehicleRepo vehicleRepo.Vehicle
	spaceRepo   spaceRepo.Space
	areaRepo    areaRepo.Area
	events      eventService.Event
	encoder     qr.Encoder
	broker      kafka.Client
	cfg         *config.Config
	otel        otel.Otel
}

func New(
	repo repository.Booking,
	vehicleRepo vehicleRepo.Vehicle,
	spaceRepo spaceRepo.Space,
	areaRepo areaRepo.Area,
	events eventService.Event,
	encoder qr.Encoder,
	broker kafka.Client,
	cfg *config.Config,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:        repo,
		vehicleRepo: vehicleRepo,
		spaceRepo:   spaceRepo,
		areaRepo:    areaRepo,
		events:      events,
		encoder:     encoder,
		broker:      broker,
		cfg:         cfg,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.CreateBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	interval, err := req.ToInterval()
	if err != nil {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid booking time: %v", err)) //nolint:wrapcheck
	}

	if err = s.checkVehicle(ctx, req.VehicleID, user); err != nil {
		return res, err
	}

	if err = s.checkAvailability(ctx, req.SpaceID, interval); err != nil {
		return res, err
	}

	qrPayload := fmt.Sprintf("mawgifi://checkin/%s/%s", req.SpaceID, uuid.NewString())
	booking := req.ToModel(user, qrPayload, interval)

	err = s.repo.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		return s.insertSerialized(ctx, tx, booking)
	})
	if err != nil {
		if shared.IsExclusionViolation(err) {
			return res, failure.SlotConflict("this slot is already booked for the selected time") //nolint:wrapcheck
		}

		return res, err
	}

	s.publish(ctx, eventBookingCreated, booking)

	res.BookingID = booking.ID
	res.QRPayload = booking.QRPayload

	return res, nil
}

// insertSerialized is the check-and-insert critical section. The space row
// lock serializes concurrent writers for the same space, so the overlap
// check and the insert act as one unit. The exclusion constraint on the
// bookings table backstops this at commit time.
func (s *serviceImpl) insertSerialized(ctx context.Context, tx *sqlx.Tx, booking model.Booking) error {
	locked, err := s.spaceRepo.GetForUpdateTx(ctx, tx, shared.FilterByID(booking.SpaceID, spaceModel.FieldID, spaceModel.TableName))
	if err != nil {
		return fmt.Errorf("failed to lock space: %w", err)
	}

	if locked.ID == constant.Empty {
		return failure.NotFound("space not found") //nolint:wrapcheck
	}

	hasOverlap, err := s.repo.HasOverlapTx(ctx, tx, booking.SpaceID, booking.StartTime, booking.EndTime, booking.ID)
	if err != nil {
		return err
	}

	if hasOverlap {
		return failure.SlotConflict("this slot is already booked for the selected time") //nolint:wrapcheck
	}

	return s.repo.InsertTx(ctx, tx, booking)
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAllBookings")
	defer scope.End()
	defer scope.TraceIfError(err)

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CountBookings")
	defer scope.End()
	defer scope.TraceIfError(err)

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getOwned(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	interval, err := req.ToInterval()
	if err != nil {
		return failure.BadRequestFromString(fmt.Sprintf("invalid booking time: %v", err)) //nolint:wrapcheck
	}

	booking, err := s.getOwned(ctx, id)
	if err != nil {
		return err
	}

	if booking.Status != model.StatusPending {
		return failure.InvalidState("only pending bookings can be rescheduled") //nolint:wrapcheck
	}

	if booking.Started(timezone.Now()) {
		return failure.InvalidState("booking has already started") //nolint:wrapcheck
	}

	updatedFields := map[string]any{
		model.FieldStartTime:     interval.Start,
		model.FieldEndTime:       interval.End,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	err = s.repo.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		locked, err := s.spaceRepo.GetForUpdateTx(ctx, tx, shared.FilterByID(booking.SpaceID, spaceModel.FieldID, spaceModel.TableName))
		if err != nil {
			return fmt.Errorf("failed to lock space: %w", err)
		}

		if locked.ID == constant.Empty {
			return failure.NotFound("space not found") //nolint:wrapcheck
		}

		hasOverlap, err := s.repo.HasOverlapTx(ctx, tx, booking.SpaceID, interval.Start, interval.End, booking.ID)
		if err != nil {
			return err
		}

		if hasOverlap {
			return failure.SlotConflict("this slot is already booked for the selected time") //nolint:wrapcheck
		}

		return s.repo.UpdateTx(ctx, tx, updatedFields, filter)
	})
	if err != nil {
		if shared.IsExclusionViolation(err) {
			return failure.SlotConflict("this slot is already booked for the selected time") //nolint:wrapcheck
		}

		return err
	}

	booking.StartTime = interval.Start
	booking.EndTime = interval.End
	s.publish(ctx, eventBookingUpdated, booking)

	return nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CancelBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getOwned(ctx, id)
	if err != nil {
		return err
	}

	if !model.CanTransition(booking.Status, model.StatusCancelled) {
		return failure.InvalidState(fmt.Sprintf("booking cannot be cancelled from status %s", booking.Status)) //nolint:wrapcheck
	}

	if booking.Started(timezone.Now()) {
		return failure.InvalidState("booking has already started") //nolint:wrapcheck
	}

	if err = s.transition(ctx, booking, model.StatusCancelled, nil); err != nil {
		return err
	}

	booking.Status = model.StatusCancelled
	s.publish(ctx, eventBookingCancelled, booking)

	return nil
}

func (s *serviceImpl) CheckIn(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckInBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getOwned(ctx, id)
	if err != nil {
		return err
	}

	if booking.Status == model.StatusCheckedIn {
		return failure.InvalidState("booking is already checked in") //nolint:wrapcheck
	}

	if !model.CanTransition(booking.Status, model.StatusCheckedIn) {
		return failure.InvalidState(fmt.Sprintf("booking cannot be checked in from status %s", booking.Status)) //nolint:wrapcheck
	}

	now := timezone.Now()
	if err = s.transition(ctx, booking, model.StatusCheckedIn, map[string]any{model.FieldCheckInAt: now}); err != nil {
		return err
	}

	booking.Status = model.StatusCheckedIn
	s.publish(ctx, eventBookingCheckedIn, booking)

	return nil
}

func (s *serviceImpl) CheckOut(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckOutBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getOwned(ctx, id)
	if err != nil {
		return err
	}

	if !model.CanTransition(booking.Status, model.StatusCompleted) {
		return failure.InvalidState(fmt.Sprintf("booking cannot be checked out from status %s", booking.Status)) //nolint:wrapcheck
	}

	now := timezone.Now()
	if err = s.transition(ctx, booking, model.StatusCompleted, map[string]any{model.FieldCheckOutAt: now}); err != nil {
		return err
	}

	booking.Status = model.StatusCompleted
	s.publish(ctx, eventBookingCheckedOut, booking)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getOwned(ctx, id)
	if err != nil {
		return err
	}

	if booking.ActiveAt(timezone.Now()) {
		return failure.InvalidState("booking is currently in progress") //nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	s.publish(ctx, eventBookingDeleted, booking)

	return nil
}

// GetBookedSpaces returns the distinct spaces with an active booking
// overlapping the requested window.
func (s *serviceImpl) GetBookedSpaces(ctx context.Context, req dto.BookedSpacesRequest) (res dto.BookedSpacesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetBookedSpaces")
	defer scope.End()
	defer scope.TraceIfError(err)

	interval, err := req.ToInterval()
	if err != nil {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid booking time: %v", err)) //nolint:wrapcheck
	}

	spaceIDs, err := s.repo.GetBookedSpaceIDs(ctx, interval.Start, interval.End)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booked spaces")

		return res, fmt.Errorf("failed to get booked spaces: %w", err)
	}

	res.SpaceIDs = spaceIDs
	if res.SpaceIDs == nil {
		res.SpaceIDs = []string{}
	}

	return res, nil
}

// QRCode renders the booking's check-in payload as a PNG.
func (s *serviceImpl) QRCode(ctx context.Context, id string) (png []byte, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".BookingQRCode")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getOwned(ctx, id)
	if err != nil {
		return nil, err
	}

	png, err = s.encoder.EncodePNG(booking.QRPayload)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode booking QR code")

		return nil, fmt.Errorf("failed to encode booking QR code: %w", err)
	}

	return png, nil
}

// checkVehicle enforces that the vehicle exists, belongs to the requester,
// and has passed review.
func (s *serviceImpl) checkVehicle(ctx context.Context, vehicleID, user string) error {
	vehicle, err := s.vehicleRepo.Get(ctx, shared.FilterByID(vehicleID, vehicleModel.FieldID, vehicleModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get vehicle")

		return fmt.Errorf("failed to get vehicle: %w", err)
	}

	if vehicle.ID == constant.Empty {
		return failure.NotFound("vehicle not found") //nolint:wrapcheck
	}

	if vehicle.OwnerID != user {
		return failure.Unauthorized("vehicle does not belong to requester") //nolint:wrapcheck
	}

	if vehicle.ApprovalStatus != vehicleModel.ApprovalApproved {
		return failure.VehicleNotApproved("vehicle has not been approved") //nolint:wrapcheck
	}

	return nil
}

// checkAvailability runs the event-driven recompute, then evaluates the
// space and area gates for the requested interval.
func (s *serviceImpl) checkAvailability(ctx context.Context, spaceID string, interval availability.Interval) error {
	if err := s.events.RecomputeAreaStatuses(ctx); err != nil {
		return err
	}

	space, err := s.spaceRepo.Get(ctx, shared.FilterByID(spaceID, spaceModel.FieldID, spaceModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get space")

		return fmt.Errorf("failed to get space: %w", err)
	}

	spaceState := availability.SpaceState{
		Exists: space.ID != constant.Empty,
		AreaID: space.AreaID,
		Status: space.Status,
	}

	areaState := availability.AreaState{}

	if spaceState.Exists {
		area, err := s.areaRepo.Get(ctx, shared.FilterByID(space.AreaID, areaModel.FieldID, areaModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get area")

			return fmt.Errorf("failed to get area: %w", err)
		}

		areaState = availability.AreaState{Exists: area.ID != constant.Empty, Status: area.Status}
	}

	windows, err := s.events.Windows(ctx)
	if err != nil {
		return err
	}

	decision := availability.Check(spaceState, areaState, windows, interval)
	if decision.Open {
		return nil
	}

	switch decision.Reason {
	case availability.ReasonSpaceNotFound:
		return failure.NotFound("space not found") //nolint:wrapcheck
	case availability.ReasonAreaNotFound:
		return failure.NotFound("area not found") //nolint:wrapcheck
	default:
		return failure.Unavailable(string(decision.Reason), "space is not available for the requested time") //nolint:wrapcheck
	}
}

// getOwned loads a booking and enforces ownership for student requesters.
func (s *serviceImpl) getOwned(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if role == constant.RoleStudent && booking.CreatedBy != user {
		return booking, failure.Unauthorized("booking does not belong to requester") //nolint:wrapcheck
	}

	return booking, nil
}

// transition applies a status change plus any extra fields in one update.
func (s *serviceImpl) transition(ctx context.Context, booking model.Booking, to string, extra map[string]any) error {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	updatedFields := map[string]any{
		model.FieldStatus:        to,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	for field, value := range extra {
		updatedFields[field] = value
	}

	// The status guard in the filter keeps a racing transition from applying
	// twice: the second writer matches zero rows.
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Operator: gDto.FilterOperatorEq, Value: booking.ID, Table: model.TableName},
			gDto.Filter{ArgName: "current_status", Field: model.FieldStatus, Operator: gDto.FilterOperatorEq, Value: booking.Status, Table: model.TableName},
		},
	}

	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Str("to", to).Msg("failed to transition booking")

		return fmt.Errorf("failed to transition booking: %w", err)
	}

	return nil
}

func (s *serviceImpl) publish(ctx context.Context, eventType string, booking model.Booking) {
	go func() {
		c := context.WithoutCancel(ctx)

		message := kafka.Message{
			Key: booking.ID,
			Value: lifecycleEvent{
				Type:      eventType,
				BookingID: booking.ID,
				SpaceID:   booking.SpaceID,
				Status:    booking.Status,
			},
		}

		if err := s.broker.SendMessages(c, s.cfg.Kafka.Topics.BookingEvents, message); err != nil {
			log.Error().Err(err).Str("type", eventType).Msg("failed to publish booking event")
		}
	}()
}
