package space

import (
	"net/http"

	"mawgifi/infras/otel"
	"mawgifi/internal/domains/space/model"
	"mawgifi/internal/domains/space/model/dto"
	"mawgifi/internal/domains/space/service"
	"mawgifi/shared/constant"
	gDto "mawgifi/shared/dto"
	"mawgifi/shared/validator"
	"mawgifi/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Space
	otel    otel.Otel
}

func New(service service.Space, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/spaces", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateSpace)
		routerGroup.Post("/bulk", handler.BulkCreateSpaces)
		routerGroup.Get("/", handler.GetSpaces)
		routerGroup.Get("/availability", handler.GetAvailability)
		routerGroup.Get("/{id}", handler.GetSpaceByID)
		routerGroup.Patch("/{id}", handler.UpdateSpace)
		routerGroup.Delete("/{id}", handler.DeleteSpace)
	})
}

// CreateSpace handles the creation of a new parking space.
// @Summary Create a new parking space
// @Description Create a single parking space inside an area.
// @Tags Space
// @Accept json
// @Produce json
// @Param request body dto.CreateSpaceRequest true "Create Space Request"
// @Success 201 {object} response.Message "Space created successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/spaces [post]
// @Security BearerAuth
func (handler *Handler) CreateSpace(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateSpace")
	defer scope.End()

	req := dto.CreateSpaceRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create space")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Space created successfully")

	response.WithMessage(w, http.StatusCreated, "Space created successfully")
}

// BulkCreateSpaces handles the creation of multiple parking spaces at once.
// @Summary Bulk create parking spaces
// @Description Create multiple parking spaces inside one area in a single request.
// @Tags Space
// @Accept json
// @Produce json
// @Param request body dto.BulkCreateSpacesRequest true "Bulk Create Spaces Request"
// @Success 201 {object} response.Message "Spaces created successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/spaces/bulk [post]
// @Security BearerAuth
func (handler *Handler) BulkCreateSpaces(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".BulkCreateSpaces")
	defer scope.End()

	req := dto.BulkCreateSpacesRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.BulkCreate(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to bulk create spaces")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Spaces created successfully")

	response.WithMessage(w, http.StatusCreated, "Spaces created successfully")
}

// GetSpaces retrieves all parking spaces.
// @Summary Get all parking spaces
// @Description Retrieve all parking spaces with optional filtering and pagination.
// @Tags Space
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param area_id query string false "Filter by area ID"
// @Param status query string false "Filter by status (available, occupied, reserved, maintenance)"
// @Success 200 {object} response.Data[dto.GetSpacesResponse] "List of spaces"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/spaces [get]
func (handler *Handler) GetSpaces(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSpaces")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	areaID := r.URL.Query().Get(model.FieldAreaID)
	status := r.URL.Query().Get(model.FieldStatus)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if areaID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldAreaID,
			Operator: gDto.FilterOperatorEq,
			Value:    areaID,
			Table:    model.TableName,
		})
	}

	if status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	spaces, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get spaces")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Spaces retrieved successfully")

	response.WithJSON(w, http.StatusOK, spaces)
}

// GetAvailability evaluates the effective availability of every space.
// @Summary Get space availability
// @Description Evaluate the effective open/closed state of every space, combining space status, area status and active events.
// @Tags Space
// @Accept json
// @Produce json
// @Param area_id query string false "Limit the evaluation to one area"
// @Success 200 {object} response.Data[dto.ListAvailabilityResponse] "Per-space availability"
// @Failure 500 {object} response.Error
// @Router /v1/spaces/availability [get]
func (handler *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailability")
	defer scope.End()

	areaID := r.URL.Query().Get(constant.RequestParamAreaID)

	availability, err := handler.service.ListAvailability(ctx, areaID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list availability")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Availability evaluated successfully")

	response.WithJSON(w, http.StatusOK, availability)
}

// GetSpaceByID retrieves a parking space by its ID.
// @Summary Get a parking space by ID
// @Description Retrieve a parking space by its unique identifier.
// @Tags Space
// @Accept json
// @Produce json
// @Param id path string true "Space ID"
// @Success 200 {object} response.Data[dto.SpaceResponse] "Space details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/spaces/{id} [get]
func (handler *Handler) GetSpaceByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSpaceByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	space, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get space by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Space retrieved successfully")

	response.WithJSON(w, http.StatusOK, space)
}

// UpdateSpace updates an existing parking space by its ID.
// @Summary Update a parking space by ID
// @Description Update the code or status of an existing parking space.
// @Tags Space
// @Accept json
// @Produce json
// @Param id path string true "Space ID"
// @Param request body dto.UpdateSpaceRequest true "Update Space Request"
// @Success 200 {object} response.Message "Space updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/spaces/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateSpace(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateSpace")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateSpaceRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update space")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Space updated successfully")

	response.WithMessage(w, http.StatusOK, "Space updated successfully")
}

// DeleteSpace deletes a parking space by its ID.
// @Summary Delete a parking space by ID
// @Description Delete a parking space that has no active bookings.
// @Tags Space
// @Accept json
// @Produce json
// @Param id path string true "Space ID"
// @Success 200 {object} response.Message "Space deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/spaces/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteSpace(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteSpace")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete space")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Space deleted successfully")

	response.WithMessage(w, http.StatusOK, "Space deleted successfully")
}
