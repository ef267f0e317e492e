package area

import (
	"net/http"

	"mawgifi/infras/otel"
	"mawgifi/internal/domains/area/model"
	"mawgifi/internal/domains/area/model/dto"
	"mawgifi/internal/domains/area/service"
	"mawgifi/shared/constant"
	gDto "mawgifi/shared/dto"
	"mawgifi/shared/validator"
	"mawgifi/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Area
	otel    otel.Otel
}

func New(service service.Area, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/areas", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateArea)
		routerGroup.Get("/", handler.GetAreas)
		routerGroup.Get("/{id}", handler.GetAreaByID)
		routerGroup.Patch("/{id}", handler.UpdateArea)
		routerGroup.Delete("/{id}", handler.DeleteArea)
	})
}

// CreateArea handles the creation of a new parking area.
// @Summary Create a new parking area
// @Description Create a new parking area with the provided details.
// @Tags Area
// @Accept json
// @Produce json
// @Param request body dto.CreateAreaRequest true "Create Area Request"
// @Success 201 {object} response.Message "Area created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/areas [post]
// @Security BearerAuth
func (handler *Handler) CreateArea(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateArea")
	defer scope.End()

	req := dto.CreateAreaRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create area")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Area created successfully")

	response.WithMessage(w, http.StatusCreated, "Area created successfully")
}

// GetAreas retrieves all parking areas.
// @Summary Get all parking areas
// @Description Retrieve all parking areas with optional filtering and pagination.
// @Tags Area
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status (available, occupied, temporarily_closed, under_maintenance)"
// @Success 200 {object} response.Data[dto.GetAreasResponse] "List of areas"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/areas [get]
func (handler *Handler) GetAreas(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAreas")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	status := r.URL.Query().Get(model.FieldStatus)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	areas, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get areas")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Areas retrieved successfully")

	response.WithJSON(w, http.StatusOK, areas)
}

// GetAreaByID retrieves a parking area by its ID.
// @Summary Get a parking area by ID
// @Description Retrieve a parking area by its unique identifier.
// @Tags Area
// @Accept json
// @Produce json
// @Param id path string true "Area ID"
// @Success 200 {object} response.Data[dto.AreaResponse] "Area details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/areas/{id} [get]
func (handler *Handler) GetAreaByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAreaByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	area, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get area by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Area retrieved successfully")

	response.WithJSON(w, http.StatusOK, area)
}

// UpdateArea updates an existing parking area by its ID.
// @Summary Update a parking area by ID
// @Description Update the details of an existing parking area, including its status.
// @Tags Area
// @Accept json
// @Produce json
// @Param id path string true "Area ID"
// @Param request body dto.UpdateAreaRequest true "Update Area Request"
// @Success 200 {object} response.Message "Area updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/areas/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateArea(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateArea")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateAreaRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update area")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Area updated successfully")

	response.WithMessage(w, http.StatusOK, "Area updated successfully")
}

// DeleteArea deletes a parking area by its ID.
// @Summary Delete a parking area by ID
// @Description Delete a parking area that no longer has any spaces.
// @Tags Area
// @Accept json
// @Produce json
// @Param id path string true "Area ID"
// @Success 200 {object} response.Message "Area deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/areas/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteArea(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteArea")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete area")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Area deleted successfully")

	response.WithMessage(w, http.StatusOK, "Area deleted successfully")
}
