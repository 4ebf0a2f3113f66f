package controller

import (
	"strings"

	"ndrop-api/core/controller"
	"ndrop-api/core/errors"
	"ndrop-api/core/middleware"
	"ndrop-api/core/params"
	"ndrop-api/modules/event/dto"
	"ndrop-api/modules/event/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type EventController struct {
	service service.EventServiceInterface
	controller.BaseController
}

func NewEventController(service service.EventServiceInterface) *EventController {
	return &EventController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// JoinEvent joins the authenticated user to an event
// @Summary Join an event
// @Description Joins the current user to an event by id or join code
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.JoinEventRequest true "Event reference"
// @Success 200 {object} dto.JoinEventResult
// @Failure 400 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /user/join-event [post]
func (c *EventController) JoinEvent(ctx echo.Context) error {
	tokenData, ok := middleware.UserFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	req := new(dto.JoinEventRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	// The identity comes from the session token; a mismatched body user_id is
	// rejected instead of trusted.
	if req.UserID != "" && req.UserID != tokenData.UserID.String() {
		return c.BadRequest(errors.ErrInvalidInput, "user_id does not match the authenticated user")
	}

	result, appErr := c.service.Join(ctx.Request().Context(), req.EventRef(), tokenData.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Joined event successfully")
}

// GetEvent returns a single event
// @Summary Get event
// @Tags Event
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.EventResponse
// @Failure 404 {object} errors.AppError
// @Router /events/{id} [get]
func (c *EventController) GetEvent(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	event, appErr := c.service.GetEvent(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, event, "Event retrieved successfully")
}

// ListEvents returns events, paginated
// @Summary List events
// @Tags Event
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /events [get]
func (c *EventController) ListEvents(ctx echo.Context) error {
	queryParams := params.NewQueryParams(ctx)

	result, appErr := c.service.ListEvents(ctx.Request().Context(), *queryParams)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Events retrieved successfully")
}

// SearchParticipants searches an event's participants
// @Summary Search event participants
// @Description Free-text filter across name/company/role/bio plus exact interest tags; excludes the caller
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Param q query string false "Free-text filter"
// @Param tags query string false "Comma-separated interest tags"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /events/{id}/participants [get]
func (c *EventController) SearchParticipants(ctx echo.Context) error {
	tokenData, ok := middleware.UserFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	var tags []string
	if raw := ctx.QueryParam("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	participants, appErr := c.service.SearchParticipants(
		ctx.Request().Context(), eventID, tokenData.UserID, ctx.QueryParam("q"), tags)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, map[string]any{
		"participants": participants,
		"count":        len(participants),
	}, "Participants retrieved successfully")
}

// SubmitFeedback records event feedback from the authenticated user
// @Summary Submit event feedback
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.SubmitFeedbackRequest true "Rating and comment"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.AppError
// @Router /events/{id}/feedback [post]
func (c *EventController) SubmitFeedback(ctx echo.Context) error {
	tokenData, ok := middleware.UserFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	req := new(dto.SubmitFeedbackRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	if appErr := c.service.SubmitFeedback(ctx.Request().Context(), eventID, tokenData.UserID, req); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Feedback submitted successfully")
}
