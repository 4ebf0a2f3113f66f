package controller

import (
	"ndrop-api/core/controller"
	"ndrop-api/core/errors"
	"ndrop-api/core/middleware"
	"ndrop-api/modules/meeting/dto"
	"ndrop-api/modules/meeting/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type MeetingController struct {
	service service.MeetingServiceInterface
	controller.BaseController
}

func NewMeetingController(service service.MeetingServiceInterface) *MeetingController {
	return &MeetingController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// ListSlots returns an event's time slots with availability
// @Summary List event time slots
// @Tags Meeting
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.AppError
// @Router /events/{id}/time-slots [get]
func (c *MeetingController) ListSlots(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	slots, appErr := c.service.ListSlots(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, map[string]any{
		"slots": slots,
		"count": len(slots),
	}, "Slots retrieved successfully")
}

// RequestMeeting creates a meeting request
// @Summary Request a meeting
// @Tags Meeting
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.RequestMeetingRequest true "Meeting request"
// @Success 200 {object} dto.MeetingResponse
// @Failure 400 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /meetings [post]
func (c *MeetingController) RequestMeeting(ctx echo.Context) error {
	tokenData, ok := middleware.UserFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	req := new(dto.RequestMeetingRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	meeting, appErr := c.service.RequestMeeting(ctx.Request().Context(), tokenData.UserID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, meeting, "Meeting requested successfully")
}

// Respond accepts or declines a meeting request
// @Summary Respond to a meeting request
// @Tags Meeting
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Meeting ID"
// @Param request body dto.RespondMeetingRequest true "accept or decline"
// @Success 200 {object} dto.MeetingResponse
// @Failure 400 {object} errors.AppError
// @Failure 403 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /meetings/{id}/respond [put]
func (c *MeetingController) Respond(ctx echo.Context) error {
	tokenData, ok := middleware.UserFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	meetingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting id")
	}

	req := new(dto.RespondMeetingRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	meeting, appErr := c.service.Respond(ctx.Request().Context(), tokenData.UserID, meetingID, req.Action)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, meeting, "Meeting updated successfully")
}

// Cancel cancels a meeting
// @Summary Cancel a meeting
// @Tags Meeting
// @Security BearerAuth
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /meetings/{id} [delete]
func (c *MeetingController) Cancel(ctx echo.Context) error {
	tokenData, ok := middleware.UserFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	meetingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting id")
	}

	if appErr := c.service.Cancel(ctx.Request().Context(), tokenData.UserID, meetingID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Meeting cancelled successfully")
}

// MyMeetings returns the authenticated user's meetings in an event
// @Summary List my meetings
// @Tags Meeting
// @Security BearerAuth
// @Produce json
// @Param event_id query string true "Event ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.AppError
// @Router /meetings [get]
func (c *MeetingController) MyMeetings(ctx echo.Context) error {
	tokenData, ok := middleware.UserFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	eventID, err := uuid.Parse(ctx.QueryParam("event_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	meetings, appErr := c.service.MyMeetings(ctx.Request().Context(), eventID, tokenData.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, map[string]any{
		"meetings": meetings,
		"count":    len(meetings),
	}, "Meetings retrieved successfully")
}
