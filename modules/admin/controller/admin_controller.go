package controller

import (
	"strings"

	"ndrop-api/core/controller"
	"ndrop-api/core/errors"
	"ndrop-api/core/middleware"
	"ndrop-api/core/utils"
	"ndrop-api/modules/admin/dto"
	"ndrop-api/modules/admin/service"
	eventdto "ndrop-api/modules/event/dto"
	eventservice "ndrop-api/modules/event/service"
	meetingdto "ndrop-api/modules/meeting/dto"
	meetingservice "ndrop-api/modules/meeting/service"
	notifservice "ndrop-api/modules/notification/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AdminController struct {
	service       service.AdminServiceInterface
	events        eventservice.EventServiceInterface
	notifications notifservice.NotificationServiceInterface
	meetings      meetingservice.MeetingServiceInterface
	controller.BaseController
}

func NewAdminController(
	service service.AdminServiceInterface,
	events eventservice.EventServiceInterface,
	notifications notifservice.NotificationServiceInterface,
	meetings meetingservice.MeetingServiceInterface,
) *AdminController {
	return &AdminController{
		service:        service,
		events:         events,
		notifications:  notifications,
		meetings:       meetings,
		BaseController: controller.NewBaseController(),
	}
}

// Login authenticates an admin
// @Summary Admin login
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} errors.AppError
// @Router /admin/login [post]
func (c *AdminController) Login(ctx echo.Context) error {
	req := new(dto.LoginRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return c.BadRequest(errors.ErrInvalidInput, "username and password are required")
	}

	result, appErr := c.service.Login(ctx.Request().Context(), req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Logged in successfully")
}

// Logout invalidates the presented admin token
// @Summary Admin logout
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /admin/logout [post]
func (c *AdminController) Logout(ctx echo.Context) error {
	token, err := utils.GetTokenFromHeader(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrMissingAuthorizationHeader, "missing authorization header")
	}

	if appErr := c.service.Logout(ctx.Request().Context(), token); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Logged out successfully")
}

// CreateEvent creates an event
// @Summary Create event
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body eventdto.CreateEventRequest true "Event"
// @Success 200 {object} eventdto.EventResponse
// @Failure 400 {object} errors.AppError
// @Router /admin/events [post]
func (c *AdminController) CreateEvent(ctx echo.Context) error {
	claims, ok := middleware.AdminFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	req := new(eventdto.CreateEventRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	event, appErr := c.events.CreateEvent(ctx.Request().Context(), claims.AdminID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, event, "Event created successfully")
}

// UpdateEvent updates an event
// @Summary Update event
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body eventdto.UpdateEventRequest true "Event fields"
// @Success 200 {object} eventdto.EventResponse
// @Failure 404 {object} errors.AppError
// @Router /admin/events/{id} [put]
func (c *AdminController) UpdateEvent(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	req := new(eventdto.UpdateEventRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	event, appErr := c.events.UpdateEvent(ctx.Request().Context(), eventID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, event, "Event updated successfully")
}

// DeleteEvent deletes an event and its dependent records
// @Summary Delete event
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.AppError
// @Router /admin/events/{id} [delete]
func (c *AdminController) DeleteEvent(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	if appErr := c.events.DeleteEvent(ctx.Request().Context(), eventID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Event deleted successfully")
}

// SendNotice sends a notice to all confirmed participants of an event
// @Summary Send event notice
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.SendNoticeRequest true "Notice"
// @Success 200 {object} dto.SendNoticeResponse
// @Failure 400 {object} errors.AppError
// @Router /admin/events/{id}/notice [post]
func (c *AdminController) SendNotice(ctx echo.Context) error {
	claims, ok := middleware.AdminFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	req := new(dto.SendNoticeRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	if req.Title == "" || req.Message == "" {
		return c.BadRequest(errors.ErrInvalidInput, "title and message are required")
	}

	senderID := claims.AdminID
	count, appErr := c.notifications.NotifyEventParticipants(
		ctx.Request().Context(), eventID, req.Title, req.Message, &senderID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, dto.SendNoticeResponse{TargetCount: count}, "Notice sent successfully")
}

// Broadcast sends a notice to every user
// @Summary Broadcast notice
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SendNoticeRequest true "Notice"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.AppError
// @Router /admin/notices [post]
func (c *AdminController) Broadcast(ctx echo.Context) error {
	claims, ok := middleware.AdminFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	req := new(dto.SendNoticeRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	if req.Title == "" || req.Message == "" {
		return c.BadRequest(errors.ErrInvalidInput, "title and message are required")
	}

	senderID := claims.AdminID
	if appErr := c.notifications.Broadcast(ctx.Request().Context(), req.Title, req.Message, &senderID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Notice broadcast successfully")
}

// EventConnections reports how many cards were collected during an event
// @Summary Count event connections
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} eventdto.ConnectionCountResponse
// @Failure 404 {object} errors.AppError
// @Router /admin/events/{id}/connections [get]
func (c *AdminController) EventConnections(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	count, appErr := c.events.CountConnections(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, eventdto.ConnectionCountResponse{TotalConnections: count}, "Connections counted successfully")
}

// ListParticipants lists an event's participants for the organizer
// @Summary List participants
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Param q query string false "Search text"
// @Param tags query string false "Comma-separated interest tags"
// @Success 200 {array} eventdto.ParticipantResponse
// @Router /admin/events/{id}/participants [get]
func (c *AdminController) ListParticipants(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	var tags []string
	if raw := ctx.QueryParam("tags"); raw != "" {
		tags = strings.Split(raw, ",")
	}

	// uuid.Nil as the caller: an organizer is not a participant, so nobody
	// gets excluded from the listing.
	participants, appErr := c.events.SearchParticipants(ctx.Request().Context(), eventID, uuid.Nil, ctx.QueryParam("q"), tags)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, participants, "Participants retrieved successfully")
}

// RemoveParticipant removes a participant from an event
// @Summary Remove participant
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Participation ID"
// @Success 200 {object} map[string]string
// @Router /admin/participants/{id} [delete]
func (c *AdminController) RemoveParticipant(ctx echo.Context) error {
	participationID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid participation id")
	}

	if appErr := c.events.RemoveParticipant(ctx.Request().Context(), participationID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Participant removed successfully")
}

// CheckInParticipant marks a participant as checked in
// @Summary Check in participant
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Participation ID"
// @Success 200 {object} eventdto.ParticipationResponse
// @Failure 404 {object} errors.AppError
// @Router /admin/participants/{id}/check-in [put]
func (c *AdminController) CheckInParticipant(ctx echo.Context) error {
	participationID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid participation id")
	}

	participation, appErr := c.events.CheckIn(ctx.Request().Context(), participationID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, participation, "Participant checked in successfully")
}

// CreateSlots creates time slots for an event
// @Summary Create time slots
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body meetingdto.CreateSlotsRequest true "Slots"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.AppError
// @Router /admin/events/{id}/time-slots [post]
func (c *AdminController) CreateSlots(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	req := new(meetingdto.CreateSlotsRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	slots, appErr := c.meetings.CreateSlots(ctx.Request().Context(), eventID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, map[string]any{
		"slots": slots,
		"count": len(slots),
	}, "Slots created successfully")
}
