package controller

import (
	"ndrop-api/core/controller"
	"ndrop-api/core/errors"
	"ndrop-api/core/middleware"
	"ndrop-api/modules/card/dto"
	"ndrop-api/modules/card/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CardController struct {
	service service.CardServiceInterface
	controller.BaseController
}

func NewCardController(service service.CardServiceInterface) *CardController {
	return &CardController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// GetMyCard returns the authenticated user's business card
// @Summary Get my card
// @Tags Card
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.CardResponse
// @Failure 404 {object} errors.AppError
// @Router /cards/me [get]
func (c *CardController) GetMyCard(ctx echo.Context) error {
	tokenData, ok := middleware.UserFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	card, appErr := c.service.GetMyCard(ctx.Request().Context(), tokenData.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, card, "Card retrieved successfully")
}

// UpdateMyCard updates the authenticated user's business card
// @Summary Update my card
// @Tags Card
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateCardRequest true "Card fields"
// @Success 200 {object} dto.CardResponse
// @Failure 400 {object} errors.AppError
// @Router /cards/me [put]
func (c *CardController) UpdateMyCard(ctx echo.Context) error {
	tokenData, ok := middleware.UserFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	req := new(dto.UpdateCardRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	card, appErr := c.service.UpdateMyCard(ctx.Request().Context(), tokenData.UserID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, card, "Card updated successfully")
}

// GetBySlug returns a public card by its share slug
// @Summary Get card by share slug
// @Tags Card
// @Produce json
// @Param slug path string true "Share slug"
// @Success 200 {object} dto.CardResponse
// @Failure 404 {object} errors.AppError
// @Router /cards/slug/{slug} [get]
func (c *CardController) GetBySlug(ctx echo.Context) error {
	card, appErr := c.service.GetBySlug(ctx.Request().Context(), ctx.Param("slug"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, card, "Card retrieved successfully")
}

// CollectCard saves another user's card for the authenticated user
// @Summary Collect a card
// @Tags Card
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CollectCardRequest true "Card reference"
// @Success 200 {object} entity.CollectedCard
// @Failure 400 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /cards/collect [post]
func (c *CardController) CollectCard(ctx echo.Context) error {
	tokenData, ok := middleware.UserFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	req := new(dto.CollectCardRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	var eventID *uuid.UUID
	if req.EventID != "" {
		id, err := uuid.Parse(req.EventID)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
		}
		eventID = &id
	}

	collected, appErr := c.service.Collect(ctx.Request().Context(), tokenData.UserID, req.CardRef(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, collected, "Card collected successfully")
}

// ListCollected returns the authenticated user's collected cards
// @Summary List collected cards
// @Tags Card
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /cards/collected [get]
func (c *CardController) ListCollected(ctx echo.Context) error {
	tokenData, ok := middleware.UserFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	collected, appErr := c.service.ListCollected(ctx.Request().Context(), tokenData.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, map[string]any{
		"cards": collected,
		"count": len(collected),
	}, "Collected cards retrieved successfully")
}

// SetFavorite toggles the favorite flag on a collected card
// @Summary Set favorite on a collected card
// @Tags Card
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Collected card ID"
// @Param request body dto.SetFavoriteRequest true "Favorite flag"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.AppError
// @Router /cards/collected/{id}/favorite [put]
func (c *CardController) SetFavorite(ctx echo.Context) error {
	tokenData, ok := middleware.UserFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	collectedID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid collected card id")
	}

	req := new(dto.SetFavoriteRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	if appErr := c.service.SetFavorite(ctx.Request().Context(), tokenData.UserID, collectedID, req.IsFavorite); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Favorite updated successfully")
}

// UploadImage uploads a card avatar image
// @Summary Upload card image
// @Tags Card
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image file"
// @Success 200 {object} dto.UploadImageResponse
// @Failure 400 {object} errors.AppError
// @Router /cards/me/image [post]
func (c *CardController) UploadImage(ctx echo.Context) error {
	tokenData, ok := middleware.UserFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "image file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "unable to read image file")
	}
	defer file.Close()

	url, appErr := c.service.UploadCardImage(
		ctx.Request().Context(),
		tokenData.UserID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, dto.UploadImageResponse{AvatarURL: url}, "Image uploaded successfully")
}
