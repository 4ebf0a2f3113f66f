package controller

import (
	"ndrop-api/core/controller"
	"ndrop-api/core/errors"
	"ndrop-api/core/middleware"
	"ndrop-api/core/utils"
	"ndrop-api/modules/auth/dto"
	"ndrop-api/modules/auth/service"

	"github.com/labstack/echo/v4"
)

type AuthController struct {
	service service.AuthServiceInterface
	controller.BaseController
}

func NewAuthController(service service.AuthServiceInterface) *AuthController {
	return &AuthController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// GoogleAuthURL returns the Google OAuth authorization URL
// @Summary Get Google auth URL
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.GoogleAuthURLResponse
// @Router /auth/google [get]
func (c *AuthController) GoogleAuthURL(ctx echo.Context) error {
	url, appErr := c.service.GetGoogleAuthURL(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, dto.GoogleAuthURLResponse{AuthURL: url}, "Auth URL generated successfully")
}

// GoogleCallback handles the OAuth redirect from Google
// @Summary Google OAuth callback
// @Tags Auth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "State token"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} errors.AppError
// @Router /auth/google/callback [get]
func (c *AuthController) GoogleCallback(ctx echo.Context) error {
	code := ctx.QueryParam("code")
	state := ctx.QueryParam("state")
	if code == "" || state == "" {
		return c.BadRequest(errors.ErrInvalidInput, "code and state are required")
	}

	result, appErr := c.service.HandleGoogleCallback(ctx.Request().Context(), code, state)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Logged in successfully")
}

// GoogleToken signs in with a Google idToken from a mobile client
// @Summary Sign in with Google idToken
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.GoogleTokenRequest true "Google idToken"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} errors.AppError
// @Router /auth/google/token [post]
func (c *AuthController) GoogleToken(ctx echo.Context) error {
	req := new(dto.GoogleTokenRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	if req.IDToken == "" {
		return c.BadRequest(errors.ErrInvalidInput, "id_token is required")
	}

	result, appErr := c.service.VerifyGoogleIDToken(ctx.Request().Context(), req.IDToken)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Logged in successfully")
}

// Me returns the authenticated user's profile
// @Summary Get my profile
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} entity.Profile
// @Failure 404 {object} errors.AppError
// @Router /auth/me [get]
func (c *AuthController) Me(ctx echo.Context) error {
	tokenData, ok := middleware.UserFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	profile, appErr := c.service.Me(ctx.Request().Context(), tokenData.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, profile, "Profile retrieved successfully")
}

// UpdateProfile updates the authenticated user's profile
// @Summary Update my profile
// @Tags Auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} entity.Profile
// @Failure 400 {object} errors.AppError
// @Router /auth/me [put]
func (c *AuthController) UpdateProfile(ctx echo.Context) error {
	tokenData, ok := middleware.UserFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	req := new(dto.UpdateProfileRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	profile, appErr := c.service.UpdateProfile(ctx.Request().Context(), tokenData.UserID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, profile, "Profile updated successfully")
}

// Logout invalidates the presented session token
// @Summary Logout
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx echo.Context) error {
	token, err := utils.GetTokenFromHeader(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrMissingAuthorizationHeader, "missing authorization header")
	}

	if appErr := c.service.Logout(ctx.Request().Context(), token); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Logged out successfully")
}
