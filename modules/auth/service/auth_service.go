package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ndrop-api/core/cache"
	"ndrop-api/core/config"
	"ndrop-api/core/constants"
	"ndrop-api/core/errors"
	"ndrop-api/core/logger"
	"ndrop-api/core/utils"
	"ndrop-api/modules/auth/dto"
	"ndrop-api/modules/auth/entity"
	"ndrop-api/modules/auth/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type AuthService struct {
	repo  repository.AuthRepositoryInterface
	cache cache.Cache
}

// AuthServiceInterface defines the service contract
type AuthServiceInterface interface {
	GetGoogleAuthURL(ctx context.Context) (string, *errors.AppError)
	HandleGoogleCallback(ctx context.Context, code string, state string) (*dto.LoginResponse, *errors.AppError)
	VerifyGoogleIDToken(ctx context.Context, idToken string) (*dto.LoginResponse, *errors.AppError)
	Me(ctx context.Context, userID uuid.UUID) (*entity.Profile, *errors.AppError)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*entity.Profile, *errors.AppError)
	Logout(ctx context.Context, token string) *errors.AppError
}

func NewAuthService(repo repository.AuthRepositoryInterface, cache cache.Cache) AuthServiceInterface {
	return &AuthService{repo: repo, cache: cache}
}

func googleOAuthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.GoogleAPI.ClientID,
		ClientSecret: cfg.GoogleAPI.ClientSecret,
		RedirectURL:  cfg.GoogleAPI.RedirectURI,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// GetGoogleAuthURL generates the Google OAuth authorization URL
func (s *AuthService) GetGoogleAuthURL(ctx context.Context) (string, *errors.AppError) {
	cfg, ok := config.GetSafe()
	if !ok {
		return "", errors.NewAppError(errors.ErrInternalServer, "config not initialized", nil)
	}
	if cfg.GoogleAPI.ClientID == "" || cfg.GoogleAPI.ClientSecret == "" || cfg.GoogleAPI.RedirectURI == "" {
		return "", errors.NewAppError(errors.ErrInternalServer, "Google OAuth configuration is missing", nil)
	}

	state := utils.GenerateRandomString(32)
	oauthState := &entity.OAuthState{
		State:     state,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
	if err := s.repo.SaveOAuthState(ctx, oauthState); err != nil {
		logger.Error("AuthService:GetGoogleAuthURL:SaveOAuthState", err)
		return "", errors.NewAppError(errors.ErrInternalServer, "failed to store state token", err)
	}

	return googleOAuthConfig(cfg).AuthCodeURL(state), nil
}

// HandleGoogleCallback handles the OAuth callback from Google
func (s *AuthService) HandleGoogleCallback(ctx context.Context, code string, state string) (*dto.LoginResponse, *errors.AppError) {
	consumed, err := s.repo.ConsumeOAuthState(ctx, state)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to validate state token", err)
	}
	if !consumed {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid or expired state token", nil)
	}

	cfg, ok := config.GetSafe()
	if !ok {
		return nil, errors.NewAppError(errors.ErrInternalServer, "config not initialized", nil)
	}

	token, err := googleOAuthConfig(cfg).Exchange(ctx, code)
	if err != nil {
		logger.Error("AuthService:HandleGoogleCallback:Exchange", err)
		return nil, errors.NewAppError(errors.ErrUnauthorized, "failed to exchange authorization code", err)
	}

	userInfo, err := s.getGoogleUserInfo(ctx, token.AccessToken)
	if err != nil {
		logger.Error("AuthService:HandleGoogleCallback:GetGoogleUserInfo", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user info", err)
	}

	return s.signIn(ctx, userInfo)
}

// VerifyGoogleIDToken signs in with an idToken obtained by a mobile client.
func (s *AuthService) VerifyGoogleIDToken(ctx context.Context, idToken string) (*dto.LoginResponse, *errors.AppError) {
	cfg, ok := config.GetSafe()
	if !ok {
		return nil, errors.NewAppError(errors.ErrInternalServer, "config not initialized", nil)
	}
	if cfg.GoogleAPI.ClientID == "" {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Google OAuth configuration is missing", nil)
	}

	tokenInfo, err := s.verifyGoogleTokenInfo(ctx, idToken, cfg.GoogleAPI.ClientID)
	if err != nil {
		logger.Error("AuthService:VerifyGoogleIDToken:VerifyTokenInfo", err)
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid Google idToken", err)
	}

	return s.signIn(ctx, &googleUserInfo{
		Email:   tokenInfo.Email,
		Name:    tokenInfo.Name,
		Picture: tokenInfo.Picture,
	})
}

// signIn finds the profile for a Google identity, provisioning one on first
// sign-in, and issues a session token. Emails on the configured admin list
// get the admin role.
func (s *AuthService) signIn(ctx context.Context, userInfo *googleUserInfo) (*dto.LoginResponse, *errors.AppError) {
	if userInfo.Email == "" {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Google account has no email", nil)
	}

	email := strings.ToLower(userInfo.Email)
	profile, err := s.repo.GetProfileByEmail(ctx, email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get profile", err)
	}

	if profile == nil {
		displayName := userInfo.Name
		if displayName == "" {
			displayName = email
		}

		newProfile := &entity.Profile{
			Email:       email,
			DisplayName: displayName,
			Interests:   pq.StringArray{},
			Role:        entity.RoleUser,
		}
		if userInfo.Picture != "" {
			picture := userInfo.Picture
			newProfile.AvatarURL = &picture
		}
		if cfg, ok := config.GetSafe(); ok && cfg.Admin.IsAllowedEmail(email) {
			newProfile.Role = entity.RoleAdmin
		}

		profile, err = s.repo.CreateProfileWithCard(ctx, newProfile, utils.GenerateCardSlug(displayName))
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "failed to provision profile", err)
		}
		logger.Info("AuthService:SignIn:Provisioned", "user_id", profile.ID, "role", profile.Role)
	}

	accessToken, err := utils.GenerateToken(profile.ID, &profile.Email, constants.ScopeTokenAccess)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate access token", err)
	}

	return &dto.LoginResponse{
		AccessToken: accessToken,
		Profile:     profile,
	}, nil
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*entity.Profile, *errors.AppError) {
	profile, err := s.repo.GetProfileByID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get profile", err)
	}
	if profile == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Profile not found", nil)
	}
	return profile, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*entity.Profile, *errors.AppError) {
	profile, appErr := s.Me(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	if req.DisplayName != "" {
		profile.DisplayName = req.DisplayName
	}
	if req.Company != "" {
		profile.Company = &req.Company
	}
	if req.JobTitle != "" {
		profile.JobTitle = &req.JobTitle
	}
	if req.Bio != "" {
		profile.Bio = &req.Bio
	}
	if req.Interests != nil {
		profile.Interests = pq.StringArray(req.Interests)
	}

	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to update profile", err)
	}

	return profile, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) *errors.AppError {
	claims, err := utils.ValidateAndParseTokenClaims(token)
	if err != nil {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}

	if err := s.cache.AddToTokenBlacklist(ctx, token, ttl); err != nil {
		logger.Error("AuthService:Logout:Blacklist", err)
		return errors.NewAppError(errors.ErrInternalServer, "failed to log out", err)
	}
	return nil
}

type googleUserInfo struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

type googleTokenInfo struct {
	Iss     string `json:"iss"`
	Aud     string `json:"aud"`
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// getGoogleUserInfo fetches user information from Google API
func (s *AuthService) getGoogleUserInfo(ctx context.Context, accessToken string) (*googleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://www.googleapis.com/oauth2/v2/userinfo", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get user info: %s", string(body))
	}

	var userInfo googleUserInfo
	if err := json.Unmarshal(body, &userInfo); err != nil {
		return nil, err
	}
	return &userInfo, nil
}

// verifyGoogleTokenInfo verifies a Google idToken using the tokeninfo API
func (s *AuthService) verifyGoogleTokenInfo(ctx context.Context, idToken string, clientID string) (*googleTokenInfo, error) {
	url := "https://oauth2.googleapis.com/tokeninfo?id_token=" + idToken
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to verify token: %s", string(body))
	}

	var tokenInfo googleTokenInfo
	if err := json.Unmarshal(body, &tokenInfo); err != nil {
		return nil, err
	}

	if tokenInfo.Aud != clientID {
		return nil, fmt.Errorf("token audience does not match client ID")
	}
	if tokenInfo.Iss != "https://accounts.google.com" && tokenInfo.Iss != "accounts.google.com" {
		return nil, fmt.Errorf("invalid token issuer")
	}

	return &tokenInfo, nil
}
