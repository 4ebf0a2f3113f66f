package service

import (
	"context"
	"time"

	"ndrop-api/core/cache"
	"ndrop-api/core/config"
	"ndrop-api/core/constants"
	"ndrop-api/core/errors"
	"ndrop-api/core/logger"
	"ndrop-api/core/utils"
	"ndrop-api/modules/admin/dto"
	"ndrop-api/modules/admin/entity"
	"ndrop-api/modules/admin/repository"
)

type AdminService struct {
	repo  repository.AdminRepositoryInterface
	cache cache.Cache
}

// AdminServiceInterface defines the service contract
type AdminServiceInterface interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, *errors.AppError)
	Logout(ctx context.Context, token string) *errors.AppError
	EnsureBootstrapAdmin(ctx context.Context) error
}

func NewAdminService(repo repository.AdminRepositoryInterface, cache cache.Cache) AdminServiceInterface {
	return &AdminService{repo: repo, cache: cache}
}

// Login verifies credentials and issues an admin token. Invalid username and
// invalid password produce the same response.
func (s *AdminService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, *errors.AppError) {
	admin, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to look up admin", err)
	}
	if admin == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid username or password", nil)
	}

	if !utils.ComparePassword(admin.PasswordHash, req.Password) {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid username or password", nil)
	}

	token, err := utils.GenerateAdminToken(admin.ID, admin.Username)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to generate token", err)
	}

	return &dto.LoginResponse{
		Token:    token,
		AdminID:  admin.ID.String(),
		Username: admin.Username,
		Role:     admin.Role,
	}, nil
}

// EnsureBootstrapAdmin seeds the first admin account from configuration.
// A no-op when no bootstrap credentials are configured or the account
// already exists, so restarts are idempotent.
func (s *AdminService) EnsureBootstrapAdmin(ctx context.Context) error {
	cfg := config.Get()
	if cfg == nil || cfg.Admin.BootstrapUsername == "" || cfg.Admin.BootstrapPassword == "" {
		return nil
	}

	existing, err := s.repo.GetByUsername(ctx, cfg.Admin.BootstrapUsername)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := utils.HashPassword(cfg.Admin.BootstrapPassword)
	if err != nil {
		return err
	}

	created, err := s.repo.Create(ctx, &entity.Admin{
		Username:     cfg.Admin.BootstrapUsername,
		PasswordHash: hash,
		Role:         constants.AdminRoleName,
		RoleID:       constants.AdminRoleID,
	})
	if err != nil {
		return err
	}

	logger.Info("AdminService:EnsureBootstrapAdmin:Created", "admin_id", created.ID, "username", created.Username)
	return nil
}

// Logout blacklists the presented token for its remaining lifetime.
func (s *AdminService) Logout(ctx context.Context, token string) *errors.AppError {
	claims, err := utils.ValidateAndParseAdminToken(token)
	if err != nil {
		// An expired or invalid token needs no blacklist entry.
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}

	if err := s.cache.AddToTokenBlacklist(ctx, token, ttl); err != nil {
		logger.Error("AdminService:Logout:Blacklist", err)
		return errors.NewAppError(errors.ErrInternalServer, "Failed to log out", err)
	}

	return nil
}
