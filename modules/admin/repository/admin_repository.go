package repository

import (
	"context"
	"database/sql"

	"ndrop-api/core/database"
	"ndrop-api/core/logger"
	"ndrop-api/modules/admin/entity"

	"github.com/google/uuid"
)

// AdminRepository handles admin account database operations
type AdminRepository struct {
	DB database.IDatabase
}

// NewAdminRepository creates a new repository instance
func NewAdminRepository(db database.IDatabase) *AdminRepository {
	return &AdminRepository{DB: db}
}

// AdminRepositoryInterface defines the repository contract
type AdminRepositoryInterface interface {
	GetByUsername(ctx context.Context, username string) (*entity.Admin, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Admin, error)
	Create(ctx context.Context, admin *entity.Admin) (*entity.Admin, error)
}

func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*entity.Admin, error) {
	query := `
		SELECT id, username, password_hash, role, role_id, created_at, updated_at
		FROM admins WHERE username = $1
	`

	var admin entity.Admin
	err := r.DB.GetContext(ctx, &admin, query, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AdminRepository:GetByUsername", err)
		return nil, err
	}

	return &admin, nil
}

func (r *AdminRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Admin, error) {
	query := `
		SELECT id, username, password_hash, role, role_id, created_at, updated_at
		FROM admins WHERE id = $1
	`

	var admin entity.Admin
	err := r.DB.GetContext(ctx, &admin, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AdminRepository:GetByID", err)
		return nil, err
	}

	return &admin, nil
}

func (r *AdminRepository) Create(ctx context.Context, admin *entity.Admin) (*entity.Admin, error) {
	query := `
		INSERT INTO admins (username, password_hash, role, role_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, username, password_hash, role, role_id, created_at, updated_at
	`

	var created entity.Admin
	err := r.DB.GetContext(ctx, &created, query,
		admin.Username, admin.PasswordHash, admin.Role, admin.RoleID)
	if err != nil {
		logger.Error("AdminRepository:Create", err)
		return nil, err
	}

	return &created, nil
}
