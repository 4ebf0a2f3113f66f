package service

import (
	"context"
	"testing"
	"time"

	"ndrop-api/core/config"
	"ndrop-api/core/constants"
	apperrors "ndrop-api/core/errors"
	"ndrop-api/core/utils"
	"ndrop-api/modules/admin/dto"
	"ndrop-api/modules/admin/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdminRepo struct {
	admins map[string]*entity.Admin
}

func (f *fakeAdminRepo) GetByUsername(ctx context.Context, username string) (*entity.Admin, error) {
	return f.admins[username], nil
}

func (f *fakeAdminRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Admin, error) {
	for _, a := range f.admins {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeAdminRepo) Create(ctx context.Context, admin *entity.Admin) (*entity.Admin, error) {
	admin.ID = uuid.New()
	f.admins[admin.Username] = admin
	return admin, nil
}

type fakeBlacklistCache struct {
	blacklisted map[string]time.Duration
}

func (f *fakeBlacklistCache) AddToTokenBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	f.blacklisted[token] = ttl
	return nil
}

func (f *fakeBlacklistCache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	_, ok := f.blacklisted[token]
	return ok, nil
}

func (f *fakeBlacklistCache) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int, bool, error) {
	return 0, false, nil
}

func (f *fakeBlacklistCache) SetUnreadCount(ctx context.Context, userID uuid.UUID, count int) error {
	return nil
}

func (f *fakeBlacklistCache) InvalidateUnreadCount(ctx context.Context, userIDs ...uuid.UUID) error {
	return nil
}

func (f *fakeBlacklistCache) Close() error { return nil }

func setTestConfig(t *testing.T) {
	t.Helper()
	config.SetForTesting(&config.Config{
		JWT: config.JWTConfig{
			SessionSecret: "session-secret-for-tests",
			AdminSecret:   "admin-secret-for-tests",
		},
	})
	t.Cleanup(func() { config.SetForTesting(nil) })
}

func seedAdmin(t *testing.T, repo *fakeAdminRepo, username, password string) *entity.Admin {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	admin := &entity.Admin{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		Role:         constants.AdminRoleName,
		RoleID:       constants.AdminRoleID,
	}
	repo.admins[username] = admin
	return admin
}

func TestLogin(t *testing.T) {
	setTestConfig(t)
	ctx := context.Background()

	repo := &fakeAdminRepo{admins: map[string]*entity.Admin{}}
	seedAdmin(t, repo, "organizer", "correct horse")
	svc := NewAdminService(repo, &fakeBlacklistCache{blacklisted: map[string]time.Duration{}})

	t.Run("valid credentials return a token", func(t *testing.T) {
		resp, appErr := svc.Login(ctx, &dto.LoginRequest{Username: "organizer", Password: "correct horse"})
		require.Nil(t, appErr)
		assert.Equal(t, "organizer", resp.Username)
		require.NotEmpty(t, resp.Token)

		claims, err := utils.ValidateAndParseAdminToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, "organizer", claims.Username)
		assert.Equal(t, constants.AdminRoleID, claims.RoleID)
	})

	t.Run("wrong password and unknown username are indistinguishable", func(t *testing.T) {
		_, wrongPass := svc.Login(ctx, &dto.LoginRequest{Username: "organizer", Password: "nope"})
		_, noUser := svc.Login(ctx, &dto.LoginRequest{Username: "ghost", Password: "nope"})

		require.NotNil(t, wrongPass)
		require.NotNil(t, noUser)
		assert.Equal(t, apperrors.ErrUnauthorized, wrongPass.Code)
		assert.Equal(t, wrongPass.Code, noUser.Code)
		assert.Equal(t, wrongPass.Message, noUser.Message)
	})
}

func TestEnsureBootstrapAdmin(t *testing.T) {
	ctx := context.Background()

	withBootstrap := func(t *testing.T, username, password string) {
		t.Helper()
		config.SetForTesting(&config.Config{
			JWT: config.JWTConfig{
				SessionSecret: "session-secret-for-tests",
				AdminSecret:   "admin-secret-for-tests",
			},
			Admin: config.AdminConfig{
				BootstrapUsername: username,
				BootstrapPassword: password,
			},
		})
		t.Cleanup(func() { config.SetForTesting(nil) })
	}

	t.Run("seeds the account when missing", func(t *testing.T) {
		withBootstrap(t, "root-admin", "first secret")
		repo := &fakeAdminRepo{admins: map[string]*entity.Admin{}}
		svc := NewAdminService(repo, &fakeBlacklistCache{blacklisted: map[string]time.Duration{}})

		require.NoError(t, svc.EnsureBootstrapAdmin(ctx))
		created := repo.admins["root-admin"]
		require.NotNil(t, created)
		assert.Equal(t, constants.AdminRoleID, created.RoleID)
		assert.True(t, utils.ComparePassword(created.PasswordHash, "first secret"))

		// Seeded credentials work through the normal login path.
		resp, appErr := svc.Login(ctx, &dto.LoginRequest{Username: "root-admin", Password: "first secret"})
		require.Nil(t, appErr)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("never overwrites an existing account", func(t *testing.T) {
		withBootstrap(t, "root-admin", "new secret")
		repo := &fakeAdminRepo{admins: map[string]*entity.Admin{}}
		existing := seedAdmin(t, repo, "root-admin", "old secret")
		svc := NewAdminService(repo, &fakeBlacklistCache{blacklisted: map[string]time.Duration{}})

		require.NoError(t, svc.EnsureBootstrapAdmin(ctx))
		assert.Equal(t, existing.PasswordHash, repo.admins["root-admin"].PasswordHash)
	})

	t.Run("no-op without configured credentials", func(t *testing.T) {
		withBootstrap(t, "", "")
		repo := &fakeAdminRepo{admins: map[string]*entity.Admin{}}
		svc := NewAdminService(repo, &fakeBlacklistCache{blacklisted: map[string]time.Duration{}})

		require.NoError(t, svc.EnsureBootstrapAdmin(ctx))
		assert.Empty(t, repo.admins)
	})
}

func TestLogout(t *testing.T) {
	setTestConfig(t)
	ctx := context.Background()

	repo := &fakeAdminRepo{admins: map[string]*entity.Admin{}}
	admin := seedAdmin(t, repo, "organizer", "correct horse")
	blacklist := &fakeBlacklistCache{blacklisted: map[string]time.Duration{}}
	svc := NewAdminService(repo, blacklist)

	t.Run("a live token gets blacklisted for its remaining lifetime", func(t *testing.T) {
		token, err := utils.GenerateAdminToken(admin.ID, admin.Username)
		require.NoError(t, err)

		appErr := svc.Logout(ctx, token)
		require.Nil(t, appErr)
		ttl, ok := blacklist.blacklisted[token]
		require.True(t, ok)
		assert.Greater(t, ttl, time.Duration(0))
	})

	t.Run("garbage tokens are ignored", func(t *testing.T) {
		appErr := svc.Logout(ctx, "not-a-jwt")
		require.Nil(t, appErr)
		assert.NotContains(t, blacklist.blacklisted, "not-a-jwt")
	})
}
