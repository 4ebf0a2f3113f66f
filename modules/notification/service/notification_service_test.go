package service

import (
	"context"
	"testing"
	"time"

	"ndrop-api/core/params"
	"ndrop-api/modules/notification/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotificationRepo struct {
	created []entity.Notification
	unread  int
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	n.ID = uuid.New()
	f.created = append(f.created, *n)
	return nil
}

func (f *fakeNotificationRepo) CreateBatch(ctx context.Context, notifications []entity.Notification) error {
	f.created = append(f.created, notifications...)
	return nil
}

func (f *fakeNotificationRepo) GetByUserID(ctx context.Context, userID uuid.UUID, queryParams params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	return &entity.PaginatedNotificationEntity{}, nil
}

func (f *fakeNotificationRepo) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	return nil
}

func (f *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func (f *fakeNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return f.unread, nil
}

func (f *fakeNotificationRepo) DeleteByEventID(ctx context.Context, eventID uuid.UUID) error {
	return nil
}

type fakeParticipants struct {
	ids []uuid.UUID
}

func (f *fakeParticipants) GetConfirmedParticipantIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	return f.ids, nil
}

type fakeCache struct {
	counts      map[uuid.UUID]int
	invalidated []uuid.UUID
}

func newFakeCache() *fakeCache {
	return &fakeCache{counts: map[uuid.UUID]int{}}
}

func (f *fakeCache) AddToTokenBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	return nil
}

func (f *fakeCache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	return false, nil
}

func (f *fakeCache) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int, bool, error) {
	count, ok := f.counts[userID]
	return count, ok, nil
}

func (f *fakeCache) SetUnreadCount(ctx context.Context, userID uuid.UUID, count int) error {
	f.counts[userID] = count
	return nil
}

func (f *fakeCache) InvalidateUnreadCount(ctx context.Context, userIDs ...uuid.UUID) error {
	for _, id := range userIDs {
		delete(f.counts, id)
		f.invalidated = append(f.invalidated, id)
	}
	return nil
}

func (f *fakeCache) Close() error { return nil }

func TestNotifyEventParticipants(t *testing.T) {
	ctx := context.Background()
	eventID := uuid.New()

	t.Run("zero participants is success with zero recipients", func(t *testing.T) {
		repo := &fakeNotificationRepo{}
		svc := NewNotificationService(repo, &fakeParticipants{}, newFakeCache())

		count, appErr := svc.NotifyEventParticipants(ctx, eventID, "Title", "Body", nil)
		require.Nil(t, appErr)
		assert.Equal(t, 0, count)
		assert.Empty(t, repo.created)
	})

	t.Run("one row per confirmed participant", func(t *testing.T) {
		repo := &fakeNotificationRepo{}
		ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
		svc := NewNotificationService(repo, &fakeParticipants{ids: ids}, newFakeCache())

		count, appErr := svc.NotifyEventParticipants(ctx, eventID, "Title", "Body", nil)
		require.Nil(t, appErr)
		assert.Equal(t, 3, count)
		require.Len(t, repo.created, 3)

		for i, n := range repo.created {
			assert.Equal(t, ids[i], *n.UserID)
			assert.Equal(t, entity.TargetSpecific, n.TargetType)
			assert.Equal(t, eventID, *n.RelatedEventID)
		}
	})

	t.Run("fan out invalidates cached unread counts", func(t *testing.T) {
		cache := newFakeCache()
		userID := uuid.New()
		cache.counts[userID] = 5
		svc := NewNotificationService(&fakeNotificationRepo{}, &fakeParticipants{ids: []uuid.UUID{userID}}, cache)

		_, appErr := svc.NotifyEventParticipants(ctx, eventID, "Title", "Body", nil)
		require.Nil(t, appErr)
		assert.NotContains(t, cache.counts, userID)
	})
}

func TestBroadcast(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, &fakeParticipants{}, newFakeCache())

	appErr := svc.Broadcast(context.Background(), "Maintenance", "Back at noon", nil)
	require.Nil(t, appErr)
	require.Len(t, repo.created, 1)
	assert.Equal(t, entity.TargetAll, repo.created[0].TargetType)
	assert.Nil(t, repo.created[0].UserID)
}

func TestCountUnread(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("cache miss reads the repo and fills the cache", func(t *testing.T) {
		cache := newFakeCache()
		svc := NewNotificationService(&fakeNotificationRepo{unread: 4}, &fakeParticipants{}, cache)

		count, err := svc.CountUnread(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 4, count)
		assert.Equal(t, 4, cache.counts[userID])
	})

	t.Run("cache hit skips the repo", func(t *testing.T) {
		cache := newFakeCache()
		cache.counts[userID] = 9
		svc := NewNotificationService(&fakeNotificationRepo{unread: 4}, &fakeParticipants{}, cache)

		count, err := svc.CountUnread(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 9, count)
	})
}

func TestNotifyUser(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, &fakeParticipants{}, newFakeCache())

	userID := uuid.New()
	eventID := uuid.New()
	err := svc.NotifyUser(context.Background(), userID, "meeting_request", "New meeting request", "Body", &eventID)
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, userID, *repo.created[0].UserID)
	assert.Equal(t, "meeting_request", repo.created[0].Type)
}
