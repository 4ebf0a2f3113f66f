package service

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "ndrop-api/core/errors"
	"ndrop-api/core/params"
	"ndrop-api/modules/event/dto"
	"ndrop-api/modules/event/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEventRepo struct {
	events         map[uuid.UUID]*entity.Event
	byCode         map[string]*entity.Event
	participations map[uuid.UUID]*entity.Participation
	joined         map[string]bool // eventID:userID
	confirmedIDs   []uuid.UUID
	connections    int

	joinCalls      int
	deleteCalls    []string
	feedback       []*entity.Feedback
	reconcileCount int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events:         map[uuid.UUID]*entity.Event{},
		byCode:         map[string]*entity.Event{},
		participations: map[uuid.UUID]*entity.Participation{},
		joined:         map[string]bool{},
	}
}

func (f *fakeEventRepo) addEvent(e *entity.Event) {
	f.events[e.ID] = e
	f.byCode[e.Code] = e
}

func (f *fakeEventRepo) Create(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	event.ID = uuid.New()
	f.addEvent(event)
	return event, nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	return f.events[id], nil
}

func (f *fakeEventRepo) GetByCode(ctx context.Context, code string) (*entity.Event, error) {
	return f.byCode[code], nil
}

func (f *fakeEventRepo) List(ctx context.Context, queryParams params.QueryParams) (*entity.PaginatedEventEntity, error) {
	return &entity.PaginatedEventEntity{}, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, event *entity.Event) error { return nil }

func (f *fakeEventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.events, id)
	return nil
}

func (f *fakeEventRepo) Join(ctx context.Context, eventID uuid.UUID, userID uuid.UUID) (*entity.Participation, bool, error) {
	f.joinCalls++
	key := eventID.String() + ":" + userID.String()
	if f.joined[key] {
		return nil, false, nil
	}
	f.joined[key] = true

	p := &entity.Participation{
		ID:      uuid.New(),
		EventID: eventID,
		UserID:  userID,
		Status:  entity.ParticipationStatusConfirmed,
	}
	f.participations[p.ID] = p
	if e := f.events[eventID]; e != nil {
		e.CurrentParticipants++
	}
	return p, true, nil
}

func (f *fakeEventRepo) GetParticipationByID(ctx context.Context, id uuid.UUID) (*entity.Participation, error) {
	return f.participations[id], nil
}

func (f *fakeEventRepo) RemoveParticipation(ctx context.Context, id uuid.UUID) (*entity.Participation, error) {
	p := f.participations[id]
	if p == nil {
		return nil, nil
	}
	if p.Status.Active() {
		if e := f.events[p.EventID]; e != nil && e.CurrentParticipants > 0 {
			e.CurrentParticipants--
		}
	}
	p.Status = entity.ParticipationStatusRemoved
	return p, nil
}

func (f *fakeEventRepo) CheckIn(ctx context.Context, id uuid.UUID) (*entity.Participation, error) {
	p := f.participations[id]
	if p == nil || p.Status != entity.ParticipationStatusConfirmed {
		return nil, nil
	}
	p.Status = entity.ParticipationStatusCheckedIn
	return p, nil
}

func (f *fakeEventRepo) GetConfirmedParticipantIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	return f.confirmedIDs, nil
}

func (f *fakeEventRepo) SearchParticipants(ctx context.Context, eventID uuid.UUID, excludeUserID uuid.UUID, search string, tags []string) ([]entity.ParticipantProfile, error) {
	return nil, nil
}

func (f *fakeEventRepo) DeleteParticipationsByEventID(ctx context.Context, eventID uuid.UUID) error {
	f.deleteCalls = append(f.deleteCalls, "participations")
	return nil
}

func (f *fakeEventRepo) ReconcileParticipantCounts(ctx context.Context) (int, error) {
	return f.reconcileCount, nil
}

func (f *fakeEventRepo) CountConnectionsInWindow(ctx context.Context, userIDs []uuid.UUID, start time.Time, end time.Time) (int, error) {
	return f.connections, nil
}

func (f *fakeEventRepo) CreateFeedback(ctx context.Context, fb *entity.Feedback) error {
	f.feedback = append(f.feedback, fb)
	return nil
}

func (f *fakeEventRepo) DeleteFeedbackByEventID(ctx context.Context, eventID uuid.UUID) error {
	f.deleteCalls = append(f.deleteCalls, "feedback")
	return nil
}

type fakeDependent struct {
	name  string
	fail  bool
	calls *[]string
}

func (d *fakeDependent) DeleteByEventID(ctx context.Context, eventID uuid.UUID) error {
	*d.calls = append(*d.calls, d.name)
	if d.fail {
		return errors.New("boom")
	}
	return nil
}

func demoEvent(code string) *entity.Event {
	return &entity.Event{
		ID:                  uuid.New(),
		Code:                code,
		Title:               "Demo Day",
		StartTime:           time.Now(),
		EndTime:             time.Now().Add(8 * time.Hour),
		MaxParticipants:     100,
		CurrentParticipants: 25,
		Status:              entity.EventStatusOngoing,
	}
}

func TestJoin(t *testing.T) {
	ctx := context.Background()

	t.Run("by code increments the counter", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.addEvent(demoEvent("DEMO001"))
		svc := NewEventService(repo)

		userID := uuid.New()
		result, appErr := svc.Join(ctx, "DEMO001", userID)
		require.Nil(t, appErr)
		require.NotNil(t, result)
		assert.Equal(t, 26, result.Event.CurrentParticipants)
		assert.Equal(t, userID, result.Participant.UserID)
	})

	t.Run("second join conflicts without a second row", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.addEvent(demoEvent("DEMO001"))
		svc := NewEventService(repo)

		userID := uuid.New()
		_, appErr := svc.Join(ctx, "DEMO001", userID)
		require.Nil(t, appErr)

		_, appErr = svc.Join(ctx, "DEMO001", userID)
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrAlreadyExists, appErr.Code)
		assert.Len(t, repo.participations, 1)
	})

	t.Run("by id resolves the same as by code", func(t *testing.T) {
		repo := newFakeEventRepo()
		event := demoEvent("DEMO002")
		repo.addEvent(event)
		svc := NewEventService(repo)

		result, appErr := svc.Join(ctx, event.ID.String(), uuid.New())
		require.Nil(t, appErr)
		assert.Equal(t, event.ID, result.Event.ID)
	})

	t.Run("unknown reference is not found", func(t *testing.T) {
		svc := NewEventService(newFakeEventRepo())

		_, appErr := svc.Join(ctx, "NOPE999", uuid.New())
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
	})
}

func TestRemoveParticipant(t *testing.T) {
	ctx := context.Background()

	t.Run("removal decrements the counter once", func(t *testing.T) {
		repo := newFakeEventRepo()
		event := demoEvent("DEMO001")
		event.CurrentParticipants = 0
		repo.addEvent(event)
		svc := NewEventService(repo)

		result, appErr := svc.Join(ctx, "DEMO001", uuid.New())
		require.Nil(t, appErr)
		require.Equal(t, 1, event.CurrentParticipants)

		appErr = svc.RemoveParticipant(ctx, result.Participant.ID)
		require.Nil(t, appErr)
		assert.Equal(t, 0, event.CurrentParticipants)
	})

	t.Run("unknown participation is not found", func(t *testing.T) {
		svc := NewEventService(newFakeEventRepo())

		appErr := svc.RemoveParticipant(ctx, uuid.New())
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
	})
}

func TestCheckIn(t *testing.T) {
	ctx := context.Background()
	repo := newFakeEventRepo()
	repo.addEvent(demoEvent("DEMO001"))
	svc := NewEventService(repo)

	result, appErr := svc.Join(ctx, "DEMO001", uuid.New())
	require.Nil(t, appErr)

	checked, appErr := svc.CheckIn(ctx, result.Participant.ID)
	require.Nil(t, appErr)
	assert.Equal(t, string(entity.ParticipationStatusCheckedIn), checked.Status)

	// A second check-in is rejected, the participation is no longer confirmed.
	_, appErr = svc.CheckIn(ctx, result.Participant.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrInvalidInput, appErr.Code)
}

func TestCountConnections(t *testing.T) {
	ctx := context.Background()

	t.Run("no participants short circuits to zero", func(t *testing.T) {
		repo := newFakeEventRepo()
		event := demoEvent("DEMO001")
		repo.addEvent(event)
		repo.connections = 42 // must not be reached
		svc := NewEventService(repo)

		count, appErr := svc.CountConnections(ctx, event.ID)
		require.Nil(t, appErr)
		assert.Equal(t, 0, count)
	})

	t.Run("counts edges for confirmed participants", func(t *testing.T) {
		repo := newFakeEventRepo()
		event := demoEvent("DEMO001")
		repo.addEvent(event)
		repo.confirmedIDs = []uuid.UUID{uuid.New(), uuid.New()}
		repo.connections = 7
		svc := NewEventService(repo)

		count, appErr := svc.CountConnections(ctx, event.ID)
		require.Nil(t, appErr)
		assert.Equal(t, 7, count)
	})
}

func TestDeleteEventCascade(t *testing.T) {
	ctx := context.Background()
	repo := newFakeEventRepo()
	event := demoEvent("DEMO001")
	repo.addEvent(event)

	var calls []string
	svc := NewEventService(repo)
	svc.RegisterDependent(&fakeDependent{name: "meetings", fail: true, calls: &calls})
	svc.RegisterDependent(&fakeDependent{name: "notifications", calls: &calls})

	appErr := svc.DeleteEvent(ctx, event.ID)
	require.Nil(t, appErr)

	// A failing dependent does not stop the cascade.
	assert.Equal(t, []string{"meetings", "notifications"}, calls)
	assert.Equal(t, []string{"feedback", "participations"}, repo.deleteCalls)
	assert.NotContains(t, repo.events, event.ID)
}

func TestCreateEvent(t *testing.T) {
	ctx := context.Background()
	svc := NewEventService(newFakeEventRepo())

	t.Run("rejects end before start", func(t *testing.T) {
		_, appErr := svc.CreateEvent(ctx, uuid.New(), &dto.CreateEventRequest{
			Title:     "Backwards",
			StartTime: time.Now().Add(time.Hour),
			EndTime:   time.Now(),
		})
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrInvalidInput, appErr.Code)
	})

	t.Run("assigns a join code", func(t *testing.T) {
		created, appErr := svc.CreateEvent(ctx, uuid.New(), &dto.CreateEventRequest{
			Title:     "Launch",
			StartTime: time.Now(),
			EndTime:   time.Now().Add(time.Hour),
		})
		require.Nil(t, appErr)
		assert.Len(t, created.Code, 7)
	})
}

func TestSubmitFeedback(t *testing.T) {
	ctx := context.Background()
	repo := newFakeEventRepo()
	event := demoEvent("DEMO001")
	repo.addEvent(event)
	svc := NewEventService(repo)

	appErr := svc.SubmitFeedback(ctx, event.ID, uuid.New(), &dto.SubmitFeedbackRequest{Rating: 6})
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrInvalidInput, appErr.Code)

	appErr = svc.SubmitFeedback(ctx, event.ID, uuid.New(), &dto.SubmitFeedbackRequest{Rating: 5, Comment: "great"})
	require.Nil(t, appErr)
	require.Len(t, repo.feedback, 1)
	assert.Equal(t, 5, repo.feedback[0].Rating)
}
