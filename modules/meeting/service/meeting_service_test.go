package service

import (
	"context"
	"testing"
	"time"

	apperrors "ndrop-api/core/errors"
	"ndrop-api/modules/meeting/dto"
	"ndrop-api/modules/meeting/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMeetingRepo struct {
	slots        map[uuid.UUID]*entity.TimeSlot
	meetings     map[uuid.UUID]*entity.Meeting
	participants map[string]bool // eventID:userID
	bookedSlots  map[uuid.UUID]bool
	confirmFails bool
}

func newFakeMeetingRepo() *fakeMeetingRepo {
	return &fakeMeetingRepo{
		slots:        map[uuid.UUID]*entity.TimeSlot{},
		meetings:     map[uuid.UUID]*entity.Meeting{},
		participants: map[string]bool{},
		bookedSlots:  map[uuid.UUID]bool{},
	}
}

func (f *fakeMeetingRepo) join(eventID, userID uuid.UUID) {
	f.participants[eventID.String()+":"+userID.String()] = true
}

func (f *fakeMeetingRepo) addSlot(eventID uuid.UUID, blocked bool) *entity.TimeSlot {
	slot := &entity.TimeSlot{
		ID:        uuid.New(),
		EventID:   eventID,
		StartTime: time.Now().Add(time.Hour),
		EndTime:   time.Now().Add(90 * time.Minute),
		IsBlocked: blocked,
	}
	f.slots[slot.ID] = slot
	return slot
}

func (f *fakeMeetingRepo) CreateSlots(ctx context.Context, slots []entity.TimeSlot) ([]entity.TimeSlot, error) {
	created := make([]entity.TimeSlot, 0, len(slots))
	for _, s := range slots {
		s.ID = uuid.New()
		f.slots[s.ID] = &s
		created = append(created, s)
	}
	return created, nil
}

func (f *fakeMeetingRepo) GetSlotByID(ctx context.Context, id uuid.UUID) (*entity.TimeSlot, error) {
	return f.slots[id], nil
}

func (f *fakeMeetingRepo) ListSlots(ctx context.Context, eventID uuid.UUID) ([]entity.TimeSlotAvailability, error) {
	var out []entity.TimeSlotAvailability
	for _, s := range f.slots {
		if s.EventID == eventID && !s.IsBlocked {
			out = append(out, entity.TimeSlotAvailability{TimeSlot: *s, IsBooked: f.bookedSlots[s.ID]})
		}
	}
	return out, nil
}

func (f *fakeMeetingRepo) CreateMeeting(ctx context.Context, m *entity.Meeting) (*entity.Meeting, error) {
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	f.meetings[m.ID] = m
	return m, nil
}

func (f *fakeMeetingRepo) GetMeetingByID(ctx context.Context, id uuid.UUID) (*entity.Meeting, error) {
	if m, ok := f.meetings[id]; ok {
		copied := *m
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeMeetingRepo) ListMeetingsForUser(ctx context.Context, eventID uuid.UUID, userID uuid.UUID) ([]entity.MeetingDetail, error) {
	var out []entity.MeetingDetail
	for _, m := range f.meetings {
		if m.EventID == eventID && (m.RequesterID == userID || m.RecipientID == userID) {
			out = append(out, entity.MeetingDetail{Meeting: *m})
		}
	}
	return out, nil
}

func (f *fakeMeetingRepo) ConfirmMeeting(ctx context.Context, meetingID uuid.UUID) (bool, error) {
	m, ok := f.meetings[meetingID]
	if !ok || m.Status != entity.MeetingPending {
		return false, nil
	}
	if f.confirmFails || f.bookedSlots[m.SlotID] {
		return false, nil
	}
	m.Status = entity.MeetingConfirmed
	f.bookedSlots[m.SlotID] = true
	return true, nil
}

func (f *fakeMeetingRepo) UpdateStatus(ctx context.Context, meetingID uuid.UUID, status entity.MeetingStatus) error {
	if m, ok := f.meetings[meetingID]; ok {
		if m.Status == entity.MeetingConfirmed && status == entity.MeetingCancelled {
			delete(f.bookedSlots, m.SlotID)
		}
		m.Status = status
	}
	return nil
}

func (f *fakeMeetingRepo) HasConfirmedForSlot(ctx context.Context, slotID uuid.UUID) (bool, error) {
	return f.bookedSlots[slotID], nil
}

func (f *fakeMeetingRepo) IsActiveParticipant(ctx context.Context, eventID uuid.UUID, userID uuid.UUID) (bool, error) {
	return f.participants[eventID.String()+":"+userID.String()], nil
}

func (f *fakeMeetingRepo) DeleteByEventID(ctx context.Context, eventID uuid.UUID) error {
	return nil
}

type fakeNotifier struct {
	sent []string // notifType per call
	to   []uuid.UUID
}

func (f *fakeNotifier) NotifyUser(ctx context.Context, userID uuid.UUID, notifType string, title string, message string, relatedEventID *uuid.UUID) error {
	f.sent = append(f.sent, notifType)
	f.to = append(f.to, userID)
	return nil
}

type meetingFixture struct {
	repo      *fakeMeetingRepo
	notifier  *fakeNotifier
	svc       MeetingServiceInterface
	eventID   uuid.UUID
	requester uuid.UUID
	recipient uuid.UUID
	slot      *entity.TimeSlot
}

func newMeetingFixture() *meetingFixture {
	repo := newFakeMeetingRepo()
	notifier := &fakeNotifier{}
	fx := &meetingFixture{
		repo:      repo,
		notifier:  notifier,
		svc:       NewMeetingService(repo, notifier),
		eventID:   uuid.New(),
		requester: uuid.New(),
		recipient: uuid.New(),
	}
	repo.join(fx.eventID, fx.requester)
	repo.join(fx.eventID, fx.recipient)
	fx.slot = repo.addSlot(fx.eventID, false)
	return fx
}

func (fx *meetingFixture) request(t *testing.T) *dto.MeetingResponse {
	t.Helper()
	resp, appErr := fx.svc.RequestMeeting(context.Background(), fx.requester, &dto.RequestMeetingRequest{
		EventID:     fx.eventID.String(),
		SlotID:      fx.slot.ID.String(),
		RecipientID: fx.recipient.String(),
		Message:     "coffee?",
	})
	require.Nil(t, appErr)
	return resp
}

func TestRequestMeeting(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending request and notifies the recipient", func(t *testing.T) {
		fx := newMeetingFixture()
		resp := fx.request(t)

		assert.Equal(t, entity.MeetingPending, resp.Status)
		require.Len(t, fx.notifier.sent, 1)
		assert.Equal(t, "meeting_request", fx.notifier.sent[0])
		assert.Equal(t, fx.recipient, fx.notifier.to[0])
	})

	t.Run("rejects a meeting with yourself", func(t *testing.T) {
		fx := newMeetingFixture()
		_, appErr := fx.svc.RequestMeeting(ctx, fx.requester, &dto.RequestMeetingRequest{
			EventID:     fx.eventID.String(),
			SlotID:      fx.slot.ID.String(),
			RecipientID: fx.requester.String(),
		})
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrInvalidInput, appErr.Code)
	})

	t.Run("requires both sides to be participants", func(t *testing.T) {
		fx := newMeetingFixture()
		outsider := uuid.New()
		_, appErr := fx.svc.RequestMeeting(ctx, fx.requester, &dto.RequestMeetingRequest{
			EventID:     fx.eventID.String(),
			SlotID:      fx.slot.ID.String(),
			RecipientID: outsider.String(),
		})
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrInvalidInput, appErr.Code)
		assert.Empty(t, fx.repo.meetings)
	})

	t.Run("rejects a slot from another event", func(t *testing.T) {
		fx := newMeetingFixture()
		foreign := fx.repo.addSlot(uuid.New(), false)
		_, appErr := fx.svc.RequestMeeting(ctx, fx.requester, &dto.RequestMeetingRequest{
			EventID:     fx.eventID.String(),
			SlotID:      foreign.ID.String(),
			RecipientID: fx.recipient.String(),
		})
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
	})

	t.Run("rejects a blocked slot", func(t *testing.T) {
		fx := newMeetingFixture()
		blocked := fx.repo.addSlot(fx.eventID, true)
		_, appErr := fx.svc.RequestMeeting(ctx, fx.requester, &dto.RequestMeetingRequest{
			EventID:     fx.eventID.String(),
			SlotID:      blocked.ID.String(),
			RecipientID: fx.recipient.String(),
		})
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrInvalidInput, appErr.Code)
	})

	t.Run("conflicts on an already booked slot", func(t *testing.T) {
		fx := newMeetingFixture()
		fx.repo.bookedSlots[fx.slot.ID] = true
		_, appErr := fx.svc.RequestMeeting(ctx, fx.requester, &dto.RequestMeetingRequest{
			EventID:     fx.eventID.String(),
			SlotID:      fx.slot.ID.String(),
			RecipientID: fx.recipient.String(),
		})
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrAlreadyExists, appErr.Code)
	})
}

func TestRespond(t *testing.T) {
	ctx := context.Background()

	t.Run("accept confirms the meeting and books the slot", func(t *testing.T) {
		fx := newMeetingFixture()
		created := fx.request(t)

		resp, appErr := fx.svc.Respond(ctx, fx.recipient, uuid.MustParse(created.ID), dto.ActionAccept)
		require.Nil(t, appErr)
		assert.Equal(t, entity.MeetingConfirmed, resp.Status)
		assert.True(t, fx.repo.bookedSlots[fx.slot.ID])
		// meeting_request then meeting_response
		require.Len(t, fx.notifier.sent, 2)
		assert.Equal(t, "meeting_response", fx.notifier.sent[1])
		assert.Equal(t, fx.requester, fx.notifier.to[1])
	})

	t.Run("only the recipient can respond", func(t *testing.T) {
		fx := newMeetingFixture()
		created := fx.request(t)

		_, appErr := fx.svc.Respond(ctx, fx.requester, uuid.MustParse(created.ID), dto.ActionAccept)
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
	})

	t.Run("accept conflicts when the slot was taken first", func(t *testing.T) {
		fx := newMeetingFixture()
		created := fx.request(t)
		fx.repo.confirmFails = true

		_, appErr := fx.svc.Respond(ctx, fx.recipient, uuid.MustParse(created.ID), dto.ActionAccept)
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrAlreadyExists, appErr.Code)
		// The request is left pending for a later retry.
		assert.Equal(t, entity.MeetingPending, fx.repo.meetings[uuid.MustParse(created.ID)].Status)
	})

	t.Run("decline closes the request without booking", func(t *testing.T) {
		fx := newMeetingFixture()
		created := fx.request(t)

		resp, appErr := fx.svc.Respond(ctx, fx.recipient, uuid.MustParse(created.ID), dto.ActionDecline)
		require.Nil(t, appErr)
		assert.Equal(t, entity.MeetingDeclined, resp.Status)
		assert.False(t, fx.repo.bookedSlots[fx.slot.ID])
	})

	t.Run("responding twice is rejected", func(t *testing.T) {
		fx := newMeetingFixture()
		created := fx.request(t)

		_, appErr := fx.svc.Respond(ctx, fx.recipient, uuid.MustParse(created.ID), dto.ActionDecline)
		require.Nil(t, appErr)
		_, appErr = fx.svc.Respond(ctx, fx.recipient, uuid.MustParse(created.ID), dto.ActionAccept)
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrInvalidInput, appErr.Code)
	})

	t.Run("unknown action is rejected", func(t *testing.T) {
		fx := newMeetingFixture()
		created := fx.request(t)

		_, appErr := fx.svc.Respond(ctx, fx.recipient, uuid.MustParse(created.ID), "maybe")
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrInvalidInput, appErr.Code)
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cancelling a confirmed meeting frees the slot", func(t *testing.T) {
		fx := newMeetingFixture()
		created := fx.request(t)
		_, appErr := fx.svc.Respond(ctx, fx.recipient, uuid.MustParse(created.ID), dto.ActionAccept)
		require.Nil(t, appErr)

		appErr = fx.svc.Cancel(ctx, fx.requester, uuid.MustParse(created.ID))
		require.Nil(t, appErr)
		assert.Equal(t, entity.MeetingCancelled, fx.repo.meetings[uuid.MustParse(created.ID)].Status)
		assert.False(t, fx.repo.bookedSlots[fx.slot.ID])
		assert.Equal(t, "meeting_cancelled", fx.notifier.sent[len(fx.notifier.sent)-1])
		assert.Equal(t, fx.recipient, fx.notifier.to[len(fx.notifier.to)-1])
	})

	t.Run("a stranger cannot cancel", func(t *testing.T) {
		fx := newMeetingFixture()
		created := fx.request(t)

		appErr := fx.svc.Cancel(ctx, uuid.New(), uuid.MustParse(created.ID))
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
	})

	t.Run("a closed meeting cannot be cancelled again", func(t *testing.T) {
		fx := newMeetingFixture()
		created := fx.request(t)
		require.Nil(t, fx.svc.Cancel(ctx, fx.recipient, uuid.MustParse(created.ID)))

		appErr := fx.svc.Cancel(ctx, fx.recipient, uuid.MustParse(created.ID))
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrInvalidInput, appErr.Code)
	})
}

func TestListSlots(t *testing.T) {
	fx := newMeetingFixture()
	fx.repo.addSlot(fx.eventID, true)
	fx.repo.bookedSlots[fx.slot.ID] = true

	slots, appErr := fx.svc.ListSlots(context.Background(), fx.eventID)
	require.Nil(t, appErr)

	// Blocked slots (breaks, keynotes) never reach participants.
	require.Len(t, slots, 1)
	assert.Equal(t, fx.slot.ID, slots[0].ID)
	assert.True(t, slots[0].IsBooked)
}

func TestCreateSlotsValidation(t *testing.T) {
	fx := newMeetingFixture()
	start := time.Now().Add(time.Hour)

	_, appErr := fx.svc.CreateSlots(context.Background(), fx.eventID, &dto.CreateSlotsRequest{
		Slots: []dto.SlotInput{{StartTime: start, EndTime: start.Add(-time.Minute)}},
	})
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrInvalidInput, appErr.Code)

	created, appErr := fx.svc.CreateSlots(context.Background(), fx.eventID, &dto.CreateSlotsRequest{
		Slots: []dto.SlotInput{
			{StartTime: start, EndTime: start.Add(30 * time.Minute)},
			{StartTime: start.Add(30 * time.Minute), EndTime: start.Add(time.Hour)},
		},
	})
	require.Nil(t, appErr)
	assert.Len(t, created, 2)
}
