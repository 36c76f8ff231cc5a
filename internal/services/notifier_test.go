package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"volunteer-network-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRealtime struct {
	mock.Mock
}

func (m *MockRealtime) IsOnline(userID string) bool {
	return m.Called(userID).Bool(0)
}

func (m *MockRealtime) SendToUser(userID string, message WSMessage) error {
	return m.Called(userID, message).Error(0)
}

type MockPusher struct {
	mock.Mock
}

func (m *MockPusher) Push(ctx context.Context, deviceToken, title, body string) error {
	return m.Called(ctx, deviceToken, title, body).Error(0)
}

type recordingPublisher struct {
	subjects []string
	events   []any
}

func (p *recordingPublisher) Publish(ctx context.Context, subject string, event any) error {
	p.subjects = append(p.subjects, subject)
	p.events = append(p.events, event)
	return nil
}

func TestNotifier_ConnectionRequested_OnlineUsesRealtime(t *testing.T) {
	store := newTestStore(t, "a", "b")
	realtime := new(MockRealtime)
	pusher := new(MockPusher)
	publisher := &recordingPublisher{}

	realtime.On("IsOnline", "b").Return(true)
	realtime.On("SendToUser", "b", mock.MatchedBy(func(m WSMessage) bool {
		return m.Type == "connection_request"
	})).Return(nil)

	n := NewNotifier(realtime, pusher, publisher, store.Users)
	n.ConnectionRequested(context.Background(), "a", "b", "conn-1")

	realtime.AssertExpectations(t)
	pusher.AssertNotCalled(t, "Push", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	require.Equal(t, []string{SubjectConnectionRequested}, publisher.subjects)
	event, ok := publisher.events[0].(ConnectionEvent)
	require.True(t, ok)
	assert.Equal(t, "conn-1", event.ConnectionID)
	assert.Equal(t, "a", event.UserID)
	assert.Equal(t, "b", event.OtherUserID)
}

func TestNotifier_ConnectionAccepted_OfflineFallsBackToPush(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, "b")
	token := "device-token"
	require.NoError(t, store.Users.Create(ctx, &models.User{ID: "a", Name: "Alice", Username: "alice", PushToken: &token, CreatedAt: time.Now()}))

	realtime := new(MockRealtime)
	pusher := new(MockPusher)

	realtime.On("IsOnline", "a").Return(false)
	pusher.On("Push", mock.Anything, "device-token", "Connection accepted", "Name b accepted your connection request").Return(nil)

	n := NewNotifier(realtime, pusher, nil, store.Users)
	n.ConnectionAccepted(ctx, "b", "a")

	realtime.AssertExpectations(t)
	pusher.AssertExpectations(t)
}

func TestNotifier_FailedRealtimeFallsBackToPush(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, "a")
	token := "tok"
	require.NoError(t, store.Users.Create(ctx, &models.User{ID: "b", Name: "Bo", Username: "bo", PushToken: &token, CreatedAt: time.Now()}))

	realtime := new(MockRealtime)
	pusher := new(MockPusher)

	realtime.On("IsOnline", "b").Return(true)
	realtime.On("SendToUser", "b", mock.Anything).Return(errors.New("broken pipe"))
	pusher.On("Push", mock.Anything, "tok", "New connection request", "Name a wants to connect with you").Return(errors.New("apns down"))

	n := NewNotifier(realtime, pusher, nil, store.Users)
	assert.NotPanics(t, func() {
		n.ConnectionRequested(ctx, "a", "b", "conn-2")
	})

	pusher.AssertExpectations(t)
}

func TestNotifier_NoPusherConfigured(t *testing.T) {
	store := newTestStore(t, "a", "b")
	realtime := new(MockRealtime)
	realtime.On("IsOnline", "b").Return(false)

	n := NewNotifier(realtime, nil, nil, store.Users)
	n.ConnectionRequested(context.Background(), "a", "b", "conn-3")

	realtime.AssertNotCalled(t, "SendToUser", mock.Anything, mock.Anything)
}

func TestNotifier_PostCreatedPublishes(t *testing.T) {
	store := newTestStore(t, "a")
	publisher := &recordingPublisher{}
	n := NewNotifier(new(MockRealtime), nil, publisher, store.Users)

	n.PostCreated(context.Background(), &models.Post{ID: "p1", AuthorID: "a", Content: "hello", CreatedAt: time.Now()})

	require.Equal(t, []string{SubjectPostCreated}, publisher.subjects)
	event := publisher.events[0].(PostCreatedEvent)
	assert.Equal(t, "p1", event.ID)
	assert.Equal(t, "a", event.AuthorID)
}
