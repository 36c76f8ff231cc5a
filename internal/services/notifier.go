package services

import (
	"context"
	"time"

	"volunteer-network-backend/internal/models"
	"volunteer-network-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

// Realtime delivers messages to connected clients
type Realtime interface {
	IsOnline(userID string) bool
	SendToUser(userID string, message WSMessage) error
}

// Pusher delivers alerts to offline devices
type Pusher interface {
	Push(ctx context.Context, deviceToken, title, body string) error
}

// ConnectionEvent is published for connection lifecycle changes
type ConnectionEvent struct {
	ConnectionID string    `json:"connection_id,omitempty"`
	UserID       string    `json:"user_id"`
	OtherUserID  string    `json:"other_user_id"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// PostCreatedEvent is published when a post is stored
type PostCreatedEvent struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier tells users and other services about completed mutations.
// Delivery is best effort: failures are logged, never returned.
type Notifier struct {
	realtime  Realtime
	pusher    Pusher
	publisher EventPublisher
	users     repository.UserRepository
}

// NewNotifier creates a notifier. pusher may be nil when APNs is not configured.
func NewNotifier(realtime Realtime, pusher Pusher, publisher EventPublisher, users repository.UserRepository) *Notifier {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &Notifier{
		realtime:  realtime,
		pusher:    pusher,
		publisher: publisher,
		users:     users,
	}
}

// ConnectionRequested notifies toUserID of a new request from fromUserID
func (n *Notifier) ConnectionRequested(ctx context.Context, fromUserID, toUserID, connectionID string) {
	n.publish(ctx, SubjectConnectionRequested, ConnectionEvent{
		ConnectionID: connectionID,
		UserID:       fromUserID,
		OtherUserID:  toUserID,
		OccurredAt:   time.Now().UTC(),
	})

	from := n.displayName(ctx, fromUserID)
	n.deliver(ctx, toUserID, WSMessage{
		Type: "connection_request",
		Data: map[string]interface{}{
			"connection_id": connectionID,
			"requester_id":  fromUserID,
		},
	}, "New connection request", from+" wants to connect with you")
}

// ConnectionAccepted notifies requesterID that userID accepted
func (n *Notifier) ConnectionAccepted(ctx context.Context, userID, requesterID string) {
	n.publish(ctx, SubjectConnectionAccepted, ConnectionEvent{
		UserID:      userID,
		OtherUserID: requesterID,
		OccurredAt:  time.Now().UTC(),
	})

	name := n.displayName(ctx, userID)
	n.deliver(ctx, requesterID, WSMessage{
		Type: "connection_accepted",
		Data: map[string]interface{}{
			"user_id": userID,
		},
	}, "Connection accepted", name+" accepted your connection request")
}

// ConnectionRemoved notifies the other side that the connection is gone
func (n *Notifier) ConnectionRemoved(ctx context.Context, userID, otherUserID string) {
	n.publish(ctx, SubjectConnectionRemoved, ConnectionEvent{
		UserID:      userID,
		OtherUserID: otherUserID,
		OccurredAt:  time.Now().UTC(),
	})

	if n.realtime.IsOnline(otherUserID) {
		msg := WSMessage{Type: "connection_removed", Data: map[string]interface{}{"user_id": userID}}
		if err := n.realtime.SendToUser(otherUserID, msg); err != nil {
			log.Error().Err(err).Str("user_id", otherUserID).Msg("Failed to notify user about removed connection")
		}
	}
}

// PostCreated publishes the new post for downstream consumers
func (n *Notifier) PostCreated(ctx context.Context, post *models.Post) {
	n.publish(ctx, SubjectPostCreated, PostCreatedEvent{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		Content:   post.Content,
		CreatedAt: post.CreatedAt,
	})
}

// deliver sends msg over the realtime channel when the user is online and
// falls back to a push alert otherwise
func (n *Notifier) deliver(ctx context.Context, userID string, msg WSMessage, title, body string) {
	if n.realtime.IsOnline(userID) {
		if err := n.realtime.SendToUser(userID, msg); err != nil {
			log.Error().Err(err).Str("user_id", userID).Str("type", msg.Type).Msg("Failed to send realtime notification")
		} else {
			return
		}
	}

	if n.pusher == nil {
		return
	}

	user, err := n.users.GetByID(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to load user for push")
		return
	}
	if user.PushToken == nil || *user.PushToken == "" {
		return
	}

	if err := n.pusher.Push(ctx, *user.PushToken, title, body); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to send push notification")
	}
}

func (n *Notifier) publish(ctx context.Context, subject string, event any) {
	if err := n.publisher.Publish(ctx, subject, event); err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("Failed to publish event")
	}
}

func (n *Notifier) displayName(ctx context.Context, userID string) string {
	user, err := n.users.GetByID(ctx, userID)
	if err != nil {
		return "Someone"
	}
	return user.Name
}
