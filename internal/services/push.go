package services

import (
	"context"
	"fmt"

	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/certificate"
	"github.com/sideshow/apns2/payload"
)

// PushConfig holds APNs settings
type PushConfig struct {
	CertFile     string
	CertPassword string
	Topic        string
	Production   bool
}

// PushService sends alert notifications to iOS devices through APNs
type PushService struct {
	client *apns2.Client
	topic  string
}

// NewPushService loads the APNs certificate and creates a client
func NewPushService(pc PushConfig) (*PushService, error) {
	cert, err := certificate.FromP12File(pc.CertFile, pc.CertPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs certificate: %w", err)
	}

	client := apns2.NewClient(cert)
	if pc.Production {
		client = client.Production()
	} else {
		client = client.Development()
	}

	return &PushService{client: client, topic: pc.Topic}, nil
}

// Push sends an alert to a device token
func (s *PushService) Push(ctx context.Context, deviceToken, title, body string) error {
	notification := &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       s.topic,
		Payload:     payload.NewPayload().AlertTitle(title).AlertBody(body).Sound("default"),
	}

	res, err := s.client.PushWithContext(ctx, notification)
	if err != nil {
		return fmt.Errorf("failed to push notification: %w", err)
	}
	if !res.Sent() {
		return fmt.Errorf("push rejected: %d %s", res.StatusCode, res.Reason)
	}
	return nil
}
