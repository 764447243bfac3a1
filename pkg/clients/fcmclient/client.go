// Package fcmclient sends push notifications through Firebase Cloud
// Messaging.
package fcmclient

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Client wraps the FCM messaging client
type Client struct {
	messaging *messaging.Client
}

// NewClient initializes the Firebase Admin SDK and returns a messaging
// client.
func NewClient(ctx context.Context, credentialsPath string) (*Client, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("firebase credentials path is required")
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging client: %w", err)
	}

	return &Client{messaging: messagingClient}, nil
}

// Push sends one push message to a device token. Callers treat push as
// fire-and-forget; the error is returned for logging only.
func (c *Client) Push(ctx context.Context, token, title, body string, data map[string]string) error {
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := c.messaging.Send(ctx, message); err != nil {
		return fmt.Errorf("failed to send push message: %w", err)
	}
	return nil
}
