// Package authclient wraps the Firebase Admin SDK auth client. The
// hosted auth service owns credentials and sessions; this client only
// verifies tokens and resolves them to app users.
package authclient

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/crewcall-tv/crewcall/pkg/core/services"
	"github.com/crewcall-tv/crewcall/pkg/db"
)

// Client wraps the Firebase auth client
type Client struct {
	auth *auth.Client
}

// NewClient initializes the Firebase Admin SDK and returns an auth
// client.
func NewClient(ctx context.Context, credentialsPath string) (*Client, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("firebase credentials path is required")
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth client: %w", err)
	}

	return &Client{auth: authClient}, nil
}

// SessionFromToken verifies a Firebase ID token and resolves the user
// document behind it into a Session.
func (c *Client) SessionFromToken(ctx context.Context, users db.UserStore, idToken string) (services.Session, error) {
	token, err := c.auth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return services.Session{}, fmt.Errorf("failed to verify id token: %w", err)
	}

	user, err := users.GetUser(ctx, token.UID)
	if err != nil {
		return services.Session{}, fmt.Errorf("failed to resolve user for uid %s: %w", token.UID, err)
	}

	return services.Session{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
	}, nil
}

// SessionForUser builds a session directly from a user id. Used by the
// CLI where the operator authenticates out of band.
func (c *Client) SessionForUser(ctx context.Context, users db.UserStore, userID string) (services.Session, error) {
	user, err := users.GetUser(ctx, userID)
	if err != nil {
		return services.Session{}, fmt.Errorf("failed to resolve user %s: %w", userID, err)
	}

	return services.Session{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
	}, nil
}

// RegisterPushToken persists a device push token against the user
// record. Fire-and-forget: failures are logged, never returned.
func (c *Client) RegisterPushToken(ctx context.Context, users db.UserStore, logger *zap.Logger, userID, token string) {
	if token == "" {
		return
	}
	if err := users.SetPushToken(ctx, userID, token); err != nil {
		logger.Warn("Failed to register push token",
			zap.String("user_id", userID),
			zap.Error(err))
	}
}
