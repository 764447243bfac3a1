package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/crewcall-tv/crewcall/pkg/core/model"
	"github.com/crewcall-tv/crewcall/pkg/db"
)

// Pusher sends a push message to a registered device token.
type Pusher interface {
	Push(ctx context.Context, token, title, body string, data map[string]string) error
}

// Emailer sends an email copy of a notification.
type Emailer interface {
	SendNotificationEmail(ctx context.Context, to, subject, body string) error
}

// Notifier writes notification records and fans them out to push and
// email. The record write is the source of truth; push and email are
// fire-and-forget, their failures are logged and ignored.
type Notifier struct {
	store   db.NotificationStore
	users   db.UserStore
	pusher  Pusher  // optional
	emailer Emailer // optional
	logger  *zap.Logger
}

// NewNotifier creates a Notifier. pusher and emailer may be nil to
// disable those channels.
func NewNotifier(store db.NotificationStore, users db.UserStore, pusher Pusher, emailer Emailer, logger *zap.Logger) *Notifier {
	return &Notifier{
		store:   store,
		users:   users,
		pusher:  pusher,
		emailer: emailer,
		logger:  logger,
	}
}

// Notify writes a notification record for a user and delivers
// best-effort push/email copies.
func (n *Notifier) Notify(ctx context.Context, userID string, notificationType model.NotificationType, title, body, productionID string) error {
	notification := &model.Notification{
		UserID:       userID,
		Type:         notificationType,
		Title:        title,
		Body:         body,
		ProductionID: productionID,
		CreatedAt:    time.Now().UTC(),
	}

	if err := n.store.InsertNotification(ctx, notification); err != nil {
		return fmt.Errorf("failed to write notification: %w", err)
	}

	user, err := n.users.GetUser(ctx, userID)
	if err != nil {
		n.logger.Warn("Notification written but user lookup failed, skipping delivery",
			zap.String("user_id", userID),
			zap.Error(err))
		return nil
	}

	if n.pusher != nil && user.PushToken != "" {
		data := map[string]string{"type": string(notificationType)}
		if productionID != "" {
			data["productionId"] = productionID
		}
		if err := n.pusher.Push(ctx, user.PushToken, title, body, data); err != nil {
			n.logger.Warn("Push delivery failed",
				zap.String("user_id", userID),
				zap.Error(err))
		}
	}

	if n.emailer != nil && user.Email != "" {
		if err := n.emailer.SendNotificationEmail(ctx, user.Email, title, body); err != nil {
			n.logger.Warn("Email delivery failed",
				zap.String("user_id", userID),
				zap.Error(err))
		}
	}

	return nil
}
