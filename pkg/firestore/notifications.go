package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/crewcall-tv/crewcall/pkg/core/model"
)

// NotificationStore persists notification records.
type NotificationStore struct {
	client *firestore.Client
}

type notificationDoc struct {
	UserID       string    `firestore:"userId"`
	Type         string    `firestore:"type"`
	Title        string    `firestore:"title"`
	Body         string    `firestore:"body"`
	ProductionID string    `firestore:"productionId,omitempty"`
	Read         bool      `firestore:"read"`
	CreatedAt    time.Time `firestore:"createdAt"`
}

func (s *NotificationStore) col() *firestore.CollectionRef {
	return s.client.Collection(notificationsCollection)
}

// InsertNotification writes a notification record with a
// backend-generated id.
func (s *NotificationStore) InsertNotification(ctx context.Context, notification *model.Notification) error {
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}

	ref := s.col().NewDoc()
	doc := notificationDoc{
		UserID:       notification.UserID,
		Type:         string(notification.Type),
		Title:        notification.Title,
		Body:         notification.Body,
		ProductionID: notification.ProductionID,
		Read:         notification.Read,
		CreatedAt:    notification.CreatedAt,
	}
	if _, err := ref.Create(ctx, doc); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	notification.ID = ref.ID
	return nil
}

// ListNotificationsForUser returns a user's notifications, newest
// first.
func (s *NotificationStore) ListNotificationsForUser(ctx context.Context, userID string) ([]model.Notification, error) {
	iter := s.col().
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var notifications []model.Notification
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate notifications: %w", err)
		}

		var doc notificationDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode notification %s: %w", snap.Ref.ID, err)
		}
		notifications = append(notifications, model.Notification{
			ID:           snap.Ref.ID,
			UserID:       doc.UserID,
			Type:         model.NotificationType(doc.Type),
			Title:        doc.Title,
			Body:         doc.Body,
			ProductionID: doc.ProductionID,
			Read:         doc.Read,
			CreatedAt:    doc.CreatedAt,
		})
	}

	return notifications, nil
}

// MarkNotificationRead flips the read flag on one notification.
func (s *NotificationStore) MarkNotificationRead(ctx context.Context, id string) error {
	_, err := s.col().Doc(id).Update(ctx, []firestore.Update{
		{Path: "read", Value: true},
	})
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", mapNotFound(err))
	}
	return nil
}
