package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/crewcall-tv/crewcall/pkg/core/model"
)

// UserStore reads the user directory from the users collection.
type UserStore struct {
	client *firestore.Client
}

type userDoc struct {
	Email          string    `firestore:"email"`
	Name           string    `firestore:"name"`
	Role           string    `firestore:"role"`
	Specialization string    `firestore:"specialization,omitempty"`
	PushToken      string    `firestore:"pushToken,omitempty"`
	CreatedAt      time.Time `firestore:"createdAt"`
}

func (s *UserStore) col() *firestore.CollectionRef {
	return s.client.Collection(usersCollection)
}

func userFromDoc(id string, doc userDoc) model.User {
	return model.User{
		ID:             id,
		Email:          doc.Email,
		Name:           doc.Name,
		Role:           model.UserRole(doc.Role),
		Specialization: model.CrewRole(doc.Specialization),
		PushToken:      doc.PushToken,
		CreatedAt:      doc.CreatedAt,
	}
}

// GetUser returns a user by document id.
func (s *UserStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	snap, err := s.col().Doc(id).Get(ctx)
	if err != nil {
		return nil, mapNotFound(err)
	}

	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode user %s: %w", id, err)
	}

	user := userFromDoc(snap.Ref.ID, doc)
	return &user, nil
}

// ListOperatorsBySpecialization returns operators with the given
// specialization in directory order.
func (s *UserStore) ListOperatorsBySpecialization(ctx context.Context, specialization model.CrewRole) ([]model.User, error) {
	iter := s.col().
		Where("role", "==", string(model.RoleOperator)).
		Where("specialization", "==", string(specialization)).
		Documents(ctx)
	defer iter.Stop()

	return collectUsers(iter)
}

// ListUsersByRole returns all users holding the given app role.
func (s *UserStore) ListUsersByRole(ctx context.Context, role model.UserRole) ([]model.User, error) {
	iter := s.col().Where("role", "==", string(role)).Documents(ctx)
	defer iter.Stop()

	return collectUsers(iter)
}

func collectUsers(iter *firestore.DocumentIterator) ([]model.User, error) {
	var users []model.User
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate users: %w", err)
		}

		var doc userDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode user %s: %w", snap.Ref.ID, err)
		}
		users = append(users, userFromDoc(snap.Ref.ID, doc))
	}
	return users, nil
}

// SetPushToken stores a device push token against the user record.
func (s *UserStore) SetPushToken(ctx context.Context, userID, token string) error {
	_, err := s.col().Doc(userID).Update(ctx, []firestore.Update{
		{Path: "pushToken", Value: token},
	})
	if err != nil {
		return fmt.Errorf("failed to set push token: %w", mapNotFound(err))
	}
	return nil
}
