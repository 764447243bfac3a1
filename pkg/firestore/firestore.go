// Package firestore implements the pkg/db store interfaces on Cloud
// Firestore, the app's hosted document store. Documents use
// backend-generated ids; timestamp fields convert to time.Time at the
// read boundary.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/crewcall-tv/crewcall/pkg/core/model"
	"github.com/crewcall-tv/crewcall/pkg/db"
)

const (
	usersCollection         = "users"
	productionsCollection   = "productions"
	requirementsCollection  = "requirements"
	assignmentsCollection   = "assignments"
	notificationsCollection = "notifications"
)

// Store bundles the per-collection stores over one Firestore client.
type Store struct {
	client *firestore.Client

	Users         *UserStore
	Productions   *ProductionStore
	Requirements  *RequirementStore
	Assignments   *AssignmentStore
	Notifications *NotificationStore
}

// NewStore connects to Firestore and returns the collection stores.
func NewStore(ctx context.Context, projectID, credentialsPath string) (*Store, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	return &Store{
		client:        client,
		Users:         &UserStore{client: client},
		Productions:   &ProductionStore{client: client},
		Requirements:  &RequirementStore{client: client},
		Assignments:   &AssignmentStore{client: client},
		Notifications: &NotificationStore{client: client},
	}, nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// GetAssignmentsByUser delegates to the assignment store so Store
// satisfies the conflict checker's interface.
func (s *Store) GetAssignmentsByUser(ctx context.Context, userID string) ([]model.Assignment, error) {
	return s.Assignments.GetAssignmentsByUser(ctx, userID)
}

// GetProduction delegates to the production store.
func (s *Store) GetProduction(ctx context.Context, id string) (*model.Production, error) {
	return s.Productions.GetProduction(ctx, id)
}

// mapNotFound converts the Firestore not-found status into the store's
// sentinel error.
func mapNotFound(err error) error {
	if status.Code(err) == codes.NotFound {
		return db.ErrNotFound
	}
	return err
}
