package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/crewcall-tv/crewcall/pkg/core/model"
)

// AssignmentStore persists assignments in the assignments collection.
// Uniqueness per (production, user, role) is the reconciler's job;
// there is no backend constraint.
type AssignmentStore struct {
	client *firestore.Client
}

type assignmentDoc struct {
	ProductionID string    `firestore:"productionId"`
	UserID       string    `firestore:"userId"`
	Role         string    `firestore:"role"`
	Status       string    `firestore:"status"`
	AssignedBy   string    `firestore:"assignedBy,omitempty"`
	CreatedAt    time.Time `firestore:"createdAt"`
}

func (s *AssignmentStore) col() *firestore.CollectionRef {
	return s.client.Collection(assignmentsCollection)
}

func assignmentFromDoc(id string, doc assignmentDoc) model.Assignment {
	return model.Assignment{
		ID:           id,
		ProductionID: doc.ProductionID,
		UserID:       doc.UserID,
		Role:         model.CrewRole(doc.Role),
		Status:       model.AssignmentStatus(doc.Status),
		AssignedBy:   doc.AssignedBy,
		CreatedAt:    doc.CreatedAt,
	}
}

// GetAssignment returns an assignment by document id.
func (s *AssignmentStore) GetAssignment(ctx context.Context, id string) (*model.Assignment, error) {
	snap, err := s.col().Doc(id).Get(ctx)
	if err != nil {
		return nil, mapNotFound(err)
	}

	var doc assignmentDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode assignment %s: %w", id, err)
	}

	assignment := assignmentFromDoc(snap.Ref.ID, doc)
	return &assignment, nil
}

// GetAssignmentsByProduction returns every assignment on a production.
func (s *AssignmentStore) GetAssignmentsByProduction(ctx context.Context, productionID string) ([]model.Assignment, error) {
	iter := s.col().Where("productionId", "==", productionID).Documents(ctx)
	defer iter.Stop()

	return collectAssignments(iter)
}

// GetAssignmentsByUser returns every assignment held by an operator,
// across all productions and roles.
func (s *AssignmentStore) GetAssignmentsByUser(ctx context.Context, userID string) ([]model.Assignment, error) {
	iter := s.col().Where("userId", "==", userID).Documents(ctx)
	defer iter.Stop()

	return collectAssignments(iter)
}

func collectAssignments(iter *firestore.DocumentIterator) ([]model.Assignment, error) {
	var assignments []model.Assignment
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate assignments: %w", err)
		}

		var doc assignmentDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode assignment %s: %w", snap.Ref.ID, err)
		}
		assignments = append(assignments, assignmentFromDoc(snap.Ref.ID, doc))
	}
	return assignments, nil
}

// InsertAssignment creates an assignment with a backend-generated id
// and writes the id back onto the model.
func (s *AssignmentStore) InsertAssignment(ctx context.Context, assignment *model.Assignment) error {
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now().UTC()
	}

	ref := s.col().NewDoc()
	doc := assignmentDoc{
		ProductionID: assignment.ProductionID,
		UserID:       assignment.UserID,
		Role:         string(assignment.Role),
		Status:       string(assignment.Status),
		AssignedBy:   assignment.AssignedBy,
		CreatedAt:    assignment.CreatedAt,
	}
	if _, err := ref.Create(ctx, doc); err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	assignment.ID = ref.ID
	return nil
}

// DeleteAssignment removes an assignment document.
func (s *AssignmentStore) DeleteAssignment(ctx context.Context, id string) error {
	if _, err := s.col().Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	return nil
}

// UpdateAssignmentStatus records an operator's accept or decline.
func (s *AssignmentStore) UpdateAssignmentStatus(ctx context.Context, id string, statusValue model.AssignmentStatus) error {
	_, err := s.col().Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(statusValue)},
	})
	if err != nil {
		return fmt.Errorf("failed to update assignment status: %w", mapNotFound(err))
	}
	return nil
}
