package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/crewcall-tv/crewcall/pkg/core/model"
)

// RequirementStore persists crew requirements. Requirements are written
// once alongside their production and never edited.
type RequirementStore struct {
	client *firestore.Client
}

type requirementDoc struct {
	ProductionID string `firestore:"productionId"`
	Role         string `firestore:"role"`
	Count        int    `firestore:"count"`
}

func (s *RequirementStore) col() *firestore.CollectionRef {
	return s.client.Collection(requirementsCollection)
}

// GetRequirementsByProduction returns a production's requirements.
func (s *RequirementStore) GetRequirementsByProduction(ctx context.Context, productionID string) ([]model.Requirement, error) {
	iter := s.col().Where("productionId", "==", productionID).Documents(ctx)
	defer iter.Stop()

	var requirements []model.Requirement
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate requirements: %w", err)
		}

		var doc requirementDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode requirement %s: %w", snap.Ref.ID, err)
		}
		requirements = append(requirements, model.Requirement{
			ID:           snap.Ref.ID,
			ProductionID: doc.ProductionID,
			Role:         model.CrewRole(doc.Role),
			Count:        doc.Count,
		})
	}

	return requirements, nil
}

// InsertRequirements writes a batch of requirement documents.
func (s *RequirementStore) InsertRequirements(ctx context.Context, requirements []model.Requirement) error {
	for i := range requirements {
		ref := s.col().NewDoc()
		doc := requirementDoc{
			ProductionID: requirements[i].ProductionID,
			Role:         string(requirements[i].Role),
			Count:        requirements[i].Count,
		}
		if _, err := ref.Create(ctx, doc); err != nil {
			return fmt.Errorf("failed to create requirement: %w", err)
		}
		requirements[i].ID = ref.ID
	}
	return nil
}
