package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/crewcall-tv/crewcall/pkg/core/model"
)

// ProductionStore persists productions in the productions collection.
type ProductionStore struct {
	client *firestore.Client
}

type productionDoc struct {
	Name            string    `firestore:"name"`
	Date            time.Time `firestore:"date"`
	CallTime        time.Time `firestore:"callTime"`
	StartTime       time.Time `firestore:"startTime"`
	EndTime         time.Time `firestore:"endTime"`
	Venue           string    `firestore:"venue"`
	LocationDetails string    `firestore:"locationDetails,omitempty"`
	Status          string    `firestore:"status"`
	RequestedBy     string    `firestore:"requestedBy"`
	ConfirmedBy     string    `firestore:"confirmedBy,omitempty"`
	Notes           string    `firestore:"notes,omitempty"`
	SeriesID        string    `firestore:"seriesId,omitempty"`
	CreatedAt       time.Time `firestore:"createdAt"`
	UpdatedAt       time.Time `firestore:"updatedAt"`
}

func (s *ProductionStore) col() *firestore.CollectionRef {
	return s.client.Collection(productionsCollection)
}

func productionFromDoc(id string, doc productionDoc) model.Production {
	return model.Production{
		ID:              id,
		Name:            doc.Name,
		Date:            doc.Date,
		CallTime:        doc.CallTime,
		StartTime:       doc.StartTime,
		EndTime:         doc.EndTime,
		Venue:           doc.Venue,
		LocationDetails: doc.LocationDetails,
		Status:          model.ProductionStatus(doc.Status),
		RequestedBy:     doc.RequestedBy,
		ConfirmedBy:     doc.ConfirmedBy,
		Notes:           doc.Notes,
		SeriesID:        doc.SeriesID,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}
}

func productionToDoc(p model.Production) productionDoc {
	return productionDoc{
		Name:            p.Name,
		Date:            p.Date,
		CallTime:        p.CallTime,
		StartTime:       p.StartTime,
		EndTime:         p.EndTime,
		Venue:           p.Venue,
		LocationDetails: p.LocationDetails,
		Status:          string(p.Status),
		RequestedBy:     p.RequestedBy,
		ConfirmedBy:     p.ConfirmedBy,
		Notes:           p.Notes,
		SeriesID:        p.SeriesID,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// GetProduction returns a production by document id.
func (s *ProductionStore) GetProduction(ctx context.Context, id string) (*model.Production, error) {
	snap, err := s.col().Doc(id).Get(ctx)
	if err != nil {
		return nil, mapNotFound(err)
	}

	var doc productionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode production %s: %w", id, err)
	}

	production := productionFromDoc(snap.Ref.ID, doc)
	return &production, nil
}

// ListProductions returns all productions ordered by date ascending.
func (s *ProductionStore) ListProductions(ctx context.Context) ([]model.Production, error) {
	iter := s.col().OrderBy("date", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var productions []model.Production
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate productions: %w", err)
		}

		var doc productionDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode production %s: %w", snap.Ref.ID, err)
		}
		productions = append(productions, productionFromDoc(snap.Ref.ID, doc))
	}

	return productions, nil
}

// InsertProduction creates a production with a backend-generated id and
// writes the id back onto the model.
func (s *ProductionStore) InsertProduction(ctx context.Context, production *model.Production) error {
	ref := s.col().NewDoc()
	if _, err := ref.Create(ctx, productionToDoc(*production)); err != nil {
		return fmt.Errorf("failed to create production: %w", err)
	}
	production.ID = ref.ID
	return nil
}

// UpdateProductionStatus writes the status, the acting user and the
// update timestamp. Field-level last-write-wins, no version check.
func (s *ProductionStore) UpdateProductionStatus(ctx context.Context, id string, statusValue model.ProductionStatus, actorID string, at time.Time) error {
	updates := []firestore.Update{
		{Path: "status", Value: string(statusValue)},
		{Path: "updatedAt", Value: at},
	}
	if statusValue == model.StatusConfirmed {
		updates = append(updates, firestore.Update{Path: "confirmedBy", Value: actorID})
	}

	if _, err := s.col().Doc(id).Update(ctx, updates); err != nil {
		return fmt.Errorf("failed to update production status: %w", mapNotFound(err))
	}
	return nil
}
