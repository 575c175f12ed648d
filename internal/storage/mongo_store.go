// Path: internal/storage/mongo_store.go
package storage

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"arena-scout/internal/domain"
)

const freshnessDocumentID = "dataset_freshness"

// MongoProjectStore keeps the daemon's last-known-good validated dataset.
// When an upstream fetch fails the daemon keeps serving this copy, and a
// restart warm-loads from it before the first fetch completes.
type MongoProjectStore struct {
	projects *mongo.Collection
	meta     *mongo.Collection
}

// NewMongoProjectStore creates a new storage adapter for projects.
func NewMongoProjectStore(db *mongo.Database, collectionName string) *MongoProjectStore {
	return &MongoProjectStore{
		projects: db.Collection(collectionName),
		meta:     db.Collection("_meta"),
	}
}

// ReplaceAll swaps the stored dataset for a new one: every incoming project
// is upserted by id and anything not in the new set is removed.
func (s *MongoProjectStore) ReplaceAll(ctx context.Context, projects []domain.Project) error {
	if len(projects) == 0 {
		return nil
	}

	writeModels := make([]mongo.WriteModel, len(projects))
	ids := make([]int, len(projects))
	for i, p := range projects {
		filter := bson.M{"_id": p.ID}
		writeModels[i] = mongo.NewReplaceOneModel().SetFilter(filter).SetReplacement(p).SetUpsert(true)
		ids[i] = p.ID
	}

	opts := options.BulkWrite().SetOrdered(false)
	if _, err := s.projects.BulkWrite(ctx, writeModels, opts); err != nil {
		return err
	}

	_, err := s.projects.DeleteMany(ctx, bson.M{"_id": bson.M{"$nin": ids}})
	return err
}

// FindAll returns every stored project, most liked first.
func (s *MongoProjectStore) FindAll(ctx context.Context) ([]domain.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "likes", Value: -1}})
	cursor, err := s.projects.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var projects []domain.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// SetFreshness records when the dataset was last replaced.
func (s *MongoProjectStore) SetFreshness(ctx context.Context, f domain.Freshness) error {
	f.ID = freshnessDocumentID
	opts := options.Replace().SetUpsert(true)
	filter := bson.M{"_id": freshnessDocumentID}
	_, err := s.meta.ReplaceOne(ctx, filter, f, opts)
	return err
}

// Freshness returns the last recorded dataset metadata, or nil if the
// store has never been written.
func (s *MongoProjectStore) Freshness(ctx context.Context) (*domain.Freshness, error) {
	var f domain.Freshness
	filter := bson.M{"_id": freshnessDocumentID}
	err := s.meta.FindOne(ctx, filter).Decode(&f)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}
