package repository

import (
	"context"
	"fmt"

	"github.com/mohamedEMHA/scarmo/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const statusCollection = "status_checks"

var tracer = otel.Tracer("github.com/mohamedEMHA/scarmo/internal/repository")

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) StatusRepository {
	return &mongoRepository{
		collection: db.Collection(statusCollection),
	}
}

func (m *mongoRepository) Insert(ctx context.Context, check *domain.StatusCheck) error {
	ctx, span := tracer.Start(ctx, "status_checks.insert")
	defer span.End()

	if _, err := m.collection.InsertOne(ctx, check); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to insert status check: %w", err)
	}
	return nil
}

func (m *mongoRepository) List(ctx context.Context, limit int64) ([]domain.StatusCheck, error) {
	ctx, span := tracer.Start(ctx, "status_checks.list")
	span.SetAttributes(attribute.Int64("limit", limit))
	defer span.End()

	// No sort: natural order is insertion order for a collection that is never updated.
	cursor, err := m.collection.Find(ctx, bson.D{}, options.Find().SetLimit(limit))
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query status checks: %w", err)
	}
	defer cursor.Close(ctx)

	checks := make([]domain.StatusCheck, 0)
	if err := cursor.All(ctx, &checks); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to decode status checks: %w", err)
	}
	return checks, nil
}

// CreateIndexes enforces id uniqueness.
func (m *mongoRepository) CreateIndexes(ctx context.Context) error {
	_, err := m.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// EnsureIndexes creates the collection indexes when repo is backed by MongoDB.
func EnsureIndexes(ctx context.Context, repo StatusRepository) error {
	if m, ok := repo.(*mongoRepository); ok {
		return m.CreateIndexes(ctx)
	}
	return nil
}
