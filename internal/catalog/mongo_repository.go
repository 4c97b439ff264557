package catalog

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoOverrideRepository struct {
	collection *mongo.Collection
}

func NewMongoOverrideRepository(db *mongo.Database) *MongoOverrideRepository {
	return &MongoOverrideRepository{
		collection: db.Collection("product_overrides"),
	}
}

func (m *MongoOverrideRepository) GetAll(ctx context.Context) ([]*Override, error) {
	cursor, err := m.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query overrides: %w", err)
	}
	defer cursor.Close(ctx)

	var overrides []*Override
	if err := cursor.All(ctx, &overrides); err != nil {
		return nil, fmt.Errorf("failed to decode overrides: %w", err)
	}
	return overrides, nil
}

func (m *MongoOverrideRepository) Upsert(ctx context.Context, override *Override) error {
	filter := bson.M{"product_id": override.ProductID}
	update := bson.M{"$set": setFields(override)}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert override: %w", err)
	}
	return nil
}

func (m *MongoOverrideRepository) BulkUpsert(ctx context.Context, overrides []*Override) error {
	if len(overrides) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(overrides))
	for _, o := range overrides {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"product_id": o.ProductID}).
			SetUpdate(bson.M{"$set": setFields(o)}).
			SetUpsert(true))
	}

	if _, err := m.collection.BulkWrite(ctx, models); err != nil {
		return fmt.Errorf("failed to bulk upsert overrides: %w", err)
	}
	return nil
}

// setFields writes only the fields present in the override, so earlier edits
// to other fields survive.
func setFields(o *Override) bson.M {
	set := bson.M{"product_id": o.ProductID}
	if o.Brand != nil {
		set["brand"] = *o.Brand
	}
	if o.Name != nil {
		set["name"] = *o.Name
	}
	if o.PriceUSD != nil {
		set["price_usd"] = *o.PriceUSD
	}
	if o.Scents != nil {
		set["scents"] = *o.Scents
	}
	if o.MarginPct != nil {
		set["margin_pct"] = *o.MarginPct
	}
	if o.Stock != nil {
		set["stock"] = *o.Stock
	}
	return set
}

func (m *MongoOverrideRepository) CreateIndexes(ctx context.Context) error {
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "product_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := m.collection.Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
