package dao

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mahalakshmi2126/Newshub-Server/pkg/database"
)

const viewEventsCollection = "article_views"

type analyticsDAO struct {
	db *database.MongoDB
}

// NewAnalyticsDAO creates the analytics DAO.
func NewAnalyticsDAO(db *database.MongoDB) AnalyticsDAO {
	return &analyticsDAO{
		db: db,
	}
}

func (d *analyticsDAO) collection() *mongo.Collection {
	return d.db.GetCollection(viewEventsCollection)
}

// RecordView stores one view event.
func (d *analyticsDAO) RecordView(ctx context.Context, event *ArticleViewEvent) error {
	if event.ViewedAt.IsZero() {
		event.ViewedAt = time.Now()
	}
	_, err := d.collection().InsertOne(ctx, event)
	return err
}

// TopArticles aggregates the most viewed articles since the cutoff.
func (d *analyticsDAO) TopArticles(ctx context.Context, since time.Time, limit int) ([]ArticleViewCount, error) {
	if limit <= 0 {
		limit = 10
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "viewed_at", Value: bson.D{{Key: "$gte", Value: since}}},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$article_id"},
			{Key: "views", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "views", Value: -1}}}},
		bson.D{{Key: "$limit", Value: limit}},
	}

	cursor, err := d.collection().Aggregate(ctx, pipeline, options.Aggregate())
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []ArticleViewCount
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// CategoryBreakdown aggregates views per category since the cutoff.
func (d *analyticsDAO) CategoryBreakdown(ctx context.Context, since time.Time) ([]CategoryViewCount, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "viewed_at", Value: bson.D{{Key: "$gte", Value: since}}},
			{Key: "category", Value: bson.D{{Key: "$ne", Value: ""}}},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "views", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "views", Value: -1}}}},
	}

	cursor, err := d.collection().Aggregate(ctx, pipeline, options.Aggregate())
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []CategoryViewCount
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
