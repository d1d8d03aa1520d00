package store

import (
	"context"
	"fmt"
	"time"

	"github.com/climadash/climadash/internal/config"
	"github.com/climadash/climadash/internal/models"
	"github.com/climadash/climadash/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps readings in the sensor_readings and dataset_readings
// collections.
type MongoStore struct {
	client   *mongo.Client
	readings *mongo.Collection
	dataset  *mongo.Collection
}

// NewMongoStore connects to MongoDB and ensures the sort indexes exist
func NewMongoStore(ctx context.Context, cfg config.MongoConfig) (*MongoStore, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = utils.StoreConnectTimeout
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(cfg.Database)
	s := &MongoStore{
		client:   client,
		readings: db.Collection(utils.SensorReadingsCollection),
		dataset:  db.Collection(utils.DatasetReadingsCollection),
	}

	if err := s.ensureIndexes(pingCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	if _, err := s.readings.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	}); err != nil {
		return fmt.Errorf("failed to create readings index: %w", err)
	}
	if _, err := s.dataset.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "datetime", Value: -1}},
	}); err != nil {
		return fmt.Errorf("failed to create dataset index: %w", err)
	}
	return nil
}

func (s *MongoStore) InsertReading(ctx context.Context, r *models.SensorReading) error {
	if _, err := s.readings.InsertOne(ctx, r); err != nil {
		return fmt.Errorf("failed to insert reading: %w", err)
	}
	return nil
}

func (s *MongoStore) InsertDataset(ctx context.Context, rows []*models.DatasetReading) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, len(rows))
	for i, r := range rows {
		docs[i] = r
	}

	res, err := s.dataset.InsertMany(ctx, docs)
	if err != nil {
		inserted := 0
		if res != nil {
			inserted = len(res.InsertedIDs)
		}
		return inserted, fmt.Errorf("failed to insert dataset batch: %w", err)
	}
	return len(res.InsertedIDs), nil
}

func (s *MongoStore) ClearDataset(ctx context.Context) (int64, error) {
	res, err := s.dataset.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to clear dataset: %w", err)
	}
	return res.DeletedCount, nil
}

func (s *MongoStore) ListReadings(ctx context.Context, q Query) ([]*models.SensorReading, error) {
	var out []*models.SensorReading
	if err := s.find(ctx, s.readings, "createdAt", q, &out); err != nil {
		return nil, fmt.Errorf("failed to list readings: %w", err)
	}
	return out, nil
}

func (s *MongoStore) ListDataset(ctx context.Context, q Query) ([]*models.DatasetReading, error) {
	var out []*models.DatasetReading
	if err := s.find(ctx, s.dataset, "datetime", q, &out); err != nil {
		return nil, fmt.Errorf("failed to list dataset: %w", err)
	}
	return out, nil
}

func (s *MongoStore) CountDataset(ctx context.Context) (int64, error) {
	n, err := s.dataset.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count dataset: %w", err)
	}
	return n, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) find(ctx context.Context, coll *mongo.Collection, sortKey string, q Query, out interface{}) error {
	dir := 1
	if q.Order == Descending {
		dir = -1
	}

	opts := options.Find().SetSort(bson.D{{Key: sortKey, Value: dir}})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cur, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}
