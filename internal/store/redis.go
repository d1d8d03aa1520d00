package store

import (
	"context"
	"fmt"

	"github.com/climadash/climadash/internal/config"
	"github.com/climadash/climadash/internal/logging"
	"github.com/climadash/climadash/internal/models"
	"github.com/climadash/climadash/internal/utils"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each collection in a sorted set scored by Unix
// milliseconds. Members are JSON, optionally snappy-compressed.
type RedisStore struct {
	client      *redis.Client
	readingsKey string
	datasetKey  string
	compress    bool
	logger      *logging.Logger
}

// NewRedisStore connects to redis and verifies the connection
func NewRedisStore(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		// Fallback to a plain address
		opts = &redis.Options{Addr: cfg.URL}
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, utils.StoreConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return newRedisStore(client, cfg), nil
}

func newRedisStore(client *redis.Client, cfg config.RedisConfig) *RedisStore {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "climadash"
	}
	return &RedisStore{
		client:      client,
		readingsKey: prefix + ":" + utils.SensorReadingsCollection,
		datasetKey:  prefix + ":" + utils.DatasetReadingsCollection,
		compress:    cfg.Compress,
		logger:      logging.Global().With("component", "store.redis"),
	}
}

func (s *RedisStore) InsertReading(ctx context.Context, r *models.SensorReading) error {
	member, err := encodeMember(r, s.compress)
	if err != nil {
		return err
	}

	err = s.client.ZAdd(ctx, s.readingsKey, redis.Z{
		Score:  float64(r.Time().UnixMilli()),
		Member: member,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to insert reading: %w", err)
	}
	return nil
}

func (s *RedisStore) InsertDataset(ctx context.Context, rows []*models.DatasetReading) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	members := make([]redis.Z, 0, len(rows))
	for _, r := range rows {
		member, err := encodeMember(r, s.compress)
		if err != nil {
			return 0, err
		}
		members = append(members, redis.Z{
			Score:  float64(r.Datetime.UnixMilli()),
			Member: member,
		})
	}

	pipe := s.client.Pipeline()
	for start := 0; start < len(members); start += utils.DefaultBatchSize {
		end := min(start+utils.DefaultBatchSize, len(members))
		pipe.ZAdd(ctx, s.datasetKey, members[start:end]...)
	}

	cmds, err := pipe.Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to insert dataset batch: %w", err)
	}

	inserted := 0
	for _, cmd := range cmds {
		if c, ok := cmd.(*redis.IntCmd); ok {
			inserted += int(c.Val())
		}
	}
	return inserted, nil
}

func (s *RedisStore) ClearDataset(ctx context.Context) (int64, error) {
	pipe := s.client.TxPipeline()
	card := pipe.ZCard(ctx, s.datasetKey)
	pipe.Del(ctx, s.datasetKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to clear dataset: %w", err)
	}
	return card.Val(), nil
}

func (s *RedisStore) ListReadings(ctx context.Context, q Query) ([]*models.SensorReading, error) {
	raw, err := s.window(ctx, s.readingsKey, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list readings: %w", err)
	}
	return decodeAll[*models.SensorReading](s.logger, raw), nil
}

func (s *RedisStore) ListDataset(ctx context.Context, q Query) ([]*models.DatasetReading, error) {
	raw, err := s.window(ctx, s.datasetKey, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list dataset: %w", err)
	}
	return decodeAll[*models.DatasetReading](s.logger, raw), nil
}

func (s *RedisStore) CountDataset(ctx context.Context) (int64, error) {
	n, err := s.client.ZCard(ctx, s.datasetKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count dataset: %w", err)
	}
	return n, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) window(ctx context.Context, key string, q Query) ([]string, error) {
	stop := int64(-1)
	if q.Limit > 0 {
		stop = int64(q.Limit) - 1
	}
	if q.Order == Descending {
		return s.client.ZRevRange(ctx, key, 0, stop).Result()
	}
	return s.client.ZRange(ctx, key, 0, stop).Result()
}

// decodeAll decodes members, skipping (and logging) corrupt ones.
func decodeAll[T any](logger *logging.Logger, raw []string) []T {
	out := make([]T, 0, len(raw))
	for _, m := range raw {
		v, err := decodeMember[T]([]byte(m))
		if err != nil {
			logger.Warn("Skipping undecodable member", "error", err)
			continue
		}
		out = append(out, v)
	}
	return out
}
