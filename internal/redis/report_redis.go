package redis

import (
	"context"

	"avgspeed/internal/config"
	"avgspeed/internal/model"
	"avgspeed/internal/service/storage"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const backendRedis = "redis"

// ReportStore keeps reports as JSON strings in a Redis list.
// RPUSH is atomic on the server, so concurrent appends never overwrite each other.
type ReportStore struct {
	client *redis.Client
	key    string
}

// NewReportStore creates a store on the list at key
func NewReportStore(client *redis.Client, key string) *ReportStore {
	return &ReportStore{client: client, key: key}
}

func (s *ReportStore) Append(ctx context.Context, report model.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return &storage.StorageError{Op: "append", Backend: backendRedis, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, config.RedisTimeout)
	defer cancel()

	if err := s.client.RPush(ctx, s.key, data).Err(); err != nil {
		return &storage.StorageError{Op: "append", Backend: backendRedis, Err: err}
	}
	return nil
}

// LoadAll reads the whole list. Unreachable Redis and undecodable entries are logged
// and skipped, matching the file store's corruption-as-empty policy.
func (s *ReportStore) LoadAll(ctx context.Context) ([]model.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, config.RedisTimeout)
	defer cancel()

	items, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		log.Warnf("Failed to read reports from Redis list %s, treating as empty: %v", s.key, err)
		return []model.Report{}, nil
	}

	reports := make([]model.Report, 0, len(items))
	for _, item := range items {
		var report model.Report
		if err := json.Unmarshal([]byte(item), &report); err != nil {
			log.Warnf("Skipping undecodable report in Redis list %s: %v", s.key, err)
			continue
		}
		reports = append(reports, report)
	}

	return reports, nil
}

func (s *ReportStore) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, config.RedisTimeout)
	defer cancel()

	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return &storage.StorageError{Op: "clear", Backend: backendRedis, Err: err}
	}
	return nil
}

// Close closes the Redis client connection
func (s *ReportStore) Close() error {
	log.Println("Closing Redis connection...")
	return s.client.Close()
}
