// Package storage materialises integrated per-patient feature vectors to
// Redis so the scoring service can serve score-by-patient requests without
// re-reading the batch outputs.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/neuroscreen-ai/platform/pkg/common/logger"
	"github.com/neuroscreen-ai/platform/pkg/dataset"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound marks a patient identifier with no materialised vector.
var ErrNotFound = errors.New("feature vector not found")

const keyPrefix = "features:"

type FeatureCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewFeatureCache(client *redis.Client, ttl time.Duration) *FeatureCache {
	return &FeatureCache{client: client, ttl: ttl}
}

// Materialize writes every row of the integrated table to the cache, keyed
// by patient identifier. Existing entries are overwritten.
func (f *FeatureCache) Materialize(ctx context.Context, table *dataset.Table, idColumn string) error {
	idIdx := table.ColumnIndex(idColumn)
	if idIdx < 0 {
		return fmt.Errorf("identifier column %q not present", idColumn)
	}

	for r := 0; r < table.NumRows(); r++ {
		row := table.Row(r)
		payload, err := json.Marshal(row)
		if err != nil {
			return err
		}
		key := keyPrefix + table.Rows[r][idIdx]
		if err := f.client.Set(ctx, key, payload, f.ttl).Err(); err != nil {
			return fmt.Errorf("caching %s: %w", key, err)
		}
	}

	logger.Log.WithField("patients", table.NumRows()).Info("Feature vectors materialised")
	return nil
}

// Get fetches one patient's materialised vector as a column-name map.
func (f *FeatureCache) Get(ctx context.Context, patientID string) (map[string]string, error) {
	payload, err := f.client.Get(ctx, keyPrefix+patientID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, patientID)
		}
		return nil, err
	}
	var row map[string]string
	if err := json.Unmarshal([]byte(payload), &row); err != nil {
		return nil, err
	}
	return row, nil
}
