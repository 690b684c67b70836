package stats_mirror

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/domain"
	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/port"
	"github.com/redis/go-redis/v9"
)

var (
	_ port.StatsPublisher = (*RedisMirror)(nil)
	_ port.StatsPublisher = Noop{}
)

// RedisMirror stores the latest stats JSON under <prefix>:<dataset> for dashboards.
type RedisMirror struct {
	client redis.Cmdable
	prefix string
}

func NewRedisMirror(client redis.Cmdable, prefix string) *RedisMirror {
	return &RedisMirror{client: client, prefix: prefix}
}

func (m *RedisMirror) Key(dataset string) string {
	if m.prefix == "" {
		return dataset
	}
	return m.prefix + ":" + dataset
}

func (m *RedisMirror) PublishStats(ctx context.Context, stats domain.Stats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	if err := m.client.Set(ctx, m.Key(stats.Dataset), raw, 0).Err(); err != nil {
		return fmt.Errorf("mirror stats to redis: %w", err)
	}
	return nil
}

// Noop is used when no redis address is configured.
type Noop struct{}

func (Noop) PublishStats(context.Context, domain.Stats) error { return nil }
