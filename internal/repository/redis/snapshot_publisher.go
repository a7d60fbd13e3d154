package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vogiaan1904/ticketbottle-dashboard/internal/service"
	"github.com/vogiaan1904/ticketbottle-dashboard/pkg/logger"
)

// redisWriter is the subset of *redis.Client the publisher needs.
type redisWriter interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

type snapshotPublisher struct {
	cli     redisWriter
	channel string
	ttl     time.Duration
	l       logger.Logger
}

// NewSnapshotPublisher publishes every poll snapshot on channel and keeps the
// latest one under "<channel>:latest" for ttl, so late subscribers can catch up.
func NewSnapshotPublisher(cli redisWriter, channel string, ttl time.Duration, l logger.Logger) service.SnapshotPublisher {
	return &snapshotPublisher{
		cli:     cli,
		channel: channel,
		ttl:     ttl,
		l:       l,
	}
}

func (p *snapshotPublisher) PublishSnapshot(ctx context.Context, snap service.PollSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := p.cli.Set(ctx, p.latestKey(), data, p.ttl).Err(); err != nil {
		p.l.Errorf(ctx, "repository.snapshotPublisher.PublishSnapshot: %v", err)
		return err
	}

	receivers, err := p.cli.Publish(ctx, p.channel, data).Result()
	if err != nil {
		p.l.Errorf(ctx, "repository.snapshotPublisher.PublishSnapshot: %v", err)
		return err
	}

	p.l.Debugf(ctx, "Snapshot published to %s, receivers=%d", p.channel, receivers)
	return nil
}

func (p *snapshotPublisher) latestKey() string {
	return p.channel + ":latest"
}
