// Package notify tells rendered views that the data behind them changed.
package notify

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/appforge/clientportal/internal/pkg/metrics"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	staleKeyPrefix = "view:stale:"
	defaultTTL     = 24 * time.Hour
)

type Publisher interface {
	PublishJSON(ctx context.Context, v any) error
}

// Message is what subscribers on the invalidation queue receive.
type Message struct {
	Paths []string  `json:"paths"`
	At    time.Time `json:"at"`
}

// Notifier marks view paths stale in Redis and, when a broker is wired,
// announces them on the invalidation queue.
type Notifier struct {
	rdb *redis.Client
	pub Publisher
	ttl time.Duration
	log *zap.Logger
	now func() time.Time
}

// New builds a Notifier. pub may be nil.
func New(rdb *redis.Client, pub Publisher, log *zap.Logger) *Notifier {
	return &Notifier{rdb: rdb, pub: pub, ttl: defaultTTL, log: log, now: time.Now}
}

// Invalidate never fails the caller; errors are logged and counted.
func (n *Notifier) Invalidate(ctx context.Context, paths ...string) {
	if len(paths) == 0 {
		return
	}
	at := n.now()

	_, err := n.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		for _, path := range paths {
			p.Set(ctx, staleKeyPrefix+path, strconv.FormatInt(at.UnixNano(), 10), n.ttl)
		}
		return nil
	})
	if err != nil {
		metrics.IncViewInvalidation("failed", len(paths))
		n.log.Sugar().Warnw("mark views stale", "paths", paths, "err", err)
	} else {
		metrics.IncViewInvalidation("ok", len(paths))
	}

	if n.pub == nil {
		return
	}
	if err := n.pub.PublishJSON(ctx, Message{Paths: paths, At: at}); err != nil {
		n.log.Sugar().Warnw("publish view invalidation", "paths", paths, "err", err)
	}
}

// StaleSince reports the last invalidation of path and whether it happened
// after since.
func (n *Notifier) StaleSince(ctx context.Context, path string, since time.Time) (bool, time.Time, error) {
	raw, err := n.rdb.Get(ctx, staleKeyPrefix+path).Result()
	if errors.Is(err, redis.Nil) {
		return false, time.Time{}, nil
	}
	if err != nil {
		return false, time.Time{}, err
	}
	nanos, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, time.Time{}, err
	}
	at := time.Unix(0, nanos)
	return at.After(since), at, nil
}
