package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePublisher struct {
	got []Message
	err error
}

func (f *fakePublisher) PublishJSON(ctx context.Context, v any) error {
	f.got = append(f.got, v.(Message))
	return f.err
}

func newTestNotifier(t *testing.T, pub Publisher) (*Notifier, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb, pub, zap.NewNop()), mr
}

func TestNotifier_InvalidateMarksAndPublishes(t *testing.T) {
	pub := &fakePublisher{}
	n, mr := newTestNotifier(t, pub)
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return at }
	ctx := context.Background()

	n.Invalidate(ctx, "/dashboard", "/dashboard/projects")

	assert.True(t, mr.Exists("view:stale:/dashboard"))
	assert.True(t, mr.Exists("view:stale:/dashboard/projects"))
	assert.Equal(t, defaultTTL, mr.TTL("view:stale:/dashboard"))

	require.Len(t, pub.got, 1)
	assert.Equal(t, []string{"/dashboard", "/dashboard/projects"}, pub.got[0].Paths)
	assert.True(t, pub.got[0].At.Equal(at))

	stale, last, err := n.StaleSince(ctx, "/dashboard", at.Add(-time.Second))
	require.NoError(t, err)
	assert.True(t, stale)
	assert.True(t, last.Equal(at))

	stale, _, err = n.StaleSince(ctx, "/dashboard", at)
	require.NoError(t, err)
	assert.False(t, stale)
}

func TestNotifier_FailuresAreSwallowed(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	n, mr := newTestNotifier(t, pub)
	mr.Close()

	assert.NotPanics(t, func() { n.Invalidate(context.Background(), "/admin") })
	assert.Len(t, pub.got, 1)
}

func TestNotifier_NoPublisherAndNoPaths(t *testing.T) {
	n, mr := newTestNotifier(t, nil)

	n.Invalidate(context.Background())
	assert.Empty(t, mr.Keys())

	n.Invalidate(context.Background(), "/admin/projects")
	assert.True(t, mr.Exists("view:stale:/admin/projects"))

	stale, _, err := n.StaleSince(context.Background(), "/never", time.Time{})
	require.NoError(t, err)
	assert.False(t, stale)
}
