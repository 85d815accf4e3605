package log_test

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.branchpoint.dev/confupdate/log"
)

func collect(sub *log.Subscription) []string {
	var out []string
	for b := range sub.C() {
		out = append(out, string(b))
	}

	return out
}

func TestPublisherFansOutToAllSubscribers(t *testing.T) {
	pub := log.NewPublisher()
	a := pub.Subscribe()
	b := pub.Subscribe()

	_, err := pub.Write([]byte("one"))
	require.NoError(t, err)
	_, err = pub.Write([]byte("two"))
	require.NoError(t, err)

	require.NoError(t, pub.Close())

	assert.Equal(t, []string{"one", "two"}, collect(a))
	assert.Equal(t, []string{"one", "two"}, collect(b))
}

func TestPublisherWriteCopiesInput(t *testing.T) {
	pub := log.NewPublisher()
	sub := pub.Subscribe()

	buf := []byte("before")
	_, err := pub.Write(buf)
	require.NoError(t, err)

	copy(buf, "mutate")

	require.NoError(t, pub.Close())
	assert.Equal(t, []string{"before"}, collect(sub))
}

func TestPublisherDropsOldestWhenBufferFull(t *testing.T) {
	pub := log.NewPublisher(log.WithBufferSize(2))
	sub := pub.Subscribe()

	for i := 0; i < 5; i++ {
		_, err := pub.Write([]byte(fmt.Sprintf("record-%d", i)))
		require.NoError(t, err)
	}

	require.NoError(t, pub.Close())

	// Only the newest two survive; earlier records were evicted one by one
	// as each write found the buffer full.
	assert.Equal(t, []string{"record-3", "record-4"}, collect(sub))
}

func TestPublisherBufferSizeClampedToOne(t *testing.T) {
	pub := log.NewPublisher(log.WithBufferSize(0))
	sub := pub.Subscribe()

	_, err := pub.Write([]byte("first"))
	require.NoError(t, err)
	_, err = pub.Write([]byte("second"))
	require.NoError(t, err)

	require.NoError(t, pub.Close())
	assert.Equal(t, []string{"second"}, collect(sub))
}

func TestSubscriptionCloseStopsDelivery(t *testing.T) {
	pub := log.NewPublisher()
	sub := pub.Subscribe()

	_, err := pub.Write([]byte("seen"))
	require.NoError(t, err)

	sub.Close()

	_, err = pub.Write([]byte("unseen"))
	require.NoError(t, err)

	// Close discards the buffer along with the subscription, so even the
	// record written before Close is gone.
	assert.Empty(t, collect(sub))
	require.NoError(t, pub.Close())
}

func TestSubscriptionCloseIsIdempotent(t *testing.T) {
	pub := log.NewPublisher()
	sub := pub.Subscribe()

	sub.Close()
	sub.Close()

	require.NoError(t, pub.Close())
}

func TestPublisherCloseIsIdempotentAndStopsWrites(t *testing.T) {
	pub := log.NewPublisher()
	sub := pub.Subscribe()

	require.NoError(t, pub.Close())
	require.NoError(t, pub.Close())

	n, err := pub.Write([]byte("after close"))
	require.NoError(t, err)
	assert.Equal(t, len("after close"), n)

	assert.Empty(t, collect(sub))
}

func TestSubscribeAfterCloseReturnsClosedChannel(t *testing.T) {
	pub := log.NewPublisher()
	require.NoError(t, pub.Close())

	sub := pub.Subscribe()

	_, open := <-sub.C()
	assert.False(t, open)
}

func TestPublisherConcurrentWritesAndSubscribes(t *testing.T) {
	pub := log.NewPublisher(log.WithBufferSize(1024))
	sub := pub.Subscribe()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)

		go func(n int) {
			defer wg.Done()

			for j := 0; j < 32; j++ {
				_, _ = pub.Write([]byte(fmt.Sprintf("w%d-%d", n, j)))
			}
		}(i)
	}

	for i := 0; i < 4; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			s := pub.Subscribe()
			s.Close()
		}()
	}

	wg.Wait()
	require.NoError(t, pub.Close())

	assert.Len(t, collect(sub), 8*32)
}

func TestPublisherAsSlogSink(t *testing.T) {
	pub := log.NewPublisher()
	sub := pub.Subscribe()

	handler := log.NewHandler(io.MultiWriter(io.Discard, pub), slog.LevelInfo, log.FormatJSON)
	logger := slog.New(handler)

	logger.Info("hello from slog", slog.String("key", "value"))

	require.NoError(t, pub.Close())

	records := collect(sub)
	require.Len(t, records, 1)
	assert.Contains(t, records[0], "hello from slog")
	assert.Contains(t, records[0], `"key":"value"`)
}
