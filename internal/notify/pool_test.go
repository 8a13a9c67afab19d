package notify_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/hireloop-dev/hireloop/internal/notify"
)

type countingStore struct {
	saves atomic.Int64
}

func (c *countingStore) SaveNotification(ctx context.Context, recipientID uint, typeTag string, payload *notify.DatabasePayload) (uint, error) {
	return uint(c.saves.Add(1)), nil
}

func TestPoolProcessesAllJobsBeforeClose(t *testing.T) {
	store := &countingStore{}
	d := notify.NewDispatcher(store, &fakeBroadcaster{}, &fakeMailer{}, testConfig(), quietLogger())
	pool := notify.NewPool(d, 2, 64, quietLogger())

	const jobs = 50
	for i := 0; i < jobs; i++ {
		pool.Enqueue(recipient(), receivedVariant(), notify.ChannelDatabase)
	}

	pool.Close()

	if got := store.saves.Load(); got != jobs {
		t.Fatalf("processed %d jobs, want %d", got, jobs)
	}
}

func TestPoolDropsAfterClose(t *testing.T) {
	store := &countingStore{}
	d := notify.NewDispatcher(store, &fakeBroadcaster{}, &fakeMailer{}, testConfig(), quietLogger())
	pool := notify.NewPool(d, 1, 1, quietLogger())

	pool.Close()
	pool.Enqueue(recipient(), receivedVariant(), notify.ChannelDatabase)

	if got := store.saves.Load(); got != 0 {
		t.Fatalf("processed %d jobs after close, want 0", got)
	}
}
