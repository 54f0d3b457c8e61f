package notifier

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastReachesAllListeners(t *testing.T) {
	n := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := n.Subscribe(ctx)
	b := n.Subscribe(ctx)
	require.Equal(t, 2, n.Len())

	n.Broadcast()

	select {
	case <-a:
	case <-time.After(time.Second):
		t.Fatal("listener a missed the ping")
	}
	select {
	case <-b:
	case <-time.After(time.Second):
		t.Fatal("listener b missed the ping")
	}
}

func TestBroadcastDoesNotBlockOnFullListener(t *testing.T) {
	n := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := n.Subscribe(ctx)

	// Two broadcasts against an unread listener: second one is dropped.
	n.Broadcast()
	n.Broadcast()

	<-ch
	select {
	case <-ch:
		t.Fatal("coalesced ping should have been dropped")
	default:
	}
}

func TestContextCancelUnsubscribes(t *testing.T) {
	n := New()
	ctx, cancel := context.WithCancel(context.Background())

	ch := n.Subscribe(ctx)
	cancel()

	require.Eventually(t, func() bool { return n.Len() == 0 }, time.Second, time.Millisecond)

	// Channel is closed after unsubscribe.
	_, open := <-ch
	assert.False(t, open)
}

func TestBroadcastWithNoListeners(t *testing.T) {
	n := New()
	n.Broadcast() // must not panic
	assert.Equal(t, 0, n.Len())
}
