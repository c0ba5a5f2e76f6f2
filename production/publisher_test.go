package production

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/scenenav"
	"github.com/comalice/scenenav/testutil"
)

func TestChannelPublisher_Delivery(t *testing.T) {
	ch := make(chan PublishedEvent, 10)
	a := testutil.NewScene("a", nil)
	b := testutil.NewScene("b", nil)
	nav := scenenav.NewStackNavigator(func() []scenenav.Scene { return []scenenav.Scene{a} })
	_, sub := Publish(nav, ch)
	defer sub.Dispose()

	nav.Start()
	nav.Push(b)
	nav.Pop()
	nav.Pop()

	require.Len(t, ch, 4)
	got := <-ch
	assert.Equal(t, EventSceneChanged, got.Type)
	assert.Same(t, a, got.Scene)
	assert.Equal(t, testutil.SceneKey, got.SceneKey)
	assert.Equal(t, nav.ID(), got.NavigatorID)
	assert.False(t, got.Timestamp.IsZero())

	got = <-ch
	assert.Same(t, b, got.Scene)
	assert.False(t, got.Backwards)

	got = <-ch
	assert.Same(t, a, got.Scene)
	assert.True(t, got.Backwards)

	got = <-ch
	assert.Equal(t, EventFinished, got.Type)
	assert.Nil(t, got.Scene)
}

func TestChannelPublisher_BackpressureDrop(t *testing.T) {
	ch := make(chan PublishedEvent, 1)
	p := NewChannelPublisher("nav", ch)
	ch <- PublishedEvent{}

	p.Finished()
	p.Finished()

	assert.Equal(t, int64(2), p.Dropped())
	assert.Len(t, ch, 1)
}

func TestDrain(t *testing.T) {
	ch := make(chan PublishedEvent, 2)
	p := NewChannelPublisher("nav", ch)
	p.Finished()
	p.Finished()
	require.NoError(t, p.Close())

	var n int
	err := Drain(context.Background(), ch, func(PublishedEvent) { n++ })
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestDrain_ContextCancelled(t *testing.T) {
	ch := make(chan PublishedEvent)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := Drain(ctx, ch, func(PublishedEvent) {})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
