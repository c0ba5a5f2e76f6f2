// Package production provides host integrations built on the navigator
// event surface: event publishing, metrics, persistence and visualization.
package production

import (
	"context"
	"time"

	"go.uber.org/atomic"

	"github.com/comalice/scenenav"
)

// EventType names a published navigator event.
type EventType string

const (
	EventSceneChanged EventType = "scene_changed"
	EventFinished     EventType = "finished"
)

// PublishedEvent describes one navigator event with its metadata.
type PublishedEvent struct {
	Type        EventType
	NavigatorID string
	Scene       scenenav.Scene
	SceneKey    scenenav.SceneKey
	Backwards   bool
	Timestamp   time.Time
}

// ChannelPublisher is a Listener that forwards events to a Go channel.
// Publishing never blocks the navigator: when the channel is full the
// event is dropped and counted.
type ChannelPublisher struct {
	navigatorID string
	ch          chan<- PublishedEvent
	dropped     atomic.Int64
	now         func() time.Time
}

// NewChannelPublisher creates a ChannelPublisher for the navigator with the
// given id.
func NewChannelPublisher(navigatorID string, ch chan<- PublishedEvent) *ChannelPublisher {
	return &ChannelPublisher{navigatorID: navigatorID, ch: ch, now: time.Now}
}

// Publish subscribes a new publisher to nav.
func Publish(nav scenenav.Navigator, ch chan<- PublishedEvent) (*ChannelPublisher, scenenav.Disposable) {
	p := NewChannelPublisher(nav.ID(), ch)
	return p, nav.AddListener(p)
}

func (p *ChannelPublisher) SceneChanged(scene scenenav.Scene, data scenenav.TransitionData) {
	p.publish(PublishedEvent{
		Type:      EventSceneChanged,
		Scene:     scene,
		SceneKey:  sceneKey(scene),
		Backwards: data.Backwards,
	})
}

func (p *ChannelPublisher) Finished() {
	p.publish(PublishedEvent{Type: EventFinished})
}

func (p *ChannelPublisher) publish(e PublishedEvent) {
	e.NavigatorID = p.navigatorID
	e.Timestamp = p.now()
	select {
	case p.ch <- e:
	default:
		p.dropped.Inc()
	}
}

// Dropped returns the number of events lost to backpressure.
func (p *ChannelPublisher) Dropped() int64 {
	return p.dropped.Load()
}

// Close closes the output channel. The publisher must be disposed first.
func (p *ChannelPublisher) Close() error {
	close(p.ch)
	return nil
}

// Drain reads events from ch until it is closed or ctx is done, calling fn
// for each one.
func Drain(ctx context.Context, ch <-chan PublishedEvent, fn func(PublishedEvent)) error {
	for {
		select {
		case e, ok := <-ch:
			if !ok {
				return nil
			}
			fn(e)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
