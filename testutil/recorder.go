// Package testutil provides listeners, scenes and containers for testing
// navigators.
package testutil

import (
	"fmt"
	"strings"

	"github.com/comalice/scenenav"
)

// Recorder is a Listener that records every event it receives as a short
// string: "changed:<key>", "back:<key>" for backwards transitions, and
// "finished".
type Recorder struct {
	Events []string
	Scenes []scenenav.Scene

	// OnEvent, when set, is called after each event is recorded.
	OnEvent func(event string)
}

// NewRecorder creates a Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) SceneChanged(scene scenenav.Scene, data scenenav.TransitionData) {
	name := "changed:" + Name(scene)
	if data.Backwards {
		name = "back:" + Name(scene)
	}
	r.Scenes = append(r.Scenes, scene)
	r.record(name)
}

func (r *Recorder) Finished() {
	r.record("finished")
}

func (r *Recorder) record(event string) {
	r.Events = append(r.Events, event)
	if r.OnEvent != nil {
		r.OnEvent(event)
	}
}

// Last returns the last recorded scene, or nil.
func (r *Recorder) Last() scenenav.Scene {
	if len(r.Scenes) == 0 {
		return nil
	}
	return r.Scenes[len(r.Scenes)-1]
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.Events = nil
	r.Scenes = nil
}

func (r *Recorder) String() string {
	return strings.Join(r.Events, ",")
}

// Name returns the test name of a scene: Scene.Name for *Scene, the key
// otherwise.
func Name(s scenenav.Scene) string {
	if ts, ok := s.(*Scene); ok {
		return ts.Name
	}
	if s == nil {
		return "<nil>"
	}
	return fmt.Sprint(s.Key())
}
