package testutil

import (
	"github.com/comalice/scenenav"
)

// SceneKey is the restoration key of every *Scene.
const SceneKey scenenav.SceneKey = "testutil.scene"

// Scene is a scene that logs its lifecycle calls into a shared journal
// and runs optional hooks, which tests use to re-enter the navigator.
type Scene struct {
	scenenav.BaseScene

	Name    string
	Data    int64
	Journal *[]string

	StartHook func()
	StopHook  func()
	Back      func() bool
}

// NewScene creates a scene named name writing into journal (may be nil).
func NewScene(name string, journal *[]string) *Scene {
	return &Scene{
		BaseScene: scenenav.NewBaseScene(SceneKey, nil),
		Name:      name,
		Journal:   journal,
	}
}

// RestoreScene rebuilds a scene saved with SaveInstanceState.
func RestoreScene(state *scenenav.SavedState, journal *[]string) *Scene {
	s := &Scene{
		BaseScene: scenenav.NewBaseScene(SceneKey, state),
		Journal:   journal,
	}
	if state != nil {
		s.Name, _ = state.Str("name")
		s.Data, _ = state.Int("data")
	}
	return s
}

func (s *Scene) log(call string) {
	if s.Journal != nil {
		*s.Journal = append(*s.Journal, s.Name+"."+call)
	}
}

func (s *Scene) OnStart() {
	s.log("start")
	if s.StartHook != nil {
		s.StartHook()
	}
}

func (s *Scene) OnStop() {
	s.log("stop")
	if s.StopHook != nil {
		s.StopHook()
	}
}

func (s *Scene) OnDestroy() {
	s.log("destroy")
}

func (s *Scene) OnBackPressed() bool {
	if s.Back != nil {
		return s.Back()
	}
	return false
}

func (s *Scene) SaveInstanceState() *scenenav.SavedState {
	st := s.BaseScene.SaveInstanceState()
	st.SetString("name", s.Name)
	st.SetInt("data", s.Data)
	return st
}

// Registry returns a scene registry that restores *Scene values.
func Registry(journal *[]string) *scenenav.Registry[scenenav.Scene] {
	return scenenav.NewRegistry[scenenav.Scene]().
		Register(SceneKey, func(state *scenenav.SavedState) scenenav.Scene {
			return RestoreScene(state, journal)
		})
}
