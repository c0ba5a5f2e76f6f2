package scenenav

import (
	"reflect"
)

// SceneKey identifies a Scene class for restoration. It is stable across
// process restarts; object identity is not.
type SceneKey string

// KeyOf derives the default key of v from its dynamic type: the package
// path and type name, with pointers dereferenced.
func KeyOf(v any) SceneKey {
	return keyOfType(reflect.TypeOf(v))
}

// KeyFor derives the default key of T.
func KeyFor[T any]() SceneKey {
	return keyOfType(reflect.TypeFor[T]())
}

func keyOfType(t reflect.Type) SceneKey {
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return SceneKey(t.String())
	}
	return SceneKey(t.PkgPath() + "." + t.Name())
}

// sameScene compares scenes by identity. Scenes whose dynamic type is not
// comparable are never the same.
func sameScene(a, b Scene) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) || !reflect.TypeOf(a).Comparable() {
		return false
	}
	return a == b
}

type keyed interface {
	Key() SceneKey
}

// keyFor returns v's own key, or the type derived key when it has none.
func keyFor(v any) SceneKey {
	if k, ok := v.(keyed); ok {
		if key := k.Key(); key != "" {
			return key
		}
	}
	return KeyOf(v)
}

// Scene is a single navigable destination. Its lifecycle hooks are driven
// exclusively by the Navigator that owns it.
type Scene interface {
	// Key returns the restoration key. An empty key falls back to KeyOf.
	Key() SceneKey

	// OnStart is called when the scene becomes current in an active
	// navigator. It may synchronously request further navigation.
	OnStart()
	OnStop()
	OnDestroy()

	Attach(c Container)
	Detach(c Container)
}

// SavableScene is implemented by scenes that can be reconstructed from a
// SceneState.
type SavableScene interface {
	SaveInstanceState() *SavedState
}

// BackPressHandler is implemented by scenes and navigators that want to
// intercept a back press. It returns true when the press was handled.
type BackPressHandler interface {
	OnBackPressed() bool
}

// ContainerStateKey is the reserved SceneState key under which BaseScene
// stores the last known container state.
const ContainerStateKey = "scenenav:container_state"

// BaseScene implements the container bookkeeping of a Scene. Embed it and
// override the lifecycle hooks that matter.
//
//	type DetailScene struct {
//	    scenenav.BaseScene
//	    itemID int64
//	}
type BaseScene struct {
	key            SceneKey
	container      Container
	containerState *SavedState
	destroyed      bool
}

// NewBaseScene creates a BaseScene with the given key, restoring the
// container state from a SceneState when one is given.
func NewBaseScene(key SceneKey, state *SavedState) BaseScene {
	b := BaseScene{key: key}
	if state != nil {
		if cs, ok := state.State(ContainerStateKey); ok {
			b.containerState = cs
		}
	}
	return b
}

func (s *BaseScene) Key() SceneKey { return s.key }

func (s *BaseScene) OnStart()   {}
func (s *BaseScene) OnStop()    {}
func (s *BaseScene) OnDestroy() {}

// Container returns the attached container, or nil.
func (s *BaseScene) Container() Container {
	return s.container
}

// Destroyed reports whether the owning navigator has destroyed the scene.
func (s *BaseScene) Destroyed() bool {
	return s.destroyed
}

func (s *BaseScene) markDestroyed() {
	s.destroyed = true
}

// Attach supplies c to the scene and restores any state captured from a
// previous container. A destroyed scene accepts no container.
func (s *BaseScene) Attach(c Container) {
	if s.destroyed {
		violate("attach", string(s.key), ErrSceneDestroyed)
	}
	if s.container != nil {
		violate("attach", string(s.key), ErrAlreadyAttached)
	}
	s.container = c
	if sc, ok := c.(StatefulContainer); ok && s.containerState != nil {
		sc.RestoreInstanceState(s.containerState)
	}
}

// Detach captures the state of c and releases it.
func (s *BaseScene) Detach(c Container) {
	if s.container == nil {
		violate("detach", string(s.key), ErrNotAttached)
	}
	if s.container != c {
		violate("detach", string(s.key), ErrContainerMismatch)
	}
	if sc, ok := c.(StatefulContainer); ok {
		s.containerState = sc.SaveInstanceState()
	}
	s.container = nil
}

// SaveInstanceState returns a SceneState carrying the last known container
// state. Embedders add their own keys to the returned node.
func (s *BaseScene) SaveInstanceState() *SavedState {
	state := NewSceneState()
	cs := s.containerState
	if sc, ok := s.container.(StatefulContainer); ok {
		cs = sc.SaveInstanceState()
	}
	if cs != nil {
		state.SetState(ContainerStateKey, cs)
	}
	return state
}
