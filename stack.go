package scenenav

// stackCore is the scene sequence shared by the stack, replacing and
// single-scene navigators. Index 0 is the bottom; the last entry is current.
type stackCore struct {
	base

	initial     func() []Scene
	saved       *SavedState
	factory     func(key SceneKey, state *SavedState) Scene
	initialized bool
	entries     []*sceneEntry
}

func newStackCore(initial func() []Scene, cfg config) *stackCore {
	return &stackCore{
		base:    newBase(cfg),
		initial: initial,
		saved:   cfg.saved,
		factory: cfg.scenes,
	}
}

// ensure populates the stack the first time it is needed, either from
// saved state or from the initial stack.
func (n *stackCore) ensure() {
	if n.initialized {
		return
	}
	n.initialized = true

	if n.saved != nil {
		saved := n.saved
		n.saved = nil
		if n.factory == nil {
			violate("restore", n.id, ErrMissingFactory)
		}
		for _, s := range restoreElements(n.id, saved, n.factory) {
			n.entries = append(n.entries, &sceneEntry{scene: s})
		}
		n.log.Debug("stack restored", "size", len(n.entries))
		return
	}

	if n.initial == nil {
		return
	}
	for _, s := range n.initial() {
		n.entries = append(n.entries, &sceneEntry{scene: s})
	}
}

func (n *stackCore) top() *sceneEntry {
	if len(n.entries) == 0 {
		return nil
	}
	return n.entries[len(n.entries)-1]
}

// settle reports the state reached by the current step unless a
// re-entrant step already reported a later one. An empty stack always
// reports finished; a scene change is only reported while active.
func (n *stackCore) settle(mark uint64, data TransitionData) {
	if n.state == Destroyed {
		return
	}
	top := n.top()
	switch {
	case top == nil:
		n.log.Debug("navigator finished")
		n.d.settle(mark, event{kind: eventFinished})
	case n.state == Active:
		n.d.settle(mark, event{kind: eventSceneChanged, scene: top.scene, data: data})
	}
}

func (n *stackCore) activeScene() (Scene, bool) {
	return n.Current(), true
}

// Start activates the navigator and its current scene.
func (n *stackCore) Start() {
	if n.state != Inactive {
		return
	}
	n.d.scope(func() {
		n.state = Active
		n.ensure()
		mark := n.d.mark()
		if top := n.top(); top != nil {
			n.log.Debug("starting scene", "scene", keyFor(top.scene))
			top.start()
		}
		n.settle(mark, TransitionData{})
	})
}

// Stop deactivates the current scene and the navigator. No event is emitted.
func (n *stackCore) Stop() {
	if n.state != Active {
		return
	}
	n.d.scope(func() {
		n.state = Inactive
		if top := n.top(); top != nil {
			top.stop()
		}
	})
}

// Destroy stops the current scene if active, then destroys every scene
// from bottom to top. Later calls are ignored.
func (n *stackCore) Destroy() {
	if n.state == Destroyed {
		return
	}
	n.d.scope(func() {
		wasActive := n.state == Active
		n.state = Destroyed
		entries := n.entries
		n.entries = nil
		if wasActive && len(entries) > 0 {
			entries[len(entries)-1].stop()
		}
		for _, e := range entries {
			e.destroy()
		}
		n.d.discard()
		n.log.Debug("navigator destroyed", "scenes", len(entries))
	})
}

// Scenes returns the scenes from bottom to top.
func (n *stackCore) Scenes() []Scene {
	if n.state != Destroyed {
		n.ensure()
	}
	scenes := make([]Scene, len(n.entries))
	for i, e := range n.entries {
		scenes[i] = e.scene
	}
	return scenes
}

// Current returns the top scene, or nil when the stack is empty.
func (n *stackCore) Current() Scene {
	if n.state != Destroyed {
		n.ensure()
	}
	if top := n.top(); top != nil {
		return top.scene
	}
	return nil
}

// SaveInstanceState captures the key and, for SavableScene, the state of
// every scene.
func (n *stackCore) SaveInstanceState() *SavedState {
	if n.state != Destroyed {
		n.ensure()
	}
	return saveElements(n.entries, func(e *sceneEntry) (SceneKey, *SavedState) {
		var st *SavedState
		if s, ok := e.scene.(SavableScene); ok {
			st = s.SaveInstanceState()
		}
		return keyFor(e.scene), st
	})
}

func (n *stackCore) push(scene Scene) {
	if n.destroyed("push") {
		return
	}
	n.d.scope(func() {
		n.ensure()
		mark := n.d.mark()
		prev := n.top()
		e := &sceneEntry{scene: scene}
		n.entries = append(n.entries, e)
		n.log.Debug("scene pushed", "scene", keyFor(scene), "size", len(n.entries))
		if n.state == Active {
			if prev != nil {
				prev.stop()
			}
			if n.state == Active && n.top() == e {
				e.start()
			}
		}
		n.settle(mark, TransitionData{})
	})
}

func (n *stackCore) pop() {
	if n.destroyed("pop") {
		return
	}
	n.d.scope(func() {
		n.ensure()
		last := n.top()
		if last == nil {
			violate("pop", n.id, ErrEmptyStack)
		}
		mark := n.d.mark()
		n.entries = n.entries[:len(n.entries)-1]
		n.log.Debug("scene popped", "scene", keyFor(last.scene), "size", len(n.entries))
		last.destroy()
		if n.state == Active {
			if top := n.top(); top != nil {
				top.start()
			}
		}
		n.settle(mark, TransitionData{Backwards: true})
	})
}

func (n *stackCore) replace(scene Scene) {
	if n.destroyed("replace") {
		return
	}
	n.d.scope(func() {
		n.ensure()
		mark := n.d.mark()
		e := &sceneEntry{scene: scene}
		old := n.top()
		if old != nil {
			n.entries[len(n.entries)-1] = e
		} else {
			n.entries = append(n.entries, e)
		}
		n.log.Debug("scene replaced", "scene", keyFor(scene), "size", len(n.entries))
		if old != nil {
			old.destroy()
		}
		if n.state == Active && n.top() == e {
			e.start()
		}
		n.settle(mark, TransitionData{})
	})
}

// finish removes every scene and reports finished once.
func (n *stackCore) finish() {
	if n.destroyed("finish") {
		return
	}
	n.d.scope(func() {
		n.ensure()
		mark := n.d.mark()
		entries := n.entries
		n.entries = nil
		if len(entries) > 0 {
			entries[len(entries)-1].stop()
		}
		for _, e := range entries {
			e.destroy()
		}
		n.settle(mark, TransitionData{})
	})
}

// interceptBack offers a back press to the only remaining scene.
func (n *stackCore) interceptBack() bool {
	top := n.top()
	if top == nil {
		return false
	}
	if h, ok := top.scene.(BackPressHandler); ok {
		return h.OnBackPressed()
	}
	return false
}

// StackNavigator navigates a stack of scenes with push, pop and replace.
type StackNavigator struct {
	*stackCore
}

// NewStackNavigator creates a stack navigator. initial is called once,
// lazily, when the stack is first needed and no saved state was given.
func NewStackNavigator(initial func() []Scene, opts ...Option) *StackNavigator {
	return &StackNavigator{stackCore: newStackCore(initial, newConfig(opts))}
}

// RestoreStackNavigator recreates a stack navigator from a NavigatorState.
// The state is required; nil panics with ErrMissingState. Supply the scene
// factory with WithSceneFactory or WithSceneRegistry.
func RestoreStackNavigator(state *SavedState, opts ...Option) *StackNavigator {
	if state == nil {
		violate("restore", "stack navigator", ErrMissingState)
	}
	return NewStackNavigator(nil, append(opts, WithSavedState(state))...)
}

// Push stops the current scene and makes scene current. While the
// navigator is inactive the scene is only appended.
func (n *StackNavigator) Push(scene Scene) {
	n.push(scene)
}

// Pop removes the current scene. When the stack becomes empty the
// navigator reports finished; the owner is expected to destroy it.
// Popping an empty stack panics with ErrEmptyStack.
func (n *StackNavigator) Pop() {
	n.pop()
}

// Replace swaps the current scene for scene as a single transition.
func (n *StackNavigator) Replace(scene Scene) {
	n.replace(scene)
}

// Finish removes every scene and reports finished.
func (n *StackNavigator) Finish() {
	n.finish()
}

// OnBackPressed pops when more than one scene is stacked. With a single
// scene left the scene may intercept; otherwise the press is not handled
// and the host decides (e.g. exits).
func (n *StackNavigator) OnBackPressed() bool {
	if n.state == Destroyed {
		return false
	}
	n.ensure()
	if len(n.entries) > 1 {
		n.pop()
		return true
	}
	return n.interceptBack()
}
