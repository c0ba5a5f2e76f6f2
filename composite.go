package scenenav

// compositeCore is the child navigator sequence shared by the composite
// stack and composite replacing navigators. It listens to the current
// child only, forwards its scene changes and pops it when it finishes.
type compositeCore struct {
	base

	initial     func() []Navigator
	saved       *SavedState
	factory     func(key SceneKey, state *SavedState) Navigator
	initialized bool
	children    []Navigator

	sub   Disposable
	subTo Navigator
}

func newCompositeCore(initial func() []Navigator, cfg config) *compositeCore {
	return &compositeCore{
		base:    newBase(cfg),
		initial: initial,
		saved:   cfg.saved,
		factory: cfg.navigators,
	}
}

func (n *compositeCore) ensure() {
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
		n.children = restoreElements(n.id, saved, n.factory)
		n.log.Debug("composite restored", "size", len(n.children))
	} else if n.initial != nil {
		n.children = n.initial()
	}
	n.resubscribe()
}

func (n *compositeCore) top() Navigator {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[len(n.children)-1]
}

// resubscribe moves the child subscription to the current child.
func (n *compositeCore) resubscribe() {
	top := n.top()
	if n.subTo == top && n.sub != nil {
		return
	}
	if n.sub != nil {
		n.sub.Dispose()
		n.sub = nil
	}
	n.subTo = top
	if top != nil {
		n.sub = top.AddListener(childListener{n: n, child: top})
	}
}

// settle reports finished when no child is left. Scene changes are
// recorded by the forwarding listener as the children report them.
func (n *compositeCore) settle(mark uint64) {
	if n.state == Destroyed {
		return
	}
	if len(n.children) == 0 {
		n.log.Debug("navigator finished")
		n.d.settle(mark, event{kind: eventFinished})
	}
}

// markBackwards flags the scene change recorded since mark as backwards
// when it reports the scene a pop resumed. A change to any other scene was
// caused by navigation during the resume and keeps its own direction.
func (n *compositeCore) markBackwards(mark uint64, resumed Scene, known bool) {
	if n.state == Destroyed || n.d.seq == mark {
		return
	}
	p := n.d.pending
	if p == nil || p.kind != eventSceneChanged {
		return
	}
	if !known || sameScene(p.scene, resumed) {
		p.data.Backwards = true
	}
}

// activeScene returns the scene the current child would show, descending
// through nested composites. known is false when a child navigator does
// not expose its scene.
func (n *compositeCore) activeScene() (scene Scene, known bool) {
	top := n.Current()
	if top == nil {
		return nil, true
	}
	if h, ok := top.(sceneHolder); ok {
		return h.activeScene()
	}
	return nil, false
}

type sceneHolder interface {
	activeScene() (Scene, bool)
}

type childListener struct {
	n     *compositeCore
	child Navigator
}

func (l childListener) SceneChanged(scene Scene, data TransitionData) {
	n := l.n
	if n.state == Destroyed || n.top() != l.child {
		return
	}
	n.d.scope(func() {
		n.d.record(event{kind: eventSceneChanged, scene: scene, data: data})
	})
}

func (l childListener) Finished() {
	n := l.n
	if n.state == Destroyed || n.top() != l.child {
		return
	}
	n.log.Debug("child finished", "child", l.child.ID())
	n.pop()
}

// Start activates the navigator and its current child.
func (n *compositeCore) Start() {
	if n.state != Inactive {
		return
	}
	n.d.scope(func() {
		n.state = Active
		n.ensure()
		mark := n.d.mark()
		if top := n.top(); top != nil {
			top.Start()
		}
		n.settle(mark)
	})
}

// Stop deactivates the current child and the navigator.
func (n *compositeCore) Stop() {
	if n.state != Active {
		return
	}
	n.d.scope(func() {
		n.state = Inactive
		if top := n.top(); top != nil {
			top.Stop()
		}
	})
}

// Destroy stops the current child if active, then destroys every child
// from bottom to top.
func (n *compositeCore) Destroy() {
	if n.state == Destroyed {
		return
	}
	n.d.scope(func() {
		wasActive := n.state == Active
		n.state = Destroyed
		if n.sub != nil {
			n.sub.Dispose()
			n.sub, n.subTo = nil, nil
		}
		children := n.children
		n.children = nil
		if wasActive && len(children) > 0 {
			children[len(children)-1].Stop()
		}
		for _, c := range children {
			c.Destroy()
		}
		n.d.discard()
		n.log.Debug("navigator destroyed", "children", len(children))
	})
}

// Children returns the child navigators from bottom to top.
func (n *compositeCore) Children() []Navigator {
	if n.state != Destroyed {
		n.ensure()
	}
	return append([]Navigator(nil), n.children...)
}

// Current returns the current child navigator, or nil.
func (n *compositeCore) Current() Navigator {
	if n.state != Destroyed {
		n.ensure()
	}
	return n.top()
}

// SaveInstanceState captures the key and, for SavableNavigator, the state
// of every child.
func (n *compositeCore) SaveInstanceState() *SavedState {
	if n.state != Destroyed {
		n.ensure()
	}
	return saveElements(n.children, func(c Navigator) (SceneKey, *SavedState) {
		var st *SavedState
		if s, ok := c.(SavableNavigator); ok {
			st = s.SaveInstanceState()
		}
		return keyFor(c), st
	})
}

func (n *compositeCore) push(child Navigator) {
	if n.destroyed("push") {
		return
	}
	n.d.scope(func() {
		n.ensure()
		mark := n.d.mark()
		prev := n.top()
		n.children = append(n.children, child)
		n.resubscribe()
		n.log.Debug("child pushed", "child", child.ID(), "size", len(n.children))
		if n.state == Active {
			if prev != nil {
				prev.Stop()
			}
			if n.state == Active && n.top() == child {
				child.Start()
			}
		}
		n.settle(mark)
	})
}

func (n *compositeCore) pop() {
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
		n.children = n.children[:len(n.children)-1]
		n.resubscribe()
		n.log.Debug("child popped", "child", last.ID(), "size", len(n.children))
		last.Destroy()
		var (
			resumed Scene
			known   = true
		)
		if n.state == Active {
			if top := n.top(); top != nil {
				resumed, known = n.activeScene()
				top.Start()
			}
		}
		n.settle(mark)
		n.markBackwards(mark, resumed, known)
	})
}

func (n *compositeCore) replace(child Navigator) {
	if n.destroyed("replace") {
		return
	}
	n.d.scope(func() {
		n.ensure()
		mark := n.d.mark()
		old := n.top()
		if old != nil {
			n.children[len(n.children)-1] = child
		} else {
			n.children = append(n.children, child)
		}
		n.resubscribe()
		n.log.Debug("child replaced", "child", child.ID(), "size", len(n.children))
		if old != nil {
			old.Destroy()
		}
		if n.state == Active && n.top() == child {
			child.Start()
		}
		n.settle(mark)
	})
}

func (n *compositeCore) finish() {
	if n.destroyed("finish") {
		return
	}
	n.d.scope(func() {
		n.ensure()
		mark := n.d.mark()
		children := n.children
		n.children = nil
		n.resubscribe()
		if len(children) > 0 {
			children[len(children)-1].Stop()
		}
		for _, c := range children {
			c.Destroy()
		}
		n.settle(mark)
	})
}

// childBack offers a back press to the current child.
func (n *compositeCore) childBack() bool {
	if h, ok := n.top().(BackPressHandler); ok {
		return h.OnBackPressed()
	}
	return false
}

// CompositeStackNavigator navigates a stack of child navigators. The scene
// changes of the current child are reported as its own.
type CompositeStackNavigator struct {
	*compositeCore
}

// NewCompositeStackNavigator creates a composite navigator. initial is
// called once, lazily, when no saved state was given.
func NewCompositeStackNavigator(initial func() []Navigator, opts ...Option) *CompositeStackNavigator {
	return &CompositeStackNavigator{compositeCore: newCompositeCore(initial, newConfig(opts))}
}

// RestoreCompositeStackNavigator recreates a composite navigator from a
// NavigatorState. The state is required; nil panics with ErrMissingState.
func RestoreCompositeStackNavigator(state *SavedState, opts ...Option) *CompositeStackNavigator {
	if state == nil {
		violate("restore", "composite navigator", ErrMissingState)
	}
	return NewCompositeStackNavigator(nil, append(opts, WithSavedState(state))...)
}

// Push stops the current child and starts child.
func (n *CompositeStackNavigator) Push(child Navigator) {
	n.push(child)
}

// Pop destroys the current child and resumes the one below it.
func (n *CompositeStackNavigator) Pop() {
	n.pop()
}

// Replace destroys the current child and starts child in its place.
func (n *CompositeStackNavigator) Replace(child Navigator) {
	n.replace(child)
}

// Finish destroys every child and reports finished.
func (n *CompositeStackNavigator) Finish() {
	n.finish()
}

// OnBackPressed offers the press to the current child first, then pops
// when more than one child is stacked.
func (n *CompositeStackNavigator) OnBackPressed() bool {
	if n.state == Destroyed {
		return false
	}
	n.ensure()
	if len(n.children) == 0 {
		return false
	}
	if n.childBack() {
		return true
	}
	if len(n.children) > 1 {
		n.pop()
		return true
	}
	return false
}

// CompositeReplacingNavigator shows one child navigator at a time.
type CompositeReplacingNavigator struct {
	*compositeCore
}

// NewCompositeReplacingNavigator creates a composite replacing navigator
// whose first child is built lazily by initial.
func NewCompositeReplacingNavigator(initial func() Navigator, opts ...Option) *CompositeReplacingNavigator {
	var children func() []Navigator
	if initial != nil {
		children = func() []Navigator { return []Navigator{initial()} }
	}
	return &CompositeReplacingNavigator{compositeCore: newCompositeCore(children, newConfig(opts))}
}

// Replace destroys the current child and starts child in its place.
func (n *CompositeReplacingNavigator) Replace(child Navigator) {
	n.replace(child)
}

// Finish destroys the current child and reports finished.
func (n *CompositeReplacingNavigator) Finish() {
	n.finish()
}

// OnBackPressed offers the press to the current child.
func (n *CompositeReplacingNavigator) OnBackPressed() bool {
	if n.state == Destroyed {
		return false
	}
	n.ensure()
	if len(n.children) == 0 {
		return false
	}
	return n.childBack()
}
