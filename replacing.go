package scenenav

// ReplacingNavigator shows one scene at a time; moving on replaces the
// current scene instead of stacking it.
type ReplacingNavigator struct {
	*stackCore
}

// NewReplacingNavigator creates a replacing navigator whose first scene is
// built lazily by initial.
func NewReplacingNavigator(initial func() Scene, opts ...Option) *ReplacingNavigator {
	var stack func() []Scene
	if initial != nil {
		stack = func() []Scene { return []Scene{initial()} }
	}
	return &ReplacingNavigator{stackCore: newStackCore(stack, newConfig(opts))}
}

// Replace makes scene current, destroying the previous one.
func (n *ReplacingNavigator) Replace(scene Scene) {
	n.replace(scene)
}

// Finish destroys the current scene and reports finished.
func (n *ReplacingNavigator) Finish() {
	n.finish()
}

// OnBackPressed lets the current scene intercept; there is nothing to go
// back to otherwise.
func (n *ReplacingNavigator) OnBackPressed() bool {
	if n.state == Destroyed {
		return false
	}
	n.ensure()
	return n.interceptBack()
}

// SingleSceneNavigator hosts exactly one scene for its whole lifetime.
type SingleSceneNavigator struct {
	*stackCore
}

// NewSingleSceneNavigator creates a navigator around the scene built by
// create. create receives the scene's saved state when the navigator is
// restored with WithSavedState, nil otherwise.
func NewSingleSceneNavigator(create func(state *SavedState) Scene, opts ...Option) *SingleSceneNavigator {
	cfg := newConfig(opts)
	if cfg.scenes == nil {
		cfg.scenes = func(_ SceneKey, state *SavedState) Scene { return create(state) }
	}
	return &SingleSceneNavigator{
		stackCore: newStackCore(func() []Scene { return []Scene{create(nil)} }, cfg),
	}
}

// Finish destroys the scene and reports finished.
func (n *SingleSceneNavigator) Finish() {
	n.finish()
}

// OnBackPressed lets the scene intercept the press.
func (n *SingleSceneNavigator) OnBackPressed() bool {
	if n.state == Destroyed {
		return false
	}
	n.ensure()
	return n.interceptBack()
}
