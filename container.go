package scenenav

// Container is the presentation surface attached to a Scene. The core never
// inspects it; it only compares identity, so implementations should be
// pointer types.
type Container any

// StatefulContainer is a Container that participates in state saving.
type StatefulContainer interface {
	SaveInstanceState() *SavedState
	RestoreInstanceState(state *SavedState)
}
