// Package scenenav separates where a user is in an application flow from
// what is drawn on screen.
//
// A Scene is a navigable destination with a start/stop/destroy lifecycle
// and an attachable presentation Container. A Navigator decides which
// scene is current and drives the lifecycle hooks of the scenes it owns.
// Navigators compose: a CompositeStackNavigator stacks child navigators
// and reports the scene changes of its current child as its own.
//
// # Events
//
// Navigators report two events to their listeners: a scene change and
// finished (no scene left). Mutations may re-enter the navigator from
// scene hooks or listeners. Such nested calls never produce intermediate
// events: every mutation settles first, and only the final state of the
// outermost call is delivered.
//
// # Saved state
//
// SavedState is an ordered typed key-value tree. Navigators, scenes and
// containers snapshot themselves into it, and recreate themselves from it
// through a Registry of constructors keyed by SceneKey. Package bundle
// converts the tree to a platform record and to bytes.
//
// # Threading
//
// The core is single-threaded and holds no locks. Run every navigator call
// on one goroutine, for example a mainloop.Loop.
package scenenav
