package scenenav

import "fmt"

// Lifecycle is the state of a Navigator or of a Scene inside its navigator.
//
//	Inactive -> Active -> Inactive ... -> Destroyed
//
// Destroyed is terminal and reachable from both other states.
type Lifecycle uint8

const (
	Inactive Lifecycle = iota
	Active
	Destroyed
)

func (l Lifecycle) String() string {
	switch l {
	case Inactive:
		return "inactive"
	case Active:
		return "active"
	case Destroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("lifecycle(%d)", uint8(l))
	}
}

// sceneEntry tracks the lifecycle of one scene owned by a navigator so that
// hooks are never invoked out of order.
type sceneEntry struct {
	scene Scene
	state Lifecycle
}

func (e *sceneEntry) start() {
	if e.state != Inactive {
		return
	}
	e.state = Active
	e.scene.OnStart()
}

func (e *sceneEntry) stop() {
	if e.state != Active {
		return
	}
	e.state = Inactive
	e.scene.OnStop()
}

func (e *sceneEntry) destroy() {
	if e.state == Destroyed {
		return
	}
	e.stop()
	e.state = Destroyed
	e.scene.OnDestroy()
	if d, ok := e.scene.(destroyMarker); ok {
		d.markDestroyed()
	}
}

// destroyMarker is satisfied by scenes embedding BaseScene.
type destroyMarker interface {
	markDestroyed()
}
