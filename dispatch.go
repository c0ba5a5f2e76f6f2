package scenenav

import (
	"slices"

	"go.uber.org/atomic"
)

// TransitionData is metadata delivered alongside a scene change.
type TransitionData struct {
	// Backwards is set when the scene became current because the one in
	// front of it was removed.
	Backwards bool
}

// Listener observes a navigator. Events are deltas: a listener sees the
// transitions that happen after it was added, never a replay of the
// current state.
type Listener interface {
	SceneChanged(scene Scene, data TransitionData)
	Finished()
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are ignored.
type ListenerFuncs struct {
	OnSceneChanged func(scene Scene, data TransitionData)
	OnFinished     func()
}

func (f ListenerFuncs) SceneChanged(scene Scene, data TransitionData) {
	if f.OnSceneChanged != nil {
		f.OnSceneChanged(scene, data)
	}
}

func (f ListenerFuncs) Finished() {
	if f.OnFinished != nil {
		f.OnFinished()
	}
}

// Disposable releases a registration. Disposing twice is a no-op.
//
// A listener holds no ownership over its navigator; forgetting to dispose
// one after its owner goes away leaks the listener but is otherwise harmless.
type Disposable interface {
	Dispose()
	IsDisposed() bool
}

type listenerHandle struct {
	listener Listener
	disposed atomic.Bool
	owner    *dispatcher
}

func (h *listenerHandle) Dispose() {
	if h.disposed.CompareAndSwap(false, true) {
		h.owner.remove(h)
	}
}

func (h *listenerHandle) IsDisposed() bool {
	return h.disposed.Load()
}

type eventKind uint8

const (
	eventSceneChanged eventKind = iota + 1
	eventFinished
)

type event struct {
	kind  eventKind
	scene Scene
	data  TransitionData
}

func (e event) deliver(l Listener) {
	switch e.kind {
	case eventSceneChanged:
		l.SceneChanged(e.scene, e.data)
	case eventFinished:
		l.Finished()
	}
}

// dispatcher is the listener registry shared by all navigators.
//
// Mutations run inside scope. Events recorded while a scope is open are
// not delivered immediately: each record replaces the pending one, and
// only when the outermost scope closes is the surviving event flushed.
// A record made while a flush is running supersedes the event being
// flushed for the listeners it has not reached yet.
type dispatcher struct {
	listeners []*listenerHandle
	depth     int
	pending   *event
	seq       uint64
	flushing  bool
}

func (d *dispatcher) add(l Listener) Disposable {
	h := &listenerHandle{listener: l, owner: d}
	d.listeners = append(d.listeners, h)
	return h
}

func (d *dispatcher) remove(h *listenerHandle) {
	d.listeners = slices.DeleteFunc(d.listeners, func(x *listenerHandle) bool { return x == h })
}

// scope runs fn as one navigation step. A panic in fn drops any pending
// event of the outermost scope and propagates.
func (d *dispatcher) scope(fn func()) {
	d.depth++
	completed := false
	defer func() {
		d.depth--
		if d.depth > 0 {
			return
		}
		if !completed {
			d.pending = nil
			return
		}
		d.flush()
	}()
	fn()
	completed = true
}

// mark returns a token identifying the last recorded event.
func (d *dispatcher) mark() uint64 {
	return d.seq
}

func (d *dispatcher) record(e event) {
	d.pending = &e
	d.seq++
}

// settle records e unless something newer was recorded since mark, which
// means a re-entrant call already reported a later state.
func (d *dispatcher) settle(mark uint64, e event) {
	if d.seq != mark {
		return
	}
	d.record(e)
}

// discard drops the pending event and cancels a flush in progress.
func (d *dispatcher) discard() {
	d.pending = nil
	d.seq++
}

func (d *dispatcher) flush() {
	if d.flushing {
		return
	}
	d.flushing = true
	defer func() { d.flushing = false }()

	for d.pending != nil {
		e := *d.pending
		d.pending = nil
		seq := d.seq
		for _, h := range slices.Clone(d.listeners) {
			if h.disposed.Load() {
				continue
			}
			e.deliver(h.listener)
			if d.seq != seq {
				break
			}
		}
	}
}
