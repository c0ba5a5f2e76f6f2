package scenenav

import (
	"log/slog"
	"strconv"

	"github.com/google/uuid"
)

// Navigator is the state machine deciding which Scene is current.
//
// All methods must be called from one logical thread (see package mainloop).
// Calls on a destroyed navigator are ignored.
type Navigator interface {
	// ID is a unique instance id, used for logging.
	ID() string
	// Key is the restoration key saved by a parent composite navigator.
	Key() SceneKey
	Lifecycle() Lifecycle

	Start()
	Stop()
	Destroy()

	// AddListener registers l for subsequent transitions. A newly added
	// listener is not told about the current scene.
	AddListener(l Listener) Disposable
}

// SavableNavigator is implemented by navigators that can snapshot
// themselves into a NavigatorState.
type SavableNavigator interface {
	SaveInstanceState() *SavedState
}

// base holds what every navigator strategy shares: identity, lifecycle
// state and the listener registry.
type base struct {
	id    string
	key   SceneKey
	log   *slog.Logger
	state Lifecycle
	d     dispatcher
}

func newBase(cfg config) base {
	id := uuid.NewString()
	return base{
		id:  id,
		key: cfg.key,
		log: cfg.logger.With("navigator", id),
	}
}

func (b *base) ID() string           { return b.id }
func (b *base) Key() SceneKey        { return b.key }
func (b *base) Lifecycle() Lifecycle { return b.state }

func (b *base) AddListener(l Listener) Disposable {
	return b.d.add(l)
}

func (b *base) destroyed(op string) bool {
	if b.state != Destroyed {
		return false
	}
	b.log.Debug("ignoring call on destroyed navigator", "op", op)
	return true
}

// NavigatorState layout shared by the stack and composite strategies:
//
//	size: n
//	"0":  {key: "...", state: {...}}
//	...
const (
	stateSizeKey   = "size"
	stateElemKey   = "key"
	stateElemState = "state"
)

func saveElements[E any](elems []E, describe func(E) (SceneKey, *SavedState)) *SavedState {
	st := NewNavigatorState()
	st.SetInt(stateSizeKey, int64(len(elems)))
	for i, e := range elems {
		key, es := describe(e)
		node := NewSavedState(KindPlain).SetString(stateElemKey, string(key))
		if es != nil {
			node.SetState(stateElemState, es)
		}
		st.SetState(strconv.Itoa(i), node)
	}
	return st
}

func restoreElements[E any](subject string, st *SavedState, build func(SceneKey, *SavedState) E) []E {
	if st.Kind() != KindNavigator {
		violate("restore", subject, ErrWrongKind)
	}
	size, ok := st.Int(stateSizeKey)
	if !ok {
		violate("restore", subject+": "+stateSizeKey, ErrMissingState)
	}
	elems := make([]E, 0, size)
	for i := range int(size) {
		node, ok := st.State(strconv.Itoa(i))
		if !ok {
			violate("restore", subject+": element "+strconv.Itoa(i), ErrMissingState)
		}
		key, ok := node.Str(stateElemKey)
		if !ok {
			violate("restore", subject+": element "+strconv.Itoa(i)+" key", ErrMissingState)
		}
		es, _ := node.State(stateElemState)
		elems = append(elems, build(SceneKey(key), es))
	}
	return elems
}
