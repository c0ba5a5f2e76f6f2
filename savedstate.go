package scenenav

import (
	"fmt"
	"math"
	"reflect"
	"slices"
)

// Kind discriminates what a SavedState node was captured from.
type Kind uint8

const (
	KindPlain Kind = iota
	KindNavigator
	KindScene
	KindContainer
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindNavigator:
		return "navigator"
	case KindScene:
		return "scene"
	case KindContainer:
		return "container"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "plain":
		return KindPlain, true
	case "navigator":
		return KindNavigator, true
	case "scene":
		return KindScene, true
	case "container":
		return KindContainer, true
	}
	return 0, false
}

// ValueKind is the type of a single SavedState value.
type ValueKind uint8

const (
	ValueNone ValueKind = iota
	ValueInt
	ValueFloat
	ValueString
	ValueBool
	ValueState
	ValueOpaque
)

func (k ValueKind) String() string {
	switch k {
	case ValueInt:
		return "int"
	case ValueFloat:
		return "float"
	case ValueString:
		return "string"
	case ValueBool:
		return "bool"
	case ValueState:
		return "state"
	case ValueOpaque:
		return "opaque"
	default:
		return "none"
	}
}

type value struct {
	kind ValueKind
	v    any
}

// SavedState is an ordered, typed key-value tree used to snapshot and
// restore scenes, navigators and containers.
//
// Keys keep their first insertion position; setting an existing key
// replaces its value in place. A node never contains itself or one of its
// ancestors. SavedState is not safe for concurrent mutation.
type SavedState struct {
	kind   Kind
	keys   []string
	values map[string]value
}

// NewSavedState creates an empty node of the given kind.
func NewSavedState(kind Kind) *SavedState {
	return &SavedState{
		kind:   kind,
		values: make(map[string]value),
	}
}

// BuildState creates a node of the given kind and populates it with fn.
func BuildState(kind Kind, fn func(s *SavedState)) *SavedState {
	s := NewSavedState(kind)
	if fn != nil {
		fn(s)
	}
	return s
}

func NewNavigatorState() *SavedState { return NewSavedState(KindNavigator) }
func NewSceneState() *SavedState     { return NewSavedState(KindScene) }
func NewContainerState() *SavedState { return NewSavedState(KindContainer) }

// Kind returns the node discriminator.
func (s *SavedState) Kind() Kind {
	return s.kind
}

// Len returns the number of keys.
func (s *SavedState) Len() int {
	return len(s.keys)
}

// Keys returns the keys in insertion order.
func (s *SavedState) Keys() []string {
	return slices.Clone(s.keys)
}

// Has reports whether key is set.
func (s *SavedState) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// ValueKind returns the kind of the value stored under key, or ValueNone.
func (s *SavedState) ValueKind(key string) ValueKind {
	return s.values[key].kind
}

// Get returns the raw value stored under key. Nested nodes are returned as
// *SavedState, opaque values as the host supplied them.
func (s *SavedState) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v.v, ok
}

func (s *SavedState) set(key string, v value) *SavedState {
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = v
	return s
}

func (s *SavedState) SetInt(key string, v int64) *SavedState {
	return s.set(key, value{kind: ValueInt, v: v})
}

func (s *SavedState) SetFloat(key string, v float64) *SavedState {
	return s.set(key, value{kind: ValueFloat, v: v})
}

func (s *SavedState) SetString(key string, v string) *SavedState {
	return s.set(key, value{kind: ValueString, v: v})
}

func (s *SavedState) SetBool(key string, v bool) *SavedState {
	return s.set(key, value{kind: ValueBool, v: v})
}

// SetState nests child under key. It panics with ErrCycle when child is s
// or already contains s.
func (s *SavedState) SetState(key string, child *SavedState) *SavedState {
	if child == nil {
		violate("set state", key, ErrMissingState)
	}
	if child == s || child.contains(s) {
		violate("set state", key, ErrCycle)
	}
	return s.set(key, value{kind: ValueState, v: child})
}

// SetOpaque stores a host platform value that is carried through
// serialization without being decomposed.
func (s *SavedState) SetOpaque(key string, v any) *SavedState {
	return s.set(key, value{kind: ValueOpaque, v: v})
}

// Delete removes key if present.
func (s *SavedState) Delete(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	s.keys = slices.DeleteFunc(s.keys, func(k string) bool { return k == key })
}

func (s *SavedState) Int(key string) (int64, bool) {
	v, ok := s.values[key]
	if !ok || v.kind != ValueInt {
		return 0, false
	}
	return v.v.(int64), true
}

func (s *SavedState) Float(key string) (float64, bool) {
	v, ok := s.values[key]
	if !ok || v.kind != ValueFloat {
		return 0, false
	}
	return v.v.(float64), true
}

func (s *SavedState) Str(key string) (string, bool) {
	v, ok := s.values[key]
	if !ok || v.kind != ValueString {
		return "", false
	}
	return v.v.(string), true
}

func (s *SavedState) Bool(key string) (bool, bool) {
	v, ok := s.values[key]
	if !ok || v.kind != ValueBool {
		return false, false
	}
	return v.v.(bool), true
}

func (s *SavedState) State(key string) (*SavedState, bool) {
	v, ok := s.values[key]
	if !ok || v.kind != ValueState {
		return nil, false
	}
	return v.v.(*SavedState), true
}

func (s *SavedState) Opaque(key string) (any, bool) {
	v, ok := s.values[key]
	if !ok || v.kind != ValueOpaque {
		return nil, false
	}
	return v.v, true
}

// contains reports whether target appears anywhere below s.
func (s *SavedState) contains(target *SavedState) bool {
	for _, v := range s.values {
		if v.kind != ValueState {
			continue
		}
		child := v.v.(*SavedState)
		if child == target || child.contains(target) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy. Opaque values are shared, not copied.
func (s *SavedState) Clone() *SavedState {
	if s == nil {
		return nil
	}
	c := &SavedState{
		kind:   s.kind,
		keys:   slices.Clone(s.keys),
		values: make(map[string]value, len(s.values)),
	}
	for k, v := range s.values {
		if v.kind == ValueState {
			v = value{kind: ValueState, v: v.v.(*SavedState).Clone()}
		}
		c.values[k] = v
	}
	return c
}

// Equal reports structural equality: same kind, same keys in the same
// order and equal values of equal kinds.
func (s *SavedState) Equal(o *SavedState) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.kind != o.kind || !slices.Equal(s.keys, o.keys) {
		return false
	}
	for _, k := range s.keys {
		a, b := s.values[k], o.values[k]
		if a.kind != b.kind {
			return false
		}
		switch a.kind {
		case ValueState:
			if !a.v.(*SavedState).Equal(b.v.(*SavedState)) {
				return false
			}
		case ValueOpaque:
			if !reflect.DeepEqual(a.v, b.v) {
				return false
			}
		case ValueFloat:
			if !floatEqual(a.v.(float64), b.v.(float64)) {
				return false
			}
		default:
			if a.v != b.v {
				return false
			}
		}
	}
	return true
}

// floatEqual treats every NaN as equal to every other NaN so that a tree
// holding one still equals its own copy.
func floatEqual(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return a == b
}
