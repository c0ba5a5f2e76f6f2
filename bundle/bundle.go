// Package bundle converts SavedState trees to and from the key-value
// record a host platform stores, and encodes those records as JSON, YAML
// or TOML.
//
// Every node keeps its kind discriminator so a NavigatorState, SceneState,
// ContainerState or plain SavedState can be told apart on the way back in.
// Every value keeps its type tag so int64 and float64 scalars survive
// exactly. Opaque host values are never decomposed: in memory they pass
// through untouched, and the byte codecs only accept them when they
// implement Portable.
package bundle

import (
	"errors"
	"fmt"

	"github.com/comalice/scenenav"
)

// ErrMalformed is wrapped by every decoding error.
var ErrMalformed = errors.New("malformed bundle")

// Type tags for Entry.Type.
const (
	TypeInt    = "int"
	TypeFloat  = "float"
	TypeString = "string"
	TypeBool   = "bool"
	TypeState  = "state"
	TypeOpaque = "opaque"
)

// Bundle is the platform representation of one SavedState node.
type Bundle struct {
	Kind    string  `json:"kind" yaml:"kind" toml:"kind"`
	Entries []Entry `json:"entries" yaml:"entries" toml:"entries"`
}

// Entry is one key of a Bundle. Exactly one payload field is set,
// selected by Type.
type Entry struct {
	Key    string   `json:"key" yaml:"key" toml:"key"`
	Type   string   `json:"type" yaml:"type" toml:"type"`
	Int    *int64   `json:"int,omitempty" yaml:"int,omitempty" toml:"int"`
	Float  *float64 `json:"float,omitempty" yaml:"float,omitempty" toml:"float"`
	String *string  `json:"string,omitempty" yaml:"string,omitempty" toml:"string"`
	Bool   *bool    `json:"bool,omitempty" yaml:"bool,omitempty" toml:"bool"`
	State  *Bundle  `json:"state,omitempty" yaml:"state,omitempty" toml:"state"`

	// Opaque carries a host value in memory. Byte codecs move it through
	// OpaqueType and OpaqueData instead.
	Opaque     any    `json:"-" yaml:"-" toml:"-"`
	OpaqueType string `json:"opaqueType,omitempty" yaml:"opaqueType,omitempty" toml:"opaqueType,omitempty"`
	OpaqueData string `json:"opaqueData,omitempty" yaml:"opaqueData,omitempty" toml:"opaqueData,omitempty"`
}

// Encode converts a SavedState tree into a Bundle.
func Encode(s *scenenav.SavedState) *Bundle {
	if s == nil {
		return nil
	}
	b := &Bundle{
		Kind:    s.Kind().String(),
		Entries: make([]Entry, 0, s.Len()),
	}
	for _, key := range s.Keys() {
		e := Entry{Key: key, Type: s.ValueKind(key).String()}
		switch s.ValueKind(key) {
		case scenenav.ValueInt:
			v, _ := s.Int(key)
			e.Int = &v
		case scenenav.ValueFloat:
			v, _ := s.Float(key)
			e.Float = &v
		case scenenav.ValueString:
			v, _ := s.Str(key)
			e.String = &v
		case scenenav.ValueBool:
			v, _ := s.Bool(key)
			e.Bool = &v
		case scenenav.ValueState:
			v, _ := s.State(key)
			e.State = Encode(v)
		case scenenav.ValueOpaque:
			e.Opaque, _ = s.Opaque(key)
		}
		b.Entries = append(b.Entries, e)
	}
	return b
}

// Decode converts a Bundle back into a SavedState tree.
func Decode(b *Bundle) (*scenenav.SavedState, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: nil bundle", ErrMalformed)
	}
	kind, ok := scenenav.ParseKind(b.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrMalformed, b.Kind)
	}
	s := scenenav.NewSavedState(kind)
	for _, e := range b.Entries {
		if s.Has(e.Key) {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrMalformed, e.Key)
		}
		if err := decodeEntry(s, e); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func decodeEntry(s *scenenav.SavedState, e Entry) error {
	missing := func() error {
		return fmt.Errorf("%w: key %q: missing %s payload", ErrMalformed, e.Key, e.Type)
	}
	switch e.Type {
	case TypeInt:
		if e.Int == nil {
			return missing()
		}
		s.SetInt(e.Key, *e.Int)
	case TypeFloat:
		if e.Float == nil {
			return missing()
		}
		s.SetFloat(e.Key, *e.Float)
	case TypeString:
		if e.String == nil {
			return missing()
		}
		s.SetString(e.Key, *e.String)
	case TypeBool:
		if e.Bool == nil {
			return missing()
		}
		s.SetBool(e.Key, *e.Bool)
	case TypeState:
		if e.State == nil {
			return missing()
		}
		child, err := Decode(e.State)
		if err != nil {
			return fmt.Errorf("key %q: %w", e.Key, err)
		}
		s.SetState(e.Key, child)
	case TypeOpaque:
		s.SetOpaque(e.Key, e.Opaque)
	default:
		return fmt.Errorf("%w: key %q: unknown type %q", ErrMalformed, e.Key, e.Type)
	}
	return nil
}
