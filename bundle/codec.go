package bundle

import (
	"bytes"
	"encoding"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/comalice/scenenav"
)

// Format selects the byte encoding of a Codec.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ParseFormat accepts a format name, case-insensitively. "yml" is an alias
// for yaml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

var (
	// ErrNotPortable is returned when an opaque value cannot cross a byte
	// codec: it does not implement Portable, or its type is not registered.
	ErrNotPortable = errors.New("opaque value is not portable")

	// ErrInvalidUTF8 is returned when a key or string value is not valid
	// UTF-8. Text formats cannot carry such strings unchanged.
	ErrInvalidUTF8 = errors.New("string is not valid UTF-8")
)

// Portable is an opaque host value that knows how to flatten itself.
type Portable interface {
	PortableType() string
	encoding.BinaryMarshaler
}

// PortableDecoder rebuilds a Portable value from its marshaled bytes.
type PortableDecoder func(data []byte) (any, error)

// Codec encodes SavedState trees as bytes.
type Codec struct {
	format    Format
	portables map[string]PortableDecoder
}

// CodecOption configures a Codec.
type CodecOption func(*Codec)

// WithPortable registers the decoder for opaque values of type typ.
func WithPortable(typ string, decode PortableDecoder) CodecOption {
	return func(c *Codec) {
		c.portables[typ] = decode
	}
}

// NewCodec creates a codec for format.
func NewCodec(format Format, opts ...CodecOption) (*Codec, error) {
	switch format {
	case FormatJSON, FormatYAML, FormatTOML:
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	c := &Codec{
		format:    format,
		portables: make(map[string]PortableDecoder),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// Format returns the codec's format.
func (c *Codec) Format() Format {
	return c.format
}

// Marshal encodes s.
func (c *Codec) Marshal(s *scenenav.SavedState) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil state", ErrMalformed)
	}
	b := Encode(s)
	if err := flatten(b); err != nil {
		return nil, err
	}

	switch c.format {
	case FormatJSON:
		data, err := json.MarshalIndent(b, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("json marshal: %w", err)
		}
		return data, nil
	case FormatYAML:
		data, err := yaml.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("yaml marshal: %w", err)
		}
		return data, nil
	default:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(b); err != nil {
			return nil, fmt.Errorf("toml marshal: %w", err)
		}
		return buf.Bytes(), nil
	}
}

// Unmarshal decodes data produced by Marshal.
func (c *Codec) Unmarshal(data []byte) (*scenenav.SavedState, error) {
	var b Bundle
	switch c.format {
	case FormatJSON:
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("json unmarshal: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("yaml unmarshal: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), &b); err != nil {
			return nil, fmt.Errorf("toml unmarshal: %w", err)
		}
	}
	if err := c.inflate(&b); err != nil {
		return nil, err
	}
	return Decode(&b)
}

// flatten moves in-memory opaque values into their portable form and
// rejects strings a text format would alter.
func flatten(b *Bundle) error {
	for i := range b.Entries {
		e := &b.Entries[i]
		if !utf8.ValidString(e.Key) {
			return fmt.Errorf("key %q: %w", e.Key, ErrInvalidUTF8)
		}
		switch e.Type {
		case TypeString:
			if e.String != nil && !utf8.ValidString(*e.String) {
				return fmt.Errorf("key %q: value %q: %w", e.Key, *e.String, ErrInvalidUTF8)
			}
		case TypeState:
			if e.State != nil {
				if err := flatten(e.State); err != nil {
					return err
				}
			}
		case TypeOpaque:
			p, ok := e.Opaque.(Portable)
			if !ok {
				return fmt.Errorf("key %q (%T): %w", e.Key, e.Opaque, ErrNotPortable)
			}
			data, err := p.MarshalBinary()
			if err != nil {
				return fmt.Errorf("key %q: marshal %s: %w", e.Key, p.PortableType(), err)
			}
			e.OpaqueType = p.PortableType()
			e.OpaqueData = base64.StdEncoding.EncodeToString(data)
			e.Opaque = nil
		}
	}
	return nil
}

// inflate rebuilds opaque values through the registered decoders.
func (c *Codec) inflate(b *Bundle) error {
	for i := range b.Entries {
		e := &b.Entries[i]
		switch e.Type {
		case TypeState:
			if e.State != nil {
				if err := c.inflate(e.State); err != nil {
					return err
				}
			}
		case TypeOpaque:
			if e.OpaqueType == "" {
				return fmt.Errorf("%w: key %q: opaque value without type", ErrMalformed, e.Key)
			}
			decode, ok := c.portables[e.OpaqueType]
			if !ok {
				return fmt.Errorf("key %q type %q: %w", e.Key, e.OpaqueType, ErrNotPortable)
			}
			data, err := base64.StdEncoding.DecodeString(e.OpaqueData)
			if err != nil {
				return fmt.Errorf("%w: key %q: %v", ErrMalformed, e.Key, err)
			}
			v, err := decode(data)
			if err != nil {
				return fmt.Errorf("key %q: decode %s: %w", e.Key, e.OpaqueType, err)
			}
			e.Opaque = v
		}
	}
	return nil
}
