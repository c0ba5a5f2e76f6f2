package bundle

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/scenenav"
)

type point struct{ X, Y int32 }

func (p point) PortableType() string { return "point" }

func (p point) MarshalBinary() ([]byte, error) {
	return fmt.Appendf(nil, "%d,%d", p.X, p.Y), nil
}

func decodePoint(data []byte) (any, error) {
	var p point
	if _, err := fmt.Sscanf(string(data), "%d,%d", &p.X, &p.Y); err != nil {
		return nil, err
	}
	return p, nil
}

var formats = []Format{FormatJSON, FormatYAML, FormatTOML}

func TestCodec_RoundTrip(t *testing.T) {
	for _, f := range formats {
		t.Run(string(f), func(t *testing.T) {
			c, err := NewCodec(f, WithPortable("point", decodePoint))
			require.NoError(t, err)
			assert.Equal(t, f, c.Format())

			orig := sampleTree(point{X: 3, Y: -4})
			data, err := c.Marshal(orig)
			require.NoError(t, err)

			got, err := c.Unmarshal(data)
			require.NoError(t, err)
			assert.True(t, orig.Equal(got), "round trip through %s:\n%s", f, data)
		})
	}
}

func TestCodec_ScalarTypesSurvive(t *testing.T) {
	for _, f := range formats {
		t.Run(string(f), func(t *testing.T) {
			c, err := NewCodec(f)
			require.NoError(t, err)
			orig := scenenav.NewSceneState().
				SetInt("int", 2).
				SetFloat("float", 2).
				SetInt("big", 1<<53+1)

			data, err := c.Marshal(orig)
			require.NoError(t, err)
			got, err := c.Unmarshal(data)
			require.NoError(t, err)

			assert.Equal(t, scenenav.ValueInt, got.ValueKind("int"))
			assert.Equal(t, scenenav.ValueFloat, got.ValueKind("float"))
			big, _ := got.Int("big")
			assert.Equal(t, int64(1<<53+1), big)
		})
	}
}

func TestCodec_SpecialFloats(t *testing.T) {
	orig := scenenav.NewSceneState().
		SetFloat("nan", math.NaN()).
		SetFloat("inf", math.Inf(1)).
		SetFloat("-inf", math.Inf(-1))

	for _, f := range []Format{FormatYAML, FormatTOML} {
		t.Run(string(f), func(t *testing.T) {
			c, err := NewCodec(f)
			require.NoError(t, err)
			data, err := c.Marshal(orig)
			require.NoError(t, err)
			got, err := c.Unmarshal(data)
			require.NoError(t, err)
			assert.True(t, orig.Equal(got), "round trip through %s:\n%s", f, data)
		})
	}

	c, err := NewCodec(FormatJSON)
	require.NoError(t, err)
	_, err = c.Marshal(orig)
	assert.Error(t, err, "json has no NaN literal")
}

func TestCodec_InvalidUTF8(t *testing.T) {
	cases := map[string]*scenenav.SavedState{
		"value": scenenav.NewSceneState().SetString("s", "a\xffb"),
		"key":   scenenav.NewSceneState().SetInt("k\xfe", 1),
		"nested": scenenav.NewContainerState().
			SetState("child", scenenav.NewSceneState().SetString("s", "\xc3")),
	}
	for _, f := range formats {
		c, err := NewCodec(f)
		require.NoError(t, err)
		for name, st := range cases {
			t.Run(string(f)+"/"+name, func(t *testing.T) {
				_, err := c.Marshal(st)
				assert.ErrorIs(t, err, ErrInvalidUTF8)
			})
		}
	}

	c, err := NewCodec(FormatJSON)
	require.NoError(t, err)
	valid := scenenav.NewSceneState().SetString("s", "héllo ✓")
	data, err := c.Marshal(valid)
	require.NoError(t, err)
	got, err := c.Unmarshal(data)
	require.NoError(t, err)
	assert.True(t, valid.Equal(got))
}

func TestCodec_NotPortable(t *testing.T) {
	c, err := NewCodec(FormatJSON)
	require.NoError(t, err)

	_, err = c.Marshal(sampleTree(&handle{id: 1}))
	assert.ErrorIs(t, err, ErrNotPortable)

	data, err := c.Marshal(sampleTree(point{X: 1, Y: 2}))
	require.NoError(t, err)
	_, err = c.Unmarshal(data)
	assert.ErrorIs(t, err, ErrNotPortable, "decoder not registered")
}

func TestCodec_Errors(t *testing.T) {
	_, err := NewCodec("xml")
	assert.Error(t, err)

	c, err := NewCodec(FormatJSON)
	require.NoError(t, err)
	_, err = c.Marshal(nil)
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = c.Unmarshal([]byte(`{"kind":"plain","entries":[{"key":"a","type":"int"}]}`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = c.Unmarshal([]byte(`{`))
	assert.Error(t, err)

	_, err = c.Unmarshal([]byte(`{"kind":"plain","entries":[{"key":"a","type":"opaque","opaqueData":"eA=="}]}`))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, "YAML": FormatYAML, "yml": FormatYAML, "toml": FormatTOML} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("ini")
	assert.Error(t, err)
}
