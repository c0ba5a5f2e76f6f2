package bundle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/scenenav"
)

type handle struct{ id int }

func sampleTree(opaque any) *scenenav.SavedState {
	container := scenenav.NewContainerState().
		SetInt("scroll", 120).
		SetString("text", "draft")
	scene := scenenav.NewSceneState().
		SetState(scenenav.ContainerStateKey, container).
		SetFloat("ratio", 0.25).
		SetBool("expanded", true).
		SetString("empty", "").
		SetInt("zero", 0)
	if opaque != nil {
		scene.SetOpaque("handle", opaque)
	}
	return scenenav.NewNavigatorState().
		SetInt("size", 1).
		SetState("0", scenenav.NewSavedState(scenenav.KindPlain).
			SetString("key", "detail").
			SetState("state", scene))
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	h := &handle{id: 9}
	orig := sampleTree(h)

	b := Encode(orig)
	require.Equal(t, "navigator", b.Kind)

	got, err := Decode(b)
	require.NoError(t, err)
	assert.True(t, orig.Equal(got))

	elem, _ := got.State("0")
	scene, _ := elem.State("state")
	o, ok := scene.Opaque("handle")
	require.True(t, ok)
	assert.Same(t, h, o, "opaque values pass through untouched")
	assert.Equal(t, []string{scenenav.ContainerStateKey, "ratio", "expanded", "empty", "zero", "handle"}, scene.Keys())
}

func TestEncode_Nil(t *testing.T) {
	assert.Nil(t, Encode(nil))
}

func TestDecode_Malformed(t *testing.T) {
	one := int64(1)
	tests := []struct {
		name string
		b    *Bundle
	}{
		{"nil", nil},
		{"unknown kind", &Bundle{Kind: "window"}},
		{"unknown type", &Bundle{Kind: "plain", Entries: []Entry{{Key: "a", Type: "complex"}}}},
		{"missing payload", &Bundle{Kind: "plain", Entries: []Entry{{Key: "a", Type: TypeInt}}}},
		{"missing state", &Bundle{Kind: "plain", Entries: []Entry{{Key: "a", Type: TypeState}}}},
		{"duplicate key", &Bundle{Kind: "plain", Entries: []Entry{
			{Key: "a", Type: TypeInt, Int: &one},
			{Key: "a", Type: TypeInt, Int: &one},
		}}},
		{"nested", &Bundle{Kind: "plain", Entries: []Entry{
			{Key: "a", Type: TypeState, State: &Bundle{Kind: "bogus"}},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.b)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}
