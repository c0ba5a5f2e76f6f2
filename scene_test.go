package scenenav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scrollContainer struct {
	pos int64
}

func (c *scrollContainer) SaveInstanceState() *SavedState {
	return NewContainerState().SetInt("pos", c.pos)
}

func (c *scrollContainer) RestoreInstanceState(s *SavedState) {
	c.pos, _ = s.Int("pos")
}

type plainScene struct {
	BaseScene
}

func TestBaseScene_ContainerStateTransfer(t *testing.T) {
	s := &plainScene{BaseScene: NewBaseScene("plain", nil)}
	c1 := &scrollContainer{pos: 10}
	c2 := &scrollContainer{}

	s.Attach(c1)
	assert.Same(t, c1, s.Container())
	c1.pos = 42
	s.Detach(c1)
	assert.Nil(t, s.Container())

	s.Attach(c2)
	assert.Equal(t, int64(42), c2.pos)
}

func TestBaseScene_SaveRestoreContainerState(t *testing.T) {
	s := &plainScene{BaseScene: NewBaseScene("plain", nil)}
	s.Attach(&scrollContainer{pos: 5})

	state := s.SaveInstanceState()
	require.Equal(t, KindScene, state.Kind())
	cs, ok := state.State(ContainerStateKey)
	require.True(t, ok)
	assert.Equal(t, KindContainer, cs.Kind())

	restored := &plainScene{BaseScene: NewBaseScene("plain", state)}
	c := &scrollContainer{}
	restored.Attach(c)
	assert.Equal(t, int64(5), c.pos)
}

func TestBaseScene_ContractViolations(t *testing.T) {
	s := &plainScene{BaseScene: NewBaseScene("plain", nil)}
	c := &scrollContainer{}

	assertContractPanic(t, ErrNotAttached, func() { s.Detach(c) })

	s.Attach(c)
	assertContractPanic(t, ErrAlreadyAttached, func() { s.Attach(&scrollContainer{}) })
	assertContractPanic(t, ErrContainerMismatch, func() { s.Detach(&scrollContainer{}) })
}

func TestBaseScene_AttachAfterDestroy(t *testing.T) {
	a := &plainScene{BaseScene: NewBaseScene("a", nil)}
	b := &plainScene{BaseScene: NewBaseScene("b", nil)}
	nav := NewStackNavigator(func() []Scene { return []Scene{a, b} })
	nav.Start()

	c := &scrollContainer{pos: 3}
	b.Attach(c)
	nav.Pop()
	require.True(t, b.Destroyed())
	assert.False(t, a.Destroyed())

	// Releasing a container still held by a destroyed scene is allowed.
	b.Detach(c)
	assertContractPanic(t, ErrSceneDestroyed, func() { b.Attach(&scrollContainer{}) })

	nav.Destroy()
	assert.True(t, a.Destroyed())
	assertContractPanic(t, ErrSceneDestroyed, func() { a.Attach(c) })
}

func TestBaseScene_PlainContainer(t *testing.T) {
	s := &plainScene{BaseScene: NewBaseScene("plain", nil)}
	c := &struct{ n int }{}

	s.Attach(c)
	s.Detach(c)

	assert.False(t, s.SaveInstanceState().Has(ContainerStateKey))
}

func TestKeyOf(t *testing.T) {
	want := SceneKey("github.com/comalice/scenenav.plainScene")
	assert.Equal(t, want, KeyOf(&plainScene{}))
	assert.Equal(t, want, KeyOf(plainScene{}))
	assert.Equal(t, want, KeyFor[*plainScene]())
	assert.Equal(t, SceneKey("int"), KeyOf(1))
	assert.Equal(t, SceneKey(""), KeyOf(nil))

	assert.Equal(t, SceneKey("plain"), keyFor(&plainScene{BaseScene: NewBaseScene("plain", nil)}))
	assert.Equal(t, want, keyFor(&plainScene{}))
}
