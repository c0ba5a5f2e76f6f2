package scenenav_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/scenenav"
	"github.com/comalice/scenenav/testutil"
)

func requireContractPanic(t *testing.T, want error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		assert.True(t, scenenav.IsContractError(err))
		assert.ErrorIs(t, err, want)
	}()
	fn()
}

func scenes(s ...scenenav.Scene) func() []scenenav.Scene {
	return func() []scenenav.Scene { return s }
}

func names(ss []scenenav.Scene) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = testutil.Name(s)
	}
	return out
}

// bareScene implements only Scene: it cannot be saved and ignores back presses.
type bareScene struct{}

func (bareScene) Key() scenenav.SceneKey    { return "bare" }
func (bareScene) OnStart()                  {}
func (bareScene) OnStop()                   {}
func (bareScene) OnDestroy()                {}
func (bareScene) Attach(scenenav.Container) {}
func (bareScene) Detach(scenenav.Container) {}
