package scenenav_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/scenenav"
	"github.com/comalice/scenenav/testutil"
)

func TestReplacingNavigator(t *testing.T) {
	var journal []string
	nav := scenenav.NewReplacingNavigator(func() scenenav.Scene { return testutil.NewScene("a", &journal) })
	rec := testutil.NewRecorder()
	nav.AddListener(rec)

	nav.Start()
	nav.Replace(testutil.NewScene("b", &journal))
	assert.False(t, nav.OnBackPressed())
	nav.Finish()

	assert.Equal(t, []string{"changed:a", "changed:b", "finished"}, rec.Events)
	assert.Equal(t, []string{"a.start", "a.stop", "a.destroy", "b.start", "b.stop", "b.destroy"}, journal)
}

func TestReplacingNavigator_SceneInterceptsBack(t *testing.T) {
	a := testutil.NewScene("a", nil)
	pressed := 0
	a.Back = func() bool { pressed++; return true }
	nav := scenenav.NewReplacingNavigator(func() scenenav.Scene { return a })
	nav.Start()

	assert.True(t, nav.OnBackPressed())
	assert.Equal(t, 1, pressed)
}

func TestSingleSceneNavigator_SaveRestore(t *testing.T) {
	create := func(state *scenenav.SavedState) scenenav.Scene {
		if state == nil {
			s := testutil.NewScene("home", nil)
			s.Data = 3
			return s
		}
		return testutil.RestoreScene(state, nil)
	}
	nav := scenenav.NewSingleSceneNavigator(create)
	nav.Start()
	saved := nav.SaveInstanceState()
	nav.Destroy()

	restored := scenenav.NewSingleSceneNavigator(create, scenenav.WithSavedState(saved))
	rec := testutil.NewRecorder()
	restored.AddListener(rec)
	restored.Start()

	require.Equal(t, []string{"changed:home"}, rec.Events)
	assert.Equal(t, int64(3), restored.Current().(*testutil.Scene).Data)

	restored.Finish()
	assert.Equal(t, []string{"changed:home", "finished"}, rec.Events)
}
