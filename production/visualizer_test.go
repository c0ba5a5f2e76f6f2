package production

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/comalice/scenenav"
	"github.com/comalice/scenenav/testutil"
)

func TestExportDOT_Composite(t *testing.T) {
	inner := scenenav.NewStackNavigator(func() []scenenav.Scene {
		return []scenenav.Scene{testutil.NewScene("a", nil), testutil.NewScene("b", nil)}
	}, scenenav.WithKey("inner"))
	root := scenenav.NewCompositeStackNavigator(func() []scenenav.Navigator {
		return []scenenav.Navigator{inner}
	}, scenenav.WithKey("root"))
	root.Start()

	dot := ExportDOT(root)

	assert.True(t, strings.HasPrefix(dot, "digraph Navigation {"))
	assert.Contains(t, dot, `label="root (active)"`)
	assert.Contains(t, dot, `label="inner (active)"`)
	assert.Contains(t, dot, `"cluster_`+inner.ID()+`"`)
	assert.Contains(t, dot, `"`+inner.ID()+`/0" -> "`+inner.ID()+`/1"`)
	assert.Equal(t, 1, strings.Count(dot, "lightgreen"))
	assert.Contains(t, dot, `"`+inner.ID()+`/1" [label="`+string(testutil.SceneKey)+`" style=filled fillcolor=lightgreen]`)
}

func TestExportDOT_Inactive(t *testing.T) {
	nav := scenenav.NewStackNavigator(func() []scenenav.Scene {
		return []scenenav.Scene{testutil.NewScene("a", nil)}
	})

	dot := ExportDOT(nav)

	assert.Contains(t, dot, "(inactive)")
	assert.NotContains(t, dot, "lightgreen")
	assert.NotContains(t, dot, "lightblue")
}
