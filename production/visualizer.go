package production

import (
	"bytes"
	"fmt"

	"github.com/comalice/scenenav"
)

type sceneStack interface {
	Scenes() []scenenav.Scene
}

type navigatorStack interface {
	Children() []scenenav.Navigator
}

// ExportDOT renders a navigator tree as Graphviz DOT source. Composite
// navigators become clusters, scenes become leaf nodes and the current
// element of every active navigator is highlighted.
func ExportDOT(nav scenenav.Navigator) string {
	var buf bytes.Buffer
	buf.WriteString(`digraph Navigation {
  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
`)
	renderNavigator(&buf, nav, "  ")
	buf.WriteString("}\n")
	return buf.String()
}

func navigatorLabel(nav scenenav.Navigator) string {
	key := nav.Key()
	if key == "" {
		key = scenenav.KeyOf(nav)
	}
	return fmt.Sprintf("%s (%s)", key, nav.Lifecycle())
}

func renderNavigator(buf *bytes.Buffer, nav scenenav.Navigator, indent string) {
	fmt.Fprintf(buf, "%ssubgraph \"cluster_%s\" {\n", indent, nav.ID())
	fmt.Fprintf(buf, "%s  label=%q;\n", indent, navigatorLabel(nav))
	if nav.Lifecycle() == scenenav.Active {
		fmt.Fprintf(buf, "%s  style=filled; fillcolor=lightblue;\n", indent)
	}

	active := nav.Lifecycle() == scenenav.Active
	switch n := nav.(type) {
	case sceneStack:
		scenes := n.Scenes()
		for i, s := range scenes {
			style := ""
			if active && i == len(scenes)-1 {
				style = " style=filled fillcolor=lightgreen"
			}
			fmt.Fprintf(buf, "%s  \"%s/%d\" [label=%q%s];\n", indent, nav.ID(), i, sceneLabel(s), style)
		}
		for i := 1; i < len(scenes); i++ {
			fmt.Fprintf(buf, "%s  \"%s/%d\" -> \"%s/%d\";\n", indent, nav.ID(), i-1, nav.ID(), i)
		}
	case navigatorStack:
		for _, child := range n.Children() {
			renderNavigator(buf, child, indent+"  ")
		}
	}
	fmt.Fprintf(buf, "%s}\n", indent)
}

func sceneLabel(s scenenav.Scene) string {
	if s == nil {
		return "<nil>"
	}
	return string(sceneKey(s))
}

// sceneKey returns the restoration key of s, falling back to its type.
func sceneKey(s scenenav.Scene) scenenav.SceneKey {
	if key := s.Key(); key != "" {
		return key
	}
	return scenenav.KeyOf(s)
}
