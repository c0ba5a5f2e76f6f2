package testutil

import "github.com/comalice/scenenav"

// Container is a stateful container holding a scroll position and text.
type Container struct {
	Scroll int64
	Text   string
}

func (c *Container) SaveInstanceState() *scenenav.SavedState {
	return scenenav.NewContainerState().
		SetInt("scroll", c.Scroll).
		SetString("text", c.Text)
}

func (c *Container) RestoreInstanceState(state *scenenav.SavedState) {
	c.Scroll, _ = state.Int("scroll")
	c.Text, _ = state.Str("text")
}
