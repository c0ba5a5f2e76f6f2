package main

import (
	"fmt"
	"log/slog"

	"github.com/comalice/scenenav"
)

const (
	keyInbox   scenenav.SceneKey = "mail.inbox"
	keyMessage scenenav.SceneKey = "mail.message"
	keyCompose scenenav.SceneKey = "mail.compose"

	keyMailFlow    scenenav.SceneKey = "flow.mail"
	keyComposeFlow scenenav.SceneKey = "flow.compose"
)

type inboxScene struct {
	scenenav.BaseScene
}

func newInboxScene(state *scenenav.SavedState) scenenav.Scene {
	return &inboxScene{BaseScene: scenenav.NewBaseScene(keyInbox, state)}
}

type messageScene struct {
	scenenav.BaseScene
	id int64
}

func newMessageScene(id int64) *messageScene {
	return &messageScene{BaseScene: scenenav.NewBaseScene(keyMessage, nil), id: id}
}

func restoreMessageScene(state *scenenav.SavedState) scenenav.Scene {
	s := &messageScene{BaseScene: scenenav.NewBaseScene(keyMessage, state)}
	if state != nil {
		s.id, _ = state.Int("id")
	}
	return s
}

func (s *messageScene) SaveInstanceState() *scenenav.SavedState {
	return s.BaseScene.SaveInstanceState().SetInt("id", s.id)
}

func (s *messageScene) String() string {
	return fmt.Sprintf("message %d", s.id)
}

// composeScene refuses the first back press while a draft is open.
type composeScene struct {
	scenenav.BaseScene
	to     string
	warned bool
	onWarn func()
}

func newComposeScene(to string) *composeScene {
	return &composeScene{BaseScene: scenenav.NewBaseScene(keyCompose, nil), to: to}
}

func restoreComposeScene(state *scenenav.SavedState) *composeScene {
	s := &composeScene{BaseScene: scenenav.NewBaseScene(keyCompose, state)}
	if state != nil {
		s.to, _ = state.Str("to")
		s.warned, _ = state.Bool("warned")
	}
	return s
}

func (s *composeScene) SaveInstanceState() *scenenav.SavedState {
	return s.BaseScene.SaveInstanceState().
		SetString("to", s.to).
		SetBool("warned", s.warned)
}

func (s *composeScene) OnBackPressed() bool {
	if s.warned {
		return false
	}
	s.warned = true
	if s.onWarn != nil {
		s.onWarn()
	}
	return true
}

func (s *composeScene) String() string {
	return "compose to " + s.to
}

func describe(s scenenav.Scene) string {
	if st, ok := s.(fmt.Stringer); ok {
		return st.String()
	}
	return string(s.Key())
}

// app wires the demo navigator tree: a composite root holding a mail flow
// and, on demand, compose flows stacked on top of it.
type app struct {
	log        *slog.Logger
	scenes     *scenenav.Registry[scenenav.Scene]
	navigators *scenenav.Registry[scenenav.Navigator]
	root       *scenenav.CompositeStackNavigator
}

func newApp(log *slog.Logger, saved *scenenav.SavedState) *app {
	a := &app{log: log}
	a.scenes = scenenav.NewRegistry[scenenav.Scene]().
		Register(keyInbox, newInboxScene).
		Register(keyMessage, restoreMessageScene).
		Register(keyCompose, func(state *scenenav.SavedState) scenenav.Scene {
			s := restoreComposeScene(state)
			s.onWarn = a.warnDraft(s.to)
			return s
		})
	a.navigators = scenenav.NewRegistry[scenenav.Navigator]().
		Register(keyMailFlow, a.restoreFlow(keyMailFlow)).
		Register(keyComposeFlow, a.restoreFlow(keyComposeFlow))

	opts := []scenenav.Option{
		scenenav.WithKey("app"),
		scenenav.WithLogger(log),
		scenenav.WithNavigatorRegistry(a.navigators),
	}
	if saved != nil {
		a.root = scenenav.RestoreCompositeStackNavigator(saved, opts...)
	} else {
		a.root = scenenav.NewCompositeStackNavigator(func() []scenenav.Navigator {
			return []scenenav.Navigator{a.flow(keyMailFlow, newInboxScene(nil))}
		}, opts...)
	}
	return a
}

func (a *app) flow(key scenenav.SceneKey, first scenenav.Scene) *scenenav.StackNavigator {
	return scenenav.NewStackNavigator(func() []scenenav.Scene { return []scenenav.Scene{first} },
		scenenav.WithKey(key), scenenav.WithLogger(a.log))
}

func (a *app) restoreFlow(key scenenav.SceneKey) func(*scenenav.SavedState) scenenav.Navigator {
	return func(state *scenenav.SavedState) scenenav.Navigator {
		return scenenav.RestoreStackNavigator(state,
			scenenav.WithKey(key),
			scenenav.WithLogger(a.log),
			scenenav.WithSceneRegistry(a.scenes))
	}
}

// mail returns the current flow when it is the mail flow.
func (a *app) mail() (*scenenav.StackNavigator, bool) {
	nav, ok := a.root.Current().(*scenenav.StackNavigator)
	if !ok || nav.Key() != keyMailFlow {
		return nil, false
	}
	return nav, true
}

func (a *app) open(id int64) error {
	nav, ok := a.mail()
	if !ok {
		return fmt.Errorf("open %d: mail flow is not current", id)
	}
	nav.Push(newMessageScene(id))
	return nil
}

func (a *app) compose(to string) {
	s := newComposeScene(to)
	s.onWarn = a.warnDraft(to)
	a.root.Push(a.flow(keyComposeFlow, s))
}

func (a *app) warnDraft(to string) func() {
	return func() { a.log.Info("draft open, press back again to discard", "to", to) }
}

func (a *app) back() bool {
	return a.root.OnBackPressed()
}
