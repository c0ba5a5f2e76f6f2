package scenenav

import "log/slog"

// Option configures a navigator via the functional options pattern.
type Option func(*config)

type config struct {
	key        SceneKey
	logger     *slog.Logger
	saved      *SavedState
	scenes     func(key SceneKey, state *SavedState) Scene
	navigators func(key SceneKey, state *SavedState) Navigator
}

func newConfig(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	return cfg
}

// WithKey sets the restoration key a parent composite navigator saves for
// this navigator. Without it the key is derived from the Go type.
func WithKey(key SceneKey) Option {
	return func(c *config) {
		c.key = key
	}
}

// WithLogger configures structured logging of transitions (Debug level).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithSavedState restores the navigator from a NavigatorState produced by
// SaveInstanceState. The elements are recreated through the configured
// factory instead of the initial stack.
func WithSavedState(state *SavedState) Option {
	return func(c *config) {
		c.saved = state
	}
}

// WithSceneFactory sets the function that recreates scenes during restoration.
// It must panic (or return a scene) for every key; see Registry.
func WithSceneFactory(fn func(key SceneKey, state *SavedState) Scene) Option {
	return func(c *config) {
		c.scenes = fn
	}
}

// WithSceneRegistry is WithSceneFactory backed by a Registry.
func WithSceneRegistry(r *Registry[Scene]) Option {
	return WithSceneFactory(r.Instantiate)
}

// WithNavigatorFactory sets the function that recreates child navigators
// during restoration of a composite navigator.
func WithNavigatorFactory(fn func(key SceneKey, state *SavedState) Navigator) Option {
	return func(c *config) {
		c.navigators = fn
	}
}

// WithNavigatorRegistry is WithNavigatorFactory backed by a Registry.
func WithNavigatorRegistry(r *Registry[Navigator]) Option {
	return WithNavigatorFactory(r.Instantiate)
}
