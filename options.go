package quill

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/jerith/quill/object"
	"github.com/jerith/quill/vm"
)

// Option describes a function used to configure a Runtime.
type Option func(*config)

type config struct {
	logger     zerolog.Logger
	maxDepth   int
	observer   vm.Observer
	output     io.Writer
	moduleName string
	globals    map[string]object.Object
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		logger:     zerolog.Nop(),
		moduleName: "main",
		globals:    map[string]object.Object{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

func (cfg *config) vmOpts() []vm.Option {
	opts := []vm.Option{vm.WithLogger(cfg.logger)}
	if cfg.maxDepth > 0 {
		opts = append(opts, vm.WithMaxDepth(cfg.maxDepth))
	}
	if cfg.observer != nil {
		opts = append(opts, vm.WithObserver(cfg.observer))
	}
	return opts
}

// WithLogger sets the logger used for call, handler and module load
// tracing. Events are logged at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithMaxDepth limits the depth of nested function calls.
func WithMaxDepth(depth int) Option {
	return func(cfg *config) {
		cfg.maxDepth = depth
	}
}

// WithObserver sets an observer for execution events.
func WithObserver(observer vm.Observer) Option {
	return func(cfg *config) {
		cfg.observer = observer
	}
}

// WithOutput sets where the print builtin writes. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(cfg *config) {
		cfg.output = w
	}
}

// WithModuleName names the module programs are loaded into. The name shows
// up as the filename in error locations.
func WithModuleName(name string) Option {
	return func(cfg *config) {
		cfg.moduleName = name
	}
}

// WithGlobal supplies a single named global. Globals are declared after the
// builtins, so a global may replace a builtin of the same name.
func WithGlobal(name string, value object.Object) Option {
	return func(cfg *config) {
		cfg.globals[name] = value
	}
}

// WithGlobals supplies several globals. This option is additive; if the
// same name is supplied more than once the last value wins.
func WithGlobals(globals map[string]object.Object) Option {
	return func(cfg *config) {
		for k, v := range globals {
			cfg.globals[k] = v
		}
	}
}
