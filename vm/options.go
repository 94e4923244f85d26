package vm

import "github.com/rs/zerolog"

// Option is a configuration function for an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger used for call, return and exception dispatch
// events. Events are logged at debug level. The default discards them.
func WithLogger(logger zerolog.Logger) Option {
	return func(interp *Interpreter) {
		interp.logger = logger
	}
}

// WithMaxDepth sets the maximum number of nested user function calls.
// Values <= 0 are ignored. The default is DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(interp *Interpreter) {
		if depth > 0 {
			interp.maxDepth = depth
		}
	}
}

// WithObserver sets an observer for execution events.
// The observer receives callbacks for instruction steps, function calls,
// and function returns. Returning false from any observer method halts
// execution with an ErrHalted error.
func WithObserver(observer Observer) Option {
	return func(interp *Interpreter) {
		interp.observer = observer
	}
}
