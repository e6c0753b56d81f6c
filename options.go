package qbin

// options holds Binner construction settings.
type options struct {
	parallelism int
	logger      *Logger
}

// Option configures Binner behavior.
type Option func(*options)

// WithParallelism sets the number of feature columns cut concurrently
// during Build. Columns are independent, so parallelism never changes the
// result. Values <= 0 select one worker per available CPU.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithLogger configures the logger used for build diagnostics.
// If nil is passed, logging is disabled.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}
