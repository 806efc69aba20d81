package stdio

import "log/slog"

// tableOptions holds configuration options for a Table.
type tableOptions struct {
	logger *slog.Logger
}

// Option is a functional option for configuring a Table.
type Option func(*tableOptions)

// WithLogger configures the table with a logger.
// If logger is nil, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *tableOptions) {
		opts.logger = logger
	}
}

// defaultOptions returns the default configuration options.
func defaultOptions() *tableOptions {
	return &tableOptions{
		logger: nil, // No default logger
	}
}

// applyOptions applies the given options to the table options.
func applyOptions(opts *tableOptions, options []Option) {
	for _, option := range options {
		option(opts)
	}
}
