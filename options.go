package linuxaio

import (
	"log/slog"
	"time"
)

// Option configures a Context at construction. The zero value of each
// field means "use the default."
type Option func(*options)

type options struct {
	logger        *slog.Logger
	submitTimeout time.Duration
}

func defaultOptions() *options {
	return &options{logger: slog.Default()}
}

// WithLogger overrides the *slog.Logger used for construction, teardown,
// and pump-fatal diagnostics. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSubmitTimeout bounds how long a File's typed Read/Write/Sync calls
// will wait for the submission to be admitted and completed, on top of
// whatever deadline the caller's own context already carries. Zero (the
// default) means no additional timeout is imposed — only the caller's
// context governs cancellation.
func WithSubmitTimeout(d time.Duration) Option {
	return func(o *options) {
		o.submitTimeout = d
	}
}
