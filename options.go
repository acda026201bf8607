// SPDX-License-Identifier: Apache-2.0

package vector

import (
	"go.uber.org/zap"
)

type settings struct {
	arena  Arena
	logger *zap.Logger
}

// Option configures a Vector.
type Option func(*settings)

// WithArena makes the vector take its buffers from a.
// A nil arena means the Go heap, which is also the default.
func WithArena(a Arena) Option {
	return func(s *settings) {
		s.arena = a
	}
}

// WithLogger sets the logger used to report buffer reallocations at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
