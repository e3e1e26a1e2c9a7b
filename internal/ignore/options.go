package ignore

import "github.com/bethropolis/code-combiner/internal/utils"

type loadOptions struct {
	logger   utils.Logger
	defaults []string
}

// Option functions for configuration
type Option func(*loadOptions)

// WithLogger sets the logger used while loading rules
func WithLogger(logger utils.Logger) Option {
	return func(o *loadOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDefaults replaces the built-in fallback rule list
func WithDefaults(lines []string) Option {
	return func(o *loadOptions) {
		o.defaults = append([]string(nil), lines...)
	}
}
