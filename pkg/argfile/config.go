package argfile

import (
	"time"

	"github.com/mitchellh/mapstructure"
)

// TagName is the struct tag consulted for argument names when no override is
// given. Fields without the tag bind under their field name, matched
// case-insensitively.
const TagName = "arg"

// Config controls how a bound callable turns file contents into arguments.
type Config struct {
	// TagName is the struct tag naming arguments on record fields.
	TagName string

	// Defaults, when non-nil, is a prototype for the argument record. Every
	// call starts from its own copy of the prototype, so a file only needs
	// to carry the arguments that differ from it.
	Defaults any

	// DecodeHooks convert decoded JSON values into richer argument types.
	// Hooks run in order, each seeing the prior hook's output.
	DecodeHooks []mapstructure.DecodeHookFunc
}

// Option mutates a Config.
type Option func(*Config)

// NewDefaultConfig returns a Config with the default tag name and decode
// hooks for time.Duration and RFC 3339 time.Time values.
func NewDefaultConfig() *Config {
	return &Config{
		TagName: TagName,
		DecodeHooks: []mapstructure.DecodeHookFunc{
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		},
	}
}

// NewConfig returns a Config with the provided options applied on top of
// NewDefaultConfig.
func NewConfig(options ...Option) *Config {
	config := NewDefaultConfig()

	for _, option := range options {
		option(config)
	}

	return config
}

// WithTagName overrides the struct tag consulted for argument names.
func WithTagName(tagName string) Option {
	return func(config *Config) {
		config.TagName = tagName
	}
}

// WithDefaults sets the prototype for the argument record. The value must be
// the argument type itself or a pointer to it.
func WithDefaults(defaults any) Option {
	return func(config *Config) {
		config.Defaults = defaults
	}
}

// WithDecodeHook appends a conversion hook for argument values.
func WithDecodeHook(hook mapstructure.DecodeHookFunc) Option {
	return func(config *Config) {
		config.DecodeHooks = append(config.DecodeHooks, hook)
	}
}
