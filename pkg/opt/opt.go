package opt

import (
	"strconv"
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// A generic option type, which can set options on a generation request
type Opt func(*Options) error

// Options is the set of applied options
type Options struct {
	values map[string][]string
	any    map[string]any
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// Option keys shared between providers
const (
	SystemPromptKey  = "system_prompt"
	TemperatureKey   = "temperature"
	MaxTokensKey     = "max_tokens"
	TopPKey          = "top_p"
	TopKKey          = "top_k"
	StopSequencesKey = "stop_sequences"
	JSONSchemaKey    = "json_schema"
	ToolkitKey       = "toolkit"
	SeedKey          = "seed"
)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// Apply returns a structure of applied options
func Apply(o ...Opt) (Options, error) {
	opts := Options{
		values: make(map[string][]string),
		any:    make(map[string]any),
	}
	for _, opt := range o {
		if err := opt(&opts); err != nil {
			return Options{}, err
		}
	}
	return opts, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Has returns true if the key exists
func (o Options) Has(key string) bool {
	if _, ok := o.values[key]; ok {
		return true
	}
	_, ok := o.any[key]
	return ok
}

// Get returns the raw value for key, or nil if not set
func (o Options) Get(key string) any {
	if v, ok := o.any[key]; ok {
		return v
	}
	if values, ok := o.values[key]; ok && len(values) > 0 {
		return values[0]
	}
	return nil
}

// GetString returns the trimmed value for key, or empty string if not set
func (o Options) GetString(key string) string {
	if values, ok := o.values[key]; ok && len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}

// GetStringArray returns all values for key, each trimmed
func (o Options) GetStringArray(key string) []string {
	values, ok := o.values[key]
	if !ok {
		return nil
	}
	result := make([]string, len(values))
	for i, v := range values {
		result[i] = strings.TrimSpace(v)
	}
	return result
}

// GetBool returns the boolean value for key, or false if not set
func (o Options) GetBool(key string) bool {
	if values, ok := o.values[key]; ok && len(values) > 0 {
		if v, err := strconv.ParseBool(strings.TrimSpace(values[0])); err == nil {
			return v
		}
	}
	return false
}

// GetFloat64 returns the float64 value for key, or 0 if not set or invalid
func (o Options) GetFloat64(key string) float64 {
	if values, ok := o.values[key]; ok && len(values) > 0 {
		if v, err := strconv.ParseFloat(strings.TrimSpace(values[0]), 64); err == nil {
			return v
		}
	}
	return 0
}

// GetUint returns the uint value for key, or 0 if not set or invalid
func (o Options) GetUint(key string) uint {
	if values, ok := o.values[key]; ok && len(values) > 0 {
		if v, err := strconv.ParseUint(strings.TrimSpace(values[0]), 10, 64); err == nil {
			return uint(v)
		}
	}
	return 0
}

////////////////////////////////////////////////////////////////////////////////
// OPTIONS

// Error returns an option that always returns an error
func Error(err error) Opt {
	return func(o *Options) error {
		return err
	}
}

// SetString sets a single string value for key, replacing any existing values
func SetString(key string, value string) Opt {
	return func(o *Options) error {
		o.values[key] = []string{value}
		return nil
	}
}

// AddString appends one or more string values for key
func AddString(key string, value ...string) Opt {
	return func(o *Options) error {
		o.values[key] = append(o.values[key], value...)
		return nil
	}
}

// SetBool sets a boolean value for key
func SetBool(key string, value bool) Opt {
	return func(o *Options) error {
		o.values[key] = []string{strconv.FormatBool(value)}
		return nil
	}
}

// SetUint sets an unsigned integer value for key
func SetUint(key string, value uint) Opt {
	return func(o *Options) error {
		o.values[key] = []string{strconv.FormatUint(uint64(value), 10)}
		return nil
	}
}

// SetFloat64 sets a float value for key
func SetFloat64(key string, value float64) Opt {
	return func(o *Options) error {
		o.values[key] = []string{strconv.FormatFloat(value, 'f', -1, 64)}
		return nil
	}
}

// SetAny sets an arbitrary value for key
func SetAny(key string, value any) Opt {
	return func(o *Options) error {
		o.any[key] = value
		return nil
	}
}
