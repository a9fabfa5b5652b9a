package opt_test

import (
	"errors"
	"testing"

	// Packages
	opt "github.com/mutablelogic/go-stockbot/pkg/opt"
	assert "github.com/stretchr/testify/assert"
)

func Test_opt_001(t *testing.T) {
	assert := assert.New(t)

	o, err := opt.Apply(
		opt.SetString(opt.SystemPromptKey, " hello "),
		opt.SetFloat64(opt.TemperatureKey, 0.5),
		opt.SetUint(opt.MaxTokensKey, 1024),
	)
	assert.NoError(err)
	assert.True(o.Has(opt.SystemPromptKey))
	assert.Equal("hello", o.GetString(opt.SystemPromptKey))
	assert.Equal(0.5, o.GetFloat64(opt.TemperatureKey))
	assert.Equal(uint(1024), o.GetUint(opt.MaxTokensKey))
	assert.False(o.Has(opt.TopPKey))
	assert.Equal("", o.GetString(opt.TopPKey))
}

func Test_opt_002(t *testing.T) {
	assert := assert.New(t)

	o, err := opt.Apply(
		opt.AddString(opt.StopSequencesKey, "a", "b"),
		opt.AddString(opt.StopSequencesKey, "c"),
	)
	assert.NoError(err)
	assert.Equal([]string{"a", "b", "c"}, o.GetStringArray(opt.StopSequencesKey))
}

func Test_opt_003(t *testing.T) {
	assert := assert.New(t)

	type thing struct{ a int }
	v := &thing{a: 42}
	o, err := opt.Apply(opt.SetAny(opt.ToolkitKey, v))
	assert.NoError(err)
	assert.True(o.Has(opt.ToolkitKey))
	assert.Same(v, o.Get(opt.ToolkitKey))
}

func Test_opt_004(t *testing.T) {
	assert := assert.New(t)

	bad := errors.New("bad option")
	_, err := opt.Apply(opt.SetString("key", "value"), opt.Error(bad))
	assert.ErrorIs(err, bad)
}
