package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigKey(t *testing.T) {
	tests := []struct {
		input string
		want  ConfigKey
		ok    bool
	}{
		{"network", ConfigKeyNetwork, true},
		{"NETWORK", ConfigKeyNetwork, true},
		{"autoconnect", ConfigKeyAutoConnect, true},
		{"autoConnect", ConfigKeyAutoConnect, true},
		{"namespace", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			key, ok := ParseConfigKey(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, key)
		})
	}
}

func TestLocalConfigSet(t *testing.T) {
	local := DefaultLocalConfig()

	require.NoError(t, local.Set(ConfigKeyNetwork, "pulsar-3"))
	assert.Equal(t, "pulsar-3", local.Get(ConfigKeyNetwork))

	require.NoError(t, local.Set(ConfigKeyAutoConnect, "true"))
	assert.True(t, local.AutoConnect)
	assert.Equal(t, "true", local.Get(ConfigKeyAutoConnect))

	err := local.Set(ConfigKeyAutoConnect, "sometimes")
	assert.ErrorContains(t, err, "true or false")
	assert.True(t, local.AutoConnect)

	assert.Error(t, local.Set(ConfigKey("namespace"), "default"))
}
