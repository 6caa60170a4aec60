package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trebuchet-org/raffle-cli/internal/domain"
	"github.com/trebuchet-org/raffle-cli/internal/domain/config"
)

func TestNetworkResolver(t *testing.T) {
	t.Setenv("SECRET_4_RPC_URL", "https://lcd.secret.example")

	project := &config.ProjectConfig{
		Networks: map[string]config.NetworkConfig{
			"pulsar-3": {ChainID: "pulsar-3", RPCURL: "https://pulsar.example"},
			"secret-4": {ChainID: "secret-4"},
			"devnet":   {},
			"broken":   {RPCURL: "${NOT_SET_ANYWHERE}"},
		},
	}
	resolver := NewNetworkResolver(project)

	tests := []struct {
		name     string
		network  string
		expected *config.Network
		wantErr  bool
	}{
		{
			name:    "simulated is built in",
			network: "simulated",
			expected: &config.Network{
				Name:      "simulated",
				ChainID:   SimulatedChainID,
				Simulated: true,
			},
		},
		{
			name:     "configured network",
			network:  "pulsar-3",
			expected: &config.Network{Name: "pulsar-3", ChainID: "pulsar-3", RPCURL: "https://pulsar.example"},
		},
		{
			name:     "rpc url from conventional env var",
			network:  "secret-4",
			expected: &config.Network{Name: "secret-4", ChainID: "secret-4", RPCURL: "https://lcd.secret.example"},
		},
		{
			name:    "missing rpc url",
			network: "devnet",
			wantErr: true,
		},
		{
			name:    "unexpanded variable",
			network: "broken",
			wantErr: true,
		},
		{
			name:    "unknown network",
			network: "mainnet",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			network, err := resolver.Resolve(tt.network)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, network)
		})
	}
}

func TestNetworkResolverNames(t *testing.T) {
	resolver := NewNetworkResolver(&config.ProjectConfig{
		Networks: map[string]config.NetworkConfig{
			"secret-4": {},
			"pulsar-3": {},
		},
	})
	assert.Equal(t, []string{"pulsar-3", "secret-4", "simulated"}, resolver.Names())
}

func TestDetectEnvVar(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		isEnvVar bool
	}{
		{
			name:     "simple env var",
			input:    "${PULSAR_RPC_URL}",
			expected: "PULSAR_RPC_URL",
			isEnvVar: true,
		},
		{
			name:     "literal URL",
			input:    "https://pulsar.example",
			isEnvVar: false,
		},
		{
			name:     "partial env var in URL",
			input:    "https://node.example/${API_KEY}",
			isEnvVar: false,
		},
		{
			name:     "empty string",
			input:    "",
			isEnvVar: false,
		},
		{
			name:     "no braces",
			input:    "$PULSAR_RPC_URL",
			isEnvVar: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, ok := DetectEnvVar(tt.input)
			assert.Equal(t, tt.isEnvVar, ok)
			assert.Equal(t, tt.expected, name)
		})
	}
}

func TestGenerateEnvVarName(t *testing.T) {
	tests := []struct {
		network  string
		expected string
	}{
		{"pulsar-3", "PULSAR_3_RPC_URL"},
		{"secret-4", "SECRET_4_RPC_URL"},
		{"local", "LOCAL_RPC_URL"},
		{"my.chain", "MY_CHAIN_RPC_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.network, func(t *testing.T) {
			assert.Equal(t, tt.expected, GenerateEnvVarName(tt.network))
		})
	}
}
