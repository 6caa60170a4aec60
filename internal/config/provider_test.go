package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trebuchet-org/raffle-cli/internal/domain"
	"github.com/trebuchet-org/raffle-cli/internal/domain/config"
)

const testProject = `
[contract]
wasm = "artifacts/contract.wasm.gz"
label = "my raffle"

[gas]
upload = 5000000

[gas.actions]
generate = 2500000

[networks.pulsar-3]
chain_id = "pulsar-3"
rpc_url = "${TEST_RAFFLE_RPC}"

[signer]
type = "private_key"
`

func writeProject(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFile), []byte(content), 0644))
	return dir
}

func TestProvider(t *testing.T) {
	t.Setenv("TEST_RAFFLE_RPC", "http://localhost:26657")
	t.Setenv("RAFFLE_PRIVATE_KEY", "")
	root := writeProject(t, testProject)

	v := SetupViper(root, &cobra.Command{})
	v.Set("network", "pulsar-3")
	v.Set("private_key", "abcd")

	cfg, err := Provider(v)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(root, ".raffle"), cfg.DataDir)
	assert.Equal(t, 5*time.Minute, cfg.Timeout)

	require.NotNil(t, cfg.Network)
	assert.Equal(t, "pulsar-3", cfg.Network.Name)
	assert.Equal(t, "http://localhost:26657", cfg.Network.RPCURL)

	assert.Equal(t, "artifacts/contract.wasm.gz", cfg.Project.Contract.Wasm)
	assert.Equal(t, "my raffle", cfg.Project.Contract.Label)
	assert.Equal(t, config.DefaultInitMsg, cfg.Project.Contract.InitMsg)

	assert.Equal(t, uint64(5000000), cfg.Gas.Upload)
	assert.Equal(t, config.DefaultInstantiateGas, cfg.Gas.Instantiate)
	assert.Equal(t, uint64(2500000), cfg.Gas.ForAction(domain.ActionGenerate))
	assert.Equal(t, uint64(100000), cfg.Gas.ForAction(domain.ActionIncrement))

	assert.Equal(t, config.SignerTypePrivateKey, cfg.Project.Signer.Type)
	assert.Equal(t, "abcd", cfg.Project.Signer.PrivateKey)
}

func TestProviderWithoutProjectFile(t *testing.T) {
	root := t.TempDir()

	v := SetupViper(root, &cobra.Command{})
	v.Set("private_key", "")
	cfg, err := Provider(v)
	require.NoError(t, err)

	assert.Nil(t, cfg.Network)
	assert.Equal(t, config.DefaultWasm, cfg.Project.Contract.Wasm)
	assert.Equal(t, config.DefaultLabel, cfg.Project.Contract.Label)
	assert.Equal(t, config.DefaultGasSchedule(), cfg.Gas)
	assert.Equal(t, config.SignerType(""), cfg.Project.Signer.Type)
}

func TestProviderUnknownNetwork(t *testing.T) {
	root := t.TempDir()

	v := SetupViper(root, &cobra.Command{})
	v.Set("network", "mainnet")

	_, err := Provider(v)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "available: simulated")
}

func TestProviderReadsLocalConfig(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, DataDirName), 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, DataDirName, "config.local.json"),
		[]byte(`{"network": "simulated", "autoConnect": true}`),
		0644,
	))

	v := SetupViper(root, &cobra.Command{})
	cfg, err := Provider(v)
	require.NoError(t, err)

	require.NotNil(t, cfg.Network)
	assert.True(t, cfg.Network.Simulated)
	assert.Equal(t, SimulatedChainID, cfg.Network.ChainID)
}

func TestProviderInvalidProjectFile(t *testing.T) {
	root := writeProject(t, "[contract\nwasm = ")

	v := SetupViper(root, &cobra.Command{})
	_, err := Provider(v)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestResolveSigner(t *testing.T) {
	tests := []struct {
		name     string
		signer   config.SignerConfig
		env      map[string]string
		expected config.SignerConfig
	}{
		{
			name:     "bare private key selects private key signer",
			env:      map[string]string{"private_key": "0x01"},
			expected: config.SignerConfig{Type: config.SignerTypePrivateKey, PrivateKey: "0x01"},
		},
		{
			name:     "no signer configured",
			expected: config.SignerConfig{},
		},
		{
			name:     "configured key wins",
			signer:   config.SignerConfig{Type: config.SignerTypePrivateKey, PrivateKey: "0x02"},
			env:      map[string]string{"private_key": "0x01"},
			expected: config.SignerConfig{Type: config.SignerTypePrivateKey, PrivateKey: "0x02"},
		},
		{
			name:     "keystore password from env",
			signer:   config.SignerConfig{Type: config.SignerTypeKeystore, Keystore: "key.json"},
			env:      map[string]string{"keystore_password": "hunter2", "private_key": "0x01"},
			expected: config.SignerConfig{Type: config.SignerTypeKeystore, Keystore: "key.json", Password: "hunter2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := SetupViper(t.TempDir(), &cobra.Command{})
			v.Set("private_key", "")
			v.Set("keystore_password", "")
			for k, val := range tt.env {
				v.Set(k, val)
			}

			signer := tt.signer
			resolveSigner(v, &signer)
			assert.Equal(t, tt.expected, signer)
		})
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := writeProject(t, "")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(wd) })
	require.NoError(t, os.Chdir(nested))

	found, err := FindProjectRoot()
	require.NoError(t, err)

	// Resolve symlinks, t.TempDir may live under a symlinked /tmp
	expected, _ := filepath.EvalSymlinks(root)
	actual, _ := filepath.EvalSymlinks(found)
	assert.Equal(t, expected, actual)
}

func TestLoadProjectConfigEnvFiles(t *testing.T) {
	root := writeProject(t, `
[networks.local]
rpc_url = "${LOCAL_TEST_RPC_FROM_DOTENV}"
`)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("LOCAL_TEST_RPC_FROM_DOTENV=http://127.0.0.1:1317\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("LOCAL_TEST_RPC_FROM_DOTENV") })

	project, err := LoadProjectConfig(root)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:1317", project.Networks["local"].RPCURL)
}
