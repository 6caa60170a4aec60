package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/trebuchet-org/raffle-cli/internal/domain"
	"github.com/trebuchet-org/raffle-cli/internal/domain/config"
)

// LoadProjectConfig loads .env files and parses raffle.toml. A missing
// raffle.toml yields the defaults.
func LoadProjectConfig(projectRoot string) (*config.ProjectConfig, error) {
	loadEnvFiles(projectRoot)

	project := &config.ProjectConfig{}

	path := filepath.Join(projectRoot, ProjectFile)
	if _, err := os.Stat(path); err == nil {
		md, err := toml.DecodeFile(path, project)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to parse %s: %v", domain.ErrConfiguration, ProjectFile, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			fmt.Fprintf(os.Stderr, "Warning: unknown keys in %s: %v\n", ProjectFile, undecoded)
		}
	}

	expandProjectEnv(project)
	applyProjectDefaults(project)
	return project, nil
}

// loadEnvFiles loads .env and .env.local without overriding variables
// already set in the environment
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// expandProjectEnv expands ${VAR} references in values that usually hold secrets or endpoints
func expandProjectEnv(project *config.ProjectConfig) {
	project.Contract.Wasm = os.ExpandEnv(project.Contract.Wasm)
	project.Signer.PrivateKey = os.ExpandEnv(project.Signer.PrivateKey)
	project.Signer.Keystore = os.ExpandEnv(project.Signer.Keystore)
	project.Signer.Password = os.ExpandEnv(project.Signer.Password)

	for name, network := range project.Networks {
		network.RPCURL = os.ExpandEnv(network.RPCURL)
		network.ChainID = os.ExpandEnv(network.ChainID)
		project.Networks[name] = network
	}
}

func applyProjectDefaults(project *config.ProjectConfig) {
	if project.Contract.Wasm == "" {
		project.Contract.Wasm = config.DefaultWasm
	}
	if project.Contract.Label == "" {
		project.Contract.Label = config.DefaultLabel
	}
	if project.Contract.InitMsg == "" {
		project.Contract.InitMsg = config.DefaultInitMsg
	}
	if project.Networks == nil {
		project.Networks = make(map[string]config.NetworkConfig)
	}
}
