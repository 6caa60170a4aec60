package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/trebuchet-org/raffle-cli/internal/domain/config"
)

// ProjectFile marks the project root
const ProjectFile = "raffle.toml"

// DataDirName is the directory holding local state, relative to the project root
const DataDirName = ".raffle"

// Provider builds the RuntimeConfig from viper, raffle.toml and the .env files
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		root, err := FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("cannot locate %s: %w", ProjectFile, err)
		}
		projectRoot = root
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        filepath.Join(projectRoot, DataDirName),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		JSON:           v.GetBool("json"),
		Timeout:        v.GetDuration("timeout"),
	}

	// Load raffle.toml (and .env files, so later lookups see their values)
	project, err := LoadProjectConfig(projectRoot)
	if err != nil {
		return nil, err
	}
	resolveSigner(v, &project.Signer)
	cfg.Project = project
	cfg.Gas = project.Gas.Resolve()

	if name := v.GetString("network"); name != "" {
		if cfg.Network, err = NewNetworkResolver(project).Resolve(name); err != nil {
			return nil, fmt.Errorf("network %q: %w", name, err)
		}
	}

	return cfg, nil
}

// resolveSigner fills signer secrets from RAFFLE_* variables. A bare
// RAFFLE_PRIVATE_KEY selects the private key signer.
func resolveSigner(v *viper.Viper, signer *config.SignerConfig) {
	privateKey := v.GetString("private_key")

	switch signer.Type {
	case "":
		if privateKey != "" {
			signer.Type = config.SignerTypePrivateKey
			signer.PrivateKey = privateKey
		}
	case config.SignerTypePrivateKey:
		if signer.PrivateKey == "" {
			signer.PrivateKey = privateKey
		}
	case config.SignerTypeKeystore:
		if signer.Password == "" {
			signer.Password = v.GetString("keystore_password")
		}
	}
}

// FindProjectRoot returns the nearest directory at or above the working
// directory that holds raffle.toml, or the working directory itself.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for dir := cwd; ; {
		if _, err := os.Stat(filepath.Join(dir, ProjectFile)); err == nil {
			return dir, nil
		}
		up := filepath.Dir(dir)
		if up == dir {
			return cwd, nil
		}
		dir = up
	}
}

// SetupViper layers flags over RAFFLE_* env vars over .raffle/config.local.json
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	v.AddConfigPath(filepath.Join(projectRoot, DataDirName))
	v.SetConfigName("config.local")
	v.SetConfigType("json")

	v.SetEnvPrefix("RAFFLE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	for key, value := range map[string]any{
		"project_root":    projectRoot,
		"timeout":         "5m",
		"debug":           false,
		"non_interactive": false,
	} {
		v.SetDefault(key, value)
	}

	// a missing local config is the normal case
	_ = v.ReadInConfig()

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil {
			panic(err)
		}
	})

	return v
}
