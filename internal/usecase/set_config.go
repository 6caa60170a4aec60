package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/trebuchet-org/raffle-cli/internal/domain"
	"github.com/trebuchet-org/raffle-cli/internal/domain/config"
)

// SetConfigParams contains parameters for setting configuration
type SetConfigParams struct {
	Key   string
	Value string
}

// SetConfigResult contains the result of setting configuration
type SetConfigResult struct {
	UpdatedConfig *config.LocalConfig
	ConfigPath    string
	Key           config.ConfigKey
	Previous      string
	Value         string
}

// SetConfig writes a single key of the local config
type SetConfig struct {
	cfg   *config.RuntimeConfig
	store LocalConfigRepository
}

// NewSetConfig creates a new SetConfig use case
func NewSetConfig(cfg *config.RuntimeConfig, store LocalConfigRepository) *SetConfig {
	return &SetConfig{
		cfg:   cfg,
		store: store,
	}
}

// Run validates and stores the value
func (uc *SetConfig) Run(ctx context.Context, params SetConfigParams) (*SetConfigResult, error) {
	key, ok := config.ParseConfigKey(params.Key)
	if !ok {
		keys := lo.Map(config.ValidConfigKeys(), func(k config.ConfigKey, _ int) string { return string(k) })
		return nil, fmt.Errorf("%w: unknown config key %q, available keys: %s", domain.ErrConfiguration, params.Key, strings.Join(keys, ", "))
	}

	if key == config.ConfigKeyNetwork {
		if names := KnownNetworks(uc.cfg); !lo.Contains(names, params.Value) {
			return nil, fmt.Errorf("%w: unknown network %q, available networks: %s", domain.ErrConfiguration, params.Value, strings.Join(names, ", "))
		}
	}

	local, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	previous := local.Get(key)

	if err := local.Set(key, params.Value); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	if err := uc.store.Save(ctx, local); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	return &SetConfigResult{
		UpdatedConfig: local,
		ConfigPath:    uc.store.GetPath(),
		Key:           key,
		Previous:      previous,
		Value:         local.Get(key),
	}, nil
}
