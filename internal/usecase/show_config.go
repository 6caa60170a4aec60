package usecase

import (
	"context"
	"sort"

	"github.com/samber/lo"

	"github.com/trebuchet-org/raffle-cli/internal/domain/config"
)

// ShowConfigResult describes the local config and what it resolves to
type ShowConfigResult struct {
	Config      *config.LocalConfig
	ConfigPath  string
	Exists      bool
	ProjectRoot string
	Network     *config.Network
	Networks    []string
	SignerType  config.SignerType
	Gas         config.GasSchedule
}

// ShowConfig reports the effective configuration
type ShowConfig struct {
	cfg   *config.RuntimeConfig
	store LocalConfigRepository
}

// NewShowConfig creates a new ShowConfig use case
func NewShowConfig(cfg *config.RuntimeConfig, store LocalConfigRepository) *ShowConfig {
	return &ShowConfig{
		cfg:   cfg,
		store: store,
	}
}

// Run loads the local config and combines it with the resolved runtime config
func (uc *ShowConfig) Run(ctx context.Context) (*ShowConfigResult, error) {
	local, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	result := &ShowConfigResult{
		Config:      local,
		ConfigPath:  uc.store.GetPath(),
		Exists:      uc.store.Exists(),
		ProjectRoot: uc.cfg.ProjectRoot,
		Network:     uc.cfg.Network,
		Networks:    KnownNetworks(uc.cfg),
		Gas:         uc.cfg.Gas,
	}
	if uc.cfg.Project != nil {
		result.SignerType = uc.cfg.Project.Signer.Type
	}
	return result, nil
}

// KnownNetworks returns the networks in raffle.toml plus the simulated one, sorted
func KnownNetworks(cfg *config.RuntimeConfig) []string {
	names := []string{config.SimulatedNetwork}
	if cfg.Project != nil {
		names = lo.Uniq(append(names, lo.Keys(cfg.Project.Networks)...))
	}
	sort.Strings(names)
	return names
}
