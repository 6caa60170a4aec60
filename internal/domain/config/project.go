package config

import "github.com/trebuchet-org/raffle-cli/internal/domain"

// SignerType selects the signer provider implementation
type SignerType string

const (
	SignerTypePrivateKey SignerType = "private_key"
	SignerTypeKeystore   SignerType = "keystore"
)

// ProjectConfig represents the raffle.toml file
type ProjectConfig struct {
	Contract ContractConfig           `toml:"contract"`
	Gas      GasConfig                `toml:"gas"`
	Networks map[string]NetworkConfig `toml:"networks"`
	Signer   SignerConfig             `toml:"signer"`
}

// ContractConfig describes the artifact to deploy
type ContractConfig struct {
	Wasm    string `toml:"wasm"`
	Build   string `toml:"build,omitempty"`
	Label   string `toml:"label"`
	InitMsg string `toml:"init_msg"`
}

// GasConfig holds the gas ceilings from raffle.toml; zero values fall back to defaults
type GasConfig struct {
	Upload      uint64            `toml:"upload,omitempty"`
	Instantiate uint64            `toml:"instantiate,omitempty"`
	Actions     map[string]uint64 `toml:"actions,omitempty"`
}

// NetworkConfig is a [networks.<name>] section
type NetworkConfig struct {
	ChainID string `toml:"chain_id"`
	RPCURL  string `toml:"rpc_url"`
}

// SignerConfig is the [signer] section
type SignerConfig struct {
	Type       SignerType `toml:"type"`
	PrivateKey string     `toml:"private_key,omitempty"`
	Keystore   string     `toml:"keystore,omitempty"`
	Password   string     `toml:"password,omitempty"`
}

// GasSchedule is the resolved set of gas ceilings
type GasSchedule struct {
	Upload      uint64
	Instantiate uint64
	Actions     map[domain.ActionKind]uint64
}

const (
	DefaultUploadGas      uint64 = 4_000_000
	DefaultInstantiateGas uint64 = 400_000
	DefaultLabel                 = "secret raffle"
	DefaultInitMsg               = `{"count": 0}`
	DefaultWasm                  = "contract.wasm.gz"
)

// DefaultGasSchedule returns the ceilings used when raffle.toml sets none
func DefaultGasSchedule() GasSchedule {
	return GasSchedule{
		Upload:      DefaultUploadGas,
		Instantiate: DefaultInstantiateGas,
		Actions: map[domain.ActionKind]uint64{
			domain.ActionGenerate:  3_000_000,
			domain.ActionClear:     1_000_000,
			domain.ActionIncrement: 100_000,
			domain.ActionReset:     100_000,
		},
	}
}

// ForAction returns the gas ceiling for an action kind
func (g GasSchedule) ForAction(kind domain.ActionKind) uint64 {
	if gas, ok := g.Actions[kind]; ok && gas > 0 {
		return gas
	}
	return DefaultGasSchedule().Actions[kind]
}

// Resolve overlays the configured values on the defaults
func (c GasConfig) Resolve() GasSchedule {
	schedule := DefaultGasSchedule()
	if c.Upload > 0 {
		schedule.Upload = c.Upload
	}
	if c.Instantiate > 0 {
		schedule.Instantiate = c.Instantiate
	}
	for name, gas := range c.Actions {
		if gas > 0 {
			schedule.Actions[domain.ActionKind(name)] = gas
		}
	}
	return schedule
}
