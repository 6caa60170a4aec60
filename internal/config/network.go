package config

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/trebuchet-org/raffle-cli/internal/domain"
	"github.com/trebuchet-org/raffle-cli/internal/domain/config"
)

// SimulatedChainID is the chain id of the built-in simulated network
const SimulatedChainID = "raffle-simulated-1"

// envVarPattern matches ${VAR_NAME} patterns in TOML values
var envVarPattern = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)\}$`)

// NetworkResolver resolves network names against raffle.toml
type NetworkResolver struct {
	project *config.ProjectConfig
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(project *config.ProjectConfig) *NetworkResolver {
	return &NetworkResolver{project: project}
}

// Resolve resolves a network name to its configuration
func (r *NetworkResolver) Resolve(name string) (*config.Network, error) {
	if name == config.SimulatedNetwork {
		return &config.Network{
			Name:      config.SimulatedNetwork,
			ChainID:   SimulatedChainID,
			Simulated: true,
		}, nil
	}

	nc, ok := r.project.Networks[name]
	if !ok {
		return nil, fmt.Errorf("%w: network '%s' not found in %s [networks] (available: %s)",
			domain.ErrConfiguration, name, ProjectFile, strings.Join(r.Names(), ", "))
	}

	rpcURL := nc.RPCURL
	if rpcURL == "" {
		// Fall back to the conventional variable, e.g. PULSAR_3_RPC_URL
		rpcURL = os.Getenv(GenerateEnvVarName(name))
	}
	if rpcURL == "" {
		return nil, fmt.Errorf("%w: network '%s' has no rpc_url (set it or %s)", domain.ErrConfiguration, name, GenerateEnvVarName(name))
	}
	if _, unset := DetectEnvVar(rpcURL); unset {
		return nil, fmt.Errorf("%w: rpc_url of network '%s' references an unset variable", domain.ErrConfiguration, name)
	}

	chainID := nc.ChainID
	if chainID == "" {
		chainID = name
	}

	return &config.Network{
		Name:    name,
		ChainID: chainID,
		RPCURL:  rpcURL,
	}, nil
}

// Names returns all known network names, sorted, including the simulated network
func (r *NetworkResolver) Names() []string {
	names := []string{config.SimulatedNetwork}
	for name := range r.project.Networks {
		if name != config.SimulatedNetwork {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// DetectEnvVar checks if a value is still a literal ${VAR_NAME} reference,
// which happens when the variable was not set at expansion time.
func DetectEnvVar(rawValue string) (string, bool) {
	matches := envVarPattern.FindStringSubmatch(rawValue)
	if len(matches) == 2 {
		return matches[1], true
	}
	return "", false
}

// GenerateEnvVarName generates a conventional env var name for a network's RPC URL.
// Convention: uppercase, dashes/dots to underscores, append _RPC_URL.
// Examples: pulsar-3 -> PULSAR_3_RPC_URL, secret-4 -> SECRET_4_RPC_URL
func GenerateEnvVarName(networkName string) string {
	name := strings.ToUpper(networkName)
	name = strings.NewReplacer("-", "_", ".", "_").Replace(name)
	return name + "_RPC_URL"
}
