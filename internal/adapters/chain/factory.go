package chain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/trebuchet-org/raffle-cli/internal/domain"
	"github.com/trebuchet-org/raffle-cli/internal/domain/config"
	"github.com/trebuchet-org/raffle-cli/internal/usecase"
)

// SimulatedStateFile holds the simulated chain between invocations
const SimulatedStateFile = "simulated-chain.json"

// ClientFactory dials the selected network and binds clients to signers
type ClientFactory struct {
	cfg *config.RuntimeConfig
	log *slog.Logger

	mu     sync.Mutex
	server *rpc.Server
}

// NewClientFactory creates a new ClientFactory
func NewClientFactory(cfg *config.RuntimeConfig, log *slog.Logger) *ClientFactory {
	return &ClientFactory{
		cfg: cfg,
		log: log,
	}
}

// NewClient dials the network and returns a client signing with opts.Signer
func (f *ClientFactory) NewClient(ctx context.Context, opts usecase.ClientOptions) (usecase.ChainClient, error) {
	if opts.Signer == nil || opts.Encryption == nil {
		return nil, fmt.Errorf("client requires a signer and encryption utils")
	}

	rc, err := f.Dial(ctx, opts.Network)
	if err != nil {
		return nil, err
	}
	return NewClient(rc, opts, f.log), nil
}

// Dial opens a JSON-RPC connection to network. The simulated network is
// served in-process.
func (f *ClientFactory) Dial(ctx context.Context, network *config.Network) (*rpc.Client, error) {
	if network == nil {
		return nil, fmt.Errorf("%w: no network selected", domain.ErrConfiguration)
	}

	if network.Simulated {
		server, err := f.simulatedServer(network.ChainID)
		if err != nil {
			return nil, err
		}
		return rpc.DialInProc(server), nil
	}

	if network.RPCURL == "" {
		return nil, fmt.Errorf("%w: network %s has no rpc_url", domain.ErrConfiguration, network.Name)
	}
	rc, err := rpc.DialContext(ctx, network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", network.RPCURL, err)
	}
	f.log.Debug("connected to rpc", "network", network.Name, "url", network.RPCURL)
	return rc, nil
}

func (f *ClientFactory) simulatedServer(chainID string) (*rpc.Server, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.server != nil {
		return f.server, nil
	}

	path := ""
	if f.cfg.DataDir != "" {
		path = filepath.Join(f.cfg.DataDir, SimulatedStateFile)
	}
	sim, err := NewSimulatedChain(path, chainID)
	if err != nil {
		return nil, err
	}
	server, err := sim.Server()
	if err != nil {
		return nil, err
	}

	f.log.Debug("started simulated chain", "chainId", chainID, "state", path)
	f.server = server
	return server, nil
}

var _ usecase.ChainClientFactory = (*ClientFactory)(nil)
