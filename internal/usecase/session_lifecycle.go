package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/trebuchet-org/raffle-cli/internal/domain"
	"github.com/trebuchet-org/raffle-cli/internal/domain/config"
)

const (
	alertInstallProvider = "Please install or configure a signer provider (set [signer] in raffle.toml)"
	alertConnectFailed   = "An error occurred while connecting to the wallet. Please try again."
)

// SignerResolver turns a signer provider into a connected SignerIdentity
type SignerResolver struct {
	provider SignerProvider
	factory  ChainClientFactory
	cfg      *config.RuntimeConfig
}

// NewSignerResolver creates a resolver. provider is nil when none is configured.
func NewSignerResolver(provider SignerProvider, factory ChainClientFactory, cfg *config.RuntimeConfig) *SignerResolver {
	return &SignerResolver{
		provider: provider,
		factory:  factory,
		cfg:      cfg,
	}
}

// Resolve enables the chain on the provider and builds a signer-bound client
func (r *SignerResolver) Resolve(ctx context.Context) (*SignerIdentity, error) {
	if r.provider == nil {
		return nil, domain.ErrExtensionMissing
	}
	if r.cfg.Network == nil {
		return nil, fmt.Errorf("%w: no network selected, use --network or `raffle config set network`", domain.ErrConfiguration)
	}
	chainID := r.cfg.Network.ChainID

	if err := r.provider.Enable(ctx, chainID); err != nil {
		return nil, fmt.Errorf("failed to enable chain %s: %w", chainID, err)
	}

	signer, err := r.provider.OfflineSigner(chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to get offline signer: %w", err)
	}

	accounts, err := signer.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("signer exposes no accounts")
	}
	address := accounts[0].Address

	encryption, err := r.provider.EncryptionUtils(chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to get encryption utils: %w", err)
	}

	client, err := r.factory.NewClient(ctx, ClientOptions{
		Network:    r.cfg.Network,
		Address:    address,
		Signer:     signer,
		Encryption: encryption,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chain client: %w", err)
	}

	return &SignerIdentity{
		Address: address,
		ChainID: chainID,
		Client:  client,
	}, nil
}

// SessionLifecycle manages the signer connection:
// Disconnected -> Connecting -> Connected, and back on disconnect or failure.
//
// Every Connect and Disconnect starts a new generation. A Connect whose
// generation is no longer current when its signer resolves discards it, so
// a Disconnect issued mid-connect always wins.
type SessionLifecycle struct {
	mu         sync.RWMutex
	state      domain.ConnectionState
	signer     *SignerIdentity
	generation uint64
	resolver   *SignerResolver
	prefs      PreferenceStore
	log        *slog.Logger
	subs       map[int]chan domain.ConnectionState
	nextSub    int
}

// NewSessionLifecycle creates a disconnected lifecycle
func NewSessionLifecycle(resolver *SignerResolver, prefs PreferenceStore, log *slog.Logger) *SessionLifecycle {
	return &SessionLifecycle{
		state:    domain.Disconnected,
		resolver: resolver,
		prefs:    prefs,
		log:      log,
		subs:     make(map[int]chan domain.ConnectionState),
	}
}

// State returns the connection state
func (l *SessionLifecycle) State() domain.ConnectionState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Signer returns the connected identity. It is nil unless the state is
// Connected; Connecting counts as not connected.
func (l *SessionLifecycle) Signer() *SignerIdentity {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.state != domain.Connected {
		return nil
	}
	return l.signer
}

// Connect establishes the signer. Failures leave the lifecycle Disconnected
// and are returned as *domain.AlertError. A Disconnect that lands while the
// signer resolves cancels the connection: Connect then returns nil and the
// lifecycle stays Disconnected.
func (l *SessionLifecycle) Connect(ctx context.Context) error {
	l.mu.Lock()
	if l.state != domain.Disconnected {
		l.mu.Unlock()
		return nil
	}
	l.generation++
	gen := l.generation
	l.setState(domain.Connecting)
	l.mu.Unlock()

	signer, err := l.resolver.Resolve(ctx)

	l.mu.Lock()
	if gen != l.generation {
		l.mu.Unlock()
		signer.Close()
		l.log.Debug("connect superseded, dropping signer", "error", err)
		return nil
	}
	if err != nil {
		l.signer = nil
		l.setState(domain.Disconnected)
		l.mu.Unlock()

		l.log.Debug("connect failed", "error", err)
		if errors.Is(err, domain.ErrExtensionMissing) {
			return domain.NewAlert(alertInstallProvider, err)
		}
		return domain.NewAlert(alertConnectFailed, err)
	}
	l.signer = signer
	l.setState(domain.Connected)

	// written under the lock so a later Disconnect's false lands after it
	prefErr := l.prefs.SetAutoConnect(ctx, true)
	l.mu.Unlock()

	if prefErr != nil {
		l.log.Warn("failed to save auto-connect preference", "error", prefErr)
	}
	l.log.Debug("wallet connected", "address", signer.Address, "chainId", signer.ChainID)
	return nil
}

// Disconnect drops the signer and disables auto-connect. The state becomes
// Disconnected even if the preference cannot be written, and a connect in
// flight is abandoned.
func (l *SessionLifecycle) Disconnect(ctx context.Context) error {
	l.mu.Lock()
	l.generation++
	old := l.signer
	l.signer = nil
	l.setState(domain.Disconnected)
	err := l.prefs.SetAutoConnect(ctx, false)
	l.mu.Unlock()

	old.Close()
	if err != nil {
		return fmt.Errorf("failed to clear auto-connect preference: %w", err)
	}
	l.log.Debug("wallet disconnected")
	return nil
}

// AutoConnect connects once if the user connected in a previous run.
// Errors are logged and swallowed so a stale signer never blocks startup.
// It reports whether a connection was attempted.
func (l *SessionLifecycle) AutoConnect(ctx context.Context) bool {
	enabled, err := l.prefs.AutoConnect(ctx)
	if err != nil {
		l.log.Warn("failed to read auto-connect preference", "error", err)
		return false
	}
	if !enabled {
		return false
	}

	if err := l.Connect(ctx); err != nil {
		l.log.Warn("auto-connect failed", "error", err)
	}
	return true
}

// Subscribe returns a channel of state changes and a func that closes it.
// Slow readers miss intermediate states rather than blocking the lifecycle.
func (l *SessionLifecycle) Subscribe() (<-chan domain.ConnectionState, func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextSub
	l.nextSub++
	ch := make(chan domain.ConnectionState, 4)
	l.subs[id] = ch

	return ch, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if sub, ok := l.subs[id]; ok {
			delete(l.subs, id)
			close(sub)
		}
	}
}

// setState must be called with mu held
func (l *SessionLifecycle) setState(state domain.ConnectionState) {
	l.state = state
	for _, ch := range l.subs {
		select {
		case ch <- state:
		default:
		}
	}
}
