package signer

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/trebuchet-org/raffle-cli/internal/domain"
	"github.com/trebuchet-org/raffle-cli/internal/domain/config"
	"github.com/trebuchet-org/raffle-cli/internal/usecase"
)

// KeyLoader produces the signing key, possibly asking the user for a password
type KeyLoader func(ctx context.Context) (*ecdsa.PrivateKey, error)

// PasswordPrompter asks the user for a secret
type PasswordPrompter interface {
	PromptPassword(ctx context.Context, label string) (string, error)
}

// Provider is a SignerProvider backed by a locally held key. The key is
// loaded on the first Enable and reused for every chain enabled afterwards.
type Provider struct {
	mu      sync.Mutex
	load    KeyLoader
	signer  *KeySigner
	enabled map[string]bool
	log     *slog.Logger
}

// NewProvider creates a provider that loads its key with load
func NewProvider(load KeyLoader, log *slog.Logger) *Provider {
	return &Provider{
		load:    load,
		enabled: make(map[string]bool),
		log:     log,
	}
}

// Enable unlocks the key and grants access to chainID
func (p *Provider) Enable(ctx context.Context, chainID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.enabled[chainID] {
		return nil
	}

	if p.signer == nil {
		key, err := p.load(ctx)
		if err != nil {
			return err
		}
		p.signer = NewKeySigner(key)
	}

	p.enabled[chainID] = true
	p.log.Debug("signer enabled", "chainId", chainID, "address", p.signer.Address())
	return nil
}

// OfflineSigner returns the signer for an enabled chain
func (p *Provider) OfflineSigner(chainID string) (usecase.OfflineSigner, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled[chainID] {
		return nil, fmt.Errorf("chain %s is not enabled", chainID)
	}
	return p.signer, nil
}

// EncryptionUtils returns the message encryption for an enabled chain
func (p *Provider) EncryptionUtils(chainID string) (usecase.EncryptionUtils, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled[chainID] {
		return nil, fmt.Errorf("chain %s is not enabled", chainID)
	}
	return NewECIESEncryption(), nil
}

// PrivateKeyLoader parses a hex encoded private key
func PrivateKeyLoader(hexKey string) KeyLoader {
	return func(context.Context) (*ecdsa.PrivateKey, error) {
		if hexKey == "" {
			return nil, fmt.Errorf("%w: private key signer selected but no key set (RAFFLE_PRIVATE_KEY)", domain.ErrConfiguration)
		}
		key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid private key: %v", domain.ErrConfiguration, err)
		}
		return key, nil
	}
}

// KeystoreLoader decrypts an encrypted JSON key file. Without a configured
// password the prompter is asked; a nil prompter means no one can be asked.
func KeystoreLoader(path, password string, prompter PasswordPrompter) KeyLoader {
	return func(ctx context.Context) (*ecdsa.PrivateKey, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read keystore %s: %v", domain.ErrConfiguration, path, err)
		}

		if password == "" {
			if prompter == nil {
				return nil, fmt.Errorf("%w: keystore password required, set RAFFLE_KEYSTORE_PASSWORD", domain.ErrConfiguration)
			}
			password, err = prompter.PromptPassword(ctx, fmt.Sprintf("Password for %s", filepath.Base(path)))
			if err != nil {
				return nil, err
			}
		}

		key, err := keystore.DecryptKey(data, password)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt keystore: %w", err)
		}
		return key.PrivateKey, nil
	}
}

// NewProviderFromConfig builds the provider selected by the [signer] section.
// It returns a nil interface when no signer is configured.
func NewProviderFromConfig(cfg *config.RuntimeConfig, prompter PasswordPrompter, log *slog.Logger) usecase.SignerProvider {
	if cfg.Project == nil {
		return nil
	}
	sc := cfg.Project.Signer

	var load KeyLoader
	switch sc.Type {
	case "":
		return nil
	case config.SignerTypePrivateKey:
		load = PrivateKeyLoader(sc.PrivateKey)
	case config.SignerTypeKeystore:
		path := sc.Keystore
		if path != "" && !filepath.IsAbs(path) {
			path = filepath.Join(cfg.ProjectRoot, path)
		}
		if cfg.NonInteractive {
			prompter = nil
		}
		load = KeystoreLoader(path, sc.Password, prompter)
	default:
		load = func(context.Context) (*ecdsa.PrivateKey, error) {
			return nil, fmt.Errorf("%w: unknown signer type %q", domain.ErrConfiguration, sc.Type)
		}
	}

	return NewProvider(load, log)
}
