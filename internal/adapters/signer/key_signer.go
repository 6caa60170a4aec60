package signer

import (
	"context"
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/trebuchet-org/raffle-cli/internal/domain"
	"github.com/trebuchet-org/raffle-cli/internal/usecase"
)

// KeySigner is an offline signer holding a single secp256k1 key
type KeySigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewKeySigner wraps a private key
func NewKeySigner(key *ecdsa.PrivateKey) *KeySigner {
	return &KeySigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}
}

// Address returns the signer's checksummed address
func (s *KeySigner) Address() string {
	return s.address.Hex()
}

// Accounts returns the single account of the key
func (s *KeySigner) Accounts(_ context.Context) ([]domain.Account, error) {
	return []domain.Account{{
		Address: s.address.Hex(),
		PubKey:  crypto.CompressPubkey(&s.key.PublicKey),
	}}, nil
}

// Sign signs a 32 byte digest, returning a 65 byte [R || S || V] signature
func (s *KeySigner) Sign(_ context.Context, address string, digest []byte) ([]byte, error) {
	if !common.IsHexAddress(address) || common.HexToAddress(address) != s.address {
		return nil, fmt.Errorf("signer does not hold a key for %s", address)
	}
	sig, err := crypto.Sign(digest, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}
	return sig, nil
}

var _ usecase.OfflineSigner = (*KeySigner)(nil)
