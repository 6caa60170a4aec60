package signer

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/crypto/ecies"

	"github.com/trebuchet-org/raffle-cli/internal/usecase"
)

// ECIESEncryption seals contract messages to the chain's transaction key.
// The plaintext is the lowercase code hash followed by the message, so a
// message sealed for one contract code cannot be replayed against another.
type ECIESEncryption struct{}

// NewECIESEncryption creates the encryption utils handed out by providers
func NewECIESEncryption() *ECIESEncryption {
	return &ECIESEncryption{}
}

// Encrypt seals msg for the holder of txKey
func (e *ECIESEncryption) Encrypt(ctx context.Context, txKey []byte, codeHash string, msg []byte) ([]byte, error) {
	if codeHash == "" {
		return nil, fmt.Errorf("cannot encrypt message without a code hash")
	}

	pub, err := ParseTxKey(txKey)
	if err != nil {
		return nil, err
	}

	plaintext := append([]byte(strings.ToLower(codeHash)), msg...)
	ciphertext, err := ecies.Encrypt(rand.Reader, ecies.ImportECDSAPublic(pub), plaintext, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt message: %w", err)
	}
	return ciphertext, nil
}

// Open decrypts a sealed message and checks that it was bound to codeHash
func Open(key *ecies.PrivateKey, codeHash string, ciphertext []byte) ([]byte, error) {
	plaintext, err := key.Decrypt(ciphertext, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt message: %w", err)
	}

	prefix := []byte(strings.ToLower(codeHash))
	if !bytes.HasPrefix(plaintext, prefix) {
		return nil, fmt.Errorf("message was encrypted for a different code hash")
	}
	return plaintext[len(prefix):], nil
}

// ParseTxKey accepts a compressed (33 byte) or uncompressed (65 byte) secp256k1 key
func ParseTxKey(txKey []byte) (*ecdsa.PublicKey, error) {
	switch len(txKey) {
	case 33:
		pub, err := crypto.DecompressPubkey(txKey)
		if err != nil {
			return nil, fmt.Errorf("invalid tx key: %w", err)
		}
		return pub, nil
	case 65:
		pub, err := crypto.UnmarshalPubkey(txKey)
		if err != nil {
			return nil, fmt.Errorf("invalid tx key: %w", err)
		}
		return pub, nil
	default:
		return nil, fmt.Errorf("invalid tx key length %d", len(txKey))
	}
}

var _ usecase.EncryptionUtils = (*ECIESEncryption)(nil)
