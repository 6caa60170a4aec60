package signer

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/crypto/ecies"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trebuchet-org/raffle-cli/internal/domain"
	"github.com/trebuchet-org/raffle-cli/internal/domain/config"
)

const testCodeHash = "9a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f9"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubPrompter struct {
	password string
	err      error
	calls    int
}

func (p *stubPrompter) PromptPassword(context.Context, string) (string, error) {
	p.calls++
	return p.password, p.err
}

func TestECIESEncryption_RoundTrip(t *testing.T) {
	chainKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	enc := NewECIESEncryption()
	msg := []byte(`{"increment":{}}`)

	for name, txKey := range map[string][]byte{
		"compressed":   crypto.CompressPubkey(&chainKey.PublicKey),
		"uncompressed": crypto.FromECDSAPub(&chainKey.PublicKey),
	} {
		t.Run(name, func(t *testing.T) {
			ciphertext, err := enc.Encrypt(context.Background(), txKey, testCodeHash, msg)
			require.NoError(t, err)
			assert.NotContains(t, string(ciphertext), "increment")

			plaintext, err := Open(ecies.ImportECDSA(chainKey), testCodeHash, ciphertext)
			require.NoError(t, err)
			assert.Equal(t, msg, plaintext)
		})
	}
}

func TestECIESEncryption_BindsCodeHash(t *testing.T) {
	chainKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	ciphertext, err := NewECIESEncryption().Encrypt(context.Background(), crypto.CompressPubkey(&chainKey.PublicKey), testCodeHash, []byte(`{}`))
	require.NoError(t, err)

	_, err = Open(ecies.ImportECDSA(chainKey), "deadbeef", ciphertext)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "different code hash")
}

func TestECIESEncryption_InvalidKey(t *testing.T) {
	_, err := NewECIESEncryption().Encrypt(context.Background(), []byte{1, 2, 3}, testCodeHash, []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid tx key length")
}

func TestKeySigner_SignRecoversAddress(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	s := NewKeySigner(key)

	accounts, err := s.Accounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey).Hex(), accounts[0].Address)

	digest := crypto.Keccak256([]byte("payload"))
	sig, err := s.Sign(context.Background(), accounts[0].Address, digest)
	require.NoError(t, err)

	pub, err := crypto.SigToPub(digest, sig)
	require.NoError(t, err)
	assert.Equal(t, accounts[0].Address, crypto.PubkeyToAddress(*pub).Hex())

	_, err = s.Sign(context.Background(), "0x0000000000000000000000000000000000000001", digest)
	assert.Error(t, err)
}

func TestProvider_RequiresEnable(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	loads := 0
	p := NewProvider(func(context.Context) (*ecdsa.PrivateKey, error) {
		loads++
		return key, nil
	}, testLogger())

	_, err = p.OfflineSigner("pulsar-3")
	assert.Error(t, err)
	_, err = p.EncryptionUtils("pulsar-3")
	assert.Error(t, err)

	require.NoError(t, p.Enable(context.Background(), "pulsar-3"))
	require.NoError(t, p.Enable(context.Background(), "pulsar-3"))
	require.NoError(t, p.Enable(context.Background(), "secret-4"))
	assert.Equal(t, 1, loads)

	s, err := p.OfflineSigner("secret-4")
	require.NoError(t, err)
	accounts, err := s.Accounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey).Hex(), accounts[0].Address)
}

func TestPrivateKeyLoader(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	hexKey := hexutil.Encode(crypto.FromECDSA(key))

	loaded, err := PrivateKeyLoader(hexKey)(context.Background())
	require.NoError(t, err)
	assert.Equal(t, key.D, loaded.D)

	_, err = PrivateKeyLoader("")(context.Background())
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = PrivateKeyLoader("not-hex")(context.Background())
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func newTestKeystore(t *testing.T, password string) (string, *ecdsa.PrivateKey) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	ks := keystore.NewKeyStore(t.TempDir(), keystore.LightScryptN, keystore.LightScryptP)
	account, err := ks.ImportECDSA(key, password)
	require.NoError(t, err)
	return account.URL.Path, key
}

func TestKeystoreLoader(t *testing.T) {
	path, key := newTestKeystore(t, "hunter2")

	t.Run("configured password", func(t *testing.T) {
		loaded, err := KeystoreLoader(path, "hunter2", nil)(context.Background())
		require.NoError(t, err)
		assert.Equal(t, key.D, loaded.D)
	})

	t.Run("prompted password", func(t *testing.T) {
		prompter := &stubPrompter{password: "hunter2"}
		loaded, err := KeystoreLoader(path, "", prompter)(context.Background())
		require.NoError(t, err)
		assert.Equal(t, key.D, loaded.D)
		assert.Equal(t, 1, prompter.calls)
	})

	t.Run("prompt aborted", func(t *testing.T) {
		prompter := &stubPrompter{err: domain.ErrUserRejected}
		_, err := KeystoreLoader(path, "", prompter)(context.Background())
		assert.ErrorIs(t, err, domain.ErrUserRejected)
	})

	t.Run("no prompter", func(t *testing.T) {
		_, err := KeystoreLoader(path, "", nil)(context.Background())
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := KeystoreLoader(path, "wrong", nil)(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, keystore.ErrDecrypt))
	})
}

func TestNewProviderFromConfig(t *testing.T) {
	assert.Nil(t, NewProviderFromConfig(&config.RuntimeConfig{}, nil, testLogger()))
	assert.Nil(t, NewProviderFromConfig(&config.RuntimeConfig{Project: &config.ProjectConfig{}}, nil, testLogger()))

	p := NewProviderFromConfig(&config.RuntimeConfig{Project: &config.ProjectConfig{
		Signer: config.SignerConfig{Type: "ledger"},
	}}, nil, testLogger())
	require.NotNil(t, p)
	err := p.Enable(context.Background(), "pulsar-3")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "ledger")
}
