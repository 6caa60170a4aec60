package usecase

import (
	"context"
	"encoding/json"

	"github.com/trebuchet-org/raffle-cli/internal/domain"
	"github.com/trebuchet-org/raffle-cli/internal/domain/config"
	"github.com/trebuchet-org/raffle-cli/internal/domain/models"
)

// ChainClient is the narrow view of the chain this client needs. Signing,
// encryption and broadcasting happen behind it.
type ChainClient interface {
	StoreCode(ctx context.Context, wasm []byte, gasLimit uint64) (*models.TxResult, error)
	CodeHashByCodeID(ctx context.Context, codeID string) (string, error)
	InstantiateContract(ctx context.Context, req InstantiateRequest) (*models.TxResult, error)
	ExecuteContract(ctx context.Context, req ExecuteRequest) (*models.TxResult, error)
	QueryContract(ctx context.Context, address, codeHash string, query json.RawMessage) (json.RawMessage, error)
}

// InstantiateRequest holds the arguments of an instantiate transaction
type InstantiateRequest struct {
	CodeID   string
	CodeHash string
	InitMsg  json.RawMessage
	Label    string
	GasLimit uint64
}

// ExecuteRequest holds the arguments of an execute transaction
type ExecuteRequest struct {
	ContractAddress string
	CodeHash        string
	Msg             json.RawMessage
	GasLimit        uint64
}

// SignerProvider is the key source a session connects through, modelled on
// browser wallet extensions: enable a chain, then hand out an offline signer
// and encryption utilities for it.
type SignerProvider interface {
	Enable(ctx context.Context, chainID string) error
	OfflineSigner(chainID string) (OfflineSigner, error)
	EncryptionUtils(chainID string) (EncryptionUtils, error)
}

// OfflineSigner exposes accounts and signs digests without network access
type OfflineSigner interface {
	Accounts(ctx context.Context) ([]domain.Account, error)
	Sign(ctx context.Context, address string, digest []byte) ([]byte, error)
}

// EncryptionUtils encrypts contract messages to the chain's transaction key so
// only the chain can read them. The code hash is bound into the ciphertext.
type EncryptionUtils interface {
	Encrypt(ctx context.Context, txKey []byte, codeHash string, msg []byte) ([]byte, error)
}

// ClientOptions describes a signer-bound chain client
type ClientOptions struct {
	Network    *config.Network
	Address    string
	Signer     OfflineSigner
	Encryption EncryptionUtils
}

// ChainClientFactory builds chain clients bound to a signer
type ChainClientFactory interface {
	NewClient(ctx context.Context, opts ClientOptions) (ChainClient, error)
}

// SignerIdentity is a connected account together with the client that signs for it
type SignerIdentity struct {
	Address string
	ChainID string
	Client  ChainClient
}

// Close releases the client's connection when it holds one. It is safe on
// a nil identity.
func (s *SignerIdentity) Close() {
	if s == nil {
		return
	}
	if c, ok := s.Client.(interface{ Close() }); ok {
		c.Close()
	}
}

// ChainChecker verifies that the network answers and knows the recorded deployment
type ChainChecker interface {
	Connect(ctx context.Context, network *config.Network) error
	CheckDeploymentExists(ctx context.Context, record *models.DeploymentRecord) (exists bool, reason string, err error)
	Close()
}

// DeploymentStore persists the latest deployment record
type DeploymentStore interface {
	Exists() bool
	Load(ctx context.Context) (*models.DeploymentRecord, error)
	Save(ctx context.Context, record *models.DeploymentRecord) error
	GetPath() string
}

// DeploymentHistory keeps every deployment ever made from this project
type DeploymentHistory interface {
	AppendDeployment(ctx context.Context, entry *models.HistoryEntry) error
	ListDeployments(ctx context.Context) ([]*models.HistoryEntry, error)
}

// TransactionJournal records transactions sent by this client
type TransactionJournal interface {
	RecordTransaction(ctx context.Context, tx *models.Transaction) error
	ListTransactions(ctx context.Context, limit int) ([]*models.Transaction, error)
}

// PreferenceStore persists the auto-connect preference
type PreferenceStore interface {
	AutoConnect(ctx context.Context) (bool, error)
	SetAutoConnect(ctx context.Context, enabled bool) error
}

// LocalConfigRepository manages local configuration persistence
type LocalConfigRepository interface {
	Exists() bool
	Load(ctx context.Context) (*config.LocalConfig, error)
	Save(ctx context.Context, config *config.LocalConfig) error
	GetPath() string
}

// ContractBuilder compiles the contract artifact
type ContractBuilder interface {
	Build(ctx context.Context, command string) error
}

// Confirmer asks the user a yes/no question
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Selector asks the user to pick one item
type Selector interface {
	Select(ctx context.Context, label string, items []string) (int, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
