package usecase_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/trebuchet-org/raffle-cli/internal/domain"
	"github.com/trebuchet-org/raffle-cli/internal/domain/config"
	"github.com/trebuchet-org/raffle-cli/internal/domain/models"
	"github.com/trebuchet-org/raffle-cli/internal/usecase"
)

// MockChainClient is a mock implementation of ChainClient
type MockChainClient struct {
	mock.Mock
}

func (m *MockChainClient) StoreCode(ctx context.Context, wasm []byte, gasLimit uint64) (*models.TxResult, error) {
	args := m.Called(ctx, wasm, gasLimit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TxResult), args.Error(1)
}

func (m *MockChainClient) CodeHashByCodeID(ctx context.Context, codeID string) (string, error) {
	args := m.Called(ctx, codeID)
	return args.String(0), args.Error(1)
}

func (m *MockChainClient) InstantiateContract(ctx context.Context, req usecase.InstantiateRequest) (*models.TxResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TxResult), args.Error(1)
}

func (m *MockChainClient) ExecuteContract(ctx context.Context, req usecase.ExecuteRequest) (*models.TxResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TxResult), args.Error(1)
}

func (m *MockChainClient) QueryContract(ctx context.Context, address, codeHash string, query json.RawMessage) (json.RawMessage, error) {
	args := m.Called(ctx, address, codeHash, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

// MockDeploymentStore is a mock implementation of DeploymentStore
type MockDeploymentStore struct {
	mock.Mock
}

func (m *MockDeploymentStore) Exists() bool {
	return m.Called().Bool(0)
}

func (m *MockDeploymentStore) Load(ctx context.Context) (*models.DeploymentRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeploymentRecord), args.Error(1)
}

func (m *MockDeploymentStore) Save(ctx context.Context, record *models.DeploymentRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockDeploymentStore) GetPath() string {
	return m.Called().String(0)
}

// MockPreferenceStore is a mock implementation of PreferenceStore
type MockPreferenceStore struct {
	mock.Mock
}

func (m *MockPreferenceStore) AutoConnect(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockPreferenceStore) SetAutoConnect(ctx context.Context, enabled bool) error {
	return m.Called(ctx, enabled).Error(0)
}

// MockSignerProvider is a mock implementation of SignerProvider
type MockSignerProvider struct {
	mock.Mock
}

func (m *MockSignerProvider) Enable(ctx context.Context, chainID string) error {
	return m.Called(ctx, chainID).Error(0)
}

func (m *MockSignerProvider) OfflineSigner(chainID string) (usecase.OfflineSigner, error) {
	args := m.Called(chainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(usecase.OfflineSigner), args.Error(1)
}

func (m *MockSignerProvider) EncryptionUtils(chainID string) (usecase.EncryptionUtils, error) {
	args := m.Called(chainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(usecase.EncryptionUtils), args.Error(1)
}

// MockChainClientFactory is a mock implementation of ChainClientFactory
type MockChainClientFactory struct {
	mock.Mock
}

func (m *MockChainClientFactory) NewClient(ctx context.Context, opts usecase.ClientOptions) (usecase.ChainClient, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(usecase.ChainClient), args.Error(1)
}

// MockChainChecker is a mock implementation of ChainChecker
type MockChainChecker struct {
	mock.Mock
}

func (m *MockChainChecker) Connect(ctx context.Context, network *config.Network) error {
	return m.Called(ctx, network).Error(0)
}

func (m *MockChainChecker) CheckDeploymentExists(ctx context.Context, record *models.DeploymentRecord) (bool, string, error) {
	args := m.Called(ctx, record)
	return args.Bool(0), args.String(1), args.Error(2)
}

func (m *MockChainChecker) Close() {
	m.Called()
}

// stubSigner is an OfflineSigner with a fixed account
type stubSigner struct {
	address string
}

func (s stubSigner) Accounts(ctx context.Context) ([]domain.Account, error) {
	return []domain.Account{{Address: s.address}}, nil
}

func (s stubSigner) Sign(ctx context.Context, address string, digest []byte) ([]byte, error) {
	return []byte("sig"), nil
}

// stubEncryption passes messages through unchanged
type stubEncryption struct{}

func (stubEncryption) Encrypt(ctx context.Context, txKey []byte, codeHash string, msg []byte) ([]byte, error) {
	return msg, nil
}

// MockProgressSink records progress events
type MockProgressSink struct {
	mu     sync.Mutex
	events []usecase.ProgressEvent
	errors []string
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(message string) {}

func (m *MockProgressSink) Error(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, message)
}

func (m *MockProgressSink) stages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	stages := make([]string, 0, len(m.events))
	for _, e := range m.events {
		stages = append(stages, e.Stage)
	}
	return stages
}

// memHistory is an in-memory DeploymentHistory and TransactionJournal
type memHistory struct {
	mu           sync.Mutex
	deployments  []*models.HistoryEntry
	transactions []*models.Transaction
}

func (h *memHistory) AppendDeployment(ctx context.Context, entry *models.HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deployments = append(h.deployments, entry)
	return nil
}

func (h *memHistory) ListDeployments(ctx context.Context) ([]*models.HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*models.HistoryEntry(nil), h.deployments...), nil
}

func (h *memHistory) RecordTransaction(ctx context.Context, tx *models.Transaction) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.transactions = append(h.transactions, tx)
	return nil
}

func (h *memHistory) ListTransactions(ctx context.Context, limit int) ([]*models.Transaction, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*models.Transaction, 0, len(h.transactions))
	for i := len(h.transactions) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, h.transactions[i])
	}
	return out, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func txWithLog(hash string, entries ...models.LogEntry) *models.TxResult {
	return &models.TxResult{TxHash: hash, GasUsed: 1000, ArrayLog: entries}
}

func messageLog(key, value string) models.LogEntry {
	return models.LogEntry{Type: "message", Key: key, Value: value}
}

var testRecord = &models.DeploymentRecord{
	CodeID:           "7",
	ContractCodeHash: "c0ffee",
	ContractAddress:  "0x00000000000000000000000000000000000000c0",
}
