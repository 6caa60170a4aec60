package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/trebuchet-org/raffle-cli/internal/domain"
	"github.com/trebuchet-org/raffle-cli/internal/domain/config"
	"github.com/trebuchet-org/raffle-cli/internal/domain/models"
	"github.com/trebuchet-org/raffle-cli/internal/usecase"
)

var testWasm = []byte("\x00asm\x01\x00\x00\x00")

type deployFixture struct {
	client   *MockChainClient
	store    *MockDeploymentStore
	history  *memHistory
	progress *MockProgressSink
	uc       *usecase.DeployContract
	signer   *usecase.SignerIdentity
}

func newDeployFixture() *deployFixture {
	cfg := &config.RuntimeConfig{
		Network: &config.Network{Name: "simulated", ChainID: "raffle-test-1", Simulated: true},
		Gas:     config.DefaultGasSchedule(),
		Project: &config.ProjectConfig{
			Contract: config.ContractConfig{
				Label:   config.DefaultLabel,
				InitMsg: config.DefaultInitMsg,
			},
		},
	}

	f := &deployFixture{
		client:   new(MockChainClient),
		store:    new(MockDeploymentStore),
		history:  &memHistory{},
		progress: &MockProgressSink{},
	}
	f.signer = &usecase.SignerIdentity{Address: "0xdeployer", ChainID: "raffle-test-1", Client: f.client}
	f.uc = usecase.NewDeployContract(cfg, f.store, f.history, f.history, f.progress, testLogger())
	f.store.On("Exists").Return(false).Maybe()
	f.store.On("GetPath").Return("/tmp/.raffle/latest-deployment.json").Maybe()
	return f
}

func (f *deployFixture) expectUpload(codeID string) {
	f.client.On("StoreCode", mock.Anything, testWasm, config.DefaultUploadGas).
		Return(txWithLog("0xupload", messageLog("code_id", codeID)), nil).Once()
}

func (f *deployFixture) expectInstantiate(codeID, hash, address string) {
	f.client.On("InstantiateContract", mock.Anything, mock.MatchedBy(func(req usecase.InstantiateRequest) bool {
		return req.CodeID == codeID && req.CodeHash == hash
	})).Return(txWithLog("0xinit", messageLog("contract_address", address)), nil).Once()
}

func TestDeployContract(t *testing.T) {
	ctx := context.Background()

	t.Run("deploys and saves the record", func(t *testing.T) {
		f := newDeployFixture()
		f.expectUpload("7")
		f.client.On("CodeHashByCodeID", mock.Anything, "7").Return("c0ffee", nil).Once()
		f.client.On("InstantiateContract", mock.Anything, mock.MatchedBy(func(req usecase.InstantiateRequest) bool {
			return req.CodeID == "7" &&
				req.CodeHash == "c0ffee" &&
				req.GasLimit == config.DefaultInstantiateGas &&
				string(req.InitMsg) == config.DefaultInitMsg &&
				strings.HasPrefix(req.Label, config.DefaultLabel+" ")
		})).Return(txWithLog("0xinit", messageLog("contract_address", testRecord.ContractAddress)), nil).Once()
		f.store.On("Save", mock.Anything, testRecord).Return(nil).Once()

		result, err := f.uc.Run(ctx, usecase.DeployParams{Wasm: testWasm, Signer: f.signer})
		require.NoError(t, err)

		assert.Equal(t, testRecord, result.Record)
		assert.Equal(t, "0xupload", result.UploadTx.TxHash)
		assert.Equal(t, "0xinit", result.InstantiateTx.TxHash)
		assert.False(t, result.Resumed)
		assert.Equal(t, []string{"uploading", "resolving", "instantiating", "saving", "complete"}, f.progress.stages())

		require.Len(t, f.history.deployments, 1)
		entry := f.history.deployments[0]
		assert.Equal(t, *testRecord, entry.Record)
		assert.Equal(t, "simulated", entry.Network)
		assert.Equal(t, "0xdeployer", entry.Deployer)
		assert.Equal(t, result.Label, entry.Label)

		require.Len(t, f.history.transactions, 2)
		assert.Equal(t, "store_code", f.history.transactions[0].Kind)
		assert.Equal(t, "instantiate", f.history.transactions[1].Kind)
		assert.Equal(t, models.TransactionStatusSucceeded, f.history.transactions[1].Status)

		f.client.AssertExpectations(t)
		f.store.AssertExpectations(t)
	})

	t.Run("missing code_id stops before instantiate", func(t *testing.T) {
		f := newDeployFixture()
		f.client.On("StoreCode", mock.Anything, testWasm, config.DefaultUploadGas).
			Return(txWithLog("0xupload", models.LogEntry{Type: "message", Key: "action", Value: "store-code"}), nil).Once()

		_, err := f.uc.Run(ctx, usecase.DeployParams{Wasm: testWasm, Signer: f.signer})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrMissingLogEntry)

		var derr *domain.DeploymentError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.StepUpload, derr.Step)
		assert.Empty(t, derr.CodeID)
		assert.False(t, derr.Resumable())

		f.client.AssertNotCalled(t, "CodeHashByCodeID", mock.Anything, mock.Anything)
		f.client.AssertNotCalled(t, "InstantiateContract", mock.Anything, mock.Anything)
		f.store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.NotEmpty(t, f.progress.errors)
	})

	t.Run("ambiguous code_id entries are rejected", func(t *testing.T) {
		f := newDeployFixture()
		f.client.On("StoreCode", mock.Anything, testWasm, config.DefaultUploadGas).
			Return(txWithLog("0xupload", messageLog("code_id", "1"), messageLog("code_id", "2")), nil).Once()

		_, err := f.uc.Run(ctx, usecase.DeployParams{Wasm: testWasm, Signer: f.signer})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrMissingLogEntry)
		assert.Contains(t, err.Error(), "found 2")
	})

	t.Run("rejected upload carries the raw log", func(t *testing.T) {
		f := newDeployFixture()
		f.client.On("StoreCode", mock.Anything, testWasm, config.DefaultUploadGas).
			Return(&models.TxResult{TxHash: "0xupload", Code: 11, RawLog: "out of gas"}, nil).Once()

		_, err := f.uc.Run(ctx, usecase.DeployParams{Wasm: testWasm, Signer: f.signer})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrChainRejected)
		assert.Contains(t, err.Error(), "out of gas")

		require.Len(t, f.history.transactions, 1)
		assert.Equal(t, models.TransactionStatusFailed, f.history.transactions[0].Status)
	})

	t.Run("broadcast errors are chain rejections", func(t *testing.T) {
		cause := errors.New("mempool is full")

		f := newDeployFixture()
		f.client.On("StoreCode", mock.Anything, testWasm, config.DefaultUploadGas).Return(nil, cause).Once()
		_, err := f.uc.Run(ctx, usecase.DeployParams{Wasm: testWasm, Signer: f.signer})
		assert.ErrorIs(t, err, domain.ErrChainRejected)
		assert.ErrorIs(t, err, cause)
		f.client.AssertNotCalled(t, "CodeHashByCodeID", mock.Anything, mock.Anything)

		f = newDeployFixture()
		f.client.On("CodeHashByCodeID", mock.Anything, "7").Return("c0ffee", nil).Once()
		f.client.On("InstantiateContract", mock.Anything, mock.Anything).Return(nil, cause).Once()
		_, err = f.uc.Run(ctx, usecase.DeployParams{CodeID: "7", Signer: f.signer})
		assert.ErrorIs(t, err, domain.ErrChainRejected)
		assert.ErrorIs(t, err, cause)

		var derr *domain.DeploymentError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.StepInstantiate, derr.Step)
	})

	t.Run("unknown code id is resumable", func(t *testing.T) {
		f := newDeployFixture()
		f.expectUpload("9")
		f.client.On("CodeHashByCodeID", mock.Anything, "9").Return("", nil).Once()

		_, err := f.uc.Run(ctx, usecase.DeployParams{Wasm: testWasm, Signer: f.signer})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnknownCodeID)

		var derr *domain.DeploymentError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.StepResolveHash, derr.Step)
		assert.Equal(t, "9", derr.CodeID)
		assert.True(t, derr.Resumable())
		f.client.AssertNotCalled(t, "InstantiateContract", mock.Anything, mock.Anything)
	})

	t.Run("transport error resolving hash maps to unknown code id", func(t *testing.T) {
		f := newDeployFixture()
		f.expectUpload("9")
		f.client.On("CodeHashByCodeID", mock.Anything, "9").Return("", errors.New("connection refused")).Once()

		_, err := f.uc.Run(ctx, usecase.DeployParams{Wasm: testWasm, Signer: f.signer})
		assert.ErrorIs(t, err, domain.ErrUnknownCodeID)
	})

	t.Run("failed instantiate reports completed steps", func(t *testing.T) {
		f := newDeployFixture()
		f.expectUpload("7")
		f.client.On("CodeHashByCodeID", mock.Anything, "7").Return("c0ffee", nil).Once()
		f.client.On("InstantiateContract", mock.Anything, mock.Anything).
			Return(&models.TxResult{TxHash: "0xinit", Code: 2, RawLog: "label already taken"}, nil).Once()

		_, err := f.uc.Run(ctx, usecase.DeployParams{Wasm: testWasm, Signer: f.signer})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrChainRejected)

		var derr *domain.DeploymentError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.StepInstantiate, derr.Step)
		assert.Equal(t, "7", derr.CodeID)
		assert.Equal(t, "c0ffee", derr.CodeHash)
		assert.Contains(t, err.Error(), "codeId=7")
		f.store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("save failure keeps the contract address", func(t *testing.T) {
		f := newDeployFixture()
		f.expectUpload("7")
		f.client.On("CodeHashByCodeID", mock.Anything, "7").Return("c0ffee", nil).Once()
		f.expectInstantiate("7", "c0ffee", testRecord.ContractAddress)
		f.store.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

		_, err := f.uc.Run(ctx, usecase.DeployParams{Wasm: testWasm, Signer: f.signer})
		var derr *domain.DeploymentError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.StepPersist, derr.Step)
		assert.Equal(t, testRecord.ContractAddress, derr.ContractAddress)
		assert.Empty(t, f.history.deployments)
	})

	t.Run("missing signer fails before any chain call", func(t *testing.T) {
		f := newDeployFixture()

		_, err := f.uc.Run(ctx, usecase.DeployParams{Wasm: testWasm})
		assert.ErrorIs(t, err, domain.ErrConfiguration)
		f.client.AssertNotCalled(t, "StoreCode", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty wasm is a configuration error", func(t *testing.T) {
		f := newDeployFixture()

		_, err := f.uc.Run(ctx, usecase.DeployParams{Signer: f.signer})
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("invalid init message is a configuration error", func(t *testing.T) {
		f := newDeployFixture()

		_, err := f.uc.Run(ctx, usecase.DeployParams{Wasm: testWasm, Signer: f.signer, InitMsg: json.RawMessage(`{count:`)})
		assert.ErrorIs(t, err, domain.ErrConfiguration)
		f.client.AssertNotCalled(t, "StoreCode", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("code id resumes without uploading", func(t *testing.T) {
		f := newDeployFixture()
		f.client.On("CodeHashByCodeID", mock.Anything, "7").Return("c0ffee", nil).Once()
		f.expectInstantiate("7", "c0ffee", testRecord.ContractAddress)
		f.store.On("Save", mock.Anything, testRecord).Return(nil).Once()

		result, err := f.uc.Run(ctx, usecase.DeployParams{CodeID: "7", Signer: f.signer})
		require.NoError(t, err)
		assert.True(t, result.Resumed)
		assert.Nil(t, result.UploadTx)
		assert.True(t, f.history.deployments[0].Resumed)
		f.client.AssertNotCalled(t, "StoreCode", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("every run uses a fresh label", func(t *testing.T) {
		f := newDeployFixture()
		var labels []string
		f.client.On("StoreCode", mock.Anything, testWasm, config.DefaultUploadGas).
			Return(txWithLog("0xupload", messageLog("code_id", "7")), nil)
		f.client.On("CodeHashByCodeID", mock.Anything, "7").Return("c0ffee", nil)
		f.client.On("InstantiateContract", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				labels = append(labels, args.Get(1).(usecase.InstantiateRequest).Label)
			}).
			Return(txWithLog("0xinit", messageLog("contract_address", testRecord.ContractAddress)), nil)
		f.store.On("Save", mock.Anything, mock.Anything).Return(nil)

		for i := 0; i < 2; i++ {
			_, err := f.uc.Run(ctx, usecase.DeployParams{Wasm: testWasm, Signer: f.signer, LabelPrefix: "weekly"})
			require.NoError(t, err)
		}

		require.Len(t, labels, 2)
		assert.NotEqual(t, labels[0], labels[1])
		assert.True(t, strings.HasPrefix(labels[0], "weekly "))
	})

	t.Run("previous record is reported", func(t *testing.T) {
		f := newDeployFixture()
		f.store.ExpectedCalls = nil
		previous := &models.DeploymentRecord{CodeID: "1", ContractCodeHash: "aa", ContractAddress: "0xold"}
		f.store.On("Exists").Return(true)
		f.store.On("Load", mock.Anything).Return(previous, nil)
		f.store.On("GetPath").Return("/tmp/latest-deployment.json")
		f.expectUpload("7")
		f.client.On("CodeHashByCodeID", mock.Anything, "7").Return("c0ffee", nil).Once()
		f.expectInstantiate("7", "c0ffee", testRecord.ContractAddress)
		f.store.On("Save", mock.Anything, testRecord).Return(nil).Once()

		result, err := f.uc.Run(ctx, usecase.DeployParams{Wasm: testWasm, Signer: f.signer})
		require.NoError(t, err)
		assert.Equal(t, previous, result.Previous)
		assert.Equal(t, previous, f.uc.Current(ctx))
	})
}
