package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/trebuchet-org/raffle-cli/internal/domain"
	"github.com/trebuchet-org/raffle-cli/internal/usecase"
)

func TestSessionStatus(t *testing.T) {
	ctx := context.Background()

	newStatus := func(store *MockDeploymentStore, checker *MockChainChecker, autoConnect bool) *usecase.SessionStatus {
		cfg := testRuntimeConfig()
		prefs := new(MockPreferenceStore)
		prefs.On("AutoConnect", mock.Anything).Return(autoConnect, nil)
		resolver := usecase.NewSignerResolver(nil, new(MockChainClientFactory), cfg)
		lifecycle := usecase.NewSessionLifecycle(resolver, prefs, testLogger())
		return usecase.NewSessionStatus(cfg, lifecycle, prefs, store, checker)
	}

	t.Run("reports a disconnected session without a deployment", func(t *testing.T) {
		store := new(MockDeploymentStore)
		store.On("Load", mock.Anything).Return(nil, domain.ErrNotFound)

		result, err := newStatus(store, new(MockChainChecker), false).Run(ctx, usecase.SessionStatusParams{})
		require.NoError(t, err)
		assert.Equal(t, domain.Disconnected, result.State)
		assert.Empty(t, result.Address)
		assert.False(t, result.AutoConnect)
		assert.Nil(t, result.Record)
		assert.False(t, result.Checked)
	})

	t.Run("unreadable record is an error", func(t *testing.T) {
		store := new(MockDeploymentStore)
		store.On("Load", mock.Anything).Return(nil, errors.New("invalid deployment file"))

		_, err := newStatus(store, new(MockChainChecker), true).Run(ctx, usecase.SessionStatusParams{})
		assert.Error(t, err)
	})

	t.Run("checks the chain and the contract", func(t *testing.T) {
		store := new(MockDeploymentStore)
		store.On("Load", mock.Anything).Return(testRecord, nil)
		checker := new(MockChainChecker)
		checker.On("Connect", mock.Anything, mock.Anything).Return(nil).Once()
		checker.On("CheckDeploymentExists", mock.Anything, testRecord).Return(true, "", nil).Once()
		checker.On("Close").Once()

		result, err := newStatus(store, checker, true).Run(ctx, usecase.SessionStatusParams{CheckChain: true})
		require.NoError(t, err)
		assert.True(t, result.AutoConnect)
		assert.Equal(t, testRecord, result.Record)
		assert.True(t, result.Checked)
		assert.True(t, result.ChainReachable)
		assert.True(t, result.ContractFound)
		checker.AssertExpectations(t)
	})

	t.Run("unreachable chain is reported, not returned", func(t *testing.T) {
		store := new(MockDeploymentStore)
		store.On("Load", mock.Anything).Return(testRecord, nil)
		checker := new(MockChainChecker)
		checker.On("Connect", mock.Anything, mock.Anything).Return(errors.New("connection refused")).Once()

		result, err := newStatus(store, checker, false).Run(ctx, usecase.SessionStatusParams{CheckChain: true})
		require.NoError(t, err)
		assert.True(t, result.Checked)
		assert.False(t, result.ChainReachable)
		assert.Contains(t, result.ChainError, "connection refused")
		checker.AssertNotCalled(t, "CheckDeploymentExists", mock.Anything, mock.Anything)
	})
}
