package usecase

import (
	"context"
	"errors"

	"github.com/trebuchet-org/raffle-cli/internal/domain"
	"github.com/trebuchet-org/raffle-cli/internal/domain/config"
	"github.com/trebuchet-org/raffle-cli/internal/domain/models"
)

// SessionStatusParams contains parameters for SessionStatus
type SessionStatusParams struct {
	// CheckChain probes the network and the recorded contract
	CheckChain bool
}

// SessionStatusResult describes the connection and the deployment
type SessionStatusResult struct {
	Network     *config.Network
	State       domain.ConnectionState
	Address     string
	AutoConnect bool
	Record      *models.DeploymentRecord

	Checked        bool
	ChainReachable bool
	ChainError     string
	ContractFound  bool
	ContractReason string
}

// SessionStatus reports the signer connection and deployment state
type SessionStatus struct {
	cfg       *config.RuntimeConfig
	lifecycle *SessionLifecycle
	prefs     PreferenceStore
	store     DeploymentStore
	checker   ChainChecker
}

// NewSessionStatus creates a new SessionStatus use case
func NewSessionStatus(
	cfg *config.RuntimeConfig,
	lifecycle *SessionLifecycle,
	prefs PreferenceStore,
	store DeploymentStore,
	checker ChainChecker,
) *SessionStatus {
	return &SessionStatus{
		cfg:       cfg,
		lifecycle: lifecycle,
		prefs:     prefs,
		store:     store,
		checker:   checker,
	}
}

// Run collects the status
func (uc *SessionStatus) Run(ctx context.Context, params SessionStatusParams) (*SessionStatusResult, error) {
	result := &SessionStatusResult{
		Network: uc.cfg.Network,
		State:   uc.lifecycle.State(),
	}
	if signer := uc.lifecycle.Signer(); signer != nil {
		result.Address = signer.Address
	}

	autoConnect, err := uc.prefs.AutoConnect(ctx)
	if err != nil {
		return nil, err
	}
	result.AutoConnect = autoConnect

	record, err := uc.store.Load(ctx)
	switch {
	case err == nil:
		result.Record = record
	case errors.Is(err, domain.ErrNotFound):
	default:
		return nil, err
	}

	if !params.CheckChain || uc.cfg.Network == nil {
		return result, nil
	}

	result.Checked = true
	if err := uc.checker.Connect(ctx, uc.cfg.Network); err != nil {
		result.ChainError = err.Error()
		return result, nil
	}
	defer uc.checker.Close()
	result.ChainReachable = true

	if result.Record != nil {
		found, reason, err := uc.checker.CheckDeploymentExists(ctx, result.Record)
		if err != nil {
			return nil, err
		}
		result.ContractFound = found
		result.ContractReason = reason
	}

	return result, nil
}
