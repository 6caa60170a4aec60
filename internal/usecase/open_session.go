package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/raffle-cli/internal/domain"
	"github.com/trebuchet-org/raffle-cli/internal/domain/config"
)

// OpenSession binds the current signer (if any) to the latest deployment
type OpenSession struct {
	cfg       *config.RuntimeConfig
	store     DeploymentStore
	lifecycle *SessionLifecycle
	journal   TransactionJournal
	log       *slog.Logger
}

// NewOpenSession creates a new OpenSession use case
func NewOpenSession(
	cfg *config.RuntimeConfig,
	store DeploymentStore,
	lifecycle *SessionLifecycle,
	journal TransactionJournal,
	log *slog.Logger,
) *OpenSession {
	return &OpenSession{
		cfg:       cfg,
		store:     store,
		lifecycle: lifecycle,
		journal:   journal,
		log:       log,
	}
}

// Run loads the deployment record and returns a session for it
func (uc *OpenSession) Run(ctx context.Context) (*ContractSession, error) {
	record, err := uc.store.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("no deployment found at %s, run `raffle deploy` first", uc.store.GetPath())
		}
		return nil, err
	}

	return NewContractSession(uc.lifecycle.Signer(), record, uc.cfg.Gas, uc.journal, uc.log)
}
