package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/raffle-cli/internal/domain"
	"github.com/trebuchet-org/raffle-cli/internal/domain/config"
	"github.com/trebuchet-org/raffle-cli/internal/domain/models"
)

// ExecuteOptions controls ExecuteWith
type ExecuteOptions struct {
	// WithQuery refreshes the state the action changed after it succeeds
	WithQuery bool
}

// ExecuteOutcome is the result of ExecuteWith. QueryErr reports a failed
// refresh; the execute itself still succeeded in that case.
type ExecuteOutcome struct {
	Tx          *models.TxResult
	Skipped     bool
	QueryResult json.RawMessage
	QueryErr    error
}

// ContractSession executes and queries one deployed contract on behalf of a signer.
// A session without a signer turns every call into a no-op.
type ContractSession struct {
	signer  *SignerIdentity
	record  models.DeploymentRecord
	gas     config.GasSchedule
	journal TransactionJournal
	guard   *OperationGuard
	state   *SessionState
	log     *slog.Logger
}

// NewContractSession binds a signer to a deployment record. signer may be nil.
func NewContractSession(
	signer *SignerIdentity,
	record *models.DeploymentRecord,
	gas config.GasSchedule,
	journal TransactionJournal,
	log *slog.Logger,
) (*ContractSession, error) {
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("invalid deployment record: %w", err)
	}

	return &ContractSession{
		signer:  signer,
		record:  *record,
		gas:     gas,
		journal: journal,
		guard:   NewOperationGuard(),
		state:   newSessionState(),
		log:     log,
	}, nil
}

// Connected reports whether the session has a signer
func (s *ContractSession) Connected() bool {
	return s.signer != nil && s.signer.Client != nil
}

// Record returns the deployment the session is bound to
func (s *ContractSession) Record() models.DeploymentRecord {
	return s.record
}

// Guard returns the guard wrapping ExecuteWith
func (s *ContractSession) Guard() *OperationGuard {
	return s.guard
}

// State returns the session's query results
func (s *ContractSession) State() *SessionState {
	return s.state
}

// Execute sends an execute transaction for action. Without a signer it
// returns (nil, nil) and never touches the chain.
func (s *ContractSession) Execute(ctx context.Context, action domain.Action) (*models.TxResult, error) {
	if !s.Connected() {
		s.log.Debug("skipping execute, no signer connected", "action", action.Kind())
		return nil, nil
	}

	msg, err := domain.EncodeAction(action)
	if err != nil {
		return nil, err
	}

	gasLimit := s.gas.ForAction(action.Kind())
	s.log.Debug("executing contract", "action", action.Kind(), "contract", s.record.ContractAddress, "gasLimit", gasLimit)

	tx, err := s.signer.Client.ExecuteContract(ctx, ExecuteRequest{
		ContractAddress: s.record.ContractAddress,
		CodeHash:        s.record.ContractCodeHash,
		Msg:             msg,
		GasLimit:        gasLimit,
	})
	recordTransaction(ctx, s.journal, s.log, string(action.Kind()), s.record.ContractAddress, s.signer.Address, gasLimit, tx, err)
	if err != nil {
		return nil, broadcastFailed("execute "+string(action.Kind()), err)
	}
	if err := checkTx(tx); err != nil {
		return tx, fmt.Errorf("failed to execute %s: %w", action.Kind(), err)
	}

	return tx, nil
}

// Query runs a read-only query and stores its result in the session state.
// Without a signer it returns (nil, nil).
func (s *ContractSession) Query(ctx context.Context, query domain.Query) (json.RawMessage, error) {
	if !s.Connected() {
		s.log.Debug("skipping query, no signer connected", "query", query.Kind())
		return nil, nil
	}

	msg, err := domain.EncodeQuery(query)
	if err != nil {
		return nil, err
	}

	raw, err := s.signer.Client.QueryContract(ctx, s.record.ContractAddress, s.record.ContractCodeHash, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", query.Kind(), err)
	}

	s.state.set(query.Kind(), raw)
	return raw, nil
}

// ExecuteWith runs action under the session guard, optionally followed by
// one refresh query. The refresh only runs after a successful execute.
func (s *ContractSession) ExecuteWith(ctx context.Context, action domain.Action, opts ExecuteOptions) (*ExecuteOutcome, error) {
	if !s.Connected() {
		s.log.Debug("skipping execute, no signer connected", "action", action.Kind())
		return &ExecuteOutcome{Skipped: true}, nil
	}

	return Guard(ctx, s.guard, func(ctx context.Context) (*ExecuteOutcome, error) {
		tx, err := s.Execute(ctx, action)
		outcome := &ExecuteOutcome{Tx: tx}
		if err != nil || !opts.WithQuery {
			return outcome, err
		}

		outcome.QueryResult, outcome.QueryErr = s.Query(ctx, domain.RefreshQuery(action.Kind()))
		if outcome.QueryErr != nil {
			s.log.Warn("refresh query failed", "action", action.Kind(), "error", outcome.QueryErr)
		}
		return outcome, nil
	})
}

// QueryCount returns the counter, or nil without a signer
func (s *ContractSession) QueryCount(ctx context.Context) (*domain.CountResponse, error) {
	return queryAs[domain.CountResponse](ctx, s, domain.GetCount{})
}

// QueryMaps returns all generated maps, or nil without a signer
func (s *ContractSession) QueryMaps(ctx context.Context) (*domain.MapsResponse, error) {
	return queryAs[domain.MapsResponse](ctx, s, domain.GetMaps{})
}

// QueryMap returns the map at index, or nil without a signer
func (s *ContractSession) QueryMap(ctx context.Context, index uint64) (*domain.MapResponse, error) {
	return queryAs[domain.MapResponse](ctx, s, domain.GetMap{Index: index})
}

// QueryMapCount returns the number of maps, or nil without a signer
func (s *ContractSession) QueryMapCount(ctx context.Context) (*domain.MapCountResponse, error) {
	return queryAs[domain.MapCountResponse](ctx, s, domain.GetMapCount{})
}

func queryAs[T any](ctx context.Context, s *ContractSession, query domain.Query) (*T, error) {
	raw, err := s.Query(ctx, query)
	if err != nil || raw == nil {
		return nil, err
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", query.Kind(), err)
	}
	return &out, nil
}
