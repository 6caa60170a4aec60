package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rs/xid"
	"github.com/trebuchet-org/raffle-cli/internal/domain"
	"github.com/trebuchet-org/raffle-cli/internal/domain/config"
	"github.com/trebuchet-org/raffle-cli/internal/domain/models"
)

// Deployment stages reported to the progress sink
const (
	StageUploading     = "uploading"
	StageResolving     = "resolving"
	StageInstantiating = "instantiating"
	StageSaving        = "saving"
	StageComplete      = "complete"
)

// DeployParams contains parameters for a deployment
type DeployParams struct {
	Wasm   []byte
	Signer *SignerIdentity

	// CodeID skips the upload and instantiates already stored code
	CodeID string

	// Optional overrides of the project configuration
	InitMsg     json.RawMessage
	LabelPrefix string
}

// DeployResult contains the outcome of a deployment
type DeployResult struct {
	Record        *models.DeploymentRecord
	Previous      *models.DeploymentRecord
	Label         string
	UploadTx      *models.TxResult
	InstantiateTx *models.TxResult
	Resumed       bool
	RecordPath    string
}

// DeployContract uploads, instantiates and records a contract
type DeployContract struct {
	cfg      *config.RuntimeConfig
	store    DeploymentStore
	history  DeploymentHistory
	journal  TransactionJournal
	progress ProgressSink
	log      *slog.Logger
}

// NewDeployContract creates a new deploy use case
func NewDeployContract(
	cfg *config.RuntimeConfig,
	store DeploymentStore,
	history DeploymentHistory,
	journal TransactionJournal,
	progress ProgressSink,
	log *slog.Logger,
) *DeployContract {
	return &DeployContract{
		cfg:      cfg,
		store:    store,
		history:  history,
		journal:  journal,
		progress: progress,
		log:      log,
	}
}

// Run executes the pipeline. Every step is an irreversible chain transaction,
// so failures return a *domain.DeploymentError describing what already exists.
func (uc *DeployContract) Run(ctx context.Context, params DeployParams) (*DeployResult, error) {
	if params.Signer == nil || params.Signer.Client == nil {
		return nil, fmt.Errorf("%w: no deployer signer available, set the signer secret in raffle.toml or .env", domain.ErrConfiguration)
	}
	if params.CodeID == "" && len(params.Wasm) == 0 {
		return nil, fmt.Errorf("%w: contract wasm is empty", domain.ErrConfiguration)
	}

	initMsg, err := uc.initMsg(params.InitMsg)
	if err != nil {
		return nil, err
	}

	client := params.Signer.Client
	gas := uc.cfg.Gas
	result := &DeployResult{Resumed: params.CodeID != ""}

	if uc.store.Exists() {
		if previous, err := uc.store.Load(ctx); err == nil {
			result.Previous = previous
		}
	}

	codeID := params.CodeID
	if codeID == "" {
		uc.report(ctx, StageUploading, fmt.Sprintf("Uploading contract code (%d bytes)", len(params.Wasm)))

		tx, err := client.StoreCode(ctx, params.Wasm, gas.Upload)
		uc.recordTx(ctx, "store_code", "", params.Signer.Address, gas.Upload, tx, err)
		if err != nil {
			return nil, uc.fail(domain.StepUpload, "", "", broadcastFailed("upload code", err))
		}
		if err := checkTx(tx); err != nil {
			return nil, uc.fail(domain.StepUpload, "", "", err)
		}
		result.UploadTx = tx

		codeID, err = findLogValue(tx, logTypeMessage, logKeyCodeID)
		if err != nil {
			return nil, uc.fail(domain.StepUpload, "", "", err)
		}
		uc.log.Debug("code uploaded", "codeId", codeID, "txHash", tx.TxHash, "gasUsed", tx.GasUsed)
	}

	uc.report(ctx, StageResolving, fmt.Sprintf("Resolving code hash for code id %s", codeID))
	codeHash, err := client.CodeHashByCodeID(ctx, codeID)
	if err != nil {
		if !errors.Is(err, domain.ErrUnknownCodeID) {
			err = fmt.Errorf("%w: %v", domain.ErrUnknownCodeID, err)
		}
		return nil, uc.fail(domain.StepResolveHash, codeID, "", err)
	}
	if codeHash == "" {
		return nil, uc.fail(domain.StepResolveHash, codeID, "", fmt.Errorf("%w: chain returned no hash for code id %s", domain.ErrUnknownCodeID, codeID))
	}

	label := uc.label(params.LabelPrefix)
	uc.report(ctx, StageInstantiating, fmt.Sprintf("Instantiating %q", label))

	tx, err := client.InstantiateContract(ctx, InstantiateRequest{
		CodeID:   codeID,
		CodeHash: codeHash,
		InitMsg:  initMsg,
		Label:    label,
		GasLimit: gas.Instantiate,
	})
	uc.recordTx(ctx, "instantiate", "", params.Signer.Address, gas.Instantiate, tx, err)
	if err != nil {
		return nil, uc.fail(domain.StepInstantiate, codeID, codeHash, broadcastFailed("instantiate", err))
	}
	if err := checkTx(tx); err != nil {
		return nil, uc.fail(domain.StepInstantiate, codeID, codeHash, err)
	}
	result.InstantiateTx = tx

	address, err := findLogValue(tx, logTypeMessage, logKeyContractAddr)
	if err != nil {
		return nil, uc.fail(domain.StepInstantiate, codeID, codeHash, err)
	}

	record := &models.DeploymentRecord{
		CodeID:           codeID,
		ContractCodeHash: codeHash,
		ContractAddress:  address,
	}

	uc.report(ctx, StageSaving, "Saving deployment record")
	if err := uc.store.Save(ctx, record); err != nil {
		derr := uc.fail(domain.StepPersist, codeID, codeHash, fmt.Errorf("failed to save deployment: %w", err))
		derr.ContractAddress = address
		return nil, derr
	}

	uc.appendHistory(ctx, record, label, params)

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageComplete, Message: "Deployment complete"})

	result.Record = record
	result.Label = label
	result.RecordPath = uc.store.GetPath()
	return result, nil
}

func (uc *DeployContract) initMsg(override json.RawMessage) (json.RawMessage, error) {
	msg := override
	if len(msg) == 0 && uc.cfg.Project != nil {
		msg = json.RawMessage(uc.cfg.Project.Contract.InitMsg)
	}
	if len(msg) == 0 {
		msg = json.RawMessage(config.DefaultInitMsg)
	}
	if !json.Valid(msg) {
		return nil, fmt.Errorf("%w: init message is not valid JSON: %s", domain.ErrConfiguration, msg)
	}
	return msg, nil
}

// label appends a globally unique suffix; the chain rejects duplicate labels
func (uc *DeployContract) label(prefix string) string {
	if prefix == "" && uc.cfg.Project != nil {
		prefix = uc.cfg.Project.Contract.Label
	}
	if prefix == "" {
		prefix = config.DefaultLabel
	}
	return fmt.Sprintf("%s %s", prefix, xid.New().String())
}

func (uc *DeployContract) fail(step domain.DeploymentStep, codeID, codeHash string, err error) *domain.DeploymentError {
	uc.progress.Error(fmt.Sprintf("Deployment failed during %s", step))
	uc.log.Error("deployment failed", "step", step, "codeId", codeID, "codeHash", codeHash, "error", err)
	return &domain.DeploymentError{
		Step:     step,
		CodeID:   codeID,
		CodeHash: codeHash,
		Err:      err,
	}
}

func (uc *DeployContract) report(ctx context.Context, stage, message string) {
	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   stage,
		Message: message,
		Spinner: true,
	})
}

func (uc *DeployContract) appendHistory(ctx context.Context, record *models.DeploymentRecord, label string, params DeployParams) {
	if uc.history == nil {
		return
	}

	entry := &models.HistoryEntry{
		ID:        xid.New().String(),
		Record:    *record,
		Label:     label,
		Deployer:  params.Signer.Address,
		ChainID:   params.Signer.ChainID,
		Resumed:   params.CodeID != "",
		CreatedAt: time.Now().UTC(),
	}
	if uc.cfg.Network != nil {
		entry.Network = uc.cfg.Network.Name
	}

	if err := uc.history.AppendDeployment(ctx, entry); err != nil {
		uc.log.Warn("failed to append deployment history", "error", err)
	}
}

func (uc *DeployContract) recordTx(ctx context.Context, kind, contract, sender string, gasLimit uint64, tx *models.TxResult, err error) {
	recordTransaction(ctx, uc.journal, uc.log, kind, contract, sender, gasLimit, tx, err)
}

// recordTransaction writes a journal entry; journal failures never fail the operation
func recordTransaction(ctx context.Context, journal TransactionJournal, log *slog.Logger, kind, contract, sender string, gasLimit uint64, tx *models.TxResult, txErr error) {
	if journal == nil {
		return
	}

	entry := &models.Transaction{
		ID:              xid.New().String(),
		Kind:            kind,
		ContractAddress: contract,
		Sender:          sender,
		GasLimit:        gasLimit,
		Status:          models.TransactionStatusSucceeded,
		CreatedAt:       time.Now().UTC(),
	}
	if tx != nil {
		entry.TxHash = tx.TxHash
		entry.GasUsed = tx.GasUsed
		if tx.Failed() {
			entry.Status = models.TransactionStatusFailed
			entry.Error = tx.RawLog
		}
	}
	if txErr != nil {
		entry.Status = models.TransactionStatusFailed
		entry.Error = txErr.Error()
	}

	if err := journal.RecordTransaction(ctx, entry); err != nil {
		log.Warn("failed to record transaction", "kind", kind, "error", err)
	}
}

// Current returns the recorded deployment, or nil when there is none
func (uc *DeployContract) Current(ctx context.Context) *models.DeploymentRecord {
	if !uc.store.Exists() {
		return nil
	}
	record, err := uc.store.Load(ctx)
	if err != nil {
		uc.log.Debug("ignoring unreadable deployment record", "error", err)
		return nil
	}
	return record
}
