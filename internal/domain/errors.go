package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrConfiguration is returned when required configuration (such as the
	// deployer secret or the wasm artifact) is missing or invalid
	ErrConfiguration = errors.New("configuration error")

	// ErrChainRejected is returned when a transaction failed on-chain
	ErrChainRejected = errors.New("transaction rejected by chain")

	// ErrMissingLogEntry is returned when an expected identifier is absent from
	// a transaction's response log
	ErrMissingLogEntry = errors.New("missing log entry")

	// ErrUnknownCodeID is returned when the chain reports no code hash for a code id
	ErrUnknownCodeID = errors.New("unknown code id")

	// ErrNoSigner is returned when an operation needs a connected signer and none is available
	ErrNoSigner = errors.New("no signer connected")

	// ErrExtensionMissing is returned when no signer provider is installed or configured
	ErrExtensionMissing = errors.New("signer provider not installed")

	// ErrUserRejected is returned when the user declines a signer request
	ErrUserRejected = errors.New("request rejected by user")

	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")
)

// DeploymentStep names a stage of the deployment pipeline
type DeploymentStep string

const (
	StepUpload      DeploymentStep = "upload"
	StepResolveHash DeploymentStep = "resolve-hash"
	StepInstantiate DeploymentStep = "instantiate"
	StepPersist     DeploymentStep = "persist"
)

// DeploymentError reports a pipeline failure together with the state reached
// before the failing step. CodeID and CodeHash are set once their step has
// succeeded, so an operator can resume with `raffle deploy --code-id`.
type DeploymentError struct {
	Step            DeploymentStep
	CodeID          string
	CodeHash        string
	ContractAddress string
	Err             error
}

func (e *DeploymentError) Error() string {
	var partial []string
	if e.CodeID != "" {
		partial = append(partial, "codeId="+e.CodeID)
	}
	if e.CodeHash != "" {
		partial = append(partial, "contractCodeHash="+e.CodeHash)
	}
	if e.ContractAddress != "" {
		partial = append(partial, "contractAddress="+e.ContractAddress)
	}

	msg := fmt.Sprintf("deployment failed at %s: %v", e.Step, e.Err)
	if len(partial) > 0 {
		msg += fmt.Sprintf(" (completed: %s)", strings.Join(partial, ", "))
	}
	return msg
}

func (e *DeploymentError) Unwrap() error {
	return e.Err
}

// Resumable reports whether instantiation can be retried from the recorded code id
func (e *DeploymentError) Resumable() bool {
	return e.CodeID != "" && (e.Step == StepResolveHash || e.Step == StepInstantiate)
}

// ChainRejectedError carries the chain's failure details for a transaction
type ChainRejectedError struct {
	TxHash string
	Code   uint32
	RawLog string
}

func (e *ChainRejectedError) Error() string {
	if e.TxHash != "" {
		return fmt.Sprintf("transaction %s failed with code %d: %s", e.TxHash, e.Code, e.RawLog)
	}
	return fmt.Sprintf("transaction failed with code %d: %s", e.Code, e.RawLog)
}

func (e *ChainRejectedError) Is(target error) bool {
	return target == ErrChainRejected
}

// MissingLogEntryError names the log entry that could not be matched
type MissingLogEntryError struct {
	Type    string
	Key     string
	Matches int
}

func (e *MissingLogEntryError) Error() string {
	if e.Matches > 1 {
		return fmt.Sprintf("expected one %s/%s log entry, found %d", e.Type, e.Key, e.Matches)
	}
	return fmt.Sprintf("no %s/%s entry in transaction log", e.Type, e.Key)
}

func (e *MissingLogEntryError) Is(target error) bool {
	return target == ErrMissingLogEntry
}

// AlertError is a user-facing failure that must be shown prominently
// (the terminal equivalent of a blocking alert dialog)
type AlertError struct {
	Message string
	Err     error
}

func (e *AlertError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AlertError) Unwrap() error {
	return e.Err
}

// NewAlert wraps err in an AlertError with a user-facing message
func NewAlert(message string, err error) *AlertError {
	return &AlertError{Message: message, Err: err}
}
