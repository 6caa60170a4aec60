package usecase

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/trebuchet-org/raffle-cli/internal/domain"
	"github.com/trebuchet-org/raffle-cli/internal/domain/models"
)

const (
	logTypeMessage     = "message"
	logKeyCodeID       = "code_id"
	logKeyContractAddr = "contract_address"
)

// findLogValue returns the value of the single log entry matching type and key
func findLogValue(result *models.TxResult, logType, key string) (string, error) {
	matches := lo.Filter(result.ArrayLog, func(entry models.LogEntry, _ int) bool {
		return entry.Type == logType && entry.Key == key
	})

	if len(matches) != 1 || matches[0].Value == "" {
		return "", &domain.MissingLogEntryError{Type: logType, Key: key, Matches: len(matches)}
	}

	return matches[0].Value, nil
}

// checkTx turns a failed transaction result into a ChainRejectedError
func checkTx(result *models.TxResult) error {
	if result == nil {
		return &domain.ChainRejectedError{RawLog: "empty transaction response"}
	}
	if result.Failed() {
		return &domain.ChainRejectedError{
			TxHash: result.TxHash,
			Code:   result.Code,
			RawLog: result.RawLog,
		}
	}
	return nil
}

// broadcastFailed files an error returned while submitting a transaction
// under ErrChainRejected, keeping the cause reachable with errors.Is.
func broadcastFailed(what string, err error) error {
	if errors.Is(err, domain.ErrChainRejected) {
		return fmt.Errorf("failed to %s: %w", what, err)
	}
	return fmt.Errorf("failed to %s: %w: %w", what, domain.ErrChainRejected, err)
}
