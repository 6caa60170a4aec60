package models

import (
	"encoding/json"
	"time"
)

// LogEntry is a single attribute emitted in a transaction's response log
type LogEntry struct {
	Type  string `json:"type"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// TxResult is the chain's answer to a broadcast transaction
type TxResult struct {
	TxHash   string          `json:"tx_hash"`
	Code     uint32          `json:"code"`
	RawLog   string          `json:"raw_log,omitempty"`
	GasUsed  uint64          `json:"gas_used"`
	GasLimit uint64          `json:"gas_limit,omitempty"`
	ArrayLog []LogEntry      `json:"arrayLog"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// Failed reports whether the chain rejected the transaction
func (r *TxResult) Failed() bool {
	return r.Code != 0
}

// TransactionStatus is the outcome recorded in the transaction journal
type TransactionStatus string

const (
	TransactionStatusSucceeded TransactionStatus = "SUCCEEDED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// Transaction is a journal entry for a transaction sent by this client
type Transaction struct {
	ID              string            `json:"id"`
	Kind            string            `json:"kind"` // store_code, instantiate or an action name
	TxHash          string            `json:"txHash,omitempty"`
	ContractAddress string            `json:"contractAddress,omitempty"`
	Sender          string            `json:"sender"`
	GasLimit        uint64            `json:"gasLimit"`
	GasUsed         uint64            `json:"gasUsed"`
	Status          TransactionStatus `json:"status"`
	Error           string            `json:"error,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
}
