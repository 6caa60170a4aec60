package chain

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Message types carried in an envelope
const (
	MsgStoreCode   = "store_code"
	MsgInstantiate = "instantiate"
	MsgExecute     = "execute"
)

// Envelope is a signed transaction as submitted to the compute module
type Envelope struct {
	Sender    string          `json:"sender"`
	ChainID   string          `json:"chain_id"`
	GasLimit  uint64          `json:"gas_limit"`
	MsgType   string          `json:"msg_type"`
	Body      json.RawMessage `json:"body"`
	Signature hexutil.Bytes   `json:"signature"`
}

// Digest is keccak256(body || msg_type || chain_id || gas_limit as big-endian uint64)
func (e *Envelope) Digest() []byte {
	gas := make([]byte, 8)
	binary.BigEndian.PutUint64(gas, e.GasLimit)
	return crypto.Keccak256(e.Body, []byte(e.MsgType), []byte(e.ChainID), gas)
}

// Verify checks that the signature was made by the sender
func (e *Envelope) Verify() error {
	if !common.IsHexAddress(e.Sender) {
		return fmt.Errorf("invalid sender address %q", e.Sender)
	}
	pub, err := crypto.SigToPub(e.Digest(), e.Signature)
	if err != nil {
		return fmt.Errorf("invalid signature: %w", err)
	}
	if crypto.PubkeyToAddress(*pub) != common.HexToAddress(e.Sender) {
		return fmt.Errorf("signature does not match sender %s", e.Sender)
	}
	return nil
}

// StoreCodeBody uploads contract code
type StoreCodeBody struct {
	WasmByteCode []byte `json:"wasm_byte_code"`
}

// InstantiateBody creates a contract instance. InitMsg is encrypted.
type InstantiateBody struct {
	CodeID   string `json:"code_id"`
	CodeHash string `json:"code_hash"`
	Label    string `json:"label"`
	InitMsg  []byte `json:"init_msg"`
}

// ExecuteBody calls a contract. Msg is encrypted.
type ExecuteBody struct {
	Contract string `json:"contract"`
	CodeHash string `json:"code_hash"`
	Msg      []byte `json:"msg"`
}

// QueryRequest is the argument of compute_queryContract
type QueryRequest struct {
	ContractAddress string          `json:"contract_address"`
	CodeHash        string          `json:"code_hash"`
	Query           json.RawMessage `json:"query"`
}

// CodeHashResponse is the result of compute_codeHashByCodeId
type CodeHashResponse struct {
	CodeHash string `json:"code_hash"`
}
