package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/trebuchet-org/raffle-cli/internal/domain"
	"github.com/trebuchet-org/raffle-cli/internal/domain/models"
	"github.com/trebuchet-org/raffle-cli/internal/usecase"
)

// JSON-RPC methods of the chain gateway
const (
	methodStoreCode        = "compute_storeCode"
	methodCodeHashByCodeID = "compute_codeHashByCodeId"
	methodInstantiate      = "compute_instantiateContract"
	methodExecute          = "compute_executeContract"
	methodQuery            = "compute_queryContract"
	methodTxKey            = "registration_txKey"
)

// Client is a signer-bound ChainClient speaking JSON-RPC
type Client struct {
	rpc        *rpc.Client
	chainID    string
	address    string
	signer     usecase.OfflineSigner
	encryption usecase.EncryptionUtils
	log        *slog.Logger

	mu    sync.Mutex
	txKey []byte
}

// NewClient binds an RPC connection to a signer
func NewClient(rc *rpc.Client, opts usecase.ClientOptions, log *slog.Logger) *Client {
	return &Client{
		rpc:        rc,
		chainID:    opts.Network.ChainID,
		address:    opts.Address,
		signer:     opts.Signer,
		encryption: opts.Encryption,
		log:        log,
	}
}

// Close closes the underlying connection
func (c *Client) Close() {
	c.rpc.Close()
}

// StoreCode uploads contract code
func (c *Client) StoreCode(ctx context.Context, wasm []byte, gasLimit uint64) (*models.TxResult, error) {
	return c.broadcast(ctx, methodStoreCode, MsgStoreCode, gasLimit, StoreCodeBody{WasmByteCode: wasm})
}

// CodeHashByCodeID resolves the hash of stored code
func (c *Client) CodeHashByCodeID(ctx context.Context, codeID string) (string, error) {
	var resp CodeHashResponse
	if err := c.rpc.CallContext(ctx, &resp, methodCodeHashByCodeID, codeID); err != nil {
		return "", fmt.Errorf("%s: %w", methodCodeHashByCodeID, err)
	}
	if resp.CodeHash == "" {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownCodeID, codeID)
	}
	return resp.CodeHash, nil
}

// InstantiateContract creates a contract instance with an encrypted init message
func (c *Client) InstantiateContract(ctx context.Context, req usecase.InstantiateRequest) (*models.TxResult, error) {
	initMsg, err := c.encrypt(ctx, req.CodeHash, req.InitMsg)
	if err != nil {
		return nil, err
	}

	return c.broadcast(ctx, methodInstantiate, MsgInstantiate, req.GasLimit, InstantiateBody{
		CodeID:   req.CodeID,
		CodeHash: req.CodeHash,
		Label:    req.Label,
		InitMsg:  initMsg,
	})
}

// ExecuteContract sends an encrypted execute message
func (c *Client) ExecuteContract(ctx context.Context, req usecase.ExecuteRequest) (*models.TxResult, error) {
	msg, err := c.encrypt(ctx, req.CodeHash, req.Msg)
	if err != nil {
		return nil, err
	}

	return c.broadcast(ctx, methodExecute, MsgExecute, req.GasLimit, ExecuteBody{
		Contract: req.ContractAddress,
		CodeHash: req.CodeHash,
		Msg:      msg,
	})
}

// QueryContract runs a read-only query
func (c *Client) QueryContract(ctx context.Context, address, codeHash string, query json.RawMessage) (json.RawMessage, error) {
	var result json.RawMessage
	err := c.rpc.CallContext(ctx, &result, methodQuery, QueryRequest{
		ContractAddress: address,
		CodeHash:        codeHash,
		Query:           query,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodQuery, err)
	}
	return result, nil
}

// broadcast signs body and submits it. A response with a non-zero code is
// returned as-is; interpreting it is up to the caller.
func (c *Client) broadcast(ctx context.Context, method, msgType string, gasLimit uint64, body any) (*models.TxResult, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s body: %w", msgType, err)
	}

	env := Envelope{
		Sender:   c.address,
		ChainID:  c.chainID,
		GasLimit: gasLimit,
		MsgType:  msgType,
		Body:     raw,
	}
	env.Signature, err = c.signer.Sign(ctx, c.address, env.Digest())
	if err != nil {
		return nil, fmt.Errorf("failed to sign %s: %w", msgType, err)
	}

	var result models.TxResult
	if err := c.rpc.CallContext(ctx, &result, method, env); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	result.GasLimit = gasLimit

	c.log.Debug("transaction broadcast", "type", msgType, "txHash", result.TxHash, "code", result.Code, "gasUsed", result.GasUsed)
	return &result, nil
}

func (c *Client) encrypt(ctx context.Context, codeHash string, msg []byte) ([]byte, error) {
	txKey, err := c.chainTxKey(ctx)
	if err != nil {
		return nil, err
	}
	return c.encryption.Encrypt(ctx, txKey, codeHash, msg)
}

// chainTxKey fetches the chain's registration key once per client
func (c *Client) chainTxKey(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.txKey != nil {
		return c.txKey, nil
	}

	var key hexutil.Bytes
	if err := c.rpc.CallContext(ctx, &key, methodTxKey); err != nil {
		return nil, fmt.Errorf("%s: %w", methodTxKey, err)
	}
	c.txKey = key
	return c.txKey, nil
}

var _ usecase.ChainClient = (*Client)(nil)
