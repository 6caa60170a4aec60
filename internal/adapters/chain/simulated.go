package chain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/crypto/ecies"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/trebuchet-org/raffle-cli/internal/adapters/signer"
	"github.com/trebuchet-org/raffle-cli/internal/domain/models"
)

// Response codes of the simulated chain
const (
	CodeOK           uint32 = 0
	CodeInternal     uint32 = 1
	CodeContract     uint32 = 2
	CodeInvalidInput uint32 = 3
	CodeUnauthorized uint32 = 4
	CodeOutOfGas     uint32 = 11
)

// Gas charged by the simulated chain
const (
	gasStoreCodeBase   uint64 = 1_000_000
	gasStoreCodePerKiB uint64 = 10_000
	gasInstantiate     uint64 = 150_000
	gasExecute         uint64 = 50_000
	gasGenerate        uint64 = 1_500_000
)

// SimulatedChain is an in-process chain running the raffle contract.
// It serves the same JSON-RPC methods as a real gateway. State is kept in
// memory and, when a path is given, persisted after every transaction so
// that consecutive CLI invocations see the same chain.
type SimulatedChain struct {
	mu      sync.Mutex
	path    string
	chainID string
	key     *ecies.PrivateKey
	state   *simState
}

type simState struct {
	TxKey      hexutil.Bytes           `json:"txKey"`
	NextCodeID uint64                  `json:"nextCodeId"`
	Nonce      uint64                  `json:"nonce"`
	Codes      map[string]*simCode     `json:"codes"`
	Contracts  map[string]*simContract `json:"contracts"`
	Labels     map[string]string       `json:"labels"`
}

type simCode struct {
	Hash    string `json:"hash"`
	Creator string `json:"creator"`
	Size    int    `json:"size"`
}

type simContract struct {
	CodeID   string   `json:"codeId"`
	CodeHash string   `json:"codeHash"`
	Label    string   `json:"label"`
	Owner    string   `json:"owner"`
	Count    int32    `json:"count"`
	Maps     []string `json:"maps"`
}

// NewSimulatedChain opens (or creates) a simulated chain. An empty path keeps
// everything in memory.
func NewSimulatedChain(path, chainID string) (*SimulatedChain, error) {
	c := &SimulatedChain{path: path, chainID: chainID}

	state, err := c.load()
	if err != nil {
		return nil, err
	}
	if state == nil {
		key, err := crypto.GenerateKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate chain key: %w", err)
		}
		state = &simState{
			TxKey:      crypto.FromECDSA(key),
			NextCodeID: 1,
			Codes:      make(map[string]*simCode),
			Contracts:  make(map[string]*simContract),
			Labels:     make(map[string]string),
		}
	}

	key, err := crypto.ToECDSA(state.TxKey)
	if err != nil {
		return nil, fmt.Errorf("invalid chain key in %s: %w", path, err)
	}
	c.key = ecies.ImportECDSA(key)
	c.state = state
	return c, nil
}

// Server exposes the chain as a JSON-RPC server
func (c *SimulatedChain) Server() (*rpc.Server, error) {
	server := rpc.NewServer()
	if err := server.RegisterName("compute", &computeAPI{chain: c}); err != nil {
		return nil, fmt.Errorf("failed to register compute api: %w", err)
	}
	if err := server.RegisterName("registration", &registrationAPI{chain: c}); err != nil {
		return nil, fmt.Errorf("failed to register registration api: %w", err)
	}
	return server, nil
}

func (c *SimulatedChain) load() (*simState, error) {
	if c.path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read simulated chain state: %w", err)
	}

	var state simState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse simulated chain state: %w", err)
	}
	if state.Codes == nil {
		state.Codes = make(map[string]*simCode)
	}
	if state.Contracts == nil {
		state.Contracts = make(map[string]*simContract)
	}
	if state.Labels == nil {
		state.Labels = make(map[string]string)
	}
	return &state, nil
}

// save must be called with mu held
func (c *SimulatedChain) save() error {
	if c.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(c.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal simulated chain state: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write simulated chain state: %w", err)
	}
	return os.Rename(tmpPath, c.path)
}

// admit checks signature, chain id and gas. It returns a rejected result, or nil.
func (c *SimulatedChain) admit(env *Envelope, txHash string, gasWanted uint64) *models.TxResult {
	if err := env.Verify(); err != nil {
		return rejected(txHash, CodeUnauthorized, err.Error(), 0)
	}
	if env.ChainID != c.chainID {
		return rejected(txHash, CodeUnauthorized, fmt.Sprintf("wrong chain id %q, expected %q", env.ChainID, c.chainID), 0)
	}
	if gasWanted > env.GasLimit {
		return outOfGas(txHash, env.GasLimit, gasWanted)
	}
	return nil
}

func (c *SimulatedChain) storeCode(env *Envelope) (*models.TxResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	txHash := envelopeHash(env)
	var body StoreCodeBody
	if err := json.Unmarshal(env.Body, &body); err != nil {
		return rejected(txHash, CodeInvalidInput, "malformed store_code body: "+err.Error(), 0), nil
	}

	gasUsed := gasStoreCodeBase + uint64(len(body.WasmByteCode)/1024)*gasStoreCodePerKiB
	if res := c.admit(env, txHash, gasUsed); res != nil {
		return res, nil
	}
	if len(body.WasmByteCode) == 0 {
		return rejected(txHash, CodeInvalidInput, "empty wasm code", gasStoreCodeBase), nil
	}

	sum := sha256.Sum256(body.WasmByteCode)
	codeID := strconv.FormatUint(c.state.NextCodeID, 10)
	c.state.NextCodeID++
	c.state.Codes[codeID] = &simCode{
		Hash:    hex.EncodeToString(sum[:]),
		Creator: env.Sender,
		Size:    len(body.WasmByteCode),
	}

	if err := c.save(); err != nil {
		return nil, err
	}
	return succeeded(txHash, gasUsed,
		models.LogEntry{Type: "message", Key: "action", Value: "/secret.compute.v1beta1.MsgStoreCode"},
		models.LogEntry{Type: "message", Key: "sender", Value: env.Sender},
		models.LogEntry{Type: "message", Key: "code_id", Value: codeID},
	), nil
}

func (c *SimulatedChain) codeHash(codeID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	code, ok := c.state.Codes[codeID]
	if !ok {
		return "", fmt.Errorf("code id %s not found", codeID)
	}
	return code.Hash, nil
}

func (c *SimulatedChain) instantiate(env *Envelope) (*models.TxResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	txHash := envelopeHash(env)
	if res := c.admit(env, txHash, gasInstantiate); res != nil {
		return res, nil
	}

	var body InstantiateBody
	if err := json.Unmarshal(env.Body, &body); err != nil {
		return rejected(txHash, CodeInvalidInput, "malformed instantiate body: "+err.Error(), gasInstantiate), nil
	}

	code, ok := c.state.Codes[body.CodeID]
	if !ok {
		return rejected(txHash, CodeInvalidInput, fmt.Sprintf("code id %s not found", body.CodeID), gasInstantiate), nil
	}
	if !strings.EqualFold(code.Hash, body.CodeHash) {
		return rejected(txHash, CodeInvalidInput, "code hash does not match code id", gasInstantiate), nil
	}
	if body.Label == "" {
		return rejected(txHash, CodeInvalidInput, "label is required", gasInstantiate), nil
	}
	if _, exists := c.state.Labels[body.Label]; exists {
		return rejected(txHash, CodeInvalidInput, fmt.Sprintf("label %s already exists", body.Label), gasInstantiate), nil
	}

	plaintext, err := signer.Open(c.key, code.Hash, body.InitMsg)
	if err != nil {
		return rejected(txHash, CodeContract, err.Error(), gasInstantiate), nil
	}
	var init struct {
		Count int32 `json:"count"`
	}
	if err := json.Unmarshal(plaintext, &init); err != nil {
		return rejected(txHash, CodeContract, "invalid init message: "+err.Error(), gasInstantiate), nil
	}

	address := crypto.CreateAddress(common.HexToAddress(env.Sender), c.state.Nonce).Hex()
	c.state.Nonce++
	c.state.Contracts[address] = &simContract{
		CodeID:   body.CodeID,
		CodeHash: code.Hash,
		Label:    body.Label,
		Owner:    env.Sender,
		Count:    init.Count,
	}
	c.state.Labels[body.Label] = address

	if err := c.save(); err != nil {
		return nil, err
	}
	return succeeded(txHash, gasInstantiate,
		models.LogEntry{Type: "message", Key: "action", Value: "/secret.compute.v1beta1.MsgInstantiateContract"},
		models.LogEntry{Type: "message", Key: "sender", Value: env.Sender},
		models.LogEntry{Type: "message", Key: "contract_address", Value: address},
	), nil
}

func (c *SimulatedChain) execute(env *Envelope) (*models.TxResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	txHash := envelopeHash(env)
	var body ExecuteBody
	if err := json.Unmarshal(env.Body, &body); err != nil {
		return rejected(txHash, CodeInvalidInput, "malformed execute body: "+err.Error(), 0), nil
	}

	if res := c.admit(env, txHash, 0); res != nil {
		return res, nil
	}

	contract, ok := c.state.Contracts[body.Contract]
	if !ok {
		return rejected(txHash, CodeInvalidInput, fmt.Sprintf("contract %s not found", body.Contract), 0), nil
	}

	plaintext, err := signer.Open(c.key, contract.CodeHash, body.Msg)
	if err != nil {
		return rejected(txHash, CodeContract, err.Error(), 0), nil
	}
	name, payload, err := decodeTagged(plaintext)
	if err != nil {
		return rejected(txHash, CodeContract, err.Error(), 0), nil
	}

	gasUsed := gasExecute
	if name == "generate" {
		gasUsed = gasGenerate
	}
	if gasUsed > env.GasLimit {
		return outOfGas(txHash, env.GasLimit, gasUsed), nil
	}

	// Work on a copy so a failed message leaves the contract untouched
	next := *contract
	next.Maps = append([]string(nil), contract.Maps...)

	switch name {
	case "increment":
		next.Count++
	case "reset":
		if common.HexToAddress(env.Sender) != common.HexToAddress(contract.Owner) {
			return rejected(txHash, CodeContract, "Only the owner can reset count", gasUsed), nil
		}
		var msg struct {
			Count int32 `json:"count"`
		}
		if err := json.Unmarshal(payload, &msg); err != nil {
			return rejected(txHash, CodeContract, "invalid reset message: "+err.Error(), gasUsed), nil
		}
		next.Count = msg.Count
	case "generate":
		next.Maps = append(next.Maps, strconv.FormatUint(rand.Uint64(), 2))
	case "clear":
		next.Count = 0
		next.Maps = nil
	default:
		return rejected(txHash, CodeContract, fmt.Sprintf("unknown variant `%s`", name), gasUsed), nil
	}

	*contract = next
	if err := c.save(); err != nil {
		return nil, err
	}
	return succeeded(txHash, gasUsed,
		models.LogEntry{Type: "message", Key: "action", Value: "/secret.compute.v1beta1.MsgExecuteContract"},
		models.LogEntry{Type: "message", Key: "sender", Value: env.Sender},
		models.LogEntry{Type: "message", Key: "contract_address", Value: body.Contract},
	), nil
}

func (c *SimulatedChain) query(req QueryRequest) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	contract, ok := c.state.Contracts[req.ContractAddress]
	if !ok {
		return nil, fmt.Errorf("contract %s not found", req.ContractAddress)
	}
	if !strings.EqualFold(contract.CodeHash, req.CodeHash) {
		return nil, fmt.Errorf("code hash does not match contract")
	}

	name, payload, err := decodeTagged(req.Query)
	if err != nil {
		return nil, err
	}

	var result any
	switch name {
	case "get_count":
		result = map[string]int32{"count": contract.Count}
	case "get_maps":
		maps := contract.Maps
		if maps == nil {
			maps = []string{}
		}
		result = map[string][]string{"maps": maps}
	case "get_map":
		var msg struct {
			Index uint64 `json:"index"`
		}
		if err := json.Unmarshal(payload, &msg); err != nil {
			return nil, fmt.Errorf("invalid get_map query: %w", err)
		}
		if msg.Index >= uint64(len(contract.Maps)) {
			return nil, fmt.Errorf("map index %d out of range (%d maps)", msg.Index, len(contract.Maps))
		}
		result = map[string]any{"index": msg.Index, "map": contract.Maps[msg.Index]}
	case "get_map_count":
		result = map[string]int{"count": len(contract.Maps)}
	default:
		return nil, fmt.Errorf("unknown variant `%s`", name)
	}

	return json.Marshal(result)
}

// decodeTagged splits {"<name>": {...}} into its name and payload
func decodeTagged(msg []byte) (string, json.RawMessage, error) {
	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(msg, &tagged); err != nil {
		return "", nil, fmt.Errorf("invalid message: %w", err)
	}
	if len(tagged) != 1 {
		return "", nil, fmt.Errorf("expected exactly one message variant, got %d", len(tagged))
	}
	for name, payload := range tagged {
		return name, payload, nil
	}
	return "", nil, nil
}

func envelopeHash(env *Envelope) string {
	return strings.ToUpper(hex.EncodeToString(crypto.Keccak256(env.Digest(), env.Signature)))
}

func rejected(txHash string, code uint32, rawLog string, gasUsed uint64) *models.TxResult {
	return &models.TxResult{
		TxHash:   txHash,
		Code:     code,
		RawLog:   rawLog,
		GasUsed:  gasUsed,
		ArrayLog: []models.LogEntry{},
	}
}

func outOfGas(txHash string, gasLimit, gasUsed uint64) *models.TxResult {
	return rejected(txHash, CodeOutOfGas, fmt.Sprintf("out of gas: gasWanted: %d, gasUsed: %d", gasLimit, gasUsed), gasLimit)
}

func succeeded(txHash string, gasUsed uint64, logs ...models.LogEntry) *models.TxResult {
	return &models.TxResult{
		TxHash:   txHash,
		Code:     CodeOK,
		GasUsed:  gasUsed,
		ArrayLog: logs,
	}
}

// computeAPI serves the compute_* methods
type computeAPI struct {
	chain *SimulatedChain
}

func (api *computeAPI) StoreCode(_ context.Context, env Envelope) (*models.TxResult, error) {
	return api.chain.storeCode(&env)
}

// CodeHashByCodeId keeps the casing of the wire method name
func (api *computeAPI) CodeHashByCodeId(_ context.Context, codeID string) (*CodeHashResponse, error) {
	hash, err := api.chain.codeHash(codeID)
	if err != nil {
		return nil, err
	}
	return &CodeHashResponse{CodeHash: hash}, nil
}

func (api *computeAPI) InstantiateContract(_ context.Context, env Envelope) (*models.TxResult, error) {
	return api.chain.instantiate(&env)
}

func (api *computeAPI) ExecuteContract(_ context.Context, env Envelope) (*models.TxResult, error) {
	return api.chain.execute(&env)
}

func (api *computeAPI) QueryContract(_ context.Context, req QueryRequest) (json.RawMessage, error) {
	return api.chain.query(req)
}

// registrationAPI serves the registration_* methods
type registrationAPI struct {
	chain *SimulatedChain
}

func (api *registrationAPI) TxKey(_ context.Context) (hexutil.Bytes, error) {
	return crypto.CompressPubkey(&api.chain.key.ExportECDSA().PublicKey), nil
}
