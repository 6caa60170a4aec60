package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/trebuchet-org/raffle-cli/internal/domain/config"
	"github.com/trebuchet-org/raffle-cli/internal/domain/models"
	"github.com/trebuchet-org/raffle-cli/internal/usecase"
)

// CheckerAdapter implements ChainChecker with unsigned JSON-RPC calls
type CheckerAdapter struct {
	factory *ClientFactory
	client  *rpc.Client
}

// NewCheckerAdapter creates a new chain checker
func NewCheckerAdapter(factory *ClientFactory) *CheckerAdapter {
	return &CheckerAdapter{factory: factory}
}

// Connect dials the network and checks that it answers
func (c *CheckerAdapter) Connect(ctx context.Context, network *config.Network) error {
	client, err := c.factory.Dial(ctx, network)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var key hexutil.Bytes
	if err := client.CallContext(ctx, &key, methodTxKey); err != nil {
		client.Close()
		return fmt.Errorf("chain did not answer: %w", err)
	}

	c.client = client
	return nil
}

// CheckDeploymentExists checks that the recorded code and contract are known to the chain
func (c *CheckerAdapter) CheckDeploymentExists(ctx context.Context, record *models.DeploymentRecord) (exists bool, reason string, err error) {
	if c.client == nil {
		return false, "", fmt.Errorf("not connected to chain")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var hash CodeHashResponse
	if err := c.client.CallContext(ctx, &hash, methodCodeHashByCodeID, record.CodeID); err != nil {
		return false, fmt.Sprintf("code id %s not found: %v", record.CodeID, err), nil
	}
	if !strings.EqualFold(hash.CodeHash, record.ContractCodeHash) {
		return false, fmt.Sprintf("code id %s has hash %s", record.CodeID, hash.CodeHash), nil
	}

	var result json.RawMessage
	err = c.client.CallContext(ctx, &result, methodQuery, QueryRequest{
		ContractAddress: record.ContractAddress,
		CodeHash:        record.ContractCodeHash,
		Query:           json.RawMessage(`{"get_count":{}}`),
	})
	if err != nil {
		return false, fmt.Sprintf("contract did not answer: %v", err), nil
	}

	return true, "", nil
}

// Close releases the connection
func (c *CheckerAdapter) Close() {
	if c.client != nil {
		c.client.Close()
		c.client = nil
	}
}

// Ensure the adapter implements the interface
var _ usecase.ChainChecker = (*CheckerAdapter)(nil)
