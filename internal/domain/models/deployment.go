package models

import (
	"fmt"
	"time"
)

// DeploymentRecord identifies the contract instance every session talks to.
// It is written once per deployment and never edited in place.
type DeploymentRecord struct {
	CodeID           string `json:"codeId" yaml:"codeId"`
	ContractCodeHash string `json:"contractCodeHash" yaml:"contractCodeHash"`
	ContractAddress  string `json:"contractAddress" yaml:"contractAddress"`
}

// Validate checks that all identifiers are present
func (r *DeploymentRecord) Validate() error {
	if r == nil {
		return fmt.Errorf("deployment record is nil")
	}
	if r.CodeID == "" {
		return fmt.Errorf("deployment record has no codeId")
	}
	if r.ContractCodeHash == "" {
		return fmt.Errorf("deployment record has no contractCodeHash")
	}
	if r.ContractAddress == "" {
		return fmt.Errorf("deployment record has no contractAddress")
	}
	return nil
}

// HistoryEntry is a deployment record plus the metadata kept in the local history
type HistoryEntry struct {
	ID        string           `json:"id"`
	Record    DeploymentRecord `json:"record"`
	Label     string           `json:"label"`
	Network   string           `json:"network"`
	ChainID   string           `json:"chainId"`
	Deployer  string           `json:"deployer"`
	Resumed   bool             `json:"resumed,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}
