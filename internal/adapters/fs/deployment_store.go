package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/raffle-cli/internal/domain"
	"github.com/trebuchet-org/raffle-cli/internal/domain/config"
	"github.com/trebuchet-org/raffle-cli/internal/domain/models"
	"github.com/trebuchet-org/raffle-cli/internal/usecase"
)

// DeploymentFile is the name of the latest deployment record
const DeploymentFile = "latest-deployment.json"

// DeploymentStoreAdapter keeps the latest deployment record in a JSON file
type DeploymentStoreAdapter struct {
	path string
}

// NewDeploymentStoreAdapter creates a new DeploymentStoreAdapter
func NewDeploymentStoreAdapter(cfg *config.RuntimeConfig) *DeploymentStoreAdapter {
	return &DeploymentStoreAdapter{
		path: filepath.Join(cfg.DataDir, DeploymentFile),
	}
}

// Exists checks if a record has been written
func (s *DeploymentStoreAdapter) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the record. Returns domain.ErrNotFound if nothing was deployed yet.
func (s *DeploymentStoreAdapter) Load(_ context.Context) (*models.DeploymentRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read deployment file: %w", err)
	}

	var record models.DeploymentRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse deployment file: %w", err)
	}
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("invalid deployment file %s: %w", s.path, err)
	}

	return &record, nil
}

// Save replaces the whole file with record
func (s *DeploymentStoreAdapter) Save(_ context.Context, record *models.DeploymentRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal deployment: %w", err)
	}

	// Write to temp file first
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write deployment file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace deployment file: %w", err)
	}
	return nil
}

// GetPath returns the path to the record file
func (s *DeploymentStoreAdapter) GetPath() string {
	return s.path
}

// Ensure DeploymentStoreAdapter implements DeploymentStore
var _ usecase.DeploymentStore = (*DeploymentStoreAdapter)(nil)
