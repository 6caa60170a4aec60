package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/trebuchet-org/raffle-cli/internal/domain/config"
	"github.com/trebuchet-org/raffle-cli/internal/usecase"
)

// LocalConfigFile is read by viper as well, so flags and env can override it
const LocalConfigFile = "config.local.json"

// LocalConfigStoreAdapter keeps config.local.json. It serves both the
// `raffle config` commands and the auto-connect preference.
type LocalConfigStoreAdapter struct {
	mu   sync.Mutex
	path string
}

// NewLocalConfigStoreAdapter creates a new LocalConfigStoreAdapter
func NewLocalConfigStoreAdapter(cfg *config.RuntimeConfig) *LocalConfigStoreAdapter {
	return &LocalConfigStoreAdapter{
		path: filepath.Join(cfg.DataDir, LocalConfigFile),
	}
}

// Exists reports whether the file has been written
func (s *LocalConfigStoreAdapter) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load returns the stored config, or the defaults when there is no file yet
func (s *LocalConfigStoreAdapter) Load(_ context.Context) (*config.LocalConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Save replaces the file with local
func (s *LocalConfigStoreAdapter) Save(_ context.Context, local *config.LocalConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(local)
}

// GetPath returns the path to the config file
func (s *LocalConfigStoreAdapter) GetPath() string {
	return s.path
}

// AutoConnect reads the persisted auto-connect flag
func (s *LocalConfigStoreAdapter) AutoConnect(ctx context.Context) (bool, error) {
	local, err := s.Load(ctx)
	if err != nil {
		return false, err
	}
	return local.AutoConnect, nil
}

// SetAutoConnect persists the flag and leaves the other settings alone
func (s *LocalConfigStoreAdapter) SetAutoConnect(_ context.Context, enabled bool) error {
	return s.update(func(local *config.LocalConfig) {
		local.AutoConnect = enabled
	})
}

// update is a locked read-modify-write
func (s *LocalConfigStoreAdapter) update(fn func(*config.LocalConfig)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	local, err := s.read()
	if err != nil {
		return err
	}
	fn(local)
	return s.write(local)
}

func (s *LocalConfigStoreAdapter) read() (*config.LocalConfig, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return config.DefaultLocalConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var local config.LocalConfig
	if err := json.Unmarshal(data, &local); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	return &local, nil
}

func (s *LocalConfigStoreAdapter) write(local *config.LocalConfig) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(local, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace config file: %w", err)
	}
	return nil
}

var (
	_ usecase.LocalConfigRepository = (*LocalConfigStoreAdapter)(nil)
	_ usecase.PreferenceStore       = (*LocalConfigStoreAdapter)(nil)
)
