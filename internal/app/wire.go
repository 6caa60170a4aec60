//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/raffle-cli/internal/adapters"
	"github.com/trebuchet-org/raffle-cli/internal/config"
	"github.com/trebuchet-org/raffle-cli/internal/logging"
	"github.com/trebuchet-org/raffle-cli/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewSignerResolver,
		usecase.NewSessionLifecycle,
		usecase.NewDeployContract,
		usecase.NewOpenSession,
		usecase.NewSessionStatus,
		usecase.NewShowDeployment,
		usecase.NewListDeployments,
		usecase.NewListTransactions,
		usecase.NewShowConfig,
		usecase.NewSetConfig,

		// App
		NewApp,
	)
	return nil, nil
}
