package app

import (
	"log/slog"

	"github.com/trebuchet-org/raffle-cli/internal/domain/config"
	"github.com/trebuchet-org/raffle-cli/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Shared dependencies
	Confirmer usecase.Confirmer
	Selector  usecase.Selector
	Builder   usecase.ContractBuilder

	// Use cases
	SignerResolver   *usecase.SignerResolver
	Lifecycle        *usecase.SessionLifecycle
	DeployContract   *usecase.DeployContract
	OpenSession      *usecase.OpenSession
	SessionStatus    *usecase.SessionStatus
	ShowDeployment   *usecase.ShowDeployment
	ListDeployments  *usecase.ListDeployments
	ListTransactions *usecase.ListTransactions
	ShowConfig       *usecase.ShowConfig
	SetConfig        *usecase.SetConfig
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	confirmer usecase.Confirmer,
	selector usecase.Selector,
	builder usecase.ContractBuilder,
	signerResolver *usecase.SignerResolver,
	lifecycle *usecase.SessionLifecycle,
	deployContract *usecase.DeployContract,
	openSession *usecase.OpenSession,
	sessionStatus *usecase.SessionStatus,
	showDeployment *usecase.ShowDeployment,
	listDeployments *usecase.ListDeployments,
	listTransactions *usecase.ListTransactions,
	showConfig *usecase.ShowConfig,
	setConfig *usecase.SetConfig,
) (*App, error) {
	return &App{
		Config:           cfg,
		Log:              log,
		Confirmer:        confirmer,
		Selector:         selector,
		Builder:          builder,
		SignerResolver:   signerResolver,
		Lifecycle:        lifecycle,
		DeployContract:   deployContract,
		OpenSession:      openSession,
		SessionStatus:    sessionStatus,
		ShowDeployment:   showDeployment,
		ListDeployments:  listDeployments,
		ListTransactions: listTransactions,
		ShowConfig:       showConfig,
		SetConfig:        setConfig,
	}, nil
}
