package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/raffle-cli/internal/adapters/builder"
	"github.com/trebuchet-org/raffle-cli/internal/adapters/chain"
	"github.com/trebuchet-org/raffle-cli/internal/adapters/fs"
	"github.com/trebuchet-org/raffle-cli/internal/adapters/interactive"
	"github.com/trebuchet-org/raffle-cli/internal/adapters/progress"
	"github.com/trebuchet-org/raffle-cli/internal/adapters/repository/bolt"
	"github.com/trebuchet-org/raffle-cli/internal/adapters/signer"
	"github.com/trebuchet-org/raffle-cli/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewDeploymentStoreAdapter,
	wire.Bind(new(usecase.DeploymentStore), new(*fs.DeploymentStoreAdapter)),

	fs.NewLocalConfigStoreAdapter,
	wire.Bind(new(usecase.LocalConfigRepository), new(*fs.LocalConfigStoreAdapter)),
	wire.Bind(new(usecase.PreferenceStore), new(*fs.LocalConfigStoreAdapter)),
)

// RepositorySet provides the bbolt-backed history and transaction journal
var RepositorySet = wire.NewSet(
	bolt.NewRegistry,
	wire.Bind(new(usecase.DeploymentHistory), new(*bolt.Registry)),
	wire.Bind(new(usecase.TransactionJournal), new(*bolt.Registry)),
)

// ChainSet provides the JSON-RPC chain client factory and checker
var ChainSet = wire.NewSet(
	chain.NewClientFactory,
	wire.Bind(new(usecase.ChainClientFactory), new(*chain.ClientFactory)),

	chain.NewCheckerAdapter,
	wire.Bind(new(usecase.ChainChecker), new(*chain.CheckerAdapter)),
)

// SignerSet provides the configured signer provider
var SignerSet = wire.NewSet(
	signer.NewProviderFromConfig,
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.SelectorAdapter)),
	wire.Bind(new(usecase.Selector), new(*interactive.SelectorAdapter)),
	wire.Bind(new(signer.PasswordPrompter), new(*interactive.SelectorAdapter)),
)

// BuilderSet provides the contract build runner
var BuilderSet = wire.NewSet(
	builder.NewShellBuilder,
	wire.Bind(new(usecase.ContractBuilder), new(*builder.ShellBuilder)),
)

// ProgressSet provides the progress sink
var ProgressSet = wire.NewSet(
	progress.NewProgressSink,
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	RepositorySet,
	ChainSet,
	SignerSet,
	InteractiveSet,
	BuilderSet,
	ProgressSet,
)
