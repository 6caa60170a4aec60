package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/raffle-cli/internal/app"
	"github.com/trebuchet-org/raffle-cli/internal/cli/render"
	"github.com/trebuchet-org/raffle-cli/internal/domain"
	"github.com/trebuchet-org/raffle-cli/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var (
		build   bool
		codeID  string
		label   string
		initMsg string
		yes     bool
	)

	cmd := &cobra.Command{
		Use:   "deploy [wasm]",
		Short: "Upload, instantiate and record the contract",
		Long: `Upload the contract code, resolve its code hash, instantiate a new
contract and save the result to .raffle/latest-deployment.json.

Every run creates a new contract instance. If a step fails after the code
was stored, the error names the code id; pass it with --code-id to skip
the upload and retry instantiation.

Examples:
  raffle deploy
  raffle deploy --build
  raffle deploy artifacts/contract.wasm.gz --label "weekly raffle"
  raffle deploy --code-id 42`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if app.Config.Network == nil {
				return fmt.Errorf("%w: no network selected, use --network or `raffle config set network <name>`", domain.ErrConfiguration)
			}

			if current := app.DeployContract.Current(ctx); current != nil && !yes && !app.Config.NonInteractive {
				ok, err := app.Confirmer.Confirm(ctx, fmt.Sprintf("A contract is already deployed at %s. Deploy a new instance", current.ContractAddress))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Deployment cancelled")
					return nil
				}
			}

			params := usecase.DeployParams{
				CodeID:      codeID,
				LabelPrefix: label,
			}
			if initMsg != "" {
				params.InitMsg = json.RawMessage(initMsg)
			}

			if codeID == "" {
				params.Wasm, err = loadWasm(cmd, app, args, build)
				if err != nil {
					return err
				}
			}

			params.Signer, err = app.SignerResolver.Resolve(ctx)
			if err != nil {
				if errors.Is(err, domain.ErrExtensionMissing) {
					return fmt.Errorf("%w: no deployer signer configured, set [signer] in raffle.toml or RAFFLE_PRIVATE_KEY", domain.ErrConfiguration)
				}
				return err
			}
			defer params.Signer.Close()

			renderer := render.NewDeployRenderer(cmd.OutOrStdout())
			result, err := app.DeployContract.Run(ctx, params)
			if err != nil {
				render.NewDeployRenderer(cmd.ErrOrStderr()).RenderError(err)
				return err
			}
			return renderer.Render(result)
		},
	}

	cmd.Flags().BoolVar(&build, "build", false, "Run the [contract] build command before uploading")
	cmd.Flags().StringVar(&codeID, "code-id", "", "Instantiate already stored code instead of uploading")
	cmd.Flags().StringVar(&label, "label", "", "Label prefix for the new instance (a unique suffix is appended)")
	cmd.Flags().StringVar(&initMsg, "init-msg", "", `Instantiate message as JSON (default from raffle.toml, e.g. '{"count": 0}')`)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Replace an existing deployment without asking")

	return cmd
}

// loadWasm optionally builds the contract and reads the artifact. The bytes
// are uploaded as they are, gzip included.
func loadWasm(cmd *cobra.Command, app *app.App, args []string, build bool) ([]byte, error) {
	project := app.Config.Project

	if build {
		if project.Contract.Build == "" {
			return nil, fmt.Errorf("%w: --build needs [contract] build in raffle.toml", domain.ErrConfiguration)
		}
		if err := app.Builder.Build(cmd.Context(), project.Contract.Build); err != nil {
			return nil, err
		}
	}

	path := project.Contract.Wasm
	if len(args) > 0 {
		path = args[0]
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(app.Config.ProjectRoot, path)
	}

	wasm, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: contract artifact %s not found (build it first or pass --build)", domain.ErrConfiguration, path)
		}
		return nil, fmt.Errorf("failed to read contract artifact: %w", err)
	}
	app.Log.Debug("loaded contract artifact", "path", path, "bytes", len(wasm))
	return wasm, nil
}
