package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/raffle-cli/internal/app"
	"github.com/trebuchet-org/raffle-cli/internal/config"
)

type contextKey string

const (
	appKey contextKey = "app"

	// annotationAutoConnect marks commands that restore the wallet connection before running
	annotationAutoConnect = "autoConnect"

	// annotationNoTimeout marks long-lived interactive commands
	annotationNoTimeout = "noTimeout"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "raffle",
		Short: "Deploy and drive the secret raffle contract",
		Long: `raffle uploads and instantiates the raffle contract on a chain, keeps the
latest deployment record in .raffle/, and executes or queries the deployed
instance through a connected signer.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initApp,
	}

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (e.g., simulated, pulsar-3)")
	rootCmd.PersistentFlags().Duration("timeout", 5*time.Minute, "Timeout for the whole command")

	groups := []struct {
		id, title string
		cmds      []*cobra.Command
	}{
		{"main", "Main Commands", []*cobra.Command{NewDeployCmd(), NewShowCmd(), NewExecuteCmd(), NewQueryCmd(), NewUICmd()}},
		{"session", "Session Commands", []*cobra.Command{NewConnectCmd(), NewDisconnectCmd(), NewStatusCmd()}},
		{"management", "Management Commands", []*cobra.Command{NewHistoryCmd(), NewTxsCmd(), NewConfigCmd()}},
	}
	for _, g := range groups {
		rootCmd.AddGroup(&cobra.Group{ID: g.id, Title: g.title})
		for _, c := range g.cmds {
			c.GroupID = g.id
			rootCmd.AddCommand(c)
		}
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initApp builds the App for every command that needs one and stores it
// on the command context. version, help and completion run without it.
func initApp(cmd *cobra.Command, args []string) error {
	switch cmd.Name() {
	case "version", "help", "completion":
		return nil
	}

	root, err := config.FindProjectRoot()
	if err != nil {
		return err
	}
	a, err := app.InitApp(config.SetupViper(root, cmd))
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}

	ctx := context.WithValue(cmd.Context(), appKey, a)
	if a.Config.Timeout > 0 && cmd.Annotations[annotationNoTimeout] != "true" {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Config.Timeout)
		cmd.PostRun = func(*cobra.Command, []string) { cancel() }
	}
	cmd.SetContext(ctx)

	if cmd.Annotations[annotationAutoConnect] == "true" {
		a.Lifecycle.AutoConnect(ctx)
	}
	return nil
}

// autoConnect marks cmd to restore a previous wallet connection before it runs
func autoConnect(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[annotationAutoConnect] = "true"
	return cmd
}

func getApp(cmd *cobra.Command) (*app.App, error) {
	a, ok := cmd.Context().Value(appKey).(*app.App)
	if !ok || a == nil {
		return nil, fmt.Errorf("app not initialized for %q", cmd.Name())
	}
	return a, nil
}
