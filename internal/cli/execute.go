package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/raffle-cli/internal/cli/render"
	"github.com/trebuchet-org/raffle-cli/internal/domain"
	"github.com/trebuchet-org/raffle-cli/internal/usecase"
)

// NewExecuteCmd creates the execute command
func NewExecuteCmd() *cobra.Command {
	var (
		count     int32
		withQuery bool
	)

	cmd := &cobra.Command{
		Use:   "execute [action]",
		Short: "Send an execute transaction to the deployed contract",
		Long: `Send one of the contract's execute messages:

  increment   add one to the counter
  reset       set the counter (owner only, see --count)
  generate    generate a new random map
  clear       reset the counter and drop all maps

Without a connected wallet nothing is sent.

Examples:
  raffle execute increment --with-query
  raffle execute reset --count 10
  raffle execute generate`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: domain.ActionNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			name, err := pickName(ctx, app.Selector, "Action", args, domain.ActionNames())
			if err != nil {
				return err
			}
			action, err := parseAction(name, actionArgs{count: count})
			if err != nil {
				return err
			}

			session, err := app.OpenSession.Run(ctx)
			if err != nil {
				return err
			}

			outcome, err := session.ExecuteWith(ctx, action, usecase.ExecuteOptions{WithQuery: withQuery})
			if err != nil {
				return err
			}

			return render.NewSessionRenderer(cmd.OutOrStdout()).RenderOutcome(action, outcome)
		},
	}

	cmd.Flags().Int32Var(&count, "count", 0, "Counter value for reset")
	cmd.Flags().BoolVar(&withQuery, "with-query", false, "Refresh the affected state after a successful execute")

	return autoConnect(cmd)
}

// NewQueryCmd creates the query command
func NewQueryCmd() *cobra.Command {
	var index uint64

	cmd := &cobra.Command{
		Use:   "query [query]",
		Short: "Query the deployed contract",
		Long: `Run one of the contract's read-only queries:

  get_count       current counter
  get_maps        all generated maps
  get_map         one map (see --index)
  get_map_count   number of maps

Examples:
  raffle query get_count
  raffle query get_map --index 3`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: domain.QueryNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			name, err := pickName(ctx, app.Selector, "Query", args, domain.QueryNames())
			if err != nil {
				return err
			}
			query, err := parseQuery(name, queryArgs{index: index})
			if err != nil {
				return err
			}

			session, err := app.OpenSession.Run(ctx)
			if err != nil {
				return err
			}

			raw, err := session.Query(ctx, query)
			if err != nil {
				return err
			}

			return render.NewSessionRenderer(cmd.OutOrStdout()).RenderQuery(query.Kind(), raw)
		},
	}

	cmd.Flags().Uint64Var(&index, "index", 0, "Map index for get_map")

	return autoConnect(cmd)
}
