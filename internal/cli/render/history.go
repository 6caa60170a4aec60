package render

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/trebuchet-org/raffle-cli/internal/usecase"
)

// HistoryRenderer renders the deployment history as a table
type HistoryRenderer struct {
	out io.Writer
}

// NewHistoryRenderer creates a new history renderer
func NewHistoryRenderer(out io.Writer) *HistoryRenderer {
	return &HistoryRenderer{out: out}
}

// Render renders the deployment history, newest first
func (r *HistoryRenderer) Render(result *usecase.DeploymentListResult) error {
	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	t := newTable(r.out)
	t.AppendHeader(table.Row{"", "Deployed", "Network", "Code ID", "Address", "Label"})

	for _, entry := range result.Deployments {
		marker := " "
		if result.Current != nil && entry.Record.ContractAddress == result.Current.ContractAddress {
			marker = successStyle.Sprint("●")
		}
		codeID := entry.Record.CodeID
		if entry.Resumed {
			codeID += labelStyle.Sprint(" (reused)")
		}
		t.AppendRow(table.Row{
			marker,
			labelStyle.Sprint(entry.CreatedAt.Local().Format(time.DateTime)),
			entry.Network,
			codeID,
			addressStyle.Sprint(entry.Record.ContractAddress),
			entry.Label,
		})
	}
	t.Render()

	networks := make([]string, 0, len(result.Summary.ByNetwork))
	for network, count := range result.Summary.ByNetwork {
		networks = append(networks, fmt.Sprintf("%s: %d", network, count))
	}
	sort.Strings(networks)

	fmt.Fprintf(r.out, "\nTotal deployments: %d (%s)\n", result.Summary.Total, strings.Join(networks, ", "))
	return nil
}

// newTable returns a borderless table writer in the house style
func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateRows = false
	t.Style().Format.Header = text.FormatUpper
	t.Style().Box.PaddingRight = "  "
	return t
}

var _ Renderer[*usecase.DeploymentListResult] = (*HistoryRenderer)(nil)
