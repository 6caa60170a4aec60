package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/trebuchet-org/raffle-cli/internal/domain"
	"github.com/trebuchet-org/raffle-cli/internal/usecase"
)

// Output formats accepted by --format
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// DeploymentRenderer renders the latest deployment record
type DeploymentRenderer struct {
	out    io.Writer
	format string
}

// NewDeploymentRenderer creates a new deployment renderer
func NewDeploymentRenderer(out io.Writer, format string) *DeploymentRenderer {
	return &DeploymentRenderer{
		out:    out,
		format: format,
	}
}

// Render renders the record in the configured format
func (r *DeploymentRenderer) Render(result *usecase.ShowDeploymentResult) error {
	switch strings.ToLower(r.format) {
	case FormatJSON:
		data, err := json.MarshalIndent(result.Record, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal deployment: %w", err)
		}
		fmt.Fprintln(r.out, string(data))
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(r.out)
		enc.SetIndent(2)
		if err := enc.Encode(result.Record); err != nil {
			return fmt.Errorf("failed to marshal deployment: %w", err)
		}
		return enc.Close()
	case FormatText, "":
	default:
		return fmt.Errorf("unknown format %q (use text, json or yaml)", r.format)
	}

	headerStyle.Fprintln(r.out, "Deployment")
	fmt.Fprintln(r.out, strings.Repeat("=", 60))
	fmt.Fprintf(r.out, "  Code ID:       %s\n", valueStyle.Sprint(result.Record.CodeID))
	fmt.Fprintf(r.out, "  Code Hash:     %s\n", hashStyle.Sprint(result.Record.ContractCodeHash))
	fmt.Fprintf(r.out, "  Address:       %s\n", addressStyle.Sprint(result.Record.ContractAddress))
	if entry := result.Entry; entry != nil {
		fmt.Fprintf(r.out, "  Label:         %s\n", entry.Label)
		fmt.Fprintf(r.out, "  Network:       %s (%s)\n", entry.Network, entry.ChainID)
		fmt.Fprintf(r.out, "  Deployer:      %s\n", addressStyle.Sprint(entry.Deployer))
		fmt.Fprintf(r.out, "  Deployed at:   %s\n", entry.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(r.out, "\n%s %s\n", labelStyle.Sprint("📁 record file:"), getRelativePath(result.Path))
	return nil
}

// DeployRenderer renders the outcome of `raffle deploy`
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// Render renders a successful deployment
func (r *DeployRenderer) Render(result *usecase.DeployResult) error {
	fmt.Fprintln(r.out, FormatSuccess("Contract deployed"))
	fmt.Fprintln(r.out)

	if result.UploadTx != nil {
		fmt.Fprintf(r.out, "  Upload tx:      %s %s\n", hashStyle.Sprint(result.UploadTx.TxHash), labelStyle.Sprintf("(gas used %d)", result.UploadTx.GasUsed))
	} else if result.Resumed {
		fmt.Fprintf(r.out, "  Upload:         %s\n", labelStyle.Sprint("skipped, reused stored code"))
	}
	if result.InstantiateTx != nil {
		fmt.Fprintf(r.out, "  Instantiate tx: %s %s\n", hashStyle.Sprint(result.InstantiateTx.TxHash), labelStyle.Sprintf("(gas used %d)", result.InstantiateTx.GasUsed))
	}
	fmt.Fprintf(r.out, "  Label:          %s\n", valueStyle.Sprint(result.Label))
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "  Code ID:        %s\n", valueStyle.Sprint(result.Record.CodeID))
	fmt.Fprintf(r.out, "  Code Hash:      %s\n", hashStyle.Sprint(result.Record.ContractCodeHash))
	fmt.Fprintf(r.out, "  Address:        %s\n", addressStyle.Sprint(result.Record.ContractAddress))

	if result.Previous != nil && result.Previous.ContractAddress != result.Record.ContractAddress {
		fmt.Fprintf(r.out, "\n%s\n", labelStyle.Sprintf("Replaced previous deployment at %s", result.Previous.ContractAddress))
	}
	fmt.Fprintf(r.out, "\n📁 record saved to: %s\n", getRelativePath(result.RecordPath))
	return nil
}

// RenderError explains a failed deployment and how to resume it
func (r *DeployRenderer) RenderError(err error) {
	var derr *domain.DeploymentError
	if !errors.As(err, &derr) {
		return
	}

	if derr.CodeID != "" {
		fmt.Fprintf(r.out, "  Code ID:   %s\n", derr.CodeID)
	}
	if derr.CodeHash != "" {
		fmt.Fprintf(r.out, "  Code Hash: %s\n", derr.CodeHash)
	}
	if derr.ContractAddress != "" {
		fmt.Fprintf(r.out, "  Address:   %s\n", derr.ContractAddress)
	}
	if derr.Resumable() {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("Code is already stored on chain, resume with: raffle deploy --code-id %s", derr.CodeID)))
	}
}

var (
	_ Renderer[*usecase.ShowDeploymentResult] = (*DeploymentRenderer)(nil)
	_ Renderer[*usecase.DeployResult]         = (*DeployRenderer)(nil)
)
