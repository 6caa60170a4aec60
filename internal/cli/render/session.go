package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/trebuchet-org/raffle-cli/internal/domain"
	"github.com/trebuchet-org/raffle-cli/internal/usecase"
)

// SessionRenderer renders connection state and contract interactions
type SessionRenderer struct {
	out io.Writer
}

// NewSessionRenderer creates a new session renderer
func NewSessionRenderer(out io.Writer) *SessionRenderer {
	return &SessionRenderer{out: out}
}

// Render renders the session status
func (r *SessionRenderer) Render(result *usecase.SessionStatusResult) error {
	headerStyle.Fprintln(r.out, "Session")

	if result.Network != nil {
		fmt.Fprintf(r.out, "  Network:      %s %s\n", result.Network.Name, labelStyle.Sprintf("(%s)", result.Network.ChainID))
	} else {
		fmt.Fprintf(r.out, "  Network:      %s\n", labelStyle.Sprint("(not set)"))
	}
	fmt.Fprintf(r.out, "  Wallet:       %s\n", stateStyle(result.State))
	if result.Address != "" {
		fmt.Fprintf(r.out, "  Address:      %s\n", addressStyle.Sprint(result.Address))
	}
	fmt.Fprintf(r.out, "  Auto-connect: %t\n", result.AutoConnect)

	fmt.Fprintln(r.out)
	headerStyle.Fprintln(r.out, "Deployment")
	if result.Record == nil {
		fmt.Fprintf(r.out, "  %s\n", labelStyle.Sprint("none, run `raffle deploy`"))
	} else {
		fmt.Fprintf(r.out, "  Address:      %s\n", addressStyle.Sprint(result.Record.ContractAddress))
		fmt.Fprintf(r.out, "  Code ID:      %s\n", result.Record.CodeID)
	}

	if !result.Checked {
		return nil
	}

	fmt.Fprintln(r.out)
	headerStyle.Fprintln(r.out, "Chain")
	if !result.ChainReachable {
		fmt.Fprintf(r.out, "  %s %s\n", failureStyle.Sprint("unreachable:"), result.ChainError)
		return nil
	}
	fmt.Fprintf(r.out, "  %s\n", successStyle.Sprint("reachable"))
	if result.Record != nil {
		if result.ContractFound {
			fmt.Fprintf(r.out, "  Contract:     %s\n", successStyle.Sprint("found"))
		} else {
			fmt.Fprintf(r.out, "  Contract:     %s %s\n", failureStyle.Sprint("missing"), labelStyle.Sprint(result.ContractReason))
		}
	}
	return nil
}

// RenderConnected reports a successful connect
func (r *SessionRenderer) RenderConnected(signer *usecase.SignerIdentity) {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Connected %s on %s", addressStyle.Sprint(signer.Address), signer.ChainID)))
}

// RenderOutcome renders the result of an execute
func (r *SessionRenderer) RenderOutcome(action domain.Action, outcome *usecase.ExecuteOutcome) error {
	if outcome.Skipped {
		fmt.Fprintln(r.out, FormatWarning("No wallet connected, nothing was sent. Run `raffle connect` first."))
		return nil
	}

	if outcome.Tx != nil {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s executed", Title(string(action.Kind())))))
		fmt.Fprintf(r.out, "  Tx:  %s\n", hashStyle.Sprint(outcome.Tx.TxHash))
		fmt.Fprintf(r.out, "  Gas: %d / %d\n", outcome.Tx.GasUsed, outcome.Tx.GasLimit)
	}

	if outcome.QueryErr != nil {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("Refresh failed: %v", outcome.QueryErr)))
		return nil
	}
	if outcome.QueryResult != nil {
		fmt.Fprintln(r.out)
		return r.RenderQuery(domain.RefreshQuery(action.Kind()).Kind(), outcome.QueryResult)
	}
	return nil
}

// RenderQuery renders a raw query result, drawing maps when present
func (r *SessionRenderer) RenderQuery(kind domain.QueryKind, raw json.RawMessage) error {
	if raw == nil {
		fmt.Fprintln(r.out, FormatWarning("No wallet connected, nothing was queried. Run `raffle connect` first."))
		return nil
	}

	switch kind {
	case domain.QueryGetCount:
		var resp domain.CountResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return fmt.Errorf("failed to decode count: %w", err)
		}
		fmt.Fprintf(r.out, "Count: %s\n", valueStyle.Sprint(resp.Count))
	case domain.QueryGetMapCount:
		var resp domain.MapCountResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return fmt.Errorf("failed to decode map count: %w", err)
		}
		fmt.Fprintf(r.out, "Maps: %s\n", valueStyle.Sprint(resp.Count))
	case domain.QueryGetMap:
		var resp domain.MapResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return fmt.Errorf("failed to decode map: %w", err)
		}
		fmt.Fprintf(r.out, "%3d  %s\n", resp.Index, ColorizeMap(resp.Map))
	case domain.QueryGetMaps:
		var resp domain.MapsResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return fmt.Errorf("failed to decode maps: %w", err)
		}
		if len(resp.Maps) == 0 {
			fmt.Fprintln(r.out, labelStyle.Sprint("No maps generated yet"))
			return nil
		}
		for i, m := range resp.Maps {
			fmt.Fprintf(r.out, "%3d  %s\n", i, ColorizeMap(m))
		}
	default:
		fmt.Fprintln(r.out, string(raw))
	}
	return nil
}

func stateStyle(state domain.ConnectionState) string {
	switch state {
	case domain.Connected:
		return successStyle.Sprint(Title(string(state)))
	case domain.Connecting:
		return pendingStyle.Sprint(Title(string(state)))
	default:
		return failureStyle.Sprint(Title(string(state)))
	}
}

var _ Renderer[*usecase.SessionStatusResult] = (*SessionRenderer)(nil)
