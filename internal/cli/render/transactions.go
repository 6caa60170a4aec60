package render

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/trebuchet-org/raffle-cli/internal/domain/models"
)

// TransactionsRenderer renders the transaction journal
type TransactionsRenderer struct {
	out io.Writer
}

// NewTransactionsRenderer creates a new transactions renderer
func NewTransactionsRenderer(out io.Writer) *TransactionsRenderer {
	return &TransactionsRenderer{out: out}
}

// Render renders journal entries as a table
func (r *TransactionsRenderer) Render(txs []*models.Transaction) error {
	if len(txs) == 0 {
		fmt.Fprintln(r.out, "No transactions recorded")
		return nil
	}

	t := newTable(r.out)
	t.AppendHeader(table.Row{"Time", "Kind", "Status", "Tx Hash", "Gas", "Error"})

	for _, tx := range txs {
		status := successStyle.Sprint(Title(string(tx.Status)))
		if tx.Status == models.TransactionStatusFailed {
			status = failureStyle.Sprint(Title(string(tx.Status)))
		}
		t.AppendRow(table.Row{
			labelStyle.Sprint(tx.CreatedAt.Local().Format(time.DateTime)),
			tx.Kind,
			status,
			hashStyle.Sprint(shorten(tx.TxHash)),
			fmt.Sprintf("%d / %d", tx.GasUsed, tx.GasLimit),
			tx.Error,
		})
	}
	t.Render()
	return nil
}

func shorten(hash string) string {
	if len(hash) <= 18 {
		return hash
	}
	return hash[:10] + "…" + hash[len(hash)-6:]
}

var _ Renderer[[]*models.Transaction] = (*TransactionsRenderer)(nil)
