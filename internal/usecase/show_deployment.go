package usecase

import (
	"context"

	"github.com/samber/lo"

	"github.com/trebuchet-org/raffle-cli/internal/domain/models"
)

// ShowDeploymentResult is the latest record plus its history entry, if any
type ShowDeploymentResult struct {
	Record *models.DeploymentRecord
	Entry  *models.HistoryEntry
	Path   string
}

// ShowDeployment loads the record that sessions talk to
type ShowDeployment struct {
	store   DeploymentStore
	history DeploymentHistory
}

// NewShowDeployment creates a new ShowDeployment use case
func NewShowDeployment(store DeploymentStore, history DeploymentHistory) *ShowDeployment {
	return &ShowDeployment{
		store:   store,
		history: history,
	}
}

// Run returns domain.ErrNotFound when nothing has been deployed. A history
// that cannot be read only drops the extra metadata.
func (uc *ShowDeployment) Run(ctx context.Context) (*ShowDeploymentResult, error) {
	record, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	result := &ShowDeploymentResult{
		Record: record,
		Path:   uc.store.GetPath(),
	}

	if entries, err := uc.history.ListDeployments(ctx); err == nil {
		matching := lo.Filter(entries, func(e *models.HistoryEntry, _ int) bool {
			return e.Record.ContractAddress == record.ContractAddress
		})
		if len(matching) > 0 {
			result.Entry = lo.MaxBy(matching, func(a, b *models.HistoryEntry) bool {
				return a.CreatedAt.After(b.CreatedAt)
			})
		}
	}

	return result, nil
}
