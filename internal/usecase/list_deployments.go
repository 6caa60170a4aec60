package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/trebuchet-org/raffle-cli/internal/domain/models"
)

// ListDeploymentsParams contains parameters for listing the deployment history
type ListDeploymentsParams struct {
	Network string
}

// DeploymentListResult contains the deployment history, newest first
type DeploymentListResult struct {
	Deployments []*models.HistoryEntry
	Current     *models.DeploymentRecord
	Summary     DeploymentSummary
}

// DeploymentSummary provides summary statistics
type DeploymentSummary struct {
	Total     int
	ByNetwork map[string]int
	Resumed   int
}

// ListDeployments is a use case for listing deployments
type ListDeployments struct {
	history DeploymentHistory
	store   DeploymentStore
	sink    ProgressSink
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(history DeploymentHistory, store DeploymentStore, sink ProgressSink) *ListDeployments {
	return &ListDeployments{
		history: history,
		store:   store,
		sink:    sink,
	}
}

// Run executes the list deployments use case
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) (*DeploymentListResult, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: "Loading deployment history",
		Spinner: true,
	})

	entries, err := uc.history.ListDeployments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments: %w", err)
	}

	filtered := make([]*models.HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		if params.Network != "" && entry.Network != params.Network {
			continue
		}
		filtered = append(filtered, entry)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	result := &DeploymentListResult{
		Deployments: filtered,
		Summary: DeploymentSummary{
			Total:     len(filtered),
			ByNetwork: make(map[string]int),
		},
	}
	for _, entry := range filtered {
		result.Summary.ByNetwork[entry.Network]++
		if entry.Resumed {
			result.Summary.Resumed++
		}
	}

	if uc.store.Exists() {
		if current, err := uc.store.Load(ctx); err == nil {
			result.Current = current
		}
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "complete",
		Message: fmt.Sprintf("Found %d deployments", len(filtered)),
	})

	return result, nil
}
