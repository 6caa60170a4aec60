package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/manifoldco/promptui/list"
	"github.com/sahilm/fuzzy"

	"github.com/trebuchet-org/raffle-cli/internal/adapters/signer"
	"github.com/trebuchet-org/raffle-cli/internal/domain"
	"github.com/trebuchet-org/raffle-cli/internal/domain/config"
	"github.com/trebuchet-org/raffle-cli/internal/usecase"
)

// SelectorAdapter handles interactive selection, confirmation and secrets
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates the adapter. Every prompt refuses to run with
// --non-interactive.
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// Select asks the user to pick one of items and returns its index
func (s *SelectorAdapter) Select(ctx context.Context, label string, items []string) (int, error) {
	switch {
	case s.config.NonInteractive:
		return -1, fmt.Errorf("%w: cannot choose a %s in non-interactive mode", domain.ErrConfiguration, strings.ToLower(label))
	case len(items) == 0:
		return -1, fmt.Errorf("no %s to choose from", strings.ToLower(label))
	}

	sel := promptui.Select{
		Label: label,
		Items: items,
		Size:  len(items),
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . | bold }}",
			Active:   "› {{ . | cyan | bold }}",
			Inactive: "  {{ . }}",
			Selected: "{{ . | green }}",
			Help:     color.New(color.Faint).Sprint("↑/↓ to move, type to filter, enter to pick"),
		},
		Searcher:          nameSearcher(items),
		StartInSearchMode: len(items) > 6,
	}

	idx, _, err := sel.Run()
	if err != nil {
		return -1, promptError(err)
	}
	return idx, nil
}

// Confirm asks a yes/no question. Non-interactive mode answers no.
func (s *SelectorAdapter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if s.config.NonInteractive {
		return false, nil
	}

	confirm := promptui.Prompt{
		Label:     prompt,
		IsConfirm: true,
	}

	if _, err := confirm.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, promptError(err)
	}
	return true, nil
}

// PromptPassword reads a secret with masked input
func (s *SelectorAdapter) PromptPassword(ctx context.Context, label string) (string, error) {
	if s.config.NonInteractive {
		return "", fmt.Errorf("%w: password prompt not available in non-interactive mode", domain.ErrConfiguration)
	}

	prompt := promptui.Prompt{
		Label: label,
		Mask:  '*',
	}

	password, err := prompt.Run()
	if err != nil {
		return "", promptError(err)
	}
	return password, nil
}

// promptError maps an aborted prompt to a user rejection
func promptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return fmt.Errorf("%w: %v", domain.ErrUserRejected, err)
	}
	return err
}

// nameSearcher filters promptui items by fuzzy match. promptui calls it once
// per item for the same input, so the matches are computed once per input.
func nameSearcher(items []string) list.Searcher {
	lowered := make([]string, len(items))
	for i, item := range items {
		lowered[i] = strings.ToLower(item)
	}

	var (
		lastInput string
		matched   map[int]bool
	)
	return func(input string, index int) bool {
		input = strings.ToLower(strings.TrimSpace(input))
		if input == "" {
			return true
		}
		if matched == nil || input != lastInput {
			lastInput = input
			matched = make(map[int]bool)
			for _, m := range fuzzy.Find(input, lowered) {
				matched[m.Index] = true
			}
		}
		return matched[index]
	}
}

var (
	_ usecase.Confirmer       = (*SelectorAdapter)(nil)
	_ usecase.Selector        = (*SelectorAdapter)(nil)
	_ signer.PasswordPrompter = (*SelectorAdapter)(nil)
)
