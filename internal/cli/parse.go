package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/trebuchet-org/raffle-cli/internal/adapters/interactive"
	"github.com/trebuchet-org/raffle-cli/internal/domain"
	"github.com/trebuchet-org/raffle-cli/internal/usecase"
)

// actionArgs holds the flag values an action may need
type actionArgs struct {
	count int32
}

// queryArgs holds the flag values a query may need
type queryArgs struct {
	index uint64
}

// parseAction maps a name to an action, suggesting close matches on a typo
func parseAction(name string, args actionArgs) (domain.Action, error) {
	switch domain.ActionKind(strings.ToLower(name)) {
	case domain.ActionIncrement:
		return domain.Increment{}, nil
	case domain.ActionReset:
		return domain.Reset{Count: args.count}, nil
	case domain.ActionGenerate:
		return domain.Generate{}, nil
	case domain.ActionClear:
		return domain.Clear{}, nil
	}
	return nil, unknownName("action", name, domain.ActionNames())
}

// parseQuery maps a name to a query, suggesting close matches on a typo
func parseQuery(name string, args queryArgs) (domain.Query, error) {
	switch domain.QueryKind(strings.ToLower(name)) {
	case domain.QueryGetCount:
		return domain.GetCount{}, nil
	case domain.QueryGetMaps:
		return domain.GetMaps{}, nil
	case domain.QueryGetMap:
		return domain.GetMap{Index: args.index}, nil
	case domain.QueryGetMapCount:
		return domain.GetMapCount{}, nil
	}
	return nil, unknownName("query", name, domain.QueryNames())
}

func unknownName(what, name string, known []string) error {
	msg := fmt.Sprintf("unknown %s %q", what, name)
	if suggestions := interactive.Suggest(name, known); len(suggestions) > 0 {
		msg += fmt.Sprintf(", did you mean %s?", strings.Join(suggestions, " or "))
	}
	return fmt.Errorf("%s\nAvailable: %s", msg, strings.Join(known, ", "))
}

// pickName returns args[0], or asks the user to choose when no name was given
func pickName(ctx context.Context, selector usecase.Selector, label string, args []string, known []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	idx, err := selector.Select(ctx, label, known)
	if err != nil {
		return "", err
	}
	return known[idx], nil
}
