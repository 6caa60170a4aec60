package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trebuchet-org/raffle-cli/internal/domain"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		args     actionArgs
		expected domain.Action
		errMsg   string
	}{
		{name: "increment", input: "increment", expected: domain.Increment{}},
		{name: "case insensitive", input: "Generate", expected: domain.Generate{}},
		{name: "reset carries count", input: "reset", args: actionArgs{count: 4}, expected: domain.Reset{Count: 4}},
		{name: "clear", input: "clear", expected: domain.Clear{}},
		{name: "typo gets suggestion", input: "incremnt", errMsg: "did you mean increment?"},
		{name: "unknown lists actions", input: "zzz", errMsg: "Available: clear, generate, increment, reset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, err := parseAction(tt.input, tt.args)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, action)
		})
	}
}

func TestParseQuery(t *testing.T) {
	query, err := parseQuery("get_map", queryArgs{index: 2})
	require.NoError(t, err)
	assert.Equal(t, domain.GetMap{Index: 2}, query)

	query, err = parseQuery("get_count", queryArgs{})
	require.NoError(t, err)
	assert.Equal(t, domain.GetCount{}, query)

	_, err = parseQuery("get_mapz", queryArgs{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean")
}
