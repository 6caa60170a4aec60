package domain

import (
	"encoding/json"
	"fmt"
	"sort"
)

// ActionKind names a mutating contract message
type ActionKind string

const (
	ActionIncrement ActionKind = "increment"
	ActionReset     ActionKind = "reset"
	ActionGenerate  ActionKind = "generate"
	ActionClear     ActionKind = "clear"
)

// QueryKind names a read-only contract query
type QueryKind string

const (
	QueryGetCount    QueryKind = "get_count"
	QueryGetMaps     QueryKind = "get_maps"
	QueryGetMap      QueryKind = "get_map"
	QueryGetMapCount QueryKind = "get_map_count"
)

// Action is one of the execute messages the contract understands.
// The set is closed: only types in this package implement it.
type Action interface {
	Kind() ActionKind
	payload() any
}

// Query is one of the query messages the contract understands.
type Query interface {
	Kind() QueryKind
	payload() any
}

type (
	Increment struct{}
	Reset     struct {
		Count int32 `json:"count"`
	}
	Generate struct{}
	Clear    struct{}
)

func (Increment) Kind() ActionKind { return ActionIncrement }
func (Reset) Kind() ActionKind     { return ActionReset }
func (Generate) Kind() ActionKind  { return ActionGenerate }
func (Clear) Kind() ActionKind     { return ActionClear }

func (a Increment) payload() any { return a }
func (a Reset) payload() any     { return a }
func (a Generate) payload() any  { return a }
func (a Clear) payload() any     { return a }

type (
	GetCount struct{}
	GetMaps  struct{}
	GetMap   struct {
		Index uint64 `json:"index"`
	}
	GetMapCount struct{}
)

func (GetCount) Kind() QueryKind    { return QueryGetCount }
func (GetMaps) Kind() QueryKind     { return QueryGetMaps }
func (GetMap) Kind() QueryKind      { return QueryGetMap }
func (GetMapCount) Kind() QueryKind { return QueryGetMapCount }

func (q GetCount) payload() any    { return q }
func (q GetMaps) payload() any     { return q }
func (q GetMap) payload() any      { return q }
func (q GetMapCount) payload() any { return q }

// EncodeAction renders an action as {"<kind>": {...}}
func EncodeAction(a Action) (json.RawMessage, error) {
	return encodeTagged(string(a.Kind()), a.payload())
}

// EncodeQuery renders a query as {"<kind>": {...}}
func EncodeQuery(q Query) (json.RawMessage, error) {
	return encodeTagged(string(q.Kind()), q.payload())
}

func encodeTagged(tag string, body any) (json.RawMessage, error) {
	data, err := json.Marshal(map[string]any{tag: body})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s message: %w", tag, err)
	}
	return data, nil
}

// ActionNames returns the names of all known actions, sorted
func ActionNames() []string {
	names := []string{
		string(ActionIncrement),
		string(ActionReset),
		string(ActionGenerate),
		string(ActionClear),
	}
	sort.Strings(names)
	return names
}

// QueryNames returns the names of all known queries, sorted
func QueryNames() []string {
	names := []string{
		string(QueryGetCount),
		string(QueryGetMaps),
		string(QueryGetMap),
		string(QueryGetMapCount),
	}
	sort.Strings(names)
	return names
}

// RefreshQuery returns the query whose result an action changes
func RefreshQuery(kind ActionKind) Query {
	switch kind {
	case ActionGenerate, ActionClear:
		return GetMaps{}
	default:
		return GetCount{}
	}
}

// CountResponse is the answer to get_count
type CountResponse struct {
	Count int32 `json:"count"`
}

// MapsResponse is the answer to get_maps
type MapsResponse struct {
	Maps []string `json:"maps"`
}

// MapResponse is the answer to get_map
type MapResponse struct {
	Index uint64 `json:"index"`
	Map   string `json:"map"`
}

// MapCountResponse is the answer to get_map_count
type MapCountResponse struct {
	Count uint64 `json:"count"`
}
