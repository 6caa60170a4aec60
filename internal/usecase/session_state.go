package usecase

import (
	"encoding/json"
	"sync"

	"github.com/trebuchet-org/raffle-cli/internal/domain"
)

// SessionState holds the latest result of each query kind. A new result
// replaces the previous one for its kind; nothing is merged.
type SessionState struct {
	mu      sync.RWMutex
	results map[domain.QueryKind]json.RawMessage
}

func newSessionState() *SessionState {
	return &SessionState{results: make(map[domain.QueryKind]json.RawMessage)}
}

func (s *SessionState) set(kind domain.QueryKind, raw json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[kind] = append(json.RawMessage(nil), raw...)
}

// Raw returns the latest raw result for a query kind
func (s *SessionState) Raw(kind domain.QueryKind) (json.RawMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.results[kind]
	return raw, ok
}

// Maps returns the maps from the latest get_maps result
func (s *SessionState) Maps() []string {
	var resp domain.MapsResponse
	if !s.decode(domain.QueryGetMaps, &resp) {
		return nil
	}
	return resp.Maps
}

// Count returns the counter from the latest get_count result
func (s *SessionState) Count() (int32, bool) {
	var resp domain.CountResponse
	if !s.decode(domain.QueryGetCount, &resp) {
		return 0, false
	}
	return resp.Count, true
}

func (s *SessionState) decode(kind domain.QueryKind, v any) bool {
	raw, ok := s.Raw(kind)
	if !ok {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}
