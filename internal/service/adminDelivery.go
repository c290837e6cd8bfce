package service

import (
	"context"
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/states.yaml
var statesYAML []byte

type State struct {
	Name string `yaml:"name" json:"name"`
	Code string `yaml:"code" json:"code"`
}

// StateCatalogue is the fixed list of states delivery can be switched on for.
type StateCatalogue struct {
	states []State
}

func LoadStateCatalogue() (*StateCatalogue, error) {
	return parseStateCatalogue(statesYAML)
}

func parseStateCatalogue(raw []byte) (*StateCatalogue, error) {
	var doc struct {
		States []State `yaml:"states"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse state catalogue: %w", err)
	}
	if len(doc.States) == 0 {
		return nil, fmt.Errorf("state catalogue is empty")
	}
	return &StateCatalogue{states: doc.States}, nil
}

func (c *StateCatalogue) All() []State {
	return slices.Clone(c.states)
}

// Search matches a case-insensitive substring of the state name.
func (c *StateCatalogue) Search(query string) []State {
	query = strings.ToLower(strings.TrimSpace(query))
	matches := []State{}
	for _, st := range c.states {
		if strings.Contains(strings.ToLower(st.Name), query) {
			matches = append(matches, st)
		}
	}
	return matches
}

func (c *StateCatalogue) index(name string) int {
	return slices.IndexFunc(c.states, func(st State) bool { return strings.EqualFold(st.Name, name) })
}

// Canonical returns the names in catalogue order without duplicates. Unknown
// names are an error.
func (c *StateCatalogue) Canonical(names []string) ([]string, error) {
	seen := make([]bool, len(c.states))
	for _, name := range names {
		i := c.index(strings.TrimSpace(name))
		if i < 0 {
			return nil, invalid("enabled_states", fmt.Sprintf("unknown state %q", name))
		}
		seen[i] = true
	}

	out := []string{}
	for i, ok := range seen {
		if ok {
			out = append(out, c.states[i].Name)
		}
	}
	return out, nil
}

func (s *adminServiceImpl) DeliveryStates(ctx context.Context) ([]string, error) {
	states, err := s.adminApi.DeliveryStates(ctx)
	if err != nil {
		return nil, fmt.Errorf("get delivery states: %w", err)
	}
	if states == nil {
		states = []string{}
	}
	return states, nil
}

func (s *adminServiceImpl) SaveDeliveryStates(ctx context.Context, states []string) ([]string, error) {
	canonical, err := s.states.Canonical(states)
	if err != nil {
		return nil, err
	}
	if err := s.adminApi.SaveDeliveryStates(ctx, canonical); err != nil {
		return nil, fmt.Errorf("save delivery states: %w", err)
	}
	return canonical, nil
}

func (s *adminServiceImpl) SearchStates(query string) []State {
	return s.states.Search(query)
}
