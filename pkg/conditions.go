package evoked

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/exp/maps"
)

// ConditionMap maps hierarchical condition names to event label codes.
// Names may carry `/`-separated components ("auditory/left"); a query
// matches a condition when it equals the full name or one of its
// components. Component sets are precomputed at construction, the map is
// immutable afterwards.
type ConditionMap struct {
	names      []string
	codes      map[string][]int
	components map[string][]string
}

func NewConditionMap(conditions map[string][]int) (*ConditionMap, error) {
	names := maps.Keys(conditions)
	sort.Strings(names)

	cm := &ConditionMap{
		names:      names,
		codes:      make(map[string][]int, len(names)),
		components: make(map[string][]string, len(names)),
	}
	owner := make(map[int]string)
	for _, name := range names {
		codes := conditions[name]
		if len(codes) == 0 {
			return nil, fmt.Errorf("condition %q has no label codes", name)
		}
		parts := strings.Split(name, "/")
		for _, part := range parts {
			if part == "" {
				return nil, fmt.Errorf("condition %q has an empty component", name)
			}
		}
		for _, code := range codes {
			if other, ok := owner[code]; ok {
				return nil, fmt.Errorf("label code %d assigned to both %q and %q", code, other, name)
			}
			owner[code] = name
		}
		cm.codes[name] = append([]int(nil), codes...)
		cm.components[name] = parts
	}
	return cm, nil
}

func (c *ConditionMap) Names() []string {
	return c.names
}

// Resolve returns the condition names matching the query, in name order.
func (c *ConditionMap) Resolve(key string) ([]string, error) {
	var matched []string
	for _, name := range c.names {
		if c.matches(name, key) {
			matched = append(matched, name)
		}
	}
	if len(matched) == 0 {
		return nil, &ErrUnknownCondition{Key: key, Known: c.names}
	}
	return matched, nil
}

// Codes returns the union of label codes of all conditions matching the
// query.
func (c *ConditionMap) Codes(key string) ([]int, error) {
	matched, err := c.Resolve(key)
	if err != nil {
		return nil, err
	}
	var codes []int
	for _, name := range matched {
		codes = append(codes, c.codes[name]...)
	}
	return codes, nil
}

func (c *ConditionMap) matches(name string, key string) bool {
	if name == key {
		return true
	}
	for _, part := range c.components[name] {
		if part == key {
			return true
		}
	}
	return false
}
