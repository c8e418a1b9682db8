package collector

import (
	"regexp"

	"github.com/solwatch/dexlogs/registry"
)

// invokePattern recognizes program invocation log lines. Base58 program IDs
// are at least 32 characters, which is enough to keep short tokens in
// unrelated log text from matching.
var invokePattern = regexp.MustCompile(`Program (\w{32,}) invoke`)

// ProgramMatch is one registered program recognized in a notification's logs.
type ProgramMatch struct {
	ProgramID string
	DexName   string
}

// Matcher filters transaction logs down to invocations of registered
// programs.
type Matcher struct {
	registry *registry.Registry
}

// NewMatcher creates a matcher backed by the given program registry.
func NewMatcher(reg *registry.Registry) *Matcher {
	return &Matcher{registry: reg}
}

// Match extracts the set of invoked program IDs from the ordered log lines
// and intersects it with the registry. A program invoked more than once in
// the same transaction (nested calls) yields a single match. Matches are
// returned in order of first appearance.
func (m *Matcher) Match(logs []string) []ProgramMatch {
	var matches []ProgramMatch
	seen := make(map[string]bool)

	for _, line := range logs {
		groups := invokePattern.FindStringSubmatch(line)
		if groups == nil {
			continue
		}
		id := groups[1]
		if seen[id] {
			continue
		}
		seen[id] = true

		if name, ok := m.registry.Lookup(id); ok {
			matches = append(matches, ProgramMatch{ProgramID: id, DexName: name})
		}
	}

	return matches
}
