package collector

import (
	"testing"

	"github.com/solwatch/dexlogs/registry"
)

func testRegistry() *registry.Registry {
	return registry.New(map[string]string{
		"JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4": "JupiterAggV6",
		"PhoeNiXZ8ByJGLkxNfZRnkUfjvmuYqLR89jjFHGqdXY": "Phoenix",
	})
}

func TestMatchRecognizedProgram(t *testing.T) {
	m := NewMatcher(testRegistry())

	logs := []string{
		"Program JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4 invoke [1]",
		"Program log: route",
		"Program JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4 success",
	}

	matches := m.Match(logs)
	if len(matches) != 1 {
		t.Fatalf("Expected 1 match, got %d", len(matches))
	}
	if matches[0].ProgramID != "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4" {
		t.Errorf("Unexpected program ID: %s", matches[0].ProgramID)
	}
	if matches[0].DexName != "JupiterAggV6" {
		t.Errorf("Expected DexName 'JupiterAggV6', got '%s'", matches[0].DexName)
	}
}

func TestMatchUnregisteredProgram(t *testing.T) {
	m := NewMatcher(testRegistry())

	logs := []string{
		"Program TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA invoke [1]",
	}

	if matches := m.Match(logs); len(matches) != 0 {
		t.Errorf("Expected no matches for unregistered program, got %d", len(matches))
	}
}

func TestMatchDeduplicatesNestedInvocations(t *testing.T) {
	m := NewMatcher(testRegistry())

	logs := []string{
		"Program JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4 invoke [1]",
		"Program JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4 invoke [2]",
	}

	if matches := m.Match(logs); len(matches) != 1 {
		t.Errorf("Expected nested invocations to collapse to 1 match, got %d", len(matches))
	}
}

func TestMatchIgnoresShortTokens(t *testing.T) {
	m := NewMatcher(testRegistry())

	// Tokens under 32 characters are noise, not program IDs.
	logs := []string{
		"Program shortid invoke [1]",
		"Program log: something else",
	}

	if matches := m.Match(logs); len(matches) != 0 {
		t.Errorf("Expected no matches for short tokens, got %d", len(matches))
	}
}

func TestMatchOrderOfFirstAppearance(t *testing.T) {
	m := NewMatcher(testRegistry())

	logs := []string{
		"Program PhoeNiXZ8ByJGLkxNfZRnkUfjvmuYqLR89jjFHGqdXY invoke [1]",
		"Program JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4 invoke [1]",
	}

	matches := m.Match(logs)
	if len(matches) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(matches))
	}
	if matches[0].DexName != "Phoenix" || matches[1].DexName != "JupiterAggV6" {
		t.Errorf("Expected matches in first-appearance order, got %s then %s",
			matches[0].DexName, matches[1].DexName)
	}
}

func TestMatchEmptyLogs(t *testing.T) {
	m := NewMatcher(testRegistry())

	if matches := m.Match(nil); len(matches) != 0 {
		t.Errorf("Expected no matches for empty logs, got %d", len(matches))
	}
}
