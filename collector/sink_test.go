package collector

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSinkAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dexlog.json")
	sink, err := NewFileSink(path)
	if err != nil {
		t.Fatalf("Failed to create sink: %v", err)
	}
	defer sink.Close()

	const count = 5
	for i := 0; i < count; i++ {
		entry := Entry{
			HexSize:   3,
			Timestamp: "2026-08-29T00:00:00Z",
			TxID:      fmt.Sprintf("tx%d", i),
			ProgramID: "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4",
			DexName:   "JupiterAggV6",
			Base64:    "AAEC",
			Hex:       "000102",
		}
		if err := sink.Append(entry); err != nil {
			t.Fatalf("Append %d failed: %v", i, err)
		}
	}

	lines := readLines(t, path)
	if len(lines) != count {
		t.Fatalf("Expected %d lines, got %d", count, len(lines))
	}

	// Each line must be independently parseable and in receipt order.
	for i, line := range lines {
		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("Line %d is not valid JSON: %v", i, err)
		}
		if entry.TxID != fmt.Sprintf("tx%d", i) {
			t.Errorf("Line %d: expected txid 'tx%d', got '%s'", i, i, entry.TxID)
		}
	}
}

func TestFileSinkAppendsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dexlog.json")

	entry := Entry{HexSize: 1, TxID: "first", Base64: "/w==", Hex: "ff"}

	sink, err := NewFileSink(path)
	if err != nil {
		t.Fatalf("Failed to create sink: %v", err)
	}
	if err := sink.Append(entry); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	sink.Close()

	// A new run must append, never truncate.
	sink, err = NewFileSink(path)
	if err != nil {
		t.Fatalf("Failed to reopen sink: %v", err)
	}
	entry.TxID = "second"
	if err := sink.Append(entry); err != nil {
		t.Fatalf("Append after reopen failed: %v", err)
	}
	sink.Close()

	lines := readLines(t, path)
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines after reopen, got %d", len(lines))
	}
}

func TestFileSinkKeyOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dexlog.json")
	sink, err := NewFileSink(path)
	if err != nil {
		t.Fatalf("Failed to create sink: %v", err)
	}
	defer sink.Close()

	if err := sink.Append(Entry{HexSize: 3, Timestamp: "ts", TxID: "tx1", ProgramID: "pid", DexName: "dex", Base64: "AAEC", Hex: "000102"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	lines := readLines(t, path)
	want := `{"hexsize":3,"timestamp":"ts","txid":"tx1","programid":"pid","dexname":"dex","base64":"AAEC","hex":"000102"}`
	if lines[0] != want {
		t.Errorf("Unexpected serialized record:\n got %s\nwant %s", lines[0], want)
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return lines
}
