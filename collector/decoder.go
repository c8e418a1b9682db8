package collector

import (
	"encoding/base64"
	"encoding/hex"
	"strings"

	"go.uber.org/zap"
)

// dataPrefix marks log lines that carry a base64-encoded program payload.
const dataPrefix = "Program data:"

// Payload is one successfully decoded program data blob.
type Payload struct {
	Base64 string // original encoded form, verbatim
	Bytes  []byte
}

// Hex returns the lowercase hex encoding of the decoded bytes.
func (p Payload) Hex() string {
	return hex.EncodeToString(p.Bytes)
}

// Decoder scans transaction logs for program data lines and decodes them.
type Decoder struct {
	logger *zap.Logger
}

// NewDecoder creates a decoder. Decode failures are logged through the
// given logger.
func NewDecoder(logger *zap.Logger) *Decoder {
	return &Decoder{logger: logger}
}

// Decode scans the ordered log lines for payload-bearing lines and decodes
// each one. A line that fails base64 decoding is skipped; remaining lines
// are still scanned. Returns the decoded payloads (zero when no line
// carries data) and the number of lines that failed to decode.
func (d *Decoder) Decode(logs []string) ([]Payload, int) {
	var payloads []Payload
	failed := 0

	for _, line := range logs {
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}
		encoded := strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))

		raw, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			failed++
			d.logger.Warn("Failed to decode program data line",
				zap.String("data", encoded),
				zap.Error(err),
			)
			continue
		}

		payloads = append(payloads, Payload{Base64: encoded, Bytes: raw})
	}

	return payloads, failed
}
