package collector

// Entry is one persisted record: a decoded program data payload attributed
// to a recognized DEX program. Field order matters — downstream consumers
// parse the serialized keys positionally, so it must stay exactly
// hexsize, timestamp, txid, programid, dexname, base64, hex.
type Entry struct {
	HexSize   int    `json:"hexsize"`
	Timestamp string `json:"timestamp"`
	TxID      string `json:"txid"`
	ProgramID string `json:"programid"`
	DexName   string `json:"dexname"`
	Base64    string `json:"base64"`
	Hex       string `json:"hex"`
}

// buildEntry composes one entry from a recognized program, the transaction
// signature, the shared capture timestamp and one decoded payload.
func buildEntry(match ProgramMatch, txid, timestamp string, payload Payload) Entry {
	return Entry{
		HexSize:   len(payload.Bytes),
		Timestamp: timestamp,
		TxID:      txid,
		ProgramID: match.ProgramID,
		DexName:   match.DexName,
		Base64:    payload.Base64,
		Hex:       payload.Hex(),
	}
}
