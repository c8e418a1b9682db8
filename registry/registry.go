package registry

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Registry maps Solana program IDs to the name of the DEX that owns them.
// It is built once at startup and read-only afterwards, so it is safe to
// share across goroutines without synchronization.
type Registry struct {
	programs map[string]string
}

// New builds a registry from the given ID-to-name table. Keys are trimmed
// of surrounding whitespace; duplicate keys are last-write-wins.
func New(programs map[string]string) *Registry {
	r := &Registry{programs: make(map[string]string, len(programs))}
	for id, name := range programs {
		r.programs[strings.TrimSpace(id)] = name
	}
	return r
}

// Lookup returns the DEX name for a program ID. Absence is a normal
// outcome, not an error: most transactions invoke programs we do not track.
func (r *Registry) Lookup(id string) (string, bool) {
	name, ok := r.programs[id]
	return name, ok
}

// Len returns the number of registered programs.
func (r *Registry) Len() int {
	return len(r.programs)
}

// LoadFile builds a registry from a YAML file containing a flat
// program-ID-to-name mapping.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}

	var programs map[string]string
	if err := yaml.Unmarshal(data, &programs); err != nil {
		return nil, fmt.Errorf("failed to parse registry file: %w", err)
	}
	if len(programs) == 0 {
		return nil, fmt.Errorf("registry file %s contains no programs", path)
	}

	return New(programs), nil
}

// Default returns the built-in table of known DEX programs on Solana
// mainnet.
func Default() *Registry {
	return New(map[string]string{
		"JSW99DKmxNyREQM14SQLDykeBvEUG63TeohrvmofEiw":  "ApePro",
		"JUP4Fb2cqiRUcaTHdrPC8h2gNsA2ETXiPDD33WcGuJB":  "JupiterAggV4",
		"JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4":  "JupiterAggV6",
		"DCA265Vj8a9CEuX1eb1LWRnDT7uK6q1xMipnNyatn23M": "JupiterDCA",
		"j1o2qRpjcyUwEvwtcfhEQefh773ZgjxcVRry7LDqg5X":  "JupiterLimit",
		"6LtLpnUFNByNXLyCoK9wA2MykKAmQNZKBdY8s47dehDc": "Kamino",
		"EewxydAPCCVuNEyrVN68PuSYdQ7wKn27V9Gjeoi8dy3S": "LifinityV1",
		"2wT8Yq49kHgDzXuPxZSaeLaH1qbmGXtEyPy64bL7aD3c": "LifinityV2",
		"LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo":  "MeteoraDLMM",
		"Eo7WjKq67rjJQSZxS6z3YkapzY3eMj6Xy8X5EQVn5UaB": "MeteoraPools",
		"dbcij3LWUppWqq96dh6gJWwBifmcGfLSB5D4DuSMaqN":  "MeteoraDBC",
		"cpamdpZCGKUy5JxQXB4dcpGPiikHawvSWAd6mEn1sGG":  "MeteoraDAMM",
		"opnb2LAfJYbRMAHHvqjCwQxanZn7ReEHp1k81EohpZb":  "OpenBook",
		"whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc":  "OrcaWhirlpool",
		"DjVE6JNiYqPL2QXyCUUh8rNjHrbz9hXHNYt99MQ59qw1": "OrcaSwapV1",
		"9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTEdp3aQP": "OrcaSwapV2",
		"PhoeNiXZ8ByJGLkxNfZRnkUfjvmuYqLR89jjFHGqdXY":  "Phoenix",
		"6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P":  "Pumpfun",
		"pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA":  "Pumpswap",
		"675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8": "RaydiumLP",
		"5quBtoiQqxF9Jv6KYKctB59NT3gtJD2Y65kdnB1Uev3h": "RaydiumLPAMM",
		"CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK": "RaydiumCL",
		"CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C": "RaydiumCPMM",
		"LanMV9sAd7wArD4vJFi2qDdfnVhFxYSUg6eADduJ3uj":  "RaydiumLaunchpad",
		"stkitrT1Uoy18Dk1fTrgPw8W6MVzoCfYoAFT4MLsmhq":  "SanctumRouter",
		"5ocnV1qiCgaQR8Jb8xWnVbApfaygJ8tNoZfgPwsgx9kx": "SanctumController",
		"swapNyd8XiQwJ6ianp9snpu4brUqFxadzvHebnAXjJZ":  "StableWidth",
		"swapFpHZwjELNnjvThjajtiVmkz3yPQEHjLtka2fwHW":  "StableWeight",
	})
}
