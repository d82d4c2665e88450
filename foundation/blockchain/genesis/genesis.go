// Package genesis maintains access to the genesis parameters that a new
// ledger starts with.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Bounds for the proof of work difficulty. Past six leading zeros the
// expected mining time is no longer tractable.
const (
	MinDifficulty = 1
	MaxDifficulty = 6
)

// Genesis represents the genesis file.
type Genesis struct {
	Date         time.Time `json:"date"`
	Difficulty   int       `json:"difficulty"`    // How difficult it needs to be to solve the work problem.
	MiningReward float64   `json:"mining_reward"` // Reward for mining a block.
}

// Default returns the genesis parameters used when no file is provided.
func Default() Genesis {
	return Genesis{
		Date:         time.Now().UTC(),
		Difficulty:   2,
		MiningReward: 100,
	}
}

// =============================================================================

// Load opens and consumes the genesis file. An empty path returns the
// default parameters.
func Load(path string) (Genesis, error) {
	if path == "" {
		return Default(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	genesis := Default()
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	if genesis.MiningReward < 0 {
		return Genesis{}, fmt.Errorf("mining reward must not be negative, got %v", genesis.MiningReward)
	}
	genesis.Difficulty = ClampDifficulty(genesis.Difficulty)

	return genesis, nil
}

// ClampDifficulty bounds the difficulty to the supported range.
func ClampDifficulty(difficulty int) int {
	return max(MinDifficulty, min(MaxDifficulty, difficulty))
}
