package cooldown

import (
	"encoding/json"
	"os"

	"TradeBench/internal/model"
)

// LoadState reads persisted cooldown states, keyed by symbol. A missing
// file yields an empty map.
func LoadState(filePath string) (map[string]model.CooldownState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]model.CooldownState{}, nil
		}
		return nil, err
	}
	states := map[string]model.CooldownState{}
	if err := json.Unmarshal(data, &states); err != nil {
		return nil, err
	}
	return states, nil
}

// SaveState writes the cooldown states to a JSON file.
func SaveState(filePath string, states map[string]model.CooldownState) error {
	data, err := json.MarshalIndent(states, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
