package savegame

import (
	"encoding/json"
	"fmt"

	"github.com/cory-johannsen/creatures/internal/game/species"
	"github.com/cory-johannsen/creatures/internal/game/trainer"
)

const indent = "    "

// envelope is the top-level layout of a save file.
type envelope struct {
	Trainer *Record `json:"trainer"`
}

// Marshal renders t as an indented save file document.
func Marshal(t *trainer.Trainer) ([]byte, error) {
	rec := Encode(t)
	data, err := json.MarshalIndent(envelope{Trainer: &rec}, "", indent)
	if err != nil {
		return nil, fmt.Errorf("encoding save file: %w", err)
	}
	return data, nil
}

// Unmarshal parses a save file document. A document without a trainer
// object yields a default trainer.
func Unmarshal(data []byte, cat *species.Catalog) (*trainer.Trainer, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decoding save file: %w", err)
	}
	if env.Trainer == nil {
		return trainer.NewDefault(), nil
	}
	return Decode(*env.Trainer, cat)
}

// MarshalRecord renders t as a bare record, the form kept by database stores.
func MarshalRecord(t *trainer.Trainer) ([]byte, error) {
	data, err := json.Marshal(Encode(t))
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	return data, nil
}

// UnmarshalRecord parses a bare record produced by MarshalRecord.
func UnmarshalRecord(data []byte, cat *species.Catalog) (*trainer.Trainer, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return Decode(rec, cat)
}
