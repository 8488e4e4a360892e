package excel

import (
	"autobi/adapters/coercer"
)

// Config holds settings for reading uploaded spreadsheets. An empty Sheet
// reads the first sheet; a MaxRows of zero or less is unbounded.
type Config struct {
	Sheet    string                 `json:"sheet" yaml:"sheet"`
	MaxRows  int                    `json:"max_rows" yaml:"max_rows"`
	Coercion coercer.CoercionConfig `json:"coercion" yaml:"coercion"`
}

// DefaultConfig returns sensible defaults for spreadsheet ingestion
func DefaultConfig() Config {
	return Config{
		MaxRows:  100000,
		Coercion: coercer.DefaultCoercionConfig(),
	}
}
