package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Config holds the tool's file paths and run options. Every field has a
// default, so running without a config file works out of the box.
type Config struct {
	Dataset    string   `json:"dataset"`     // transactions table, .csv or .xlsx
	SheetName  string   `json:"sheet_name"`  // worksheet for .xlsx input, first sheet when empty
	Image      string   `json:"image"`       // composite chart output
	XLSXReport string   `json:"xlsx_report"` // insight workbook output, disabled when empty
	Every      Duration `json:"every"`       // re-run interval, single run when zero
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Dataset: "shopping_trends_dataset.csv",
		Image:   "shopping_trends_analysis.png",
	}
}

// Load reads the JSON config at path over the defaults. A missing file is
// not an error: the defaults are returned as is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Duration wraps time.Duration so config files can use strings like "15m".
type Duration time.Duration

// UnmarshalJSON parses a duration string.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalJSON renders the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
