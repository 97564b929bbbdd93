package health

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SaveMetrics writes a metrics snapshot to disk as JSON.
func SaveMetrics(path string, m DailyMetrics) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for metrics: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling metrics: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}

	return nil
}

// LoadMetrics reads a metrics snapshot from disk.
func LoadMetrics(path string) (DailyMetrics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DailyMetrics{}, fmt.Errorf("reading metrics: %w", err)
	}

	var m DailyMetrics
	if err := json.Unmarshal(data, &m); err != nil {
		return DailyMetrics{}, fmt.Errorf("unmarshaling metrics: %w", err)
	}

	return m, nil
}
