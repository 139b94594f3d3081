package matrix

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Summary is the JSON document written when a summary path is configured.
// It wraps the report with enough context to identify the run later.
type Summary struct {
	RunID    string `json:"run_id"`
	Platform string `json:"platform"`
	Command  string `json:"command"`
	Report
}

// WriteSummary persists the summary as a single JSON object, creating
// parent directories as needed.
func WriteSummary(path string, s Summary) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create summary dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create summary: %w", err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return nil
}
