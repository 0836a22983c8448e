package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteReports writes the rendered log of every report into dir, one file
// per scenario, and returns the written paths. format is "text" or "html".
func WriteReports(dir, format string, reports []*Report) ([]string, error) {
	ext := "txt"
	if format == "html" {
		ext = "html"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("runner: creating report dir: %w", err)
	}

	written := make([]string, 0, len(reports))
	for _, rep := range reports {
		body := rep.Text
		if ext == "html" {
			body = rep.HTML
		}
		if body == "" {
			continue
		}
		path := filepath.Join(dir, reportName(rep, ext))
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return written, fmt.Errorf("runner: writing report %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// reportName derives a file name from the scenario file name and its ID so
// two files with the same base name do not collide.
func reportName(rep *Report, ext string) string {
	base := filepath.Base(rep.Path)
	for _, suffix := range []string{".toml", ".yaml", ".yml"} {
		base = strings.TrimSuffix(base, suffix)
	}
	base = strings.TrimSuffix(base, ".scenario")
	id := rep.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("%s-%s.%s", base, id, ext)
}
