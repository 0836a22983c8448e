package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Discover returns the files under root matching any of patterns, sorted and
// without duplicates. Absolute patterns are matched as given; relative ones
// are resolved against root.
func Discover(root string, patterns []string) ([]string, error) {
	fsys := os.DirFS(root)
	seen := make(map[string]struct{})
	var out []string

	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return nil, fmt.Errorf("loader: invalid pattern %q", pattern)
		}
		if filepath.IsAbs(pattern) {
			matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("loader: matching %q: %w", pattern, err)
			}
			for _, m := range matches {
				add(m)
			}
			continue
		}
		matches, err := doublestar.Glob(fsys, filepath.ToSlash(pattern), doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("loader: matching %q: %w", pattern, err)
		}
		for _, m := range matches {
			add(filepath.Join(root, filepath.FromSlash(m)))
		}
	}

	sort.Strings(out)
	return out, nil
}
