package lookup

import (
	"fmt"
	"path/filepath"
)

// SelectFiles returns the parcel files under baseDir matching the ordered
// glob pattern list. Patterns rank most-processed variants first, so when
// duplicates of a logical dataset exist the most reliable one is chosen.
// A path matching several patterns appears once, at its first match's rank.
// Selection is purely by filename; no file content is inspected.
// Zero matches is not an error.
func SelectFiles(baseDir string, patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})

	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(baseDir, pattern))
		if err != nil {
			return nil, fmt.Errorf("bad file pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			abs, err := filepath.Abs(m)
			if err != nil {
				return nil, fmt.Errorf("resolving %s: %w", m, err)
			}
			if _, dup := seen[abs]; dup {
				continue
			}
			seen[abs] = struct{}{}
			files = append(files, abs)
		}
	}

	return files, nil
}
