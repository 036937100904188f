package common

import (
	"os"
	"path/filepath"
)

// ExpandPatterns resolves paths and glob patterns to regular files in the
// order given. Patterns that match no regular file are returned as unmatched.
// Duplicates are kept.
func ExpandPatterns(patterns []string) ([]PendingFile, []string) {
	var files []PendingFile
	var unmatched []string

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil || len(matches) == 0 {
			unmatched = append(unmatched, pattern)
			continue
		}

		added := 0
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			files = append(files, NewPendingFile(match))
			added++
		}
		if added == 0 {
			unmatched = append(unmatched, pattern)
		}
	}

	return files, unmatched
}
