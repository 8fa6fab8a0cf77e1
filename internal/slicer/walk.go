package slicer

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/transpile-pipeline/internal/debug"
	"github.com/standardbeagle/transpile-pipeline/pkg/pathutil"
)

// DiscoverSources walks root recursively, returning every file matching at
// least one include glob and no exclude glob. Patterns are matched against
// the path relative to root, exclude taking precedence over include.
// maxBytes, if positive, skips any matching file larger than that size
// (logged, not an error) rather than handing an oversized file to the
// tree-sitter parser.
func DiscoverSources(root string, include, exclude []string, maxBytes int64) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if matchesAny(exclude, rel) {
			return nil
		}
		if len(include) > 0 && !matchesAny(include, rel) {
			return nil
		}

		if maxBytes > 0 {
			info, infoErr := d.Info()
			if infoErr == nil && info.Size() > maxBytes {
				debug.LogSlicer("skipping %s: %d bytes exceeds max_file_size of %d", pathutil.ToRelative(path, root), info.Size(), maxBytes)
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

func matchesAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
