// Package fileutil discovers inbound workbooks and archives processed ones.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

// ScanOptions configures directory scanning.
type ScanOptions struct {
	// Filter is a regular expression that must match at the start of a
	// file's base name. Empty accepts every file.
	Filter string
}

// ScanResult holds the files found by ScanDirectory.
type ScanResult struct {
	// Files are the matched paths, sorted.
	Files []string
	// Errors are non-fatal errors met while walking.
	Errors []error
}

// ScanDirectory walks dir recursively and returns the files whose base name
// matches opts.Filter.
func ScanDirectory(dir string, opts ScanOptions) (*ScanResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	var filter *regexp.Regexp
	if opts.Filter != "" {
		filter, err = regexp.Compile(`^(?:` + opts.Filter + `)`)
		if err != nil {
			return nil, fmt.Errorf("invalid file filter: %w", err)
		}
	}

	result := &ScanResult{Files: make([]string, 0)}
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("error accessing %s: %w", path, err))
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if filter != nil && !filter.MatchString(d.Name()) {
			return nil
		}
		result.Files = append(result.Files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	sort.Strings(result.Files)
	return result, nil
}
