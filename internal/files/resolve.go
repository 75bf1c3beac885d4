package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	kerrors "github.com/PolarWolf314/dyad/internal/errors"
)

// RemotePrefix marks locations handled by the S3 store.
const RemotePrefix = "s3://"

// IsRemote reports whether location names an object store entry.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, RemotePrefix)
}

// ResolveFiles expands patterns relative to baseDir into a sorted,
// de-duplicated list of locations.
func ResolveFiles(patterns []string, baseDir, suffix string, forEncryption bool) ([]string, error) {
	if len(patterns) == 0 {
		return nil, kerrors.ErrNoFilesFound
	}

	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		resolved, err := resolvePattern(pattern, baseDir, suffix, forEncryption)
		if err != nil {
			return nil, err
		}
		for _, f := range resolved {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrNoFilesFound, strings.Join(patterns, " "))
	}

	sort.Strings(files)
	return files, nil
}

func resolvePattern(pattern, baseDir, suffix string, forEncryption bool) ([]string, error) {
	if IsRemote(pattern) {
		return []string{pattern}, nil
	}

	absPattern := pattern
	if !filepath.IsAbs(pattern) {
		absPattern = filepath.Join(baseDir, pattern)
	}

	info, err := os.Stat(absPattern)
	if err == nil && info.IsDir() {
		return findFilesInDir(absPattern, suffix, forEncryption)
	}

	if strings.ContainsAny(pattern, "*?[{") {
		return expandGlob(absPattern, suffix, forEncryption)
	}

	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, pattern)
		}
		return nil, err
	}
	return []string{absPattern}, nil
}

func expandGlob(absPattern, suffix string, forEncryption bool) ([]string, error) {
	matches, err := doublestar.FilepathGlob(absPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", absPattern, err)
	}

	var filtered []string
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if wanted(m, suffix, forEncryption) {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

func findFilesInDir(dir, suffix string, forEncryption bool) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if wanted(path, suffix, forEncryption) {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

func wanted(path, suffix string, forEncryption bool) bool {
	isEnvelope := strings.HasSuffix(filepath.Base(path), suffix)
	return isEnvelope != forEncryption
}
