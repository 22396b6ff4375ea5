package search

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrNotFound is returned when no file matches the requested name
var ErrNotFound = errors.New("file not found")

// Finder locates vault files by name under a search root
type Finder struct {
	Root       string
	IgnoreDirs []string
}

// NewFinder creates a finder for root that never descends into the ignored directories
func NewFinder(root string, ignoreDirs []string) *Finder {
	return &Finder{Root: root, IgnoreDirs: ignoreDirs}
}

// Find returns the path of the file called name.
// A file next to near (the including file's directory) wins. Otherwise the search root
// is walked and the first exact match is returned, falling back to the first match that
// differs only in case or Unicode normalization.
func (f *Finder) Find(name, near string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("empty file name: %w", ErrNotFound)
	}

	if filepath.IsAbs(name) {
		if isFile(name) {
			return name, nil
		}
		return "", fmt.Errorf("%s: %w", name, ErrNotFound)
	}

	if near != "" {
		candidate := filepath.Join(near, name)
		if isFile(candidate) {
			return candidate, nil
		}
	}

	if f.Root == "" {
		return "", fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if _, err := os.Stat(f.Root); err != nil {
		return "", fmt.Errorf("search root %s: %w", f.Root, err)
	}

	target := filepath.ToSlash(name)
	targetNorm := normalize(target)

	var exact, folded string
	err := filepath.Walk(f.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped rather than aborting the search
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			if path != f.Root && f.ignored(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(f.Root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		switch {
		case hasSuffixPath(rel, target) || hasSuffixPath(norm.NFC.String(rel), norm.NFC.String(target)):
			exact = path
			return filepath.SkipAll
		case folded == "" && hasSuffixPath(normalize(rel), targetNorm):
			folded = path
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to search %s: %w", f.Root, err)
	}

	if exact != "" {
		return exact, nil
	}
	if folded != "" {
		return folded, nil
	}
	return "", fmt.Errorf("%s: %w", name, ErrNotFound)
}

func (f *Finder) ignored(dir string) bool {
	for _, ignore := range f.IgnoreDirs {
		if ignore != "" && strings.EqualFold(dir, strings.TrimSpace(ignore)) {
			return true
		}
	}
	return false
}

// hasSuffixPath reports whether rel ends with target on a path-component boundary
func hasSuffixPath(rel, target string) bool {
	if rel == target {
		return true
	}
	return strings.HasSuffix(rel, "/"+target)
}

func normalize(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
