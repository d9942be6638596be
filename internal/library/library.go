// Package library maintains the local artifact index: the set of normalized
// title keys for files already present in the destination directory. The
// index is a point-in-time snapshot built once per run; the live rescan
// helpers cover files created after the snapshot.
package library

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// MinMatchLength gates the fuzzy predicate: keys at or below this length
// never match, not even on equality. Short titles produce too many false
// positives.
const MinMatchLength = 5

// NormalizeTitle maps a display title to its canonical comparison key:
// lowercased, trimmed, reduced to letters, digits, space, '-', '_' and '.'.
// The empty key never matches anything.
func NormalizeTitle(title string) string {
	return sanitize(strings.ToLower(title))
}

// SanitizeTitle reduces a title to the same filename-safe character set
// while preserving case. Used to predict the extractor's output filename.
func SanitizeTitle(title string) string {
	return sanitize(title)
}

func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' || r == '.' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// Matches reports whether two normalized keys identify the same artifact:
// equal, or one contained in the other, when both exceed MinMatchLength.
// The predicate is symmetric.
func Matches(a, b string) bool {
	if len(a) <= MinMatchLength || len(b) <= MinMatchLength {
		return false
	}
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}

// Index is the read-only snapshot of normalized keys. Workers share one
// Index without locking.
type Index struct {
	keys map[string]struct{}
}

// BuildIndex scans dir (non-recursive) and indexes each file's base name
// with the extension stripped. A missing directory yields an empty index,
// not an error.
func BuildIndex(dir string) *Index {
	idx := &Index{keys: make(map[string]struct{})}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return idx
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if key := NormalizeTitle(stem(entry.Name())); key != "" {
			idx.keys[key] = struct{}{}
		}
	}
	return idx
}

// Len returns the number of indexed keys.
func (x *Index) Len() int { return len(x.keys) }

// Contains reports an exact key hit.
func (x *Index) Contains(key string) bool {
	if key == "" {
		return false
	}
	_, ok := x.keys[key]
	return ok
}

// FuzzyContains reports whether any indexed key fuzzy-matches key.
func (x *Index) FuzzyContains(key string) bool {
	for k := range x.keys {
		if Matches(key, k) {
			return true
		}
	}
	return false
}

// ScanMatch re-reads dir and reports whether any current file fuzzy-matches
// key. This is the live half of the skip check; the snapshot does not see
// files other workers finished mid-run.
func ScanMatch(dir, key string) bool {
	if key == "" {
		return false
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if Matches(key, NormalizeTitle(stem(entry.Name()))) {
			return true
		}
	}
	return false
}

// FindByTitle returns the path of the first file in dir whose normalized
// stem contains key, or "" when none does. Used to locate a finished
// download whose reported name drifted from the expected one.
func FindByTitle(dir, key string) string {
	if key == "" {
		return ""
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.Contains(NormalizeTitle(stem(entry.Name())), key) {
			return filepath.Join(dir, entry.Name())
		}
	}
	return ""
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
