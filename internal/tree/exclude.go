package tree

import (
	"path"
	"path/filepath"
	"strings"
)

// pathFilter matches root-relative slash paths against exclude globs.
// Patterns support "**" for any number of segments, a trailing "/" for
// directory prefixes, and bare names that match at any depth.
type pathFilter struct {
	globs []string
}

func newPathFilter(globs []string) pathFilter {
	out := make([]string, 0, len(globs))
	for _, g := range globs {
		if g = normalizeForGlob(g); g != "" {
			out = append(out, g)
		}
	}
	return pathFilter{globs: out}
}

func (f pathFilter) empty() bool {
	return len(f.globs) == 0
}

func (f pathFilter) match(relPath string, isDir bool) bool {
	relPath = normalizeForGlob(relPath)
	if relPath == "" {
		return false
	}
	for _, glob := range f.globs {
		if matchExclude(glob, relPath, isDir) {
			return true
		}
	}
	return false
}

func matchExclude(glob, relPath string, isDir bool) bool {
	if dir, ok := strings.CutSuffix(glob, "/"); ok {
		// "build/" names a directory. It matches the directory itself and
		// anything below it, never a plain file called "build".
		dirSegs := strings.Split(dir, "/")
		pathSegs := strings.Split(relPath, "/")
		if isDir && matchSegments(dirSegs, pathSegs) {
			return true
		}
		return matchSegments(append(dirSegs, "*", "**"), pathSegs)
	}
	if !strings.Contains(glob, "/") {
		ok, err := path.Match(glob, path.Base(relPath))
		return err == nil && ok
	}
	return matchSegments(strings.Split(glob, "/"), strings.Split(relPath, "/"))
}

// matchSegments matches a slash-split path against a slash-split glob.
// A "**" segment consumes zero or more path segments.
func matchSegments(pattern, segs []string) bool {
	if len(pattern) == 0 {
		return len(segs) == 0
	}
	if pattern[0] == "**" {
		rest := pattern[1:]
		if len(rest) == 0 {
			return true
		}
		for skip := 0; skip <= len(segs); skip++ {
			if matchSegments(rest, segs[skip:]) {
				return true
			}
		}
		return false
	}
	if len(segs) == 0 {
		return false
	}
	if ok, err := path.Match(pattern[0], segs[0]); err != nil || !ok {
		return false
	}
	return matchSegments(pattern[1:], segs[1:])
}

// normalizeForGlob turns an OS path or user glob into the root-relative
// slash form the matcher works on.
func normalizeForGlob(raw string) string {
	raw = filepath.ToSlash(strings.TrimSpace(raw))
	for {
		switch {
		case strings.HasPrefix(raw, "./"):
			raw = raw[2:]
		case strings.HasPrefix(raw, "/"):
			raw = raw[1:]
		default:
			return raw
		}
	}
}
