package ignore

import (
	"path/filepath"

	"github.com/danwakefield/fnmatch"
)

// matchFlags selects plain shell-glob semantics: '*' and '?' also match '/',
// a leading period is not special and a backslash is an ordinary character.
const matchFlags = fnmatch.FNM_NOESCAPE

// MatchDir reports whether a bare directory name matches a directory pattern
func (s *PatternSet) MatchDir(name string) bool {
	if s == nil || name == "" {
		return false
	}
	for _, pattern := range s.dirs {
		if fnmatch.Match(pattern, name, matchFlags) {
			return true
		}
	}
	return false
}

// MatchFile reports whether a file is excluded by a file pattern.
// Each pattern is tried against the bare name and against the
// root-relative path in forward-slash form.
func (s *PatternSet) MatchFile(name, relativePath string) bool {
	_, ok := s.MatchingFilePattern(name, relativePath)
	return ok
}

// MatchingFilePattern is MatchFile that also returns the pattern that hit
func (s *PatternSet) MatchingFilePattern(name, relativePath string) (string, bool) {
	if s == nil {
		return "", false
	}
	unixPath := filepath.ToSlash(relativePath)
	for _, pattern := range s.files {
		if fnmatch.Match(pattern, name, matchFlags) || fnmatch.Match(pattern, unixPath, matchFlags) {
			return pattern, true
		}
	}
	return "", false
}
