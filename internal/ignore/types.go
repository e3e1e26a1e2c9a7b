// Package ignore provides file/directory pattern matching for exclusion
package ignore

import (
	"sort"
)

// Kind tells which pattern set a rule belongs to
type Kind int

const (
	// KindFile rules match a file name or a root-relative path
	KindFile Kind = iota
	// KindDirectory rules match a bare directory name
	KindDirectory
)

// Rule is a single parsed ignore line
type Rule struct {
	// Text is the line as written, trailing separator included
	Text string
	// Pattern is the glob used for matching; directory rules have the
	// trailing separator stripped
	Pattern string
	Kind    Kind
}

// PatternSet holds the directory and file patterns for one run.
// It is read-only once built.
type PatternSet struct {
	dirs  []string
	files []string
	texts []string
}

// Result is what Load hands back to the caller
type Result struct {
	Set *PatternSet

	// UsedCustomRules is true when the rules file was read in full
	UsedCustomRules bool

	// Source is the rules file path that was consulted
	Source string

	// Warning is set when the rules file existed but could not be used
	Warning error
}

// DirPatterns returns the sorted directory-name patterns
func (s *PatternSet) DirPatterns() []string {
	return append([]string(nil), s.dirs...)
}

// FilePatterns returns the sorted file patterns
func (s *PatternSet) FilePatterns() []string {
	return append([]string(nil), s.files...)
}

// Effective returns every rule in its textual form, sorted.
// Directory rules keep their trailing separator.
func (s *PatternSet) Effective() []string {
	return append([]string(nil), s.texts...)
}

// Len returns the number of distinct patterns
func (s *PatternSet) Len() int {
	return len(s.dirs) + len(s.files)
}

func newPatternSet(rules []Rule) *PatternSet {
	dirs := make(map[string]struct{})
	files := make(map[string]struct{})
	texts := make(map[string]struct{})

	for _, r := range rules {
		texts[r.Text] = struct{}{}
		if r.Kind == KindDirectory {
			dirs[r.Pattern] = struct{}{}
		} else {
			files[r.Pattern] = struct{}{}
		}
	}

	return &PatternSet{
		dirs:  sortedKeys(dirs),
		files: sortedKeys(files),
		texts: sortedKeys(texts),
	}
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
