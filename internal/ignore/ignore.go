// Package ignore provides file/directory pattern matching for exclusion
//
// Rules come from a single source per run: either a rules file (one glob per
// line, '#' comments, a trailing '/' marks a directory-name rule) or the
// built-in DefaultRules. The .git directory is always excluded.
package ignore
