package ignore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/bethropolis/code-combiner/internal/utils"
)

// ErrRulesNotText is reported when the rules file is not valid UTF-8
var ErrRulesNotText = errors.New("rules file is not valid UTF-8 text")

const byteOrderMark = "\ufeff"

// Load builds the PatternSet for a run.
//
// When rulesPath names a readable file its rules are used in full. When the
// file is absent the defaults are used. When it exists but cannot be read or
// decoded the defaults are used and Result.Warning carries the cause. The
// two sources are never merged, and .git/ is always added.
func Load(rulesPath string, opts ...Option) *Result {
	o := loadOptions{
		logger:   utils.NoopLogger{},
		defaults: DefaultRules,
	}
	for _, opt := range opts {
		opt(&o)
	}

	result := &Result{Source: rulesPath}

	if rulesPath == "" {
		o.logger.Debug("ignore.Load: No rules file configured, using defaults")
		result.Set = FromLines(o.defaults)
		return result
	}

	lines, err := readRulesFile(rulesPath)
	switch {
	case err == nil:
		o.logger.Debug("ignore.Load: Read %d lines from %s", len(lines), rulesPath)
		result.Set = FromLines(lines)
		result.UsedCustomRules = true
	case errors.Is(err, fs.ErrNotExist):
		o.logger.Debug("ignore.Load: Rules file %s not found, using defaults", rulesPath)
		result.Set = FromLines(o.defaults)
	default:
		o.logger.Debug("ignore.Load: Rules file %s unusable: %v", rulesPath, err)
		result.Set = FromLines(o.defaults)
		result.Warning = fmt.Errorf("ignore: could not read rules file '%s': %w", rulesPath, err)
	}

	o.logger.Debug("ignore.Load: %d directory patterns, %d file patterns",
		len(result.Set.dirs), len(result.Set.files))
	return result
}

// FromLines builds a PatternSet from rule lines using the rules-file syntax.
// The .git/ rule is always included.
func FromLines(lines []string) *PatternSet {
	rules := make([]Rule, 0, len(lines)+1)
	for _, line := range lines {
		if rule, ok := ParseLine(line); ok {
			rules = append(rules, rule)
		}
	}
	rules = append(rules, gitRule)
	return newPatternSet(rules)
}

// ParseLine turns one rules-file line into a Rule.
// Blank lines, comments and lines reducing to an empty pattern yield false.
func ParseLine(line string) (Rule, bool) {
	text := strings.TrimSpace(line)
	if text == "" || strings.HasPrefix(text, "#") {
		return Rule{}, false
	}

	if !hasTrailingSeparator(text) {
		return Rule{Text: text, Pattern: text, Kind: KindFile}, true
	}

	pattern := strings.TrimRight(text, `/`+string(os.PathSeparator))
	if pattern == "" {
		return Rule{}, false
	}
	return Rule{Text: text, Pattern: pattern, Kind: KindDirectory}, true
}

func hasTrailingSeparator(text string) bool {
	return strings.HasSuffix(text, "/") || strings.HasSuffix(text, string(os.PathSeparator))
}

// readRulesFile returns the raw lines of the rules file. Lines have no length limit.
// Absence is reported as fs.ErrNotExist.
func readRulesFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("'%s' is a directory", path)
	}

	var lines []string
	r := bufio.NewReader(f)
	for {
		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if line == "" && err != nil {
			break
		}
		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		if len(lines) == 0 {
			line = strings.TrimPrefix(line, byteOrderMark)
		}
		if !utf8.ValidString(line) {
			return nil, fmt.Errorf("line %d: %w", len(lines)+1, ErrRulesNotText)
		}
		lines = append(lines, line)
		if err != nil {
			break
		}
	}
	return lines, nil
}
