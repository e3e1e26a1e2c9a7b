// Package printer handles output formatting and display
package printer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
)

// Format selects the artifact layout
type Format string

const (
	FormatPlain    Format = "plain"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Formats lists the accepted format names
var Formats = []Format{FormatPlain, FormatMarkdown, FormatJSON}

// ParseFormat maps a name to a Format
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("printer: unknown format %q (want plain, markdown or json)", name)
}

// TimeLayout is how the generation time is rendered in the header
const TimeLayout = "2006-01-02 15:04:05 MST"

// defaultRulesLabel names the rules file in the header when none was given
const defaultRulesLabel = ".codeignore"

// Header describes one run at the top of the artifact
type Header struct {
	Generated       time.Time
	Root            string
	RulesPath       string
	UsedCustomRules bool
	// Patterns are the effective ignore rules in textual form, sorted
	Patterns []string
}

// Printer writes the artifact to the configured output destination.
// Write errors are sticky: after the first failure every call returns it.
type Printer struct {
	output        *bufio.Writer
	count         atomic.Int64
	useColors     bool
	format        Format
	headerWritten bool
	pathColor     *color.Color
	headerColor   *color.Color
	err           error
}

// New creates a new Printer writing plain text to stdout
func New() *Printer {
	p := &Printer{
		output:      bufio.NewWriter(os.Stdout),
		format:      FormatPlain,
		pathColor:   color.New(color.FgCyan, color.Bold),
		headerColor: color.New(color.FgHiBlack),
	}
	return p.WithColors(false)
}

// WithOutput sets the output destination
func (p *Printer) WithOutput(w io.Writer) *Printer {
	p.output = bufio.NewWriter(w)
	return p
}

// WithColors enables or disables colored path and header lines.
// Only meaningful for the plain format on a terminal.
func (p *Printer) WithColors(enabled bool) *Printer {
	p.useColors = enabled
	if enabled {
		p.pathColor.EnableColor()
		p.headerColor.EnableColor()
	} else {
		p.pathColor.DisableColor()
		p.headerColor.DisableColor()
	}
	return p
}

// WithFormat sets the artifact layout
func (p *Printer) WithFormat(f Format) *Printer {
	p.format = f
	return p
}

// JSONFileEntry represents a file entry in JSON output
type JSONFileEntry struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// HeaderLines renders the run metadata as comment lines
func HeaderLines(h Header) []string {
	label := defaultRulesLabel
	if h.RulesPath != "" {
		label = filepath.Base(h.RulesPath)
	}
	source := "Not found/used; defaults applied."
	if h.UsedCustomRules {
		source = "Used: " + h.RulesPath
	}
	return []string{
		"# Combined Code Generated: " + h.Generated.Format(TimeLayout),
		"# Scanned Root Directory: " + h.Root,
		fmt.Sprintf("# %s File Source: %s", label, source),
		"# Effective Ignored Patterns (includes always-ignored '.git/'): " + FormatPatternList(h.Patterns),
	}
}

// FormatPatternList renders patterns as a bracketed list of quoted strings,
// e.g. ['*.log', '.git/']
func FormatPatternList(patterns []string) string {
	quoted := make([]string, len(patterns))
	for i, pattern := range patterns {
		quoted[i] = quotePattern(pattern)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// quotePattern single-quotes s, switching to double quotes when s holds
// a single quote and no double quote
func quotePattern(s string) string {
	quote := "'"
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		quote = `"`
	}
	escaper := strings.NewReplacer(`\`, `\\`, quote, `\`+quote)
	return quote + escaper.Replace(s) + quote
}

// WriteHeader writes the run metadata. It must precede PrintFile.
func (p *Printer) WriteHeader(h Header) error {
	if p.headerWritten {
		return p.err
	}
	p.headerWritten = true

	switch p.format {
	case FormatJSON:
		p.writeJSONHeader(&h)
	case FormatMarkdown:
		p.write("<!--\n")
		for _, line := range HeaderLines(h) {
			p.write(line + "\n")
		}
		p.write("-->\n\n")
	default:
		for _, line := range HeaderLines(h) {
			p.write(p.headerColor.Sprint(line) + "\n")
		}
	}
	return p.err
}

func (p *Printer) writeJSONHeader(h *Header) {
	p.write("{\n")
	if h != nil {
		patterns := h.Patterns
		if patterns == nil {
			patterns = []string{}
		}
		p.writeJSONField("generated", h.Generated.Format(time.RFC3339))
		p.writeJSONField("root", h.Root)
		p.writeJSONField("rules_source", h.RulesPath)
		p.writeJSONField("used_custom_rules", h.UsedCustomRules)
		p.writeJSONField("patterns", patterns)
	}
	p.write(`  "files": [`)
}

func (p *Printer) writeJSONField(key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		p.fail(fmt.Errorf("printer: marshaling %s: %w", key, err))
		return
	}
	p.write(fmt.Sprintf("  %q: %s,\n", key, data))
}

// PrintFile outputs the content of a file with its path
func (p *Printer) PrintFile(relativePath string, content string) error {
	if !p.headerWritten {
		p.headerWritten = true
		if p.format == FormatJSON {
			p.writeJSONHeader(nil)
		}
	}
	if p.err != nil {
		return p.err
	}

	first := p.count.Add(1) == 1

	switch p.format {
	case FormatJSON:
		sep := ",\n    "
		if first {
			sep = "\n    "
		}
		entry := JSONFileEntry{Path: relativePath, Content: content}
		jsonData, err := json.MarshalIndent(entry, "    ", "  ")
		if err != nil {
			p.fail(fmt.Errorf("printer: marshaling %s: %w", relativePath, err))
			return p.err
		}
		p.write(sep)
		p.write(string(jsonData))
	case FormatMarkdown:
		p.write(fmt.Sprintf("file: %s\n\n```\n%s\n```\n\n", relativePath, content))
	default:
		// records are separated by one blank line
		if !first {
			p.write("\n")
		}
		p.write(p.pathColor.Sprint("# FILE: "+relativePath) + "\n")
		p.write(content)
		p.write("\n")
	}
	return p.err
}

// Finalize completes any pending operations (like closing the JSON
// document) and flushes the output
func (p *Printer) Finalize() error {
	if p.format == FormatJSON {
		if !p.headerWritten {
			p.headerWritten = true
			p.writeJSONHeader(nil)
		}
		if p.count.Load() > 0 {
			p.write("\n  ]\n}\n")
		} else {
			p.write("]\n}\n")
		}
	}
	if p.err == nil {
		if err := p.output.Flush(); err != nil {
			p.fail(fmt.Errorf("printer: flushing output: %w", err))
		}
	}
	return p.err
}

// GetCount returns the number of files printed
func (p *Printer) GetCount() int64 {
	return p.count.Load()
}

func (p *Printer) write(s string) {
	if p.err != nil {
		return
	}
	if _, err := p.output.WriteString(s); err != nil {
		p.fail(fmt.Errorf("printer: writing output: %w", err))
	}
}

func (p *Printer) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}
