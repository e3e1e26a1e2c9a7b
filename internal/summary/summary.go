// Package summary handles display of scan results and statistics
package summary

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/fatih/color"

	"github.com/bethropolis/code-combiner/internal/walker"
)

// Logger defines the minimal logging interface required
type Logger interface {
	Info(format string, args ...interface{})
}

// Report carries the outcome of one run
type Report struct {
	Processed       int64
	Skipped         int64
	OutputPath      string
	RulesLabel      string
	UsedCustomRules bool
	Duration        time.Duration
}

// DisplayResults shows the end results of a scan operation
func DisplayResults(logger Logger, report Report, quiet bool) {
	if quiet {
		return
	}

	logger.Info("Successfully processed %d files.", report.Processed)
	logger.Info("Output written to: %s", report.OutputPath)
	if report.Skipped > 0 {
		logger.Info("Skipped %d files due to reading errors or being binary/non-UTF-8.", report.Skipped)
	}
	if !report.UsedCustomRules {
		label := report.RulesLabel
		if label == "" {
			label = ".codeignore"
		}
		logger.Info("Reminder: Default ignore patterns were used because %s was not found or was unreadable.", label)
	}
	logger.Info("Reminder: The '.git/' directory and its contents are always ignored.")
	logger.Info("Scan complete in %v.", report.Duration.Round(time.Millisecond))
}

// DisplaySkippedItems formats and prints information about skipped items
func DisplaySkippedItems(
	logger Logger,
	skippedItems []walker.SkippedItem,
	output io.Writer,
	quiet bool,
	useColors bool,
) {
	infoLog := func(format string, args ...interface{}) {
		if !quiet {
			logger.Info(format, args...)
		}
	}

	reasonColor := color.New(color.FgYellow)
	if useColors {
		reasonColor.EnableColor()
	} else {
		reasonColor.DisableColor()
	}

	infoLog("--- Skipped Items (%d) ---", len(skippedItems))
	if len(skippedItems) > 0 {
		// Sort a copy for consistent output
		items := append([]walker.SkippedItem(nil), skippedItems...)
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Path < items[j].Path
		})
		for _, item := range items {
			typeStr := "FILE"
			if item.IsDir {
				typeStr = "DIR " // Add space for alignment
			}
			fmt.Fprintf(output, "Skipped %s: %-.*s [%s]\n",
				typeStr,
				50, // Max width for path column
				item.Path,
				reasonColor.Sprint(item.Reason),
			)
		}
	} else {
		infoLog("No items were skipped.")
	}
	infoLog("--- End Skipped Items ---")
}
