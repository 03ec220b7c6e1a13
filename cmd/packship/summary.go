package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/bft-labs/packship/internal/app"
)

var (
	labelColor   = color.New(color.FgCyan)
	okColor      = color.New(color.FgGreen, color.Bold)
	warnColor    = color.New(color.FgYellow, color.Bold)
	failColor    = color.New(color.FgRed, color.Bold)
	oversizeMark = color.New(color.FgYellow).Sprint("oversize")
)

func statusColor(s app.Status) *color.Color {
	switch s {
	case app.StatusOK:
		return okColor
	case app.StatusWarnings:
		return warnColor
	default:
		return failColor
	}
}

func bytesOf(n int64) string {
	if n < 0 {
		return fmt.Sprintf("%d B", n)
	}
	return humanize.IBytes(uint64(n))
}

// printSummary writes a one-screen summary of a run to w.
func printSummary(w io.Writer, rep app.Report, err error) {
	statusColor(rep.Status).Fprintf(w, "packship: %s", rep.Status)
	fmt.Fprintf(w, " (run %s, %s)\n", rep.RunID, rep.Duration.Round(time.Millisecond))

	line := func(label, format string, args ...interface{}) {
		labelColor.Fprintf(w, "  %-11s", label)
		fmt.Fprintf(w, format+"\n", args...)
	}

	if rep.SourceDir != "" {
		line("source", "%s", rep.SourceDir)
	}
	if rep.Generated != nil {
		line("generated", "%d files, %s", len(rep.Generated.Paths), bytesOf(rep.Generated.TotalBytes))
	}

	if p := rep.Partition; p != nil {
		line("method", "%s, ceiling %s", p.Method, bytesOf(p.MaxGroupSizeBytes))
		line("groups", "%d", len(p.Groups))
		line("files", "%d, %s", p.FileCount(), bytesOf(p.TotalSizeBytes()))
		for i, g := range p.Groups {
			if g.Oversize {
				line("", "group %03d: %s, %s", i+1, bytesOf(g.TotalSizeBytes), oversizeMark)
			}
		}
	}

	if v := rep.Validation; v != nil {
		line("validation", "%s, %d valid groups out of %d", v.Status, v.ValidGroups, v.GroupCount)
		for _, msg := range v.Violations {
			line("", "%s", failColor.Sprint(msg))
		}
	}

	if len(rep.Warnings) > 0 {
		line("warnings", "%d", len(rep.Warnings))
		for _, wr := range rep.Warnings {
			line("", "%s", warnColor.Sprint(wr.String()))
		}
	}

	if rep.Manifest.Path != "" && err == nil {
		line("manifest", "%s (%s)", rep.Manifest.Path, bytesOf(int64(rep.Manifest.Bytes)))
		if n := len(rep.Manifest.GroupPaths); n > 0 {
			line("", "%d group files", n)
		}
	}

	if err != nil {
		line("error", "%s", failColor.Sprint(err.Error()))
	}
}
