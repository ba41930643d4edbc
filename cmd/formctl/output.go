package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"mecahub-backend/internal/submission"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

func colorize(color, text string) string {
	if noColor {
		return text
	}
	return color + text + colorReset
}

func printError(format string, args ...any) {
	fmt.Fprintln(os.Stderr, colorize(colorRed, "✗ "+fmt.Sprintf(format, args...)))
}

func printStep(format string, args ...any) {
	fmt.Fprintln(os.Stderr, colorize(colorCyan, "→ "+fmt.Sprintf(format, args...)))
}

func printNotice(w io.Writer, n submission.Notice) {
	switch n.Level {
	case submission.NoticeSuccess:
		fmt.Fprintln(w, colorize(colorGreen, "✓ "+n.Title)+" "+n.Description)
	case submission.NoticeInfo:
		fmt.Fprintln(w, colorize(colorYellow, "ℹ "+n.Title)+" "+n.Description)
	default:
		fmt.Fprintln(w, colorize(colorRed, "✗ "+n.Title)+" "+n.Description)
	}
}

func printResult(w io.Writer, res *submission.Result) {
	fields := make([]string, 0, len(res.FieldErrors))
	for name := range res.FieldErrors {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	for _, name := range fields {
		fmt.Fprintf(w, "  %s: %s\n", name, res.FieldErrors[name])
	}
	for _, n := range res.Notices {
		printNotice(w, n)
	}
}
