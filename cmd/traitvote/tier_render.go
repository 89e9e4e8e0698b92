package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"

	"traitvote/internal/consensus"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func tierColor(t consensus.Tier) string {
	switch t {
	case consensus.TierHigh:
		return ansiGreen
	case consensus.TierMedium:
		return ansiYellow
	default:
		return ansiRed
	}
}

// tierLabel renders "🟢 high", wrapping the name in color on terminals.
func tierLabel(t consensus.Tier, colorize bool) string {
	name := t.String()
	if colorize {
		name = tierColor(t) + name + ansiReset
	}
	return t.Glyph() + " " + name
}

func formatPercent(value float64) string {
	return strconv.FormatFloat(value, 'f', 1, 64) + "%"
}

func renderSummaryTable(summary consensus.Summary, colorize bool) string {
	rows := make([][]string, 0, len(consensus.Tiers)+1)
	for _, t := range consensus.Tiers {
		rows = append(rows, []string{
			tierLabel(t, colorize),
			strconv.Itoa(summary.Count(t)),
			formatPercent(summary.Percent(t)),
		})
	}
	rows = append(rows, []string{"total", strconv.Itoa(summary.Total), ""})
	return renderTable(
		[]string{"Flag", "Items", "Share"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight},
	)
}

func summaryLine(summary consensus.Summary) string {
	return fmt.Sprintf("%d items: %d %s (%s), %d %s (%s), %d %s (%s)",
		summary.Total,
		summary.High, consensus.TierHigh.Glyph(), formatPercent(summary.HighPct),
		summary.Medium, consensus.TierMedium.Glyph(), formatPercent(summary.MediumPct),
		summary.Low, consensus.TierLow.Glyph(), formatPercent(summary.LowPct),
	)
}
