// Package ui holds the terminal colours and table printing used by the CLI.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"fibremap/internal/domain"
)

// Brand colors
var (
	Brand  = color.New(color.FgHiCyan, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Warn   = color.New(color.FgYellow)
	Info   = color.New(color.FgCyan)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
)

// Node kind colours, matching the browser groups
var kindColors = map[domain.NodeKind]*color.Color{
	domain.NodeKindOLT:           color.New(color.FgMagenta, color.Bold),
	domain.NodeKindSP:            color.New(color.FgBlue),
	domain.NodeKindOpticalTap:    color.New(color.FgYellow),
	domain.NodeKindFibreEndpoint: color.New(color.FgWhite),
}

// Kind returns the kind name coloured for the terminal
func Kind(kind domain.NodeKind) string {
	if c, ok := kindColors[kind]; ok {
		return c.Sprint(string(kind))
	}
	return string(kind)
}

// Banner prints the fibremap banner.
func Banner(w io.Writer, subtitle string) {
	fmt.Fprintf(w, "%s %s %s\n\n", Brand.Sprint("fibremap"), Subtle.Sprint("|"), subtitle)
}

// Table prints a simple aligned table. Widths are measured on the raw cell
// text, so cells should not carry colour codes.
func Table(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	headerLine := "  "
	sepLine := "  "
	for i, h := range headers {
		headerLine += fmt.Sprintf("%-*s  ", widths[i], h)
		sepLine += strings.Repeat("─", widths[i]) + "  "
	}
	Subtle.Fprintln(w, strings.TrimRight(headerLine, " "))
	Subtle.Fprintln(w, strings.TrimRight(sepLine, " "))

	for _, row := range rows {
		line := "  "
		for i, cell := range row {
			if i < len(widths) {
				line += fmt.Sprintf("%-*s  ", widths[i], cell)
			}
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

// StatusIcon returns a status icon string.
func StatusIcon(ok bool) string {
	if ok {
		return Good.Sprint("✓")
	}
	return Bad.Sprint("✗")
}
