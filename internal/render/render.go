// Package render prints review views to a terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"

	"github.com/threatflux/secureReviewGo/internal/handoff"
	"github.com/threatflux/secureReviewGo/internal/models"
)

var (
	rule   = color.New(color.FgCyan)
	title  = color.New(color.FgWhite, color.Bold)
	muted  = color.New(color.FgHiBlack)
	good   = color.New(color.FgGreen)
	warn   = color.New(color.FgYellow)
	danger = color.New(color.FgRed, color.Bold)
)

const separator = "════════════════════════════════════════════════"

// Banner prints the program banner
func Banner(w io.Writer) {
	fig := figure.NewColorFigure("SecureReview", "doom", "red", true)
	fmt.Fprintln(w, fig.ColorString())
	_, _ = rule.Fprintln(w, separator)
	_, _ = good.Fprintln(w, "    Security review workflow | scan, fix, simulate, comply")
	_, _ = rule.Fprintln(w, separator)
}

// SeverityColor returns the color of a severity bucket
func SeverityColor(s models.Severity) *color.Color {
	switch s {
	case models.SeverityCritical:
		return color.New(color.FgRed, color.Bold)
	case models.SeverityHigh:
		return color.New(color.FgHiRed)
	case models.SeverityMedium:
		return color.New(color.FgYellow)
	case models.SeverityLow:
		return color.New(color.FgBlue)
	default:
		return color.New(color.Reset)
	}
}

// StageColor returns the color of a kill-chain stage status
func StageColor(s models.StageStatus) *color.Color {
	switch s {
	case models.StageSuccess:
		return good
	case models.StageWarning:
		return warn
	case models.StageDanger:
		return danger
	default:
		return muted
	}
}

func heading(w io.Writer, text string) {
	fmt.Fprintln(w)
	_, _ = title.Fprintln(w, text)
	_, _ = rule.Fprintln(w, strings.Repeat("─", len([]rune(text))))
}

// NotAvailable prints the terminal state of a view that could not be resolved
func NotAvailable(w io.Writer, what string, err error, actions []handoff.Action) {
	_, _ = warn.Fprintf(w, "%s not available", what)
	if err != nil {
		_, _ = muted.Fprintf(w, " (%v)", err)
	}
	fmt.Fprintln(w)
	for _, a := range actions {
		if a == handoff.ActionBack {
			_, _ = muted.Fprintln(w, "  [b] Back")
		}
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
