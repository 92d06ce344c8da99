package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/yeremiapane/hostel-app/utils"
)

var (
	colorAccent  = lipgloss.Color("#20B9B4")
	colorSuccess = lipgloss.Color("#2CD7C7")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")
	colorMuted   = lipgloss.Color("#5C7A84")
)

var styles = struct {
	Title, Header, Muted, Success, Warning, Error lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	Header:  lipgloss.NewStyle().Bold(true).Padding(0, 1),
	Muted:   lipgloss.NewStyle().Foreground(colorMuted),
	Success: lipgloss.NewStyle().Foreground(colorSuccess),
	Warning: lipgloss.NewStyle().Foreground(colorWarning),
	Error:   lipgloss.NewStyle().Bold(true).Foreground(colorError),
}

// status colours a record status by how settled it is.
func status(s string) string {
	switch s {
	case "Resolved", "Completed", "Approved", "Paid":
		return styles.Success.Render(s)
	case "Overdue", "Rejected", "High":
		return styles.Error.Render(s)
	case "Pending", "In-progress":
		return styles.Warning.Render(s)
	default:
		return s
	}
}

func printTable(w io.Writer, title string, headers []string, rows [][]string) {
	fmt.Fprintln(w, styles.Title.Render(title))
	if len(rows) == 0 {
		fmt.Fprintln(w, styles.Muted.Render("  nothing here yet"))
		return
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.Header
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, t)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%s %s\n", styles.Muted.Render(fmt.Sprintf("%-22s", label+":")), value)
}

func date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(utils.DateLayout)
}

func money(v float64) string { return "Rs. " + utils.FormatAmount(v) }
