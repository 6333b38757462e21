package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/thecleanest/thecleanest/pkg/core/calendar"
	"github.com/thecleanest/thecleanest/pkg/db"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

func formatDay(d time.Time) string {
	return d.Format("Mon 2006-01-02")
}

// nameOr returns the worker's name, the raw ID for unknown workers, or
// fallback for an empty ID
func nameOr(names map[string]string, id, fallback string) string {
	if id == "" {
		return fallback
	}
	if name, ok := names[id]; ok {
		return name
	}
	return id
}

func statusColor(status string) string {
	switch status {
	case db.StatusDeferred:
		return colorYellow
	case db.StatusReassigned:
		return colorGreen
	}
	return ""
}

func printAssignmentLine(out io.Writer, a db.Assignment, names map[string]string) {
	d, err := calendar.ParseDate(a.Date)
	label := a.Date
	if err == nil {
		label = formatDay(d)
	}
	fmt.Fprintf(out, "  %s  %-20s %s%s%s\n", label, nameOr(names, a.WorkerID, "(unfilled)"), statusColor(a.Status), a.Status, colorReset)
}

func balanceColor(balance int) string {
	switch {
	case balance < 0:
		return colorRed
	case balance > 0:
		return colorGreen
	}
	return colorDim
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
