package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

var (
	bold    = color.New(color.Bold)
	title   = color.New(color.Bold, color.Underline)
	faint   = color.New(color.Faint)
	warning = color.New(color.FgHiYellow)
	failure = color.New(color.FgRed, color.Bold)
	success = color.New(color.FgGreen)
)

// newTable returns a table whose header row is bold.
func newTable(headers ...interface{}) *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = bold.Sprint(h)
	}
	tbl.AddRow(row...)
	return tbl
}

func printTable(w io.Writer, tbl *uitable.Table) {
	_, _ = fmt.Fprintln(w, tbl)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
