package report

import (
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderSummary renders the aggregate counts table followed by the grouped
// bad-JSON listing. The rounded table style is reserved for interactive
// terminals; log files get the plain ASCII style.
func RenderSummary(c *Counters, interactive bool) string {
	rows := make([][]string, 0, len(Order))
	for _, outcome := range Order {
		rows = append(rows, []string{string(outcome), strconv.Itoa(c.Count(outcome))})
	}

	var b strings.Builder
	b.WriteString("Summary:\n")
	b.WriteString(renderTable([]string{"Outcome", "Count"}, rows, interactive))

	if failures := c.BadJSON(); len(failures) > 0 {
		b.WriteString("\n\nBad JSON manifests:\n")
		for _, failure := range failures {
			b.WriteString("  ")
			b.WriteString(failure)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func renderTable(headers []string, rows [][]string, interactive bool) string {
	tw := table.NewWriter()
	if interactive {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, len(headers))
	for i := range headers {
		align := text.AlignLeft
		if i > 0 {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// RenderRows renders an arbitrary listing (feed index, run history) with the
// shared table styling.
func RenderRows(headers []string, rows [][]string, interactive bool) string {
	return renderTable(headers, rows, interactive)
}
