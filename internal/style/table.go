package style

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/TFMV/pathlength/internal/walk"
	"github.com/fatih/color"
)

// column defines a table column and how its cells are rendered.
type column struct {
	header   string
	maxWidth int
	render   func(walk.Result) string
}

// Table renders results as rows of a Path | Length | Type table. Without
// Pretty, rows are streamed as results arrive. With Pretty, nothing is written
// until the scan ends so that every column can be padded to the same width.
type Table struct{}

func (Table) Name() string { return "table" }

func (Table) Apply(opts ApplyOptions) func() {
	out := opts.Output
	var columns []*column
	header := color.New(color.Bold)
	// Only streamed tables have output to finish; pretty tables write
	// nothing until end.
	doc := &document{finish: func() {
		writeDivider(out, columns)
		fmt.Fprint(out, "\n")
	}}

	return detachAll(
		opts.Engine.On(walk.EventCheck, func(walk.Event) {
			if opts.Pretty {
				columns = newColumns()
				return
			}
			doc.begin()
			columns = newColumns()
			writeDivider(out, columns)
			writeHeaders(out, columns, nil)
			writeDivider(out, columns)
		}),
		opts.Engine.On(walk.EventResult, func(ev walk.Event) {
			if !opts.Pretty {
				writeRow(out, columns, ev.(walk.ResultEvent).Result)
			}
		}),
		opts.Engine.On(walk.EventEnd, func(ev walk.Event) {
			if opts.Pretty {
				results := ev.(walk.EndEvent).Results
				calculateMaxWidths(columns, results)

				writeDivider(out, columns)
				writeHeaders(out, columns, header)
				writeDivider(out, columns)

				for _, result := range results {
					writeRow(out, columns, result)
				}
				writeDivider(out, columns)
				fmt.Fprint(out, "\n")
				return
			}
			doc.end()
		}),
		doc.end,
	)
}

func newColumns() []*column {
	return []*column{
		{header: "Path", render: func(r walk.Result) string { return r.Path }},
		{header: "Length", render: func(r walk.Result) string { return strconv.Itoa(r.Length) }},
		{header: "Type", render: func(r walk.Result) string {
			if r.Directory {
				return "Directory"
			}
			return "File"
		}},
	}
}

func calculateMaxWidths(columns []*column, results []walk.Result) {
	for _, result := range results {
		for _, c := range columns {
			c.maxWidth = max(utf8.RuneCountInString(c.render(result)), len(c.header), c.maxWidth)
		}
	}
}

func writeDivider(out io.Writer, columns []*column) {
	for _, c := range columns {
		fmt.Fprintf(out, "+-%s-", strings.Repeat("-", max(len(c.header), c.maxWidth)))
	}
	fmt.Fprint(out, "+\n")
}

func writeHeaders(out io.Writer, columns []*column, emphasis *color.Color) {
	for _, c := range columns {
		cell := rightPad(c.header, c.maxWidth)
		if emphasis != nil {
			cell = emphasis.Sprint(cell)
		}
		fmt.Fprintf(out, "| %s ", cell)
	}
	fmt.Fprint(out, "|\n")
}

func writeRow(out io.Writer, columns []*column, result walk.Result) {
	for _, c := range columns {
		fmt.Fprintf(out, "| %s ", rightPad(c.render(result), c.maxWidth))
	}
	fmt.Fprint(out, "|\n")
}

func rightPad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
