package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/coreman2200/funtimes-lyricards/internal/markup"
)

// column is one table column. Cells are appended as raw values and printed
// by Format, so float64 cells keep their type until render time.
type column struct {
	Header string
	Align  text.Align
	Format text.Transformer
}

// floatFormat prints float64 cells with fn and anything else as-is. Nil
// cells print empty.
func floatFormat(fn func(float64) string) text.Transformer {
	return func(v interface{}) string {
		switch x := v.(type) {
		case nil:
			return ""
		case float64:
			return fn(x)
		default:
			return fmt.Sprint(x)
		}
	}
}

var (
	secondsFormat  = floatFormat(func(f float64) string { return strconv.FormatFloat(f, 'f', 3, 64) })
	sampleFormat   = floatFormat(func(f float64) string { return strconv.FormatFloat(f, 'f', 4, 64) })
	timecodeFormat = floatFormat(markup.FormatTimecode)
	plainFormat    = floatFormat(func(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) })
)

func newTable(title string, cols []column) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if title != "" {
		tw.SetTitle("%s", title)
	}
	header := make(table.Row, len(cols))
	configs := make([]table.ColumnConfig, len(cols))
	for i, c := range cols {
		header[i] = c.Header
		format := c.Format
		if format == nil {
			format = plainFormat
		}
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       c.Align,
			AlignHeader: text.AlignLeft,
			Transformer: format,
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)
	return tw
}
