package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/coreman2200/funtimes-lyricards/internal/easing"
	"github.com/coreman2200/funtimes-lyricards/internal/timer"
)

func newTimersCommand() *cobra.Command {
	var (
		start float64
		end   float64
		at    []float64
		steps int
	)
	cmd := &cobra.Command{
		Use:   "timers <declarations>",
		Short: "Evaluate timer declarations against a start/end pair",
		Long: "Evaluate timer declarations against a start/end pair.\n\n" +
			"Timing functions: " + fmt.Sprint(easing.TimingNames()) + "\n" +
			"Postprocessing: " + fmt.Sprint(easing.PostNames()),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			timers, err := timer.ParseList(args[0])
			if err != nil {
				return err
			}
			if len(timers) == 0 {
				return fmt.Errorf("no timers declared")
			}
			times := at
			if len(times) == 0 {
				times = sampleTimes(start, end, steps)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTimers(timers, timer.Refs{Start: start, End: end}, times))
			return nil
		},
	}
	cmd.Flags().Float64Var(&start, "start", 0, "Value of the start reference, seconds")
	cmd.Flags().Float64Var(&end, "end", 1, "Value of the end reference, seconds")
	cmd.Flags().Float64SliceVar(&at, "at", nil, "Times to evaluate at (default: evenly spaced samples)")
	cmd.Flags().IntVar(&steps, "steps", 4, "Number of intervals when sampling between start and end")
	return cmd
}

func sampleTimes(start, end float64, steps int) []float64 {
	if steps < 1 {
		steps = 1
	}
	out := make([]float64, 0, steps+1)
	for i := 0; i <= steps; i++ {
		out = append(out, start+(end-start)*float64(i)/float64(steps))
	}
	return out
}

func renderTimers(timers []*timer.Timer, refs timer.Refs, times []float64) string {
	cols := []column{{Header: "Time", Align: text.AlignRight, Format: secondsFormat}}
	decl := table.Row{"decl"}
	for _, t := range timers {
		cols = append(cols, column{Header: t.Name, Align: text.AlignRight, Format: sampleFormat})
		decl = append(decl, t.Descriptor.String())
	}
	tw := newTable(fmt.Sprintf("start %s  end %s", secondsFormat(refs.Start), secondsFormat(refs.End)), cols)
	tw.AppendRow(decl)
	tw.AppendSeparator()
	for _, now := range times {
		row := table.Row{now}
		for _, t := range timers {
			row = append(row, t.Evaluate(now, refs))
		}
		tw.AppendRow(row)
	}
	return tw.Render()
}
