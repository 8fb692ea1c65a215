package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/coreman2200/funtimes-lyricards/internal/markup"
	"github.com/coreman2200/funtimes-lyricards/internal/source"
)

func newInspectCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [source]",
		Short: "Parse a lyrics document and list its cards, voices and words",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := ""
			if len(args) == 1 {
				location = args[0]
			} else {
				cfg, err := opts.loadConfig()
				if err != nil {
					return err
				}
				location = cfg.Source
			}
			if location == "" {
				return fmt.Errorf("no lyrics source given")
			}

			body, err := source.Fetch(cmd.Context(), &http.Client{Timeout: 30 * time.Second}, location)
			if err != nil {
				return err
			}
			doc, err := markup.Parse(body)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderDocument(location, doc))
			fmt.Fprintf(cmd.OutOrStdout(), "%d cards, %d words, %s\n",
				len(doc.Cards), doc.WordCount(), markup.FormatTimecode(doc.Duration()))
			return nil
		},
	}
}

func renderDocument(title string, doc *markup.Document) string {
	tw := newTable(title, []column{
		{Header: "Card", Align: text.AlignRight},
		{Header: "Voice"},
		{Header: "Word", Align: text.AlignRight},
		{Header: "Start", Align: text.AlignRight, Format: timecodeFormat},
		{Header: "End", Align: text.AlignRight, Format: timecodeFormat},
		{Header: "Text"},
	})
	for ci, card := range doc.Cards {
		cardEnd := doc.CardEnd(ci)
		if ci > 0 {
			tw.AppendSeparator()
		}
		tw.AppendRow(table.Row{ci, nil, nil, card.Time, cardEnd, nil})
		for _, voice := range card.Voices {
			for wi, word := range voice.Words {
				tw.AppendRow(table.Row{
					nil, voice.Name, wi,
					word.Time, voice.WordEnd(wi, cardEnd),
					strconv.Quote(strings.TrimRight(word.Text, " ")),
				})
			}
		}
	}
	return tw.Render()
}
