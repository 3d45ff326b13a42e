package report

import (
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"diareval/internal/chunk"
	"diareval/internal/corpusstats"
	"diareval/internal/evaluate"
	"diareval/internal/roles"
)

// Align selects a column's alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Table renders rows under headers with rounded borders. Headers keep
// go-pretty's upper-case format. Short rows are padded with empty cells.
func Table(headers []string, rows [][]string, aligns []Align) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == AlignRight {
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

func numericAligns(leading, numeric int) []Align {
	aligns := make([]Align, 0, leading+numeric)
	for range leading {
		aligns = append(aligns, AlignLeft)
	}
	for range numeric {
		aligns = append(aligns, AlignRight)
	}
	return aligns
}

// ScoresTable renders each scored recording's rows followed by its total.
func ScoresTable(results []evaluate.Result) string {
	headers := []string{"Recording", "Label", "Correct", "FA spk", "FA speech", "Miss spk", "Miss speech"}
	var rows [][]string
	for _, r := range results {
		if !r.Scored() {
			continue
		}
		for _, row := range r.Report.Rows {
			rows = append(rows, []string{
				r.Recording, row.Label,
				tableFloat(row.Correct), tableFloat(row.FASpeaker), tableFloat(row.FASpeech),
				tableFloat(row.MissSpeaker), tableFloat(row.MissSpeech),
			})
		}
		t := r.Report.Totals
		rows = append(rows, []string{
			r.Recording, scoresTotalsLabel,
			tableFloat(t.Correct), tableFloat(t.FASpeaker), tableFloat(t.FASpeech),
			tableFloat(t.MissSpeaker), tableFloat(t.MissSpeech),
		})
	}
	return Table(headers, rows, numericAligns(2, 5))
}

// ChunksTable renders one recording's chunks.
func ChunksTable(chunks []chunk.Result) string {
	headers := []string{"Start", "End", "True", "False", "Miss", "Speech", "Labels"}
	rows := make([][]string, 0, len(chunks))
	for _, c := range chunks {
		rows = append(rows, []string{
			tableFloat(c.Start), tableFloat(c.End),
			tableFloat(c.True), tableFloat(c.False), tableFloat(c.Miss), tableFloat(c.Speech),
			strings.Join(c.Labels, ","),
		})
	}
	aligns := append(numericAligns(0, 6), AlignLeft)
	return Table(headers, rows, aligns)
}

// StatsTable renders the per-file corpus statistics.
func StatsTable(files []corpusstats.File) string {
	headers := []string{"Recording", "Length", "Speakers"}
	for _, role := range roles.All {
		headers = append(headers, role.Display())
	}
	headers = append(headers, "Total speech", "Overlap %", "Mean voc.")
	rows := make([][]string, 0, len(files))
	for _, f := range files {
		row := []string{f.Recording, tableFloat(f.ClipLength), strconv.Itoa(f.Speakers)}
		for _, role := range roles.All {
			row = append(row, strconv.Itoa(f.RoleCounts[role]))
		}
		row = append(row, tableFloat(f.Speech), tableFloat(100*f.PropOverlap), tableFloat(f.MeanVocalization))
		rows = append(rows, row)
	}
	return Table(headers, rows, numericAligns(1, len(headers)-1))
}
