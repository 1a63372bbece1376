package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/andrejsstepanovs/storyboard/models"
	"github.com/andrejsstepanovs/storyboard/projection"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

const emptyProjectHint = "No scenes yet. Run `storyboard scene add` to create the first one."

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
			WidthMax:    60,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// renderCards draws the card list as a table in grid mode and as stacked
// blocks in list mode.
func renderCards(list projection.CardList) string {
	if list.Empty {
		return emptyProjectHint
	}
	if list.Mode == models.ViewList {
		return renderCardBlocks(list.Cards)
	}

	rows := make([][]string, 0, len(list.Cards))
	for _, c := range list.Cards {
		rows = append(rows, []string{
			c.Number,
			fmt.Sprintf("%d", c.ID),
			c.Title,
			c.DurationLabel,
			imageLabel(c.HasImage),
			c.DescriptionPreview,
		})
	}
	return renderTable(
		[]string{"Scene", "ID", "Title", "Duration", "Image", "Description"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignRight, alignLeft, alignLeft},
	)
}

func renderCardBlocks(cards []projection.Card) string {
	var b strings.Builder
	for i, c := range cards {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s (id %d)  %s\n", c.Number, c.ID, c.DurationLabel)
		title := c.Title
		if title == "" {
			title = "-"
		}
		fmt.Fprintf(&b, "  Title: %s\n", title)
		fmt.Fprintf(&b, "  Image: %s\n", imageLabel(c.HasImage))
		fmt.Fprintf(&b, "  %s\n", c.DescriptionPreview)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderTimeline(entries []projection.TimelineEntry, total string) string {
	if len(entries) == 0 {
		return emptyProjectHint
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Number, e.DurationLabel, imageLabel(e.HasImage), e.Anchor})
	}
	t := renderTable(
		[]string{"Scene", "Duration", "Thumbnail", "Anchor"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
	)
	return fmt.Sprintf("%s\nTotal duration: %s", t, total)
}

var slideStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(0, 1).
	Width(72)

var slideTitleStyle = lipgloss.NewStyle().Bold(true)

func renderSlide(s projection.Slide) string {
	var b strings.Builder
	b.WriteString(slideTitleStyle.Render(s.Title))
	fmt.Fprintf(&b, "\nDuration: %s\n", s.DurationLabel)
	if s.HasImage {
		b.WriteString("\n[image attached]\n")
	} else {
		fmt.Fprintf(&b, "\n[%s]\n", projection.NoImage)
	}
	if s.VisualDescription != "" {
		fmt.Fprintf(&b, "\nVisual Description\n%s\n", s.VisualDescription)
	}
	if s.AudioNarration != "" {
		fmt.Fprintf(&b, "\nAudio Narration\n%s\n", s.AudioNarration)
	}
	counter := fmt.Sprintf("%d / %d", s.Position, s.Total)
	return slideStyle.Render(strings.TrimRight(b.String(), "\n")) + "\n" + counter
}

func imageLabel(has bool) string {
	if has {
		return "yes"
	}
	return projection.NoImage
}
