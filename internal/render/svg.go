// Package render turns aggregated journal data into the heat-map image and
// the README report. It only reads stats and catalog values.
package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/moodlog/internal/stats"
)

// Grid geometry in pixels.
const (
	CellSize   = 12
	CellGap    = 2
	LeftMargin = 40
	TopMargin  = 20
)

// DefaultTitle heads the heat-map image.
const DefaultTitle = "DEVertidamente - Mapa de Sentimentos"

// weekdayLabels are drawn beside rows 0, 2 and 4.
var weekdayLabels = []struct {
	row  int
	text string
}{
	{0, "Seg"},
	{2, "Qua"},
	{4, "Sex"},
}

const pitch = CellSize + CellGap

// SVG draws cal as a grid of day squares with month and weekday labels.
// Each square carries its summary as a tooltip.
func SVG(cal stats.Calendar, title string) string {
	if title == "" {
		title = DefaultTitle
	}
	width := LeftMargin + cal.Weeks*pitch
	height := TopMargin + 7*pitch + 30

	var b strings.Builder
	fmt.Fprintf(&b, `<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`+"\n", width, height)
	b.WriteString("<style>\n")
	b.WriteString(".dia { rx: 2; }\n")
	b.WriteString(".dia:hover { stroke: #000; stroke-width: 1; }\n")
	b.WriteString(".mes-label { font-size: 10px; fill: #767676; }\n")
	b.WriteString(".dia-label { font-size: 9px; fill: #767676; }\n")
	b.WriteString("</style>\n")

	fmt.Fprintf(&b, `<text x="%s" y="15" text-anchor="middle" style="font-size: 14px; font-weight: bold; fill: #333;">%s</text>`+"\n",
		strconv.FormatFloat(float64(width)/2, 'f', -1, 64), escape(title))

	for _, l := range weekdayLabels {
		y := TopMargin + l.row*pitch + CellSize/2 + 3
		fmt.Fprintf(&b, `<text x="5" y="%d" class="dia-label" text-anchor="start">%s</text>`+"\n", y, l.text)
	}

	for _, m := range cal.Months {
		x := LeftMargin + m.Week*pitch
		fmt.Fprintf(&b, `<text x="%d" y="%d" class="mes-label">%s</text>`+"\n", x, TopMargin-5, m.Abbrev())
	}

	for _, c := range cal.Cells {
		x := LeftMargin + c.Week*pitch
		y := TopMargin + c.Weekday*pitch
		color := c.Color
		if !c.Recorded || color == "" {
			color = stats.EmptyColor
		}
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s" class="dia">`+"\n", x, y, CellSize, CellSize, color)
		fmt.Fprintf(&b, "<title>%s</title>\n", escape(c.Summary))
		b.WriteString("</rect>\n")
	}

	b.WriteString("</svg>\n")
	return b.String()
}

func escape(s string) string {
	var buf bytes.Buffer
	// EscapeText only fails when the writer does.
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
