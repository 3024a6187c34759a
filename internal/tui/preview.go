package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/matheuskafuri/jjfeed/internal/feed"
)

// renderArticleBrief shows the brief of the selected article in at most
// height lines.
func renderArticleBrief(a *feed.Article, width, height int) string {
	if a == nil || height <= 0 {
		return ""
	}
	brief := a.Brief
	if brief == "" {
		brief = "(No summary available)"
	}
	lines := strings.Split(wrapText(brief, width), "\n")
	if len(lines) > height {
		lines = lines[:height]
		lines[height-1] = truncateStr(lines[height-1]+" ...", width)
	}
	return itemBodyStyle.Render(strings.Join(lines, "\n"))
}

// wrapText breaks s into lines of at most width cells. Runs without spaces,
// as in Chinese text, are broken at any rune.
func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	var (
		lines []string
		line  strings.Builder
		w     int
	)
	flush := func() {
		lines = append(lines, strings.TrimRight(line.String(), " "))
		line.Reset()
		w = 0
	}
	for _, word := range strings.Fields(s) {
		ww := runewidth.StringWidth(word)
		if w > 0 && w+1+ww > width {
			flush()
		}
		if w > 0 {
			line.WriteByte(' ')
			w++
		}
		for _, r := range word {
			rw := runewidth.RuneWidth(r)
			if w+rw > width {
				flush()
			}
			line.WriteRune(r)
			w += rw
		}
	}
	if w > 0 {
		flush()
	}
	return strings.Join(lines, "\n")
}
