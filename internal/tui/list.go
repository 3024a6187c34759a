package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/matheuskafuri/jjfeed/internal/feed"
)

const (
	// Each row is 2 or 3 lines plus a blank separator.
	articleItemHeight = 3
	repoItemHeight    = 4

	visitedMark = "✓ "
)

func formatCount(n int) string {
	switch {
	case n < 1000:
		return strconv.Itoa(n)
	case n < 1_000_000:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1000)) + "k"
	default:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1_000_000)) + "m"
	}
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}

// truncateStr cuts s to n terminal cells. CJK runes count as two.
func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= n {
		return s
	}
	if n <= 3 {
		return runewidth.Truncate(s, n, "")
	}
	return runewidth.Truncate(s, n, "...")
}

func titleLine(title string, selected, visited bool, width int) string {
	prefix := "  "
	if selected {
		prefix = "> "
	}
	mark := ""
	if visited {
		mark = visitedMark
	}
	text := prefix + mark + truncateStr(title, width-4-runewidth.StringWidth(mark))
	switch {
	case selected:
		return itemSelectedStyle.Render(text)
	case visited:
		return itemVisitedStyle.Render(text)
	default:
		return itemTitleStyle.Render(text)
	}
}

func renderArticleItem(a feed.Article, selected, visited bool, width int) string {
	if width < 10 {
		width = 30
	}
	title := titleLine(a.Title, selected, visited, width)

	stats := fmt.Sprintf("%s likes · %s comments · %s views",
		formatCount(a.DiggCount), formatCount(a.CommentCount), formatCount(a.ViewCount))
	meta := a.Author
	if a.Tags != "" {
		meta += feed.TagSeparator + a.Tags
	}
	line := "  " + itemAuthorStyle.Render(truncateStr(meta, width-4-lipgloss.Width(stats))) +
		"  " + itemMetaStyle.Render(stats)

	return title + "\n" + line
}

func renderRepoItem(r feed.Repo, selected, visited bool, width int) string {
	if width < 10 {
		width = 30
	}
	title := titleLine(r.FullName(), selected, visited, width)

	desc := r.Description
	if desc == "" {
		desc = "(No description)"
	}
	body := "  " + itemBodyStyle.Render(truncateStr(desc, width-4))

	swatch := "●"
	if r.LanguageColor != "" {
		swatch = lipgloss.NewStyle().Foreground(lipgloss.Color(r.LanguageColor)).Render("●")
	}
	lang := r.Language
	if lang == "" {
		lang = "unknown"
	}
	meta := "  " + swatch + " " + itemMetaStyle.Render(lang) +
		"  " + starStyle.Render("★ "+formatCount(r.Stars)) +
		"  " + itemMetaStyle.Render("⑂ "+formatCount(r.Forks))

	return title + "\n" + body + "\n" + meta
}

// window returns the [start, end) range of n items to show so that cursor
// stays visible.
func window(n, cursor, visible int) (int, int) {
	if visible < 1 {
		visible = 1
	}
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > n {
		end = n
		start = end - visible
		if start < 0 {
			start = 0
		}
	}
	return start, end
}

// renderRows lays out pre-rendered items, keeping the cursor in view.
// footer is shown below the last item once the list is scrolled to the end.
func renderRows(items []string, cursor, itemHeight, height, width int, footer, empty string) string {
	if len(items) == 0 {
		if footer != "" && empty == "" {
			return footer
		}
		return lipglossCenter(empty, width, height)
	}

	avail := height
	if footer != "" {
		avail--
	}
	start, end := window(len(items), cursor, avail/itemHeight)

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(items[i])
		if i < end-1 {
			b.WriteString("\n\n")
		}
	}
	if footer != "" && end == len(items) {
		b.WriteString("\n\n" + footer)
	}
	return b.String()
}

func lipglossCenter(s string, width, height int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", pad) + s
}
