package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var asciiLogo = []string{
	`     ██╗     ██╗███████╗███████╗███████╗██████╗ `,
	`     ██║     ██║██╔════╝██╔════╝██╔════╝██╔══██╗`,
	`     ██║     ██║█████╗  █████╗  █████╗  ██║  ██║`,
	`██   ██║██   ██║██╔══╝  ██╔══╝  ██╔══╝  ██║  ██║`,
	`╚█████╔╝╚█████╔╝██║     ███████╗███████╗██████╔╝`,
	` ╚════╝  ╚════╝ ╚═╝     ╚══════╝╚══════╝╚═════╝ `,
}

func renderHomeScreen(width, height int, updateVersion string) string {
	logoStyle := lipgloss.NewStyle().Foreground(colorPrimary)
	keyStyle := lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(colorText)

	var lines []string

	for _, l := range asciiLogo {
		lines = append(lines, logoStyle.Render(l))
	}
	lines = append(lines, "")
	lines = append(lines, "")

	lines = append(lines, "          "+keyStyle.Render("[a]")+"  "+labelStyle.Render("Juejin articles"))
	lines = append(lines, "          "+keyStyle.Render("[g]")+"  "+labelStyle.Render("GitHub trending"))
	lines = append(lines, "")
	lines = append(lines, "          "+keyStyle.Render("[q]")+"  "+labelStyle.Render("Quit"))

	if updateVersion != "" {
		lines = append(lines, "")
		lines = append(lines, "          "+noticeStyle.Render("Update available: v"+updateVersion))
	}

	content := strings.Join(lines, "\n")
	contentHeight := strings.Count(content, "\n") + 1

	topPad := (height - contentHeight) / 3
	if topPad < 0 {
		topPad = 0
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		strings.Repeat("\n", topPad)+content)
}
