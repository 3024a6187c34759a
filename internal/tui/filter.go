package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/matheuskafuri/jjfeed/internal/juejin"
)

// selector is one row of mutually exclusive filter tabs.
type selector struct {
	title   string
	options []string
	active  int
}

func (s selector) render(width int) string {
	sep := tabSeparatorStyle.Render(" ")
	row := selectorTitleStyle.Render(s.title)

	for i, opt := range s.options {
		style := tabInactiveStyle
		if i == s.active {
			style = tabActiveStyle
		}
		candidate := row
		if i > 0 {
			candidate += sep
		}
		candidate += style.Render(opt)
		// Always keep the active tab visible, drop the rest when out of room.
		if lipgloss.Width(candidate) > width && i != s.active {
			continue
		}
		row = candidate
	}
	return row
}

func categorySelector(cateID string) selector {
	s := selector{title: "Category"}
	for i, c := range juejin.Categories {
		s.options = append(s.options, c.Label)
		if c.ID == cateID {
			s.active = i
		}
	}
	return s
}

var sortOrder = []juejin.SortType{juejin.SortHot, juejin.SortNew}

func sortSelector(st juejin.SortType) selector {
	s := selector{title: "Sort"}
	for i, o := range sortOrder {
		s.options = append(s.options, o.Label())
		if o == st {
			s.active = i
		}
	}
	return s
}

func githubCategorySelector(c juejin.GithubCategory) selector {
	s := selector{title: "Category"}
	for i, o := range juejin.AllGithubCategories() {
		s.options = append(s.options, o.Label())
		if o == c {
			s.active = i
		}
	}
	return s
}

func periodSelector(p juejin.Period) selector {
	s := selector{title: "Period"}
	for i, o := range juejin.AllPeriods() {
		s.options = append(s.options, o.Label())
		if o == p {
			s.active = i
		}
	}
	return s
}

func languageSelector(l juejin.Language) selector {
	s := selector{title: "Language"}
	for i, o := range juejin.AllLanguages() {
		s.options = append(s.options, o.Label())
		if o == l {
			s.active = i
		}
	}
	return s
}

// cycle returns the option after cur, wrapping around.
func cycle[T comparable](options []T, cur T) T {
	for i, o := range options {
		if o == cur {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}
