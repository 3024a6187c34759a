package juejin

import (
	"fmt"
	"strconv"
	"strings"
)

// SortType selects the article ranking.
type SortType int

const (
	SortHot SortType = 200
	SortNew SortType = 300
)

func (s SortType) String() string {
	switch s {
	case SortHot:
		return "hot"
	case SortNew:
		return "new"
	default:
		return fmt.Sprintf("sort(%d)", int(s))
	}
}

// Label is the display name used by the UI.
func (s SortType) Label() string {
	switch s {
	case SortHot:
		return "Hot"
	case SortNew:
		return "New"
	default:
		return s.String()
	}
}

// ParseSortType accepts "hot", "new" or the numeric wire value.
func ParseSortType(s string) (SortType, error) {
	switch s {
	case "hot", "200":
		return SortHot, nil
	case "new", "300":
		return SortNew, nil
	}
	return 0, fmt.Errorf("unknown sort type %q (valid: hot, new)", s)
}

const (
	ClientType          = 6587
	IDType              = 2
	DefaultArticleLimit = 20
)

// Category is one of the fixed article categories.
type Category struct {
	ID    string
	Label string
}

// The empty ID is the home feed.
const (
	CategoryHome     = ""
	CategoryFrontend = "6809637767543259144"
	CategoryBackend  = "6809637769959178254"
	CategoryCodeLife = "6809637771511070734"
)

var Categories = []Category{
	{ID: CategoryHome, Label: "Home"},
	{ID: CategoryFrontend, Label: "Frontend"},
	{ID: CategoryBackend, Label: "Backend"},
	{ID: CategoryCodeLife, Label: "Code Life"},
}

// CategoryLabel returns the label for id, or id itself when unknown.
func CategoryLabel(id string) string {
	for _, c := range Categories {
		if c.ID == id {
			return c.Label
		}
	}
	return id
}

// LookupCategory resolves a category by ID or case-insensitive label.
func LookupCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if c.ID == s || strings.EqualFold(c.Label, s) {
			return c, true
		}
	}
	return Category{}, false
}

// ArticleQuery is the request body of the article recommendation endpoint.
type ArticleQuery struct {
	CateID     string   `json:"cate_id"`
	ClientType int      `json:"client_type"`
	Cursor     string   `json:"cursor"`
	IDType     int      `json:"id_type"`
	Limit      int      `json:"limit"`
	SortType   SortType `json:"sort_type"`
}

// DefaultArticleQuery is substituted when an intent arrives without a payload.
func DefaultArticleQuery() ArticleQuery {
	return ArticleQuery{
		CateID:     CategoryFrontend,
		ClientType: ClientType,
		Cursor:     "0",
		IDType:     IDType,
		Limit:      DefaultArticleLimit,
		SortType:   SortHot,
	}
}

func (q ArticleQuery) Validate() error {
	if q.SortType != SortHot && q.SortType != SortNew {
		return fmt.Errorf("invalid sort_type %d", int(q.SortType))
	}
	if q.Limit < 0 {
		return fmt.Errorf("invalid limit %d", q.Limit)
	}
	if _, err := q.cursor(); err != nil {
		return err
	}
	return nil
}

func (q ArticleQuery) cursor() (int, error) {
	n, err := strconv.Atoi(q.Cursor)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid cursor %q", q.Cursor)
	}
	return n, nil
}

// NextPage returns a copy of q with the cursor advanced by one.
func (q ArticleQuery) NextPage() (ArticleQuery, error) {
	n, err := q.cursor()
	if err != nil {
		return q, err
	}
	q.Cursor = strconv.Itoa(n + 1)
	return q, nil
}

// WithCategory returns a copy for another category, back on the first page.
func (q ArticleQuery) WithCategory(id string) ArticleQuery {
	q.CateID = id
	q.Cursor = "0"
	return q
}

// WithSort returns a copy with another ranking, back on the first page.
func (q ArticleQuery) WithSort(s SortType) ArticleQuery {
	q.SortType = s
	q.Cursor = "0"
	return q
}

// GithubCategory picks between trending and newly rising repositories.
type GithubCategory string

const (
	GithubTrending GithubCategory = "trending"
	GithubUpcoming GithubCategory = "upcome"
)

func AllGithubCategories() []GithubCategory {
	return []GithubCategory{GithubTrending, GithubUpcoming}
}

func (c GithubCategory) Label() string {
	switch c {
	case GithubTrending:
		return "Trending"
	case GithubUpcoming:
		return "Upcoming"
	}
	return string(c)
}

// Period is the time window of the GitHub ranking.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

func AllPeriods() []Period {
	return []Period{PeriodDay, PeriodWeek, PeriodMonth}
}

func (p Period) Label() string {
	switch p {
	case PeriodDay:
		return "Today"
	case PeriodWeek:
		return "This week"
	case PeriodMonth:
		return "This month"
	}
	return string(p)
}

// Language filters GitHub repositories.
type Language string

const (
	LangJavaScript Language = "javascript"
	LangRust       Language = "rust"
	LangTypeScript Language = "typescript"
	LangVue        Language = "vue"
	LangHTML       Language = "html"
	LangCSS        Language = "css"
)

func AllLanguages() []Language {
	return []Language{LangJavaScript, LangRust, LangTypeScript, LangVue, LangHTML, LangCSS}
}

func (l Language) Label() string {
	switch l {
	case LangJavaScript:
		return "JavaScript"
	case LangRust:
		return "Rust"
	case LangTypeScript:
		return "TypeScript"
	case LangVue:
		return "Vue"
	case LangHTML:
		return "HTML"
	case LangCSS:
		return "CSS"
	}
	return string(l)
}

// GithubQuery is the request body of the GitHub resources endpoint.
type GithubQuery struct {
	Category GithubCategory `json:"category"`
	Lang     Language       `json:"lang"`
	Limit    int            `json:"limit"`
	Offset   int            `json:"offset"`
	Period   Period         `json:"period"`
}

// DefaultGithubQuery is substituted when an intent arrives without a payload.
func DefaultGithubQuery() GithubQuery {
	return GithubQuery{
		Category: GithubTrending,
		Lang:     LangJavaScript,
		Limit:    20,
		Offset:   0,
		Period:   PeriodDay,
	}
}

func (q GithubQuery) Validate() error {
	if !contains(AllGithubCategories(), q.Category) {
		return fmt.Errorf("invalid category %q", q.Category)
	}
	if !contains(AllLanguages(), q.Lang) {
		return fmt.Errorf("invalid lang %q", q.Lang)
	}
	if !contains(AllPeriods(), q.Period) {
		return fmt.Errorf("invalid period %q", q.Period)
	}
	if q.Limit < 0 || q.Offset < 0 {
		return fmt.Errorf("invalid limit/offset %d/%d", q.Limit, q.Offset)
	}
	return nil
}

// ParseGithubCategory accepts the wire value or "upcoming".
func ParseGithubCategory(s string) (GithubCategory, error) {
	if s == "upcoming" {
		return GithubUpcoming, nil
	}
	if c := GithubCategory(s); contains(AllGithubCategories(), c) {
		return c, nil
	}
	return "", fmt.Errorf("unknown github category %q (valid: trending, upcoming)", s)
}

func ParsePeriod(s string) (Period, error) {
	if p := Period(s); contains(AllPeriods(), p) {
		return p, nil
	}
	return "", fmt.Errorf("unknown period %q (valid: day, week, month)", s)
}

func ParseLanguage(s string) (Language, error) {
	for _, l := range AllLanguages() {
		if string(l) == s || strings.EqualFold(l.Label(), s) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown language %q", s)
}

func contains[T comparable](list []T, v T) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
