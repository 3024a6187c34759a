package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matheuskafuri/jjfeed/internal/bridge"
	"github.com/matheuskafuri/jjfeed/internal/browser"
	"github.com/matheuskafuri/jjfeed/internal/cache"
	"github.com/matheuskafuri/jjfeed/internal/feed"
	"github.com/matheuskafuri/jjfeed/internal/juejin"
	"github.com/matheuskafuri/jjfeed/internal/logging"
)

type focusPane int

const (
	focusArticles focusPane = iota
	focusGithub
)

type mode int

const (
	modeHome mode = iota
	modeFeeds
	modeHelp
)

const flashTimeout = 4 * time.Second

// History is the part of the visit cache the UI reads and writes.
type History interface {
	RecordVisit(v cache.Visit) error
	Visited(kind cache.Kind, ids []string) (map[string]bool, error)
}

type App struct {
	ep       *bridge.Endpoint
	notices  *Notices
	history  History
	launcher browser.Launcher
	logger   *slog.Logger

	articles *feed.ArticleFeed
	github   *feed.GithubFeed
	visited  map[cache.Kind]map[string]bool

	articleCursor int
	repoCursor    int
	focus         focusPane
	mode          mode

	width  int
	height int

	spinner spinner.Model
	help    help.Model
	keys    keyMap

	checkUpdate   func() string
	updateVersion string
	streak        int
	currentDate   string
	flash         string
	flashID       int
	err           error
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Endpoint     *bridge.Endpoint
	Notices      *Notices
	History      History
	Launcher     browser.Launcher
	Logger       *slog.Logger
	ArticleQuery juejin.ArticleQuery
	GithubQuery  juejin.GithubQuery
	Streak       int
	// CheckUpdate returns a newer released version, or "".
	CheckUpdate func() string
	FeedsFirst  bool
}

func NewApp(opts RunOpts) *App {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	launcher := opts.Launcher
	if launcher == nil {
		launcher = browser.System{}
	}
	startMode := modeHome
	if opts.FeedsFirst {
		startMode = modeFeeds
	}

	return &App{
		ep:          opts.Endpoint,
		notices:     opts.Notices,
		history:     opts.History,
		launcher:    launcher,
		logger:      logger,
		articles:    feed.NewArticleFeed(opts.ArticleQuery),
		github:      feed.NewGithubFeed(opts.GithubQuery),
		visited:     make(map[cache.Kind]map[string]bool),
		mode:        startMode,
		spinner:     sp,
		help:        help.New(),
		keys:        defaultKeyMap(),
		checkUpdate: opts.CheckUpdate,
		streak:      opts.Streak,
		currentDate: time.Now().Format("Jan 2"),
	}
}

// Init mounts both feeds, each issuing its initial fetch.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		a.listen(),
		a.post(a.articles.Refresh()),
		a.post(a.github.Refresh()),
		a.spinner.Tick,
	}
	if a.notices != nil {
		cmds = append(cmds, a.notices.wait())
	}
	if a.checkUpdate != nil {
		check := a.checkUpdate
		cmds = append(cmds, func() tea.Msg {
			if v := check(); v != "" {
				return updateAvailableMsg{version: v}
			}
			return nil
		})
	}
	return tea.Batch(cmds...)
}

// post sends an intent to the host. Replies arrive through listen.
func (a *App) post(intent bridge.Intent) tea.Cmd {
	ep := a.ep
	return func() tea.Msg {
		env, err := bridge.EncodeIntent(intent)
		if err != nil {
			return actionErrMsg{err: err}
		}
		if err := ep.Post(context.Background(), env); err != nil {
			if errors.Is(err, bridge.ErrClosed) {
				return bridgeClosedMsg{}
			}
			return actionErrMsg{err: err}
		}
		return nil
	}
}

func (a *App) listen() tea.Cmd {
	ep := a.ep
	return func() tea.Msg {
		env, err := ep.Receive(context.Background())
		if err != nil {
			return bridgeClosedMsg{}
		}
		return envelopeMsg{env: env}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		return a, nil

	case tea.KeyMsg:
		// Clear sticky error on any keypress
		a.err = nil
		return a.handleKey(msg)

	case envelopeMsg:
		return a, tea.Batch(a.applyEnvelope(msg.env), a.listen())

	case bridgeClosedMsg:
		a.logger.Debug("bridge closed")
		return a, nil

	case noticeMsg:
		return a, tea.Batch(a.setFlash(msg.text), a.notices.wait())

	case flashMsg:
		return a, a.setFlash(msg.text)

	case clearFlashMsg:
		if msg.id == a.flashID {
			a.flash = ""
		}
		return a, nil

	case actionErrMsg:
		a.logger.Warn("action failed", "error", msg.err)
		a.err = msg.err
		return a, nil

	case visitedMsg:
		seen := a.visitedSet(msg.kind)
		for id, ok := range msg.ids {
			if ok {
				seen[id] = true
			}
		}
		return a, nil

	case updateAvailableMsg:
		a.updateVersion = msg.version
		return a, nil

	case revealMsg:
		if a.mode != modeFeeds {
			a.mode = modeFeeds
		}
		return a, nil

	case spinner.TickMsg:
		if a.articles.Loading() || a.github.Loading() {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) applyEnvelope(env bridge.Envelope) tea.Cmd {
	res, err := bridge.DecodeResult(env)
	if err != nil {
		a.logger.Warn("dropping result", "type", env.Type, "error", err)
		return nil
	}

	switch r := res.(type) {
	case bridge.ArticlesFetched:
		if !a.articles.Apply(r) {
			a.logger.Debug("stale articles result", "seq", r.Seq)
			return nil
		}
		ids := make([]string, 0, len(r.Page.Data))
		for _, it := range r.Page.Data {
			ids = append(ids, it.ArticleID)
		}
		return a.lookupVisited(cache.KindArticle, ids)

	case bridge.GithubsFetched:
		if !a.github.Apply(r) {
			a.logger.Debug("stale github result", "seq", r.Seq)
			return nil
		}
		a.repoCursor = clamp(a.repoCursor, len(a.github.Items()))
		ids := make([]string, 0, len(r.Repos))
		for _, repo := range a.github.Items() {
			ids = append(ids, repo.FullName())
		}
		return a.lookupVisited(cache.KindRepo, ids)
	}
	return nil
}

func (a *App) lookupVisited(kind cache.Kind, ids []string) tea.Cmd {
	if a.history == nil || len(ids) == 0 {
		return nil
	}
	h := a.history
	return func() tea.Msg {
		seen, err := h.Visited(kind, ids)
		if err != nil {
			return actionErrMsg{err: err}
		}
		return visitedMsg{kind: kind, ids: seen}
	}
}

func (a *App) visitedSet(kind cache.Kind) map[string]bool {
	seen, ok := a.visited[kind]
	if !ok {
		seen = make(map[string]bool)
		a.visited[kind] = seen
	}
	return seen
}

func (a *App) setFlash(text string) tea.Cmd {
	a.flash = text
	a.flashID++
	id := a.flashID
	return tea.Tick(flashTimeout, func(time.Time) tea.Msg {
		return clearFlashMsg{id: id}
	})
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.mode {
	case modeHome:
		return a.handleHomeKey(msg)
	case modeHelp:
		if key.Matches(msg, a.keys.Help) || msg.String() == "esc" || msg.String() == "q" {
			a.mode = modeFeeds
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.mode = modeHelp
		return a, nil
	case key.Matches(msg, a.keys.Home):
		a.mode = modeHome
		return a, nil
	case key.Matches(msg, a.keys.Switch):
		if a.focus == focusArticles {
			a.focus = focusGithub
		} else {
			a.focus = focusArticles
		}
		return a, nil
	case key.Matches(msg, a.keys.Up):
		a.moveUp()
		return a, nil
	case key.Matches(msg, a.keys.Down):
		return a, a.moveDown()
	case key.Matches(msg, a.keys.Open):
		return a, a.visitSelected(false)
	case key.Matches(msg, a.keys.Copy):
		return a, a.visitSelected(true)
	case key.Matches(msg, a.keys.Reload):
		return a, a.reload()
	}

	if a.focus == focusArticles {
		return a, a.handleArticlesKey(msg)
	}
	return a, a.handleGithubKey(msg)
}

func (a *App) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "a", "1", "enter":
		a.mode = modeFeeds
		a.focus = focusArticles
	case "g", "2":
		a.mode = modeFeeds
		a.focus = focusGithub
	case "q":
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) handleArticlesKey(msg tea.KeyMsg) tea.Cmd {
	q := a.articles.Query()
	switch {
	case key.Matches(msg, a.keys.Category):
		ids := make([]string, len(juejin.Categories))
		for i, c := range juejin.Categories {
			ids[i] = c.ID
		}
		return a.setCategory(cycle(ids, q.CateID))
	case key.Matches(msg, a.keys.Sort):
		intent, ok := a.articles.SetSort(cycle(sortOrder, q.SortType))
		if !ok {
			return nil
		}
		a.articleCursor = 0
		return a.fetch(intent)
	}

	switch s := msg.String(); s {
	case "1", "2", "3", "4":
		idx := int(s[0] - '1')
		if idx < len(juejin.Categories) {
			return a.setCategory(juejin.Categories[idx].ID)
		}
	}
	return nil
}

func (a *App) setCategory(id string) tea.Cmd {
	intent, ok := a.articles.SetCategory(id)
	if !ok {
		return nil
	}
	a.articleCursor = 0
	return a.fetch(intent)
}

func (a *App) handleGithubKey(msg tea.KeyMsg) tea.Cmd {
	q := a.github.Query()
	var (
		intent bridge.FetchGithubs
		ok     bool
	)
	switch {
	case key.Matches(msg, a.keys.Category):
		intent, ok = a.github.SetCategory(cycle(juejin.AllGithubCategories(), q.Category))
	case key.Matches(msg, a.keys.Period):
		intent, ok = a.github.SetPeriod(cycle(juejin.AllPeriods(), q.Period))
	case key.Matches(msg, a.keys.Language):
		intent, ok = a.github.SetLanguage(cycle(juejin.AllLanguages(), q.Lang))
	}
	if !ok {
		return nil
	}
	a.repoCursor = 0
	return a.fetch(intent)
}

// fetch posts intent and keeps the spinner going while it is in flight.
func (a *App) fetch(intent bridge.Intent) tea.Cmd {
	return tea.Batch(a.post(intent), a.spinner.Tick)
}

func (a *App) moveUp() {
	if a.focus == focusArticles {
		if a.articleCursor > 0 {
			a.articleCursor--
		}
		return
	}
	if a.repoCursor > 0 {
		a.repoCursor--
	}
}

// moveDown past the last article asks for the next page.
func (a *App) moveDown() tea.Cmd {
	if a.focus == focusGithub {
		if a.repoCursor < len(a.github.Items())-1 {
			a.repoCursor++
		}
		return nil
	}
	if a.articleCursor < len(a.articles.Items())-1 {
		a.articleCursor++
		return nil
	}
	intent, ok := a.articles.LoadMore()
	if !ok {
		return nil
	}
	return a.fetch(intent)
}

// reload retries a pending request, or starts the focused feed over.
func (a *App) reload() tea.Cmd {
	if a.focus == focusGithub {
		return a.fetch(a.github.Refresh())
	}
	if a.articles.Loading() {
		return a.fetch(a.articles.Refresh())
	}
	a.articleCursor = 0
	return a.fetch(a.articles.Reload())
}

func (a *App) selectedVisit() (cache.Visit, bool) {
	if a.focus == focusArticles {
		items := a.articles.Items()
		if a.articleCursor >= len(items) {
			return cache.Visit{}, false
		}
		art := items[a.articleCursor]
		return cache.Visit{Kind: cache.KindArticle, ItemID: art.ID, Title: art.Title, URL: browser.ArticleURL(art.ID)}, true
	}
	items := a.github.Items()
	if a.repoCursor >= len(items) {
		return cache.Visit{}, false
	}
	repo := items[a.repoCursor]
	return cache.Visit{Kind: cache.KindRepo, ItemID: repo.FullName(), Title: repo.FullName(), URL: repo.HTMLURL()}, true
}

// visitSelected opens or copies the selected item's link and records the visit.
func (a *App) visitSelected(copyLink bool) tea.Cmd {
	v, ok := a.selectedVisit()
	if !ok {
		return nil
	}
	a.visitedSet(v.Kind)[v.ItemID] = true

	l := a.launcher
	h := a.history
	return func() tea.Msg {
		var err error
		if copyLink {
			err = l.Copy(v.URL)
		} else {
			err = l.Open(v.URL)
		}
		if err != nil {
			return actionErrMsg{err: err}
		}
		if h != nil {
			v.VisitedAt = time.Now()
			if err := h.RecordVisit(v); err != nil {
				return actionErrMsg{err: err}
			}
		}
		if copyLink {
			return flashMsg{text: "copied " + v.URL}
		}
		return nil
	}
}

func (a *App) withBottomBar(content string, hints string) string {
	bar := renderBottomBar(a.streak, hints, a.width)
	lines := strings.Split(content, "\n")
	for len(lines) < a.height-1 {
		lines = append(lines, "")
	}
	if len(lines) >= a.height {
		lines = lines[:a.height-1]
	}
	lines = append(lines, bar)
	return strings.Join(lines, "\n")
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  jjfeed")
	}

	switch a.mode {
	case modeHome:
		return a.withBottomBar(renderHomeScreen(a.width, a.height, a.updateVersion), "a articles  g github  q quit")
	case modeHelp:
		return a.withBottomBar(a.renderHelp(), "? close  q quit")
	}

	// Layout calculations
	headerHeight := 1
	statusHeight := 1
	contentHeight := a.height - headerHeight - statusHeight - 2 // borders
	if contentHeight < 6 {
		contentHeight = 6
	}

	articlesWidth := a.width * 55 / 100
	githubWidth := a.width - articlesWidth

	headerLeft := headerStyle.Render("jjfeed")
	headerRight := headerDateStyle.Render(a.currentDate)
	headerGap := a.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerGap < 0 {
		headerGap = 0
	}
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	articlesStyle, githubStyle := paneStyle, paneActiveStyle
	if a.focus == focusArticles {
		articlesStyle, githubStyle = paneActiveStyle, paneStyle
	}
	left := articlesStyle.Width(articlesWidth - 2).Height(contentHeight).
		Render(a.renderArticlesPane(articlesWidth-4, contentHeight))
	right := githubStyle.Width(githubWidth - 2).Height(contentHeight).
		Render(a.renderGithubPane(githubWidth-4, contentHeight))
	content := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	status := renderStatusBar(a.statusLeft(), a.streak, a.help.View(a.keys), a.width)
	if a.err != nil {
		status = noticeStyle.Render(" " + a.err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, content, status)
}

func (a *App) statusLeft() string {
	if a.flash != "" {
		return noticeStyle.Render(a.flash)
	}
	if a.focus == focusArticles {
		q := a.articles.Query()
		return fmt.Sprintf("%d articles · %s · %s", len(a.articles.Items()), juejin.CategoryLabel(q.CateID), q.SortType.Label())
	}
	q := a.github.Query()
	return fmt.Sprintf("%d repos · %s · %s · %s", len(a.github.Items()), q.Category.Label(), q.Period.Label(), q.Lang.Label())
}

func (a *App) loaderRow(label string) string {
	return loaderStyle.Render(a.spinner.View() + " " + label)
}

func (a *App) renderArticlesPane(width, height int) string {
	q := a.articles.Query()
	bars := []string{
		categorySelector(q.CateID).render(width),
		sortSelector(q.SortType).render(width),
		"",
	}

	items := a.articles.Items()
	var selected *feed.Article
	if a.articleCursor < len(items) {
		selected = &items[a.articleCursor]
	}
	briefHeight := 0
	if selected != nil && height >= 16 {
		briefHeight = 3
	}
	listHeight := height - len(bars) - briefHeight
	if briefHeight > 0 {
		listHeight--
	}

	seen := a.visited[cache.KindArticle]
	rows := make([]string, len(items))
	for i, it := range items {
		rows[i] = renderArticleItem(it, i == a.articleCursor, seen[it.ID], width)
	}

	var footer, empty string
	switch {
	case a.articles.Loading():
		footer = a.loaderRow("Loading articles...")
	case !a.articles.HasMore():
		footer = endStyle.Render("· no more content ·")
		empty = "No articles found"
	default:
		empty = "No articles found"
	}
	list := renderRows(rows, a.articleCursor, articleItemHeight, listHeight, width, footer, empty)

	parts := append(bars, padLines(list, listHeight))
	if briefHeight > 0 {
		parts = append(parts, "", renderArticleBrief(selected, width, briefHeight))
	}
	return strings.Join(parts, "\n")
}

func (a *App) renderGithubPane(width, height int) string {
	q := a.github.Query()
	bars := []string{
		githubCategorySelector(q.Category).render(width),
		periodSelector(q.Period).render(width),
		languageSelector(q.Lang).render(width),
		"",
	}

	items := a.github.Items()
	if a.github.Loading() {
		return strings.Join(append(bars, a.loaderRow("Loading repositories...")), "\n")
	}

	seen := a.visited[cache.KindRepo]
	rows := make([]string, len(items))
	for i, it := range items {
		rows[i] = renderRepoItem(it, i == a.repoCursor, seen[it.FullName()], width)
	}
	list := renderRows(rows, a.repoCursor, repoItemHeight, height-len(bars), width, "", "No repositories found")
	return strings.Join(append(bars, list), "\n")
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("jjfeed")

	body := title + helpDimStyle.Render(" keyboard shortcuts") + "\n\n" +
		a.help.FullHelpView(a.keys.FullHelp()) + "\n\n" +
		helpDimStyle.Render("Articles: c or 1-4 category, s hot/new") + "\n" +
		helpDimStyle.Render("GitHub:   c category, p period, l language")

	card := helpCardStyle.Render(body)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

// padLines pads or cuts s to exactly n lines.
func padLines(s string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func clamp(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}
