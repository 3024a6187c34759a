package tui

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matheuskafuri/jjfeed/internal/bridge"
	"github.com/matheuskafuri/jjfeed/internal/cache"
	"github.com/matheuskafuri/jjfeed/internal/juejin"
)

type fakeHistory struct {
	mu     sync.Mutex
	visits []cache.Visit
}

func (h *fakeHistory) RecordVisit(v cache.Visit) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.visits = append(h.visits, v)
	return nil
}

func (h *fakeHistory) Visited(kind cache.Kind, ids []string) (map[string]bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(map[string]bool)
	for _, v := range h.visits {
		for _, id := range ids {
			if v.Kind == kind && v.ItemID == id {
				out[id] = true
			}
		}
	}
	return out, nil
}

type fakeLauncher struct {
	opened []string
	copied []string
}

func (l *fakeLauncher) Open(url string) error {
	l.opened = append(l.opened, url)
	return nil
}

func (l *fakeLauncher) Copy(text string) error {
	l.copied = append(l.copied, text)
	return nil
}

type testEnv struct {
	app      *App
	host     *bridge.Endpoint
	history  *fakeHistory
	launcher *fakeLauncher
}

// newTestApp mounts an App without running its commands, so both feeds hold
// a pending request with Seq 1.
func newTestApp(t *testing.T) *testEnv {
	t.Helper()
	ui, host := bridge.Pipe(16)
	t.Cleanup(ui.Close)

	env := &testEnv{host: host, history: &fakeHistory{}, launcher: &fakeLauncher{}}
	env.app = NewApp(RunOpts{
		Endpoint:     ui,
		Notices:      NewNotices(4),
		History:      env.history,
		Launcher:     env.launcher,
		ArticleQuery: juejin.DefaultArticleQuery(),
		GithubQuery:  juejin.DefaultGithubQuery(),
		FeedsFirst:   true,
	})
	env.app.Init()
	env.app.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	return env
}

// run executes cmd and any batched commands, returning the produced messages.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func (e *testEnv) press(keys string) tea.Cmd {
	_, cmd := e.app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)})
	return cmd
}

func (e *testEnv) receive(t *testing.T) bridge.Intent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	env, err := e.host.Receive(ctx)
	if err != nil {
		t.Fatalf("no intent posted: %v", err)
	}
	intent, err := bridge.DecodeIntent(env)
	if err != nil {
		t.Fatalf("decoding intent: %v", err)
	}
	return intent
}

func (e *testEnv) deliver(t *testing.T, r bridge.Result) {
	t.Helper()
	env, err := bridge.EncodeResult(r, bridge.Envelope{ID: "req"})
	if err != nil {
		t.Fatalf("encoding result: %v", err)
	}
	_, cmd := e.app.Update(envelopeMsg{env: env})
	_ = cmd // re-arms listen, which would block
}

func articlePage(n int, hasMore bool) juejin.ArticlesPage {
	page := juejin.ArticlesPage{HasMore: hasMore}
	for i := 1; i <= n; i++ {
		var it juejin.ArticleItem
		it.ArticleID = fmt.Sprintf("70%02d", i)
		it.ArticleInfo.Title = fmt.Sprintf("Post %d", i)
		it.AuthorUserInfo.UserName = "author"
		page.Data = append(page.Data, it)
	}
	return page
}

func TestInitMarksBothFeedsLoading(t *testing.T) {
	e := newTestApp(t)
	if !e.app.articles.Loading() || !e.app.github.Loading() {
		t.Fatal("expected both feeds to fetch on mount")
	}
	if !strings.Contains(e.app.View(), "Loading articles") {
		t.Error("expected a loader row while the first page is pending")
	}
}

func TestArticlesResultRendered(t *testing.T) {
	e := newTestApp(t)
	e.deliver(t, bridge.ArticlesFetched{Seq: 1, Page: articlePage(3, true)})

	if got := len(e.app.articles.Items()); got != 3 {
		t.Fatalf("expected 3 articles, got %d", got)
	}
	view := e.app.View()
	for _, want := range []string{"Post 1", "Post 3", "3 articles"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestMovingPastLastRowLoadsMore(t *testing.T) {
	e := newTestApp(t)
	e.deliver(t, bridge.ArticlesFetched{Seq: 1, Page: articlePage(2, true)})

	if cmd := e.press("j"); cmd != nil {
		t.Fatal("moving within the list should not fetch")
	}
	run(e.press("j"))

	intent, ok := e.receive(t).(bridge.FetchArticles)
	if !ok {
		t.Fatal("expected a FetchArticles intent")
	}
	if intent.Query.Cursor != "1" || intent.Seq != 2 {
		t.Errorf("expected cursor 1 seq 2, got cursor %q seq %d", intent.Query.Cursor, intent.Seq)
	}

	e.deliver(t, bridge.ArticlesFetched{Seq: 2, Page: articlePage(2, false)})
	if got := len(e.app.articles.Items()); got != 4 {
		t.Errorf("expected pages to accumulate to 4, got %d", got)
	}
}

func TestNoMoreContent(t *testing.T) {
	e := newTestApp(t)
	e.deliver(t, bridge.ArticlesFetched{Seq: 1, Page: articlePage(1, false)})

	if !strings.Contains(e.app.View(), "no more content") {
		t.Error("expected end-of-feed sentinel")
	}
	if cmd := e.press("j"); cmd != nil {
		t.Error("exhausted feed must not request more")
	}
}

func TestCategoryKeyResetsFeed(t *testing.T) {
	e := newTestApp(t)
	e.deliver(t, bridge.ArticlesFetched{Seq: 1, Page: articlePage(3, true)})
	e.press("j")

	run(e.press("3"))
	intent := e.receive(t).(bridge.FetchArticles)
	if intent.Query.CateID != juejin.CategoryBackend || intent.Query.Cursor != "0" {
		t.Errorf("expected backend from cursor 0, got %+v", intent.Query)
	}
	if e.app.articleCursor != 0 || len(e.app.articles.Items()) != 0 {
		t.Error("expected list and cursor to reset")
	}

	// The answer to the first request is now stale.
	e.deliver(t, bridge.ArticlesFetched{Seq: 1, Page: articlePage(3, true)})
	if len(e.app.articles.Items()) != 0 {
		t.Error("stale page was applied")
	}
}

func TestSameCategoryIsNoop(t *testing.T) {
	e := newTestApp(t)
	// Default category is frontend, the second tab.
	if cmd := e.press("2"); cmd != nil {
		t.Error("selecting the active category should not fetch")
	}
}

func TestSortToggle(t *testing.T) {
	e := newTestApp(t)
	run(e.press("s"))
	intent := e.receive(t).(bridge.FetchArticles)
	if intent.Query.SortType != juejin.SortNew {
		t.Errorf("expected new sort, got %v", intent.Query.SortType)
	}
}

func TestGithubSelectors(t *testing.T) {
	e := newTestApp(t)
	e.app.Update(tea.KeyMsg{Type: tea.KeyTab})
	if e.app.focus != focusGithub {
		t.Fatal("tab should focus the GitHub feed")
	}

	run(e.press("p"))
	q := e.receive(t).(bridge.FetchGithubs).Query
	if q.Period != juejin.PeriodWeek {
		t.Errorf("expected week, got %s", q.Period)
	}

	run(e.press("l"))
	q = e.receive(t).(bridge.FetchGithubs).Query
	if q.Lang != juejin.LangRust {
		t.Errorf("expected rust, got %s", q.Lang)
	}

	run(e.press("c"))
	intent := e.receive(t).(bridge.FetchGithubs)
	if intent.Query.Category != juejin.GithubUpcoming || intent.Query.Offset != 0 {
		t.Errorf("unexpected query %+v", intent.Query)
	}

	e.deliver(t, bridge.GithubsFetched{Seq: intent.Seq, Repos: []juejin.Repo{
		{ID: 1, Username: "tauri-apps", Reponame: "tauri", Lang: juejin.LangRust, StarCount: 80000},
	}})
	if !strings.Contains(e.app.View(), "tauri-apps/tauri") {
		t.Error("expected repo card in view")
	}
}

func TestOpenRecordsVisit(t *testing.T) {
	e := newTestApp(t)
	e.deliver(t, bridge.ArticlesFetched{Seq: 1, Page: articlePage(2, true)})

	run(e.press("o"))
	if len(e.launcher.opened) != 1 || e.launcher.opened[0] != "https://juejin.cn/post/7001" {
		t.Fatalf("unexpected opened urls %v", e.launcher.opened)
	}
	if len(e.history.visits) != 1 || e.history.visits[0].Kind != cache.KindArticle {
		t.Errorf("expected one article visit, got %+v", e.history.visits)
	}
	if !strings.Contains(e.app.View(), visitedMark) {
		t.Error("expected visited marker")
	}
}

func TestCopyLinkFlashes(t *testing.T) {
	e := newTestApp(t)
	e.deliver(t, bridge.ArticlesFetched{Seq: 1, Page: articlePage(1, true)})

	msgs := run(e.press("y"))
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %v", msgs)
	}
	e.app.Update(msgs[0])
	if !strings.Contains(e.app.View(), "copied https://juejin.cn/post/7001") {
		t.Error("expected copy confirmation in status bar")
	}
}

func TestNoticeShown(t *testing.T) {
	e := newTestApp(t)
	e.app.Update(noticeMsg{text: juejin.FailureNotice})
	if !strings.Contains(e.app.View(), juejin.FailureNotice) {
		t.Error("expected notice in status bar")
	}
}

func TestReloadRetriesPendingRequest(t *testing.T) {
	e := newTestApp(t)
	run(e.press("r"))
	intent := e.receive(t).(bridge.FetchArticles)
	if intent.Seq != 2 || intent.Query.Cursor != "0" {
		t.Errorf("expected retry of page 0 with seq 2, got %+v", intent)
	}
}

func TestRevealAndHome(t *testing.T) {
	e := newTestApp(t)
	e.press("h")
	if e.app.mode != modeHome {
		t.Fatal("h should go home")
	}
	e.app.Update(revealMsg{})
	if e.app.mode != modeFeeds {
		t.Error("reveal should show the feeds")
	}
}

type recordingService struct {
	articles chan juejin.ArticleQuery
	githubs  chan juejin.GithubQuery
}

func (s *recordingService) FetchArticles(_ context.Context, q juejin.ArticleQuery) (juejin.ArticlesPage, bool) {
	s.articles <- q
	return articlePage(1, true), true
}

func (s *recordingService) FetchGithubTrending(_ context.Context, q juejin.GithubQuery) ([]juejin.Repo, bool) {
	s.githubs <- q
	return nil, true
}

func TestPanelRoundTrip(t *testing.T) {
	ui, host := bridge.Pipe(8)
	defer ui.Close()

	svc := &recordingService{
		articles: make(chan juejin.ArticleQuery, 1),
		githubs:  make(chan juejin.GithubQuery, 1),
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go bridge.NewHost(svc, nil).Serve(ctx, host)

	p := Start(RunOpts{
		Endpoint:     ui,
		ArticleQuery: juejin.DefaultArticleQuery(),
		GithubQuery:  juejin.DefaultGithubQuery(),
	}, tea.WithInput(&bytes.Buffer{}), tea.WithOutput(&bytes.Buffer{}))

	timeout := time.After(5 * time.Second)
	for i := 0; i < 2; i++ {
		select {
		case q := <-svc.articles:
			if q.CateID != juejin.CategoryFrontend {
				t.Errorf("unexpected article query %+v", q)
			}
		case q := <-svc.githubs:
			if q.Limit != 30 {
				t.Errorf("expected github page size 30, got %d", q.Limit)
			}
		case <-timeout:
			t.Fatal("panel did not fetch both feeds on mount")
		}
	}

	p.Reveal()
	p.Dispose()
	select {
	case <-p.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("panel did not exit after Dispose")
	}
	if err := p.Err(); err != nil {
		t.Errorf("unexpected exit error: %v", err)
	}
}
