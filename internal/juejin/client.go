package juejin

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultArticlesURL = "https://api.juejin.cn/recommend_api/v1/article/recommend_cate_feed?uuid=7032205944063542798&aid=6587"
	DefaultGithubURL   = "https://e.juejin.cn/resources/github"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// APIError is returned when the article endpoint answers 2xx with a non-zero err_no.
type APIError struct {
	No  int
	Msg string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.No, e.Msg)
}

type ClientOptions struct {
	ArticlesURL string
	GithubURL   string
	Timeout     time.Duration
	UserAgent   string
}

// Client talks to the two feed endpoints.
type Client struct {
	http        *resty.Client
	articlesURL string
	githubURL   string
}

func NewClient(opts ClientOptions) *Client {
	if opts.ArticlesURL == "" {
		opts.ArticlesURL = DefaultArticlesURL
	}
	if opts.GithubURL == "" {
		opts.GithubURL = DefaultGithubURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}

	http := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if opts.UserAgent != "" {
		http.SetHeader("User-Agent", opts.UserAgent)
	}

	return &Client{
		http:        http,
		articlesURL: opts.ArticlesURL,
		githubURL:   opts.GithubURL,
	}
}

// Articles posts q to the recommendation endpoint.
func (c *Client) Articles(ctx context.Context, q ArticleQuery) (*ArticlesPage, error) {
	var page ArticlesPage
	if err := c.post(ctx, c.articlesURL, q, &page); err != nil {
		return nil, fmt.Errorf("fetching articles: %w", err)
	}
	if page.ErrNo != 0 {
		return nil, fmt.Errorf("fetching articles: %w", &APIError{No: page.ErrNo, Msg: page.ErrMsg})
	}
	return &page, nil
}

// Githubs posts q to the GitHub resources endpoint.
func (c *Client) Githubs(ctx context.Context, q GithubQuery) (*GithubPage, error) {
	var page GithubPage
	if err := c.post(ctx, c.githubURL, q, &page); err != nil {
		return nil, fmt.Errorf("fetching github repos: %w", err)
	}
	return &page, nil
}

func (c *Client) post(ctx context.Context, url string, body, result any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(result).
		Post(url)
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return &StatusError{Code: resp.StatusCode(), Body: resp.String()}
	}
	return nil
}
