package update

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const releasesURL = "https://api.github.com/repos/matheuskafuri/jjfeed/releases/latest"

// Result holds the outcome of a version check.
type Result struct {
	LatestVersion string
}

type ghRelease struct {
	TagName string `json:"tag_name"`
}

type Checker struct {
	client *resty.Client
	url    string
}

func NewChecker(url string) *Checker {
	if url == "" {
		url = releasesURL
	}
	return &Checker{
		client: resty.New().
			SetTimeout(5*time.Second).
			SetHeader("Accept", "application/vnd.github+json"),
		url: url,
	}
}

// Check queries the GitHub Releases API to see if a newer version is available.
// Returns nil on any error (non-fatal).
func (c *Checker) Check(ctx context.Context, currentVersion string) *Result {
	var release ghRelease
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&release).
		Get(c.url)
	if err != nil || !resp.IsSuccess() {
		return nil
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	current := strings.TrimPrefix(currentVersion, "v")

	if latest == "" || latest == current {
		return nil
	}

	return &Result{LatestVersion: latest}
}

// Check runs a one-off check against the jjfeed releases.
func Check(ctx context.Context, currentVersion string) *Result {
	return NewChecker("").Check(ctx, currentVersion)
}
