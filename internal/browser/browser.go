package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

const articleBase = "https://juejin.cn/post/"

// ArticleURL returns the public page of a Juejin article.
func ArticleURL(id string) string {
	return articleBase + url.PathEscape(strings.TrimSpace(id))
}

// Launcher opens links and copies them for the TUI.
type Launcher interface {
	Open(rawURL string) error
	Copy(text string) error
}

// System uses the platform browser and clipboard.
type System struct{}

func (System) Open(rawURL string) error { return Open(rawURL) }
func (System) Copy(text string) error   { return Copy(text) }

func validate(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open URL with scheme %q (only http/https allowed)", u.Scheme)
	}
	return nil
}

func Open(rawURL string) error {
	if err := validate(rawURL); err != nil {
		return err
	}

	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", rawURL).Start()
	case "windows":
		// rundll32 avoids cmd's shell interpretation of the URL
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL).Start()
	default:
		return exec.Command("xdg-open", rawURL).Start()
	}
}

// Copy puts text on the system clipboard.
func Copy(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard is not available on this system")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("copying to clipboard: %w", err)
	}
	return nil
}
