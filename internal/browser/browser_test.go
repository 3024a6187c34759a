package browser

import "testing"

func TestValidateRejectsNonHTTP(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://juejin.cn/post/7001", false},
		{"http://example.com", false},
		{"file:///etc/passwd", true},
		{"javascript:alert(1)", true},
		{"ftp://example.com", true},
		{"", true},
	}

	for _, tt := range tests {
		err := validate(tt.url)
		if tt.wantErr && err == nil {
			t.Errorf("validate(%q): expected error, got nil", tt.url)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("validate(%q): unexpected error %v", tt.url, err)
		}
	}
}

func TestOpenRejectsBadScheme(t *testing.T) {
	if err := Open("file:///etc/passwd"); err == nil {
		t.Error("expected Open to refuse file URLs")
	}
}

func TestArticleURL(t *testing.T) {
	tests := map[string]string{
		"7001":     "https://juejin.cn/post/7001",
		" 7002 \n": "https://juejin.cn/post/7002",
		"a/b":      "https://juejin.cn/post/a%2Fb",
	}
	for in, want := range tests {
		if got := ArticleURL(in); got != want {
			t.Errorf("ArticleURL(%q) = %q, want %q", in, got, want)
		}
	}
}
