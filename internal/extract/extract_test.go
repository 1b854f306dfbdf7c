package extract

import (
	"strings"
	"testing"
	"time"

	"github.com/renderinc/blog-search/internal/blog"
)

const fullPage = `<!DOCTYPE html>
<html><head><title>x</title><style>.a{}</style></head>
<body>
<header><h1 id="header-title">  Intro to
  Caching </h1></header>
<nav>Home Blog About</nav>
<div class="blog-banner"><img src="/img/cache.png"></div>
<p class="text_subtitle">Keeping hot data close</p>
<div id="tag-container"><span class="tag">go</span><span class="tag"> perf </span><span class="tag">go</span></div>
<div id="author-container">
  <div class="author"><img src="/a/ann.png"><span class="author-name">Ann</span><span class="author-role">Editor</span></div>
  <div class="author"><span class="author-role">Reviewer</span></div>
</div>
<span id="date-posted">2024-03-05</span>
<span id="date-updated">last week</span>
<div id="language-container">
  <span class="language" data-language-code="en"><span class="language-name">English</span></span>
  <span class="language language-active" data-language-code="vi"><span class="language-flag">🇻🇳</span><span class="language-name">Tiếng Việt</span></span>
</div>
<main id="main-container">
  <p>Caches    trade
  memory for latency.</p>
  <script>var secret = "nope";</script>
</main>
<div id="search-panel">filters here</div>
<footer>copyright</footer>
</body></html>`

func TestExtractFullPage(t *testing.T) {
	doc, err := Extract(strings.NewReader(fullPage), "/blog/caching.html")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if doc.URL != "/blog/caching.html" {
		t.Errorf("unexpected URL: %s", doc.URL)
	}
	if doc.Title != "Intro to Caching" {
		t.Errorf("expected title 'Intro to Caching', got %q", doc.Title)
	}
	if doc.Subtitle != "Keeping hot data close" {
		t.Errorf("unexpected subtitle: %q", doc.Subtitle)
	}
	if doc.Banner != "/img/cache.png" {
		t.Errorf("unexpected banner: %q", doc.Banner)
	}

	wantTags := []string{"go", "perf", "go"}
	if strings.Join(doc.Tags, ",") != strings.Join(wantTags, ",") {
		t.Errorf("expected tags %v, got %v", wantTags, doc.Tags)
	}

	if len(doc.Authors) != 2 {
		t.Fatalf("expected 2 authors, got %d", len(doc.Authors))
	}
	if doc.Authors[0] != (blog.Author{Name: "Ann", Image: "/a/ann.png", Role: "Editor"}) {
		t.Errorf("unexpected first author: %+v", doc.Authors[0])
	}
	if doc.Authors[1].Name != blog.DefaultAuthorName || doc.Authors[1].Image != "" {
		t.Errorf("expected defaulted second author, got %+v", doc.Authors[1])
	}

	if doc.DatePosted == nil {
		t.Fatal("expected posted date")
	}
	if y, m, d := doc.DatePosted.Date(); y != 2024 || m != time.March || d != 5 {
		t.Errorf("unexpected posted date: %v", doc.DatePosted)
	}
	if doc.DateUpdated != nil {
		t.Errorf("expected nil updated date, got %v", doc.DateUpdated)
	}
	if doc.UpdatedStr != "last week" {
		t.Errorf("display string should be kept verbatim, got %q", doc.UpdatedStr)
	}

	if doc.Language != (blog.Language{Code: "vi", Name: "Tiếng Việt", Flag: "🇻🇳"}) {
		t.Errorf("unexpected language: %+v", doc.Language)
	}

	for _, noise := range []string{"secret", "Home Blog", "copyright", "filters here", "Intro to"} {
		if strings.Contains(doc.Content, noise) {
			t.Errorf("content should not contain %q: %q", noise, doc.Content)
		}
	}
	if !strings.Contains(doc.Content, "Caches trade memory for latency.") {
		t.Errorf("content not collapsed: %q", doc.Content)
	}
	if doc.Content != strings.TrimSpace(doc.Content) {
		t.Errorf("content not trimmed: %q", doc.Content)
	}
}

func TestExtractDefaults(t *testing.T) {
	doc, err := Extract(strings.NewReader(`<html><body><p>just text</p></body></html>`), "/x.html")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if doc.Title != blog.DefaultTitle {
		t.Errorf("expected default title, got %q", doc.Title)
	}
	if doc.Subtitle != "" || doc.Banner != "" {
		t.Errorf("expected empty subtitle and banner, got %q %q", doc.Subtitle, doc.Banner)
	}
	if len(doc.Tags) != 0 || len(doc.Authors) != 0 {
		t.Errorf("expected no tags or authors, got %v %v", doc.Tags, doc.Authors)
	}
	if doc.DatePosted != nil || doc.DateUpdated != nil {
		t.Error("expected nil dates")
	}
	want := blog.Language{Code: "en", Name: "English", Flag: "🇬🇧"}
	if doc.Language != want {
		t.Errorf("expected %+v, got %+v", want, doc.Language)
	}
	if doc.Content != "just text" {
		t.Errorf("unexpected content: %q", doc.Content)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string // empty means nil
	}{
		{"2024-01-31", "2024-01-31"},
		{" 2023-12-01 ", "2023-12-01"},
		{"", ""},
		{"2024/01/31", ""},
		{"31-01-2024", ""},
		{"2024-1-5", ""},
		{"2024-02-30", ""},
		{"yesterday", ""},
	}

	for _, tt := range tests {
		got := ParseDate(tt.in)
		if tt.want == "" {
			if got != nil {
				t.Errorf("ParseDate(%q) = %v, want nil", tt.in, got)
			}
			continue
		}
		if got == nil {
			t.Errorf("ParseDate(%q) = nil, want %s", tt.in, tt.want)
			continue
		}
		if got.Format(dateLayout) != tt.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tt.in, got.Format(dateLayout), tt.want)
		}
		if got.Location() != time.Local || got.Hour() != 0 {
			t.Errorf("ParseDate(%q) should be local midnight, got %v", tt.in, got)
		}
	}
}
