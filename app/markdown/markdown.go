// Package markdown turns answer text into sanitized HTML.
package markdown

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"regexp"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/lysyi3m/moodlehack/app/cache"
)

const cacheNamespace = "markdown"

type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	cache  cache.Store
	ttl    time.Duration
}

// NewRenderer renders GitHub-flavoured markdown with hard line breaks and
// heading ids. Rendered output is kept in store for ttl.
func NewRenderer(store cache.Store, ttl time.Duration) *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	policy.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[\w+-]+$`)).OnElements("code")
	policy.AllowAttrs("checked", "disabled").OnElements("input")
	policy.AllowAttrs("type").Matching(regexp.MustCompile(`^checkbox$`)).OnElements("input")

	if store == nil {
		store = cache.DummyStore{}
	}

	return &Renderer{md: md, policy: policy, cache: store, ttl: ttl}
}

// Render converts src to safe HTML. Cache failures are logged and fall back
// to rendering.
func (r *Renderer) Render(ctx context.Context, src string) template.HTML {
	if src == "" {
		return ""
	}

	key := cache.Key(cacheNamespace, src)
	if cached, ok, err := r.cache.Get(ctx, key); err != nil {
		slog.Warn("Markdown cache read failed", "error", err)
	} else if ok {
		return template.HTML(cached)
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		slog.Error("Failed to render markdown", "error", err)
		return template.HTML(template.HTMLEscapeString(src))
	}

	safe := r.policy.SanitizeBytes(buf.Bytes())

	if err := r.cache.Set(ctx, key, string(safe), r.ttl); err != nil {
		slog.Warn("Markdown cache write failed", "error", err)
	}

	return template.HTML(safe)
}
