package safety

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	// storagePolicy strips all markup before persistence. Content is stored
	// as plain text; rendering happens at display time.
	storagePolicy = bluemonday.StrictPolicy()

	// displayPolicy allows the usual user-generated-content subset when
	// rendering stored markdown to HTML.
	displayPolicy = bluemonday.UGCPolicy()

	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
		),
	)
)

func init() {
	displayPolicy.AddTargetBlankToFullyQualifiedLinks(true)
	displayPolicy.RequireNoReferrerOnLinks(true)
}

// Sanitize strips unsafe markup from raw text for persistence. It runs on
// every accepted submission regardless of the classifier verdict.
func Sanitize(raw string) string {
	// bluemonday entity-escapes on strip; undo so storage holds plain text.
	return strings.TrimSpace(html.UnescapeString(storagePolicy.Sanitize(raw)))
}

// RenderMarkdown converts stored content to sanitized display HTML.
func RenderMarkdown(source string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return html.EscapeString(source) // Fallback
	}
	return displayPolicy.Sanitize(buf.String())
}
