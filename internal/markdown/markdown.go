// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts Markdown source text into HTML using goldmark
// and counts words for the blog read-time estimate. Unsafe HTML
// pass-through is enabled so raw-HTML content imported from the previous
// site renders correctly.
package markdown

import (
	"bytes"
	"regexp"
	"strings"

	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,         // tables, strikethrough, autolinks, task lists
		extension.Typographer, // smart quotes and dashes
		highlighting.NewHighlighting( // syntax highlighting for fenced code blocks
			highlighting.WithStyle("monokai"),
			highlighting.WithFormatOptions(),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(), // raw HTML blocks pass through for imported content
	),
)

// ToHTML converts Markdown source into HTML.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var (
	htmlTag     = regexp.MustCompile(`<[^>]*>`)
	mdSyntax    = regexp.MustCompile("[#*_`>~\\[\\]()!-]+")
	urlPattern  = regexp.MustCompile(`https?://\S+`)
)

// WordCount returns the number of words in the Markdown source, ignoring
// markup syntax, HTML tags and bare URLs. Used for the read-time estimate.
func WordCount(source string) int {
	text := urlPattern.ReplaceAllString(source, " ")
	text = htmlTag.ReplaceAllString(text, " ")
	text = mdSyntax.ReplaceAllString(text, " ")
	return len(strings.Fields(text))
}
