package web

import (
	"bytes"
	"html/template"
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Section bodies are rendered without html.WithUnsafe, so raw HTML in the
// content file is dropped.
var sectionMarkdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
		emoji.Emoji,
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

// sectionHTML renders one section body. Heading ids are prefixed with the
// section id ("projects-shelfie") so they never collide with the section
// anchors the nav links and scroll spy target.
func sectionHTML(sectionID, src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	ctx := parser.NewContext(parser.WithIDs(newHeadingIDs(sectionID)))
	var b bytes.Buffer
	if err := sectionMarkdown.Convert([]byte(src), &b, parser.WithContext(ctx)); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(b.String())
}

// headingIDs implements parser.IDs for one section.
type headingIDs struct {
	prefix string
	seen   map[string]bool
}

func newHeadingIDs(sectionID string) *headingIDs {
	return &headingIDs{prefix: sectionID, seen: map[string]bool{sectionID: true}}
}

func (h *headingIDs) Generate(value []byte, _ ast.NodeKind) []byte {
	id := h.prefix
	if slug := slugify(string(value)); slug != "" {
		id += "-" + slug
	}
	base := id
	for i := 1; h.seen[id]; i++ {
		id = base + "-" + strconv.Itoa(i)
	}
	h.seen[id] = true
	return []byte(id)
}

func (h *headingIDs) Put(value []byte) { h.seen[string(value)] = true }

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}
