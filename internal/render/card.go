// Package render maps classification results into renderable cards. The
// mapping is pure: the same sample and result always produce the same card.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/taxonomiaia/taxocli/internal/api"
)

// Placeholder is shown for confidence or evidence values the server did not
// report.
const Placeholder = "—"

// noResultText stands in for a sample whose classification is still absent.
const noResultText = "(no results yet)"

// markdown converts classification text to HTML. Raw HTML in the source is
// escaped rather than passed through, so the output is safe to embed.
var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
		),
	),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// Card is the renderable form of one sample's result.
type Card struct {
	SampleID           string
	ClassificationHTML template.HTML
	Confidence         string
	Evidence           string
}

// BuildCard maps a sample id and its (possibly absent or partial) result
// into a card. A nil result or an empty classification renders as a
// placeholder card rather than an error.
func BuildCard(sampleID string, result *api.ClassificationResult) Card {
	card := Card{
		SampleID:   sampleID,
		Confidence: Placeholder,
		Evidence:   Placeholder,
	}

	text := noResultText
	if result != nil {
		if result.Classification != "" {
			text = result.Classification
		}
		if result.Confidence != "" {
			card.Confidence = string(result.Confidence)
		}
		if result.Evidence != "" {
			card.Evidence = result.Evidence
		}
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(text), &buf); err != nil {
		card.ClassificationHTML = template.HTML(template.HTMLEscapeString(text))
		return card
	}
	card.ClassificationHTML = template.HTML(buf.String())
	return card
}

// Text renders the card for a terminal.
func (c Card) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sample: %s\n", c.SampleID)
	fmt.Fprintf(&b, "Classification:\n%s\n", plainText(string(c.ClassificationHTML)))
	fmt.Fprintf(&b, "Confidence: %s\n", c.Confidence)
	fmt.Fprintf(&b, "Evidence: %s\n", c.Evidence)
	return b.String()
}

// plainText strips tags from rendered HTML for terminal display. Markdown
// structure beyond paragraphs and headings is flattened.
func plainText(html string) string {
	var b strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	s := b.String()
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#39;", "'")
	s = strings.ReplaceAll(s, "&amp;", "&")
	return strings.TrimSpace(s)
}
