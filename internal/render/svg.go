package render

import (
	"fmt"
	"strings"

	"github.com/mitchellh/go-wordwrap"

	"github.com/corvid-labs/stanza/internal/asset"
)

// Layout fixes every parameter the SVG output depends on. Two
// renderers with equal layouts are interchangeable byte-for-byte.
type Layout struct {
	Width         int // canvas width, px
	LineHeight    int // vertical advance per text line, px
	WrapWidth     int // wrap column, runes
	MaxVerseLines int // line cap for a verse body
	MaxPoemLines  int // line cap for a whole poem body
	Background    string
	Ink           string
	Accent        string
}

// DefaultLayout returns the standard stanza canvas.
func DefaultLayout() Layout {
	return Layout{
		Width:         420,
		LineHeight:    24,
		WrapWidth:     42,
		MaxVerseLines: 6,
		MaxPoemLines:  28,
		Background:    "#f6f1e7",
		Ink:           "#1a1a1a",
		Accent:        "#8a6d3b",
	}
}

// Renderer produces asset documents. It holds only static layout
// parameters; there is no mutable state.
type Renderer struct {
	layout Layout
}

// New creates a renderer with the given layout.
func New(layout Layout) *Renderer {
	return &Renderer{layout: layout}
}

// NewDefault creates a renderer with DefaultLayout.
func NewDefault() *Renderer {
	return New(DefaultLayout())
}

// VerseInput is the read-only view of a verse handed to the renderer.
type VerseInput struct {
	ID       asset.VerseID
	Text     string
	Authored bool
}

// PoemLine pairs a verse id with its text at render time.
type PoemLine struct {
	VerseID asset.VerseID
	Text    string
}

// PoemInput is the read-only view of a poem handed to the renderer.
// Lines appear in the order stored at poem creation.
type PoemInput struct {
	ID    asset.PoemID
	Title string
	Lines []PoemLine
}

// escape makes user text safe inside SVG markup. All five
// structurally significant XML characters are replaced; everything
// else passes through untouched.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escape(s string) string {
	return escaper.Replace(s)
}

// wrap breaks text into at most maxLines lines of at most width
// runes. Word boundaries are preferred; a single word longer than
// width is hard-broken. When the text exceeds the cap, the final
// line is truncated with an ellipsis rather than overflowing.
func wrap(text string, width, maxLines int) []string {
	var lines []string
	for _, line := range strings.Split(wordwrap.WrapString(text, uint(width)), "\n") {
		runes := []rune(line)
		for len(runes) > width {
			lines = append(lines, string(runes[:width]))
			runes = runes[width:]
		}
		lines = append(lines, string(runes))
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last := []rune(lines[maxLines-1])
		if len(last) >= width {
			last = last[:width-1]
		}
		lines[maxLines-1] = string(last) + "…"
	}
	return lines
}

// verseSVG renders a single verse card.
func (r *Renderer) verseSVG(in VerseInput) string {
	l := r.layout
	height := l.Width // verse cards are square

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		l.Width, height, l.Width, height))
	sb.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="%s"/>`, l.Width, height, l.Background))
	sb.WriteString(fmt.Sprintf(`<text x="24" y="44" font-family="Georgia, serif" font-size="20" fill="%s">Verse #%d</text>`,
		l.Accent, in.ID))
	sb.WriteString(fmt.Sprintf(`<line x1="24" y1="58" x2="%d" y2="58" stroke="%s" stroke-width="1"/>`,
		l.Width-24, l.Accent))

	if !in.Authored {
		sb.WriteString(fmt.Sprintf(`<text x="24" y="%d" font-family="Georgia, serif" font-size="16" font-style="italic" fill="%s" opacity="0.55">awaiting its author</text>`,
			height/2, l.Ink))
	} else {
		y := 96
		for _, line := range wrap(in.Text, l.WrapWidth, l.MaxVerseLines) {
			sb.WriteString(fmt.Sprintf(`<text x="24" y="%d" font-family="Georgia, serif" font-size="16" fill="%s">%s</text>`,
				y, l.Ink, escape(line)))
			y += l.LineHeight
		}
	}

	sb.WriteString(fmt.Sprintf(`<text x="24" y="%d" font-family="Georgia, serif" font-size="11" fill="%s" opacity="0.6">stanza &#183; verse</text>`,
		height-20, l.Ink))
	sb.WriteString(`</svg>`)
	return sb.String()
}

// poemSVG renders the composed poem: title, then each verse's wrapped
// lines in stored order. Height is a fixed function of the line count
// so the canvas never clips and never depends on anything but input.
func (r *Renderer) poemSVG(in PoemInput) string {
	l := r.layout

	type renderedLine struct {
		text  string
		first bool // first line of its verse
	}
	var body []renderedLine
	for _, line := range in.Lines {
		for i, wrapped := range wrap(line.Text, l.WrapWidth, l.MaxVerseLines) {
			body = append(body, renderedLine{text: wrapped, first: i == 0})
		}
	}
	if len(body) > l.MaxPoemLines {
		body = body[:l.MaxPoemLines]
	}

	header := 92
	footer := 40
	height := header + len(body)*l.LineHeight + footer

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		l.Width, height, l.Width, height))
	sb.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="%s"/>`, l.Width, height, l.Background))
	sb.WriteString(fmt.Sprintf(`<text x="24" y="44" font-family="Georgia, serif" font-size="22" fill="%s">%s</text>`,
		l.Ink, escape(in.Title)))
	sb.WriteString(fmt.Sprintf(`<text x="24" y="66" font-family="Georgia, serif" font-size="13" fill="%s">Poem #%d</text>`,
		l.Accent, in.ID))
	sb.WriteString(fmt.Sprintf(`<line x1="24" y1="76" x2="%d" y2="76" stroke="%s" stroke-width="1"/>`,
		l.Width-24, l.Accent))

	y := header + l.LineHeight
	for _, line := range body {
		indent := 24
		if !line.first {
			indent = 40 // continuation lines hang past the verse start
		}
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-family="Georgia, serif" font-size="16" fill="%s">%s</text>`,
			indent, y, l.Ink, escape(line.text)))
		y += l.LineHeight
	}

	sb.WriteString(fmt.Sprintf(`<text x="24" y="%d" font-family="Georgia, serif" font-size="11" fill="%s" opacity="0.6">stanza &#183; poem of %d verses</text>`,
		height-16, l.Ink, len(in.Lines)))
	sb.WriteString(`</svg>`)
	return sb.String()
}
