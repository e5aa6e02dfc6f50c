package export

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

const mmPerPoint = 25.4 / 72

// courierAdvance is the advance width of every Courier glyph as a fraction
// of the font size.
const courierAdvance = 0.6

// LayoutConfig describes the page and typeface used by LayoutText.
// Lengths are in millimetres, FontSize in points.
type LayoutConfig struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64
	FontSize   float64
	LineHeight float64
	CharWidth  float64
}

// DefaultLayout is A4 portrait with 20 mm margins and Courier 11 pt.
func DefaultLayout() LayoutConfig {
	return LayoutConfig{
		PageWidth:  210,
		PageHeight: 297,
		Margin:     20,
		FontSize:   11,
	}.withDefaults()
}

func (c LayoutConfig) withDefaults() LayoutConfig {
	if c.PageWidth <= 0 {
		c.PageWidth = 210
	}
	if c.PageHeight <= 0 {
		c.PageHeight = 297
	}
	if c.Margin < 0 {
		c.Margin = 0
	}
	if c.FontSize <= 0 {
		c.FontSize = 11
	}
	if c.LineHeight <= 0 {
		c.LineHeight = c.FontSize * 1.15 * mmPerPoint
	}
	if c.CharWidth <= 0 {
		c.CharWidth = c.FontSize * courierAdvance * mmPerPoint
	}
	return c
}

// PrintableWidth is the page width inside both margins.
func (c LayoutConfig) PrintableWidth() float64 {
	return c.PageWidth - 2*c.Margin
}

// MaxChars is how many glyphs fit on one line.
func (c LayoutConfig) MaxChars() int {
	n := int(math.Floor(c.PrintableWidth()/c.CharWidth + 1e-9))
	if n < 1 {
		return 1
	}
	return n
}

// TextOp draws Text with its baseline at (X, Y).
type TextOp struct {
	X    float64
	Y    float64
	Text string
}

type Page struct {
	Ops []TextOp
}

var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

// LayoutText lays text out into pages of draw instructions. Paragraphs are
// separated by blank lines; within a paragraph words are wrapped to the
// printable width and every wrapped line except the last is justified.
// A new page starts when the next line would pass PageHeight - Margin.
func LayoutText(text string, cfg LayoutConfig) []Page {
	cfg = cfg.withDefaults()
	maxChars := cfg.MaxChars()
	bottom := cfg.PageHeight - cfg.Margin

	pages := []Page{{}}
	y := cfg.Margin + cfg.LineHeight

	text = strings.ReplaceAll(text, "\r\n", "\n")
	paragraphs := paragraphBreak.Split(strings.TrimSpace(text), -1)
	for pi, para := range paragraphs {
		lines := wrapWords(strings.Fields(para), maxChars)
		if len(lines) == 0 {
			continue
		}
		if pi > 0 {
			y += cfg.LineHeight
		}
		for li, line := range lines {
			if y > bottom {
				pages = append(pages, Page{})
				y = cfg.Margin + cfg.LineHeight
			}
			cur := &pages[len(pages)-1]
			if li < len(lines)-1 {
				cur.Ops = append(cur.Ops, justify(line, cfg, y)...)
			} else {
				cur.Ops = append(cur.Ops, TextOp{X: cfg.Margin, Y: y, Text: strings.Join(line, " ")})
			}
			y += cfg.LineHeight
		}
	}
	return pages
}

// wrapWords greedily fills lines of at most maxChars glyphs. Words longer
// than a line are split across lines.
func wrapWords(words []string, maxChars int) [][]string {
	var lines [][]string
	var cur []string
	width := 0
	flush := func() {
		if len(cur) > 0 {
			lines = append(lines, cur)
		}
		cur = nil
		width = 0
	}
	for _, w := range words {
		for utf8.RuneCountInString(w) > maxChars {
			flush()
			r := []rune(w)
			lines = append(lines, []string{string(r[:maxChars])})
			w = string(r[maxChars:])
		}
		n := utf8.RuneCountInString(w)
		switch {
		case len(cur) == 0:
			cur, width = []string{w}, n
		case width+1+n <= maxChars:
			cur = append(cur, w)
			width += 1 + n
		default:
			flush()
			cur, width = []string{w}, n
		}
	}
	flush()
	return lines
}

// justify spreads the words of line across the printable width.
func justify(line []string, cfg LayoutConfig, y float64) []TextOp {
	if len(line) < 2 {
		return []TextOp{{X: cfg.Margin, Y: y, Text: strings.Join(line, "")}}
	}
	glyphs := 0
	for _, w := range line {
		glyphs += utf8.RuneCountInString(w)
	}
	gap := (cfg.PrintableWidth() - float64(glyphs)*cfg.CharWidth) / float64(len(line)-1)

	ops := make([]TextOp, 0, len(line))
	x := cfg.Margin
	for _, w := range line {
		ops = append(ops, TextOp{X: x, Y: y, Text: w})
		x += float64(utf8.RuneCountInString(w))*cfg.CharWidth + gap
	}
	return ops
}
