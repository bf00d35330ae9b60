// Package box lays out comment text inside a decorative box.
package box

import (
	"errors"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ErrEmptyContent is returned when there are no lines to render.
var ErrEmptyContent = errors.New("nothing to commentize: content is empty")

const (
	// DefaultSymbol fills the border and walls when no symbol is given.
	DefaultSymbol = "*"
	// DefaultWidthPad is the number of blank columns between a wall and the text.
	DefaultWidthPad = 2
	// LineCommentSymbol is the wall used by the LineComment style.
	LineCommentSymbol = "///"
)

// Style selects the comment delimiters wrapped around the box.
type Style int

const (
	// Block wraps the box in /* */.
	Block Style = iota
	// LineComment draws every row with /// walls and no block delimiters.
	LineComment
	// BoxOnly draws the box with symbol walls and no comment delimiters.
	BoxOnly
)

func (s Style) String() string {
	switch s {
	case Block:
		return "block"
	case LineComment:
		return "line"
	case BoxOnly:
		return "box"
	default:
		return "unknown"
	}
}

// ParseStyle maps a style name back to a Style.
func ParseStyle(name string) (Style, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "block":
		return Block, true
	case "line", "modded":
		return LineComment, true
	case "box", "box-only":
		return BoxOnly, true
	}
	return Block, false
}

// Options controls the layout of a rendered box.
type Options struct {
	Symbol    string
	Wall      string
	Title     string
	WidthPad  int
	HeightPad int
	LeftPad   int
	RightPad  int
	Move      int
	Style     Style
	Append    bool
}

// DefaultOptions returns the layout used when nothing is overridden.
func DefaultOptions() Options {
	return Options{
		Symbol:   DefaultSymbol,
		WidthPad: DefaultWidthPad,
	}
}

// symbol is the token the border character is taken from.
func (o Options) symbol() string {
	if o.Style == LineComment {
		return LineCommentSymbol
	}
	if o.Symbol == "" {
		return DefaultSymbol
	}
	return o.Symbol
}

// wall is the string drawn on both sides of every row.
func (o Options) wall() string {
	if o.Style != LineComment && o.Wall != "" {
		return o.Wall
	}
	return o.symbol()
}

func (o Options) delimiters(wallChar string) (open, close string) {
	switch o.Style {
	case LineComment:
		return "/", "/"
	case BoxOnly:
		return wallChar, wallChar
	default:
		return "/*", "*/"
	}
}

// cells measures with a fixed condition so the layout does not depend on the
// locale. Ambiguous-width runes count as one cell.
var cells = &runewidth.Condition{EastAsianWidth: false, StrictEmojiNeutral: true}

// Width returns the visible width of s in terminal cells.
func Width(s string) int {
	return cells.StringWidth(s)
}

// Lines splits text into content lines. A trailing newline does not add an
// empty line and carriage returns before a newline are dropped.
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Metrics are the dimensions derived from content and options.
type Metrics struct {
	Longest int
	Width   int
	Height  int
}

// Measure computes the box dimensions for lines under opts.
func Measure(lines []string, opts Options) Metrics {
	longest := Width(opts.Title)
	for _, l := range lines {
		if w := Width(l); w > longest {
			longest = w
		}
	}
	width := longest + 2*opts.WidthPad + opts.LeftPad + opts.RightPad + 2*Width(opts.wall()) - 1
	return Metrics{
		Longest: longest,
		Width:   width,
		Height:  2 + len(lines),
	}
}

// Render lays out lines inside a box. The result always ends with a newline
// and starts with one when opts.Append is set.
func Render(lines []string, opts Options) (string, error) {
	if len(lines) == 0 {
		return "", ErrEmptyContent
	}

	sym := opts.symbol()
	wall := opts.wall()
	wallChar := string([]rune(sym)[:1])
	m := Measure(lines, opts)

	move := spaces(opts.Move)
	widthPad := spaces(opts.WidthPad)
	leftPad := spaces(opts.LeftPad)
	rightPad := spaces(opts.RightPad)
	indent := ""
	if opts.Style == Block {
		indent = " "
	}
	open, close := opts.delimiters(wallChar)
	border := strings.Repeat(wallChar, m.Width)

	var b strings.Builder
	if opts.Append {
		b.WriteString("\n")
	}

	if opts.Title != "" {
		writeTitle(&b, move, wallChar, wall, opts.Title, m.Width+1)
	}

	b.WriteString(move + open + border + "\n")

	padRow := move + indent + wall + spaces(m.Longest+2*opts.WidthPad+opts.LeftPad+opts.RightPad) + wall + "\n"
	padRows := strings.Repeat(padRow, opts.HeightPad)
	b.WriteString(padRows)

	for _, line := range lines {
		b.WriteString(move + indent + wall + widthPad + leftPad)
		b.WriteString(line)
		b.WriteString(spaces(m.Longest - Width(line)))
		b.WriteString(rightPad + widthPad + wall + "\n")
	}

	b.WriteString(padRows)
	b.WriteString(move + indent + border + close + "\n")

	return b.String(), nil
}

// writeTitle writes the banner above the box: a solid rule followed by the
// title centered between two walls. The right side takes the odd space.
func writeTitle(b *strings.Builder, move, wallChar, wall, title string, span int) {
	b.WriteString(move + strings.Repeat(wallChar, span) + "\n")

	free := span - Width(title) - 2*Width(wall)
	if free < 0 {
		free = 0
	}
	left := free / 2
	right := free - left
	b.WriteString(move + wall + spaces(left) + title + spaces(right) + wall + "\n")
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
