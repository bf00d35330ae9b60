package box

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mattn/go-runewidth"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		opts  func(*Options)
		want  string
	}{
		{
			name:  "block defaults",
			lines: []string{"abc"},
			want: "/*********\n" +
				" *  abc  *\n" +
				" *********/\n",
		},
		{
			name:  "line comment",
			lines: []string{"abc"},
			opts:  func(o *Options) { o.Style = LineComment },
			want: strings.Repeat("/", 13) + "\n" +
				"///  abc  ///\n" +
				strings.Repeat("/", 13) + "\n",
		},
		{
			name:  "line comment ignores symbol and wall",
			lines: []string{"abc"},
			opts: func(o *Options) {
				o.Style = LineComment
				o.Symbol = "#"
				o.Wall = "|"
			},
			want: strings.Repeat("/", 13) + "\n" +
				"///  abc  ///\n" +
				strings.Repeat("/", 13) + "\n",
		},
		{
			name:  "box only with title and move",
			lines: []string{"abc", "de"},
			opts: func(o *Options) {
				o.Style = BoxOnly
				o.Symbol = "#"
				o.Title = "hi"
				o.Move = 2
			},
			want: "  #########\n" +
				"  #  hi   #\n" +
				"  #########\n" +
				"  #  abc  #\n" +
				"  #  de   #\n" +
				"  #########\n",
		},
		{
			name:  "wall differs from border",
			lines: []string{"ab"},
			opts: func(o *Options) {
				o.Symbol = "="
				o.Wall = "||"
				o.WidthPad = 0
			},
			want: "/*=====\n" +
				" ||ab||\n" +
				" =====*/\n",
		},
		{
			name:  "height, left and right padding",
			lines: []string{"ab"},
			opts: func(o *Options) {
				o.HeightPad = 1
				o.LeftPad = 1
				o.RightPad = 2
			},
			want: "/*" + strings.Repeat("*", 10) + "\n" +
				" *         *\n" +
				" *   ab    *\n" +
				" *         *\n" +
				" " + strings.Repeat("*", 10) + "*/\n",
		},
		{
			name:  "append starts on a new line",
			lines: []string{"abc"},
			opts:  func(o *Options) { o.Append = true },
			want: "\n" +
				"/*********\n" +
				" *  abc  *\n" +
				" *********/\n",
		},
		{
			name:  "multi character symbol uses first rune for border",
			lines: []string{"a"},
			opts: func(o *Options) {
				o.Symbol = "-="
				o.WidthPad = 1
			},
			want: "/*------\n" +
				" -= a -=\n" +
				" ------*/\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			if tt.opts != nil {
				tt.opts(&opts)
			}
			got, err := Render(tt.lines, opts)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Render() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderEmptyContent(t *testing.T) {
	_, err := Render(nil, DefaultOptions())
	if !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("Render(nil) error = %v, want %v", err, ErrEmptyContent)
	}
}

func TestRenderMultiByteAlignment(t *testing.T) {
	lines := []string{"héllo", "abc", "日本"}
	got, err := Render(lines, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	rows := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	want := []string{
		"/*" + strings.Repeat("*", 10),
		" *  héllo  *",
		" *  abc    *",
		" *  日本   *",
		" " + strings.Repeat("*", 10) + "*/",
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}

	// Every content row has the same visible width as the top border.
	for _, row := range rows[1 : len(rows)-1] {
		if Width(row) != Width(rows[0]) {
			t.Errorf("row %q has width %d, want %d", row, Width(row), Width(rows[0]))
		}
	}
}

func TestRenderIgnoresLocaleWidth(t *testing.T) {
	lines := []string{"± 5°", "─┼─"}
	want, err := Render(lines, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	// East Asian locales count ambiguous runes as two cells by default.
	old := runewidth.DefaultCondition.EastAsianWidth
	runewidth.DefaultCondition.EastAsianWidth = true
	t.Cleanup(func() { runewidth.DefaultCondition.EastAsianWidth = old })

	got, err := Render(lines, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Render() depends on the locale (-before +after):\n%s", diff)
	}
	if w := Width("± 5°"); w != 4 {
		t.Errorf("Width(%q) = %d, want 4", "± 5°", w)
	}
}

func TestRenderTitleWiderThanContent(t *testing.T) {
	opts := DefaultOptions()
	opts.Title = "a long title"
	lines := []string{"x", "yz"}

	m := Measure(lines, opts)
	if m.Longest != 12 {
		t.Fatalf("Longest = %d, want 12", m.Longest)
	}

	got, err := Render(lines, opts)
	if err != nil {
		t.Fatal(err)
	}
	rows := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	want := []string{
		strings.Repeat("*", 18),
		"*  a long title  *",
		"/*" + strings.Repeat("*", 17),
		" *  x" + strings.Repeat(" ", 11) + "  *",
		" *  yz" + strings.Repeat(" ", 10) + "  *",
		" " + strings.Repeat("*", 17) + "*/",
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderTitleOddSplit(t *testing.T) {
	opts := DefaultOptions()
	opts.Style = BoxOnly
	opts.Title = "ab"
	got, err := Render([]string{"abc"}, opts)
	if err != nil {
		t.Fatal(err)
	}
	// span 9, walls 2, title 2: five spaces split 2 left, 3 right.
	if !strings.HasPrefix(got, "*********\n*  ab   *\n") {
		t.Fatalf("unexpected title block:\n%s", got)
	}
}

func TestMeasure(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		opts  func(*Options)
		want  Metrics
	}{
		{
			name:  "uniform lines with defaults",
			lines: []string{"abcd", "efgh", "ijkl"},
			want:  Metrics{Longest: 4, Width: 4 + 2*DefaultWidthPad + 1, Height: 5},
		},
		{
			name:  "all paddings and a wide wall",
			lines: []string{"ab"},
			opts: func(o *Options) {
				o.Wall = "||"
				o.WidthPad = 3
				o.LeftPad = 1
				o.RightPad = 4
			},
			want: Metrics{Longest: 2, Width: 2 + 6 + 1 + 4 + 4 - 1, Height: 3},
		},
		{
			name:  "wide characters count as two cells",
			lines: []string{"日本語"},
			opts:  func(o *Options) { o.WidthPad = 0 },
			want:  Metrics{Longest: 6, Width: 6 + 2 - 1, Height: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			if tt.opts != nil {
				tt.opts(&opts)
			}
			if diff := cmp.Diff(tt.want, Measure(tt.lines, opts)); diff != "" {
				t.Errorf("Measure() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"\n", []string{""}},
		{"one", []string{"one"}},
		{"one\ntwo\n", []string{"one", "two"}},
		{"one\r\ntwo\r\n", []string{"one", "two"}},
		{"one\n\n", []string{"one", ""}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, Lines(tt.in)); diff != "" {
			t.Errorf("Lines(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestParseStyle(t *testing.T) {
	for _, s := range []Style{Block, LineComment, BoxOnly} {
		got, ok := ParseStyle(s.String())
		if !ok || got != s {
			t.Errorf("ParseStyle(%q) = %v, %v", s.String(), got, ok)
		}
	}
	if _, ok := ParseStyle("fancy"); ok {
		t.Error("ParseStyle(\"fancy\") succeeded")
	}
}
