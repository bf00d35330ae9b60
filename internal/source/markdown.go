package source

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FlattenMarkdown turns a markdown document into plain comment text. Each
// top-level block becomes one or more lines and blocks are separated by a
// blank line. List items are prefixed with "- ".
func FlattenMarkdown(source []byte) (string, error) {
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	var blocks []string
	for node := root.FirstChild(); node != nil; node = node.NextSibling() {
		var lines []string
		switch n := node.(type) {
		case *ast.List:
			for item := n.FirstChild(); item != nil; item = item.NextSibling() {
				lines = append(lines, listItemLines(item, source)...)
			}
		case *ast.ThematicBreak, *ast.HTMLBlock:
			continue
		default:
			lines = blockLines(node, source)
		}
		if len(lines) > 0 {
			blocks = append(blocks, strings.Join(lines, "\n"))
		}
	}
	if len(blocks) == 0 {
		return "", nil
	}
	return strings.Join(blocks, "\n\n") + "\n", nil
}

func listItemLines(item ast.Node, source []byte) []string {
	var lines []string
	for child := item.FirstChild(); child != nil; child = child.NextSibling() {
		var inner []string
		if list, ok := child.(*ast.List); ok {
			for sub := list.FirstChild(); sub != nil; sub = sub.NextSibling() {
				inner = append(inner, listItemLines(sub, source)...)
			}
		} else {
			inner = blockLines(child, source)
		}
		for _, l := range inner {
			if len(lines) == 0 {
				lines = append(lines, "- "+l)
			} else {
				lines = append(lines, "  "+l)
			}
		}
	}
	return lines
}

// blockLines returns the raw source lines of a block node. Code blocks keep
// their indentation, other blocks are trimmed.
func blockLines(node ast.Node, source []byte) []string {
	if node.Kind() == ast.KindBlockquote {
		var lines []string
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			lines = append(lines, blockLines(child, source)...)
		}
		return lines
	}

	_, fenced := node.(*ast.FencedCodeBlock)
	_, indented := node.(*ast.CodeBlock)
	segments := node.Lines()

	var lines []string
	for i := 0; i < segments.Len(); i++ {
		seg := segments.At(i)
		line := strings.TrimRight(string(seg.Value(source)), "\r\n")
		if !fenced && !indented {
			line = strings.TrimSpace(line)
		}
		lines = append(lines, line)
	}
	return lines
}
