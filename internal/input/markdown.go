package input

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

// Flatten reduces a markdown document to speakable prose. Formatting
// is discarded, code blocks and raw HTML are skipped entirely, link
// text survives without its destination, and headings are closed with
// a period so they read as their own sentences.
func Flatten(src []byte) string {
	doc := goldmark.New().Parser().Parse(gmtext.NewReader(src))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock,
			*ast.RawHTML, *ast.Image:
			if entering {
				return ast.WalkSkipChildren, nil
			}

		case *ast.Text:
			if entering {
				b.Write(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					b.WriteByte(' ')
				}
			}

		case *ast.String:
			if entering {
				b.Write(node.Value)
			}

		case *ast.Heading:
			if !entering {
				closeSentence(&b)
				b.WriteString("\n\n")
			}

		case *ast.Paragraph, *ast.ListItem, *ast.Blockquote:
			if !entering {
				b.WriteString("\n\n")
			}
		}
		return ast.WalkContinue, nil
	})

	return b.String()
}

// closeSentence appends a period unless the buffer already ends with
// sentence punctuation.
func closeSentence(b *strings.Builder) {
	s := strings.TrimRight(b.String(), " \t\n")
	if s == "" {
		return
	}
	switch s[len(s)-1] {
	case '.', '!', '?', ':', ';':
		return
	}
	b.WriteByte('.')
}
