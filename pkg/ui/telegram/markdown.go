package telegram

import (
	"fmt"
	"strings"

	// Packages
	gte "github.com/igor-pavlenko/goldmark-telegram/extension"
	gteast "github.com/igor-pavlenko/goldmark-telegram/extension/ast"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	tele "gopkg.in/telebot.v4"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// markdownToEntities converts standard Markdown into plain text plus
// Telegram MessageEntity objects by walking the goldmark AST directly.
// This handles block-level elements (paragraphs, lists, headings, code
// blocks, blockquotes) that goldmark-telegram's renderer ignores.
func markdownToEntities(markdown string) (string, tele.Entities) {
	source := []byte(markdown)

	// Parse using goldmark with GTE extensions (strikethrough, underline)
	p := goldmark.New(goldmark.WithExtensions(gte.GTE))
	doc := p.Parser().Parse(text.NewReader(source))

	b := new(entityBuilder)
	b.walk(doc, source)

	result := strings.TrimRight(b.text.String(), "\n")
	if len(b.entities) == 0 {
		return result, nil
	}
	return result, b.entities
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE TYPES

type entityBuilder struct {
	text     strings.Builder
	entities tele.Entities
	utf16Off int // current offset in UTF-16 code units
	listItem int // 1-based ordered list counter, 0 for unordered
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// write appends s to the text buffer and advances the UTF-16 offset.
func (b *entityBuilder) write(s string) {
	b.text.WriteString(s)
	b.utf16Off += utf16Len(s)
}

// ensureNewline writes a newline only if the buffer doesn't already end
// with one.
func (b *entityBuilder) ensureNewline() {
	if s := b.text.String(); len(s) > 0 && s[len(s)-1] != '\n' {
		b.write("\n")
	}
}

// blockSeparator inserts a blank line before a new block if there is
// already content.
func (b *entityBuilder) blockSeparator() {
	s := b.text.String()
	n := len(s)
	switch {
	case n == 0:
		// nothing yet
	case n >= 2 && s[n-2] == '\n' && s[n-1] == '\n':
		// already double newline
	case s[n-1] == '\n':
		b.write("\n")
	default:
		b.write("\n\n")
	}
}

// entity records a MessageEntity covering the text written since start.
func (b *entityBuilder) entity(entityType tele.EntityType, start int, url, language string) {
	if length := b.utf16Off - start; length > 0 {
		b.entities = append(b.entities, tele.MessageEntity{
			Type:     entityType,
			Offset:   start,
			Length:   length,
			URL:      url,
			Language: language,
		})
	}
}

func (b *entityBuilder) walk(node ast.Node, source []byte) {
	switch n := node.(type) {
	case *ast.Document:
		b.walkChildren(n, source)

	case *ast.Paragraph:
		b.blockSeparator()
		b.walkChildren(n, source)

	case *ast.TextBlock:
		// Tight list item content, no blank line before
		b.walkChildren(n, source)

	case *ast.Heading:
		b.blockSeparator()
		start := b.utf16Off
		b.walkChildren(n, source)
		b.entity(tele.EntityBold, start, "", "")

	case *ast.List:
		b.ensureNewline()
		savedItem := b.listItem
		if n.IsOrdered() {
			b.listItem = max(n.Start, 1)
		} else {
			b.listItem = 0
		}
		b.walkChildren(n, source)
		b.listItem = savedItem

	case *ast.ListItem:
		b.ensureNewline()
		if b.listItem > 0 {
			b.write(fmt.Sprintf("%d. ", b.listItem))
			b.listItem++
		} else {
			b.write("• ")
		}
		b.walkChildren(n, source)

	case *ast.Blockquote:
		b.blockSeparator()
		start := b.utf16Off
		b.walkChildren(n, source)
		b.entity(tele.EntityBlockquote, start, "", "")

	case *ast.FencedCodeBlock:
		b.codeBlock(n, source, string(n.Language(source)))
		return

	case *ast.CodeBlock:
		b.codeBlock(n, source, "")
		return

	case *ast.ThematicBreak:
		b.blockSeparator()
		b.write("———")
		return

	case *ast.Emphasis:
		start := b.utf16Off
		b.walkChildren(n, source)
		entityType := tele.EntityItalic
		if n.Level == 2 {
			entityType = tele.EntityBold
		}
		b.entity(entityType, start, "", "")

	case *ast.CodeSpan:
		start := b.utf16Off
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				b.write(string(t.Segment.Value(source)))
			}
		}
		b.entity(tele.EntityCode, start, "", "")
		return // children already handled

	case *ast.Link:
		start := b.utf16Off
		b.walkChildren(n, source)
		b.entity(tele.EntityTextLink, start, string(n.Destination), "")

	case *ast.AutoLink:
		b.write(string(n.URL(source)))
		return

	case *ast.Image:
		// Render alt text as plain text, link the URL
		start := b.utf16Off
		b.walkChildren(n, source)
		b.entity(tele.EntityTextLink, start, string(n.Destination), "")

	case *ast.Text:
		b.write(string(n.Segment.Value(source)))
		if n.HardLineBreak() || n.SoftLineBreak() {
			b.write("\n")
		}

	case *ast.String:
		b.write(string(n.Value))

	case *ast.RawHTML:
		// Render raw HTML segments as plain text
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.write(string(seg.Value(source)))
		}
		return

	default:
		switch n.Kind() {
		case east.KindStrikethrough:
			start := b.utf16Off
			b.walkChildren(node, source)
			b.entity(tele.EntityStrikethrough, start, "", "")
		case gteast.KindUnderline:
			start := b.utf16Off
			b.walkChildren(node, source)
			b.entity(tele.EntityUnderline, start, "", "")
		default:
			// Unknown node, walk children to preserve text content
			b.walkChildren(node, source)
		}
	}
}

// codeBlock renders the raw lines of a code block and records an
// EntityCodeBlock over them.
func (b *entityBuilder) codeBlock(node ast.Node, source []byte, language string) {
	b.blockSeparator()
	start := b.utf16Off
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.write(string(seg.Value(source)))
	}
	// Remove trailing newline inside code block text for cleaner display
	if txt := b.text.String(); len(txt) > 0 && txt[len(txt)-1] == '\n' {
		b.text.Reset()
		b.text.WriteString(txt[:len(txt)-1])
		b.utf16Off--
	}
	b.entity(tele.EntityCodeBlock, start, "", language)
}

func (b *entityBuilder) walkChildren(node ast.Node, source []byte) {
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		b.walk(c, source)
	}
}

// utf16Len returns the length of s in UTF-16 code units, which is
// the unit Telegram uses for entity offsets and lengths.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2 // surrogate pair
		} else {
			n++
		}
	}
	return n
}
