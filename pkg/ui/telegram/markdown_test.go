package telegram

import (
	"testing"

	// Packages
	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

func Test_markdown_001(t *testing.T) {
	assert := assert.New(t)

	// Plain text passes through with no entities
	text, entities := markdownToEntities("hello world")
	assert.Equal("hello world", text)
	assert.Nil(entities)
}

func Test_markdown_002(t *testing.T) {
	assert := assert.New(t)

	text, entities := markdownToEntities("The **mean** close was `412.50`")
	assert.Equal("The mean close was 412.50", text)
	if assert.Len(entities, 2) {
		assert.Equal(tele.EntityBold, entities[0].Type)
		assert.Equal(4, entities[0].Offset)
		assert.Equal(4, entities[0].Length)
		assert.Equal(tele.EntityCode, entities[1].Type)
		assert.Equal(19, entities[1].Offset)
		assert.Equal(6, entities[1].Length)
	}
}

func Test_markdown_003(t *testing.T) {
	assert := assert.New(t)

	text, entities := markdownToEntities("# Summary\n\n- first\n- second")
	assert.Equal("Summary\n• first\n• second", text)
	if assert.Len(entities, 1) {
		assert.Equal(tele.EntityBold, entities[0].Type)
		assert.Equal(0, entities[0].Offset)
		assert.Equal(7, entities[0].Length)
	}
}

func Test_markdown_004(t *testing.T) {
	assert := assert.New(t)

	// Offsets are in UTF-16 code units, so astral characters count twice
	text, entities := markdownToEntities("📈 *up*")
	assert.Equal("📈 up", text)
	if assert.Len(entities, 1) {
		assert.Equal(tele.EntityItalic, entities[0].Type)
		assert.Equal(3, entities[0].Offset)
		assert.Equal(2, entities[0].Length)
	}
}

func Test_markdown_005(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(1, utf16Len("a"))
	assert.Equal(2, utf16Len("📈"))
	assert.Equal(5, utf16Len("📈 up"))
}

func Test_markdown_006(t *testing.T) {
	assert := assert.New(t)

	// Fenced code blocks render their raw lines with a code-block entity
	text, entities := markdownToEntities("before\n\n```sql\nSELECT 1;\nSELECT 2;\n```")
	assert.Equal("before\n\nSELECT 1;\nSELECT 2;", text)
	if assert.Len(entities, 1) {
		assert.Equal(tele.EntityCodeBlock, entities[0].Type)
		assert.Equal(8, entities[0].Offset)
		assert.Equal(19, entities[0].Length)
		assert.Equal("sql", entities[0].Language)
	}

	// Raw HTML passes through as plain text
	text, entities = markdownToEntities("a <b>bold</b> claim")
	assert.Equal("a <b>bold</b> claim", text)
	assert.Nil(entities)
}
