package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanclaw/todosearch/internal/record"
)

var records = []record.Record{
	{ID: 1, Title: "Buy milk", Completed: false},
	{ID: 2, Title: "Clean house", Completed: true},
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, Plain, f)

	f, err = ParseFormat("Markdown")
	require.NoError(t, err)
	assert.Equal(t, Markdown, f)

	_, err = ParseFormat("html")
	require.Error(t, err)
}

func TestWritePlain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, records, Options{Format: Plain}))
	assert.Equal(t, "1\t[ ]\tBuy milk\n2\t[x]\tClean house\n", buf.String())
}

func TestWritePlain_MultilineTitle(t *testing.T) {
	var buf bytes.Buffer
	in := []record.Record{
		{ID: 1, Title: "line one\nline two"},
		{ID: 2, Title: "x"},
	}
	require.NoError(t, Write(&buf, in, Options{Format: Plain}))

	assert.Equal(t, "1\t[ ]\tline one line two\n2\t[ ]\tx\n", buf.String())
	assert.Len(t, strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n"), len(in))
}

func TestSingleLine(t *testing.T) {
	assert.Equal(t, "Buy milk", SingleLine("Buy milk"))
	assert.Equal(t, "a b c d", SingleLine("a\nb\rc\td"))
	assert.Equal(t, "[31mred", SingleLine("\x1b[31mred"))
	assert.Equal(t, "beep", SingleLine("be\x07ep\x00"))
	assert.Equal(t, "ünïcode ✔", SingleLine("ünïcode ✔"))
}

func TestWritePlain_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil, Options{}))
	assert.Equal(t, "No results found.\n", buf.String())
}

func TestMarkdownTable(t *testing.T) {
	md := MarkdownTable([]record.Record{{ID: 3, Title: "a | b", Completed: true}})
	lines := strings.Split(strings.TrimSpace(md), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "| ID | Title | Completed |", lines[0])
	assert.Equal(t, `| 3 | a \| b | Yes |`, lines[2])
}

func TestMarkdownTable_MultilineTitle(t *testing.T) {
	md := MarkdownTable([]record.Record{{ID: 4, Title: "one\r\ntwo"}})
	lines := strings.Split(strings.TrimSpace(md), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "| 4 | one  two | No |", lines[2])
}

func TestMarkdownTable_Empty(t *testing.T) {
	assert.Equal(t, "No results found.\n", MarkdownTable(nil))
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, records, Options{Format: Markdown, Theme: "notty", WordWrap: 60})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "Clean house")
	assert.Contains(t, out, "Completed")
}

func TestWriteMarkdown_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil, Options{Format: Markdown, Theme: "notty"}))
	assert.Contains(t, buf.String(), NoResults)
}

func TestYesNo(t *testing.T) {
	assert.Equal(t, "Yes", YesNo(true))
	assert.Equal(t, "No", YesNo(false))
}
