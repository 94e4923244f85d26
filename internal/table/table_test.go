package table

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf)
	table.WithHeader([]string{"HEADER1", "H2", "h3"})
	table.WithColumnAlignment([]Alignment{AlignLeft, AlignRight, AlignLeft})
	table.WithHeaderAlignment([]Alignment{AlignCenter, AlignCenter, AlignRight})
	table.Append([]string{"ROW1", "ROW2", "foo bar"})
	table.Append([]string{"a", "b", "c"})
	require.Nil(t, table.Render())

	expected := `
+---------+------+---------+
| HEADER1 |  H2  |      h3 |
+---------+------+---------+
| ROW1    | ROW2 | foo bar |
| a       |    b | c       |
+---------+------+---------+
`
	require.Equal(t, strings.TrimSpace(expected)+"\n", buf.String())
}

func TestShortRowsArePadded(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf).WithHeader([]string{"A", "B"})
	table.Append([]string{"x"})
	require.Nil(t, table.Render())
	require.Equal(t, ""+
		"+---+---+\n"+
		"| A | B |\n"+
		"+---+---+\n"+
		"| x |   |\n"+
		"+---+---+\n", buf.String())
}

func TestColoredTable(t *testing.T) {
	oldNoColor := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = oldNoColor }()

	var buf bytes.Buffer
	table := NewTable(&buf)
	table.WithHeader([]string{"HEADER1", "HEADER2", "HEADER3"})
	table.WithColumnAlignment([]Alignment{AlignLeft, AlignRight, AlignLeft})
	table.WithHeaderAlignment([]Alignment{AlignCenter, AlignCenter, AlignCenter})
	table.Append([]string{
		color.New(color.Bold).Sprint("Bold text"),
		"12345",
		color.GreenString("Green text"),
	})
	table.Append([]string{
		"Normal",
		color.New(color.Bold).Sprint("999"),
		color.GreenString("More color"),
	})
	require.Nil(t, table.Render())

	result := buf.String()
	require.Contains(t, result, "\x1b[")
	lines := strings.Split(strings.TrimSuffix(result, "\n"), "\n")
	require.Len(t, lines, 6)
	for i, line := range lines {
		require.Equal(t, len(lines[0]), len(stripAnsi(line)),
			"line %d has incorrect length after stripping ANSI codes", i)
	}
}

func TestWideCharacters(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf).WithHeader([]string{"NAME"})
	table.Append([]string{"日本"})
	require.Nil(t, table.Render())
	require.Equal(t, ""+
		"+------+\n"+
		"| NAME |\n"+
		"+------+\n"+
		"| 日本 |\n"+
		"+------+\n", buf.String())
}
