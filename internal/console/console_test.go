package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"yes\n", true},
		{"Y\n", true},
		{"  y  \n", true},
		{"no\n", false},
		{"\n", false},
		{"", false},
		{"maybe\n", false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		c := New(strings.NewReader(tt.input), &out, false)
		got, err := c.Confirm("Continue?")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Contains(t, out.String(), "Continue? (yes/no):")
	}
}

func TestConfirmAssumeYes(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader("no\n"), &out, true)

	got, err := c.Confirm("Continue?")
	require.NoError(t, err)
	assert.True(t, got)
	assert.Empty(t, out.String())
}

func TestAsk(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader(" 1,3-5 \nall\n"), &out, false)

	first, err := c.Ask("Select:")
	require.NoError(t, err)
	assert.Equal(t, "1,3-5", first)

	second, err := c.Ask("Select:")
	require.NoError(t, err)
	assert.Equal(t, "all", second)
}

func TestMessages(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader(""), &out, false)

	c.Title("Commander finder")
	c.Info("%d cards loaded", 42)
	c.Success("saved %s", "report.xlsx")
	c.Warn("no data for %s", "Sol Ring")
	c.Error("failed")
	c.Progress(3, 10, "Cultivate")

	text := out.String()
	for _, want := range []string{
		"Commander finder",
		"42 cards loaded",
		"✓ saved report.xlsx",
		"! no data for Sol Ring",
		"✗ failed",
		"[3/10]",
		"Cultivate",
	} {
		assert.Contains(t, text, want)
	}
	assert.Equal(t, 6, strings.Count(text, "\n"))
}

func TestTable(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader(""), &out, false)

	c.Table([]string{"#", "Commander", "Cards"}, [][]string{
		{"1", "Omnath, Locus of Mana", "14"},
		{"2", "Krenko, Mob Boss", "11"},
	})

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Commander")
	assert.Contains(t, lines[1], "---")
	assert.Contains(t, lines[2], "Omnath, Locus of Mana")
	assert.Contains(t, lines[3], "Krenko, Mob Boss")
}

func TestTableEmpty(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader(""), &out, false)
	c.Table([]string{"a"}, nil)
	assert.Empty(t, out.String())
}
