package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/comet/internal/application/usecase"
)

func TestRofiStepFor(t *testing.T) {
	tests := []struct {
		name   string
		retv   string
		inRofi bool
		want   rofiStep
	}{
		{name: "not in rofi", retv: "", inRofi: false, want: rofiNone},
		{name: "initial call", retv: "0", inRofi: true, want: rofiList},
		{name: "entry selected", retv: "1", inRofi: true, want: rofiCommit},
		{name: "custom input", retv: "2", inRofi: true, want: rofiCommit},
		{name: "custom keybinding", retv: "10", inRofi: true, want: rofiNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rofiStepFor(tt.retv, tt.inRofi))
		})
	}
}

func TestRofiPrompt(t *testing.T) {
	assert.Equal(t, "Search Kagi", rofiPrompt("Search Kagi: %s"))
	assert.Equal(t, "Search DuckDuckGo", rofiPrompt("Search DuckDuckGo:%s"))
	assert.Equal(t, "Search", rofiPrompt("Search"))
}

func TestWriteRofi(t *testing.T) {
	var b strings.Builder
	require.NoError(t, writeRofi(&b, "Search Kagi", []string{"go gen", "go generics", "multi\nline"}))

	assert.Equal(t,
		"\x00prompt\x1fSearch Kagi\n\x00no-custom\x1ffalse\ngo gen\ngo generics\nmulti line\n",
		b.String())

	b.Reset()
	require.NoError(t, writeRofi(&b, "Search Kagi", nil))
	assert.Equal(t, "\x00prompt\x1fSearch Kagi\n\x00no-custom\x1ffalse\n", b.String())
}

func TestSuggestionRows(t *testing.T) {
	rows := suggestionRows("go gen", []usecase.OmniboxEntry{
		{Content: "go gen"},
		{Content: "go generics"},
		{Content: "go generate"},
	})
	assert.Equal(t, []string{"go gen", "go generics", "go generate"}, rows)

	assert.Equal(t, []string{"go"}, suggestionRows("go", nil))
}

func TestReadSelection(t *testing.T) {
	got, err := readSelection(strings.NewReader("  golang generics \nsecond line\n"))
	require.NoError(t, err)
	assert.Equal(t, "golang generics", got)

	got, err = readSelection(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTabOverride(t *testing.T) {
	assert.Nil(t, tabOverride(false, false))

	v := tabOverride(true, false)
	require.NotNil(t, v)
	assert.True(t, *v)

	v = tabOverride(false, true)
	require.NotNil(t, v)
	assert.False(t, *v)
}

func TestQuietCommand(t *testing.T) {
	assert.True(t, quietCommand("popup"))
	assert.True(t, quietCommand("native-host"))
	assert.False(t, quietCommand("serve"))
	assert.False(t, quietCommand("search"))
}
