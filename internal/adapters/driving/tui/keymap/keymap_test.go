package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
}

func TestDefaultKeyMap_QuitBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Quit.Keys()
	assert.Contains(t, keys, "q")
	assert.Contains(t, keys, "ctrl+c")
}

func TestDefaultKeyMap_NavigationBindings(t *testing.T) {
	km := DefaultKeyMap()

	assert.Contains(t, km.Up.Keys(), "up")
	assert.Contains(t, km.Up.Keys(), "k")
	assert.Contains(t, km.Down.Keys(), "down")
	assert.Contains(t, km.Down.Keys(), "j")
	assert.Contains(t, km.Select.Keys(), "enter")
	assert.Contains(t, km.Back.Keys(), "esc")
}

func TestDefaultKeyMap_BatchBindings(t *testing.T) {
	km := DefaultKeyMap()

	assert.Equal(t, []string{"r"}, km.Rename.Keys())
	assert.Equal(t, []string{"x"}, km.Cancel.Keys())
	assert.Equal(t, []string{"u"}, km.Undo.Keys())
}

func TestShortHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.ShortHelp()

	assert.Len(t, bindings, 2)
	assert.Equal(t, km.Back, bindings[0])
	assert.Equal(t, km.Help, bindings[1])
}

func TestContextHelp(t *testing.T) {
	km := DefaultKeyMap()

	assert.Contains(t, km.PreviewHelp(), km.Rename)
	assert.Equal(t, []key.Binding{km.Cancel}, km.RunningHelp())
	assert.Contains(t, km.HistoryHelp(), km.Undo)
}

func TestFullHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.FullHelp()

	assert.Len(t, bindings, 3)
	assert.Len(t, bindings[0], 3) // Up, Down, Select
	assert.Len(t, bindings[1], 4) // Rename, Cancel, Undo, Refresh
	assert.Len(t, bindings[2], 3) // Back, Help, Quit
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("q", km.Quit))
	assert.True(t, Matches("ctrl+c", km.Quit))
	assert.True(t, Matches("k", km.Up))
	assert.True(t, Matches("r", km.Rename))

	assert.False(t, Matches("x", km.Quit))
	assert.False(t, Matches("down", km.Up))
}

func TestBindings_HaveHelp(t *testing.T) {
	km := DefaultKeyMap()

	testCases := []struct {
		name    string
		binding key.Binding
	}{
		{"Quit", km.Quit},
		{"Help", km.Help},
		{"Back", km.Back},
		{"Up", km.Up},
		{"Down", km.Down},
		{"Select", km.Select},
		{"Rename", km.Rename},
		{"Cancel", km.Cancel},
		{"Undo", km.Undo},
		{"Refresh", km.Refresh},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			help := tc.binding.Help()
			assert.NotEmpty(t, help.Key, "binding should have help key")
			assert.NotEmpty(t, help.Desc, "binding should have help description")
		})
	}
}
