package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		for _, name := range []string{"type", "activities", "pack", "start", "end", "temp", "json", "rules"} {
			f := generateCmd.Flags().Lookup(name)
			f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGenerateCommand(t *testing.T) {
	out, err := execute(t, "generate", "--type", "Adventure", "--activities", "Photography")
	require.NoError(t, err)
	assert.Equal(t, "[ ] 🥾 Hiking Boots\n[ ] 🧭 Compass\n[ ] 📷 Camera\n", out)
}

func TestGenerateCommandJSON(t *testing.T) {
	out, err := execute(t, "generate", "--temp", "30", "--json")
	require.NoError(t, err)

	var resp map[string][]string
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, []string{"👕 Casual Wear", "📱 Phone Charger", "🕶️ Sunglasses"}, resp["items"])
}

func TestGenerateCommandUnknownType(t *testing.T) {
	_, err := execute(t, "generate", "--type", "Cruise")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Business")
}

func TestMigrateCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "test.db")
	out, err := execute(t, "migrate", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "schema version 5")

	out, err = execute(t, "cleanup", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "deleted 0 expired sessions\n", out)
}

func TestContentCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "test.db")

	out, err := execute(t, "content", "set", "--db", db, "home", "hero_title", "Pack smarter")
	require.NoError(t, err)
	assert.Equal(t, "updated home/hero_title\n", out)

	out, err = execute(t, "content", "get", "--db", db, "home", "hero_title")
	require.NoError(t, err)
	assert.Equal(t, "Pack smarter\n", out)

	_, err = execute(t, "content", "get", "--db", db, "home", "missing")
	assert.Error(t, err)
}
