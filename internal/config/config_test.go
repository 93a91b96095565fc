package config

import (
	"os"
	"path/filepath"
	"testing"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// tests swap HOME per case
	homedir.DisableCache = true
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Parc (Global)", c.GlobalSite)
	assert.Equal(t, 3, c.RecentYears)
	assert.InDelta(t, 1.6, c.IndustryAveragePUE, 1e-9)
	assert.Equal(t, "transistors", c.DefaultView)
	assert.ElementsMatch(t, AllContainers, c.Layout.Containers)
}

func TestSaveAndReload(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "custom.yaml")

	c, err := Load("")
	require.NoError(t, err)
	c.Data.PUE = "https://example.org/pue.csv"
	c.RecentYears = 5
	c.Layout.Containers = []string{ContainerPUETimeline}
	require.NoError(t, Save(c, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/pue.csv", got.Data.PUE)
	assert.Equal(t, 5, got.RecentYears)
	assert.True(t, got.Layout.Has(ContainerPUETimeline))
	assert.False(t, got.Layout.Has(ContainerChipCloud))
}

func TestLoadExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data:\n  chips: ~/chips.csv\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "chips.csv"), c.Data.Chips)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("HTTPS://x/y.csv"))
	assert.True(t, IsURL(" http://x"))
	assert.False(t, IsURL("data/x.csv"))
}
