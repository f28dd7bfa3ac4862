package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guerrilla-Interactive/codebot-cli/app/project"
	config "github.com/Guerrilla-Interactive/codebot-cli/internal"
)

func TestOpenFreshProject(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ProjectFile), []byte(`
params:
  forward_speed: "0.75"
  turn_speed: "fast"
`), 0o644))

	reg, err := project.LoadProjectRegistry()
	require.NoError(t, err)

	s, err := Open(Options{ProjectDir: dir, Registry: reg})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, dir, s.Root)
	assert.Equal(t, "config", s.Info.Type)
	assert.Equal(t, filepath.Join(dir, config.DefaultArtifactPath), s.Workspace.Path())
	assert.NotNil(t, s.History)

	// The configured seed applies; the bad value falls back to the default.
	p := s.Workspace.Params()
	assert.Equal(t, "0.75", p.Value("forward_speed"))
	assert.Equal(t, "1.00", p.Value("turn_speed"))

	_, found := reg.GetProject(dir)
	assert.True(t, found)

	require.NoError(t, s.Workspace.Save())
	s.MarkSaved()
	info, _ := reg.GetProject(dir)
	assert.NotZero(t, info.LastSaveTime)

	revs, err := s.History.List(t.Context(), dir, 10)
	require.NoError(t, err)
	assert.Len(t, revs, 1)
}

func TestOpenWithoutHistory(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	s, err := Open(Options{ProjectDir: t.TempDir(), NoHistory: true})
	require.NoError(t, err)
	assert.Nil(t, s.History)
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close(), "closing twice is harmless")
}

func TestResolveRootExplicitDirWins(t *testing.T) {
	parent := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(parent, "codebotair.py"), nil, 0o644))
	child := filepath.Join(parent, "child")
	require.NoError(t, os.MkdirAll(child, 0o755))

	info, err := ResolveRoot(child, nil)
	require.NoError(t, err)
	assert.Equal(t, child, info.RootPath)
	assert.Equal(t, "explicit", info.Type)

	info, err = ResolveRoot(parent, nil)
	require.NoError(t, err)
	assert.Equal(t, "codebotair", info.Type)
}

func TestPaletteFromConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "moves.hcl"), []byte(`
category "Mine" {
  snippet "spin" {
    label = "Spin"
    body  = "self.turn_cw(360)"
  }
}
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ProjectFile), []byte("palette_path: moves.hcl\n"), 0o644))

	s, err := Open(Options{ProjectDir: dir, NoHistory: true})
	require.NoError(t, err)
	defer s.Close()

	pal, err := s.Palette()
	require.NoError(t, err)
	snippet, ok := pal.Lookup("spin")
	require.True(t, ok)
	assert.Equal(t, "self.turn_cw(360)", snippet.Text())
}
