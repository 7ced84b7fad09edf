package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsWithin(t *testing.T) {
	tests := []struct {
		name   string
		parent string
		child  string
		want   bool
	}{
		{"same path", "/work/proj", "/work/proj", true},
		{"nested", "/work/proj", "/work/proj/sub/dir", true},
		{"sibling with shared prefix", "/work/pro", "/work/proj", false},
		{"parent of parent", "/work/proj/sub", "/work/proj", false},
		{"unrelated", "/other", "/work/proj", false},
		{"dotdot-named child", "/work", "/work/..hidden", true},
		{"empty parent", "", "/work/proj", false},
		{"trailing slash", "/work/proj/", "/work/proj/x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWithin(tt.parent, tt.child))
		})
	}
}

func TestIsWithinResolvesSymlinks(t *testing.T) {
	real := t.TempDir()
	link := filepath.Join(t.TempDir(), "link")
	require.NoError(t, os.Symlink(real, link))
	require.NoError(t, os.Mkdir(filepath.Join(real, "x"), 0755))

	assert.True(t, IsWithin(link, filepath.Join(real, "x")))
}

func TestExpand(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := Expand("~/projects")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "projects"), got)

	t.Setenv("AG_TEST_DIR", "/tmp/ag")
	got, err = Expand("$AG_TEST_DIR/x")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/ag/x", got)
}
