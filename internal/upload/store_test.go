package upload

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSave(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	name, size, err := store.Save("file", "report.pdf", strings.NewReader("hello world"))
	require.NoError(t, err)

	assert.Equal(t, int64(11), size)
	assert.Regexp(t, regexp.MustCompile(`^file-\d+-\d+\.pdf$`), name)

	data, err := os.ReadFile(filepath.Join(store.Dir(), name))
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
}

func TestGenerateFilename(t *testing.T) {
	name := GenerateFilename("avatar", "me.PNG")
	assert.Regexp(t, regexp.MustCompile(`^avatar-\d+-\d+\.PNG$`), name)

	// No extension on the original keeps the name bare.
	name = GenerateFilename("file", "README")
	assert.Regexp(t, regexp.MustCompile(`^file-\d+-\d+$`), name)

	// Two saves of the same name never collide.
	a := GenerateFilename("file", "a.txt")
	b := GenerateFilename("file", "a.txt")
	assert.NotEqual(t, a, b)
}

func TestAllowedAvatarType(t *testing.T) {
	assert.True(t, AllowedAvatarType("image/png"))
	assert.True(t, AllowedAvatarType("image/jpeg"))
	assert.True(t, AllowedAvatarType("image/gif"))
	assert.False(t, AllowedAvatarType("image/svg+xml"))
	assert.False(t, AllowedAvatarType("application/pdf"))
	assert.False(t, AllowedAvatarType(""))
}
