package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDir_Blog(t *testing.T) {
	reg, err := LoadDir(filepath.Join("..", "..", "testdata", "schema"))
	require.NoError(t, err)

	assert.Equal(t, []string{"comments", "posts", "users"}, reg.Types())
}

func TestLoadDir_MergesFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.cue"), []byte(`package shop

entity: users: attributes: name: string
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "orders.cue"), []byte(`package shop

entity: orders: {
	attributes: total: float
	relations: customer: {kind: "belongs_to", type: "users"}
}
`), 0o644))

	reg, err := LoadDir(dir)
	require.NoError(t, err)

	orders, ok := reg.Lookup("orders")
	require.True(t, ok)
	assert.Equal(t, []string{"id", "total", "customer_id"}, orders.Columns())
}

func TestLoadDir_SyntaxError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.cue"), []byte("entity: {\n"), 0o644))

	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading CUE files")
}
