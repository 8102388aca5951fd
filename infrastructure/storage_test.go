package infrastructure

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSave(t *testing.T) {
	dir := t.TempDir()
	s := LocalStorage{Dir: dir}

	rel, err := s.Save(context.Background(), "resumes", ".pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "resumes/"))
	assert.True(t, strings.HasSuffix(rel, ".pdf"))

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	other, err := s.Save(context.Background(), "resumes", ".pdf", strings.NewReader("x"))
	require.NoError(t, err)
	assert.NotEqual(t, rel, other)
}

func TestLocalStorageCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LocalStorage{Dir: t.TempDir()}.Save(ctx, "resumes", ".pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
}
