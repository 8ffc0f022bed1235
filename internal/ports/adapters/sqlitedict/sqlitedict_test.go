package sqlitedict

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forPelevin/visecut/internal/ports/adapters/cmudict"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "dict.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestImportAndLookup(t *testing.T) {
	ctx := context.Background()
	d, err := cmudict.Parse(strings.NewReader("CAT  K AE1 T\nREAD  R EH1 D\nREAD(1)  R IY1 D\n"))
	require.NoError(t, err)

	s := openTemp(t)
	n, err := s.Import(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	prons, err := s.Pronunciations(ctx, "Read")
	require.NoError(t, err)
	assert.Equal(t, []string{"R EH1 D", "R IY1 D"}, prons)

	missing, err := s.Pronunciations(ctx, "dog")
	require.NoError(t, err)
	assert.Empty(t, missing)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestImport_ReplacesExisting(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	first, err := cmudict.Parse(strings.NewReader("READ  R EH1 D\nREAD(1)  R IY1 D\n"))
	require.NoError(t, err)
	_, err = s.Import(ctx, first)
	require.NoError(t, err)

	second, err := cmudict.Parse(strings.NewReader("READ  R IY1 D\n"))
	require.NoError(t, err)
	_, err = s.Import(ctx, second)
	require.NoError(t, err)

	prons, err := s.Pronunciations(ctx, "read")
	require.NoError(t, err)
	assert.Equal(t, []string{"R IY1 D"}, prons)
}

func TestPronunciations_ClosedStoreFails(t *testing.T) {
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "dict.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.Pronunciations(context.Background(), "cat")
	require.Error(t, err)
}
