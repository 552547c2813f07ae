package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexis/internal/domain"
	"github.com/phrazzld/lexis/internal/mocks"
	"github.com/phrazzld/lexis/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var importTime = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

const sampleCatalog = `
words:
  - source: casa
    target: house
    difficulty: 1
    approved: true
  - id: 0b6c0d7e-3f0e-4d7a-9f3c-5f7b7e0c1a22
    source: "  ferrocarril "
    target: railway
    difficulty: 5
`

func TestParseAndWords(t *testing.T) {
	c, err := Parse(strings.NewReader(sampleCatalog))
	require.NoError(t, err)
	require.Len(t, c.Entries, 2)

	words, err := c.Words(false, importTime)
	require.NoError(t, err)
	require.Len(t, words, 2)

	assert.Equal(t, "casa", words[0].SourceText)
	assert.True(t, words[0].Approved)
	assert.Equal(t, importTime, words[0].CreatedAt)

	assert.Equal(t, uuid.MustParse("0b6c0d7e-3f0e-4d7a-9f3c-5f7b7e0c1a22"), words[1].ID)
	assert.Equal(t, "ferrocarril", words[1].SourceText)
	assert.False(t, words[1].Approved)

	again, err := c.Words(true, importTime)
	require.NoError(t, err)
	assert.Equal(t, words[0].ID, again[0].ID, "derived IDs are stable")
	assert.True(t, again[1].Approved)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse(strings.NewReader("words:\n  - source: a\n    meaning: b\n"))
	assert.Error(t, err)
}

func TestParseEmpty(t *testing.T) {
	c, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, c.Entries)
}

func TestWordsValidation(t *testing.T) {
	c := &Catalog{Entries: []Entry{
		{Source: "uno", Target: "one", Difficulty: 1},
		{Source: "", Target: "two", Difficulty: 1},
		{Source: "tres", Target: "three", Difficulty: 9},
		{ID: "not-a-uuid", Source: "cuatro", Target: "four", Difficulty: 2},
		{Source: "UNO", Target: "One", Difficulty: 2},
	}}

	_, err := c.Words(false, importTime)
	require.Error(t, err)

	assert.ErrorIs(t, err, domain.ErrWordSourceTextEmpty)
	assert.ErrorIs(t, err, domain.ErrWordDifficultyInvalid)
	assert.ErrorIs(t, err, domain.ErrInvalidID)
	assert.Contains(t, err.Error(), "catalog entry 5: duplicates entry 1")

	var entryErr *EntryError
	require.ErrorAs(t, err, &entryErr)
	assert.Equal(t, 1, entryErr.Index)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, c.Entries, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestImport(t *testing.T) {
	db := mocks.NewMemoryDB()
	stores := db.NewStores()
	log, buf := logger.GetTestLogger(t)

	c, err := Parse(strings.NewReader(sampleCatalog))
	require.NoError(t, err)
	words, err := c.Words(false, importTime)
	require.NoError(t, err)

	res, err := Import(context.Background(), stores.Words, words, log)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Created: 2}, res)

	res, err = Import(context.Background(), stores.Words, words, log)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Skipped: 2}, res)
	logger.AssertLogContains(t, buf, "catalog imported")

	count, err := stores.Words.CountApproved(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestImportStopsOnStoreError(t *testing.T) {
	db := mocks.NewMemoryDB()
	ws := &mocks.MockWordStore{DB: db, Err: errors.New("connection reset")}
	w, err := domain.NewWord("sol", "sun", 1)
	require.NoError(t, err)

	res, err := Import(context.Background(), ws, []*domain.Word{w}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Zero(t, res.Created)
}
