package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/library"
)

func TestReadBooksCSV_RoundTripsExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.csv")
	require.NoError(t, writeCSV(path, sample))

	drafts, err := readBooksCSV(path)
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, library.Draft{Title: "Dune", Author: "Herbert", ReadingDays: 7, Stars: 5, Hearts: 3}, drafts[0])
	assert.Equal(t, "Classic", drafts[1].Genre)
	assert.Equal(t, 4, drafts[1].Stars)
}

func TestReadBooksCSV_ReorderedColumnsAndBlankRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.csv")
	data := "Estrelas,Titulo,Autor\n4,Emma,Austen\n2,,Nobody\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	drafts, err := readBooksCSV(path)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, library.Draft{Title: "Emma", Author: "Austen", Stars: 4}, drafts[0])
}

func TestReadBooksCSV_BadNumber(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.csv")
	require.NoError(t, os.WriteFile(path, []byte("titulo,estrelas\nDune,five\n"), 0o644))

	_, err := readBooksCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2: parse estrelas")
}
