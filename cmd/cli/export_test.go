package main

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/library"
)

var sample = []library.Entry{
	{ID: "1", Label: "#01", Title: "Dune", Author: "Herbert", Cover: library.PlaceholderCover, ReadingDays: 7, Stars: 5, Hearts: 3, Favorite: true},
	{ID: "2", Label: "#02", Title: "Emma, a novel", Author: "Austen", Genre: "Classic", ReadingDays: 4, Stars: 4},
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "books.json")
	require.NoError(t, writeJSON(path, sample))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Dune", got[0]["titulo"])
	assert.Equal(t, float64(7), got[0]["tempoLeituraDias"])
	assert.Equal(t, true, got[0]["favorito"])
	assert.Equal(t, "Classic", got[1]["genero"])
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.csv")
	require.NoError(t, writeCSV(path, sample))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"1", "Dune", "Herbert", "", library.PlaceholderCover, "7", "5", "3", "0", "0", "true"}, rows[1])
	assert.Equal(t, "Emma, a novel", rows[2][1])
}

func TestWriteCSV_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.csv")
	require.NoError(t, writeCSV(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,titulo,autor,genero,imagemUrl,tempoLeituraDias,estrelas,coracoes,fogos,humor,favorito\n", string(data))
}
