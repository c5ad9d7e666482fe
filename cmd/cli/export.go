package main

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"bookshelf/internal/library"
)

// exportedBook is the file shape of a library entry; field names follow the backend.
type exportedBook struct {
	ID          string `json:"id"`
	Title       string `json:"titulo"`
	Author      string `json:"autor"`
	Genre       string `json:"genero"`
	CoverURL    string `json:"imagemUrl"`
	ReadingDays int    `json:"tempoLeituraDias"`
	Stars       int    `json:"estrelas"`
	Hearts      int    `json:"coracoes"`
	Intensity   int    `json:"fogos"`
	Emotion     int    `json:"humor"`
	Favorite    bool   `json:"favorito"`
}

var csvHeader = []string{
	"id", "titulo", "autor", "genero", "imagemUrl", "tempoLeituraDias",
	"estrelas", "coracoes", "fogos", "humor", "favorito",
}

func toExported(entries []library.Entry) []exportedBook {
	out := make([]exportedBook, 0, len(entries))
	for _, e := range entries {
		out = append(out, exportedBook{
			ID:          e.ID.String(),
			Title:       e.Title,
			Author:      e.Author,
			Genre:       e.Genre,
			CoverURL:    e.Cover,
			ReadingDays: e.ReadingDays,
			Stars:       e.Stars,
			Hearts:      e.Hearts,
			Intensity:   e.Intensity,
			Emotion:     e.Emotion,
			Favorite:    e.Favorite,
		})
	}
	return out
}

func writeJSON(path string, entries []library.Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(toExported(entries), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func writeCSV(path string, entries []library.Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, b := range toExported(entries) {
		if err := writer.Write([]string{
			b.ID,
			b.Title,
			b.Author,
			b.Genre,
			b.CoverURL,
			strconv.Itoa(b.ReadingDays),
			strconv.Itoa(b.Stars),
			strconv.Itoa(b.Hearts),
			strconv.Itoa(b.Intensity),
			strconv.Itoa(b.Emotion),
			strconv.FormatBool(b.Favorite),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
