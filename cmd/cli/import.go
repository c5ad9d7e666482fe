package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"bookshelf/internal/library"
)

// readBooksCSV parses a file written by writeCSV back into drafts.
// Column order does not matter; rows without a title are skipped.
func readBooksCSV(path string) ([]library.Draft, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	var drafts []library.Draft
	for line := 2; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		title := valueAt(header, row, "titulo")
		if title == "" {
			continue
		}

		d := library.Draft{
			Title:  title,
			Author: valueAt(header, row, "autor"),
			Genre:  valueAt(header, row, "genero"),
		}
		if cover := valueAt(header, row, "imagemurl"); cover != library.PlaceholderCover {
			d.CoverURL = cover
		}
		for col, dst := range map[string]*int{
			"tempoleituradias": &d.ReadingDays,
			"estrelas":         &d.Stars,
			"coracoes":         &d.Hearts,
			"fogos":            &d.Intensity,
			"humor":            &d.Emotion,
		} {
			if *dst, err = parseInt(valueAt(header, row, col)); err != nil {
				return nil, fmt.Errorf("line %d: parse %s: %w", line, col, err)
			}
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		header[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
