package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Book is a catalogued read in the user's library.
type Book struct {
	ID          ID     `json:"id"`
	Title       string `json:"titulo"`
	Author      string `json:"autor"`
	Genre       string `json:"genero,omitempty"`
	CoverURL    string `json:"imagemUrl,omitempty"`
	ReadingDays int    `json:"tempoLeituraDias"`
	Stars       int    `json:"estrelas"`
	Hearts      int    `json:"coracoes"`
	Intensity   int    `json:"fogos,omitempty"`
	Emotion     int    `json:"humor,omitempty"`
	Favorite    bool   `json:"favorito"`
	UserID      ID     `json:"usuarioId,omitempty"`
}

// BookInput is the POST /api/Livros payload. Optional strings are sent as null when empty.
type BookInput struct {
	Title       string  `json:"titulo"`
	Author      string  `json:"autor"`
	CoverURL    *string `json:"imagemUrl"`
	Genre       *string `json:"genero"`
	ReadingDays int     `json:"tempoLeituraDias"`
	Stars       int     `json:"estrelas"`
	Hearts      int     `json:"coracoes"`
	Intensity   int     `json:"fogos"`
	Emotion     int     `json:"humor"`
	Favorite    bool    `json:"favorito"`
	UserID      ID      `json:"usuarioId"`
}

// BookPatch is a partial PUT /api/Livros/{id} payload; nil or unset fields are left untouched.
type BookPatch struct {
	Title       *string     `json:"titulo,omitempty"`
	Author      *string     `json:"autor,omitempty"`
	Genre       PatchString `json:"genero,omitzero"`
	ReadingDays *int        `json:"tempoLeituraDias,omitempty"`
	Stars       *int        `json:"estrelas,omitempty"`
	Hearts      *int        `json:"coracoes,omitempty"`
	Favorite    *bool       `json:"favorito,omitempty"`
}

// PatchString is a patch field that is either absent, explicitly null, or a value.
type PatchString struct {
	Set   bool
	Value *string
}

// SetString sets the field; blank strings are sent as null.
func SetString(s string) PatchString {
	return PatchString{Set: true, Value: NullableString(strings.TrimSpace(s))}
}

func (p PatchString) IsZero() bool { return !p.Set }

// String returns the value, or "" when absent or null.
func (p PatchString) String() string {
	if p.Value == nil {
		return ""
	}
	return *p.Value
}

func (p PatchString) MarshalJSON() ([]byte, error) {
	if p.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*p.Value)
}

// UnmarshalJSON only runs when the key is present, which marks the field as set.
func (p *PatchString) UnmarshalJSON(b []byte) error {
	p.Set = true
	p.Value = nil
	if string(bytes.TrimSpace(b)) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	p.Value = &s
	return nil
}

// NullableString returns nil for blank strings so they serialize as JSON null.
func NullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
