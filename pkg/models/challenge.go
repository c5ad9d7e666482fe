package models

// Alphabet lists the challenge letters in display order.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Challenge is the yearly DesafioAZ resource.
type Challenge struct {
	ID      ID                `json:"id"`
	Year    int               `json:"ano"`
	UserID  ID                `json:"usuarioId,omitempty"`
	Letters []ChallengeLetter `json:"letras"`
}

type ChallengeLetter struct {
	Letter    string `json:"letra"`
	BookTitle string `json:"tituloLivro,omitempty"`
	Completed bool   `json:"completado"`
}

// ChallengeInput is the POST /api/DesafioAZ payload.
type ChallengeInput struct {
	Year   int `json:"ano"`
	UserID ID  `json:"usuarioId"`
}

// LetterUpdate is the PUT /api/DesafioAZ/{id}/letra payload.
type LetterUpdate struct {
	Letter    string `json:"letra"`
	BookTitle string `json:"tituloLivro"`
	Completed bool   `json:"completado"`
}
