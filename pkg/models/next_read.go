package models

// Priority orders the wishlist; lower is more urgent.
type Priority int

const (
	PriorityHigh   Priority = 1
	PriorityMedium Priority = 2
	PriorityLow    Priority = 3
)

// NextRead is a ProximaLeitura wishlist entry.
type NextRead struct {
	ID       ID       `json:"id"`
	Title    string   `json:"titulo"`
	ImageURL string   `json:"imageUrl,omitempty"`
	Note     string   `json:"complemento,omitempty"`
	Priority Priority `json:"prioridade"`
	UserID   ID       `json:"usuarioId,omitempty"`
}

// NextReadInput is the POST /api/ProximaLeitura payload.
type NextReadInput struct {
	Title    string   `json:"titulo"`
	ImageURL *string  `json:"imageUrl"`
	Note     *string  `json:"complemento"`
	Priority Priority `json:"prioridade"`
	UserID   ID       `json:"usuarioId"`
}
