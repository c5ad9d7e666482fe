package models

import "encoding/json"

// ReadingGoal is the yearly MetaLeitura resource.
type ReadingGoal struct {
	ID          ID             `json:"id"`
	Year        int            `json:"ano"`
	TargetCount int            `json:"quantidadeObejetivo"`
	ReadCount   int            `json:"quantidadeLida"`
	TopGenres   map[string]int `json:"generosMaisLidos,omitempty"`
	UserID      ID             `json:"usuarioId,omitempty"`
}

// UnmarshalJSON accepts both the backend's misspelled target field and the
// corrected spelling; the misspelled one wins when both are present.
func (g *ReadingGoal) UnmarshalJSON(b []byte) error {
	type alias ReadingGoal
	var raw struct {
		alias
		Legacy *int `json:"quantidadeObejetivo"`
		Fixed  *int `json:"quantidadeObjetivo"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*g = ReadingGoal(raw.alias)
	switch {
	case raw.Legacy != nil:
		g.TargetCount = *raw.Legacy
	case raw.Fixed != nil:
		g.TargetCount = *raw.Fixed
	default:
		g.TargetCount = 0
	}
	return nil
}

// GoalInput is the POST /api/MetaLeitura payload.
type GoalInput struct {
	Year        int `json:"ano"`
	TargetCount int `json:"quantidadeObejetivo"`
	UserID      ID  `json:"usuarioId"`
}
