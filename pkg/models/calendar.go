package models

// Calendar holds the monthly read counts for one user and year.
type Calendar struct {
	UserID ID              `json:"usuarioId,omitempty"`
	Year   int             `json:"ano"`
	Months []CalendarMonth `json:"meses"`
}

type CalendarMonth struct {
	Month     int `json:"mes"`
	BookCount int `json:"quantidadeLivros"`
}

// MonthUpdate is the PUT .../mes/{mes} payload.
type MonthUpdate struct {
	BookCount int `json:"quantidadeLivros"`
}
