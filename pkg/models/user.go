package models

// User is the backend's Usuario resource.
type User struct {
	ID   ID     `json:"id"`
	Name string `json:"nome"`
}
