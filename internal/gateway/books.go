package gateway

import (
	"context"
	"net/http"
	"net/url"

	"bookshelf/pkg/models"
)

// ListBooks returns the user's library; a 404 means an empty library.
func (c *Client) ListBooks(ctx context.Context, userID models.ID) ([]models.Book, error) {
	books := []models.Book{}
	if err := c.getJSON(ctx, "/api/Livros?usuarioId="+url.QueryEscape(userID.String()), &books); err != nil {
		if IsNotFound(err) {
			return []models.Book{}, nil
		}
		return nil, err
	}
	if books == nil {
		books = []models.Book{}
	}
	return books, nil
}

func (c *Client) CreateBook(ctx context.Context, in models.BookInput) (models.Book, error) {
	var b models.Book
	if err := c.sendJSON(ctx, http.MethodPost, "/api/Livros", in, &b); err != nil {
		return models.Book{}, err
	}
	return b, nil
}

func (c *Client) UpdateBook(ctx context.Context, id models.ID, patch models.BookPatch) error {
	return c.sendJSON(ctx, http.MethodPut, "/api/Livros/"+url.PathEscape(id.String()), patch, nil)
}

func (c *Client) DeleteBook(ctx context.Context, id models.ID) error {
	_, err := c.Request(ctx, "/api/Livros/"+url.PathEscape(id.String()), RequestOptions{Method: http.MethodDelete})
	return err
}
