package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/text/cases"

	"bookshelf/pkg/models"
)

var ErrEmptyName = errors.New("gateway: user name is empty")

var folder = cases.Fold()

// SameName compares display names the way the backend lookup does: trimmed and case-folded.
func SameName(a, b string) bool {
	return folder.String(strings.TrimSpace(a)) == folder.String(strings.TrimSpace(b))
}

// GetOrCreateUser returns the user registered under name, creating it when absent.
func (c *Client) GetOrCreateUser(ctx context.Context, name string) (models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.User{}, ErrEmptyName
	}

	var users []models.User
	if err := c.getJSON(ctx, "/api/Usuarios", &users); err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if SameName(u.Name, name) {
			return u, nil
		}
	}

	var created models.User
	if err := c.sendJSON(ctx, http.MethodPost, "/api/Usuarios", map[string]string{"nome": name}, &created); err != nil {
		return models.User{}, err
	}
	return created, nil
}

// GetUser returns nil when the backend has no such user.
func (c *Client) GetUser(ctx context.Context, id models.ID) (*models.User, error) {
	var u models.User
	if err := c.getJSON(ctx, "/api/Usuarios/"+url.PathEscape(id.String()), &u); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
