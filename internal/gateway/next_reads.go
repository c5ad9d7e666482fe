package gateway

import (
	"context"
	"net/http"
	"net/url"

	"bookshelf/pkg/models"
)

// ListNextReads returns the wishlist; a 404 means it is empty.
func (c *Client) ListNextReads(ctx context.Context, userID models.ID) ([]models.NextRead, error) {
	items := []models.NextRead{}
	if err := c.getJSON(ctx, "/api/ProximaLeitura?usuarioId="+url.QueryEscape(userID.String()), &items); err != nil {
		if IsNotFound(err) {
			return []models.NextRead{}, nil
		}
		return nil, err
	}
	if items == nil {
		items = []models.NextRead{}
	}
	return items, nil
}

func (c *Client) CreateNextRead(ctx context.Context, in models.NextReadInput) (models.NextRead, error) {
	var n models.NextRead
	if err := c.sendJSON(ctx, http.MethodPost, "/api/ProximaLeitura", in, &n); err != nil {
		return models.NextRead{}, err
	}
	return n, nil
}

func (c *Client) DeleteNextRead(ctx context.Context, id models.ID) error {
	_, err := c.Request(ctx, "/api/ProximaLeitura/"+url.PathEscape(id.String()), RequestOptions{Method: http.MethodDelete})
	return err
}
