package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"bookshelf/pkg/models"
)

// GetGoal returns nil when the user has no goal for year.
func (c *Client) GetGoal(ctx context.Context, userID models.ID, year int) (*models.ReadingGoal, error) {
	var g models.ReadingGoal
	path := fmt.Sprintf("/api/MetaLeitura/usuario/%s?ano=%d", url.PathEscape(userID.String()), year)
	if err := c.getJSON(ctx, path, &g); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (c *Client) CreateGoal(ctx context.Context, in models.GoalInput) (models.ReadingGoal, error) {
	var g models.ReadingGoal
	if err := c.sendJSON(ctx, http.MethodPost, "/api/MetaLeitura", in, &g); err != nil {
		return models.ReadingGoal{}, err
	}
	return g, nil
}

func (c *Client) UpdateGoal(ctx context.Context, id models.ID, target int) error {
	body := map[string]int{"quantidadeObejetivo": target}
	return c.sendJSON(ctx, http.MethodPut, "/api/MetaLeitura/"+url.PathEscape(id.String()), body, nil)
}
