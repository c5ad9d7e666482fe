package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"bookshelf/pkg/models"
)

// GetChallenge returns nil when the user has not started the challenge for year.
func (c *Client) GetChallenge(ctx context.Context, userID models.ID, year int) (*models.Challenge, error) {
	var ch models.Challenge
	path := fmt.Sprintf("/api/DesafioAZ/usuario/%s?ano=%d", url.PathEscape(userID.String()), year)
	if err := c.getJSON(ctx, path, &ch); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &ch, nil
}

func (c *Client) CreateChallenge(ctx context.Context, userID models.ID, year int) (models.Challenge, error) {
	var ch models.Challenge
	in := models.ChallengeInput{Year: year, UserID: userID}
	if err := c.sendJSON(ctx, http.MethodPost, "/api/DesafioAZ", in, &ch); err != nil {
		return models.Challenge{}, err
	}
	return ch, nil
}

func (c *Client) UpdateChallengeLetter(ctx context.Context, id models.ID, in models.LetterUpdate) error {
	return c.sendJSON(ctx, http.MethodPut, "/api/DesafioAZ/"+url.PathEscape(id.String())+"/letra", in, nil)
}

func (c *Client) ClearChallengeLetter(ctx context.Context, id models.ID, letter string) error {
	path := "/api/DesafioAZ/" + url.PathEscape(id.String()) + "/letra/" + url.PathEscape(letter)
	_, err := c.Request(ctx, path, RequestOptions{Method: http.MethodDelete})
	return err
}
