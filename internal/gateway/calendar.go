package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"bookshelf/pkg/models"
)

// GetCalendar returns nil when the backend has nothing stored for (user, year).
func (c *Client) GetCalendar(ctx context.Context, userID models.ID, year int) (*models.Calendar, error) {
	var cal models.Calendar
	path := fmt.Sprintf("/api/Calendario/usuario/%s/ano/%d", url.PathEscape(userID.String()), year)
	if err := c.getJSON(ctx, path, &cal); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &cal, nil
}

// SaveCalendarMonth upserts one month; the backend creates the year on first save.
func (c *Client) SaveCalendarMonth(ctx context.Context, userID models.ID, year, month, count int) error {
	path := fmt.Sprintf("/api/Calendario/usuario/%s/ano/%d/mes/%d", url.PathEscape(userID.String()), year, month)
	return c.sendJSON(ctx, http.MethodPut, path, models.MonthUpdate{BookCount: count}, nil)
}
