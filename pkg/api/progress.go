package api

import (
	"context"
	"net/http"

	"github.com/mathevilla/mathevilla/pkg/model"
)

// ProgressOverview fetches the student's per-topic progress.
func (c *Client) ProgressOverview(ctx context.Context) (*model.ProgressOverview, error) {
	var overview model.ProgressOverview
	if err := c.do(ctx, http.MethodGet, "/api/progress/overview", nil, &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

// UserStats fetches the gamification numbers for the dashboard.
func (c *Client) UserStats(ctx context.Context) (*model.Stats, error) {
	var stats model.Stats
	if err := c.do(ctx, http.MethodGet, "/api/progress/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Recommendations fetches tasks the backend suggests practicing next.
func (c *Client) Recommendations(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.do(ctx, http.MethodGet, "/api/recommendations", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}
