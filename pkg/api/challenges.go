package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mathevilla/mathevilla/pkg/model"
)

// DailyChallenge fetches today's challenge for the signed-in student.
func (c *Client) DailyChallenge(ctx context.Context) (*model.Challenge, error) {
	var ch model.Challenge
	if err := c.do(ctx, http.MethodGet, "/api/challenges/daily", nil, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

// WeeklyChallenge fetches this week's challenge.
func (c *Client) WeeklyChallenge(ctx context.Context) (*model.Challenge, error) {
	var ch model.Challenge
	if err := c.do(ctx, http.MethodGet, "/api/challenges/weekly", nil, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

// SubmitChallengeAnswer grades one task inside a challenge. The result
// reports whether the whole challenge is now complete.
func (c *Client) SubmitChallengeAnswer(ctx context.Context, challengeID, taskID, answer string) (*model.ChallengeResult, error) {
	body := map[string]string{"task_id": taskID, "answer": answer}
	var result model.ChallengeResult
	path := "/api/challenges/submit/" + url.PathEscape(challengeID)
	if err := c.do(ctx, http.MethodPost, path, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
