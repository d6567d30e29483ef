package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mathevilla/mathevilla/pkg/model"
)

// Grades lists the grades that have tasks in the bank.
func (c *Client) Grades(ctx context.Context) ([]int, error) {
	var grades []int
	if err := c.do(ctx, http.MethodGet, "/api/tasks/grades", nil, &grades); err != nil {
		return nil, err
	}
	return grades, nil
}

// Topics lists the topics available for a grade.
func (c *Client) Topics(ctx context.Context, grade int) ([]model.Topic, error) {
	var topics []model.Topic
	path := fmt.Sprintf("/api/tasks/topics/%d", grade)
	if err := c.do(ctx, http.MethodGet, path, nil, &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

// Tasks fetches the practice tasks for a grade and topic.
func (c *Client) Tasks(ctx context.Context, grade int, topic string) ([]model.Task, error) {
	var tasks []model.Task
	path := fmt.Sprintf("/api/tasks/%d/%s", grade, url.PathEscape(topic))
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Task fetches a single task by ID.
func (c *Client) Task(ctx context.Context, taskID string) (*model.Task, error) {
	var task model.Task
	path := "/api/tasks/single/" + url.PathEscape(taskID)
	if err := c.do(ctx, http.MethodGet, path, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// SubmitAnswer grades an answer server-side and returns the verdict plus
// any XP/level/badge changes.
func (c *Client) SubmitAnswer(ctx context.Context, taskID, answer string) (*model.SubmitResult, error) {
	body := map[string]string{"task_id": taskID, "answer": answer}
	var result model.SubmitResult
	if err := c.do(ctx, http.MethodPost, "/api/tasks/submit", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
