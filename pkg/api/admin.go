package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/mathevilla/mathevilla/pkg/model"
)

// AdminStats fetches the aggregate numbers for the admin dashboard.
func (c *Client) AdminStats(ctx context.Context) (*model.AdminStats, error) {
	var stats model.AdminStats
	if err := c.do(ctx, http.MethodGet, "/api/admin/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Students lists all student accounts.
func (c *Client) Students(ctx context.Context) ([]model.StudentSummary, error) {
	var students []model.StudentSummary
	if err := c.do(ctx, http.MethodGet, "/api/admin/students", nil, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// StudentDetail fetches one student's full progress.
func (c *Client) StudentDetail(ctx context.Context, studentID string) (*model.StudentSummary, error) {
	var student model.StudentSummary
	path := "/api/admin/students/" + url.PathEscape(studentID)
	if err := c.do(ctx, http.MethodGet, path, nil, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// AdminTasks lists tasks in the bank, optionally filtered by grade and/or
// topic (zero values mean no filter).
func (c *Client) AdminTasks(ctx context.Context, grade int, topic string) ([]model.Task, error) {
	params := url.Values{}
	if grade != 0 {
		params.Set("grade", fmt.Sprint(grade))
	}
	if topic != "" {
		params.Set("topic", topic)
	}
	path := "/api/admin/tasks"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var tasks []model.Task
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask adds a task to the bank and returns it with its assigned ID.
func (c *Client) CreateTask(ctx context.Context, task model.Task) (*model.Task, error) {
	var created model.Task
	if err := c.do(ctx, http.MethodPost, "/api/admin/tasks", task, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTask replaces a task in the bank.
func (c *Client) UpdateTask(ctx context.Context, taskID string, task model.Task) error {
	path := "/api/admin/tasks/" + url.PathEscape(taskID)
	return c.do(ctx, http.MethodPut, path, task, nil)
}

// DeleteTask removes a task from the bank.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	path := "/api/admin/tasks/" + url.PathEscape(taskID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// ImportResult reports the outcome of a CSV import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportTasksCSV uploads a CSV file of tasks as multipart form data.
func (c *Client) ImportTasksCSV(ctx context.Context, filename string, r io.Reader) (*ImportResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("api: import csv: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("api: import csv: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("api: import csv: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/admin/tasks/import-csv", &buf)
	if err != nil {
		return nil, fmt.Errorf("api: import csv: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(req)

	var result ImportResult
	if err := c.send(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
