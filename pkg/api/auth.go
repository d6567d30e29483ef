package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mathevilla/mathevilla/pkg/model"
)

// AuthResponse is returned by the login and register endpoints.
type AuthResponse struct {
	AccessToken string     `json:"access_token"`
	User        model.User `json:"user"`
}

// Login exchanges credentials for a bearer token and the user record.
// The token is NOT attached to the client; the session manager decides
// when to do that.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account. The caller is expected to have normalized
// and validated the payload (grade only for students).
func (c *Client) Register(ctx context.Context, reg model.Registration) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", reg, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me exchanges the attached bearer token for the canonical user record.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateGrade changes the signed-in student's grade.
func (c *Client) UpdateGrade(ctx context.Context, grade int) error {
	if err := model.ValidateGrade(grade); err != nil {
		return fmt.Errorf("api: update grade: %w", err)
	}
	path := "/api/auth/grade?" + url.Values{"grade": {fmt.Sprint(grade)}}.Encode()
	return c.do(ctx, http.MethodPut, path, nil, nil)
}
