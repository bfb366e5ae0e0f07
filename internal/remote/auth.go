package remote

import (
	"context"
	"fmt"
	"net/http"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, err := jsonBody(loginRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}

	var resp loginResponse
	err = c.do(ctx, request{
		method:    http.MethodPost,
		path:      "/auth/login",
		body:      body,
		resource:  "auth",
		anonymous: true,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("login response carried no access token")
	}
	return resp.AccessToken, nil
}

func (c *Client) GetUser(ctx context.Context, id int) (*User, error) {
	var user User
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/user/%d", id),
		resource: "user",
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
