package backend

import (
	"context"
	"errors"
	"net/http"

	"github.com/sandeepkv93/daybook/internal/model"
)

func (c *Client) Login(ctx context.Context, username, password string) (model.User, error) {
	if username == "" || password == "" {
		return model.User{}, errors.New("backend: username and password are required")
	}
	var out loginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/login", credentials{Username: username, Password: password}, &out); err != nil {
		return model.User{}, err
	}
	user := out.User.toModel()
	c.log.Infow("logged in", "user", user.Username)
	return user, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/logout", nil, nil)
}

// Status reports the user bound to the current session cookie, if any.
func (c *Client) Status(ctx context.Context) (model.User, bool, error) {
	var out statusResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/status", nil, &out); err != nil {
		return model.User{}, false, err
	}
	if !out.IsAuthenticated {
		return model.User{}, false, nil
	}
	return out.User.toModel(), true, nil
}
