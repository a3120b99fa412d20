package api

import (
	"context"
	"net/http"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a token. It does not touch any session
// state; the caller decides what to do with the result.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var out LoginResult
	if err := c.doJSON(ctx, opLogin, http.MethodPost, "/login", loginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyToken asks the backend whether token is still valid.
func (c *Client) VerifyToken(ctx context.Context, token string) (*VerifyResult, error) {
	var out VerifyResult
	if err := c.doJSON(ctx, opVerify, http.MethodPost, "/verify-token", verifyRequest{Token: token}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
