package rest

import (
	"context"
	"net/http"
	"strings"

	"pet-admin-console/internal/platform/httpclient"
	"pet-admin-console/internal/ports/auth"
)

// AuthAPI implementa auth.API contra /auth/*.
type AuthAPI struct {
	client *httpclient.Client
}

func NewAuthAPI(client *httpclient.Client) *AuthAPI {
	return &AuthAPI{client: client}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
}

func (a *AuthAPI) Login(ctx context.Context, username, password string) (auth.Credentials, error) {
	var resp loginResponse
	err := a.client.DoJSON(ctx, http.MethodPost, "/auth/login", loginRequest{
		Username: strings.TrimSpace(username),
		Password: password,
	}, &resp)
	if err != nil {
		return auth.Credentials{}, err
	}

	return auth.Credentials{
		Token:       strings.TrimSpace(resp.Token),
		DisplayName: strings.TrimSpace(resp.Name),
	}, nil
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

func (a *AuthAPI) Register(ctx context.Context, in auth.RegisterInput) error {
	return a.client.DoJSON(ctx, http.MethodPost, "/auth/register", registerRequest{
		Username: strings.TrimSpace(in.Username),
		Password: in.Password,
		FullName: strings.TrimSpace(in.FullName),
		Email:    strings.TrimSpace(in.Email),
		Phone:    strings.TrimSpace(in.Phone),
	}, nil)
}

func (a *AuthAPI) Logout(ctx context.Context) error {
	return a.client.DoJSON(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

var _ auth.API = (*AuthAPI)(nil)
