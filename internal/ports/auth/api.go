package auth

import "context"

// API es lo que la sesión necesita del backend de autenticación.
// Lo implementa el adapter REST.
type API interface {
	Login(ctx context.Context, username, password string) (Credentials, error)
	Register(ctx context.Context, in RegisterInput) error
	Logout(ctx context.Context) error
}

// TokenStore persiste el token entre reinicios de la consola.
// Lo implementan los adapters de storage (sqlite y memory).
type TokenStore interface {
	Save(token, userName string) error
	Load() (token, userName string, ok bool, err error)
	Clear() error
}
