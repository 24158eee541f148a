package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"pet-admin-console/internal/platform/httpclient"
	"pet-admin-console/internal/platform/logger"
	"pet-admin-console/internal/ports/auth"
)

// AuthError es un login/registro rechazado por el backend.
// Message es el mensaje del backend o un fallback genérico.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

const (
	genericLoginFailed    = "Login failed"
	genericRegisterFailed = "Registration failed"
)

// Manager es el dueño exclusivo del estado de sesión.
// Estados: Anonymous (token vacío) y Authenticated.
//   - Anonymous -> Authenticated solo via Login exitoso (o Restore de un token persistido).
//   - Authenticated -> Anonymous via Logout (siempre gana localmente) o
//     Invalidate() cuando un request autenticado clasifica como 401 (invalidación lazy).
type Manager struct {
	api   auth.API
	store auth.TokenStore
	log   logger.Logger

	mu       sync.RWMutex
	token    string
	userName string
}

func NewManager(api auth.API, store auth.TokenStore, log logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{
		api:   api,
		store: store,
		log:   log.With(map[string]any{"component": "session"}),
	}
}

// Restore carga el token persistido (si hay). Se llama una vez al arrancar.
func (m *Manager) Restore() {
	if m.store == nil {
		return
	}
	token, userName, ok, err := m.store.Load()
	if err != nil {
		m.log.Warn("restore session failed", map[string]any{"error": err.Error()})
		return
	}
	if !ok || strings.TrimSpace(token) == "" {
		return
	}

	m.mu.Lock()
	m.token = token
	m.userName = userName
	m.mu.Unlock()

	m.log.Info("session restored", map[string]any{"user": userName})
}

// Login autentica contra el backend. En éxito guarda el token (memoria + store)
// y devuelve el display name. En fallo la sesión queda como estaba.
func (m *Manager) Login(ctx context.Context, username, password string) (string, error) {
	creds, err := m.api.Login(ctx, username, password)
	if err != nil {
		return "", &AuthError{Message: authMessage(err, genericLoginFailed)}
	}
	if strings.TrimSpace(creds.Token) == "" {
		return "", &AuthError{Message: genericLoginFailed}
	}

	m.mu.Lock()
	m.token = creds.Token
	m.userName = creds.DisplayName
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.Save(creds.Token, creds.DisplayName); err != nil {
			// La sesión en memoria ya es válida; solo no sobrevive reinicios.
			m.log.Warn("persist token failed", map[string]any{"error": err.Error()})
		}
	}

	m.log.Info("login ok", map[string]any{"user": creds.DisplayName})
	return creds.DisplayName, nil
}

// Register da de alta un usuario. No inicia sesión.
func (m *Manager) Register(ctx context.Context, in auth.RegisterInput) error {
	if err := m.api.Register(ctx, in); err != nil {
		return &AuthError{Message: authMessage(err, genericRegisterFailed)}
	}
	return nil
}

// Logout invoca el endpoint del backend y, gane o falle, limpia el estado
// local. El fallo remoto se loguea y se traga: logout es garantía local.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.api.Logout(ctx); err != nil {
		m.log.Warn("backend logout failed", map[string]any{"error": err.Error()})
	}
	m.clear()
	m.log.Info("logged out", nil)
}

// Invalidate descarta la sesión local sin llamar al backend.
// Lo disparan los controllers al observar un 401 (invalidación lazy).
func (m *Manager) Invalidate() {
	m.clear()
	m.log.Info("session invalidated", nil)
}

func (m *Manager) clear() {
	m.mu.Lock()
	m.token = ""
	m.userName = ""
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.Clear(); err != nil {
			m.log.Warn("clear token store failed", map[string]any{"error": err.Error()})
		}
	}
}

// Token implementa httpclient.TokenSource.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *Manager) IsAuthenticated() bool {
	return m.Token() != ""
}

func (m *Manager) UserName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.userName
}

// authMessage prefiere el mensaje del backend; si no hay, usa el fallback.
func authMessage(err error, fallback string) string {
	var re *httpclient.RequestError
	if errors.As(err, &re) && strings.TrimSpace(re.Message) != "" {
		return re.Message
	}
	return fallback
}

var _ httpclient.TokenSource = (*Manager)(nil)
