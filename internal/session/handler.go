package session

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pet-admin-console/internal/ports/auth"
)

// RegisterRoutes publica las rutas de autenticación del gateway.
// Son las únicas rutas alcanzables sin sesión.
func RegisterRoutes(r chi.Router, m *Manager) {
	r.Get("/login", loginPageHandler(m))
	r.Post("/login", loginHandler(m))
	r.Post("/register", registerHandler(m))
	r.Post("/logout", logoutHandler(m))
	r.Get("/session", sessionHandler(m))
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	UserName      string `json:"userName,omitempty"`
}

// @Summary Página de login (estado para el shell de la consola)
func loginPageHandler(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"page":          "login",
			"authenticated": m.IsAuthenticated(),
		})
	}
}

// @Summary Iniciar sesión contra el backend
func loginHandler(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if errs := auth.ValidateLogin(req.Username, req.Password); len(errs) > 0 {
			writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
			return
		}

		name, err := m.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			// El mensaje ya viene normalizado por el Manager.
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, sessionResponse{Authenticated: true, UserName: name})
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// @Summary Registrar usuario de staff
func registerHandler(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := auth.RegisterInput{
			Username: req.Username,
			Password: req.Password,
			FullName: req.FullName,
			Email:    req.Email,
			Phone:    req.Phone,
		}
		if errs := auth.ValidateRegister(in); len(errs) > 0 {
			writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
			return
		}

		if err := m.Register(r.Context(), in); err != nil {
			writeJSON(w, http.StatusBadGateway, map[string]any{"message": err.Error()})
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{"registered": true})
	}
}

// @Summary Cerrar sesión (siempre limpia local)
func logoutHandler(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.Logout(r.Context())
		writeJSON(w, http.StatusOK, sessionResponse{Authenticated: false})
	}
}

// @Summary Estado actual de la sesión
func sessionHandler(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sessionResponse{
			Authenticated: m.IsAuthenticated(),
			UserName:      m.UserName(),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
