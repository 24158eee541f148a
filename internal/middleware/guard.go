package middleware

import "net/http"

// Session es lo mínimo que el guard necesita saber de la sesión.
type Session interface {
	IsAuthenticated() bool
}

// LoginPath es a donde aterriza todo intento anónimo de entrar a una
// ruta protegida.
const LoginPath = "/login"

// RequireSession protege un subárbol de rutas: con sesión Anonymous
// redirige a /login; con sesión Authenticated deja pasar.
func RequireSession(sess Session) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sess == nil || !sess.IsAuthenticated() {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
