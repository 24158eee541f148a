package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"pet-admin-console/internal/domain/appointments"
	"pet-admin-console/internal/domain/dashboard"
	"pet-admin-console/internal/domain/pets"
	"pet-admin-console/internal/middleware"
	"pet-admin-console/internal/notify"
	"pet-admin-console/internal/session"
)

type Options struct {
	Session      *session.Manager
	Pets         *pets.Controller
	Appointments *appointments.Controller
	Dashboard    *dashboard.Controller

	// Notifications es el sink que drenan los clientes del gateway
	// (el snackbar de la consola). Opcional.
	Notifications *notify.Memory
}

// NewRouter arma el gateway local de la consola. Las rutas de auth son
// públicas; todo lo demás queda detrás del guard de sesión.
func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	session.RegisterRoutes(r, opts.Session)

	// Páginas protegidas
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireSession(opts.Session))

		// Default page: la raíz aterriza en el dashboard.
		pr.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		})

		dashboard.RegisterRoutes(pr, opts.Dashboard)
		pets.RegisterRoutes(pr, opts.Pets)
		appointments.RegisterRoutes(pr, opts.Appointments)

		if opts.Notifications != nil {
			pr.Get("/notifications", notificationsHandler(opts.Notifications))
		}
	})

	// Paths desconocidos: anónimo va al login; autenticado recibe 404.
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		if opts.Session == nil || !opts.Session.IsAuthenticated() {
			http.Redirect(w, req, middleware.LoginPath, http.StatusSeeOther)
			return
		}
		http.Error(w, "page not found", http.StatusNotFound)
	})

	return r
}

// @Summary Drenar notificaciones transitorias pendientes
func notificationsHandler(n *notify.Memory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		type item struct {
			Severity string `json:"severity"`
			Message  string `json:"message"`
		}

		pending := n.Drain()
		out := make([]item, 0, len(pending))
		for _, p := range pending {
			out = append(out, item{Severity: string(p.Severity), Message: p.Message})
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}
