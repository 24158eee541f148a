package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes publica el dashboard en el gateway.
func RegisterRoutes(r chi.Router, c *Controller) {
	r.Get("/dashboard", dashboardHandler(c))
}

type dashboardResponse struct {
	TotalPets         int `json:"totalPets"`
	ActiveClients     int `json:"activeClients"`
	TodayAppointments int `json:"todayAppointments"`
	MedicalRecords    int `json:"medicalRecords"`

	SpeciesDistribution map[string]int `json:"speciesDistribution,omitempty"`
	BreedDistribution   map[string]int `json:"breedDistribution,omitempty"`
	CancellationsToday  int            `json:"cancellationsToday"`
	WeeklyTrend         []DayCount     `json:"weeklyTrend,omitempty"`
	PopularServices     map[string]int `json:"popularServices,omitempty"`

	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// @Summary Agregados del dashboard (todo derivado server-side)
func dashboardHandler(c *Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c.Activate(r.Context())
		s := c.State()

		out := dashboardResponse{
			TotalPets:           s.Snapshot.TotalPets,
			ActiveClients:       s.Snapshot.ActiveClients,
			TodayAppointments:   s.Snapshot.TodayAppointments,
			MedicalRecords:      s.Snapshot.MedicalRecords,
			SpeciesDistribution: s.PetStats.SpeciesDistribution,
			BreedDistribution:   s.PetStats.BreedDistribution,
			CancellationsToday:  s.AppointmentStats.CanceledToday,
			WeeklyTrend:         s.AppointmentStats.WeeklyTrend,
			PopularServices:     s.AppointmentStats.PopularServices,
			Loading:             s.Loading,
		}
		if s.Err != nil {
			out.Error = s.Err.Error()
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
