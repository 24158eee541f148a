package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pet-admin-console/internal/platform/httpclient"
)

// RegisterRoutes publica la página de turnos en el gateway.
func RegisterRoutes(r chi.Router, c *Controller) {
	r.Route("/appointments", func(ar chi.Router) {
		ar.Get("/", listAppointmentsHandler(c))
		ar.Put("/{appointmentID}", editAppointmentHandler(c))
		ar.Post("/{appointmentID}/cancel", cancelAppointmentHandler(c))
	})
}

type appointmentResponse struct {
	ID              string `json:"id"`
	AppointmentDate string `json:"appointmentDate"`
	AppointmentTime string `json:"appointmentTime"`
	CustomerName    string `json:"customerName"`
	Phone           string `json:"phone,omitempty"`
	PetID           string `json:"petId"`
	PetName         string `json:"petName"`
	ServiceType     string `json:"serviceType"`
	Notes           string `json:"notes,omitempty"`
	Status          string `json:"status"`
}

type pageResponse struct {
	Records []appointmentResponse `json:"records"`
	Loading bool                  `json:"loading"`
	Error   string                `json:"error,omitempty"`
}

func toAppointmentResponse(a Appointment) appointmentResponse {
	return appointmentResponse{
		ID:              a.ID,
		AppointmentDate: a.AppointmentDate,
		AppointmentTime: a.AppointmentTime,
		CustomerName:    a.CustomerName,
		Phone:           a.Phone,
		PetID:           a.PetID,
		PetName:         a.PetName,
		ServiceType:     string(a.ServiceType),
		Notes:           a.Notes,
		Status:          string(a.Status),
	}
}

func toPageResponse(s State) pageResponse {
	records := make([]appointmentResponse, 0, len(s.Records))
	for _, a := range s.Records {
		records = append(records, toAppointmentResponse(a))
	}
	out := pageResponse{Records: records, Loading: s.Loading}
	if s.Err != nil {
		out.Error = s.Err.Error()
	}
	return out
}

// @Summary Listar turnos (activa la página: fetch fresco)
func listAppointmentsHandler(c *Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c.Activate(r.Context())
		writeJSON(w, http.StatusOK, toPageResponse(c.State()))
	}
}

type editAppointmentRequest struct {
	AppointmentDate string `json:"appointmentDate"`
	AppointmentTime string `json:"appointmentTime"`
	ServiceType     string `json:"serviceType"`
	Notes           string `json:"notes"`
}

// @Summary Editar un turno (solo fecha, hora, servicio y notas)
func editAppointmentHandler(c *Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, ok := findAppointment(c, chi.URLParam(r, "appointmentID"))
		if !ok {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}

		var req editAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		c.OpenEdit(target)
		fieldErrs, err := c.SubmitEdit(r.Context(), EditDraft{
			AppointmentDate: req.AppointmentDate,
			AppointmentTime: req.AppointmentTime,
			ServiceType:     req.ServiceType,
			Notes:           req.Notes,
		})
		if len(fieldErrs) > 0 {
			c.CloseDialog()
			writeJSON(w, http.StatusBadRequest, map[string]any{"errors": fieldErrs})
			return
		}
		if err != nil {
			c.CloseDialog()
			writeRepoError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPageResponse(c.State()))
	}
}

// @Summary Cancelar un turno (transición de estado, nunca delete)
func cancelAppointmentHandler(c *Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, ok := findAppointment(c, chi.URLParam(r, "appointmentID"))
		if !ok {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}
		if target.Status == StatusCanceled {
			http.Error(w, "appointment already canceled", http.StatusConflict)
			return
		}

		c.OpenCancelConfirm(target)
		if err := c.ConfirmCancel(r.Context()); err != nil {
			c.CloseDialog()
			writeRepoError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPageResponse(c.State()))
	}
}

func findAppointment(c *Controller, id string) (Appointment, bool) {
	id = strings.TrimSpace(id)
	for _, a := range c.State().Records {
		if a.ID == id {
			return a, true
		}
	}
	return Appointment{}, false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeRepoError traduce errores del repo a una respuesta del gateway:
// el status y mensaje del backend cuando hay, 502 como fallback.
func writeRepoError(w http.ResponseWriter, err error) {
	var re *httpclient.RequestError
	if errors.As(err, &re) {
		writeJSON(w, re.StatusCode, map[string]any{"message": userMessage(err)})
		return
	}
	writeJSON(w, http.StatusBadGateway, map[string]any{"message": err.Error()})
}
