package pets

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pet-admin-console/internal/domain/appointments"
	"pet-admin-console/internal/platform/httpclient"
)

const maxUploadSize = 8 << 20 // 8MB para la foto de perfil

// RegisterRoutes publica la página de mascotas en el gateway.
func RegisterRoutes(r chi.Router, c *Controller) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Get("/", listPetsHandler(c))
		pr.Post("/", addPetHandler(c))
		pr.Put("/{petID}", editPetHandler(c))
		pr.Delete("/{petID}", deletePetHandler(c))
		pr.Post("/{petID}/appointments", createAppointmentHandler(c))
	})
}

type petResponse struct {
	ID           string `json:"id"`
	PetName      string `json:"petName"`
	CustomerName string `json:"customerName"`
	Species      string `json:"species"`
	BreedName    string `json:"breedName"`
	Gender       string `json:"gender"`
	Birthday     string `json:"birthday"`
	Description  string `json:"description,omitempty"`
	PhotoURL     string `json:"photoUrl,omitempty"`
}

type pageResponse struct {
	Records []petResponse       `json:"records"`
	Catalog map[string][]string `json:"breedCatalog"`
	Loading bool                `json:"loading"`
	Error   string              `json:"error,omitempty"`
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:           p.ID,
		PetName:      p.PetName,
		CustomerName: p.CustomerName,
		Species:      p.Species,
		BreedName:    p.BreedName,
		Gender:       string(p.Gender),
		Birthday:     p.Birthday,
		Description:  p.Description,
		PhotoURL:     p.PhotoURL,
	}
}

func toPageResponse(s State) pageResponse {
	records := make([]petResponse, 0, len(s.Records))
	for _, p := range s.Records {
		records = append(records, toPetResponse(p))
	}
	out := pageResponse{
		Records: records,
		Catalog: s.Catalog,
		Loading: s.Loading,
	}
	if s.Err != nil {
		out.Error = s.Err.Error()
	}
	return out
}

// @Summary Listar mascotas (activa la página: fetch fresco)
func listPetsHandler(c *Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c.Activate(r.Context())
		writeJSON(w, http.StatusOK, toPageResponse(c.State()))
	}
}

// @Summary Dar de alta una mascota (multipart con foto opcional, o JSON)
func addPetHandler(c *Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		draft, photo, err := decodePetForm(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		c.OpenAdd()
		fieldErrs, err := c.SubmitAdd(r.Context(), draft, photo)
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

		writeJSON(w, http.StatusCreated, toPageResponse(c.State()))
	}
}

// @Summary Editar una mascota (el dueño es inmutable)
func editPetHandler(c *Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, ok := findPet(c, chi.URLParam(r, "petID"))
		if !ok {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}

		draft, photo, err := decodePetForm(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		c.OpenEdit(target)
		fieldErrs, err := c.SubmitEdit(r.Context(), draft, photo)
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

// @Summary Borrar una mascota (el confirm ya ocurrió en el browser)
func deletePetHandler(c *Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, ok := findPet(c, chi.URLParam(r, "petID"))
		if !ok {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}

		c.OpenDeleteConfirm(target)
		if err := c.ConfirmDelete(r.Context()); err != nil {
			c.CloseDialog()
			writeRepoError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPageResponse(c.State()))
	}
}

type createAppointmentRequest struct {
	CustomerName    string `json:"customerName"`
	CustomerEmail   string `json:"customerEmail"`
	Phone           string `json:"phone"`
	ServiceType     string `json:"serviceType"`
	AppointmentDate string `json:"appointmentDate"`
	AppointmentTime string `json:"appointmentTime"`
	Notes           string `json:"notes"`
}

// @Summary Agendar un turno para una mascota (binding inmutable)
func createAppointmentHandler(c *Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, ok := findPet(c, chi.URLParam(r, "petID"))
		if !ok {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}

		var req createAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		c.OpenCreateAppointment(target)
		fieldErrs, err := c.SubmitCreateAppointment(r.Context(), appointments.Draft{
			CustomerName:    req.CustomerName,
			CustomerEmail:   req.CustomerEmail,
			Phone:           req.Phone,
			ServiceType:     req.ServiceType,
			AppointmentDate: req.AppointmentDate,
			AppointmentTime: req.AppointmentTime,
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

		writeJSON(w, http.StatusCreated, map[string]any{"created": true})
	}
}

func findPet(c *Controller, id string) (Pet, bool) {
	id = strings.TrimSpace(id)
	for _, p := range c.State().Records {
		if p.ID == id {
			return p, true
		}
	}
	return Pet{}, false
}

// decodePetForm acepta multipart/form-data (form + foto opcional) o
// un body JSON sin foto.
func decodePetForm(r *http.Request) (Draft, *httpclient.Upload, error) {
	ct := r.Header.Get("Content-Type")

	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			return Draft{}, nil, errors.New("invalid multipart form")
		}

		d := Draft{
			PetName:      r.FormValue("petName"),
			CustomerName: r.FormValue("customerName"),
			Species:      r.FormValue("species"),
			BreedName:    r.FormValue("breedName"),
			Gender:       r.FormValue("gender"),
			Birthday:     r.FormValue("birthday"),
			Description:  r.FormValue("description"),
		}

		file, header, err := r.FormFile("photo")
		if err == http.ErrMissingFile {
			return d, nil, nil
		}
		if err != nil {
			return Draft{}, nil, errors.New("invalid photo upload")
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
		if err != nil {
			return Draft{}, nil, errors.New("failed to read photo upload")
		}

		return d, &httpclient.Upload{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		}, nil
	}

	var req struct {
		PetName      string `json:"petName"`
		CustomerName string `json:"customerName"`
		Species      string `json:"species"`
		BreedName    string `json:"breedName"`
		Gender       string `json:"gender"`
		Birthday     string `json:"birthday"`
		Description  string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return Draft{}, nil, errors.New("invalid json")
	}

	return Draft{
		PetName:      req.PetName,
		CustomerName: req.CustomerName,
		Species:      req.Species,
		BreedName:    req.BreedName,
		Gender:       req.Gender,
		Birthday:     req.Birthday,
		Description:  req.Description,
	}, nil, nil
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
