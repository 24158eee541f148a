package rest

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"pet-admin-console/internal/domain/pets"
	"pet-admin-console/internal/platform/httpclient"
	"pet-admin-console/internal/platform/logger"
)

// PetsRepo implementa pets.Repository contra /pet/* y /pet-breeds/*.
type PetsRepo struct {
	client *httpclient.Client
	log    logger.Logger
}

func NewPetsRepo(client *httpclient.Client, log logger.Logger) *PetsRepo {
	if log == nil {
		log = logger.Nop()
	}
	return &PetsRepo{
		client: client,
		log:    log.With(map[string]any{"repo": "pets"}),
	}
}

// petDTO es el wire format del backend. Algunas respuestas traen la
// clave como "id" y otras como "petId"; se acepta cualquiera.
type petDTO struct {
	ID           string `json:"id"`
	PetID        string `json:"petId"`
	PetName      string `json:"petName"`
	CustomerName string `json:"customerName"`
	Species      string `json:"species"`
	BreedName    string `json:"breedName"`
	Gender       string `json:"gender"`
	Birthday     string `json:"birthday"`
	Description  string `json:"description"`
	PhotoURL     string `json:"photoUrl"`
}

func (d petDTO) naturalKey() string {
	if strings.TrimSpace(d.ID) != "" {
		return strings.TrimSpace(d.ID)
	}
	return strings.TrimSpace(d.PetID)
}

func (d petDTO) toRecord() pets.Pet {
	return pets.Pet{
		ID:           d.naturalKey(),
		PetName:      d.PetName,
		CustomerName: d.CustomerName,
		Species:      d.Species,
		BreedName:    d.BreedName,
		Gender:       pets.Gender(d.Gender),
		Birthday:     d.Birthday,
		Description:  d.Description,
		PhotoURL:     d.PhotoURL,
	}
}

// petInfo es el part "info" de los requests multipart de alta/edición.
type petInfo struct {
	PetName      string `json:"petName"`
	CustomerName string `json:"customerName"`
	Species      string `json:"species"`
	BreedName    string `json:"breedName"`
	Gender       string `json:"gender"`
	Birthday     string `json:"birthday"`
	Description  string `json:"description,omitempty"`
}

func toPetInfo(d pets.Draft) petInfo {
	return petInfo{
		PetName:      strings.TrimSpace(d.PetName),
		CustomerName: strings.TrimSpace(d.CustomerName),
		Species:      strings.TrimSpace(d.Species),
		BreedName:    strings.TrimSpace(d.BreedName),
		Gender:       strings.TrimSpace(d.Gender),
		Birthday:     strings.TrimSpace(d.Birthday),
		Description:  strings.TrimSpace(d.Description),
	}
}

// List trae todas las mascotas. Cada fila debe venir con su clave
// natural: un id vacío o duplicado es una violación de contrato porque
// las vistas keyean por id.
func (r *PetsRepo) List(ctx context.Context) ([]pets.Pet, error) {
	var env envelope
	if err := r.client.DoJSON(ctx, http.MethodGet, "/pet/list", nil, &env); err != nil {
		r.log.Error("list pets failed", map[string]any{"error": err.Error()})
		return nil, err
	}

	var dtos []petDTO
	if err := env.unwrapData(&dtos); err != nil {
		return nil, err
	}

	out := make([]pets.Pet, 0, len(dtos))
	seen := make(map[string]bool, len(dtos))
	for _, d := range dtos {
		key := d.naturalKey()
		if key == "" {
			return nil, fmt.Errorf("rest: pet list row %q has no id", d.PetName)
		}
		if seen[key] {
			return nil, fmt.Errorf("rest: duplicate pet id %q in list", key)
		}
		seen[key] = true
		out = append(out, d.toRecord())
	}
	return out, nil
}

func (r *PetsRepo) Create(ctx context.Context, d pets.Draft, photo *httpclient.Upload) error {
	err := r.client.DoMultipart(ctx, http.MethodPost, "/pet/add", toPetInfo(d), photo, nil)
	if err != nil {
		r.log.Error("add pet failed", map[string]any{"error": err.Error()})
		return err
	}
	return nil
}

func (r *PetsRepo) Update(ctx context.Context, id string, d pets.Draft, photo *httpclient.Upload) error {
	err := r.client.DoMultipart(ctx, http.MethodPut, "/pet/update/"+id, toPetInfo(d), photo, nil)
	if err != nil {
		if httpclient.IsNotFound(err) {
			return fmt.Errorf("pet %s: %w: %w", id, ErrNotFound, err)
		}
		r.log.Error("update pet failed", map[string]any{"id": id, "error": err.Error()})
		return err
	}
	return nil
}

func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	err := r.client.DoJSON(ctx, http.MethodDelete, "/pet/delete/"+id, nil, nil)
	if err != nil {
		if httpclient.IsNotFound(err) {
			return fmt.Errorf("pet %s: %w: %w", id, ErrNotFound, err)
		}
		r.log.Error("delete pet failed", map[string]any{"id": id, "error": err.Error()})
		return err
	}
	return nil
}

// breedGroupDTO es una fila de GET /pet-breeds/grouped.
type breedGroupDTO struct {
	Species string   `json:"species"`
	Breeds  []string `json:"breeds"`
}

func (r *PetsRepo) GroupedBreeds(ctx context.Context) (pets.BreedCatalog, error) {
	var env envelope
	if err := r.client.DoJSON(ctx, http.MethodGet, "/pet-breeds/grouped", nil, &env); err != nil {
		r.log.Error("fetch breeds failed", map[string]any{"error": err.Error()})
		return nil, err
	}

	var groups []breedGroupDTO
	if err := env.unwrapData(&groups); err != nil {
		return nil, err
	}

	catalog := make(pets.BreedCatalog, len(groups))
	for _, g := range groups {
		if strings.TrimSpace(g.Species) == "" {
			continue
		}
		catalog[g.Species] = g.Breeds
	}
	return catalog, nil
}

var _ pets.Repository = (*PetsRepo)(nil)
