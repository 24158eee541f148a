package pets

import (
	"strings"
	"time"
)

// Mode distingue alta de edición: en edición el dueño es inmutable
// y no se valida.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// Validate es puro y síncrono: mapea el borrador a field -> mensaje.
// Mapa vacío = borrador válido. Nada de esto toca la red.
func Validate(d Draft, mode Mode, catalog BreedCatalog) map[string]string {
	errs := map[string]string{}

	if strings.TrimSpace(d.PetName) == "" {
		errs["petName"] = "Pet name is required"
	}
	if mode == ModeCreate && strings.TrimSpace(d.CustomerName) == "" {
		errs["customerName"] = "Owner name is required"
	}
	if strings.TrimSpace(d.Species) == "" {
		errs["species"] = "Species is required"
	}
	if strings.TrimSpace(d.BreedName) == "" {
		errs["breedName"] = "Breed is required"
	} else if catalog != nil && strings.TrimSpace(d.Species) != "" &&
		!catalog.Contains(strings.TrimSpace(d.Species), strings.TrimSpace(d.BreedName)) {
		errs["breedName"] = "Breed does not belong to the selected species"
	}

	switch strings.TrimSpace(d.Gender) {
	case "":
		errs["gender"] = "Gender is required"
	case string(GenderMale), string(GenderFemale):
	default:
		errs["gender"] = "Gender must be Male or Female"
	}

	if strings.TrimSpace(d.Birthday) == "" {
		errs["birthday"] = "Birthday is required"
	} else if _, err := time.Parse("2006-01-02", strings.TrimSpace(d.Birthday)); err != nil {
		errs["birthday"] = "Birthday must be YYYY-MM-DD"
	}

	return errs
}
