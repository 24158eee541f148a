package pets

import "strings"

// Draft es el borrador del form de alta/edición de mascota.
type Draft struct {
	PetName      string
	CustomerName string
	Species      string
	BreedName    string
	Gender       string
	Birthday     string // YYYY-MM-DD
	Description  string
}

// SetSpecies cambia la especie y SIEMPRE limpia la raza: la validez de la
// raza es condicional a la especie, así que una selección vieja nunca
// puede quedar en el borrador.
func (d *Draft) SetSpecies(species string) {
	species = strings.TrimSpace(species)
	if species == d.Species {
		return
	}
	d.Species = species
	d.BreedName = ""
}

// DraftFrom arma el borrador de edición a partir del registro actual.
func DraftFrom(p Pet) Draft {
	return Draft{
		PetName:      p.PetName,
		CustomerName: p.CustomerName,
		Species:      p.Species,
		BreedName:    p.BreedName,
		Gender:       string(p.Gender),
		Birthday:     p.Birthday,
		Description:  p.Description,
	}
}
