package pets

// Gender define el sexo de la mascota.
// @Enum Male, Female
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// Pet es el registro de mascota tal como lo entrega el backend.
// ID es la clave natural (petId) y es la key de las filas en el listado.
type Pet struct {
	ID           string
	PetName      string
	CustomerName string // dueño; inmutable después del alta
	Species      string
	BreedName    string
	Gender       Gender
	Birthday     string // YYYY-MM-DD
	Description  string
	PhotoURL     string
}

// BreedCatalog mapea especie -> razas registradas.
// Es data de referencia read-only; se trae una vez por página.
type BreedCatalog map[string][]string

// BreedsFor devuelve las razas válidas para una especie (nil si no hay).
func (c BreedCatalog) BreedsFor(species string) []string {
	if c == nil {
		return nil
	}
	return c[species]
}

// Contains reporta si breed pertenece a la especie dentro del catálogo.
func (c BreedCatalog) Contains(species, breed string) bool {
	for _, b := range c.BreedsFor(species) {
		if b == breed {
			return true
		}
	}
	return false
}
