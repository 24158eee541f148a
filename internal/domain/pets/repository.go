package pets

import (
	"context"

	"pet-admin-console/internal/platform/httpclient"
)

// Repository es lo que el controller necesita del backend de mascotas.
// Lo implementa el adapter REST.
type Repository interface {
	List(ctx context.Context) ([]Pet, error)
	Create(ctx context.Context, d Draft, photo *httpclient.Upload) error
	Update(ctx context.Context, id string, d Draft, photo *httpclient.Upload) error
	Delete(ctx context.Context, id string) error
	GroupedBreeds(ctx context.Context) (BreedCatalog, error)
}
