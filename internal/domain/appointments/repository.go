package appointments

import "context"

// UpdateInput es un update parcial: nil = no tocar el campo.
type UpdateInput struct {
	AppointmentDate *string
	AppointmentTime *string
	ServiceType     *string
	Notes           *string
	Status          *Status
}

// Repository es lo que los controllers necesitan del backend de turnos.
// No hay Delete: el borrado duro quedó deprecado, cancelar es un
// Update con Status=Canceled.
type Repository interface {
	List(ctx context.Context) ([]Appointment, error)
	Create(ctx context.Context, d Draft) error
	Update(ctx context.Context, id string, in UpdateInput) error
}
