package dashboard

import "context"

// Repository trae los agregados read-only del backend.
type Repository interface {
	PetStats(ctx context.Context) (PetStats, error)
	AppointmentStats(ctx context.Context) (AppointmentStats, error)
	Snapshot(ctx context.Context) (Snapshot, error)
}
