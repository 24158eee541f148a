package appointments

// ServiceType define el set cerrado de servicios agendables.
// @Enum Check-up, Vaccination, Grooming, Surgery, Dental, Other
type ServiceType string

const (
	ServiceCheckUp     ServiceType = "Check-up"
	ServiceVaccination ServiceType = "Vaccination"
	ServiceGrooming    ServiceType = "Grooming"
	ServiceSurgery     ServiceType = "Surgery"
	ServiceDental      ServiceType = "Dental"
	ServiceOther       ServiceType = "Other"
)

// ServiceTypes lista los servicios válidos (para selects y validación).
func ServiceTypes() []ServiceType {
	return []ServiceType{
		ServiceCheckUp,
		ServiceVaccination,
		ServiceGrooming,
		ServiceSurgery,
		ServiceDental,
		ServiceOther,
	}
}

func validService(s string) bool {
	for _, st := range ServiceTypes() {
		if string(st) == s {
			return true
		}
	}
	return false
}

// Status del turno. La cancelación es una transición de estado,
// no un borrado de fila, y es irreversible desde la consola.
type Status string

const (
	StatusScheduled Status = "Scheduled"
	StatusCompleted Status = "Completed"
	StatusCanceled  Status = "Canceled"
)

// Appointment es el turno tal como lo entrega el backend.
// ID es la clave natural (appointmentId).
type Appointment struct {
	ID              string
	AppointmentDate string // YYYY-MM-DD
	AppointmentTime string // HH:MM
	CustomerName    string
	CustomerEmail   string
	Phone           string
	PetID           string // binding inmutable desde la creación
	PetName         string
	ServiceType     ServiceType
	Notes           string
	Status          Status
}
