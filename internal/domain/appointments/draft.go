package appointments

import "strings"

// Draft es el borrador del form "Create Appointment" de la página de
// mascotas. PetID/PetName los fija el controller desde el target del
// dialog, nunca el form.
type Draft struct {
	PetID           string
	PetName         string
	CustomerName    string
	CustomerEmail   string
	Phone           string
	ServiceType     string
	AppointmentDate string // YYYY-MM-DD
	AppointmentTime string // HH:MM
	Notes           string
}

// EditDraft es el borrador del form de edición: solo fecha, hora,
// servicio y notas son mutables.
type EditDraft struct {
	AppointmentDate string
	AppointmentTime string
	ServiceType     string
	Notes           string
}

// EditDraftFrom arma el borrador de edición desde el turno actual.
func EditDraftFrom(a Appointment) EditDraft {
	return EditDraft{
		AppointmentDate: a.AppointmentDate,
		AppointmentTime: a.AppointmentTime,
		ServiceType:     string(a.ServiceType),
		Notes:           a.Notes,
	}
}

// Validate mapea el borrador a field -> mensaje. Mapa vacío = válido.
func Validate(d Draft) map[string]string {
	return validateFields(d.ServiceType, d.AppointmentDate, d.AppointmentTime)
}

// ValidateEdit valida el borrador de edición con las mismas reglas.
func ValidateEdit(d EditDraft) map[string]string {
	return validateFields(d.ServiceType, d.AppointmentDate, d.AppointmentTime)
}

func validateFields(service, date, timeOfDay string) map[string]string {
	errs := map[string]string{}

	switch strings.TrimSpace(service) {
	case "":
		errs["serviceType"] = "Service type is required"
	default:
		if !validService(strings.TrimSpace(service)) {
			errs["serviceType"] = "Unknown service type"
		}
	}
	if strings.TrimSpace(date) == "" {
		errs["appointmentDate"] = "Date is required"
	}
	if strings.TrimSpace(timeOfDay) == "" {
		errs["appointmentTime"] = "Time is required"
	}

	return errs
}
