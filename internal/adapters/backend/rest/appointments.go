package rest

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"pet-admin-console/internal/domain/appointments"
	"pet-admin-console/internal/platform/httpclient"
	"pet-admin-console/internal/platform/logger"
)

// AppointmentsRepo implementa appointments.Repository contra
// /appointments/*. No expone el DELETE del backend: cancelar es un
// update de status.
type AppointmentsRepo struct {
	client *httpclient.Client
	log    logger.Logger
}

func NewAppointmentsRepo(client *httpclient.Client, log logger.Logger) *AppointmentsRepo {
	if log == nil {
		log = logger.Nop()
	}
	return &AppointmentsRepo{
		client: client,
		log:    log.With(map[string]any{"repo": "appointments"}),
	}
}

type appointmentDTO struct {
	ID              string `json:"id"`
	AppointmentID   string `json:"appointmentId"`
	AppointmentDate string `json:"appointmentDate"`
	AppointmentTime string `json:"appointmentTime"`
	CustomerName    string `json:"customerName"`
	CustomerEmail   string `json:"customerEmail"`
	Phone           string `json:"phone"`
	PetID           string `json:"petId"`
	PetName         string `json:"petName"`
	ServiceType     string `json:"serviceType"`
	Notes           string `json:"notes"`
	Status          string `json:"status"`
}

func (d appointmentDTO) naturalKey() string {
	if strings.TrimSpace(d.ID) != "" {
		return strings.TrimSpace(d.ID)
	}
	return strings.TrimSpace(d.AppointmentID)
}

func (d appointmentDTO) toRecord() appointments.Appointment {
	return appointments.Appointment{
		ID:              d.naturalKey(),
		AppointmentDate: d.AppointmentDate,
		AppointmentTime: d.AppointmentTime,
		CustomerName:    d.CustomerName,
		CustomerEmail:   d.CustomerEmail,
		Phone:           d.Phone,
		PetID:           d.PetID,
		PetName:         d.PetName,
		ServiceType:     appointments.ServiceType(d.ServiceType),
		Notes:           d.Notes,
		Status:          appointments.Status(d.Status),
	}
}

// List trae todos los turnos, con el mismo contrato de clave natural
// que el listado de mascotas.
func (r *AppointmentsRepo) List(ctx context.Context) ([]appointments.Appointment, error) {
	var env envelope
	if err := r.client.DoJSON(ctx, http.MethodGet, "/appointments/list", nil, &env); err != nil {
		r.log.Error("list appointments failed", map[string]any{"error": err.Error()})
		return nil, err
	}

	var dtos []appointmentDTO
	if err := env.unwrapData(&dtos); err != nil {
		return nil, err
	}

	out := make([]appointments.Appointment, 0, len(dtos))
	seen := make(map[string]bool, len(dtos))
	for _, d := range dtos {
		key := d.naturalKey()
		if key == "" {
			return nil, fmt.Errorf("rest: appointment list row for pet %q has no id", d.PetName)
		}
		if seen[key] {
			return nil, fmt.Errorf("rest: duplicate appointment id %q in list", key)
		}
		seen[key] = true
		out = append(out, d.toRecord())
	}
	return out, nil
}

type createAppointmentRequest struct {
	PetID           string `json:"petId"`
	PetName         string `json:"petName"`
	CustomerName    string `json:"customerName"`
	CustomerEmail   string `json:"customerEmail,omitempty"`
	Phone           string `json:"phone,omitempty"`
	ServiceType     string `json:"serviceType"`
	AppointmentDate string `json:"appointmentDate"`
	AppointmentTime string `json:"appointmentTime"`
	Notes           string `json:"notes,omitempty"`
}

func (r *AppointmentsRepo) Create(ctx context.Context, d appointments.Draft) error {
	req := createAppointmentRequest{
		PetID:           strings.TrimSpace(d.PetID),
		PetName:         strings.TrimSpace(d.PetName),
		CustomerName:    strings.TrimSpace(d.CustomerName),
		CustomerEmail:   strings.TrimSpace(d.CustomerEmail),
		Phone:           strings.TrimSpace(d.Phone),
		ServiceType:     strings.TrimSpace(d.ServiceType),
		AppointmentDate: strings.TrimSpace(d.AppointmentDate),
		AppointmentTime: strings.TrimSpace(d.AppointmentTime),
		Notes:           strings.TrimSpace(d.Notes),
	}
	if err := r.client.DoJSON(ctx, http.MethodPost, "/appointments/add", req, nil); err != nil {
		r.log.Error("create appointment failed", map[string]any{"error": err.Error()})
		return err
	}
	return nil
}

// updateAppointmentRequest es un update parcial: los campos nil no
// viajan en el body.
type updateAppointmentRequest struct {
	AppointmentDate *string `json:"appointmentDate,omitempty"`
	AppointmentTime *string `json:"appointmentTime,omitempty"`
	ServiceType     *string `json:"serviceType,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	Status          *string `json:"status,omitempty"`
}

func (r *AppointmentsRepo) Update(ctx context.Context, id string, in appointments.UpdateInput) error {
	req := updateAppointmentRequest{
		AppointmentDate: in.AppointmentDate,
		AppointmentTime: in.AppointmentTime,
		ServiceType:     in.ServiceType,
		Notes:           in.Notes,
	}
	if in.Status != nil {
		s := string(*in.Status)
		req.Status = &s
	}

	if err := r.client.DoJSON(ctx, http.MethodPut, "/appointments/update/"+id, req, nil); err != nil {
		if httpclient.IsNotFound(err) {
			return fmt.Errorf("appointment %s: %w: %w", id, ErrNotFound, err)
		}
		r.log.Error("update appointment failed", map[string]any{"id": id, "error": err.Error()})
		return err
	}
	return nil
}

var _ appointments.Repository = (*AppointmentsRepo)(nil)
