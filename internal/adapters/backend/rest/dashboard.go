package rest

import (
	"context"
	"net/http"

	"pet-admin-console/internal/domain/dashboard"
	"pet-admin-console/internal/platform/httpclient"
	"pet-admin-console/internal/platform/logger"
)

// DashboardRepo implementa dashboard.Repository contra /stats/* y
// /api/dashboard. Todo read-only.
type DashboardRepo struct {
	client *httpclient.Client
	log    logger.Logger
}

func NewDashboardRepo(client *httpclient.Client, log logger.Logger) *DashboardRepo {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardRepo{
		client: client,
		log:    log.With(map[string]any{"repo": "dashboard"}),
	}
}

type petStatsDTO struct {
	TotalPets           int            `json:"totalPets"`
	SpeciesDistribution map[string]int `json:"speciesDistribution"`
	BreedDistribution   map[string]int `json:"breedDistribution"`
}

func (r *DashboardRepo) PetStats(ctx context.Context) (dashboard.PetStats, error) {
	var env envelope
	if err := r.client.DoJSON(ctx, http.MethodGet, "/stats/pets", nil, &env); err != nil {
		r.log.Error("fetch pet stats failed", map[string]any{"error": err.Error()})
		return dashboard.PetStats{}, err
	}

	var dto petStatsDTO
	if err := env.unwrapData(&dto); err != nil {
		return dashboard.PetStats{}, err
	}

	return dashboard.PetStats{
		TotalPets:           dto.TotalPets,
		SpeciesDistribution: dto.SpeciesDistribution,
		BreedDistribution:   dto.BreedDistribution,
	}, nil
}

type appointmentStatsDTO struct {
	Today           int            `json:"appointmentsToday"`
	CanceledToday   int            `json:"cancellationsToday"`
	WeeklyTrend     []dayCountDTO  `json:"weeklyTrend"`
	PopularServices map[string]int `json:"popularServices"`
}

type dayCountDTO struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

func (r *DashboardRepo) AppointmentStats(ctx context.Context) (dashboard.AppointmentStats, error) {
	var env envelope
	if err := r.client.DoJSON(ctx, http.MethodGet, "/stats/appointments", nil, &env); err != nil {
		r.log.Error("fetch appointment stats failed", map[string]any{"error": err.Error()})
		return dashboard.AppointmentStats{}, err
	}

	var dto appointmentStatsDTO
	if err := env.unwrapData(&dto); err != nil {
		return dashboard.AppointmentStats{}, err
	}

	trend := make([]dashboard.DayCount, 0, len(dto.WeeklyTrend))
	for _, d := range dto.WeeklyTrend {
		trend = append(trend, dashboard.DayCount{Date: d.Date, Count: d.Count})
	}

	return dashboard.AppointmentStats{
		Today:           dto.Today,
		CanceledToday:   dto.CanceledToday,
		WeeklyTrend:     trend,
		PopularServices: dto.PopularServices,
	}, nil
}

// snapshotDTO viene sin envelope: /api/dashboard responde el body pelado.
type snapshotDTO struct {
	TotalPets         int `json:"totalPets"`
	ActiveClients     int `json:"activeClients"`
	TodayAppointments int `json:"todayAppointments"`
	MedicalRecords    int `json:"medicalRecords"`
}

func (r *DashboardRepo) Snapshot(ctx context.Context) (dashboard.Snapshot, error) {
	var dto snapshotDTO
	if err := r.client.DoJSON(ctx, http.MethodGet, "/api/dashboard", nil, &dto); err != nil {
		r.log.Error("fetch dashboard snapshot failed", map[string]any{"error": err.Error()})
		return dashboard.Snapshot{}, err
	}

	return dashboard.Snapshot{
		TotalPets:         dto.TotalPets,
		ActiveClients:     dto.ActiveClients,
		TodayAppointments: dto.TodayAppointments,
		MedicalRecords:    dto.MedicalRecords,
	}, nil
}

var _ dashboard.Repository = (*DashboardRepo)(nil)
