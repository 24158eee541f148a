package dashboard

// PetStats es la distribución de mascotas que calcula el backend.
// La consola nunca recomputa estos agregados a partir de registros.
type PetStats struct {
	TotalPets           int
	SpeciesDistribution map[string]int
	BreedDistribution   map[string]int
}

// AppointmentStats resume la actividad de turnos del día/semana.
type AppointmentStats struct {
	Today           int
	CanceledToday   int
	WeeklyTrend     []DayCount
	PopularServices map[string]int
}

type DayCount struct {
	Date  string // YYYY-MM-DD
	Count int
}

// Snapshot es la vista combinada de GET /api/dashboard.
type Snapshot struct {
	TotalPets         int
	ActiveClients     int
	TodayAppointments int
	MedicalRecords    int
}
