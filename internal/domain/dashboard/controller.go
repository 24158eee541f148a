package dashboard

import (
	"context"
	"errors"
	"sync"

	"pet-admin-console/internal/notify"
	"pet-admin-console/internal/platform/httpclient"
	"pet-admin-console/internal/platform/logger"
)

// State es el snapshot del dashboard para la vista. Todo es derivado
// server-side; acá solo se exhibe.
type State struct {
	Snapshot         Snapshot
	PetStats         PetStats
	AppointmentStats AppointmentStats
	Loading          bool
	Err              error
}

type Deps struct {
	Repo     Repository
	Notifier notify.Notifier
	Log      logger.Logger

	OnUnauthorized func()
}

// Controller del dashboard: solo lectura, sin dialogs.
type Controller struct {
	repo           Repository
	notif          notify.Notifier
	log            logger.Logger
	onUnauthorized func()

	mu       sync.Mutex
	state    State
	fetchSeq uint64
}

func NewController(d Deps) *Controller {
	log := d.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{
		repo:           d.Repo,
		notif:          d.Notifier,
		log:            log.With(map[string]any{"page": "dashboard"}),
		onUnauthorized: d.OnUnauthorized,
	}
}

func (c *Controller) Activate(ctx context.Context) {
	c.Refresh(ctx)
}

// Refresh trae el snapshot combinado y las dos stats. Guard de
// secuencia igual que en las páginas de listado.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.fetchSeq++
	seq := c.fetchSeq
	c.state.Loading = true
	c.mu.Unlock()

	snapshot, errSnap := c.repo.Snapshot(ctx)
	petStats, errPets := c.repo.PetStats(ctx)
	apptStats, errAppts := c.repo.AppointmentStats(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.fetchSeq {
		return
	}
	c.state.Loading = false

	if err := errors.Join(errSnap, errPets, errAppts); err != nil {
		// Las cifras previas quedan visibles.
		c.state.Err = err
		c.report("Failed to fetch dashboard data", err)
		return
	}

	c.state.Snapshot = snapshot
	c.state.PetStats = petStats
	c.state.AppointmentStats = apptStats
	c.state.Err = nil
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) report(prefix string, err error) {
	c.log.Error(prefix, map[string]any{"error": err.Error()})
	if c.notif != nil {
		c.notif.Error(prefix)
	}
	if httpclient.IsUnauthorized(err) && c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}
