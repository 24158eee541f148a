package appointments

import (
	"context"
	"errors"
	"sync"

	"pet-admin-console/internal/notify"
	"pet-admin-console/internal/platform/httpclient"
	"pet-admin-console/internal/platform/logger"
)

// DialogKind identifica el dialog activo de la página de turnos.
// A lo sumo uno activo: abrir otro reemplaza al anterior.
type DialogKind int

const (
	DialogNone DialogKind = iota
	DialogDetails
	DialogEdit
	DialogCancelConfirm
)

// Dialog es el dialog activo con su turno target.
type Dialog struct {
	Kind   DialogKind
	Target Appointment
}

// State es el snapshot que lee la capa de presentación.
type State struct {
	Records []Appointment
	Loading bool
	Err     error
	Dialog  Dialog
}

type Deps struct {
	Repo     Repository
	Notifier notify.Notifier
	Log      logger.Logger

	// OnUnauthorized se dispara cuando un request clasifica como 401
	// (invalidación lazy de la sesión).
	OnUnauthorized func()
}

// Controller es el dueño de la colección en memoria de turnos y del
// estado transitorio de la página. El backend es la fuente de verdad:
// después de cada mutación exitosa se re-fetchea la lista completa,
// nunca se parchea localmente.
type Controller struct {
	repo           Repository
	notif          notify.Notifier
	log            logger.Logger
	onUnauthorized func()

	mu       sync.Mutex
	records  []Appointment
	loading  bool
	lastErr  error
	fetchSeq uint64
	dialog   Dialog
}

func NewController(d Deps) *Controller {
	log := d.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{
		repo:           d.Repo,
		notif:          d.Notifier,
		log:            log.With(map[string]any{"page": "appointments"}),
		onUnauthorized: d.OnUnauthorized,
	}
}

// Activate corre el fetch inicial al entrar a la página.
func (c *Controller) Activate(ctx context.Context) {
	c.Refresh(ctx)
}

// Refresh re-ejecuta List(). Es el ÚNICO mecanismo por el que la vista
// observa el efecto de un create/update/cancel. Guard de secuencia:
// una respuesta de un fetch superado se descarta.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.fetchSeq++
	seq := c.fetchSeq
	c.loading = true
	c.mu.Unlock()

	records, err := c.repo.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.fetchSeq {
		// Un Refresh más nuevo ya está en vuelo; esta respuesta es vieja.
		return
	}
	c.loading = false

	if err != nil {
		// Los datos previos quedan visibles (stale-but-available).
		c.lastErr = err
		c.report("Failed to fetch appointments", err)
		return
	}
	c.records = records
	c.lastErr = nil
}

// State devuelve un snapshot consistente para la vista.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	records := make([]Appointment, len(c.records))
	copy(records, c.records)

	return State{
		Records: records,
		Loading: c.loading,
		Err:     c.lastErr,
		Dialog:  c.dialog,
	}
}

func (c *Controller) OpenDetails(a Appointment) { c.setDialog(Dialog{Kind: DialogDetails, Target: a}) }
func (c *Controller) OpenEdit(a Appointment)    { c.setDialog(Dialog{Kind: DialogEdit, Target: a}) }

func (c *Controller) CloseDialog() { c.setDialog(Dialog{}) }

func (c *Controller) setDialog(d Dialog) {
	c.mu.Lock()
	c.dialog = d
	c.mu.Unlock()
}

// OpenCancelConfirm abre el paso de confirmación. Un turno ya cancelado
// no se puede volver a cancelar.
func (c *Controller) OpenCancelConfirm(a Appointment) {
	if a.Status == StatusCanceled {
		return
	}
	c.setDialog(Dialog{Kind: DialogCancelConfirm, Target: a})
}

// DeclineCancel cierra solo la confirmación; nada más cambia.
func (c *Controller) DeclineCancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dialog.Kind == DialogCancelConfirm {
		c.dialog = Dialog{}
	}
}

// ConfirmCancel ejecuta la cancelación del turno target: un Update con
// Status=Canceled (nunca un delete). El estado final de la fila lo
// decide el backend vía el Refresh posterior.
func (c *Controller) ConfirmCancel(ctx context.Context) error {
	c.mu.Lock()
	if c.dialog.Kind != DialogCancelConfirm {
		c.mu.Unlock()
		return errors.New("no cancellation pending")
	}
	target := c.dialog.Target
	c.mu.Unlock()

	canceled := StatusCanceled
	if err := c.repo.Update(ctx, target.ID, UpdateInput{Status: &canceled}); err != nil {
		c.report("Failed to cancel appointment", err)
		return err
	}

	c.setDialog(Dialog{})
	if c.notif != nil {
		c.notif.Success("Appointment canceled")
	}
	c.Refresh(ctx)
	return nil
}

// SubmitEdit valida y envía la edición del turno target (solo fecha,
// hora, servicio y notas). Si el validador reporta errores no se emite
// ningún request.
func (c *Controller) SubmitEdit(ctx context.Context, d EditDraft) (map[string]string, error) {
	c.mu.Lock()
	if c.dialog.Kind != DialogEdit {
		c.mu.Unlock()
		return nil, errors.New("no appointment being edited")
	}
	target := c.dialog.Target
	c.mu.Unlock()

	if errs := ValidateEdit(d); len(errs) > 0 {
		return errs, nil
	}

	in := UpdateInput{
		AppointmentDate: &d.AppointmentDate,
		AppointmentTime: &d.AppointmentTime,
		ServiceType:     &d.ServiceType,
		Notes:           &d.Notes,
	}
	if err := c.repo.Update(ctx, target.ID, in); err != nil {
		c.report("Failed to update appointment", err)
		return nil, err
	}

	c.setDialog(Dialog{})
	if c.notif != nil {
		c.notif.Success("Appointment updated")
	}
	c.Refresh(ctx)
	return nil, nil
}

// Book crea un turno ya ligado a una mascota. Lo invoca el controller
// de mascotas desde su dialog "Create Appointment"; el refresh de esta
// página llegará en la próxima activación.
func (c *Controller) Book(ctx context.Context, d Draft) (map[string]string, error) {
	if errs := Validate(d); len(errs) > 0 {
		return errs, nil
	}

	if err := c.repo.Create(ctx, d); err != nil {
		c.report("Failed to create appointment", err)
		return nil, err
	}

	if c.notif != nil {
		c.notif.Success("Appointment created")
	}
	return nil, nil
}

func (c *Controller) report(prefix string, err error) {
	c.log.Error(prefix, map[string]any{"error": err.Error()})
	if c.notif != nil {
		c.notif.Error(prefix + ": " + userMessage(err))
	}
	if httpclient.IsUnauthorized(err) && c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

// userMessage prefiere el mensaje del backend para el snackbar.
func userMessage(err error) string {
	var re *httpclient.RequestError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return err.Error()
}
