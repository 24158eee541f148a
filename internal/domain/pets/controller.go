package pets

import (
	"context"
	"errors"
	"strings"
	"sync"

	"pet-admin-console/internal/domain/appointments"
	"pet-admin-console/internal/notify"
	"pet-admin-console/internal/platform/httpclient"
	"pet-admin-console/internal/platform/logger"
)

// Booker crea turnos ya ligados a una mascota. Lo implementa el
// controller de turnos.
type Booker interface {
	Book(ctx context.Context, d appointments.Draft) (map[string]string, error)
}

// DialogKind identifica el dialog activo de la página de mascotas.
// A lo sumo uno activo: abrir otro reemplaza al anterior.
type DialogKind int

const (
	DialogNone DialogKind = iota
	DialogAdd
	DialogEdit
	DialogDetails
	DialogDeleteConfirm
	DialogCreateAppointment
)

// Dialog es el dialog activo con su mascota target (zero para Add).
type Dialog struct {
	Kind   DialogKind
	Target Pet
}

// State es el snapshot que lee la capa de presentación.
type State struct {
	Records []Pet
	Catalog BreedCatalog
	Loading bool
	Err     error
	Dialog  Dialog
}

type Deps struct {
	Repo     Repository
	Booker   Booker
	Notifier notify.Notifier
	Log      logger.Logger

	// OnUnauthorized se dispara cuando un request clasifica como 401
	// (invalidación lazy de la sesión).
	OnUnauthorized func()
}

// Controller es el dueño de la colección en memoria de mascotas, del
// catálogo de razas y del estado transitorio de la página. El backend
// es la fuente de verdad: tras cada mutación exitosa se re-fetchea la
// lista completa, nunca se parchea localmente.
type Controller struct {
	repo           Repository
	booker         Booker
	notif          notify.Notifier
	log            logger.Logger
	onUnauthorized func()

	mu       sync.Mutex
	records  []Pet
	catalog  BreedCatalog
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
		booker:         d.Booker,
		notif:          d.Notifier,
		log:            log.With(map[string]any{"page": "pets"}),
		onUnauthorized: d.OnUnauthorized,
	}
}

// Activate corre el fetch inicial y trae el catálogo de razas una sola
// vez por vida del controller (no hay cache cross-página).
func (c *Controller) Activate(ctx context.Context) {
	c.mu.Lock()
	needCatalog := c.catalog == nil
	c.mu.Unlock()

	if needCatalog {
		catalog, err := c.repo.GroupedBreeds(ctx)
		if err != nil {
			c.report("Failed to fetch breeds data", err)
		} else {
			c.mu.Lock()
			c.catalog = catalog
			c.mu.Unlock()
		}
	}

	c.Refresh(ctx)
}

// Refresh re-ejecuta List(). Es el ÚNICO mecanismo por el que la vista
// observa el efecto de un create/update/delete. Guard de secuencia:
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
		c.report("Failed to fetch pets", err)
		return
	}
	c.records = records
	c.lastErr = nil
}

// State devuelve un snapshot consistente para la vista.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	records := make([]Pet, len(c.records))
	copy(records, c.records)

	return State{
		Records: records,
		Catalog: c.catalog,
		Loading: c.loading,
		Err:     c.lastErr,
		Dialog:  c.dialog,
	}
}

func (c *Controller) OpenAdd()          { c.setDialog(Dialog{Kind: DialogAdd}) }
func (c *Controller) OpenEdit(p Pet)    { c.setDialog(Dialog{Kind: DialogEdit, Target: p}) }
func (c *Controller) OpenDetails(p Pet) { c.setDialog(Dialog{Kind: DialogDetails, Target: p}) }
func (c *Controller) CloseDialog()      { c.setDialog(Dialog{}) }

func (c *Controller) OpenDeleteConfirm(p Pet) {
	c.setDialog(Dialog{Kind: DialogDeleteConfirm, Target: p})
}
func (c *Controller) OpenCreateAppointment(p Pet) {
	c.setDialog(Dialog{Kind: DialogCreateAppointment, Target: p})
}

func (c *Controller) setDialog(d Dialog) {
	c.mu.Lock()
	c.dialog = d
	c.mu.Unlock()
}

// SubmitAdd valida y crea la mascota (con foto opcional). Si el
// validador reporta errores no se emite ningún request. Un upload
// fallido aborta el alta completa: no queda registro parcial.
func (c *Controller) SubmitAdd(ctx context.Context, d Draft, photo *httpclient.Upload) (map[string]string, error) {
	c.mu.Lock()
	catalog := c.catalog
	c.mu.Unlock()

	if errs := Validate(d, ModeCreate, catalog); len(errs) > 0 {
		return errs, nil
	}

	if err := c.repo.Create(ctx, d, photo); err != nil {
		c.report("Failed to add pet", err)
		return nil, err
	}

	c.setDialog(Dialog{})
	if c.notif != nil {
		c.notif.Success("Pet added successfully!")
	}
	c.Refresh(ctx)
	return nil, nil
}

// SubmitEdit valida y envía la edición de la mascota target. El dueño
// es inmutable: se preserva el del registro, ignorando el borrador.
func (c *Controller) SubmitEdit(ctx context.Context, d Draft, photo *httpclient.Upload) (map[string]string, error) {
	c.mu.Lock()
	if c.dialog.Kind != DialogEdit {
		c.mu.Unlock()
		return nil, errors.New("no pet being edited")
	}
	target := c.dialog.Target
	catalog := c.catalog
	c.mu.Unlock()

	d.CustomerName = target.CustomerName

	if errs := Validate(d, ModeEdit, catalog); len(errs) > 0 {
		return errs, nil
	}

	if err := c.repo.Update(ctx, target.ID, d, photo); err != nil {
		c.report("Failed to update pet", err)
		return nil, err
	}

	c.setDialog(Dialog{})
	if c.notif != nil {
		c.notif.Success("Pet updated successfully!")
	}
	c.Refresh(ctx)
	return nil, nil
}

// DeclineDelete cierra solo la confirmación; nada más cambia.
func (c *Controller) DeclineDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dialog.Kind == DialogDeleteConfirm {
		c.dialog = Dialog{}
	}
}

// ConfirmDelete borra la mascota target. El borrado es terminal desde
// la consola; la lista se reconcilia con el backend vía Refresh.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	if c.dialog.Kind != DialogDeleteConfirm {
		c.mu.Unlock()
		return errors.New("no deletion pending")
	}
	target := c.dialog.Target
	c.mu.Unlock()

	if err := c.repo.Delete(ctx, target.ID); err != nil {
		c.report("Failed to delete pet", err)
		return err
	}

	c.setDialog(Dialog{})
	if c.notif != nil {
		c.notif.Success("Pet deleted")
	}
	c.Refresh(ctx)
	return nil
}

// SubmitCreateAppointment arma el turno para la mascota target del
// dialog y lo delega al booker. El binding mascota viene SIEMPRE del
// target, nunca del form.
func (c *Controller) SubmitCreateAppointment(ctx context.Context, d appointments.Draft) (map[string]string, error) {
	c.mu.Lock()
	if c.dialog.Kind != DialogCreateAppointment {
		c.mu.Unlock()
		return nil, errors.New("no appointment dialog open")
	}
	target := c.dialog.Target
	c.mu.Unlock()

	if c.booker == nil {
		return nil, errors.New("appointment booking not available")
	}

	d.PetID = target.ID
	d.PetName = target.PetName
	if strings.TrimSpace(d.CustomerName) == "" {
		d.CustomerName = target.CustomerName
	}

	errs, err := c.booker.Book(ctx, d)
	if err != nil || len(errs) > 0 {
		return errs, err
	}

	c.setDialog(Dialog{})
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
