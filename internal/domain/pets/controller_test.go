package pets

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"pet-admin-console/internal/domain/appointments"
	"pet-admin-console/internal/notify"
	"pet-admin-console/internal/platform/httpclient"
	"pet-admin-console/internal/platform/logger"
)

// -------------------------
// Fakes
// -------------------------

type fakeRepo struct {
	mu sync.Mutex

	pets    []Pet
	catalog BreedCatalog

	listErr   error
	createErr error
	updateErr error
	deleteErr error

	listCalls   int
	createCalls int
	updateCalls int
	deleteCalls int

	// listHook permite interceptar un List en vuelo (tests de secuencia).
	listHook func(call int) ([]Pet, error)
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		pets: []Pet{
			{ID: "p1", PetName: "Max", CustomerName: "John", Species: "Dog", BreedName: "Labrador", Gender: GenderMale, Birthday: "2020-05-15"},
			{ID: "p2", PetName: "Mia", CustomerName: "Jane", Species: "Cat", BreedName: "Persian", Gender: GenderFemale, Birthday: "2021-01-02"},
		},
		catalog: testCatalog(),
	}
}

func (r *fakeRepo) List(ctx context.Context) ([]Pet, error) {
	r.mu.Lock()
	r.listCalls++
	call := r.listCalls
	hook := r.listHook
	err := r.listErr
	out := make([]Pet, len(r.pets))
	copy(out, r.pets)
	r.mu.Unlock()

	if hook != nil {
		return hook(call)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *fakeRepo) Create(ctx context.Context, d Draft, photo *httpclient.Upload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.createCalls++
	if r.createErr != nil {
		return r.createErr
	}
	r.pets = append(r.pets, Pet{
		ID:           "p-new",
		PetName:      d.PetName,
		CustomerName: d.CustomerName,
		Species:      d.Species,
		BreedName:    d.BreedName,
		Gender:       Gender(d.Gender),
		Birthday:     d.Birthday,
	})
	return nil
}

func (r *fakeRepo) Update(ctx context.Context, id string, d Draft, photo *httpclient.Upload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.updateCalls++
	if r.updateErr != nil {
		return r.updateErr
	}
	for i := range r.pets {
		if r.pets[i].ID == id {
			r.pets[i].PetName = d.PetName
			r.pets[i].CustomerName = d.CustomerName
			r.pets[i].Species = d.Species
			r.pets[i].BreedName = d.BreedName
			return nil
		}
	}
	return errors.New("not found")
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.deleteCalls++
	if r.deleteErr != nil {
		return r.deleteErr
	}
	for i := range r.pets {
		if r.pets[i].ID == id {
			r.pets = append(r.pets[:i], r.pets[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (r *fakeRepo) GroupedBreeds(ctx context.Context) (BreedCatalog, error) {
	return r.catalog, nil
}

type fakeBooker struct {
	drafts []appointments.Draft
	errs   map[string]string
	err    error
}

func (b *fakeBooker) Book(ctx context.Context, d appointments.Draft) (map[string]string, error) {
	if len(b.errs) > 0 {
		return b.errs, nil
	}
	if b.err != nil {
		return nil, b.err
	}
	b.drafts = append(b.drafts, d)
	return nil, nil
}

func newTestController(repo *fakeRepo, booker Booker) (*Controller, *notify.Memory) {
	n := notify.NewMemory(10)
	c := NewController(Deps{
		Repo:     repo,
		Booker:   booker,
		Notifier: n,
		Log:      logger.Nop(),
	})
	return c, n
}

// -------------------------
// Tests
// -------------------------

func TestActivate_FetchesRecordsAndCatalog(t *testing.T) {
	repo := newFakeRepo()
	c, _ := newTestController(repo, nil)

	c.Activate(context.Background())

	s := c.State()
	if len(s.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(s.Records))
	}
	if s.Catalog == nil || !s.Catalog.Contains("Dog", "Labrador") {
		t.Fatal("catalog must be loaded on activation")
	}
	if s.Loading || s.Err != nil {
		t.Fatalf("unexpected state loading=%v err=%v", s.Loading, s.Err)
	}
}

func TestSubmitAdd_InvalidDraftIssuesNoNetworkCall(t *testing.T) {
	repo := newFakeRepo()
	c, _ := newTestController(repo, nil)
	c.Activate(context.Background())

	c.OpenAdd()
	errs, err := c.SubmitAdd(context.Background(), Draft{PetName: "Max"}, nil)
	if err != nil {
		t.Fatalf("validation failure must not be an error: %v", err)
	}
	if len(errs) == 0 {
		t.Fatal("expected field errors for blank draft")
	}
	if repo.createCalls != 0 {
		t.Fatalf("no create must be issued on invalid draft, got %d", repo.createCalls)
	}
}

func TestSubmitAdd_SuccessRefreshesFromBackend(t *testing.T) {
	repo := newFakeRepo()
	c, _ := newTestController(repo, nil)
	c.Activate(context.Background())
	listCallsBefore := repo.listCalls

	c.OpenAdd()
	errs, err := c.SubmitAdd(context.Background(), Draft{
		PetName:      "Rex",
		CustomerName: "Ana",
		Species:      "Dog",
		BreedName:    "Beagle",
		Gender:       "Male",
		Birthday:     "2022-03-01",
	}, nil)
	if err != nil || len(errs) != 0 {
		t.Fatalf("submit: errs=%v err=%v", errs, err)
	}

	if repo.createCalls != 1 {
		t.Fatalf("expected exactly one create, got %d", repo.createCalls)
	}
	if repo.listCalls != listCallsBefore+1 {
		t.Fatal("success must trigger a fresh list fetch")
	}

	s := c.State()
	if len(s.Records) != 3 {
		t.Fatalf("records must reflect the backend state, got %d", len(s.Records))
	}
	if s.Dialog.Kind != DialogNone {
		t.Fatal("dialog must close on success")
	}
}

func TestSubmitEdit_PreservesOwner(t *testing.T) {
	repo := newFakeRepo()
	c, _ := newTestController(repo, nil)
	c.Activate(context.Background())

	target := c.State().Records[0]
	c.OpenEdit(target)

	d := DraftFrom(target)
	d.PetName = "Maximus"
	d.CustomerName = "Intruder" // debe ignorarse

	errs, err := c.SubmitEdit(context.Background(), d, nil)
	if err != nil || len(errs) != 0 {
		t.Fatalf("submit edit: errs=%v err=%v", errs, err)
	}

	for _, p := range c.State().Records {
		if p.ID == target.ID {
			if p.PetName != "Maximus" {
				t.Fatalf("name must be updated, got %q", p.PetName)
			}
			if p.CustomerName != "John" {
				t.Fatalf("owner is immutable on edit, got %q", p.CustomerName)
			}
			return
		}
	}
	t.Fatal("edited pet missing from records")
}

func TestDeleteFlow_DeclineLeavesEverythingUnchanged(t *testing.T) {
	repo := newFakeRepo()
	c, _ := newTestController(repo, nil)
	c.Activate(context.Background())

	target := c.State().Records[0]
	c.OpenDeleteConfirm(target)
	c.DeclineDelete()

	s := c.State()
	if s.Dialog.Kind != DialogNone {
		t.Fatal("declining must close only the confirmation")
	}
	if len(s.Records) != 2 || repo.deleteCalls != 0 {
		t.Fatal("declining must not touch the records")
	}
}

func TestDeleteFlow_ConfirmDeletesAndRefreshes(t *testing.T) {
	repo := newFakeRepo()
	c, _ := newTestController(repo, nil)
	c.Activate(context.Background())

	target := c.State().Records[0]
	c.OpenDeleteConfirm(target)
	if err := c.ConfirmDelete(context.Background()); err != nil {
		t.Fatalf("confirm delete: %v", err)
	}

	if repo.deleteCalls != 1 {
		t.Fatalf("expected one delete, got %d", repo.deleteCalls)
	}
	for _, p := range c.State().Records {
		if p.ID == target.ID {
			t.Fatal("deleted pet must be gone after refresh")
		}
	}
}

func TestConfirmDelete_WithoutPendingConfirmationFails(t *testing.T) {
	repo := newFakeRepo()
	c, _ := newTestController(repo, nil)
	c.Activate(context.Background())

	if err := c.ConfirmDelete(context.Background()); err == nil {
		t.Fatal("delete must require an open confirmation")
	}
	if repo.deleteCalls != 0 {
		t.Fatal("no delete may be issued without confirmation")
	}
}

func TestRefresh_FailureKeepsPriorRecords(t *testing.T) {
	repo := newFakeRepo()
	c, n := newTestController(repo, nil)
	c.Activate(context.Background())

	repo.mu.Lock()
	repo.listErr = errors.New("backend down")
	repo.mu.Unlock()

	c.Refresh(context.Background())

	s := c.State()
	if len(s.Records) != 2 {
		t.Fatal("prior records must stay visible on fetch failure")
	}
	if s.Err == nil || s.Loading {
		t.Fatalf("expected err set and loading cleared, got err=%v loading=%v", s.Err, s.Loading)
	}
	if len(n.Drain()) == 0 {
		t.Fatal("fetch failure must emit a notification")
	}
}

func TestRefresh_StaleResponseIsDiscarded(t *testing.T) {
	repo := newFakeRepo()
	c, _ := newTestController(repo, nil)

	release := make(chan struct{})
	firstStarted := make(chan struct{})

	repo.listHook = func(call int) ([]Pet, error) {
		if call == 1 {
			close(firstStarted)
			<-release
			// Respuesta vieja: una lista que ya no es la verdad.
			return []Pet{{ID: "stale", PetName: "Old"}}, nil
		}
		return []Pet{{ID: "fresh", PetName: "New"}}, nil
	}

	done := make(chan struct{})
	go func() {
		c.Refresh(context.Background())
		close(done)
	}()

	<-firstStarted
	c.Refresh(context.Background()) // supera al primero
	close(release)
	<-done

	s := c.State()
	if len(s.Records) != 1 || s.Records[0].ID != "fresh" {
		t.Fatalf("stale response must be discarded, got %+v", s.Records)
	}
}

func TestUnauthorizedTriggersInvalidation(t *testing.T) {
	repo := newFakeRepo()
	repo.listErr = &httpclient.RequestError{StatusCode: http.StatusUnauthorized, Message: "token expired"}

	invalidated := false
	c := NewController(Deps{
		Repo:           repo,
		Notifier:       notify.NewMemory(10),
		Log:            logger.Nop(),
		OnUnauthorized: func() { invalidated = true },
	})

	c.Refresh(context.Background())

	if !invalidated {
		t.Fatal("a 401 must trigger lazy session invalidation")
	}
}

func TestOpeningDialogReplacesPrevious(t *testing.T) {
	repo := newFakeRepo()
	c, _ := newTestController(repo, nil)
	c.Activate(context.Background())

	records := c.State().Records
	c.OpenDetails(records[0])
	c.OpenDetails(records[1])

	s := c.State()
	if s.Dialog.Kind != DialogDetails || s.Dialog.Target.ID != records[1].ID {
		t.Fatalf("opening a dialog must replace the previous target, got %+v", s.Dialog)
	}
}

func TestSubmitCreateAppointment_BindsPetFromDialogTarget(t *testing.T) {
	repo := newFakeRepo()
	booker := &fakeBooker{}
	c, _ := newTestController(repo, booker)
	c.Activate(context.Background())

	target := c.State().Records[0]
	c.OpenCreateAppointment(target)

	errs, err := c.SubmitCreateAppointment(context.Background(), appointments.Draft{
		PetID:           "spoofed", // el binding viene del target, no del form
		ServiceType:     "Grooming",
		AppointmentDate: "2026-09-01",
		AppointmentTime: "10:00",
	})
	if err != nil || len(errs) != 0 {
		t.Fatalf("book: errs=%v err=%v", errs, err)
	}

	if len(booker.drafts) != 1 {
		t.Fatalf("expected one booking, got %d", len(booker.drafts))
	}
	booked := booker.drafts[0]
	if booked.PetID != target.ID || booked.PetName != target.PetName {
		t.Fatalf("pet binding must come from the dialog target, got %+v", booked)
	}
	if booked.CustomerName != target.CustomerName {
		t.Fatalf("owner defaults from the pet record, got %q", booked.CustomerName)
	}
	if c.State().Dialog.Kind != DialogNone {
		t.Fatal("dialog must close after booking")
	}
}
