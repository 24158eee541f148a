package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pet-admin-console/internal/adapters/backend/rest"
	"pet-admin-console/internal/adapters/storage/memory"
	"pet-admin-console/internal/domain/appointments"
	"pet-admin-console/internal/domain/dashboard"
	"pet-admin-console/internal/domain/pets"
	"pet-admin-console/internal/notify"
	"pet-admin-console/internal/platform/httpclient"
	"pet-admin-console/internal/platform/logger"
	"pet-admin-console/internal/router"
	"pet-admin-console/internal/session"
)

const (
	testUser  = "admin"
	testPass  = "s3cret"
	testToken = "tok-e2e"
)

// newFakeBackend levanta el API remoto contra el que habla el gateway.
// Las rutas de entidades exigen el bearer emitido en el login.
func newFakeBackend(t *testing.T) *httptest.Server {
	t.Helper()

	authorized := func(r *http.Request) bool {
		return r.Header.Get("Authorization") == "Bearer "+testToken
	}
	env := func(w http.ResponseWriter, data any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 200, "data": data})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["username"] != testUser || req["password"] != testPass {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"message": "Invalid credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"token": testToken, "name": "Admin User"})
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /pet/list", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		env(w, []map[string]any{
			{"id": "p1", "petName": "Max", "customerName": "John", "species": "Dog", "breedName": "Labrador", "gender": "Male", "birthday": "2020-05-15"},
		})
	})
	mux.HandleFunc("GET /pet-breeds/grouped", func(w http.ResponseWriter, r *http.Request) {
		env(w, []map[string]any{{"species": "Dog", "breeds": []string{"Labrador"}}})
	})
	mux.HandleFunc("GET /appointments/list", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		env(w, []map[string]any{
			{"id": "a1", "petId": "p1", "petName": "Max", "serviceType": "Grooming", "appointmentDate": "2026-09-01", "appointmentTime": "10:00", "status": "Scheduled"},
		})
	})
	mux.HandleFunc("GET /stats/pets", func(w http.ResponseWriter, r *http.Request) {
		env(w, map[string]any{"totalPets": 1, "speciesDistribution": map[string]int{"Dog": 1}})
	})
	mux.HandleFunc("GET /stats/appointments", func(w http.ResponseWriter, r *http.Request) {
		env(w, map[string]any{"appointmentsToday": 1, "cancellationsToday": 0})
	})
	mux.HandleFunc("GET /api/dashboard", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"totalPets": 1, "activeClients": 1, "todayAppointments": 1, "medicalRecords": 0})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// newGateway cablea la consola completa contra el backend fake.
func newGateway(t *testing.T, backendURL string) *httptest.Server {
	t.Helper()

	client, err := httpclient.New(backendURL, 2*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	sess := session.NewManager(rest.NewAuthAPI(client), memory.NewCredentialStore(), logger.Nop())
	client.Tokens = sess

	notes := notify.NewMemory(20)
	petsCtl := pets.NewController(pets.Deps{
		Repo:           rest.NewPetsRepo(client, logger.Nop()),
		Notifier:       notes,
		Log:            logger.Nop(),
		OnUnauthorized: sess.Invalidate,
	})
	apptCtl := appointments.NewController(appointments.Deps{
		Repo:           rest.NewAppointmentsRepo(client, logger.Nop()),
		Notifier:       notes,
		Log:            logger.Nop(),
		OnUnauthorized: sess.Invalidate,
	})
	dashCtl := dashboard.NewController(dashboard.Deps{
		Repo:           rest.NewDashboardRepo(client, logger.Nop()),
		Notifier:       notes,
		Log:            logger.Nop(),
		OnUnauthorized: sess.Invalidate,
	})

	srv := httptest.NewServer(router.NewRouter(router.Options{
		Session:       sess,
		Pets:          petsCtl,
		Appointments:  apptCtl,
		Dashboard:     dashCtl,
		Notifications: notes,
	}))
	t.Cleanup(srv.Close)
	return srv
}

// noRedirectClient no sigue redirects: los tests observan el 303 crudo.
var noRedirectClient = &http.Client{
	CheckRedirect: func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	},
}

func doReq(t *testing.T, baseURL, method, path string, body any) (int, http.Header, []byte) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := noRedirectClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, resp.Header, raw
}

func login(t *testing.T, baseURL string) {
	t.Helper()
	st, _, body := doReq(t, baseURL, "POST", "/login", map[string]string{
		"username": testUser,
		"password": testPass,
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 login, got %d body=%s", st, string(body))
	}
}

func TestHTTP_AnonymousIsRedirectedToLogin(t *testing.T) {
	backend := newFakeBackend(t)
	gw := newGateway(t, backend.URL)

	for _, path := range []string{"/", "/dashboard", "/pets", "/appointments", "/no-such-page"} {
		st, hdr, _ := doReq(t, gw.URL, "GET", path, nil)
		if st != http.StatusSeeOther {
			t.Fatalf("GET %s: expected 303, got %d", path, st)
		}
		if loc := hdr.Get("Location"); loc != "/login" {
			t.Fatalf("GET %s: expected redirect to /login, got %q", path, loc)
		}
	}

	// Las rutas públicas siguen accesibles.
	if st, _, _ := doReq(t, gw.URL, "GET", "/login", nil); st != http.StatusOK {
		t.Fatalf("expected 200 on login page, got %d", st)
	}
	if st, _, _ := doReq(t, gw.URL, "GET", "/health", nil); st != http.StatusOK {
		t.Fatalf("expected 200 on health, got %d", st)
	}
}

func TestHTTP_LoginValidation(t *testing.T) {
	backend := newFakeBackend(t)
	gw := newGateway(t, backend.URL)

	// Campos vacíos: errores de campo, sin tocar el backend.
	st, _, body := doReq(t, gw.URL, "POST", "/login", map[string]string{"username": " "})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 on blank login, got %d body=%s", st, string(body))
	}
	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	_ = json.Unmarshal(body, &resp)
	if len(resp.Errors) == 0 {
		t.Fatalf("expected field errors, got %s", string(body))
	}

	// Credenciales malas: el mensaje del backend llega al cliente.
	st, _, body = doReq(t, gw.URL, "POST", "/login", map[string]string{
		"username": testUser,
		"password": "wrong",
	})
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 on bad credentials, got %d", st)
	}
	if !strings.Contains(string(body), "Invalid credentials") {
		t.Fatalf("backend message must surface, got %s", string(body))
	}
}

func TestHTTP_EndToEnd_SessionLifecycle(t *testing.T) {
	backend := newFakeBackend(t)
	gw := newGateway(t, backend.URL)

	login(t, gw.URL)

	// La raíz aterriza en el dashboard.
	st, hdr, _ := doReq(t, gw.URL, "GET", "/", nil)
	if st != http.StatusSeeOther || hdr.Get("Location") != "/dashboard" {
		t.Fatalf("expected 303 to /dashboard, got %d %q", st, hdr.Get("Location"))
	}

	// Todas las páginas responden con datos del backend.
	st, _, body := doReq(t, gw.URL, "GET", "/pets", nil)
	if st != http.StatusOK || !strings.Contains(string(body), `"petName":"Max"`) {
		t.Fatalf("pets page: got %d body=%s", st, string(body))
	}

	st, _, body = doReq(t, gw.URL, "GET", "/appointments", nil)
	if st != http.StatusOK || !strings.Contains(string(body), `"status":"Scheduled"`) {
		t.Fatalf("appointments page: got %d body=%s", st, string(body))
	}

	st, _, body = doReq(t, gw.URL, "GET", "/dashboard", nil)
	if st != http.StatusOK || !strings.Contains(string(body), `"totalPets":1`) {
		t.Fatalf("dashboard page: got %d body=%s", st, string(body))
	}

	// Autenticado, un path desconocido es un 404 plano (no redirect).
	if st, _, _ = doReq(t, gw.URL, "GET", "/no-such-page", nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown path while authenticated, got %d", st)
	}

	// Logout: la sesión muere localmente y las páginas vuelven a redirigir.
	if st, _, _ = doReq(t, gw.URL, "POST", "/logout", nil); st != http.StatusOK {
		t.Fatalf("expected 200 logout, got %d", st)
	}
	st, hdr, _ = doReq(t, gw.URL, "GET", "/pets", nil)
	if st != http.StatusSeeOther || hdr.Get("Location") != "/login" {
		t.Fatalf("expected 303 to /login after logout, got %d %q", st, hdr.Get("Location"))
	}
}

func TestHTTP_SessionEndpointReportsState(t *testing.T) {
	backend := newFakeBackend(t)
	gw := newGateway(t, backend.URL)

	var resp struct {
		Authenticated bool   `json:"authenticated"`
		UserName      string `json:"userName"`
	}

	_, _, body := doReq(t, gw.URL, "GET", "/session", nil)
	_ = json.Unmarshal(body, &resp)
	if resp.Authenticated {
		t.Fatal("fresh gateway must be anonymous")
	}

	login(t, gw.URL)

	_, _, body = doReq(t, gw.URL, "GET", "/session", nil)
	_ = json.Unmarshal(body, &resp)
	if !resp.Authenticated || resp.UserName != "Admin User" {
		t.Fatalf("expected authenticated session, got %s", string(body))
	}
}
