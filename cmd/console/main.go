package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pet-admin-console/internal/adapters/backend/rest"
	"pet-admin-console/internal/adapters/storage/sqlite"
	"pet-admin-console/internal/domain/appointments"
	"pet-admin-console/internal/domain/dashboard"
	"pet-admin-console/internal/domain/pets"
	"pet-admin-console/internal/notify"
	"pet-admin-console/internal/platform/config"
	"pet-admin-console/internal/platform/httpclient"
	"pet-admin-console/internal/platform/logger"
	"pet-admin-console/internal/router"
	"pet-admin-console/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logg := logger.NewFromEnv()

	client, err := httpclient.New(cfg.BackendBaseURL, cfg.BackendTimeout)
	if err != nil {
		log.Fatalf("backend client: %v", err)
	}

	store, err := sqlite.Open(cfg.CredentialsDB)
	if err != nil {
		log.Fatalf("credential store: %v", err)
	}
	defer store.Close()

	sess := session.NewManager(rest.NewAuthAPI(client), store, logg)
	sess.Restore()
	client.Tokens = sess

	notifications := notify.NewMemory(50)

	apptCtrl := appointments.NewController(appointments.Deps{
		Repo:           rest.NewAppointmentsRepo(client, logg),
		Notifier:       notifications,
		Log:            logg,
		OnUnauthorized: sess.Invalidate,
	})
	petCtrl := pets.NewController(pets.Deps{
		Repo:           rest.NewPetsRepo(client, logg),
		Booker:         apptCtrl,
		Notifier:       notifications,
		Log:            logg,
		OnUnauthorized: sess.Invalidate,
	})
	dashCtrl := dashboard.NewController(dashboard.Deps{
		Repo:           rest.NewDashboardRepo(client, logg),
		Notifier:       notifications,
		Log:            logg,
		OnUnauthorized: sess.Invalidate,
	})

	r := router.NewRouter(router.Options{
		Session:       sess,
		Pets:          petCtrl,
		Appointments:  apptCtrl,
		Dashboard:     dashCtrl,
		Notifications: notifications,
	})

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		srv.Close()
	}()

	logg.Info("console listening", map[string]any{
		"addr":    cfg.ListenAddr,
		"backend": cfg.BackendBaseURL,
	})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
